// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package vmctlyaml

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mattn/go-shellwords"

	"github.com/lima-vm/vmctl/pkg/vbox"
	"github.com/lima-vm/vmctl/pkg/vmware"
)

// VMwareHostTypes are the values vmrun accepts for -T.
var VMwareHostTypes = []string{"ws", "fusion", "player", "server", "server1", "esx", "vc"}

func Validate(y *VMCtlYAML) error {
	var errs []error
	if y.VMware.Program == "" {
		errs = append(errs, errors.New("field `vmware.program` must be set"))
	}
	if y.VMware.HostType != "" && !slices.Contains(VMwareHostTypes, y.VMware.HostType) {
		errs = append(errs, fmt.Errorf("field `vmware.hostType` must be one of %v, got %q", VMwareHostTypes, y.VMware.HostType))
	}
	if y.VirtualBox.Program == "" {
		errs = append(errs, errors.New("field `virtualbox.program` must be set"))
	}
	if argv, err := shellwords.Parse(y.SSH.Command); err != nil {
		errs = append(errs, fmt.Errorf("field `ssh.command` is invalid: %w", err))
	} else if len(argv) == 0 {
		errs = append(errs, errors.New("field `ssh.command` must be set"))
	}
	if _, err := y.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if y.FileScheme != nil {
		switch *y.FileScheme {
		case "", vmware.Name, vbox.Name:
		default:
			errs = append(errs, fmt.Errorf("field `fileScheme` must be %q, %q or empty, got %q", vmware.Name, vbox.Name, *y.FileScheme))
		}
	}
	return errors.Join(errs...)
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (y *VMCtlYAML) TimeoutDuration() (time.Duration, error) {
	if y.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(y.Timeout)
	if err != nil {
		return 0, fmt.Errorf("field `timeout` is invalid: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("field `timeout` must not be negative, got %q", y.Timeout)
	}
	return d, nil
}
