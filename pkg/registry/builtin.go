// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"

	"github.com/lima-vm/sshocker/pkg/ssh"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/executil"
	"github.com/lima-vm/vmctl/pkg/vbox"
	"github.com/lima-vm/vmctl/pkg/vmctlyaml"
	"github.com/lima-vm/vmctl/pkg/vmware"
)

// RemotePrefix prefixes the scheme of a backend reached over ssh, e.g. "ssh+vmware".
const RemotePrefix = "ssh+"

// RunnerOpts returns the options for local and ssh runners configured by y.
func RunnerOpts(y *vmctlyaml.VMCtlYAML) (localOpts, remoteOpts []executil.Opt, err error) {
	timeout, err := y.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	localOpts = []executil.Opt{executil.WithTimeout(timeout)}
	remoteOpts = []executil.Opt{
		executil.WithTimeout(timeout),
		executil.WithSSHCommand(y.SSH.Command),
	}
	if y.SSH.ConfigFile != "" || y.SSH.Persist || len(y.SSH.AdditionalArgs) > 0 {
		remoteOpts = append(remoteOpts, executil.WithSSHConfig(&ssh.SSHConfig{
			ConfigFile:     y.SSH.ConfigFile,
			Persist:        y.SSH.Persist,
			AdditionalArgs: y.SSH.AdditionalArgs,
		}))
	}
	return localOpts, remoteOpts, nil
}

// NewBuiltin returns a registry with the vmware and virtualbox schemes, their ssh+
// variants, and the file scheme when y enables it. y must be validated.
func NewBuiltin(y *vmctlyaml.VMCtlYAML) (*Registry, error) {
	localOpts, remoteOpts, err := RunnerOpts(y)
	if err != nil {
		return nil, err
	}
	local, err := executil.NewLocal(localOpts...)
	if err != nil {
		return nil, err
	}

	backends := []struct {
		name      string
		newDriver NewDriverFunc
	}{
		{
			name: vmware.Name,
			newDriver: func(r executil.Runner) driver.Driver {
				return vmware.New(r, vmware.WithProgram(y.VMware.Program), vmware.WithHostType(y.VMware.HostType))
			},
		},
		{
			name: vbox.Name,
			newDriver: func(r executil.Runner) driver.Driver {
				return vbox.New(r, y.VirtualBox.Program)
			},
		},
	}

	reg := NewRegistry()
	for _, b := range backends {
		f := Local(b.newDriver(local))
		if err := reg.Register(b.name, f); err != nil {
			return nil, err
		}
		if err := reg.Register(RemotePrefix+b.name, Remote(b.newDriver, remoteOpts...)); err != nil {
			return nil, err
		}
		if y.FileScheme != nil && *y.FileScheme == b.name {
			if err := reg.Register(DefaultScheme, f); err != nil {
				return nil, err
			}
		}
	}
	if y.FileScheme != nil && *y.FileScheme != "" {
		if _, ok := reg.Get(DefaultScheme); !ok {
			return nil, fmt.Errorf("unknown backend %q for the %s scheme", *y.FileScheme, DefaultScheme)
		}
	}
	return reg, nil
}
