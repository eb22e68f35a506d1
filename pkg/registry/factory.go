// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/executil"
)

// Factory produces drivers and machines for the body of a URI.
type Factory interface {
	// DriverFor returns the driver serving body, and the machine path within body.
	DriverFor(body string) (driver.Driver, string, error)

	MachineFor(body string) (driver.Machine, error)
}

// NewDriverFunc binds a backend to a Runner.
type NewDriverFunc func(executil.Runner) driver.Driver

func machineFor(f Factory, body string) (driver.Machine, error) {
	d, path, err := f.DriverFor(body)
	if err != nil {
		return nil, err
	}
	return d.FromPath(path)
}

type localFactory struct {
	driver driver.Driver
}

// Local returns a Factory that serves every body with d; the body is the machine path.
func Local(d driver.Driver) Factory {
	return &localFactory{driver: d}
}

func (f *localFactory) DriverFor(body string) (driver.Driver, string, error) {
	return f.driver, body, nil
}

func (f *localFactory) MachineFor(body string) (driver.Machine, error) {
	return machineFor(f, body)
}

type remoteFactory struct {
	newDriver NewDriverFunc
	opts      []executil.Opt

	mu      sync.Mutex
	runners []*executil.Remote
}

// Remote returns a Factory for bodies of the form "//host:path". Each call binds a
// new driver to an ssh Runner for the host, created with opts.
func Remote(newDriver NewDriverFunc, opts ...executil.Opt) Factory {
	return &remoteFactory{newDriver: newDriver, opts: opts}
}

func (f *remoteFactory) DriverFor(body string) (driver.Driver, string, error) {
	host, path, err := ParseRemote(body)
	if err != nil {
		return nil, "", err
	}
	runner, err := executil.NewRemote(host, f.opts...)
	if err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	f.runners = append(f.runners, runner)
	f.mu.Unlock()
	d := f.newDriver(runner)
	logrus.Debugf("Using %s driver on host %q", d.Name(), host)
	return d, path, nil
}

// Close stops the shared ssh connections of every runner the factory created.
func (f *remoteFactory) Close(ctx context.Context) error {
	f.mu.Lock()
	runners := f.runners
	f.runners = nil
	f.mu.Unlock()

	var errs []error
	for _, r := range runners {
		if err := r.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close the ssh connection to %q: %w", r.Host(), err))
		}
	}
	return errors.Join(errs...)
}

func (f *remoteFactory) MachineFor(body string) (driver.Machine, error) {
	return machineFor(f, body)
}
