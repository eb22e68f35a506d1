// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package vmware drives VMware Workstation and Fusion through vmrun.
// Machines are addressed by the path of their .vmx file.
package vmware

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/executil"
)

const (
	Name           = "vmware"
	DefaultProgram = "vmrun"
)

type options struct {
	program  string
	hostType string
}

type Opt func(*options)

// WithProgram overrides the vmrun executable. An empty program keeps DefaultProgram.
func WithProgram(program string) Opt {
	return func(o *options) {
		if program != "" {
			o.program = program
		}
	}
}

// WithHostType passes `-T hostType` (ws, fusion, player) to every vmrun invocation.
func WithHostType(hostType string) Opt {
	return func(o *options) {
		o.hostType = hostType
	}
}

type Driver struct {
	exec     *driver.ExecContext
	hostType string
}

var _ driver.Driver = (*Driver)(nil)

func New(runner executil.Runner, opts ...Opt) *Driver {
	o := options{program: DefaultProgram}
	for _, f := range opts {
		f(&o)
	}
	return &Driver{
		exec:     driver.NewExecContext(o.program, runner),
		hostType: o.hostType,
	}
}

func (d *Driver) Name() string {
	return Name
}

func (d *Driver) ExecContext() *driver.ExecContext {
	return d.exec
}

func (d *Driver) run(ctx context.Context, verb string, args ...string) (*executil.Result, error) {
	argv := make([]string, 0, len(args)+3)
	if d.hostType != "" {
		argv = append(argv, "-T", d.hostType)
	}
	argv = append(argv, verb)
	argv = append(argv, args...)
	return d.exec.Run(ctx, argv...)
}

func (d *Driver) ListRunning(ctx context.Context) ([]driver.Machine, error) {
	res, err := d.run(ctx, "list")
	if err != nil {
		return nil, err
	}
	paths, err := parseSummary(res.Lines, runningPrefix)
	if err != nil {
		return nil, err
	}
	machines := make([]driver.Machine, 0, len(paths))
	for _, path := range paths {
		machines = append(machines, d.machine(path))
	}
	return machines, nil
}

func (d *Driver) FromPath(path string) (driver.Machine, error) {
	if path == "" {
		return nil, errors.New("vmx path must not be empty")
	}
	return d.machine(path), nil
}

func (d *Driver) machine(path string) *Machine {
	return &Machine{driver: d, path: path}
}

type Machine struct {
	driver *Driver
	path   string
}

var _ driver.Machine = (*Machine)(nil)

func (m *Machine) Name() string {
	return m.path
}

func (m *Machine) ListSnapshots(ctx context.Context) ([]string, error) {
	res, err := m.driver.run(ctx, "listSnapshots", m.path)
	if err != nil {
		return nil, err
	}
	return parseSummary(res.Lines, snapshotsPrefix)
}

func (m *Machine) Start(ctx context.Context) error {
	_, err := m.driver.run(ctx, "start", m.path, "nogui")
	return err
}

func (m *Machine) Stop(ctx context.Context) error {
	_, err := m.driver.run(ctx, "stop", m.path, "hard")
	return err
}

func (m *Machine) CreateSnapshot(ctx context.Context, tag string) error {
	_, err := m.driver.run(ctx, "snapshot", m.path, tag)
	return err
}

// RevertToSnapshot restores tag and starts the machine, as vmrun leaves it powered off.
func (m *Machine) RevertToSnapshot(ctx context.Context, tag string) error {
	if _, err := m.driver.run(ctx, "revertToSnapshot", m.path, tag); err != nil {
		return err
	}
	logrus.Debugf("Starting %q after reverting to snapshot %q", m.path, tag)
	if err := m.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %q after reverting to snapshot %q: %w", m.path, tag, err)
	}
	return nil
}

func (m *Machine) DeleteSnapshot(ctx context.Context, tag string) error {
	_, err := m.driver.run(ctx, "deleteSnapshot", m.path, tag)
	return err
}
