// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package vbox drives VirtualBox through VBoxManage.
package vbox

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/executil"
)

const (
	Name           = "virtualbox"
	DefaultProgram = "VBoxManage"
)

type Driver struct {
	exec *driver.ExecContext
}

var _ driver.Driver = (*Driver)(nil)

// New returns a driver that runs program (DefaultProgram when empty) with runner.
func New(runner executil.Runner, program string) *Driver {
	if program == "" {
		program = DefaultProgram
	}
	return &Driver{
		exec: driver.NewExecContext(program, runner),
	}
}

func (d *Driver) Name() string {
	return Name
}

func (d *Driver) ExecContext() *driver.ExecContext {
	return d.exec
}

func (d *Driver) ListRunning(ctx context.Context) ([]driver.Machine, error) {
	res, err := d.exec.Run(ctx, "list", "runningvms")
	if err != nil {
		return nil, err
	}
	machines := make([]driver.Machine, 0, len(res.Lines))
	for _, line := range res.Lines {
		name, braced, err := parseVMLine(line)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(braced)
		if err != nil {
			return nil, &driver.InvalidResponseError{Line: line, Err: err}
		}
		machines = append(machines, &Machine{driver: d, name: name, uuid: id.String()})
	}
	return machines, nil
}

// FromPath returns a handle addressed by path, which may be a VM name or a .vbox file.
func (d *Driver) FromPath(path string) (driver.Machine, error) {
	if path == "" {
		return nil, errors.New("virtual machine name must not be empty")
	}
	return &Machine{driver: d, name: path}, nil
}

type Machine struct {
	driver *Driver
	name   string
	// uuid is set for listed machines only.
	uuid string
}

var _ driver.Machine = (*Machine)(nil)

func (m *Machine) Name() string {
	return m.name
}

// UUID returns the VirtualBox UUID, or "" when the machine was not listed by the backend.
func (m *Machine) UUID() string {
	return m.uuid
}

// id is what VBoxManage is given to address the machine: the UUID when known, else the name.
func (m *Machine) id() string {
	if m.uuid != "" {
		return m.uuid
	}
	return m.name
}

func (m *Machine) ListSnapshots(ctx context.Context) ([]string, error) {
	res, err := m.driver.exec.Run(ctx, "snapshot", m.id(), "list", "--machinereadable")
	if err != nil {
		return nil, err
	}
	return parseSnapshotNames(res.Lines)
}

func (m *Machine) Start(ctx context.Context) error {
	_, err := m.driver.exec.Run(ctx, "startvm", m.id(), "--type", "headless")
	return err
}

func (m *Machine) Stop(ctx context.Context) error {
	_, err := m.driver.exec.Run(ctx, "controlvm", m.id(), "poweroff")
	return err
}

func (m *Machine) CreateSnapshot(ctx context.Context, tag string) error {
	_, err := m.driver.exec.Run(ctx, "snapshot", m.id(), "take", tag)
	return err
}

// RevertToSnapshot restores tag. Unlike vmware, the machine is not started afterwards.
func (m *Machine) RevertToSnapshot(ctx context.Context, tag string) error {
	_, err := m.driver.exec.Run(ctx, "snapshot", m.id(), "restore", tag)
	return err
}

func (m *Machine) DeleteSnapshot(ctx context.Context, tag string) error {
	_, err := m.driver.exec.Run(ctx, "snapshot", m.id(), "delete", tag)
	return err
}
