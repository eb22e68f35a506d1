// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
)

// Lifecycle defines the power operations.
type Lifecycle interface {
	// Start boots the machine without a GUI.
	// Success means the backend command exited 0; the power state is not verified.
	Start(ctx context.Context) error

	// Stop powers the machine off hard.
	Stop(ctx context.Context) error
}

// Snapshot defines operations for managing snapshots.
type Snapshot interface {
	// CreateSnapshot takes a snapshot named tag. Duplicate names are left to the backend.
	CreateSnapshot(ctx context.Context, tag string) error

	// RevertToSnapshot restores the snapshot named tag.
	// Whether the machine is started afterwards is backend specific: vmware starts it,
	// virtualbox does not.
	RevertToSnapshot(ctx context.Context, tag string) error

	DeleteSnapshot(ctx context.Context, tag string) error

	// ListSnapshots returns snapshot names in the order the backend printed them.
	ListSnapshots(ctx context.Context) ([]string, error)
}

// Machine is a handle to one virtual machine of a backend.
type Machine interface {
	Lifecycle
	Snapshot

	// Name returns the path or name the machine was listed or constructed with.
	Name() string
}

// Driver enumerates and constructs machines of one backend.
// All machines of a Driver share its ExecContext.
type Driver interface {
	// Name returns the backend name, e.g. "vmware".
	Name() string

	// ListRunning returns the running machines, in the order the backend printed them.
	ListRunning(ctx context.Context) ([]Machine, error)

	// FromPath returns a handle for the machine at path. It does not run any command.
	FromPath(path string) (Machine, error)

	ExecContext() *ExecContext
}
