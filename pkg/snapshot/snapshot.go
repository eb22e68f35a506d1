// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/registry"
)

func resolve(reg *registry.Registry, uri, tag string) (driver.Machine, error) {
	if tag == "" {
		return nil, errors.New("expected a snapshot tag")
	}
	return reg.Resolve(uri)
}

func Del(ctx context.Context, reg *registry.Registry, uri, tag string) error {
	m, err := resolve(reg, uri, tag)
	if err != nil {
		return err
	}
	logrus.Infof("Deleting snapshot %q of %q", tag, m.Name())
	return m.DeleteSnapshot(ctx, tag)
}

func Save(ctx context.Context, reg *registry.Registry, uri, tag string) error {
	m, err := resolve(reg, uri, tag)
	if err != nil {
		return err
	}
	logrus.Infof("Creating snapshot %q of %q", tag, m.Name())
	return m.CreateSnapshot(ctx, tag)
}

// Load reverts the machine to tag. Whether the machine is started afterwards depends on the backend.
func Load(ctx context.Context, reg *registry.Registry, uri, tag string) error {
	m, err := resolve(reg, uri, tag)
	if err != nil {
		return err
	}
	logrus.Infof("Reverting %q to snapshot %q", m.Name(), tag)
	return m.RevertToSnapshot(ctx, tag)
}

func List(ctx context.Context, reg *registry.Registry, uri string) ([]string, error) {
	m, err := reg.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return m.ListSnapshots(ctx)
}
