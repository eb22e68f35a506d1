// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/driver"
)

var (
	ErrSchemeNotFound = errors.New("scheme not found")
	ErrSchemeExists   = errors.New("scheme already registered")
	ErrNoHost         = errors.New("no host")
)

// Registry maps URI schemes to factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register installs f for scheme. Registering a scheme twice fails with ErrSchemeExists.
func (r *Registry) Register(scheme string, f Factory) error {
	if scheme == "" || strings.Contains(scheme, ":") {
		return fmt.Errorf("invalid scheme %q", scheme)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[scheme]; exists {
		return fmt.Errorf("%w: %q", ErrSchemeExists, scheme)
	}
	r.factories[scheme] = f
	logrus.Debugf("Registered scheme %q", scheme)
	return nil
}

// List returns the registered schemes, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.factories))
}

func (r *Registry) Get(scheme string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.factories[scheme]
	return f, exists
}

func (r *Registry) lookup(uri string) (Factory, URI, error) {
	u := ParseURI(uri)
	f, exists := r.Get(u.Scheme)
	if !exists {
		return nil, u, fmt.Errorf("%w: %q", ErrSchemeNotFound, u.Scheme)
	}
	return f, u, nil
}

// Resolve returns the machine named by uri.
func (r *Registry) Resolve(uri string) (driver.Machine, error) {
	f, u, err := r.lookup(uri)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Resolving %q with scheme %q", u.Body, u.Scheme)
	return f.MachineFor(u.Body)
}

// Driver returns the driver serving uri. The machine path part of uri, if any, is ignored.
func (r *Registry) Driver(uri string) (driver.Driver, error) {
	f, u, err := r.lookup(uri)
	if err != nil {
		return nil, err
	}
	d, _, err := f.DriverFor(u.Body)
	return d, err
}

// Close releases what the factories hold, such as shared ssh connections.
// The registry stays usable afterwards.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.RLock()
	factories := slices.Collect(maps.Values(r.factories))
	r.mu.RUnlock()

	var errs []error
	for _, f := range factories {
		if c, ok := f.(interface{ Close(context.Context) error }); ok {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
