// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/lima-vm/sshocker/pkg/ssh"
	"gotest.tools/v3/assert"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/executil"
	"github.com/lima-vm/vmctl/pkg/executil/executiltest"
	"github.com/lima-vm/vmctl/pkg/vmware"
)

type recordingFactory struct {
	driver driver.Driver
	bodies []string
}

var _ Factory = (*recordingFactory)(nil)

func (f *recordingFactory) DriverFor(body string) (driver.Driver, string, error) {
	f.bodies = append(f.bodies, body)
	return f.driver, body, nil
}

func (f *recordingFactory) MachineFor(body string) (driver.Machine, error) {
	return machineFor(f, body)
}

func newVMware(r executil.Runner) driver.Driver {
	return vmware.New(r)
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	first := Local(newVMware(executiltest.New()))
	second := Local(newVMware(executiltest.New()))
	assert.NilError(t, reg.Register("vmware", first))
	assert.NilError(t, reg.Register("ssh+vmware", Remote(newVMware)))

	// Test registering duplicate scheme (should not overwrite)
	err := reg.Register("vmware", second)
	assert.ErrorIs(t, err, ErrSchemeExists)
	f, exists := reg.Get("vmware")
	assert.Assert(t, exists)
	assert.Equal(t, f, first)

	assert.ErrorContains(t, reg.Register("", first), "invalid scheme")
	assert.ErrorContains(t, reg.Register("a:b", first), "invalid scheme")

	assert.DeepEqual(t, reg.List(), []string{"ssh+vmware", "vmware"})

	_, exists = reg.Get("nosuch")
	assert.Assert(t, !exists)
}

func TestResolve(t *testing.T) {
	reg := NewRegistry()
	rf := &recordingFactory{driver: newVMware(executiltest.New())}
	assert.NilError(t, reg.Register("vmware", rf))

	m, err := reg.Resolve("vmware:/path/to/vm")
	assert.NilError(t, err)
	assert.Equal(t, m.Name(), "/path/to/vm")
	assert.DeepEqual(t, rf.bodies, []string{"/path/to/vm"})

	_, err = reg.Resolve("nosuch:x")
	assert.ErrorIs(t, err, ErrSchemeNotFound)

	_, err = reg.Resolve("/vms/a.vmx")
	assert.ErrorIs(t, err, ErrSchemeNotFound)
	assert.NilError(t, reg.Register(DefaultScheme, rf))
	m, err = reg.Resolve("/vms/a.vmx")
	assert.NilError(t, err)
	assert.Equal(t, m.Name(), "/vms/a.vmx")

	// errors of the factory are surfaced unchanged
	_, err = reg.Resolve("vmware:")
	assert.ErrorContains(t, err, "must not be empty")
}

func TestResolveSharesExecContext(t *testing.T) {
	r := executiltest.New()
	reg := NewRegistry()
	assert.NilError(t, reg.Register("vmware", Local(newVMware(r))))

	d1, err := reg.Driver("vmware:")
	assert.NilError(t, err)
	d2, err := reg.Driver("vmware:/other")
	assert.NilError(t, err)
	assert.Equal(t, d1.ExecContext(), d2.ExecContext())

	ctx := context.Background()
	a, err := reg.Resolve("vmware:/vms/a.vmx")
	assert.NilError(t, err)
	b, err := reg.Resolve("vmware:/vms/b.vmx")
	assert.NilError(t, err)
	assert.NilError(t, a.Stop(ctx))
	assert.NilError(t, b.Stop(ctx))
	assert.DeepEqual(t, r.Calls(), [][]string{
		{"vmrun", "stop", "/vms/a.vmx", "hard"},
		{"vmrun", "stop", "/vms/b.vmx", "hard"},
	})
}

func TestResolveRemote(t *testing.T) {
	reg := NewRegistry()
	assert.NilError(t, reg.Register("ssh+vmware", Remote(newVMware, executil.WithSSHCommand("ssh -p 2222"))))

	m, err := reg.Resolve("ssh+vmware://macx:/Users/me/vm/ubuntu.vmx")
	assert.NilError(t, err)
	assert.Equal(t, m.Name(), "/Users/me/vm/ubuntu.vmx")

	d, err := reg.Driver("ssh+vmware://macx:")
	assert.NilError(t, err)
	assert.Equal(t, d.ExecContext().Runner().Host(), "macx")
	assert.Equal(t, d.ExecContext().Program(), "vmrun")

	_, err = reg.Resolve("ssh+vmware:nohost")
	assert.ErrorIs(t, err, ErrNoHost)
	_, err = reg.Driver("ssh+vmware://macx")
	assert.ErrorIs(t, err, ErrNoHost)
}

func TestCloseStopsSSHMasters(t *testing.T) {
	ctx := context.Background()
	log := filepath.Join(t.TempDir(), "ssh.log")
	reg := NewRegistry()
	assert.NilError(t, reg.Register("vmware", Local(newVMware(executiltest.New()))))
	assert.NilError(t, reg.Register("ssh+vmware", Remote(newVMware,
		executil.WithSSHCommand(`sh -c 'printf "%s\n" "$@" >> `+log+`' fake-ssh`),
		executil.WithSSHConfig(&ssh.SSHConfig{Persist: true}))))

	m, err := reg.Resolve("ssh+vmware://macx:/vms/a.vmx")
	assert.NilError(t, err)
	assert.NilError(t, m.Stop(ctx))
	// bound to a host, but never used
	_, err = reg.Driver("ssh+vmware://idle:")
	assert.NilError(t, err)

	assert.NilError(t, reg.Close(ctx))
	b, err := os.ReadFile(log)
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.DeepEqual(t, lines[len(lines)-3:], []string{"-O", "exit", "macx"})
	assert.Assert(t, !slices.Contains(lines, "idle"))

	// the runners are released, closing again runs nothing
	assert.NilError(t, reg.Close(ctx))
	b2, err := os.ReadFile(log)
	assert.NilError(t, err)
	assert.Equal(t, string(b2), string(b))
}
