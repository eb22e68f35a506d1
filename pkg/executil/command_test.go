// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package executil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lima-vm/sshocker/pkg/ssh"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// fakeSSH stands in for ssh: it checks the host and hands the command line to a shell.
const fakeSSH = `sh -c 'test "$1" = fakehost && exec sh -c "$2"' fake-ssh`

func TestNewResult(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   []string
	}{
		{"empty", "", []string{}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"only one newline dropped", "a\n\n", []string{"a", ""}},
		{"blank line", "\n", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewResult([]byte(tt.stdout), nil)
			assert.NilError(t, err)
			assert.DeepEqual(t, res.Lines, tt.want)
		})
	}

	_, err := NewResult([]byte{0xff, '\n'}, nil)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestLocalRun(t *testing.T) {
	l, err := NewLocal()
	assert.NilError(t, err)
	assert.Equal(t, l.Host(), "")
	ctx := context.Background()

	res, err := l.Run(ctx, "sh", "-c", `printf 'Total running VMs: 1\n/vms/a.vmx\n'; echo warn >&2`)
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Lines, []string{"Total running VMs: 1", "/vms/a.vmx"})
	assert.Equal(t, string(res.Stderr), "warn\n")
	assert.Equal(t, string(res.Stdout), "Total running VMs: 1\n/vms/a.vmx\n")

	res, err = l.Run(ctx, "true")
	assert.NilError(t, err)
	assert.Equal(t, len(res.Lines), 0)
}

func TestLocalRunExitError(t *testing.T) {
	l, err := NewLocal()
	assert.NilError(t, err)

	_, err = l.Run(context.Background(), "sh", "-c", "echo out; echo bad >&2; exit 3")
	var exitErr *ExitError
	assert.Assert(t, errors.As(err, &exitErr))
	assert.Equal(t, exitErr.Code, 3)
	assert.Equal(t, string(exitErr.Stdout), "out\n")
	assert.Equal(t, string(exitErr.Stderr), "bad\n")
	assert.DeepEqual(t, exitErr.Args, []string{"sh", "-c", "echo out; echo bad >&2; exit 3"})
	assert.Assert(t, is.Contains(err.Error(), "exited with code 3"))
}

func TestLocalRunIOError(t *testing.T) {
	l, err := NewLocal()
	assert.NilError(t, err)
	ctx := context.Background()

	_, err = l.Run(ctx, "vmctl-test-no-such-program")
	var ioErr *IOError
	assert.Assert(t, errors.As(err, &ioErr))
	assert.ErrorIs(t, err, exec.ErrNotFound)

	_, err = l.Run(ctx, "sh", "-c", `printf '\377\n'`)
	assert.Assert(t, errors.As(err, &ioErr))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestLocalRunTimeout(t *testing.T) {
	l, err := NewLocal(WithTimeout(50 * time.Millisecond))
	assert.NilError(t, err)

	_, err = l.Run(context.Background(), "sleep", "5")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = NewLocal(WithTimeout(-time.Second))
	assert.ErrorContains(t, err, "negative timeout")
}

func TestLocalRunTimeoutDescendant(t *testing.T) {
	l, err := NewLocal(WithTimeout(100 * time.Millisecond))
	assert.NilError(t, err)

	start := time.Now()
	_, err = l.Run(context.Background(), "sh", "-c", "sleep 3 & sleep 10")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Assert(t, time.Since(start) < 3*time.Second, "took %v", time.Since(start))
}

func TestLocalRunDescendantHoldsPipes(t *testing.T) {
	l, err := NewLocal()
	assert.NilError(t, err)

	start := time.Now()
	res, err := l.Run(context.Background(), "sh", "-c", "sleep 3 & echo done")
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Lines, []string{"done"})
	assert.Assert(t, time.Since(start) < 3*time.Second, "took %v", time.Since(start))
}

func TestRemoteArgv(t *testing.T) {
	r, err := NewRemote("macx")
	assert.NilError(t, err)
	assert.Equal(t, r.Host(), "macx")
	assert.DeepEqual(t, r.argv("/bin/bash", []string{"-c", "ls"}),
		[]string{"ssh", "macx", "'/bin/bash' '-c' ls"})

	r, err = NewRemote("macx", WithSSHCommand("ssh -p 2222"))
	assert.NilError(t, err)
	assert.DeepEqual(t, r.argv("vmrun", []string{"list"}),
		[]string{"ssh", "-p", "2222", "macx", "vmrun list"})

	r, err = NewRemote("macx", WithSSHConfig(&ssh.SSHConfig{AdditionalArgs: []string{"-o", "BatchMode=yes"}}))
	assert.NilError(t, err)
	argv := r.argv("vmrun", []string{"list"})
	assert.Equal(t, argv[0], "ssh")
	assert.Assert(t, is.Contains(argv, "BatchMode=yes"))
	assert.DeepEqual(t, argv[len(argv)-2:], []string{"macx", "vmrun list"})

	_, err = NewRemote("")
	assert.ErrorContains(t, err, "must not be empty")
	_, err = NewRemote("macx", WithSSHCommand(""))
	assert.ErrorContains(t, err, "must not be empty")
	_, err = NewRemote("macx", WithSSHCommand(`ssh "unterminated`))
	assert.ErrorContains(t, err, "failed to parse ssh command")
}

func TestRemoteRunMatchesLocal(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal()
	assert.NilError(t, err)
	r, err := NewRemote("fakehost", WithSSHCommand(fakeSSH))
	assert.NilError(t, err)

	args := []string{`%s\n`, "ala ma kota", "it's", "", "$HOME", "C:\\vms\\x.vmx"}
	localRes, err := l.Run(ctx, "printf", args...)
	assert.NilError(t, err)
	remoteRes, err := r.Run(ctx, "printf", args...)
	assert.NilError(t, err)

	want := []string{"ala ma kota", "it's", "", "$HOME", "C:\\vms\\x.vmx"}
	assert.DeepEqual(t, localRes.Lines, want)
	if diff := cmp.Diff(localRes.Lines, remoteRes.Lines); diff != "" {
		t.Errorf("remote output differs from local (-local +remote):\n%s", diff)
	}
}

func TestRemoteRunExitError(t *testing.T) {
	r, err := NewRemote("fakehost", WithSSHCommand(fakeSSH))
	assert.NilError(t, err)

	_, err = r.Run(context.Background(), "sh", "-c", "echo nope >&2; exit 7")
	var exitErr *ExitError
	assert.Assert(t, errors.As(err, &exitErr))
	assert.Equal(t, exitErr.Code, 7)
	assert.Equal(t, string(exitErr.Stderr), "nope\n")
}

func TestRemoteExitMasterArgv(t *testing.T) {
	r, err := NewRemote("macx", WithSSHCommand("ssh -p 2222"), WithSSHConfig(&ssh.SSHConfig{Persist: true}))
	assert.NilError(t, err)

	argv := r.exitMasterArgv()
	assert.DeepEqual(t, argv[:3], []string{"ssh", "-p", "2222"})
	assert.Assert(t, is.Contains(argv, "ControlMaster=auto"))
	assert.DeepEqual(t, argv[len(argv)-3:], []string{"-O", "exit", "macx"})
}

func TestRemoteClose(t *testing.T) {
	ctx := context.Background()

	// without Persist there is no master connection to stop
	r, err := NewRemote("macx", WithSSHCommand("false"), WithSSHConfig(&ssh.SSHConfig{ConfigFile: "/dev/null"}))
	assert.NilError(t, err)
	_, err = r.Run(ctx, "vmrun", "list")
	assert.Assert(t, err != nil)
	assert.NilError(t, r.Close(ctx))

	// nothing ran, so no master connection was started
	r, err = NewRemote("macx", WithSSHCommand("false"), WithSSHConfig(&ssh.SSHConfig{Persist: true}))
	assert.NilError(t, err)
	assert.NilError(t, r.Close(ctx))

	log := filepath.Join(t.TempDir(), "ssh.log")
	r, err = NewRemote("macx",
		WithSSHCommand(`sh -c 'printf "%s\n" "$@" >> `+log+`' fake-ssh`),
		WithSSHConfig(&ssh.SSHConfig{Persist: true}))
	assert.NilError(t, err)
	_, err = r.Run(ctx, "vmrun", "list")
	assert.NilError(t, err)
	assert.NilError(t, r.Close(ctx))

	b, err := os.ReadFile(log)
	assert.NilError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.DeepEqual(t, lines[len(lines)-3:], []string{"-O", "exit", "macx"})
	assert.Assert(t, is.Contains(lines, "vmrun list"))
}
