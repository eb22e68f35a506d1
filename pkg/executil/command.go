// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"al.essio.dev/pkg/shellescape"
	"github.com/lima-vm/sshocker/pkg/ssh"
	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"
)

// Result is the captured output of a command. A Result only exists for a zero exit;
// non-zero exits are reported as *ExitError.
type Result struct {
	// Lines is stdout split on '\n'. The empty element produced by a final newline is dropped.
	Lines  []string
	Stdout []byte
	Stderr []byte
}

// NewResult splits stdout into lines. stdout must be valid UTF-8.
func NewResult(stdout, stderr []byte) (*Result, error) {
	if !utf8.Valid(stdout) {
		return nil, ErrInvalidUTF8
	}
	lines := strings.Split(string(stdout), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &Result{
		Lines:  lines,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// Runner runs a program to completion and captures its output.
//
// Run returns *ExitError when the program exits non-zero, and *IOError when
// the program cannot be spawned or its stdout is not valid UTF-8.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)

	// Host returns the host the programs run on, or "" for the local host.
	Host() string
}

type options struct {
	timeout    time.Duration
	sshCommand []string
	sshConfig  *ssh.SSHConfig
}

type Opt func(*options) error

// WithTimeout bounds every Run call. Zero means no timeout.
func WithTimeout(d time.Duration) Opt {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %v", d)
		}
		o.timeout = d
		return nil
	}
}

// WithSSHCommand sets the remote shell program and its leading arguments,
// e.g. `ssh -p 2222`. The string is split with shell word rules.
func WithSSHCommand(command string) Opt {
	return func(o *options) error {
		argv, err := shellwords.Parse(command)
		if err != nil {
			return fmt.Errorf("failed to parse ssh command %q: %w", command, err)
		}
		if len(argv) == 0 {
			return errors.New("ssh command must not be empty")
		}
		o.sshCommand = argv
		return nil
	}
}

// WithSSHConfig appends the arguments of c (config file, connection sharing,
// additional args) to the remote shell invocation.
func WithSSHConfig(c *ssh.SSHConfig) Opt {
	return func(o *options) error {
		o.sshConfig = c
		return nil
	}
}

func newOptions(opts []Opt) (*options, error) {
	var o options
	for _, f := range opts {
		if err := f(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// Local runs programs on this host.
type Local struct {
	timeout time.Duration
}

var _ Runner = (*Local)(nil)

func NewLocal(opts ...Opt) (*Local, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Local{timeout: o.timeout}, nil
}

func (l *Local) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	argv := append([]string{program}, args...)
	return run(ctx, l.timeout, argv)
}

func (l *Local) Host() string {
	return ""
}

// Remote runs programs on another host through ssh.
// The program and its arguments are joined into a single escaped shell command line.
type Remote struct {
	host    string
	sshArgv []string
	timeout time.Duration

	// sshConfig is set when the connection is shared (Persist) and has to be closed.
	sshConfig *ssh.SSHConfig
	// custom is set when the ssh program comes from WithSSHCommand.
	custom bool
	used   atomic.Bool
}

var _ Runner = (*Remote)(nil)

func NewRemote(host string, opts ...Opt) (*Remote, error) {
	if host == "" {
		return nil, errors.New("remote host must not be empty")
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	sshArgv := o.sshCommand
	if sshArgv == nil {
		sshArgv = []string{"ssh"}
		if o.sshConfig != nil {
			sshArgv = []string{o.sshConfig.Binary()}
		}
	}
	sshArgv = slices.Clone(sshArgv)
	if o.sshConfig != nil {
		sshArgv = append(sshArgv, o.sshConfig.Args()...)
	}
	r := &Remote{
		host:    host,
		sshArgv: sshArgv,
		timeout: o.timeout,
		custom:  o.sshCommand != nil,
	}
	if o.sshConfig != nil && o.sshConfig.Persist {
		r.sshConfig = o.sshConfig
	}
	return r, nil
}

func (r *Remote) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	r.used.Store(true)
	return run(ctx, r.timeout, r.argv(program, args))
}

// Close stops the shared ssh master connection, if the runner was created with a
// persistent SSHConfig and has run at least one command. Close is a no-op otherwise.
func (r *Remote) Close(ctx context.Context) error {
	if r.sshConfig == nil || !r.used.Load() {
		return nil
	}
	logrus.Debugf("Stopping the ssh master connection to %q", r.host)
	if !r.custom {
		return ssh.ExitMaster(r.host, 0, r.sshConfig)
	}
	_, err := run(ctx, r.timeout, r.exitMasterArgv())
	return err
}

// exitMasterArgv mirrors ssh.ExitMaster for a custom ssh command.
func (r *Remote) exitMasterArgv() []string {
	argv := slices.Clone(r.sshArgv)
	return append(argv, "-O", "exit", r.host)
}

func (r *Remote) Host() string {
	return r.host
}

func (r *Remote) argv(program string, args []string) []string {
	argv := slices.Clone(r.sshArgv)
	return append(argv, r.host, ShellCommand(program, args...))
}

// waitDelay bounds how long Run waits for the output pipes after the child is gone.
const waitDelay = time.Second

func run(ctx context.Context, timeout time.Duration, argv []string) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	logrus.Debugf("Running %s", shellescape.QuoteCommand(argv))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Descendants inheriting the pipes must not hold Run past the exit or the kill of the child.
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// the child exited 0 and only a descendant kept the pipes open
		logrus.Debugf("Closed the pipes of %v left open by a descendant", argv)
		err = nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("failed to run %v: %w", argv, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Args:   argv,
				Code:   exitErr.ExitCode(),
				Stdout: stdout.Bytes(),
				Stderr: stderr.Bytes(),
			}
		}
		return nil, &IOError{Args: argv, Err: err}
	}
	res, err := NewResult(stdout.Bytes(), stderr.Bytes())
	if err != nil {
		return nil, &IOError{Args: argv, Err: err}
	}
	return res, nil
}
