// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package executiltest provides a fake executil.Runner that records invocations
// and replays canned output.
package executiltest

import (
	"context"
	"strings"
	"sync"

	"github.com/lima-vm/vmctl/pkg/executil"
)

type response struct {
	stdout string
	err    error
}

// Runner records every invocation. Commands without a canned response succeed
// with empty output.
type Runner struct {
	host      string
	mu        sync.Mutex
	calls     [][]string
	responses map[string]response
}

var _ executil.Runner = (*Runner)(nil)

func New() *Runner {
	return NewForHost("")
}

func NewForHost(host string) *Runner {
	return &Runner{
		host:      host,
		responses: make(map[string]response),
	}
}

func key(argv []string) string {
	return strings.Join(argv, "\x00")
}

// SetOutput makes argv print stdout and exit 0.
func (r *Runner) SetOutput(stdout string, argv ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[key(argv)] = response{stdout: stdout}
}

// SetError makes argv fail with err.
func (r *Runner) SetError(err error, argv ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[key(argv)] = response{err: err}
}

func (r *Runner) Run(_ context.Context, program string, args ...string) (*executil.Result, error) {
	argv := append([]string{program}, args...)
	r.mu.Lock()
	r.calls = append(r.calls, argv)
	resp := r.responses[key(argv)]
	r.mu.Unlock()

	if resp.err != nil {
		return nil, resp.err
	}
	return executil.NewResult([]byte(resp.stdout), nil)
}

func (r *Runner) Host() string {
	return r.host
}

// Calls returns the argv of every Run call, in order.
func (r *Runner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := make([][]string, len(r.calls))
	copy(calls, r.calls)
	return calls
}
