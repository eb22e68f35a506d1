// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"

	"github.com/lima-vm/vmctl/pkg/executil"
)

// ExecContext binds a backend's management program to the Runner it is executed with.
// It is immutable and shared by every machine handle of a Driver.
type ExecContext struct {
	program string
	runner  executil.Runner
}

func NewExecContext(program string, runner executil.Runner) *ExecContext {
	return &ExecContext{
		program: program,
		runner:  runner,
	}
}

func (e *ExecContext) Program() string {
	return e.program
}

func (e *ExecContext) Runner() executil.Runner {
	return e.runner
}

// Run runs the management program with args.
func (e *ExecContext) Run(ctx context.Context, args ...string) (*executil.Result, error) {
	return e.runner.Run(ctx, e.program, args...)
}
