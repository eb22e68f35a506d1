// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package executil

import (
	"bytes"
	"errors"
	"fmt"
)

var ErrInvalidUTF8 = errors.New("output is not valid UTF-8")

// ExitError is returned when a command ran but exited with a non-zero status.
type ExitError struct {
	Args   []string
	Code   int
	Stdout []byte
	Stderr []byte
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %v exited with code %d", e.Args, e.Code)
	if stderr := bytes.TrimSpace(e.Stderr); len(stderr) > 0 {
		msg += fmt.Sprintf(": %q", stderr)
	} else if stdout := bytes.TrimSpace(e.Stdout); len(stdout) > 0 {
		msg += fmt.Sprintf(" (stdout: %q)", stdout)
	}
	return msg
}

// IOError is returned when a command could not be spawned, or when its output
// could not be decoded.
type IOError struct {
	Args []string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to run %v: %v", e.Args, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
