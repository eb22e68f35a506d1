// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResponse matches every *InvalidResponseError.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrMissingSummary is returned when the output lacks its summary line.
	ErrMissingSummary = errors.New("missing summary line")
)

// InvalidResponseError reports a line of backend output that does not match the expected grammar.
type InvalidResponseError struct {
	Line string
	Err  error
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response %q: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid response %q", e.Line)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

func (e *InvalidResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}
