// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package osutil

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/executil"
)

// HandleExitError logs err and exits with the status of the backend command when err
// carries a non-zero exit code. Other errors are left to the caller.
func HandleExitError(err error) {
	if code, ok := ExitCode(err); ok {
		logrus.Error(err)
		os.Exit(code) //nolint:revive // it's intentional to call os.Exit in this function
	}
}

// ExitCode returns the exit code of the backend command err reports.
// Commands killed by a signal have no exit code.
func ExitCode(err error) (int, bool) {
	var cmdErr *executil.ExitError
	if errors.As(err, &cmdErr) && cmdErr.Code > 0 {
		return cmdErr.Code, true
	}
	return 0, false
}
