// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package osutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/lima-vm/vmctl/pkg/executil"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{"nil", nil, 0, false},
		{"exit error", &executil.ExitError{Args: []string{"vmrun", "list"}, Code: 255}, 255, true},
		{"wrapped", fmt.Errorf("failed to start %q: %w", "/vms/a.vmx", &executil.ExitError{Code: 3}), 3, true},
		{"signal", &executil.ExitError{Code: -1}, 0, false},
		{"io error", &executil.IOError{Args: []string{"vmrun"}, Err: errors.New("not found")}, 0, false},
		{"timeout", fmt.Errorf("failed to run [vmrun list]: %w", context.DeadlineExceeded), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ExitCode(tt.err)
			assert.Equal(t, code, tt.wantCode)
			assert.Equal(t, ok, tt.wantOK)
		})
	}
}
