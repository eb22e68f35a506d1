// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package vmware

import (
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/vmctl/pkg/driver"
)

const (
	runningPrefix   = "Total running VMs: "
	snapshotsPrefix = "Total snapshots: "
)

// parseSummary parses vmrun output made of a summary line "<prefix><N>" followed by
// N data lines.
//
// The count is not enforced: lines past N are ignored and fewer than N lines are
// returned as they are.
func parseSummary(lines []string, prefix string) ([]string, error) {
	if len(lines) == 0 {
		return nil, driver.ErrMissingSummary
	}
	summary := lines[0]
	countStr, ok := strings.CutPrefix(summary, prefix)
	if !ok {
		return nil, &driver.InvalidResponseError{Line: summary}
	}
	n, err := strconv.ParseUint(countStr, 10, 0)
	if err != nil {
		return nil, &driver.InvalidResponseError{Line: summary, Err: err}
	}
	body := lines[1:]
	if uint64(len(body)) > n {
		body = body[:n]
	} else if uint64(len(body)) < n {
		logrus.Debugf("%q announced %d entries, got %d", summary, n, len(body))
	}
	return slices.Clone(body), nil
}
