// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package vbox

import (
	"regexp"
	"strings"

	"github.com/lima-vm/vmctl/pkg/driver"
)

var (
	// "ubuntu-a" {c777e3e8-b82e-40a4-bf3d-550f0f0da9e9}
	vmLineRegexp = regexp.MustCompile(`^\s*"((?:[^"\\]|\\["\\n])*)"\s+(\{[0-9A-Fa-f-]+\})\s*$`)

	// SnapshotName-1="clean"
	propertyRegexp = regexp.MustCompile(`^([A-Za-z0-9-]+)="((?:[^"\\]|\\.)*)"$`)
)

const snapshotNameKey = "SnapshotName"

// parseVMLine parses one line of `VBoxManage list runningvms` into the machine name
// and its UUID, braces included.
func parseVMLine(line string) (name, uuid string, err error) {
	m := vmLineRegexp.FindStringSubmatch(line)
	if m == nil {
		return "", "", &driver.InvalidResponseError{Line: line}
	}
	return unescape(m[1]), m[2], nil
}

// parseSnapshotNames collects the values of the SnapshotName* properties printed by
// `VBoxManage snapshot <vm> list --machinereadable`, in order.
func parseSnapshotNames(lines []string) ([]string, error) {
	names := []string{}
	for _, line := range lines {
		m := propertyRegexp.FindStringSubmatch(line)
		if m == nil {
			return nil, &driver.InvalidResponseError{Line: line}
		}
		if strings.HasPrefix(m[1], snapshotNameKey) {
			names = append(names, unescape(m[2]))
		}
	}
	return names, nil
}

// unescape resolves the backslash escapes VBoxManage uses in quoted strings.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped && r == 'n':
			b.WriteByte('\n')
			escaped = false
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
