// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package executil

import (
	"strings"
	"unicode"
)

// Escape returns s in a form that a POSIX shell reads back as the single word s.
//
// Purely alphanumeric words are returned as is. Anything else is wrapped in
// single quotes, with embedded single quotes written as '\''.
func Escape(s string) string {
	if s != "" && isAlphanumeric(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// ShellCommand joins program and args into one shell command line.
func ShellCommand(program string, args ...string) string {
	words := make([]string, 0, len(args)+1)
	words = append(words, Escape(program))
	for _, arg := range args {
		words = append(words, Escape(arg))
	}
	return strings.Join(words, " ")
}
