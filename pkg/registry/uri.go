// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"strings"
)

// DefaultScheme is assumed for URIs without a scheme, i.e. bare paths.
const DefaultScheme = "file"

// URI names a machine as "scheme:body". The body is interpreted by the scheme's Factory.
type URI struct {
	Scheme string
	Body   string
}

// ParseURI splits uri at its first colon. A uri without a colon is a body of DefaultScheme.
func ParseURI(uri string) URI {
	scheme, body, ok := strings.Cut(uri, ":")
	if !ok {
		return URI{Scheme: DefaultScheme, Body: uri}
	}
	return URI{Scheme: scheme, Body: body}
}

func (u URI) String() string {
	return u.Scheme + ":" + u.Body
}

// ParseRemote splits the body of a remote URI into the ssh host and the path on that host.
//
// A leading "//" is dropped, then the body is split at the first ':', or else at the
// first '/'. Both "//host:/vms/a.vmx" and "host:/vms/a.vmx" yield ("host", "/vms/a.vmx").
func ParseRemote(body string) (host, path string, err error) {
	rest := strings.TrimPrefix(body, "//")
	var ok bool
	host, path, ok = strings.Cut(rest, ":")
	if !ok {
		host, path, ok = strings.Cut(rest, "/")
	}
	if !ok || host == "" {
		return "", "", fmt.Errorf("%w in %q", ErrNoHost, body)
	}
	return host, path, nil
}
