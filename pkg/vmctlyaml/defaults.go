// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package vmctlyaml

import (
	"github.com/lima-vm/vmctl/pkg/vbox"
	"github.com/lima-vm/vmctl/pkg/vmware"
)

const DefaultSSHCommand = "ssh"

// DefaultFileScheme is the backend of bare paths: vmrun addresses machines by .vmx path.
const DefaultFileScheme = vmware.Name

// FillDefault fills the unset fields of y.
func FillDefault(y *VMCtlYAML) {
	if y.VMware.Program == "" {
		y.VMware.Program = vmware.DefaultProgram
	}
	if y.VirtualBox.Program == "" {
		y.VirtualBox.Program = vbox.DefaultProgram
	}
	if y.SSH.Command == "" {
		y.SSH.Command = DefaultSSHCommand
	}
	if y.FileScheme == nil {
		fileScheme := DefaultFileScheme
		y.FileScheme = &fileScheme
	}
}
