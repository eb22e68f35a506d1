// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package vmctlyaml is the configuration file of vmctl.
package vmctlyaml

type VMCtlYAML struct {
	VMware     VMware     `yaml:"vmware,omitempty" json:"vmware,omitempty"`
	VirtualBox VirtualBox `yaml:"virtualbox,omitempty" json:"virtualbox,omitempty"`
	SSH        SSH        `yaml:"ssh,omitempty" json:"ssh,omitempty"`
	// Timeout bounds every backend command, e.g. "5m". Empty means no timeout.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	// FileScheme names the backend serving bare paths and "file:" URIs.
	// nil means the default; "" disables the file scheme.
	FileScheme *string `yaml:"fileScheme,omitempty" json:"fileScheme,omitempty"`
}

type VMware struct {
	Program string `yaml:"program,omitempty" json:"program,omitempty"`
	// HostType is passed to vmrun as `-T HostType`.
	HostType string `yaml:"hostType,omitempty" json:"hostType,omitempty"`
}

type VirtualBox struct {
	Program string `yaml:"program,omitempty" json:"program,omitempty"`
}

type SSH struct {
	// Command is the remote shell program with its leading arguments, e.g. "ssh -p 2222".
	Command        string   `yaml:"command,omitempty" json:"command,omitempty"`
	ConfigFile     string   `yaml:"configFile,omitempty" json:"configFile,omitempty"`
	Persist        bool     `yaml:"persist,omitempty" json:"persist,omitempty"`
	AdditionalArgs []string `yaml:"additionalArgs,omitempty" json:"additionalArgs,omitempty"`
}
