// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/vmctl/pkg/registry"
	"github.com/lima-vm/vmctl/pkg/vmctlyaml"
)

// loadConfig loads the file named by --config, or the default one.
// $VMCTL_SSH overrides `ssh.command`.
func loadConfig(cmd *cobra.Command) (*vmctlyaml.VMCtlYAML, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configFile == "" {
		configFile, err = vmctlyaml.DefaultFile()
		if err != nil {
			return nil, err
		}
	}
	y, err := vmctlyaml.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if sshCommand := os.Getenv("VMCTL_SSH"); sshCommand != "" {
		logrus.Debugf("Using ssh command %q from $VMCTL_SSH", sshCommand)
		y.SSH.Command = sshCommand
	}
	if err := vmctlyaml.Validate(y); err != nil {
		return nil, err
	}
	return y, nil
}

func loadRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	y, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return registry.NewBuiltin(y)
}

// closeRegistry stops the ssh master connections opened while the command ran.
func closeRegistry(cmd *cobra.Command, reg *registry.Registry) {
	if err := reg.Close(context.WithoutCancel(cmd.Context())); err != nil {
		logrus.WithError(err).Warn("Failed to close ssh connections")
	}
}
