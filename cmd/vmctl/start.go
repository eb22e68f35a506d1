// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newStartCommand() *cobra.Command {
	startCommand := &cobra.Command{
		Use:     "start URI...",
		Short:   "Start machines",
		Args:    WrapArgsError(cobra.MinimumNArgs(1)),
		RunE:    startAction,
		GroupID: basicCommand,
	}
	return startCommand
}

func startAction(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	ctx := cmd.Context()
	for _, uri := range args {
		m, err := reg.Resolve(uri)
		if err != nil {
			return err
		}
		logrus.Infof("Starting %q", m.Name())
		if err := m.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}
