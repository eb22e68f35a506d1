// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newStopCommand() *cobra.Command {
	stopCmd := &cobra.Command{
		Use:     "stop URI...",
		Short:   "Power off machines",
		Args:    WrapArgsError(cobra.MinimumNArgs(1)),
		RunE:    stopAction,
		GroupID: basicCommand,
	}
	return stopCmd
}

func stopAction(cmd *cobra.Command, args []string) error {
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
		logrus.Infof("Stopping %q", m.Name())
		if err := m.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
