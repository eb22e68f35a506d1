// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/vmctl/pkg/executil"
	"github.com/lima-vm/vmctl/pkg/registry"
)

func newRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [flags] PROGRAM [ARGS...]",
		Short: "Run a program locally, or on a host over ssh",
		Example: `  $ vmctl run --host winbox VBoxManage list runningvms
  $ vmctl run echo "it's quoted for the remote shell"`,
		Args:    WrapArgsError(cobra.MinimumNArgs(1)),
		RunE:    runAction,
		GroupID: advancedCommand,
	}
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().String("host", "", "ssh host to run the program on")

	return runCmd
}

func runAction(cmd *cobra.Command, args []string) error {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return err
	}
	y, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	localOpts, remoteOpts, err := registry.RunnerOpts(y)
	if err != nil {
		return err
	}

	var runner executil.Runner
	if host == "" {
		runner, err = executil.NewLocal(localOpts...)
		if err != nil {
			return err
		}
	} else {
		remote, err := executil.NewRemote(host, remoteOpts...)
		if err != nil {
			return err
		}
		defer func() {
			if err := remote.Close(context.WithoutCancel(cmd.Context())); err != nil {
				logrus.WithError(err).Warnf("Failed to close the ssh connection to %q", host)
			}
		}()
		runner = remote
	}

	res, err := runner.Run(cmd.Context(), args[0], args[1:]...)
	if err != nil {
		var exitErr *executil.ExitError
		if errors.As(err, &exitErr) {
			_, _ = cmd.OutOrStdout().Write(exitErr.Stdout)
			_, _ = cmd.ErrOrStderr().Write(exitErr.Stderr)
		}
		return err
	}
	if _, err := cmd.OutOrStdout().Write(res.Stdout); err != nil {
		return err
	}
	_, err = cmd.ErrOrStderr().Write(res.Stderr)
	return err
}
