// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/vmctl/pkg/osutil"
	"github.com/lima-vm/vmctl/pkg/version"
)

const (
	basicCommand    = "basic"
	advancedCommand = "advanced"
)

func main() {
	err := newApp().Execute()
	osutil.HandleExitError(err)
	if err != nil {
		logrus.Fatal(err)
	}
}

func processGlobalFlags(rootCmd *cobra.Command) error {
	// --log-level will override --debug
	if debug, _ := rootCmd.Flags().GetBool("debug"); debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	l, _ := rootCmd.Flags().GetString("log-level")
	if l != "" {
		lvl, err := logrus.ParseLevel(l)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
	}

	logFormat, _ := rootCmd.Flags().GetString("log-format")
	switch logFormat {
	case "json":
		formatter := new(logrus.JSONFormatter)
		logrus.StandardLogger().SetFormatter(formatter)
	case "text":
		// logrus use text format by default.
		if runtime.GOOS == "windows" && isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			formatter := new(logrus.TextFormatter)
			// the default setting does not recognize cygwin on windows
			formatter.ForceColors = true
			logrus.StandardLogger().SetFormatter(formatter)
		}
	default:
		return fmt.Errorf("unsupported log-format: %q", logFormat)
	}
	return nil
}

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "vmctl",
		Short:   "vmctl: control VMware and VirtualBox machines, locally or over ssh",
		Version: strings.TrimPrefix(version.Version, "v"),
		Example: `  List the running VMware machines:
  $ vmctl list vmware:

  List the running VirtualBox machines of a remote host:
  $ vmctl list ssh+virtualbox://winbox:

  Revert a machine to a snapshot (VMware machines are started again):
  $ vmctl snapshot apply --tag clean ~/vmware/ubuntu/ubuntu.vmx`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.PersistentFlags().String("log-level", "", "Set the logging level [trace, debug, info, warn, error]")
	rootCmd.PersistentFlags().String("log-format", "text", "Set the logging format [text, json]")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default: $VMCTL_HOME/vmctl.yaml)")
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return processGlobalFlags(rootCmd)
	}
	rootCmd.AddGroup(&cobra.Group{ID: basicCommand, Title: "Basic Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: advancedCommand, Title: "Advanced Commands:"})

	rootCmd.AddCommand(
		newListCommand(),
		newStartCommand(),
		newStopCommand(),
		newSnapshotCommand(),
		newDriversCommand(),
		newRunCommand(),
	)
	return rootCmd
}

// WrapArgsError annotates cobra args error with some context, so the error message is more user-friendly.
func WrapArgsError(argFn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := argFn(cmd, args)
		if err == nil {
			return nil
		}

		return fmt.Errorf("%q %s.\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
			cmd.CommandPath(), err.Error(),
			cmd.CommandPath(),
			cmd.UseLine(), cmd.Short,
		)
	}
}
