// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDriversCommand() *cobra.Command {
	driversCmd := &cobra.Command{
		Use:               "drivers",
		Short:             "List the registered URI schemes",
		Args:              WrapArgsError(cobra.NoArgs),
		RunE:              driversAction,
		ValidArgsFunction: cobra.NoFileCompletions,
		GroupID:           advancedCommand,
	}
	return driversCmd
}

func driversAction(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 4, 8, 4, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tDRIVER\tPROGRAM")
	for _, scheme := range reg.List() {
		program := "-"
		name := "-"
		// remote schemes need a host to bind a driver
		if d, err := reg.Driver(scheme + ":"); err == nil {
			name = d.Name()
			program = d.ExecContext().Program()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", scheme, name, program)
	}
	return w.Flush()
}
