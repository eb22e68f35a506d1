// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"text/template"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/vmctl/pkg/driver"
	"github.com/lima-vm/vmctl/pkg/registry"
)

// machineInfo is the listing of a running machine.
type machineInfo struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
	Host   string `json:"host,omitempty"`
	UUID   string `json:"uuid,omitempty"`
}

func newMachineInfo(d driver.Driver, m driver.Machine) machineInfo {
	info := machineInfo{
		Name:   m.Name(),
		Driver: d.Name(),
		Host:   d.ExecContext().Runner().Host(),
	}
	if u, ok := m.(interface{ UUID() string }); ok {
		info.UUID = u.UUID()
	}
	return info
}

func newListCommand() *cobra.Command {
	listCommand := &cobra.Command{
		Use:     "list [URI]",
		Aliases: []string{"ls"},
		Short:   "List running machines",
		Long: `List the running machines of the backend named by URI, e.g. "vmware:", "virtualbox:" or "ssh+vmware://host:".
Without URI, the backend of the file scheme is listed.`,
		Args:              WrapArgsError(cobra.MaximumNArgs(1)),
		RunE:              listAction,
		ValidArgsFunction: cobra.NoFileCompletions,
		GroupID:           basicCommand,
	}
	listCommand.Flags().StringP("format", "f", "", "Format the output using the given Go template")
	listCommand.Flags().Bool("json", false, "JSONify output")
	listCommand.Flags().BoolP("quiet", "q", false, "Only show names")

	return listCommand
}

func listAction(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	goFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	jsonFormat, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	if quiet && jsonFormat {
		return errors.New("option --quiet conflicts with --json")
	}
	if goFormat != "" && jsonFormat {
		return errors.New("option --format conflicts with --json")
	}

	uri := registry.DefaultScheme + ":"
	if len(args) > 0 {
		uri = args[0]
	}
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	d, err := reg.Driver(uri)
	if err != nil {
		return err
	}
	machines, err := d.ListRunning(cmd.Context())
	if err != nil {
		return err
	}
	infos := make([]machineInfo, 0, len(machines))
	for _, m := range machines {
		infos = append(infos, newMachineInfo(d, m))
	}

	if quiet {
		for _, info := range infos {
			fmt.Fprintln(cmd.OutOrStdout(), info.Name)
		}
		return nil
	}

	if goFormat != "" {
		tmpl, err := template.New("format").Parse(goFormat)
		if err != nil {
			return err
		}
		for _, info := range infos {
			if err := tmpl.Execute(cmd.OutOrStdout(), info); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	}
	if jsonFormat {
		for _, info := range infos {
			b, err := json.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
		return nil
	}

	if len(infos) == 0 {
		logrus.Warnf("No running %s machine found.", d.Name())
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 4, 8, 4, ' ', 0)
	fmt.Fprintln(w, "NAME\tDRIVER\tHOST\tUUID")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Name,
			info.Driver,
			orDash(info.Host),
			orDash(info.UUID),
		)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
