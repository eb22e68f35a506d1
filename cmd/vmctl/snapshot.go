// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lima-vm/vmctl/pkg/snapshot"
)

func newSnapshotCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "Manage machine snapshots",
		GroupID: advancedCommand,
	}
	snapshotCmd.AddCommand(newSnapshotApplyCommand())
	snapshotCmd.AddCommand(newSnapshotCreateCommand())
	snapshotCmd.AddCommand(newSnapshotDeleteCommand())
	snapshotCmd.AddCommand(newSnapshotListCommand())

	return snapshotCmd
}

func newSnapshotCreateCommand() *cobra.Command {
	createCmd := &cobra.Command{
		Use:     "create URI",
		Aliases: []string{"save"},
		Short:   "Create (save) a snapshot",
		Args:    WrapArgsError(cobra.ExactArgs(1)),
		RunE:    snapshotCreateAction,
	}
	createCmd.Flags().String("tag", "", "name of the snapshot")

	return createCmd
}

func snapshotCreateAction(cmd *cobra.Command, args []string) error {
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	return snapshot.Save(cmd.Context(), reg, args[0], tag)
}

func newSnapshotDeleteCommand() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:     "delete URI",
		Aliases: []string{"del"},
		Short:   "Delete (del) a snapshot",
		Args:    WrapArgsError(cobra.ExactArgs(1)),
		RunE:    snapshotDeleteAction,
	}
	deleteCmd.Flags().String("tag", "", "name of the snapshot")

	return deleteCmd
}

func snapshotDeleteAction(cmd *cobra.Command, args []string) error {
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	return snapshot.Del(cmd.Context(), reg, args[0], tag)
}

func newSnapshotApplyCommand() *cobra.Command {
	applyCmd := &cobra.Command{
		Use:     "apply URI",
		Aliases: []string{"load", "revert"},
		Short:   "Apply (load) a snapshot",
		Long: `Revert the machine to a snapshot.
VMware machines are started after the revert; VirtualBox machines are left as restored.`,
		Args: WrapArgsError(cobra.ExactArgs(1)),
		RunE: snapshotApplyAction,
	}
	applyCmd.Flags().String("tag", "", "name of the snapshot")

	return applyCmd
}

func snapshotApplyAction(cmd *cobra.Command, args []string) error {
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	return snapshot.Load(cmd.Context(), reg, args[0], tag)
}

func newSnapshotListCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list URI",
		Aliases: []string{"ls"},
		Short:   "List existing snapshots",
		Args:    WrapArgsError(cobra.ExactArgs(1)),
		RunE:    snapshotListAction,
	}
	listCmd.Flags().BoolP("quiet", "q", false, "Only show tags")

	return listCmd
}

func snapshotListAction(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	defer closeRegistry(cmd, reg)
	tags, err := snapshot.List(cmd.Context(), reg, args[0])
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d snapshot(s)\n", len(tags))
	}
	for _, tag := range tags {
		fmt.Fprintln(cmd.OutOrStdout(), tag)
	}
	return nil
}
