package main

import (
	"fmt"
	"text/tabwriter"

	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"

	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage countdown presets",
		Long:  `List, add, update and remove the stored countdown presets.`,
	}

	presetsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List presets in display order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(writer, "ID\tNAME\tDURATION")
					for _, preset := range sess.Presets() {
						fmt.Fprintf(writer, "%s\t%s\t%s\n", preset.ID, preset.Name, timekeeper.FormatLabel(preset.DurationSeconds))
					}
					return writer.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "add <name> <time>",
			Short: "Add a preset",
			Long:  `Add a preset. The time is "mm:ss", "h:mm:ss" or a plain number of minutes.`,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					preset, err := sess.AddPreset(args[0], args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) as %s\n", preset.Name, timekeeper.FormatLabel(preset.DurationSeconds), preset.ID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "update <id> <name> <time>",
			Short: "Rename a preset and replace its duration",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					preset, err := sess.UpdatePreset(args[0], args[1], args[2])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s to %s (%s)\n", preset.ID, preset.Name, timekeeper.FormatLabel(preset.DurationSeconds))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					return sess.RemovePreset(args[0])
				})
			},
		},
	)

	return presetsCmd
}

// withSession opens the store for a one-shot command.
func withSession(run func(sess *session.Session) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sess := session.New(store, nil, nil)
	defer sess.Close()
	return run(sess)
}
