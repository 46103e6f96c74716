package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"teachtimer/internal/audio"
	"teachtimer/internal/core/session"
	"teachtimer/internal/core/timekeeper"
	"teachtimer/internal/ui/console"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var presetID string

	runCmd := &cobra.Command{
		Use:   "run [time]",
		Short: "Run a countdown in the terminal",
		Long: `Run a countdown in the terminal.

The time is "mm:ss", "h:mm:ss" or a plain number of minutes. Without a time
or --preset, the first preset is used. Ctrl-C stops the countdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sess := session.New(store, audio.NewSpeakerPlayer(), nil)
			defer sess.Close()

			switch {
			case presetID != "":
				if err := sess.SelectPreset(presetID); err != nil {
					return err
				}
			case len(args) == 1:
				if !sess.CommitEdit(args[0]) {
					return fmt.Errorf("unreadable time %q", args[0])
				}
			}

			out := cmd.OutOrStdout()
			return runCountdown(cmd.Context(), sess, console.New(out), out)
		},
	}

	runCmd.Flags().StringVar(&presetID, "preset", "", "preset id to run (see `presets list`)")
	return runCmd
}

// runCountdown starts sess and renders until completion or ctx is done.
func runCountdown(ctx context.Context, sess *session.Session, renderer session.Renderer, out io.Writer) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := sess.Subscribe(16)
	renderer.Render(sess.View())
	sess.Start()

	runner := timekeeper.NewRunner(sess, nil, timekeeper.Config{TickInterval: cfg.TickInterval})
	go func() {
		_ = runner.Run(runCtx)
	}()

	for {
		select {
		case <-runCtx.Done():
			sess.Pause()
			renderer.Render(sess.View())
			fmt.Fprintln(out)
			slog.Debug("countdown interrupted", "remaining", sess.View().Remaining)
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			renderer.Render(event.View)
			if event.Type == session.EventCompleted || event.View.JustCompleted {
				cancel()
				sound := event.Sound
				if sound == "" {
					sound = event.View.Settings.Sound
				}
				audio.Wait(sound)
				return nil
			}
		}
	}
}
