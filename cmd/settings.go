package main

import (
	"fmt"
	"strconv"
	"strings"

	"teachtimer/internal/core/model"
	"teachtimer/internal/core/session"

	"github.com/spf13/cobra"
)

var settingKeys = []string{"theme", "sound", "volume", "final_minute_warnings", "auto_fullscreen", "large_font"}

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		Long:  `Show or change the stored timer settings. Keys: ` + strings.Join(settingKeys, ", ") + `.`,
	}

	settingsCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print every setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					for _, line := range settingLines(sess.Settings()) {
						fmt.Fprintln(cmd.OutOrStdout(), line)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change a setting",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(func(sess *session.Session) error {
					settings, err := applySetting(sess.Settings(), args[0], args[1])
					if err != nil {
						return err
					}
					return sess.UpdateSettings(settings)
				})
			},
		},
	)

	return settingsCmd
}

func settingLines(settings model.Settings) []string {
	return []string{
		fmt.Sprintf("theme: %s", settings.Theme),
		fmt.Sprintf("sound: %s", settings.Sound),
		fmt.Sprintf("volume: %g", settings.Volume),
		fmt.Sprintf("final_minute_warnings: %t", settings.FinalMinuteWarnings),
		fmt.Sprintf("auto_fullscreen: %t", settings.AutoFullscreen),
		fmt.Sprintf("large_font: %t", settings.LargeFont),
	}
}

// applySetting returns settings with key replaced. Range checks are left
// to UpdateSettings.
func applySetting(settings model.Settings, key, value string) (model.Settings, error) {
	var err error
	switch key {
	case "theme":
		settings.Theme = model.ThemeMode(value)
	case "sound":
		settings.Sound = model.SoundMode(value)
	case "volume":
		settings.Volume, err = strconv.ParseFloat(value, 64)
	case "final_minute_warnings":
		settings.FinalMinuteWarnings, err = strconv.ParseBool(value)
	case "auto_fullscreen":
		settings.AutoFullscreen, err = strconv.ParseBool(value)
	case "large_font":
		settings.LargeFont, err = strconv.ParseBool(value)
	default:
		return settings, fmt.Errorf("unknown setting %q (keys: %s)", key, strings.Join(settingKeys, ", "))
	}
	if err != nil {
		return settings, fmt.Errorf("%s: %w", key, err)
	}
	return settings, nil
}
