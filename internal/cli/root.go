package cli

import (
	"github.com/spf13/cobra"

	"github.com/appmarket/appship/internal/logging"
)

func (a *App) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appship",
		Short: "Release automation for the AppMarket developer API",
		Long: `appship automates the repetitive parts of shipping an app release:
synchronizing screenshots and preview videos, managing store versions,
builds, listings and distribution profiles.

Configuration is resolved from built-in defaults, then an optional JSON
config file (-c/--config), then command-line flags.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	// The config file is already read at startup, before cobra parses
	// anything; the flag is declared here so it appears in help and does
	// not trip flag validation.
	flags.StringP("config", "c", "", "path to a JSON config file")
	flags.StringVar(&a.config.APIBaseURL, "api-url", a.config.APIBaseURL, "AppMarket API base URL")
	flags.StringVar(&a.config.AuthProfile, "auth-profile", a.config.AuthProfile, "keystore profile holding the API key")
	flags.StringVar(&a.config.KeystorePath, "keystore", a.config.KeystorePath, "path to the credentials keystore (default ~/.appship/appship.db)")
	flags.DurationVar(&a.config.RequestTimeout, "timeout", a.config.RequestTimeout, "per-request timeout")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&a.jsonOut, "json", false, "print listings as JSON instead of columns")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Flags are bound now; rebuild the logger in case --log-level
		// changed it.
		a.log = logging.New(cmd.ErrOrStderr(), a.config.LogLevel)
	}

	cmd.AddCommand(
		a.mediaCmd(),
		a.versionsCmd(),
		a.buildsCmd(),
		a.localizationsCmd(),
		a.profilesCmd(),
		a.authCmd(),
		a.versionCmd(),
	)
	return cmd
}
