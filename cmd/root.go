package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/byronlcollier/zaparoo-label-automator/internal/buildinfo"
	"github.com/byronlcollier/zaparoo-label-automator/internal/logging"
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"

	ConfigDirKey = "config_dir"
)

var rootCmd = &cobra.Command{
	Use:   "zaplab",
	Short: fmt.Sprintf("Zaparoo label automator (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `zaplab collects platform and game metadata from the IGDB database
for a CSV of platforms of interest, so the results can be turned into
printable NFC game-label cards. Authentication against the Twitch identity
service is handled transparently: a cached app token is validated and
refreshed as needed.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(&logging.Options{
			Level:   viper.GetString(LogLevelKey),
			Format:  viper.GetString(LogFormatKey),
			NoColor: viper.GetBool(LogNoColorKey),
		})
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().String("config-dir", ".config",
		"Directory holding api_credentials.json and the cached token")
	_ = viper.BindPFlag(ConfigDirKey, rootCmd.PersistentFlags().Lookup("config-dir"))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	viper.SetEnvPrefix("ZAPLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
