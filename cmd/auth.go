package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/byronlcollier/zaparoo-label-automator/internal/twitch"
)

var authShowHeaders bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain or refresh the cached IGDB app token",
	Long: `Runs the token lifecycle: loads the client credentials, validates any
cached token against the Twitch validation endpoint, and performs a fresh
client-credentials exchange when needed. The resulting token is persisted
to the config directory for subsequent runs.

On first run with an empty config directory a credentials template is
created; fill in client_id and client_secret and run again.`,
	Example: `  zaplab auth
  zaplab auth --show-headers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := f.GetTokenManager()

		token, err := manager.Initialise(cmd.Context())
		if err != nil {
			reportAuthFailure(err)
			return err
		}

		log.Info().Msgf("%s token ready", greenCheck)
		fmt.Printf("  %s: %s\n", faint("Access token"), maskToken(token))

		if authShowHeaders {
			fmt.Println(bold("\n── Auth Headers ──"))
			for key, value := range manager.AuthHeaders() {
				display := value
				if key == "Authorization" {
					display = "Bearer " + maskToken(token)
				}
				fmt.Printf("  %s: %s\n", faint(key), display)
			}
		}
		return nil
	},
}

func init() {
	authCmd.Flags().BoolVar(&authShowHeaders, "show-headers", false,
		"Print the Client-ID / Authorization headers (token masked)")
	rootCmd.AddCommand(authCmd)
}

// reportAuthFailure gives the operator an actionable message per error class
// before the error bubbles up to Execute for the non-zero exit.
func reportAuthFailure(err error) {
	var cfgErr *twitch.ConfigError
	var netErr *twitch.NetworkError
	var authErr *twitch.AuthError

	switch {
	case errors.As(err, &cfgErr):
		log.Error().Msgf("%s configuration problem: %v", redCross, cfgErr)
	case errors.As(err, &netErr):
		log.Error().Msgf("%s could not reach the Twitch identity service: %v", redCross, netErr)
	case errors.As(err, &authErr):
		log.Error().Msgf("%s credentials were rejected: %v", redCross, authErr)
	default:
		log.Error().Msgf("%s token initialisation failed: %v", redCross, err)
	}
}
