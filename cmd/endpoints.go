package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Work with the endpoint configuration",
}

var endpointsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an endpoint config file",
	Long: `Loads the endpoint configuration, checks required fields, substitutes
variables and compiles any filter expressions. Exits non-zero when the file
would not survive a fetch run.`,
	Example: `  zaplab endpoints validate --endpoints endpoints.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f.EndpointsPath == "" {
			return fmt.Errorf("no endpoint config given (use --endpoints)")
		}

		cfg, err := f.LoadEndpoints()
		if err != nil {
			log.Error().Msgf("%s %v", redCross, err)
			return err
		}

		for _, e := range cfg.Endpoints {
			filterNote := ""
			if e.Filter != "" {
				filterNote = fmt.Sprintf(" (filter: %s)", faint(e.Filter))
			}
			log.Info().Msgf("%s endpoint '%s' ok%s", greenCheck, e.Name, filterNote)
		}
		log.Info().Msgf("%d endpoint(s) valid", len(cfg.Endpoints))
		return nil
	},
}

func init() {
	f.bindEndpointsFlag(endpointsValidateCmd.Flags())
	endpointsCmd.AddCommand(endpointsValidateCmd)
	rootCmd.AddCommand(endpointsCmd)
}
