package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/byronlcollier/zaparoo-label-automator/internal/endpoints"
	"github.com/byronlcollier/zaparoo-label-automator/internal/igdb"
	"github.com/byronlcollier/zaparoo-label-automator/internal/twitch"
)

// f is the shared factory instance commands pull their dependencies from.
var f = NewFactory()

// Factory wires flags into the components commands need.
type Factory struct {
	// EndpointsPath is an optional endpoint config file; built-in defaults apply otherwise.
	EndpointsPath string

	// PlatformsFile is the platforms-of-interest CSV.
	PlatformsFile string
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetTokenManager builds the token manager over the configured directory.
func (f *Factory) GetTokenManager() *twitch.Manager {
	store := twitch.NewFileStore(viper.GetString(ConfigDirKey))
	return twitch.NewManager(store, store)
}

// GetQueryClient builds an IGDB client fed by the given (initialised) manager.
func (f *Factory) GetQueryClient(manager *twitch.Manager) *igdb.Client {
	return igdb.NewClient(manager)
}

// LoadEndpoints loads the endpoint config file, or the built-in defaults
// when none was given.
func (f *Factory) LoadEndpoints() (*endpoints.Config, error) {
	if f.EndpointsPath == "" {
		return endpoints.Defaults(), nil
	}
	return endpoints.Load(f.EndpointsPath)
}

func (f *Factory) bindEndpointsFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.EndpointsPath, "endpoints", "e", "",
		"Endpoint config file (YAML); built-in games/platforms endpoints are used when omitted")
}

func (f *Factory) bindPlatformsFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.PlatformsFile, "platforms-file", "p", "mister_supported_cores.csv",
		"CSV of platforms of interest (id,name)")
}
