package endpoints

import (
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

// Endpoint describes one IGDB query endpoint: where to POST, what Apicalypse
// body to send, and an optional filter expression applied to the results.
type Endpoint struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Method string `yaml:"method"`
	Body   string `yaml:"body"`

	// Filter is an optional expr-lang expression evaluated per record,
	// e.g. "total_rating > 70". Must evaluate to a boolean.
	Filter string `yaml:"filter,omitempty"`

	compiledFilter *vm.Program
}

// Config is the full endpoint configuration file.
type Config struct {
	Endpoints []Endpoint     `yaml:"endpoints"`
	Variables map[string]any `yaml:"variables,omitempty"`
}

// Defaults returns the built-in games/platforms endpoints used when no
// config file is given. The field lists mirror what the label cards need.
func Defaults() *Config {
	return &Config{
		Endpoints: []Endpoint{
			{
				Name:   "games",
				URL:    "https://api.igdb.com/v4/games",
				Method: "POST",
				Body: "fields name, summary, first_release_date, total_rating, cover.image_id, cover.width, cover.height, " +
					"involved_companies.company.name, involved_companies.company.country, genres.name; " +
					"where total_rating_count > 5; sort total_rating_count desc;",
			},
			{
				Name:   "platforms",
				URL:    "https://api.igdb.com/v4/platforms",
				Method: "POST",
				Body: "fields name, abbreviation, alternative_name, generation, " +
					"platform_logo.image_id, platform_logo.width, platform_logo.height, " +
					"versions.platform_version_release_dates.date, versions.platform_logo.image_id, " +
					"versions.platform_logo.width, versions.platform_logo.height;",
			},
		},
	}
}

// Load reads, substitutes and validates an endpoint configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading endpoint config '%s': %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing endpoint config '%s': %w", path, err)
	}

	var cfg Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding endpoint config '%s': %w", path, err)
	}

	cfg.substituteVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating endpoint config '%s': %w", path, err)
	}
	return &cfg, nil
}

// substituteVariables replaces ${var} placeholders in endpoint bodies and URLs.
func (c *Config) substituteVariables() {
	if len(c.Variables) == 0 {
		return
	}
	for i := range c.Endpoints {
		for name, value := range c.Variables {
			placeholder := fmt.Sprintf("${%s}", name)
			replacement := fmt.Sprintf("%v", value)
			c.Endpoints[i].Body = strings.ReplaceAll(c.Endpoints[i].Body, placeholder, replacement)
			c.Endpoints[i].URL = strings.ReplaceAll(c.Endpoints[i].URL, placeholder, replacement)
		}
	}
}

// Validate checks required fields and compiles filter expressions.
func (c *Config) Validate() error {
	seenNames := make(map[string]struct{})

	for i := range c.Endpoints {
		e := &c.Endpoints[i]

		if e.Name == "" {
			return fmt.Errorf("endpoint at index %d has empty name", i)
		}
		if _, exists := seenNames[e.Name]; exists {
			return fmt.Errorf("endpoint name '%s' is not unique", e.Name)
		}
		seenNames[e.Name] = struct{}{}

		if e.URL == "" {
			return fmt.Errorf("endpoint '%s' missing url", e.Name)
		}
		if e.Body == "" {
			return fmt.Errorf("endpoint '%s' missing body", e.Name)
		}
		if e.Method == "" {
			e.Method = "POST"
		}
		if e.Method != "POST" && e.Method != "GET" {
			return fmt.Errorf("endpoint '%s' has unsupported method '%s'", e.Name, e.Method)
		}

		if e.Filter != "" {
			program, err := expr.Compile(e.Filter, expr.AsBool(), expr.AllowUndefinedVariables())
			if err != nil {
				return fmt.Errorf("compiling filter for endpoint '%s': %w", e.Name, err)
			}
			e.compiledFilter = program
		}
	}
	return nil
}

// Get returns the endpoint with the given name.
func (c *Config) Get(name string) (*Endpoint, error) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], nil
		}
	}
	return nil, fmt.Errorf("endpoint '%s' not found in configuration", name)
}

// SetFilter replaces the endpoint's filter expression, compiling it immediately.
// Used for the --filter flag, which overrides whatever the config file carries.
func (e *Endpoint) SetFilter(filter string) error {
	if filter == "" {
		e.Filter = ""
		e.compiledFilter = nil
		return nil
	}
	program, err := expr.Compile(filter, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("compiling filter expression: %w", err)
	}
	e.Filter = filter
	e.compiledFilter = program
	return nil
}

// Matches evaluates the endpoint's filter against one record.
// Records that fail evaluation (e.g. missing fields in a strict expression)
// are kept rather than silently dropped.
func (e *Endpoint) Matches(record map[string]any) bool {
	if e.compiledFilter == nil {
		return true
	}
	out, err := expr.Run(e.compiledFilter, record)
	if err != nil {
		return true
	}
	keep, ok := out.(bool)
	return !ok || keep
}
