package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STORYATLAS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables. A double underscore separates
	// nested keys, so STORYATLAS_SERVER__PORT -> server.port while
	// STORYATLAS_DATA_DIR -> data_dir.
	if err := k.Load(env.Provider("STORYATLAS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "STORYATLAS_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSearchProviders is the set of recognized search provider values.
var validSearchProviders = map[SearchProvider]bool{
	SearchProviderNone:   true,
	SearchProviderOpenAI: true,
	SearchProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Story == "" {
		return fmt.Errorf("story is required")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.Server.Port)
	}

	if c.Search.Provider != "" && !validSearchProviders[c.Search.Provider] {
		return fmt.Errorf("invalid search provider %q: must be one of none, openai, ollama", c.Search.Provider)
	}

	if c.Site.OutputDir == "" {
		return fmt.Errorf("site output_dir is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given search provider. Ollama runs locally and
// needs no key.
func APIKeyEnvVar(provider SearchProvider) string {
	switch provider {
	case SearchProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
