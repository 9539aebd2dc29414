package config

// searchPresets maps providers to the embedding model used when the
// config does not name one.
var searchPresets = map[SearchProvider]string{
	SearchProviderOpenAI: "text-embedding-3-small",
	SearchProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns the configuration used when no .storyatlas.yml
// exists. Asset include patterns are left empty so the asset server
// applies its own image defaults.
func DefaultConfig() *Config {
	return &Config{
		Story:   "story.yaml",
		DataDir: ".storyatlas",
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Map: MapConfig{
			Globe: true,
		},
		Search: SearchConfig{
			Provider: SearchProviderNone,
		},
		Site: SiteConfig{
			OutputDir: "site",
		},
	}
}

// DefaultModel returns the embedding model for the given provider when
// the config does not set one.
func DefaultModel(provider SearchProvider) string {
	return searchPresets[provider]
}
