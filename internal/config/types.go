package config

// SearchProvider identifies an embedding provider for chapter search.
type SearchProvider string

const (
	SearchProviderNone   SearchProvider = "none"
	SearchProviderOpenAI SearchProvider = "openai"
	SearchProviderOllama SearchProvider = "ollama"
)

// Config is the top-level storyatlas configuration, corresponding to
// .storyatlas.yml.
type Config struct {
	Story   string       `yaml:"story" koanf:"story"`
	DataDir string       `yaml:"data_dir" koanf:"data_dir"`
	Assets  AssetsConfig `yaml:"assets" koanf:"assets"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Map     MapConfig    `yaml:"map" koanf:"map"`
	Search  SearchConfig `yaml:"search" koanf:"search"`
	Site    SiteConfig   `yaml:"site" koanf:"site"`
}

// AssetsConfig controls which files the asset server exposes. Empty
// include patterns fall back to the common image types.
type AssetsConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// MapConfig selects the base map style sent to the browser.
type MapConfig struct {
	StyleURL string `yaml:"style_url" koanf:"style_url"`
	Globe    bool   `yaml:"globe" koanf:"globe"`
}

// SearchConfig selects the embedding provider behind chapter search.
// Provider "none" keeps search on plain text matching.
type SearchConfig struct {
	Provider SearchProvider `yaml:"provider" koanf:"provider"`
	Model    string         `yaml:"model" koanf:"model"`
	BaseURL  string         `yaml:"base_url" koanf:"base_url"`
}

// SiteConfig holds static export settings.
type SiteConfig struct {
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
	Title     string `yaml:"title" koanf:"title"`
}
