package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// storyFileCandidates are the story file names the wizard checks for,
// in preference order.
var storyFileCandidates = []string{"story.yaml", "story.yml"}

// detectStoryFile checks the current directory for an existing story file.
func detectStoryFile() (path string, found bool) {
	for _, name := range storyFileCandidates {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
	}
	return "story.yaml", false
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It saves the config to .storyatlas.yml and writes a
// starter story file when none exists.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to storyatlas! Let's set up your story.")
	fmt.Println()

	// Detect an existing story file.
	defaultStory, found := detectStoryFile()
	if found {
		fmt.Printf("Found an existing story file: %s\n\n", defaultStory)
	}

	// 1. Story file.
	storyPrompt := promptui.Prompt{
		Label:   "Story file",
		Default: defaultStory,
	}
	storyPath, err := storyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("story file: %w", err)
	}

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  "8080",
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 3. Map style.
	stylePrompt := promptui.Prompt{
		Label:   "Map style URL (leave blank for the built-in style)",
		Default: "",
	}
	styleURL, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("map style: %w", err)
	}

	// 4. Map projection.
	projectionPrompt := promptui.Select{
		Label: "Map projection",
		Items: []string{
			"globe (3D globe, zooms out to a sphere)",
			"flat (classic mercator)",
		},
	}
	projectionIdx, _, err := projectionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("map projection: %w", err)
	}
	globe := projectionIdx == 0

	// 5. Search provider.
	searchPrompt := promptui.Select{
		Label: "Chapter search",
		Items: []string{
			"none (plain text matching)",
			"openai (hosted embeddings)",
			"ollama (local embeddings)",
		},
	}
	searchIdx, _, err := searchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}
	providers := []SearchProvider{SearchProviderNone, SearchProviderOpenAI, SearchProviderOllama}
	provider := providers[searchIdx]

	// 6. Asset patterns.
	assetsPrompt := promptui.Prompt{
		Label:   "Asset include patterns (comma-separated, leave blank for image defaults)",
		Default: "",
	}
	assetsStr, err := assetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("asset patterns: %w", err)
	}
	include := splitAndTrim(assetsStr)

	// 7. Site output directory.
	sitePrompt := promptui.Prompt{
		Label:   "Output directory for the exported site",
		Default: "site",
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site output dir: %w", err)
	}

	// Build the config.
	cfg := &Config{
		Story:   storyPath,
		DataDir: ".storyatlas",
		Assets: AssetsConfig{
			Dir:     "assets",
			Include: include,
		},
		Server: ServerConfig{
			Port: port,
		},
		Map: MapConfig{
			StyleURL: styleURL,
			Globe:    globe,
		},
		Search: SearchConfig{
			Provider: provider,
			Model:    DefaultModel(provider),
		},
		Site: SiteConfig{
			OutputDir: siteDir,
		},
	}

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running storyatlas serve.\n", envVar)
		}
	}

	// Write a starter story when the chosen file does not exist yet.
	if _, err := os.Stat(storyPath); os.IsNotExist(err) {
		if err := os.WriteFile(storyPath, []byte(starterStory), 0644); err != nil {
			return nil, fmt.Errorf("writing starter story: %w", err)
		}
		fmt.Printf("\nWrote a starter story to %s\n", storyPath)
	}

	// Save to .storyatlas.yml.
	configPath := ".storyatlas.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// validatePort checks that a prompt answer is a usable TCP port.
func validatePort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}

// starterStory is the story file written by the wizard when the chosen
// path does not exist. Coordinates point at the Eiffel Tower and the
// Colosseum.
const starterStory = `story:
  title: My First Story
  description: |
    A short journey to get you started. Replace these chapters with
    your own, then run storyatlas serve to see them on the map.
  created_by: Your Name
  coords:
    lat: 48.85837
    lng: 2.29448
  camera:
    zoom: 3

chapters:
  - id: paris
    title: Paris
    place: Paris, France
    content: |
      Every story starts somewhere. This one starts at the **Eiffel
      Tower**. Chapter text is Markdown, so emphasis, links and lists
      all work.
    coords:
      lat: 48.85837
      lng: 2.29448
    camera:
      zoom: 15
      pitch: 45

  - id: rome
    title: Rome
    place: Rome, Italy
    content: |
      The map flies between chapters as readers move through the
      story. Give each chapter its own coordinates and camera to
      control the view.
    coords:
      lat: 41.89021
      lng: 12.49223
    camera:
      zoom: 14
      heading: 30
`
