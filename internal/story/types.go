package story

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `yaml:"lat" koanf:"lat" json:"lat"`
	Lng float64 `yaml:"lng" koanf:"lng" json:"lng"`
}

// CameraOptions controls how the camera frames a location.
type CameraOptions struct {
	Pitch   float64 `yaml:"pitch" koanf:"pitch" json:"pitch"`
	Heading float64 `yaml:"heading" koanf:"heading" json:"heading"`
	Roll    float64 `yaml:"roll,omitempty" koanf:"roll" json:"roll,omitempty"`
	Zoom    float64 `yaml:"zoom,omitempty" koanf:"zoom" json:"zoom,omitempty"`
}

// Chapter is one stop in a story. The ID is the stable handle used by
// shareable links and session state; reordering chapters must not change it.
type Chapter struct {
	ID          string        `yaml:"id" koanf:"id" json:"id"`
	Title       string        `yaml:"title" koanf:"title" json:"title"`
	Content     string        `yaml:"content" koanf:"content" json:"content"`
	Date        string        `yaml:"date,omitempty" koanf:"date" json:"date,omitempty"`
	Place       string        `yaml:"place,omitempty" koanf:"place" json:"place,omitempty"`
	ImageURL    string        `yaml:"image_url,omitempty" koanf:"image_url" json:"image_url,omitempty"`
	ImageCredit string        `yaml:"image_credit,omitempty" koanf:"image_credit" json:"image_credit,omitempty"`
	Coords      Coordinates   `yaml:"coords" koanf:"coords" json:"coords"`
	Camera      CameraOptions `yaml:"camera" koanf:"camera" json:"camera"`

	// ContentHTML is derived from Content at load time and never written
	// back to YAML.
	ContentHTML string `yaml:"-" koanf:"-" json:"content_html,omitempty"`
}

// Properties describes the story as a whole: the intro screen and the
// overview camera position. Unlike chapters it has no navigational ID and
// no hero image.
type Properties struct {
	Title       string        `yaml:"title" koanf:"title" json:"title"`
	Description string        `yaml:"description" koanf:"description" json:"description"`
	CreatedBy   string        `yaml:"created_by" koanf:"created_by" json:"created_by"`
	Date        string        `yaml:"date,omitempty" koanf:"date" json:"date,omitempty"`
	Coords      Coordinates   `yaml:"coords" koanf:"coords" json:"coords"`
	Camera      CameraOptions `yaml:"camera" koanf:"camera" json:"camera"`

	DescriptionHTML string `yaml:"-" koanf:"-" json:"description_html,omitempty"`
}

// Story is an ordered sequence of chapters plus the intro properties.
// Stories are read-only after loading; navigation never mutates them.
type Story struct {
	Slug       string     `yaml:"slug,omitempty" koanf:"slug" json:"slug"`
	Properties Properties `yaml:"story" koanf:"story" json:"story"`
	Chapters   []Chapter  `yaml:"chapters" koanf:"chapters" json:"chapters"`
}

// Count returns the number of chapters.
func (s *Story) Count() int {
	return len(s.Chapters)
}

// Chapter returns the chapter at index i, or nil when i is out of range.
func (s *Story) Chapter(i int) *Chapter {
	if i < 0 || i >= len(s.Chapters) {
		return nil
	}
	return &s.Chapters[i]
}

// IndexByID resolves a chapter ID to its position in the sequence.
// Unknown or empty IDs resolve to -1, the intro position.
func (s *Story) IndexByID(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Chapters {
		if s.Chapters[i].ID == id {
			return i
		}
	}
	return -1
}

// LastIndex returns the index of the final chapter, or -1 for a story
// with no chapters.
func (s *Story) LastIndex() int {
	return len(s.Chapters) - 1
}
