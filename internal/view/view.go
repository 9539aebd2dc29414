package view

import (
	"time"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Pane names one of the two mutually exclusive side panels.
type Pane string

const (
	PaneIntro   Pane = "intro"
	PaneDetails Pane = "details"
)

// Surface element targets. The embedded page carries elements with these
// IDs; renders address them by name.
const (
	TargetStoryTitle  = "story-title"
	TargetTitle       = "title"
	TargetBody        = "body"
	TargetDate        = "date"
	TargetPlace       = "place"
	TargetImage       = "image"
	TargetAttribution = "attribution"
	TargetIndex       = "chapter-index"
	TargetForward     = "nav-forward"
	TargetAutoplay    = "nav-autoplay"
)

const (
	// Flight durations: the intro overview is a quick establishing move,
	// chapter entries linger slightly longer.
	IntroFlightDuration   = 1000 * time.Millisecond
	ChapterFlightDuration = 1500 * time.Millisecond

	// HighlightRadiusMeters is the fixed radius of the circle drawn
	// around the active chapter's location.
	HighlightRadiusMeters = 250.0
)

// Flight is a camera move command. Commands are fire-and-forget: callers
// never learn when, or whether, the animation finished.
type Flight struct {
	Coords   story.Coordinates `json:"coords"`
	Duration time.Duration     `json:"-"`
	Pitch    float64           `json:"pitch"`
	Heading  float64           `json:"heading"`
	Roll     float64           `json:"roll,omitempty"`
	Zoom     float64           `json:"zoom,omitempty"`
}

// Surface mutates the text panel: one setter per element kind. An empty
// image source hides the image element.
type Surface interface {
	SetText(target, value string)
	SetHTML(target, html string)
	SetImage(target, src, alt string)
	SetDisabled(target string, disabled bool)
	SetIcon(target, markup string)
	SetPane(p Pane)
}

// Camera drives the map view.
type Camera interface {
	FlyTo(f Flight)
	CreateHighlight(c story.Coordinates, radiusMeters float64)
	RemoveHighlight()
}

// Markers controls chapter marker selection on the map.
type Markers interface {
	Select(index int)
	Clear()
}

// Icons resolves icon names to inline markup.
type Icons interface {
	Icon(name string) (string, error)
}
