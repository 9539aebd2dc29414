package view

import (
	"fmt"
	"log"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Synchronizer projects navigation state onto the surface, camera and
// markers. It holds no state of its own: every render recomputes the full
// field set from the story, so repeated renders of the same position are
// idempotent.
type Synchronizer struct {
	story   *story.Story
	surface Surface
	camera  Camera
	markers Markers
	icons   Icons
}

func NewSynchronizer(st *story.Story, surface Surface, camera Camera, markers Markers, icons Icons) *Synchronizer {
	return &Synchronizer{story: st, surface: surface, camera: camera, markers: markers, icons: icons}
}

// RenderChapter fills the detail pane for chapter i, flies the camera to
// the chapter and highlights its location. The forward button's disabled
// state is recomputed on every render so it is stale-proof: disabled
// exactly when i is the last chapter.
func (s *Synchronizer) RenderChapter(ch *story.Chapter, i int) {
	s.surface.SetText(TargetStoryTitle, s.story.Properties.Title)
	s.surface.SetText(TargetTitle, ch.Title)
	s.surface.SetHTML(TargetBody, ch.ContentHTML)
	s.surface.SetText(TargetDate, ch.Date)
	s.surface.SetText(TargetPlace, ch.Place)
	s.surface.SetImage(TargetImage, ch.ImageURL, ch.Title)
	if ch.ImageCredit != "" {
		s.surface.SetText(TargetAttribution, "Image: "+ch.ImageCredit)
	} else {
		s.surface.SetText(TargetAttribution, "")
	}
	s.surface.SetText(TargetIndex, fmt.Sprintf("%d / %d", i+1, s.story.Count()))
	s.surface.SetDisabled(TargetForward, i == s.story.LastIndex())
	s.surface.SetPane(PaneDetails)

	s.camera.FlyTo(Flight{
		Coords:   ch.Coords,
		Duration: ChapterFlightDuration,
		Pitch:    ch.Camera.Pitch,
		Heading:  ch.Camera.Heading,
		Roll:     ch.Camera.Roll,
		Zoom:     ch.Camera.Zoom,
	})
	s.camera.CreateHighlight(ch.Coords, HighlightRadiusMeters)
}

// RenderIntro fills the intro pane from the story properties: the story
// title takes the heading, the overline and place clear, the attribution
// carries the author line, and the hero image hides. Any chapter
// highlight is removed and the camera returns to the overview position.
func (s *Synchronizer) RenderIntro() {
	props := s.story.Properties
	s.surface.SetText(TargetStoryTitle, "")
	s.surface.SetText(TargetTitle, props.Title)
	s.surface.SetHTML(TargetBody, props.DescriptionHTML)
	s.surface.SetText(TargetDate, props.Date)
	s.surface.SetText(TargetPlace, "")
	s.surface.SetImage(TargetImage, "", "")
	if props.CreatedBy != "" {
		s.surface.SetText(TargetAttribution, "A story by "+props.CreatedBy)
	} else {
		s.surface.SetText(TargetAttribution, "")
	}
	s.surface.SetText(TargetIndex, "")
	s.surface.SetDisabled(TargetForward, s.story.LastIndex() < 0)
	s.surface.SetPane(PaneIntro)

	s.camera.RemoveHighlight()
	s.camera.FlyTo(Flight{
		Coords:   props.Coords,
		Duration: IntroFlightDuration,
		Pitch:    props.Camera.Pitch,
		Heading:  props.Camera.Heading,
		Roll:     props.Camera.Roll,
		Zoom:     props.Camera.Zoom,
	})
}

// SelectMarker marks chapter i's map marker as active.
func (s *Synchronizer) SelectMarker(i int) {
	s.markers.Select(i)
}

// ClearMarker deselects whichever marker is active.
func (s *Synchronizer) ClearMarker() {
	s.markers.Clear()
}

// SetAutoplayIcon swaps the autoplay button glyph between play and pause.
func (s *Synchronizer) SetAutoplayIcon(playing bool) {
	name := "play"
	if playing {
		name = "pause"
	}
	markup, err := s.icons.Icon(name)
	if err != nil {
		log.Printf("icon %q: %v", name, err)
		return
	}
	s.surface.SetIcon(TargetAutoplay, markup)
}
