package story

import "fmt"

// Validate checks structural correctness: a titled story, unique chapter
// IDs and coordinates on the globe. An empty chapter list is legal (the
// story is intro-only) and reported through Warnings instead.
func (s *Story) Validate() error {
	if s.Properties.Title == "" {
		return fmt.Errorf("story title is required")
	}
	if err := validCoords(s.Properties.Coords); err != nil {
		return fmt.Errorf("story coords: %w", err)
	}
	if err := validCamera(s.Properties.Camera); err != nil {
		return fmt.Errorf("story camera: %w", err)
	}

	seen := make(map[string]int, len(s.Chapters))
	for i := range s.Chapters {
		ch := &s.Chapters[i]
		if ch.ID == "" {
			return fmt.Errorf("chapter %d: id is required", i)
		}
		if prev, dup := seen[ch.ID]; dup {
			return fmt.Errorf("chapter %d: duplicate id %q (also chapter %d)", i, ch.ID, prev)
		}
		seen[ch.ID] = i
		if err := validCoords(ch.Coords); err != nil {
			return fmt.Errorf("chapter %q coords: %w", ch.ID, err)
		}
		if err := validCamera(ch.Camera); err != nil {
			return fmt.Errorf("chapter %q camera: %w", ch.ID, err)
		}
	}
	return nil
}

// Warnings reports conditions worth flagging that do not block serving.
func (s *Story) Warnings() []string {
	var warns []string
	if len(s.Chapters) == 0 {
		warns = append(warns, "story has no chapters; viewers will only see the intro")
	}
	for i := range s.Chapters {
		ch := &s.Chapters[i]
		if ch.Title == "" {
			warns = append(warns, fmt.Sprintf("chapter %q has no title", ch.ID))
		}
		if ch.Content == "" {
			warns = append(warns, fmt.Sprintf("chapter %q has no content", ch.ID))
		}
		if ch.ImageURL != "" && ch.ImageCredit == "" {
			warns = append(warns, fmt.Sprintf("chapter %q has an image but no image credit", ch.ID))
		}
	}
	return warns
}

func validCoords(c Coordinates) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("lat %v out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("lng %v out of range [-180, 180]", c.Lng)
	}
	return nil
}

func validCamera(c CameraOptions) error {
	if c.Pitch < 0 || c.Pitch > 90 {
		return fmt.Errorf("pitch %v out of range [0, 90]", c.Pitch)
	}
	if c.Zoom < 0 {
		return fmt.Errorf("zoom %v must be non-negative", c.Zoom)
	}
	return nil
}
