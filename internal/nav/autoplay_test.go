package nav

import (
	"testing"
	"time"
)

func waitForStop(t *testing.T, c *Controller) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.AutoplayRunning() {
		if time.Now().After(deadline) {
			t.Fatal("autoplay did not stop in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAutoplayRunsToLastChapterAndStops(t *testing.T) {
	c, _, _ := newTestController(3)
	c.Initialize()
	c.SetAutoplayInterval(2 * time.Millisecond)

	c.ToggleAutoplay()
	waitForStop(t, c)

	if got := c.CurrentIndex(); got != 2 {
		t.Errorf("autoplay should end on the last chapter, got %d", got)
	}
}

func TestAutoplayFromIntroEntersFirstChapterFirst(t *testing.T) {
	c, v, _ := newTestController(3)
	c.SetAutoplayInterval(2 * time.Millisecond)

	c.ToggleAutoplay()
	waitForStop(t, c)

	if got := v.firstRender(); got != "chapter:0:a" {
		t.Errorf("first autoplay entry: got %q, want chapter 0", got)
	}
	if got := c.CurrentIndex(); got != 2 {
		t.Errorf("final index: got %d, want 2", got)
	}
}

func TestAutoplayAtLastChapterStopsWithoutAdvancing(t *testing.T) {
	c, _, _ := newTestController(3)
	c.GoToChapter(2)
	c.SetAutoplayInterval(2 * time.Millisecond)

	c.ToggleAutoplay()
	waitForStop(t, c)

	if got := c.CurrentIndex(); got != 2 {
		t.Errorf("index moved to %d; the first tick should only stop the timer", got)
	}
}

func TestToggleStopsARunningTimer(t *testing.T) {
	c, v, _ := newTestController(3)
	c.SetAutoplayInterval(time.Hour)

	c.ToggleAutoplay()
	if !c.AutoplayRunning() {
		t.Fatal("first toggle should start autoplay")
	}

	c.ToggleAutoplay()
	if c.AutoplayRunning() {
		t.Fatal("second toggle should stop autoplay")
	}
	if c.CurrentIndex() != -1 {
		t.Errorf("no tick fired, index should still be -1, got %d", c.CurrentIndex())
	}

	v.mu.Lock()
	icons := append([]bool(nil), v.icons...)
	v.mu.Unlock()
	if len(icons) != 2 || icons[0] != true || icons[1] != false {
		t.Errorf("icon sequence: got %v, want [true false]", icons)
	}
}

func TestStopAutoplayIsIdempotent(t *testing.T) {
	c, _, _ := newTestController(3)

	c.StopAutoplay()
	c.StopAutoplay()

	if c.AutoplayRunning() {
		t.Error("autoplay should be stopped")
	}
}

func TestAutoplayTimerSingleSlot(t *testing.T) {
	ticks := make(chan struct{}, 64)
	a := NewAutoplay(2*time.Millisecond, func() { ticks <- struct{}{} })

	a.Start()
	a.Start() // second start must not add a ticker
	defer a.Stop()

	<-ticks
	a.Stop()
	a.Stop() // second stop must be a no-op

	// Ticking ceases shortly after Stop; wait for two quiet windows.
	quiet := 0
	for i := 0; i < 100 && quiet < 2; i++ {
		time.Sleep(5 * time.Millisecond)
		if len(ticks) == 0 {
			quiet++
			continue
		}
		for len(ticks) > 0 {
			<-ticks
		}
		quiet = 0
	}
	if quiet < 2 {
		t.Error("ticks continued after Stop")
	}
	if a.Running() {
		t.Error("Running should report false after Stop")
	}
}

func TestAutoplayOnEmptyStoryStopsImmediately(t *testing.T) {
	c, _, _ := newTestController(0)
	c.SetAutoplayInterval(2 * time.Millisecond)

	c.ToggleAutoplay()
	waitForStop(t, c)

	if c.CurrentIndex() != -1 {
		t.Errorf("index: got %d, want -1", c.CurrentIndex())
	}
}
