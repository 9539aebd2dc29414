package nav

import (
	"sync"
	"time"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

// Renderer is the view side of navigation: full renders, marker
// selection and the autoplay button glyph. internal/view provides the
// production implementation.
type Renderer interface {
	RenderChapter(ch *story.Chapter, index int)
	RenderIntro()
	SelectMarker(index int)
	ClearMarker()
	SetAutoplayIcon(playing bool)
}

// Controller is the navigation state machine for one viewer. The current
// position is never cached here: every operation re-derives it from the
// persisted chapter parameter through the codec, so the parameter and the
// rendered view cannot drift apart.
//
// A mutex serializes transitions because autoplay ticks and viewer input
// arrive on different goroutines. View and camera calls made during a
// transition are fire-and-forget; the controller never waits on them.
type Controller struct {
	mu       sync.Mutex
	story    *story.Story
	codec    *Codec
	view     Renderer
	autoplay *Autoplay
}

// NewController wires a controller for one viewer. Call Initialize once
// before feeding it input.
func NewController(st *story.Story, codec *Codec, view Renderer) *Controller {
	c := &Controller{story: st, codec: codec, view: view}
	c.autoplay = NewAutoplay(AutoplayInterval, c.autoplayTick)
	return c
}

// SetAutoplayInterval replaces the tick interval. Only effective before
// autoplay first starts; tests use short intervals.
func (c *Controller) SetAutoplayInterval(d time.Duration) {
	c.autoplay.mu.Lock()
	defer c.autoplay.mu.Unlock()
	c.autoplay.interval = d
}

// Initialize performs the first render based on the persisted parameter:
// chapter detail when the parameter names a known chapter, the intro
// otherwise. Unknown or stale chapter IDs land on the intro, never an
// error.
func (c *Controller) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.codec.CurrentIndex()
	if ch := c.story.Chapter(i); ch != nil {
		c.view.SelectMarker(i)
		c.view.RenderChapter(ch, i)
		return
	}
	c.view.RenderIntro()
}

// CurrentIndex reports the derived position: -1 for the intro, otherwise
// a chapter index.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codec.CurrentIndex()
}

// GoToChapter is the sole way into a chapter: it persists the chapter ID,
// selects the matching marker and renders the detail view. Out-of-range
// indexes are ignored.
func (c *Controller) GoToChapter(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.goToChapter(i)
}

func (c *Controller) goToChapter(i int) {
	ch := c.story.Chapter(i)
	if ch == nil {
		return
	}
	c.codec.SetChapter(ch.ID)
	c.view.SelectMarker(i)
	c.view.RenderChapter(ch, i)
}

// Advance moves to the next chapter. Past the last chapter it does
// nothing: no wrap-around. From the intro it enters the first chapter.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
}

func (c *Controller) advance() {
	next := c.codec.CurrentIndex() + 1
	if next < c.story.Count() {
		c.goToChapter(next)
	}
}

// Retreat moves to the previous chapter. Below the first chapter it falls
// through to the intro instead of stopping, unlike Advance at the top
// end. Retreating from the intro stays on the intro.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retreat()
}

func (c *Controller) retreat() {
	prev := c.codec.CurrentIndex() - 1
	if prev >= 0 {
		c.goToChapter(prev)
		return
	}
	c.resetToIntro()
}

// ResetToIntro clears the persisted position, deselects the marker and
// renders the intro. Idempotent.
func (c *Controller) ResetToIntro() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetToIntro()
}

func (c *Controller) resetToIntro() {
	c.codec.ClearChapter()
	c.view.ClearMarker()
	c.view.RenderIntro()
}

// Forward handles the forward button: any running autoplay stops first.
func (c *Controller) Forward() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
	c.advance()
}

// Back handles the back button: any running autoplay stops first.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
	c.retreat()
}

// Start handles the intro's start button: enter the first chapter.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
	c.goToChapter(0)
}

// JumpTo handles direct chapter selection (marker or list click).
func (c *Controller) JumpTo(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
	c.goToChapter(i)
}

// Reset handles the back-to-overview control.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
	c.resetToIntro()
}

// ToggleAutoplay starts autoplay if stopped, stops it if running.
func (c *Controller) ToggleAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoplay.Running() {
		c.stopAutoplay()
		return
	}
	c.view.SetAutoplayIcon(true)
	c.autoplay.Start()
}

// StopAutoplay stops autoplay and restores the play glyph. Safe no-op
// when autoplay is not running.
func (c *Controller) StopAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
}

// stopAutoplay unconditionally stops the timer and restores the play
// icon; callers hold c.mu.
func (c *Controller) stopAutoplay() {
	c.autoplay.Stop()
	c.view.SetAutoplayIcon(false)
}

// AutoplayRunning reports whether autoplay is ticking.
func (c *Controller) AutoplayRunning() bool {
	return c.autoplay.Running()
}

// autoplayTick runs on the timer goroutine: advance, then stop once the
// last chapter is reached. A tick that raced a manual stop is discarded.
func (c *Controller) autoplayTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.autoplay.Running() {
		return
	}
	c.advance()
	if c.codec.CurrentIndex() == c.story.LastIndex() {
		c.stopAutoplay()
	}
}

// Close releases the controller's timer. The viewer's session calls this
// when the connection ends.
func (c *Controller) Close() {
	c.StopAutoplay()
}
