package nav

import "github.com/ziadkadry99/storyatlas/internal/story"

// ChapterParam is the parameter name that carries the current chapter ID.
const ChapterParam = "chapter"

// Codec translates between the persisted chapter parameter and chapter
// indexes. The parameter holds a chapter ID, not a position, so stories
// can be reordered without breaking saved links.
type Codec struct {
	story  *story.Story
	params Params
}

func NewCodec(st *story.Story, params Params) *Codec {
	return &Codec{story: st, params: params}
}

// CurrentIndex derives the current chapter index from the persisted
// parameter. An absent parameter or one naming no known chapter resolves
// to -1, the intro position. Resolution never fails: stale links degrade
// to the intro.
func (c *Codec) CurrentIndex() int {
	v, ok := c.params.Get(ChapterParam)
	if !ok {
		return -1
	}
	return c.story.IndexByID(v)
}

// SetChapter persists the given chapter ID as the current position.
func (c *Codec) SetChapter(id string) {
	c.params.Set(ChapterParam, id)
}

// ClearChapter removes the persisted position, returning to the intro.
func (c *Codec) ClearChapter() {
	c.params.Clear(ChapterParam)
}
