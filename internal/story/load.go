package story

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	yamlv3 "gopkg.in/yaml.v3"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Load reads a story YAML file, renders its markdown bodies and derives a
// slug when the file does not set one.
func Load(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading story %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing story %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes story YAML and renders chapter markdown to HTML.
func Parse(data []byte) (*Story, error) {
	var s Story
	if err := yamlv3.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshalling story: %w", err)
	}
	if s.Slug == "" {
		s.Slug = Slugify(s.Properties.Title)
	}

	htmlBody, err := renderMarkdown(s.Properties.Description)
	if err != nil {
		return nil, fmt.Errorf("rendering story description: %w", err)
	}
	s.Properties.DescriptionHTML = htmlBody

	for i := range s.Chapters {
		ch := &s.Chapters[i]
		htmlBody, err := renderMarkdown(ch.Content)
		if err != nil {
			return nil, fmt.Errorf("rendering chapter %s: %w", ch.ID, err)
		}
		ch.ContentHTML = htmlBody
	}
	return &s, nil
}

// Marshal encodes the story back to YAML (export, library storage).
func (s *Story) Marshal() ([]byte, error) {
	data, err := yamlv3.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshalling story: %w", err)
	}
	return data, nil
}

func renderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Slugify turns a title into a URL-safe slug: lowercase alphanumerics
// joined by single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "story"
	}
	return slug
}
