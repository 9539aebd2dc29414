package assets

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludes are the asset patterns served when the config lists
// none: the image types hero images come in.
var DefaultIncludes = []string{
	"**/*.jpg",
	"**/*.jpeg",
	"**/*.png",
	"**/*.webp",
	"**/*.gif",
	"**/*.svg",
}

// Server serves story assets (hero images) from a directory, filtered by
// include/exclude globs so a story directory can hold drafts and sources
// without exposing them.
type Server struct {
	dir     string
	include []string
	exclude []string
}

// NewServer creates an asset server over dir. Empty include patterns fall
// back to DefaultIncludes.
func NewServer(dir string, include, exclude []string) *Server {
	if len(include) == 0 {
		include = DefaultIncludes
	}
	return &Server{dir: dir, include: include, exclude: exclude}
}

// ServeHTTP serves one asset. Requests outside the directory, or for
// paths the glob filter rejects, answer 404.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" || !s.Allowed(rel) {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	abs, err := filepath.Abs(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	root, err := filepath.Abs(s.dir)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Allowed reports whether the relative path passes the include globs and
// none of the exclude globs.
func (s *Server) Allowed(relPath string) bool {
	if strings.Contains(relPath, "..") {
		return false
	}
	return matchesAny(relPath, s.include) && !matchesAny(relPath, s.exclude)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also matches bare filenames.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
