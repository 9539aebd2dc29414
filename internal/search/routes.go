package search

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyatlas/internal/library"
)

// RegisterRoutes mounts the chapter search endpoint. A nil index is
// allowed; requests then run the text fallback against the stored story.
func RegisterRoutes(r chi.Router, store *library.Store, idx *Index) {
	r.Post("/api/stories/{slug}/search", handleSearch(store, idx))
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type searchResponse struct {
	Matches []Match `json:"matches"`
}

func handleSearch(store *library.Store, idx *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		st, err := store.LoadStory(r.Context(), slug)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if st == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		var matches []Match
		if idx != nil {
			matches, err = idx.Search(r.Context(), slug, req.Query, req.Limit)
			if err != nil {
				log.Printf("vector search failed, using text fallback: %v", err)
				matches = Fallback(st, req.Query, req.Limit)
			}
		} else {
			matches = Fallback(st, req.Query, req.Limit)
		}
		if matches == nil {
			matches = []Match{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{Matches: matches})
	}
}
