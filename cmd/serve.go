package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/assets"
	"github.com/ziadkadry99/storyatlas/internal/config"
	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/live"
	"github.com/ziadkadry99/storyatlas/internal/search"
	"github.com/ziadkadry99/storyatlas/internal/server"
	"github.com/ziadkadry99/storyatlas/internal/webui"
)

var (
	servePort  int
	serveStory string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the story map in the browser",
	Long: `Imports the configured story file, starts the web server and keeps each
viewer's position in a per-browser session. With --watch, edits to the
story file reload every open page in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		storyPath := cfg.Story
		if serveStory != "" {
			storyPath = serveStory
		}
		port := cfg.Server.Port
		if servePort > 0 {
			port = servePort
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store := library.NewStore(database)

		// Import the configured story so the served copy is always the
		// file on disk, not a stale library row. A missing file is fine
		// when the library already holds stories.
		var servedSlug string
		if _, statErr := os.Stat(storyPath); statErr == nil {
			st, err := importStoryFile(ctx, store, storyPath)
			if err != nil {
				return err
			}
			servedSlug = st.Slug
		} else if serveStory != "" {
			return fmt.Errorf("story file %s not found", serveStory)
		}

		hub := live.NewHub(store, webui.IconSet{}, webui.MapConfig{
			StyleURL: cfg.Map.StyleURL,
			Globe:    cfg.Map.Globe,
		})

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
		idx, err := buildIndex(ctx, store, embedder)
		if err != nil {
			return fmt.Errorf("building search index: %w", err)
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database)
		registerRoutes(srv, cfg, store, hub, idx, servedSlug)

		var watcher *live.Watcher
		if serveWatch {
			if servedSlug == "" {
				return fmt.Errorf("--watch needs a story file; none found at %s", storyPath)
			}
			watcher, err = live.NewWatcher(storyPath, servedSlug, hub, store)
			if err != nil {
				return fmt.Errorf("creating watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("watching %s: %w", storyPath, err)
			}
			defer watcher.Stop()
		}

		// Graceful shutdown.
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-sigCtx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "storyatlas v%s starting on port %d\n", Version, port)
		if servedSlug != "" {
			fmt.Fprintf(os.Stderr, "  Story: http://localhost:%d/s/%s\n", port, servedSlug)
		}
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		if idx != nil {
			fmt.Fprintf(os.Stderr, "  Search: %s (%d chapters indexed)\n", embedder.Name(), idx.Count())
		} else {
			fmt.Fprintf(os.Stderr, "  Search: text matching\n")
		}
		if serveWatch {
			fmt.Fprintf(os.Stderr, "  Watching: %s\n", storyPath)
		}

		err = srv.Start()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	},
}

// registerRoutes wires the story pages, WebSocket sessions, asset server
// and the JSON API onto the server's router. Live sessions stay outside
// the request-timeout group: they hold their connection for the whole
// visit.
func registerRoutes(srv *server.Server, cfg *config.Config, store *library.Store, hub *live.Hub, idx *search.Index, servedSlug string) {
	r := srv.Router()

	hub.RegisterRoutes(r)

	r.Mount("/assets", http.StripPrefix("/assets",
		assets.NewServer(cfg.Assets.Dir, cfg.Assets.Include, cfg.Assets.Exclude)))

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(60 * time.Second))
		library.RegisterRoutes(api, store)
		search.RegisterRoutes(api, store, idx)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		slug := servedSlug
		if slug == "" {
			first, err := store.FirstSlug(req.Context())
			if err != nil {
				http.Error(w, "loading library", http.StatusInternalServerError)
				return
			}
			slug = first
		}
		if slug == "" {
			http.Error(w, "no stories in the library; run `storyatlas import <story.yaml>`", http.StatusNotFound)
			return
		}
		http.Redirect(w, req, "/s/"+slug, http.StatusFound)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveStory, "story", "", "story file to serve (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload open pages when the story file changes")
	rootCmd.AddCommand(serveCmd)
}
