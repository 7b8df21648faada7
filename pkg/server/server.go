// Package server exposes skinsuite operations over HTTP.
//
// Every request carries the mesh it works on as a mesh document (see
// [mesh.Read]); stateless operations answer with the edited mesh. Interactive
// operations create a session holding its own copy of the mesh, which later
// requests update by ID:
//
//	POST   /v1/islands              {"mesh": {...}, "group": "spine"}  -> session + island summaries
//	PUT    /v1/islands/{id}         {"lower": 0, "upper": 0.1}         -> selected vertices
//	POST   /v1/range                {"mesh": {...}, "group": "spine"}  -> session
//	PUT    /v1/range/{id}           {"lower": 0.2, "upper": 1}         -> selected vertices
//	POST   /v1/paste                {"mesh": {...}}                    -> session (clipboard from the snapshot store)
//	PUT    /v1/paste/{id}           {"factor": 0.5}
//	POST   /v1/paste/{id}/apply                                        -> normalized mesh
//	GET    /v1/sessions/{id}                                           -> session info + mesh
//	DELETE /v1/sessions/{id}
//
//	POST   /v1/copy                 {"mesh": {...}}                    -> aggregated weights, saved to the clipboard
//	GET    /v1/clipboard
//	POST   /v1/select/{op}          {"mesh": {...}}                    op: grow, shrink, unnormalized, save, saved, unsaved
//	POST   /v1/weights/{op}         {"mesh": {...}}                    op: zero, prune, normalize
//	POST   /v1/transfer             {"source": {...}, "target": {...}, "selected_only": false, "additive": false}
//	POST   /v1/render?format=svg    {"mesh": {...}, "group": "spine"}
//
// Errors are JSON objects {"code": "...", "error": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/skinsuite/pkg/buildinfo"
	"github.com/matzehuels/skinsuite/pkg/session"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

// Options configures a [Server].
type Options struct {
	// Sessions stores interactive sessions. Nil means an in-memory store.
	Sessions session.Store
	// Snapshots stores the clipboard and saved selection. Nil means an
	// in-memory store.
	Snapshots snapshot.Store
	// Logger receives request logs. Nil means log.Default().
	Logger *log.Logger

	MaxInfluence int
	// PruneMargin is the weight a group must exceed to be kept by prune.
	// Negative means weights.DefaultPruneMargin.
	PruneMargin float64
	SessionTTL  time.Duration
}

// Server serves the HTTP API.
type Server struct {
	router    chi.Router
	sessions  session.Store
	snapshots snapshot.Store
	logger    *log.Logger
	opts      Options
}

// New creates a server with all routes registered.
func New(opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.MaxInfluence <= 0 {
		opts.MaxInfluence = weights.DefaultMaxInfluence
	}
	if opts.PruneMargin < 0 {
		opts.PruneMargin = weights.DefaultPruneMargin
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore(opts.SessionTTL)
	}
	if opts.Snapshots == nil {
		opts.Snapshots = snapshot.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{
		sessions:  opts.Sessions,
		snapshots: opts.Snapshots,
		logger:    opts.Logger,
		opts:      opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/islands", s.createIslands)
		r.Put("/islands/{id}", s.updateIslands)
		r.Post("/range", s.createRange)
		r.Put("/range/{id}", s.updateRange)
		r.Post("/paste", s.createPaste)
		r.Put("/paste/{id}", s.updatePaste)
		r.Post("/paste/{id}/apply", s.applyPaste)

		r.Get("/sessions/{id}", s.getSession)
		r.Delete("/sessions/{id}", s.deleteSession)

		r.Post("/copy", s.copyWeights)
		r.Get("/clipboard", s.getClipboard)
		r.Post("/select/{op}", s.selectOp)
		r.Post("/weights/{op}", s.weightsOp)
		r.Post("/transfer", s.transfer)
		r.Post("/render", s.renderIslands)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept once per minute.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
