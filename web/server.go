// Package web is the page host: it serves the background page, probing each visitor
// from their Client Hints and listing the resolved variants best first.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	Table    media.Table
	Playback playback.Options

	// Assets is a directory served under / for posters and videos. Empty disables it.
	Assets string
	Title  string

	// ResolveLimit caps /api/resolve requests per minute and client IP. Zero disables it.
	ResolveLimit int
}

// Server renders the background page.
type Server struct {
	opts   Options
	page   *template.Template
	router chi.Router
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.Title == "" {
		opts.Title = constant.Backdrop
	}

	page, err := template.New("page").Parse(constant.PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	s := &Server{opts: opts, page: page}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(accessLog)

	r.Get("/", s.handlePage)
	r.Group(func(r chi.Router) {
		if s.opts.ResolveLimit > 0 {
			r.Use(rateLimit(s.opts.ResolveLimit, time.Minute))
		}
		r.Get("/api/resolve", s.handleResolve)
	})
	r.Get("/healthz", s.handleHealth)

	if s.opts.Assets != "" {
		r.Handle("/*", http.FileServer(filesystem.HTTPDir(s.opts.Assets)))
	}

	return r
}

// Handler returns the HTTP handler of the page host.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	log.Infof("page host listening on %s", addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
