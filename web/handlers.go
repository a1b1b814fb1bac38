package web

import (
	"encoding/json"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/backdrop-cli/backdrop/resolver"
	"github.com/backdrop-cli/backdrop/shell"
	"github.com/samber/lo"
)

// videoTypes covers containers the system mime table often lacks.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".ogv":  "video/ogg",
	".mov":  "video/quicktime",
}

type pageSource struct {
	URI  string
	Type string
	Tier media.Tier
}

type pageData struct {
	Title          string
	Poster         string
	Candidates     []pageSource
	CrossfadeMs    int64
	FreezeEpsilonS float64
}

// resolveResponse is the body of GET /api/resolve.
type resolveResponse struct {
	Poster     string              `json:"poster"`
	Signal     probe.Signal        `json:"signal"`
	Candidates []media.Variant     `json:"candidates"`
	Decisions  []resolver.Decision `json:"decisions"`
}

// mount probes the requesting client and resolves its candidates through a shell
// mounted for this request only.
func (s *Server) mount(r *http.Request) (shell.Snapshot, error) {
	sh := shell.New(shell.Options{
		Table:       s.opts.Table,
		Environment: probe.FromRequest(r),
		Host:        "page",
	})

	if err := sh.Mount(r.Context()); err != nil {
		return shell.Snapshot{}, err
	}
	defer func() { _ = sh.Unmount() }()

	return sh.Snapshot(time.Now()), nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.mount(r)
	if err != nil {
		log.Errorf("mount page shell: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	options := s.tuning()
	data := pageData{
		Title:          s.opts.Title,
		Poster:         snapshot.Poster,
		Candidates:     lo.Map(snapshot.Candidates, func(v media.Variant, _ int) pageSource { return pageSource{URI: v.URI, Type: videoType(v.URI), Tier: v.Tier} }),
		CrossfadeMs:    options.Crossfade.Milliseconds(),
		FreezeEpsilonS: options.FreezeEpsilon.Seconds(),
	}

	hints(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Errorf("render page: %v", err)
	}
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.mount(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hints(w)
	writeJSON(w, http.StatusOK, resolveResponse{
		Poster:     snapshot.Poster,
		Signal:     snapshot.Signal,
		Candidates: snapshot.Candidates,
		Decisions:  resolver.Explain(snapshot.Signal, s.opts.Table.Variants),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// tuning returns the handoff parameters with defaults applied.
func (s *Server) tuning() playback.Options {
	o := s.opts.Playback
	if o.Crossfade <= 0 {
		o.Crossfade = playback.DefaultCrossfade
	}
	if o.FreezeEpsilon <= 0 {
		o.FreezeEpsilon = playback.DefaultFreezeEpsilon
	}
	return o
}

// hints asks the browser for the Client Hints the probe reads and marks the
// response as varying on them.
func hints(w http.ResponseWriter) {
	all := strings.Join(probe.HintHeaders, ", ")
	w.Header().Set("Accept-CH", all)
	w.Header().Set("Critical-CH", strings.Join(probe.CriticalHints, ", "))
	w.Header().Add("Vary", all)
}

func videoType(uri string) string {
	ext := strings.ToLower(path.Ext(uri))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
