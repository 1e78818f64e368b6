// Package api exposes the syllabus and question-paper operations over HTTP.
// Handlers stay thin: parsing, planning, and generation live in the syllabus
// and paper packages; this layer owns request decoding, record storage, and
// the read-through cache.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/examforge/examforge/internal/blueprint"
	"github.com/examforge/examforge/internal/paper"
	"github.com/examforge/examforge/internal/platform/cache"
	"github.com/examforge/examforge/internal/platform/config"
	"github.com/examforge/examforge/internal/store"
	"github.com/examforge/examforge/internal/syllabus"
)

const (
	syllabiCollection = "syllabi"
	papersCollection  = "question_papers"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	store      store.RecordStore
	parser     *syllabus.Parser
	gateway    paper.Completer
	cache      *cache.Cache // nil disables caching
	blueprints *blueprint.Loader
	gen        config.GenerationConfig
	cacheTTL   time.Duration
	log        *slog.Logger
}

// ServerConfig holds the dependencies for New.
type ServerConfig struct {
	Store      store.RecordStore
	Parser     *syllabus.Parser
	Gateway    paper.Completer
	Cache      *cache.Cache
	Blueprints *blueprint.Loader
	Generation config.GenerationConfig
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// New creates a Server.
func New(cfg ServerConfig) *Server {
	s := &Server{
		store:      cfg.Store,
		parser:     cfg.Parser,
		gateway:    cfg.Gateway,
		cache:      cfg.Cache,
		blueprints: cfg.Blueprints,
		gen:        cfg.Generation,
		cacheTTL:   cfg.CacheTTL,
		log:        cfg.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = time.Hour
	}
	return s
}

// Routes returns the HTTP mux with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /api/syllabi", s.handleCreateSyllabus)
	mux.HandleFunc("GET /api/syllabi", s.handleListSyllabi)
	mux.HandleFunc("GET /api/syllabi/{id}", s.handleGetSyllabus)
	mux.HandleFunc("DELETE /api/syllabi/{id}", s.handleDeleteSyllabus)

	mux.HandleFunc("POST /api/papers", s.handleGeneratePaper)
	mux.HandleFunc("GET /api/papers", s.handleListPapers)
	mux.HandleFunc("GET /api/papers/{id}", s.handleGetPaper)
	mux.HandleFunc("DELETE /api/papers/{id}", s.handleDeletePaper)
	mux.HandleFunc("GET /api/papers/{id}/answer-key", s.handleAnswerKey)
	mux.HandleFunc("GET /api/papers/{id}/export", s.handleExportPaper)
	mux.HandleFunc("GET /api/papers/generate/ws", s.handleGenerateWS)

	mux.HandleFunc("GET /api/blueprints", s.handleListBlueprints)

	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		if err := s.cache.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "cache unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleListBlueprints(w http.ResponseWriter, _ *http.Request) {
	if s.blueprints == nil {
		writeJSON(w, http.StatusOK, []blueprint.Blueprint{})
		return
	}
	writeJSON(w, http.StatusOK, s.blueprints.All())
}
