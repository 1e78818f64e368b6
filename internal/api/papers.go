package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/examforge/examforge/internal/export"
	"github.com/examforge/examforge/internal/paper"
	"github.com/examforge/examforge/internal/platform/cache"
	"github.com/examforge/examforge/internal/store"
	"github.com/examforge/examforge/internal/syllabus"
)

type generateRequest struct {
	SyllabusID  string       `json:"syllabus_id"`
	BlueprintID string       `json:"blueprint_id,omitempty"`
	Rules       *paper.Rules `json:"rules,omitempty"`
}

func (s *Server) handleGeneratePaper(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.generatePaper(r.Context(), req, nil)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// generatePaper runs the full pipeline for one request: load syllabus,
// resolve rules, plan, generate, assemble, store. Shared by the HTTP and
// WebSocket paths; onProgress may be nil.
func (s *Server) generatePaper(ctx context.Context, req generateRequest, onProgress func(paper.ProgressEvent)) (paper.Paper, error) {
	if req.SyllabusID == "" {
		return paper.Paper{}, &requestError{http.StatusBadRequest, "syllabus_id is required"}
	}

	var rec SyllabusRecord
	err := s.store.Get(ctx, syllabiCollection, req.SyllabusID, &rec)
	if errors.Is(err, store.ErrNotFound) {
		return paper.Paper{}, &requestError{http.StatusNotFound, "syllabus not found: " + req.SyllabusID}
	}
	if err != nil {
		s.log.Error("load syllabus", "id", req.SyllabusID, "error", err)
		return paper.Paper{}, fmt.Errorf("load syllabus: %w", err)
	}

	rules, err := s.resolveRules(req)
	if err != nil {
		return paper.Paper{}, err
	}
	if err := rules.Validate(); err != nil {
		return paper.Paper{}, &requestError{http.StatusBadRequest, err.Error()}
	}
	if limit := s.gen.MaxQuestions; limit > 0 && rules.TotalQuestions() > limit {
		return paper.Paper{}, &requestError{
			http.StatusBadRequest,
			fmt.Sprintf("requested %d questions, limit is %d", rules.TotalQuestions(), limit),
		}
	}

	outline := syllabus.Outline{Units: rec.Units}
	plan, err := paper.BuildPlan(outline, rules)
	if err != nil {
		return paper.Paper{}, &requestError{http.StatusUnprocessableEntity, err.Error()}
	}

	orch := paper.NewOrchestrator(paper.OrchestratorConfig{
		Gateway:     s.gateway,
		MaxAttempts: s.gen.MaxAttempts,
		Concurrency: s.gen.Concurrency,
		CallTimeout: time.Duration(s.gen.TimeoutSeconds) * time.Second,
		OnProgress:  onProgress,
		Logger:      s.log,
	})

	res, err := orch.Run(ctx, plan)
	if err != nil {
		s.log.Error("generation run", "syllabus", req.SyllabusID, "error", err)
		return paper.Paper{}, fmt.Errorf("generation run: %w", err)
	}
	res.CheckTotalMarks(rules.TotalMarks)

	p := paper.NewPaper(rec.ID, rec.CourseName, rules, res)
	if err := s.store.Put(ctx, papersCollection, p.ID, p); err != nil {
		s.log.Error("store paper", "id", p.ID, "error", err)
		return paper.Paper{}, fmt.Errorf("store paper: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, paperCacheKey(p.ID), p, s.cacheTTL); err != nil {
			s.log.Warn("cache paper", "id", p.ID, "error", err)
		}
	}

	s.log.Info("paper generated",
		"id", p.ID,
		"syllabus", rec.ID,
		"questions", p.TotalQuestions,
		"marks", p.TotalMarks,
		"tokens", res.TokensUsed,
		"warnings", len(p.Warnings))
	return p, nil
}

// resolveRules picks the generation rules: an explicit rules object wins,
// otherwise the named blueprint preset supplies them.
func (s *Server) resolveRules(req generateRequest) (paper.Rules, error) {
	if req.Rules != nil {
		return *req.Rules, nil
	}
	if req.BlueprintID == "" {
		return paper.Rules{}, &requestError{http.StatusBadRequest, "either rules or blueprint_id is required"}
	}
	if s.blueprints == nil {
		return paper.Rules{}, &requestError{http.StatusBadRequest, "blueprints are not configured"}
	}
	bp, ok := s.blueprints.Get(req.BlueprintID)
	if !ok {
		return paper.Rules{}, &requestError{http.StatusNotFound, "blueprint not found: " + req.BlueprintID}
	}
	return bp.Rules(), nil
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context(), papersCollection)
	if err != nil {
		s.log.Error("list papers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list papers")
		return
	}
	writeRawList(w, records)
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPaper(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.store.Delete(r.Context(), papersCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "paper not found: "+id)
		return
	}
	if err != nil {
		s.log.Error("delete paper", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete paper")
		return
	}
	if s.cache != nil {
		if err := s.cache.Delete(r.Context(), paperCacheKey(id)); err != nil {
			s.log.Warn("evict paper", "id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// answerKeyEntry is one row of the answer key view.
type answerKeyEntry struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"answer_explanation,omitempty"`
}

func (s *Server) handleAnswerKey(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPaper(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	if !p.Rules.IncludeAnswerKey {
		writeError(w, http.StatusNotFound, "paper was generated without an answer key")
		return
	}

	key := make([]answerKeyEntry, 0, len(p.Questions))
	for _, q := range p.Questions {
		key = append(key, answerKeyEntry{
			QuestionID:    q.ID,
			Question:      q.Text,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paper_id":   p.ID,
		"answer_key": key,
	})
}

func (s *Server) handleExportPaper(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPaper(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.ID+".xlsx"))
	if err := export.WriteXLSX(w, p); err != nil {
		s.log.Error("export paper", "id", p.ID, "error", err)
	}
}

// loadPaper fetches a paper, trying the cache before the store.
func (s *Server) loadPaper(ctx context.Context, id string) (paper.Paper, error) {
	var p paper.Paper

	if s.cache != nil {
		err := s.cache.GetJSON(ctx, paperCacheKey(id), &p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("cache read", "id", id, "error", err)
		}
	}

	err := s.store.Get(ctx, papersCollection, id, &p)
	if errors.Is(err, store.ErrNotFound) {
		return paper.Paper{}, &requestError{http.StatusNotFound, "paper not found: " + id}
	}
	if err != nil {
		s.log.Error("get paper", "id", id, "error", err)
		return paper.Paper{}, fmt.Errorf("load paper: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, paperCacheKey(id), p, s.cacheTTL); err != nil {
			s.log.Warn("cache paper", "id", id, "error", err)
		}
	}
	return p, nil
}

func paperCacheKey(id string) string {
	return "paper:" + id
}

// requestError carries an HTTP status alongside a client-facing message.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// writeGenerateError maps pipeline errors onto HTTP responses.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}
	var structErr *paper.StructuralError
	if errors.As(err, &structErr) {
		writeError(w, http.StatusUnprocessableEntity, structErr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
