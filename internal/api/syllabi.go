package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/examforge/examforge/internal/store"
	"github.com/examforge/examforge/internal/syllabus"
)

// minContentLen rejects submissions too short to be a syllabus.
const minContentLen = 10

// SyllabusRecord is the stored form of one uploaded syllabus.
type SyllabusRecord struct {
	ID         string          `json:"id"`
	CourseName string          `json:"course_name"`
	Content    string          `json:"content"`
	Units      []syllabus.Unit `json:"units"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type uploadSyllabusRequest struct {
	CourseName string `json:"course_name"`
	Content    string `json:"content"`
}

func (s *Server) handleCreateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req uploadSyllabusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.CourseName) == "" {
		writeError(w, http.StatusBadRequest, "course_name is required")
		return
	}
	if len(strings.TrimSpace(req.Content)) < minContentLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("content must be at least %d characters", minContentLen))
		return
	}

	outline, err := s.parser.Parse(req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse syllabus: "+err.Error())
		return
	}

	now := time.Now().UTC()
	rec := SyllabusRecord{
		ID:         newID("syl"),
		CourseName: strings.TrimSpace(req.CourseName),
		Content:    req.Content,
		Units:      outline.Units,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Put(r.Context(), syllabiCollection, rec.ID, rec); err != nil {
		s.log.Error("store syllabus", "id", rec.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store syllabus")
		return
	}

	s.log.Info("syllabus created", "id", rec.ID, "course", rec.CourseName, "units", len(rec.Units))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListSyllabi(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context(), syllabiCollection)
	if err != nil {
		s.log.Error("list syllabi", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list syllabi")
		return
	}
	writeRawList(w, records)
}

func (s *Server) handleGetSyllabus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var rec SyllabusRecord
	err := s.store.Get(r.Context(), syllabiCollection, id, &rec)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "syllabus not found: "+id)
		return
	}
	if err != nil {
		s.log.Error("get syllabus", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load syllabus")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSyllabus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.store.Delete(r.Context(), syllabiCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "syllabus not found: "+id)
		return
	}
	if err != nil {
		s.log.Error("delete syllabus", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete syllabus")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeRawList writes a list of already-marshaled records as a JSON array.
func writeRawList(w http.ResponseWriter, records []json.RawMessage) {
	if records == nil {
		records = []json.RawMessage{}
	}
	writeJSON(w, http.StatusOK, records)
}

func newID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%x", prefix, b)
}
