package blueprint

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches blueprints from a directory tree.
type Loader struct {
	rootDir    string
	blueprints map[string]Blueprint
	mu         sync.RWMutex
}

// NewLoader creates a loader and reads all blueprints under rootDir.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:    rootDir,
		blueprints: make(map[string]Blueprint),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading blueprints: %w", err)
	}

	slog.Info("blueprints loaded", "count", len(l.blueprints))
	return l, nil
}

// Get returns a blueprint by ID.
func (l *Loader) Get(id string) (Blueprint, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.blueprints[id]
	return b, ok
}

// All returns all loaded blueprints ordered by ID.
func (l *Loader) All() []Blueprint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Blueprint, 0, len(l.blueprints))
	for _, b := range l.blueprints {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return l.loadFile(path)
	})
}

func (l *Loader) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var b Blueprint
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	l.mu.Lock()
	l.blueprints[b.ID] = b
	l.mu.Unlock()

	slog.Debug("blueprint loaded", "id", b.ID, "file", path)
	return nil
}
