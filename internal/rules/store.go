// Package rules persists the singleton tournament rules document.
package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Updater identifies who last changed the rules.
type Updater struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Document is the rules payload. Version increments on every update.
type Document struct {
	Content     string  `json:"content"`
	LastUpdated string  `json:"last_updated"`
	UpdatedBy   Updater `json:"updated_by"`
	Version     int     `json:"version"`
}

type fileShape struct {
	Rules *Document `json:"rules,omitempty"`
}

// Store guards the rules document behind a mutex and writes it through a
// temp-file rename so the file on disk is never partially written.
type Store struct {
	mu   sync.Mutex
	path string
	doc  *Document
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the rules file. A missing file means empty rules, not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.doc = nil
		return nil
	}
	if err != nil {
		return err
	}
	var f fileShape
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	s.doc = f.Rules
	return nil
}

// Content returns the current rules text, empty when none are set.
func (s *Store) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.Content
}

// Current returns a copy of the document and whether one exists.
func (s *Store) Current() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return Document{}, false
	}
	return *s.doc, true
}

// Update is the single write entry point: it replaces the content, stamps
// the updater, bumps the version, and persists.
func (s *Store) Update(content string, by Updater) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := 1
	if s.doc != nil {
		version = s.doc.Version + 1
	}
	doc := &Document{
		Content:     strings.TrimSpace(content),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		UpdatedBy:   by,
		Version:     version,
	}

	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *Store) write(doc *Document) error {
	data, err := json.MarshalIndent(fileShape{Rules: doc}, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".rules-*.json")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, s.path)
}
