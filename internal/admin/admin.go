// Package admin provides staff-only tabular CRUD over the blog's models, driven
// by per-model display, edit, search and filter settings.
package admin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	PerPage           = 100
	EmptyValueDisplay = "Not set"
)

var (
	ErrUnknownModel = errors.New("unknown admin model")
	ErrNotFound     = errors.New("record not found")
)

// FieldError reports a rejected field of an admin write.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Inline embeds the rows of another registered model that point at a record.
type Inline struct {
	Model      string
	ForeignKey string
}

// ModelAdmin configures how one model is listed and edited. Field names are
// database column names.
type ModelAdmin struct {
	Name         string
	New          func() any
	NewSlice     func() any
	ListDisplay  []string
	ListEditable []string
	SearchFields []string
	ListFilter   []string
	Inlines      []Inline

	schema *schema.Schema
}

func (m *ModelAdmin) editable(column string) bool {
	for _, c := range m.ListEditable {
		if c == column {
			return true
		}
	}
	return false
}

func (m *ModelAdmin) filterable(column string) bool {
	for _, c := range m.ListFilter {
		if c == column {
			return true
		}
	}
	return false
}

// Site is the registry of administered models.
type Site struct {
	db     *gorm.DB
	mu     sync.RWMutex
	models map[string]*ModelAdmin
}

func NewSite(db *gorm.DB) *Site {
	return &Site{db: db, models: make(map[string]*ModelAdmin)}
}

// Register parses the model's schema and checks that every configured column exists.
func (s *Site) Register(m ModelAdmin) error {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(m.New()); err != nil {
		return fmt.Errorf("parsing %s schema: %w", m.Name, err)
	}
	m.schema = stmt.Schema

	groups := [][]string{m.ListDisplay, m.ListEditable, m.SearchFields, m.ListFilter}
	for _, group := range groups {
		for _, column := range group {
			if m.schema.LookUpField(column) == nil {
				return fmt.Errorf("%s has no column %q", m.Name, column)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.Name] = &m
	return nil
}

func (s *Site) model(name string) (*ModelAdmin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	if !ok {
		return nil, ErrUnknownModel
	}
	return m, nil
}

// ModelInfo describes a registered model for the admin index.
type ModelInfo struct {
	Name         string   `json:"name"`
	ListDisplay  []string `json:"list_display"`
	ListEditable []string `json:"list_editable"`
	SearchFields []string `json:"search_fields"`
	ListFilter   []string `json:"list_filter"`
}

// Index lists the registered models by name.
func (s *Site) Index() []ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ModelInfo, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, ModelInfo{
			Name:         m.Name,
			ListDisplay:  orEmpty(m.ListDisplay),
			ListEditable: orEmpty(m.ListEditable),
			SearchFields: orEmpty(m.SearchFields),
			ListFilter:   orEmpty(m.ListFilter),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
