package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the text recovered from one downloaded file. Each block is
// segmented independently so sentences never span two HTML elements or two
// PDF pages.
type Document struct {
	Name   string
	Format string
	Blocks []string
}

// Adapter extracts plain text blocks from one document format
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks whether the adapter understands the file extension
	CanHandle(ext string) bool

	// Extract returns the text blocks of the raw file content
	Extract(data []byte) ([]string, error)
}

// Registry picks an adapter by file extension
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the html, xml and pdf adapters and the
// plain-text adapter as fallback
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	html := NewHTMLAdapter()
	registry.Register(html)
	registry.Register(NewXMLAdapter(html))
	registry.Register(NewPDFAdapter())

	registry.generic = NewTextAdapter()

	return registry
}

// Register adds an adapter; later registrations do not shadow earlier ones
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the adapter for path, falling back to plain text
func (r *Registry) FindAdapter(path string) Adapter {
	ext := Ext(path)
	for _, adapter := range r.adapters {
		if adapter.CanHandle(ext) {
			return adapter
		}
	}
	return r.generic
}

// ExtractFile reads path and extracts its blocks with the matching adapter
func (r *Registry) ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	adapter := r.FindAdapter(path)
	blocks, err := adapter.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("%s extract %s: %w", adapter.Name(), filepath.Base(path), err)
	}

	return &Document{
		Name:   filepath.Base(path),
		Format: adapter.Name(),
		Blocks: blocks,
	}, nil
}

// Ext returns the lowercased extension of path without the dot
func Ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
