package adapters

import "strings"

// TextAdapter treats the whole file as one block
type TextAdapter struct{}

// NewTextAdapter creates the plain-text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle accepts .txt; the registry also uses it as the fallback
func (a *TextAdapter) CanHandle(ext string) bool {
	return ext == "txt"
}

// Extract drops invalid UTF-8 and returns the content as one block
func (a *TextAdapter) Extract(data []byte) ([]string, error) {
	text := strings.ToValidUTF8(string(data), "")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []string{text}, nil
}
