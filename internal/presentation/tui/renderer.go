package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a glamour renderer. An empty style auto-detects a
// light or dark background; "notty" produces plain text.
func NewRenderer(style string) (Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// Plain is a Renderer that returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
