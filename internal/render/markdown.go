package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders message text for the terminal. A nil *Markdown, or one
// whose renderer failed to build, passes text through unchanged.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown builds a glamour renderer. style is "auto" or a glamour
// standard style name such as "dark", "light" or "notty".
func NewMarkdown(style string, width int) (*Markdown, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Markdown{renderer: r}, nil
}

// Render returns the rendered text, or the input when rendering fails
func (m *Markdown) Render(content string) string {
	if m == nil || m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
