package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	mdMu sync.Mutex
	// Keyed by style and wrap width. A fixed style avoids the terminal
	// background query that WithAutoStyle performs.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a task description for the expanded view. It falls
// back to the raw text when rendering fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := styles.DarkStyle
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = styles.NoTTYStyle
	}
	cacheKey := style + ":" + itoa(width)

	mdMu.Lock()
	r := mdRenderers[cacheKey]
	mdMu.Unlock()
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdMu.Lock()
		mdRenderers[cacheKey] = rr
		mdMu.Unlock()
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
