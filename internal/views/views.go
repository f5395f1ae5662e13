// Package views renders session state for the terminal and the UI server.
package views

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"story-analyzer/internal/helpers"
	"story-analyzer/internal/session"
)

// SectionTitles are the headings used by the story view
var SectionTitles = struct {
	Story    string
	Criteria string
	Analysis string
}{
	Story:    "Improved Story",
	Criteria: "Enhanced Acceptance Criteria",
	Analysis: "Analysis",
}

// Context is everything a view may read. Views never fetch data themselves.
type Context struct {
	Session *session.Session
	Dark    bool
	// Plain disables ANSI colors
	Plain bool
}

// View renders one page
type View interface {
	Render(w io.Writer, ctx Context) error
}

// ViewFunc adapts a function to View
type ViewFunc func(w io.Writer, ctx Context) error

// Render calls f
func (f ViewFunc) Render(w io.Writer, ctx Context) error { return f(w, ctx) }

// printer writes lines and keeps the first write error
type printer struct {
	w       io.Writer
	palette helpers.Palette
	plain   bool
	err     error
}

func newPrinter(w io.Writer, ctx Context) *printer {
	palette := helpers.LightPalette
	if ctx.Dark {
		palette = helpers.DarkPalette
	}
	return &printer{w: w, palette: palette, plain: ctx.Plain}
}

func (p *printer) printf(c *color.Color, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	if p.plain || c == nil {
		_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) title(format string, args ...interface{}) {
	p.printf(p.palette.Title, format, args...)
}

func (p *printer) heading(format string, args ...interface{}) {
	p.printf(p.palette.Accent, format, args...)
}

func (p *printer) text(format string, args ...interface{}) {
	p.printf(nil, format, args...)
}

func (p *printer) muted(format string, args ...interface{}) {
	p.printf(p.palette.Muted, format, args...)
}

func (p *printer) separator() {
	p.printf(nil, "%s", strings.Repeat("─", 80))
}

func (p *printer) list(items []string) {
	if len(items) == 0 {
		p.muted("  (none)")
		return
	}
	for _, item := range items {
		p.text("  • %s", item)
	}
}

func (p *printer) emptyHint(what string) {
	p.muted("No %s yet. Submit a story first (story-analyzer analyze <story.yaml>).", what)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
