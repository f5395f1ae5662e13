package views

import (
	"io"
	"strings"
)

// Home is the story input page
var Home = ViewFunc(func(w io.Writer, ctx Context) error {
	p := newPrinter(w, ctx)
	p.title("Story Analyzer")
	p.text("Submit a user story with its acceptance criteria and context to get an")
	p.text("INVEST review, an improved story, suggestions, a technical review and team estimates.")
	p.separator()
	p.heading("Story file format (YAML or JSON)")
	p.text("  text: As a user, I want to reset my password")
	p.text("  acceptance_criteria:")
	p.text("    - Must be secure")
	p.text("  context: Security feature")
	p.separator()

	if ctx.Session == nil || ctx.Session.Analysis() == nil {
		p.muted("No analysis in this session.")
		return p.err
	}
	analysis := ctx.Session.Analysis()
	p.heading("Current analysis")
	p.text("  %s", firstLine(analysis.ImprovedStory.Text))
	p.text("  %d suggestions, views: /story /agile /tech /estimate", len(analysis.Suggestions))
	return p.err
})

// Story shows the improved story with the INVEST letters and suggestions
var Story = ViewFunc(func(w io.Writer, ctx Context) error {
	p := newPrinter(w, ctx)
	if ctx.Session == nil || ctx.Session.Analysis() == nil {
		p.emptyHint("analysis")
		return p.err
	}
	analysis := ctx.Session.Analysis()

	p.title(SectionTitles.Story)
	if analysis.ImprovedStory.Text == "" {
		p.muted("  (no improved story returned)")
	} else {
		p.text("  %s", analysis.ImprovedStory.Text)
	}
	p.separator()

	p.title(SectionTitles.Criteria)
	p.list(analysis.ImprovedStory.AcceptanceCriteria)
	p.separator()

	p.title(SectionTitles.Analysis)
	for _, entry := range analysis.InvestAnalysis {
		p.heading("[%s] %s", entry.Letter, entry.Title)
		if entry.Content == "" {
			p.muted("    (no notes)")
			continue
		}
		p.text("    %s", entry.Content)
	}

	if len(analysis.Suggestions) > 0 {
		p.separator()
		p.title("Suggestions")
		for _, key := range sortedKeys(analysis.Suggestions) {
			p.heading("  %s", key)
			p.text("    %s", analysis.Suggestions[key])
		}
	}
	return p.err
})

// Agile shows the INVEST breakdown and the agile coach review
var Agile = ViewFunc(func(w io.Writer, ctx Context) error {
	p := newPrinter(w, ctx)
	if ctx.Session == nil || (ctx.Session.Analysis() == nil && ctx.Session.Review() == nil) {
		p.emptyHint("agile review")
		return p.err
	}

	if analysis := ctx.Session.Analysis(); analysis != nil {
		p.title("INVEST Review")
		for _, entry := range analysis.InvestAnalysis {
			content := entry.Content
			if content == "" {
				content = "(no notes)"
			}
			p.heading("%s  %s", entry.Letter, entry.Title)
			p.text("   %s", content)
		}
	}

	if review := ctx.Session.Review(); review != nil {
		coach := review.Analysis.AgileCoach
		p.separator()
		p.title("Agile Coach")
		p.text("%s", coach.Analysis)
		p.heading("Recommendations")
		p.list(coach.Recommendations)
		p.heading("Risks")
		p.list(coach.Risks)
	}
	return p.err
})

// Tech shows the senior developer's technical review
var Tech = ViewFunc(func(w io.Writer, ctx Context) error {
	p := newPrinter(w, ctx)
	if ctx.Session == nil || ctx.Session.Review() == nil {
		p.emptyHint("technical review")
		return p.err
	}
	dev := ctx.Session.Review().Analysis.SeniorDev

	p.title("Technical Review")
	p.text("%s", dev.Analysis)
	p.separator()
	p.heading("Feasibility")
	p.text("  %s", orNone(dev.TechnicalDetails.Feasibility))
	p.heading("Complexity")
	p.text("  %s", orNone(dev.TechnicalDetails.Complexity))
	p.heading("Dependencies")
	p.list(dev.TechnicalDetails.Dependencies)
	p.heading("Technical Risks")
	p.list(dev.TechnicalDetails.Risks)
	p.heading("Delivery Risks")
	p.list(dev.Risks)
	return p.err
})

func firstLine(s string) string {
	if s == "" {
		return "(no improved story)"
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
