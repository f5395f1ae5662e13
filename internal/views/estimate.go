package views

import (
	"io"
	"strconv"

	"story-analyzer/internal/models"
)

// Estimate shows team day and point estimates
var Estimate = ViewFunc(func(w io.Writer, ctx Context) error {
	p := newPrinter(w, ctx)
	if ctx.Session == nil || (ctx.Session.Review() == nil && ctx.Session.Estimates() == nil) {
		p.emptyHint("estimates")
		return p.err
	}

	if review := ctx.Session.Review(); review != nil {
		team := review.Analysis.TeamEstimates

		p.title("Team Estimates (days)")
		p.heading("Average: %s days", formatNumber(team.Days.Average))
		estimateRows(p, team.Days.Individual, "days")
		p.separator()

		p.title("Team Estimates (points)")
		p.heading("Average: %s points, Fibonacci: %d", formatNumber(team.Points.Average), team.Points.Fibonacci)
		estimateRows(p, team.Points.Individual, "pts")
	}

	if days := ctx.Session.Estimates(); days != nil {
		if ctx.Session.Review() != nil {
			p.separator()
		}
		p.title("Person-day Estimates")
		p.heading("Average: %s days from %d estimates", formatNumber(days.Average), days.TotalEstimates)
		for _, member := range days.TeamEstimates {
			value := "no estimate"
			if member.Estimate != nil {
				value = formatNumber(*member.Estimate) + " days"
			}
			p.text("  %-20s %-20s %s", member.Name, member.Role, value)
		}
	}
	return p.err
})

func estimateRows(p *printer, estimates []models.Estimate, unit string) {
	if len(estimates) == 0 {
		p.muted("  (no individual estimates)")
		return
	}
	for _, e := range estimates {
		p.text("  %-20s %-20s %6s %s  (%s)", e.Name, e.Role, formatNumber(e.Estimate), unit, e.Confidence)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
