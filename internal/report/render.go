package report

import (
	"fmt"
	"strings"

	"github.com/roach88/depwhy/internal/ir"
)

// Section titles, in render order.
const (
	TitleRisk          = "Risk"
	TitleSecurity      = "Security"
	TitleIncidents     = "Incidents"
	TitleCompatibility = "Compatibility"
	TitleSources       = "Sources"
)

// Render formats a report as human-readable text. The output always ends
// with a newline and every section is present.
func Render(r *ir.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	fmt.Fprintf(&b, "Bump: %s (%s)\n", r.BumpKind, r.Direction)

	notes := r.ReleaseSummary
	if r.ReleaseDate != "" {
		notes += fmt.Sprintf(" (released %s)", r.ReleaseDate)
	}
	fmt.Fprintf(&b, "Release notes: %s\n", notes)

	sections := []struct {
		title string
		lines []string
	}{
		{TitleRisk, r.Risk},
		{TitleSecurity, r.Security},
		{TitleIncidents, r.Incidents},
		{TitleCompatibility, r.Compatibility},
		{TitleSources, r.Sources},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s:\n", s.title)
		for _, line := range s.lines {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}

	return b.String()
}
