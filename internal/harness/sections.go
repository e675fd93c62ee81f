package harness

import (
	"strings"

	"github.com/roach88/depwhy/internal/ir"
)

// listSections are the report fields rendered as bullet lists.
var listSections = map[string]func(*ir.Report) []string{
	"risk":          func(r *ir.Report) []string { return r.Risk },
	"security":      func(r *ir.Report) []string { return r.Security },
	"incidents":     func(r *ir.Report) []string { return r.Incidents },
	"compatibility": func(r *ir.Report) []string { return r.Compatibility },
	"sources":       func(r *ir.Report) []string { return r.Sources },
}

// textSections flattens every checkable field to a string.
var textSections = map[string]func(*ir.Report) string{
	"summary":       func(r *ir.Report) string { return r.Summary },
	"release":       func(r *ir.Report) string { return r.ReleaseSummary },
	"raw_text":      func(r *ir.Report) string { return r.RawText },
	"risk":          joined("risk"),
	"security":      joined("security"),
	"incidents":     joined("incidents"),
	"compatibility": joined("compatibility"),
	"sources":       joined("sources"),
}

func joined(name string) func(*ir.Report) string {
	return func(r *ir.Report) string {
		return strings.Join(listSections[name](r), "\n")
	}
}
