// Package report assembles upgrade explanations from the fact tables.
//
// Assemble is a pure function of its query and the read-only tables: table
// misses become placeholder lines, never errors, and the same query always
// yields a byte-identical report (see ir.ReportID).
package report

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/depwhy/internal/bump"
	"github.com/roach88/depwhy/internal/ir"
)

// Facts is the read side of the fact tables. *facts.Catalog implements it.
type Facts interface {
	Release(pkg, version string) (ir.ReleaseRecord, bool)
	Issues(pkg, version string) ([]ir.Issue, bool)
	Incidents(pkg, version string) ([]ir.Incident, bool)
	Compatibility(pkg string) (ir.CompatibilityRow, bool)
	Ecosystem(pkg string) (ir.Ecosystem, bool)
}

// Assembler builds reports. It holds no mutable state.
type Assembler struct {
	facts  Facts
	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for lookup tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// New creates an Assembler over the given fact tables.
func New(facts Facts, opts ...Option) *Assembler {
	a := &Assembler{
		facts:  facts,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble explains moving q.Package from q.FromVersion to q.ToVersion.
//
// Issues and incidents are looked up for both versions: entries against the
// current version describe what the upgrade fixes, entries against the
// target describe what it inherits.
//
// Returns an error wrapping ErrInvalidInput when the package or either
// version is blank or the ecosystem is not recognized.
func (a *Assembler) Assemble(q ir.Query) (*ir.Report, error) {
	q, err := normalize(q)
	if err != nil {
		return nil, err
	}

	kind := bump.Classify(q.FromVersion, q.ToVersion)
	dir := bump.DirectionOf(q.FromVersion, q.ToVersion)
	same := sameRelease(q.FromVersion, q.ToVersion)

	r := &ir.Report{
		Query:     q,
		BumpKind:  kind,
		Direction: dir,
		Summary:   summaryLine(q, kind, dir),
	}

	release, hasRelease := a.facts.Release(q.Package, q.ToVersion)
	a.traceLookup("release", q.Package, q.ToVersion, hasRelease)
	if hasRelease {
		r.ReleaseSummary = release.Notes
		r.ReleaseDate = release.Date
	} else {
		r.ReleaseSummary = fmt.Sprintf("No release notes available for %s %s.", q.Package, q.ToVersion)
	}

	fromIssues, found := a.facts.Issues(q.Package, q.FromVersion)
	a.traceLookup("issues", q.Package, q.FromVersion, found)
	toIssues, found := a.facts.Issues(q.Package, q.ToVersion)
	a.traceLookup("issues", q.Package, q.ToVersion, found)

	fromIncidents, found := a.facts.Incidents(q.Package, q.FromVersion)
	a.traceLookup("incidents", q.Package, q.FromVersion, found)
	toIncidents, found := a.facts.Incidents(q.Package, q.ToVersion)
	a.traceLookup("incidents", q.Package, q.ToVersion, found)

	row, hasRow := a.facts.Compatibility(q.Package)
	a.traceLookup("compatibility", q.Package, "", hasRow)

	declared, hasDeclared := a.facts.Ecosystem(q.Package)

	r.Risk = riskSection(q, kind, dir, same, fromIncidents, toIncidents)
	if hasRelease {
		if line, ok := releaseBumpLine(q, kind, dir, release); ok {
			r.Risk = append(r.Risk, line)
		}
	}
	if hasDeclared && declared != q.Ecosystem {
		r.Risk = append(r.Risk, fmt.Sprintf("%s is tracked under %s, not %s; the facts below may describe a different package.",
			q.Package, declared, q.Ecosystem))
	}
	r.Security = securitySection(q, same, fromIssues, toIssues)
	r.Incidents = incidentSection(q, same, fromIncidents, toIncidents)
	r.Compatibility, r.CompatibilityFocus = compatibilitySection(q, row, hasRow)

	r.Sources = sourcesSection(q, same, hasRelease, fromIssues, toIssues, len(fromIncidents)+len(toIncidents) > 0, hasRow)
	r.RawText = Render(r)

	id, err := ir.ReportID(r)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	r.ID = id

	a.logger.Debug("report assembled",
		"id", r.ID,
		"package", q.Package,
		"bump", kind,
		"direction", dir,
		"focus", r.CompatibilityFocus,
	)
	return r, nil
}

func (a *Assembler) traceLookup(table, pkg, version string, hit bool) {
	a.logger.Debug("fact lookup",
		"table", table,
		"package", pkg,
		"version", version,
		"hit", hit,
	)
}

// normalize trims every field and validates the query.
func normalize(q ir.Query) (ir.Query, error) {
	q.Package = strings.TrimSpace(q.Package)
	q.FromVersion = strings.TrimSpace(q.FromVersion)
	q.ToVersion = strings.TrimSpace(q.ToVersion)
	q.Context = strings.TrimSpace(q.Context)

	if q.Package == "" {
		return q, &InputError{Field: "package", Message: "package name is required"}
	}
	if q.FromVersion == "" {
		return q, &InputError{Field: "from_version", Message: "current version is required"}
	}
	if q.ToVersion == "" {
		return q, &InputError{Field: "to_version", Message: "target version is required"}
	}

	eco, err := ir.ParseEcosystem(string(q.Ecosystem))
	if err != nil {
		return q, &InputError{Field: "ecosystem", Message: err.Error()}
	}
	q.Ecosystem = eco

	return q, nil
}
