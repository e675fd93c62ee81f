package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/depwhy/internal/bump"
	"github.com/roach88/depwhy/internal/ir"
)

// warnPrefix marks lines the shell highlights.
const warnPrefix = "WARNING: "

func summaryLine(q ir.Query, kind ir.BumpKind, dir ir.Direction) string {
	from, to := q.FromVersion, q.ToVersion

	switch dir {
	case ir.DirectionSame:
		return fmt.Sprintf("No version change for %s: %s and %s are the same release.", q.Package, from, to)
	case ir.DirectionDowngrade:
		return fmt.Sprintf("Downgrade from %s to %s (%s version step back). Fixes shipped after %s will be lost.", from, to, kind, to)
	case ir.DirectionUnknown:
		return fmt.Sprintf("Unrecognized version change from %s to %s. The versions could not be compared numerically.", from, to)
	}

	switch kind {
	case ir.BumpMajor:
		return fmt.Sprintf("Major version upgrade from %s to %s. This may include breaking changes.", from, to)
	case ir.BumpMinor:
		return fmt.Sprintf("Minor version upgrade from %s to %s. New features and improvements expected.", from, to)
	default:
		return fmt.Sprintf("Patch upgrade from %s to %s. Bug fixes and security patches.", from, to)
	}
}

// sameRelease reports whether from and to name one release, so "2.0" and
// "2.0.0" match. Unparseable versions match only when spelled alike.
func sameRelease(from, to string) bool {
	a, okA := bump.Parse(from)
	b, okB := bump.Parse(to)
	if okA && okB {
		return bump.Compare(a, b) == 0
	}
	return from == to
}

func riskSection(q ir.Query, kind ir.BumpKind, dir ir.Direction, same bool, fromIncidents, toIncidents []ir.Incident) []string {
	var lines []string

	switch {
	case dir == ir.DirectionSame:
		lines = append(lines, "Versions are identical; there is nothing to roll out.")
	case kind == ir.BumpMajor:
		lines = append(lines, "This is a major version change, which typically includes breaking changes. Review the release notes carefully and plan for migration.")
	case kind == ir.BumpMinor:
		lines = append(lines, "This is a minor version change, which should be backward compatible but may introduce new features.")
	case kind == ir.BumpPatch:
		lines = append(lines, "This is a patch change, which should be low risk and focused on bug fixes.")
	default:
		lines = append(lines, "The version change could not be classified; review it manually before rolling out.")
	}

	if dir == ir.DirectionDowngrade {
		lines = append(lines, fmt.Sprintf("Rolling back to %s may reintroduce issues fixed in %s.", q.ToVersion, q.FromVersion))
	}
	if len(fromIncidents) > 0 && !same {
		lines = append(lines, fmt.Sprintf("The current version (%s) has known internal incidents that may be resolved in the new version.", q.FromVersion))
	}
	if len(toIncidents) > 0 {
		lines = append(lines, fmt.Sprintf(warnPrefix+"The new version (%s) has known internal incidents. Consider investigating before upgrading.", q.ToVersion))
	}

	return lines
}

// bumpRank orders bump kinds by size; unknown ranks lowest.
var bumpRank = map[ir.BumpKind]int{
	ir.BumpPatch: 1,
	ir.BumpMinor: 2,
	ir.BumpMajor: 3,
}

// releaseBumpLine flags an upgrade whose release notes claim a larger change
// than the version numbers show, such as a breaking release shipped as a
// minor. The authored bump describes the release against its predecessor,
// so a smaller authored bump is expected when several releases are skipped.
func releaseBumpLine(q ir.Query, kind ir.BumpKind, dir ir.Direction, release ir.ReleaseRecord) (string, bool) {
	if dir != ir.DirectionUpgrade || bumpRank[release.Bump] <= bumpRank[kind] || bumpRank[kind] == 0 {
		return "", false
	}
	return fmt.Sprintf(warnPrefix+"Release notes for %s %s describe a %s release, but the version numbers only show a %s change.",
		q.Package, q.ToVersion, release.Bump, kind), true
}

// securitySection lists issues on both sides of the change. When both sides
// are one release only the target side is listed.
func securitySection(q ir.Query, same bool, fromIssues, toIssues []ir.Issue) []string {
	if same {
		if len(toIssues) == 0 {
			return []string{fmt.Sprintf("No known security issues for %s %s.", q.Package, q.ToVersion)}
		}
		lines := make([]string, 0, len(toIssues))
		for _, issue := range toIssues {
			lines = append(lines, warnPrefix+issueLine(q.ToVersion, issue))
		}
		return lines
	}
	if len(fromIssues) == 0 && len(toIssues) == 0 {
		return []string{fmt.Sprintf("No known security issues for %s %s or %s.", q.Package, q.FromVersion, q.ToVersion)}
	}

	var lines []string
	if len(fromIssues) == 0 {
		lines = append(lines, fmt.Sprintf("No known security issues for %s.", q.FromVersion))
	}
	for _, issue := range fromIssues {
		lines = append(lines, issueLine(q.FromVersion, issue))
	}

	if resolved := resolvedIssues(fromIssues, toIssues); len(resolved) > 0 {
		lines = append(lines, fmt.Sprintf("%s resolves %s.", q.ToVersion, strings.Join(resolved, ", ")))
	}

	for _, issue := range toIssues {
		lines = append(lines, warnPrefix+issueLine(q.ToVersion, issue))
	}

	return lines
}

func issueLine(version string, issue ir.Issue) string {
	return fmt.Sprintf("%s is affected by %s (%s): %s", version, issue.ID, issue.Severity, issue.Description)
}

// resolvedIssues lists ids affecting from that no longer affect to, in order.
func resolvedIssues(fromIssues, toIssues []ir.Issue) []string {
	remaining := make(map[string]bool, len(toIssues))
	for _, issue := range toIssues {
		remaining[issue.ID] = true
	}

	var ids []string
	seen := make(map[string]bool)
	for _, issue := range fromIssues {
		if remaining[issue.ID] || seen[issue.ID] {
			continue
		}
		seen[issue.ID] = true
		ids = append(ids, issue.ID)
	}
	return ids
}

func incidentSection(q ir.Query, same bool, fromIncidents, toIncidents []ir.Incident) []string {
	if same {
		fromIncidents = nil
	}
	if same && len(toIncidents) == 0 {
		return []string{fmt.Sprintf("No internal incidents recorded for %s %s.", q.Package, q.ToVersion)}
	}
	if len(fromIncidents) == 0 && len(toIncidents) == 0 {
		return []string{fmt.Sprintf("No internal incidents recorded for %s %s or %s.", q.Package, q.FromVersion, q.ToVersion)}
	}

	var lines []string
	for _, inc := range fromIncidents {
		lines = append(lines, incidentLine(q.FromVersion, inc))
	}
	for _, inc := range toIncidents {
		lines = append(lines, warnPrefix+incidentLine(q.ToVersion, inc))
	}
	return lines
}

func incidentLine(version string, inc ir.Incident) string {
	return fmt.Sprintf("%s on %s affected %s: %s Impact: %s", inc.ID, inc.Date, version, inc.Summary, inc.Impact)
}

// compatibilitySection renders the package's compatibility row. When the
// query context names a service in the row, only that service is shown and
// its name is returned as the focus.
func compatibilitySection(q ir.Query, row ir.CompatibilityRow, hasRow bool) ([]string, string) {
	if !hasRow || len(row) == 0 {
		return []string{fmt.Sprintf("No compatibility data found for services using %s.", q.Package)}, ""
	}

	services := make([]string, 0, len(row))
	for svc := range row {
		services = append(services, svc)
	}
	sort.Strings(services)

	focus := matchService(q.Context, services)
	if focus != "" {
		services = []string{focus}
	}

	lines := make([]string, 0, len(services))
	for _, svc := range services {
		entry := row[svc]
		status := entry.Status
		if status == "" {
			status = bump.Satisfies(entry.Range, q.ToVersion)
		}
		line := fmt.Sprintf("%s (requires %s): %s with %s", svc, entry.Range, status, q.ToVersion)
		if status == ir.CompatIncompatible {
			line = warnPrefix + line
		}
		lines = append(lines, line)
	}
	return lines, focus
}

// matchService returns the longest service name that appears in context,
// compared case-insensitively. services must be sorted; ties go to the
// first in order.
func matchService(context string, services []string) string {
	if context == "" {
		return ""
	}

	fold := cases.Fold()
	haystack := fold.String(context)

	var best string
	for _, svc := range services {
		if !strings.Contains(haystack, fold.String(svc)) {
			continue
		}
		if len(svc) > len(best) {
			best = svc
		}
	}
	return best
}

func sourcesSection(q ir.Query, same, hasRelease bool, fromIssues, toIssues []ir.Issue, hasIncidents, hasRow bool) []string {
	var lines []string
	if hasRelease {
		lines = append(lines, fmt.Sprintf("Release notes for %s %s", q.Package, q.ToVersion))
	}
	if len(fromIssues) > 0 {
		lines = append(lines, fmt.Sprintf("Security advisories for %s %s", q.Package, q.FromVersion))
	}
	if len(toIssues) > 0 && !same {
		lines = append(lines, fmt.Sprintf("Security advisories for %s %s", q.Package, q.ToVersion))
	}
	if hasIncidents {
		lines = append(lines, fmt.Sprintf("Internal incident reports for %s", q.Package))
	}
	if hasRow {
		lines = append(lines, "Internal compatibility matrix")
	}
	if len(lines) == 0 {
		lines = append(lines, "No fact table entries matched this query.")
	}
	return lines
}
