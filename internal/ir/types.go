package ir

import (
	"fmt"
	"strings"
)

// Ecosystem is the package-manager namespace a dependency belongs to.
type Ecosystem string

const (
	EcosystemPip      Ecosystem = "pip"
	EcosystemNpm      Ecosystem = "npm"
	EcosystemMaven    Ecosystem = "maven"
	EcosystemGradle   Ecosystem = "gradle"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemComposer Ecosystem = "composer"
)

// DefaultEcosystem is used when a query does not name one.
const DefaultEcosystem = EcosystemPip

// Ecosystems lists the supported ecosystems in display order.
var Ecosystems = []Ecosystem{
	EcosystemPip,
	EcosystemNpm,
	EcosystemMaven,
	EcosystemGradle,
	EcosystemCargo,
	EcosystemComposer,
}

// ParseEcosystem resolves a user-supplied ecosystem name.
// Matching is case-insensitive; an empty string selects DefaultEcosystem.
func ParseEcosystem(s string) (Ecosystem, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultEcosystem, nil
	}
	for _, e := range Ecosystems {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown ecosystem %q: must be one of %v", s, Ecosystems)
}

// BumpKind classifies a version change.
type BumpKind string

const (
	BumpMajor   BumpKind = "major"
	BumpMinor   BumpKind = "minor"
	BumpPatch   BumpKind = "patch"
	BumpUnknown BumpKind = "unknown"
)

// Direction tells whether a version change moves forward, backward or nowhere.
type Direction string

const (
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
	DirectionSame      Direction = "same"
	DirectionUnknown   Direction = "unknown"
)

// Severity of a known security issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// CompatStatus is the compatibility verdict for one service.
type CompatStatus string

const (
	CompatCompatible   CompatStatus = "compatible"
	CompatIncompatible CompatStatus = "incompatible"
	CompatUnknown      CompatStatus = "unknown"
)

// Query is one proposed upgrade: a package moving between two versions.
// Immutable once constructed.
type Query struct {
	Ecosystem   Ecosystem `json:"ecosystem"`
	Package     string    `json:"package"`
	FromVersion string    `json:"from_version"`
	ToVersion   string    `json:"to_version"`
	Context     string    `json:"context,omitempty"` // free text, may name a service
}

// String renders the query the way the conversation shell echoes it.
func (q Query) String() string {
	s := fmt.Sprintf("Explain upgrading %s from %s to %s", q.Package, q.FromVersion, q.ToVersion)
	if q.Context != "" {
		s += fmt.Sprintf(" (Context: %s)", q.Context)
	}
	return s
}

// ReleaseRecord is release metadata for one (package, version).
type ReleaseRecord struct {
	Bump  BumpKind `json:"bump"`
	Notes string   `json:"notes"`
	Date  string   `json:"date,omitempty"` // YYYY-MM-DD
}

// Issue is a known security issue affecting one (package, version).
type Issue struct {
	ID          string   `json:"id"` // reference id, e.g. CVE-2024-001
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Incident is an internal incident recorded against one (package, version).
type Incident struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
	Impact  string `json:"impact"`
}

// CompatEntry is one service's requirement on a package.
type CompatEntry struct {
	Range  string       `json:"range"`            // e.g. "^2.2.0"
	Status CompatStatus `json:"status,omitempty"` // explicit override; empty means evaluate Range
}

// CompatibilityRow maps service name to its requirement for a single package.
type CompatibilityRow map[string]CompatEntry

// Report is the structured and textual output of analyzing one proposed upgrade.
type Report struct {
	ID                 string    `json:"id"`
	Query              Query     `json:"query"`
	BumpKind           BumpKind  `json:"bump_kind"`
	Direction          Direction `json:"direction"`
	Summary            string    `json:"summary"`
	ReleaseSummary     string    `json:"release_summary"`
	ReleaseDate        string    `json:"release_date,omitempty"`
	Risk               []string  `json:"risk_section"`
	Security           []string  `json:"security_section"`
	Incidents          []string  `json:"incident_section"`
	Compatibility      []string  `json:"compatibility_section"`
	CompatibilityFocus string    `json:"compatibility_focus,omitempty"` // service named by the context
	Sources            []string  `json:"sources"`
	RawText            string    `json:"raw_text"`
}

// ChatTurn is one question/answer pair in a conversation session.
type ChatTurn struct {
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"` // logical clock, orders turns within a session
	Query     Query  `json:"query"`
	ReportID  string `json:"report_id"`
	Response  string `json:"response"`
}
