package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainReport prefixes report hashes. The version suffix allows the
// algorithm to change without colliding with old ids.
const DomainReport = "depwhy/report/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ReportID computes the content-addressed id of a report.
// Every field except ID participates. Strings are NFC-normalized first, so
// two reports share an id when their fields are equal after normalization;
// their raw bytes may still differ.
func ReportID(r *Report) (string, error) {
	canonical, err := MarshalCanonical(reportObject(r))
	if err != nil {
		return "", fmt.Errorf("ReportID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReport, canonical), nil
}

func reportObject(r *Report) map[string]any {
	return map[string]any{
		"schema_version": SchemaVersion,
		"query": map[string]any{
			"ecosystem":    string(r.Query.Ecosystem),
			"package":      r.Query.Package,
			"from_version": r.Query.FromVersion,
			"to_version":   r.Query.ToVersion,
			"context":      r.Query.Context,
		},
		"bump_kind":             string(r.BumpKind),
		"direction":             string(r.Direction),
		"summary":               r.Summary,
		"release_summary":       r.ReleaseSummary,
		"release_date":          r.ReleaseDate,
		"risk_section":          r.Risk,
		"security_section":      r.Security,
		"incident_section":      r.Incidents,
		"compatibility_section": r.Compatibility,
		"compatibility_focus":   r.CompatibilityFocus,
		"sources":               r.Sources,
		"raw_text":              r.RawText,
	}
}
