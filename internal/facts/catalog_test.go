package facts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depwhy/internal/ir"
)

func testCatalog() *Catalog {
	return NewCatalog(map[string]Package{
		"Widget": {
			Ecosystem: ir.EcosystemNpm,
			Releases: map[string]ir.ReleaseRecord{
				"1.1.0": {Bump: ir.BumpMinor, Notes: "Adds gizmos.", Date: "2024-05-01"},
				"2":     {Bump: ir.BumpMajor, Notes: "Drops gizmos."},
			},
			Issues: map[string][]ir.Issue{
				"1.0.0": {{ID: "CVE-1", Severity: ir.SeverityLow, Description: "Gizmo overflow"}},
				"1.1.0": {},
			},
			Incidents: map[string][]ir.Incident{
				"1.1.0": {{ID: "INC-1", Summary: "Outage", Date: "2024-05-02", Impact: "minor"}},
			},
			Services: ir.CompatibilityRow{
				"Frontend": {Range: "^1.0.0"},
			},
		},
		"bare": {},
	})
}

func TestCatalog_Release(t *testing.T) {
	c := testCatalog()

	rec, ok := c.Release("Widget", "1.1.0")
	require.True(t, ok)
	assert.Equal(t, ir.ReleaseRecord{Bump: ir.BumpMinor, Notes: "Adds gizmos.", Date: "2024-05-01"}, rec)

	_, ok = c.Release("Widget", "9.9.9")
	assert.False(t, ok)
	_, ok = c.Release("missing", "1.1.0")
	assert.False(t, ok)
}

func TestCatalog_NormalizesKeys(t *testing.T) {
	c := testCatalog()

	for _, v := range []string{"2", "2.0", "2.0.0", "v2.0.0", " 2.0.0 "} {
		_, ok := c.Release("widget", v)
		assert.True(t, ok, "version %q", v)
	}
	_, ok := c.Release("  WIDGET ", "1.1")
	assert.True(t, ok)
}

func TestCatalog_IssuesDistinguishEmptyFromMissing(t *testing.T) {
	c := testCatalog()

	issues, found := c.Issues("widget", "1.0.0")
	assert.True(t, found)
	assert.Len(t, issues, 1)

	issues, found = c.Issues("widget", "1.1.0")
	assert.True(t, found, "explicit empty list is a recorded entry")
	assert.Empty(t, issues)

	issues, found = c.Issues("widget", "3.0.0")
	assert.False(t, found)
	assert.Nil(t, issues)
}

func TestCatalog_LookupsReturnCopies(t *testing.T) {
	c := testCatalog()

	issues, _ := c.Issues("widget", "1.0.0")
	issues[0].Description = "mutated"
	again, _ := c.Issues("widget", "1.0.0")
	assert.Equal(t, "Gizmo overflow", again[0].Description)

	row, _ := c.Compatibility("widget")
	row["Backend"] = ir.CompatEntry{Range: "^9.0.0"}
	again2, _ := c.Compatibility("widget")
	assert.Len(t, again2, 1)
}

func TestCatalog_NewCatalogCopiesInput(t *testing.T) {
	releases := map[string]ir.ReleaseRecord{"1.0.0": {Bump: ir.BumpPatch, Notes: "first"}}
	c := NewCatalog(map[string]Package{"p": {Releases: releases}})

	releases["1.0.0"] = ir.ReleaseRecord{Bump: ir.BumpMajor, Notes: "changed"}
	rec, ok := c.Release("p", "1.0.0")
	require.True(t, ok)
	assert.Equal(t, "first", rec.Notes)
}

func TestCatalog_CaseCollidingNamesKeepFirstSorted(t *testing.T) {
	for i := 0; i < 20; i++ {
		c := NewCatalog(map[string]Package{
			"auth-lib": {Releases: map[string]ir.ReleaseRecord{"1.0.0": {Bump: ir.BumpMinor, Notes: "lower"}}},
			"Auth-Lib": {Releases: map[string]ir.ReleaseRecord{"1.0.0": {Bump: ir.BumpMinor, Notes: "upper"}}},
		})
		assert.Equal(t, []string{"Auth-Lib"}, c.Packages())
		rec, ok := c.Release("auth-lib", "1.0.0")
		require.True(t, ok)
		assert.Equal(t, "upper", rec.Notes)
	}
}

func TestCatalog_Compatibility(t *testing.T) {
	c := testCatalog()

	row, ok := c.Compatibility("widget")
	require.True(t, ok)
	if diff := cmp.Diff(ir.CompatibilityRow{"Frontend": {Range: "^1.0.0"}}, row); diff != "" {
		t.Errorf("Compatibility mismatch (-want +got):\n%s", diff)
	}

	_, ok = c.Compatibility("bare")
	assert.False(t, ok, "package with no services has no row")
}

func TestCatalog_Ecosystem(t *testing.T) {
	c := testCatalog()

	eco, ok := c.Ecosystem("widget")
	assert.True(t, ok)
	assert.Equal(t, ir.EcosystemNpm, eco)

	_, ok = c.Ecosystem("bare")
	assert.False(t, ok)
}

func TestCatalog_PackagesAndVersions(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, []string{"Widget", "bare"}, c.Packages())
	assert.Equal(t, []string{"1.0.0", "1.1.0", "2.0.0"}, c.Versions("widget"))
	assert.Empty(t, c.Versions("bare"))
	assert.Nil(t, c.Versions("missing"))
}

func TestVersionKey(t *testing.T) {
	assert.Equal(t, "2.2.0", VersionKey("2.2"))
	assert.Equal(t, "1.0.0", VersionKey("v1"))
	assert.Equal(t, "next", VersionKey(" next "))
}
