package facts

import (
	"sort"
	"strings"

	"github.com/roach88/depwhy/internal/bump"
	"github.com/roach88/depwhy/internal/ir"
)

// Package is the full set of facts recorded for one package.
// JSON tags match the field names used in the CUE fact files.
type Package struct {
	Ecosystem ir.Ecosystem               `json:"ecosystem,omitempty"`
	Releases  map[string]ir.ReleaseRecord `json:"releases"`
	Issues    map[string][]ir.Issue       `json:"issues"`
	Incidents map[string][]ir.Incident    `json:"incidents"`
	Services  ir.CompatibilityRow         `json:"services"`
}

// Catalog is the read-only set of fact tables.
type Catalog struct {
	packages map[string]Package
	names    map[string]string // lookup key -> name as authored
}

// NewCatalog builds a catalog from per-package facts.
// Package names are matched case-insensitively and version keys are
// normalized, so "2.2" and "v2.2.0" find the record stored under "2.2.0".
// The input maps are copied. When two names differ only in case the
// first in sorted order wins; LoadDir rejects such tables outright.
func NewCatalog(pkgs map[string]Package) *Catalog {
	c := &Catalog{
		packages: make(map[string]Package, len(pkgs)),
		names:    make(map[string]string, len(pkgs)),
	}
	for _, name := range mapKeys(pkgs) {
		key := packageKey(name)
		if _, dup := c.packages[key]; dup {
			continue
		}
		c.packages[key] = copyPackage(pkgs[name])
		c.names[key] = strings.TrimSpace(name)
	}
	return c
}

// Release looks up release metadata for (pkg, version).
func (c *Catalog) Release(pkg, version string) (ir.ReleaseRecord, bool) {
	p, ok := c.packages[packageKey(pkg)]
	if !ok {
		return ir.ReleaseRecord{}, false
	}
	rec, ok := p.Releases[VersionKey(version)]
	return rec, ok
}

// Issues looks up known security issues for (pkg, version).
// found is true for an explicit empty entry, which marks a version as
// checked and clean.
func (c *Catalog) Issues(pkg, version string) (issues []ir.Issue, found bool) {
	p, ok := c.packages[packageKey(pkg)]
	if !ok {
		return nil, false
	}
	list, ok := p.Issues[VersionKey(version)]
	if !ok {
		return nil, false
	}
	return append([]ir.Issue{}, list...), true
}

// Incidents looks up internal incidents for (pkg, version).
func (c *Catalog) Incidents(pkg, version string) ([]ir.Incident, bool) {
	p, ok := c.packages[packageKey(pkg)]
	if !ok {
		return nil, false
	}
	list, ok := p.Incidents[VersionKey(version)]
	if !ok {
		return nil, false
	}
	return append([]ir.Incident{}, list...), true
}

// Compatibility returns the service compatibility row for pkg.
// A package with no services has no row.
func (c *Catalog) Compatibility(pkg string) (ir.CompatibilityRow, bool) {
	p, ok := c.packages[packageKey(pkg)]
	if !ok || len(p.Services) == 0 {
		return nil, false
	}
	row := make(ir.CompatibilityRow, len(p.Services))
	for svc, entry := range p.Services {
		row[svc] = entry
	}
	return row, true
}

// Ecosystem returns the ecosystem a package is declared under, if any.
func (c *Catalog) Ecosystem(pkg string) (ir.Ecosystem, bool) {
	p, ok := c.packages[packageKey(pkg)]
	if !ok || p.Ecosystem == "" {
		return "", false
	}
	return p.Ecosystem, true
}

// Packages returns all package names in sorted order.
func (c *Catalog) Packages() []string {
	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns every version mentioned for pkg in any table, oldest first.
func (c *Catalog) Versions(pkg string) []string {
	p, ok := c.packages[packageKey(pkg)]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	for v := range p.Releases {
		seen[v] = true
	}
	for v := range p.Issues {
		seen[v] = true
	}
	for v := range p.Incidents {
		seen[v] = true
	}

	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		a, okA := bump.Parse(versions[i])
		b, okB := bump.Parse(versions[j])
		if okA && okB {
			if cmp := bump.Compare(a, b); cmp != 0 {
				return cmp < 0
			}
		}
		return versions[i] < versions[j]
	})
	return versions
}

// VersionKey normalizes a version string for table lookups.
// Parseable versions become "major.minor.patch"; anything else is only trimmed.
func VersionKey(version string) string {
	if v, ok := bump.Parse(version); ok {
		return v.String()
	}
	return strings.TrimSpace(version)
}

func packageKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func copyPackage(p Package) Package {
	out := Package{
		Ecosystem: p.Ecosystem,
		Releases:  make(map[string]ir.ReleaseRecord, len(p.Releases)),
		Issues:    make(map[string][]ir.Issue, len(p.Issues)),
		Incidents: make(map[string][]ir.Incident, len(p.Incidents)),
		Services:  make(ir.CompatibilityRow, len(p.Services)),
	}
	for v, rec := range p.Releases {
		out.Releases[VersionKey(v)] = rec
	}
	for v, list := range p.Issues {
		out.Issues[VersionKey(v)] = append([]ir.Issue{}, list...)
	}
	for v, list := range p.Incidents {
		out.Incidents[VersionKey(v)] = append([]ir.Incident{}, list...)
	}
	for svc, entry := range p.Services {
		out.Services[svc] = entry
	}
	return out
}
