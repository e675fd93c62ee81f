// Package bump classifies version changes and evaluates version ranges.
//
// Versions are dotted numeric strings ("2.1.0"). Parsing is total: missing
// trailing segments count as 0, a single leading "v" is ignored, segments
// beyond the third are ignored, and any non-numeric segment makes the
// version unparseable. Callers never see an error; unparseable input is
// reported as ir.BumpUnknown, ir.DirectionUnknown or ir.CompatUnknown.
package bump
