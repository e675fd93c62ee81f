package bump

import "github.com/roach88/depwhy/internal/ir"

// Classify determines the bump kind between two versions.
//
// The first differing component decides: major, then minor, then patch.
// Equal versions classify as patch (a degenerate no-op); use DirectionOf to
// tell a no-op apart from a real patch bump. Unparseable input on either
// side yields ir.BumpUnknown.
func Classify(from, to string) ir.BumpKind {
	a, okA := Parse(from)
	b, okB := Parse(to)
	if !okA || !okB {
		return ir.BumpUnknown
	}

	switch {
	case a.Major != b.Major:
		return ir.BumpMajor
	case a.Minor != b.Minor:
		return ir.BumpMinor
	default:
		return ir.BumpPatch
	}
}

// DirectionOf reports whether moving from -> to is an upgrade, a downgrade
// or no change at all.
func DirectionOf(from, to string) ir.Direction {
	a, okA := Parse(from)
	b, okB := Parse(to)
	if !okA || !okB {
		return ir.DirectionUnknown
	}

	switch Compare(b, a) {
	case 1:
		return ir.DirectionUpgrade
	case -1:
		return ir.DirectionDowngrade
	default:
		return ir.DirectionSame
	}
}
