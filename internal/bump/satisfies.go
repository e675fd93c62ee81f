package bump

import (
	"strings"

	"github.com/roach88/depwhy/internal/ir"
)

// Satisfies evaluates whether version meets a required range.
//
// Supported range forms:
//
//	^2.2.0  same major, at least 2.2.0 (a bare "2.2.0" means the same)
//	~2.2.0  same major.minor, at least 2.2.0
//	=2.2.0  exactly 2.2.0
//	2.x     any 2.y.z (2.1.x pins major and minor; "*" works as "x")
//
// An unparseable range or version yields ir.CompatUnknown.
func Satisfies(rng, version string) ir.CompatStatus {
	v, ok := Parse(version)
	if !ok {
		return ir.CompatUnknown
	}

	rng = strings.TrimSpace(rng)
	if rng == "" {
		return ir.CompatUnknown
	}

	if base, ok := trimWildcard(rng); ok {
		return wildcardStatus(base, v)
	}

	op := rng[0]
	switch op {
	case '^', '~', '=':
		rng = rng[1:]
	default:
		op = '^'
	}

	base, ok := Parse(rng)
	if !ok {
		return ir.CompatUnknown
	}

	var match bool
	switch op {
	case '^':
		match = v.Major == base.Major && Compare(v, base) >= 0
	case '~':
		match = v.Major == base.Major && v.Minor == base.Minor && Compare(v, base) >= 0
	case '=':
		match = Compare(v, base) == 0
	}
	return status(match)
}

// trimWildcard strips a trailing ".x" or ".*" segment.
func trimWildcard(rng string) (string, bool) {
	for _, suffix := range []string{".x", ".X", ".*"} {
		if strings.HasSuffix(rng, suffix) {
			return strings.TrimSuffix(rng, suffix), true
		}
	}
	return "", false
}

func wildcardStatus(base string, v Version) ir.CompatStatus {
	segments := len(strings.Split(base, "."))
	b, ok := Parse(base)
	if !ok || segments > 2 {
		return ir.CompatUnknown
	}
	if segments == 1 {
		return status(v.Major == b.Major)
	}
	return status(v.Major == b.Major && v.Minor == b.Minor)
}

func status(match bool) ir.CompatStatus {
	if match {
		return ir.CompatCompatible
	}
	return ir.CompatIncompatible
}
