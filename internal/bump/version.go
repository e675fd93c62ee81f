package bump

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed (major, minor, patch) triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse parses a dotted numeric version.
// Returns false if s is empty or any of its first three segments is not a
// non-negative decimal integer.
func Parse(s string) (Version, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') {
		s = s[1:]
	}
	if s == "" {
		return Version{}, false
	}

	parts := strings.Split(s, ".")
	var nums [3]int
	for i := 0; i < len(nums) && i < len(parts); i++ {
		n, ok := parseSegment(parts[i])
		if !ok {
			return Version{}, false
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true
}

// parseSegment accepts digits only; strconv.Atoi alone would allow "+1" and "-1".
func parseSegment(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Compare returns -1, 0 or +1 comparing a to b lexicographically by
// major, minor, patch.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return sign(a.Major - b.Major)
	case a.Minor != b.Minor:
		return sign(a.Minor - b.Minor)
	default:
		return sign(a.Patch - b.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
