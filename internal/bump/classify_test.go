package bump

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/depwhy/internal/ir"
)

func TestClassify_Examples(t *testing.T) {
	assert.Equal(t, ir.BumpMinor, Classify("2.1.0", "2.2.0"))
	assert.Equal(t, ir.BumpMajor, Classify("2.1.0", "3.0.0"))
	assert.Equal(t, ir.BumpPatch, Classify("1.5.0", "1.5.1"))
}

func TestClassify_MajorDominates(t *testing.T) {
	for _, minor := range []int{0, 1, 7} {
		for _, patch := range []int{0, 3} {
			from := fmt.Sprintf("1.%d.%d", minor, patch)
			for _, to := range []string{"2.0.0", fmt.Sprintf("2.%d.%d", minor, patch), "0.9.9"} {
				assert.Equal(t, ir.BumpMajor, Classify(from, to), "%s -> %s", from, to)
			}
		}
	}
}

func TestClassify_MinorWhenMajorEqual(t *testing.T) {
	pairs := [][2]string{
		{"2.1.0", "2.2.0"},
		{"2.1.9", "2.2.0"},
		{"2.5.0", "2.1.3"},
		{"2.1", "2.2.5"},
	}
	for _, p := range pairs {
		assert.Equal(t, ir.BumpMinor, Classify(p[0], p[1]), "%s -> %s", p[0], p[1])
	}
}

func TestClassify_PatchWhenMajorMinorEqual(t *testing.T) {
	pairs := [][2]string{
		{"1.5.0", "1.5.1"},
		{"1.5.9", "1.5.2"},
		{"1.5", "1.5.1"},
	}
	for _, p := range pairs {
		assert.Equal(t, ir.BumpPatch, Classify(p[0], p[1]), "%s -> %s", p[0], p[1])
	}
}

func TestClassify_EqualVersionsArePatch(t *testing.T) {
	assert.Equal(t, ir.BumpPatch, Classify("1.5.1", "1.5.1"))
	assert.Equal(t, ir.BumpPatch, Classify("1.5", "1.5.0"))
}

func TestClassify_UnparseableIsUnknown(t *testing.T) {
	pairs := [][2]string{
		{"", "1.0.0"},
		{"1.0.0", ""},
		{"1.x", "2.0.0"},
		{"1.0.0", "2.0.0-beta"},
		{"latest", "stable"},
	}
	for _, p := range pairs {
		assert.Equal(t, ir.BumpUnknown, Classify(p[0], p[1]), "%q -> %q", p[0], p[1])
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		from, to string
		want     ir.Direction
	}{
		{"2.1.0", "2.2.0", ir.DirectionUpgrade},
		{"3.0.0", "2.2.0", ir.DirectionDowngrade},
		{"1.5.1", "1.5.1", ir.DirectionSame},
		{"v1.5", "1.5.0", ir.DirectionSame},
		{"1.5.1", "next", ir.DirectionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, DirectionOf(tt.from, tt.to))
		})
	}
}
