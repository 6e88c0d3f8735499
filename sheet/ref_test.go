package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("B10")
	require.NoError(t, err)
	assert.Equal(t, Ref{Row: 10, Col: 2}, ref)
	assert.Equal(t, "B10", ref.Name())

	ref, err = ParseRef("AB3")
	require.NoError(t, err)
	assert.Equal(t, Ref{Row: 3, Col: 28}, ref)

	_, err = ParseRef("not-a-cell")
	assert.Error(t, err)
}

func TestColConversions(t *testing.T) {
	assert.Equal(t, 2, ColNumber("B"))
	assert.Equal(t, 16, ColNumber("P"))
	assert.Equal(t, 0, ColNumber("?"))
	assert.Equal(t, "B", ColName(2))
	assert.Equal(t, "AA", ColName(27))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "N14", Cell("N", 14))
}

func TestNewRegionNormalizesCorners(t *testing.T) {
	r, err := NewRegion("D12", "B10")
	require.NoError(t, err)
	assert.Equal(t, Region{FirstRow: 10, LastRow: 12, FirstCol: 2, LastCol: 4}, r)
	assert.Equal(t, "B10:D12", r.String())
	assert.Equal(t, Ref{Row: 10, Col: 2}, r.Anchor())
}

func TestRegionContains(t *testing.T) {
	r := Region{FirstRow: 10, LastRow: 11, FirstCol: 2, LastCol: 2}
	assert.True(t, r.Contains(2, 10))
	assert.True(t, r.Contains(2, 11))
	assert.False(t, r.Contains(3, 10))
	assert.False(t, r.Contains(2, 12))
}

func TestRegionOverlaps(t *testing.T) {
	base := Region{FirstRow: 10, LastRow: 11, FirstCol: 2, LastCol: 2}
	tests := []struct {
		name  string
		other Region
		want  bool
	}{
		{"identical", base, true},
		{"shares one cell", Region{FirstRow: 11, LastRow: 12, FirstCol: 2, LastCol: 2}, true},
		{"row band across", Region{FirstRow: 10, LastRow: 10, FirstCol: 1, LastCol: 16}, true},
		{"rows below", Region{FirstRow: 12, LastRow: 13, FirstCol: 2, LastCol: 2}, false},
		{"other column", Region{FirstRow: 10, LastRow: 11, FirstCol: 3, LastCol: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}
