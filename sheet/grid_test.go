package sheet

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	return NewGrid(f, "Sheet1", quietLogger())
}

func TestReserveRowsShiftsContentDown(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.File().SetCellValue("Sheet1", "B8", "below"))

	err := g.ReserveRows(8, 2, 5, ColSpan{First: 2, Last: 4}, ColSpan{First: 1, Last: 16})
	require.NoError(t, err)

	assert.Equal(t, "", g.Value("B8"))
	assert.Equal(t, "below", g.Value("B12"))
}

func TestReserveRowsCopiesFormatSourceStyles(t *testing.T) {
	g := newTestGrid(t)
	f := g.File()

	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	plainID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B5", "D5", boldID))
	require.NoError(t, f.SetCellStyle("Sheet1", "B6", "D6", plainID))

	require.NoError(t, g.ReserveRows(8, 2, 5, ColSpan{First: 2, Last: 4}, ColSpan{First: 1, Last: 16}))

	// Inserted rows alternate between the two source rows of the pair.
	for _, row := range []int{8, 10} {
		assert.Equal(t, boldID, g.StyleOf(Cell("B", row)), "row %d", row)
		assert.Equal(t, boldID, g.StyleOf(Cell("D", row)), "row %d", row)
	}
	for _, row := range []int{9, 11} {
		assert.Equal(t, plainID, g.StyleOf(Cell("C", row)), "row %d", row)
	}
}

func TestReserveRowsRepairsStraddlingMerges(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.File().MergeCell("Sheet1", "B7", "B9"))

	require.NoError(t, g.ReserveRows(8, 1, 5, ColSpan{First: 2, Last: 4}, ColSpan{First: 1, Last: 16}))

	band := RowBand(8, 9, 1, 16)
	for _, r := range g.MergedRegions() {
		assert.False(t, r.Overlaps(band), "region %s overlaps the inserted band", r)
	}
}

func TestReserveRowsZeroPairsIsNoop(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.File().SetCellValue("Sheet1", "B8", "stays"))

	require.NoError(t, g.ReserveRows(8, 0, 5, ColSpan{First: 2, Last: 4}, ColSpan{First: 1, Last: 16}))

	assert.Equal(t, "stays", g.Value("B8"))
}

func TestMergePairIsIdempotent(t *testing.T) {
	g := newTestGrid(t)

	g.MergePair(2, 10)
	g.MergePair(2, 10)

	regions := g.MergedRegions()
	require.Len(t, regions, 1)
	assert.Equal(t, Region{FirstRow: 10, LastRow: 11, FirstCol: 2, LastCol: 2}, regions[0])
}

func TestMergeDissolvesPartialOverlaps(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.File().MergeCell("Sheet1", "B10", "B12"))

	g.MergePair(2, 10)

	regions := g.MergedRegions()
	require.Len(t, regions, 1)
	assert.Equal(t, Region{FirstRow: 10, LastRow: 11, FirstCol: 2, LastCol: 2}, regions[0])
}

func TestSetValueResolvesMergeAnchor(t *testing.T) {
	g := newTestGrid(t)
	require.NoError(t, g.File().MergeCell("Sheet1", "B10", "B11"))

	g.SetValue("B11", "anchored")

	assert.Equal(t, "anchored", g.Value("B10"))
	// The merge survives an anchored write.
	require.Len(t, g.MergedRegions(), 1)
}

func TestSetFormula(t *testing.T) {
	g := newTestGrid(t)

	g.SetFormula("F20", "SUM(F10:F18)")

	assert.Equal(t, "SUM(F10:F18)", g.Formula("F20"))
}

func TestClearCells(t *testing.T) {
	g := newTestGrid(t)
	f := g.File()
	require.NoError(t, f.SetCellValue("Sheet1", "B10", "a"))
	require.NoError(t, f.SetCellValue("Sheet1", "C12", 42))
	require.NoError(t, f.MergeCell("Sheet1", "B12", "B13"))
	require.NoError(t, f.SetCellValue("Sheet1", "B12", "merged"))

	g.ClearCells([]int{10, 12}, []string{"B", "C"})

	assert.Equal(t, "", g.Value("B10"))
	assert.Equal(t, "", g.Value("C12"))
	assert.Equal(t, "", g.Value("B12"))
}

func TestRoundTripKeepsMutations(t *testing.T) {
	g := newTestGrid(t)
	g.MergePair(2, 10)
	g.SetValue("B10", "kept")
	g.SetFormula("F20", "SUM(F10:F18)")

	buf, err := g.File().WriteToBuffer()
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer reopened.Close()

	got := NewGrid(reopened, "Sheet1", quietLogger())
	assert.Equal(t, "kept", got.Value("B10"))
	assert.Equal(t, "SUM(F10:F18)", got.Formula("F20"))
	require.Len(t, got.MergedRegions(), 1)
}
