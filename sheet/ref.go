// Package sheet provides low-level mutation primitives for fixed-layout
// worksheets: cell and region references, row-band insertion with style
// carry-over, merged-region repair, and anchor-aware best-effort writes.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Ref addresses a single cell. Row and Col are 1-based, matching excelize.
type Ref struct {
	Row int
	Col int
}

// NewRef builds a Ref from a 1-based column and row.
func NewRef(col, row int) Ref {
	return Ref{Row: row, Col: col}
}

// ParseRef parses an "A1" style cell name.
func ParseRef(name string) (Ref, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return Ref{}, fmt.Errorf("parse cell ref %q: %w", name, err)
	}
	return Ref{Row: row, Col: col}, nil
}

// Name returns the "A1" style name for the ref.
func (r Ref) Name() string {
	name, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return ""
	}
	return name
}

func (r Ref) String() string { return r.Name() }

// Cell joins a column letter and a 1-based row into an "A1" style name.
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ColNumber converts a column letter ("A", "AB") to its 1-based number.
// Invalid input yields 0.
func ColNumber(col string) int {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return 0
	}
	return n
}

// ColName converts a 1-based column number to its letter form.
func ColName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// Region is a rectangular cell range, 1-based and inclusive on all sides.
type Region struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// NewRegion builds a Region from two opposite corners given as cell names.
func NewRegion(topLeft, bottomRight string) (Region, error) {
	tl, err := ParseRef(topLeft)
	if err != nil {
		return Region{}, err
	}
	br, err := ParseRef(bottomRight)
	if err != nil {
		return Region{}, err
	}
	r := Region{FirstRow: tl.Row, LastRow: br.Row, FirstCol: tl.Col, LastCol: br.Col}
	if r.FirstRow > r.LastRow {
		r.FirstRow, r.LastRow = r.LastRow, r.FirstRow
	}
	if r.FirstCol > r.LastCol {
		r.FirstCol, r.LastCol = r.LastCol, r.FirstCol
	}
	return r, nil
}

// RowBand returns a Region spanning whole rows across the given columns.
func RowBand(firstRow, lastRow, firstCol, lastCol int) Region {
	return Region{FirstRow: firstRow, LastRow: lastRow, FirstCol: firstCol, LastCol: lastCol}
}

// regionFromMerge converts an excelize merge range into a Region.
func regionFromMerge(mc excelize.MergeCell) (Region, error) {
	return NewRegion(mc.GetStartAxis(), mc.GetEndAxis())
}

// Anchor returns the top-left cell of the region.
func (r Region) Anchor() Ref {
	return Ref{Row: r.FirstRow, Col: r.FirstCol}
}

// Contains reports whether the 1-based cell coordinate lies inside the region.
func (r Region) Contains(col, row int) bool {
	return row >= r.FirstRow && row <= r.LastRow && col >= r.FirstCol && col <= r.LastCol
}

// Overlaps reports whether the two regions share at least one cell.
func (r Region) Overlaps(o Region) bool {
	return r.FirstRow <= o.LastRow && o.FirstRow <= r.LastRow &&
		r.FirstCol <= o.LastCol && o.FirstCol <= r.LastCol
}

// String renders the region as "B10:B11".
func (r Region) String() string {
	return Ref{Row: r.FirstRow, Col: r.FirstCol}.Name() + ":" + Ref{Row: r.LastRow, Col: r.LastCol}.Name()
}
