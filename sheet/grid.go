package sheet

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// mergeRepairPasses bounds the unmerge loop. Dissolving one region can
// expose another that now straddles the band, so a single sweep is not
// always enough.
const mergeRepairPasses = 3

// ColSpan is an inclusive 1-based column interval.
type ColSpan struct {
	First int
	Last  int
}

// Grid mutates one worksheet of an open workbook. Layout operations that
// only affect appearance (style copies, merges) never fail the caller;
// engine errors are logged at Warn and skipped. Value and formula writes
// follow the same policy after one unmerge-and-retry attempt.
type Grid struct {
	f     *excelize.File
	sheet string
	log   *slog.Logger
}

// NewGrid wraps a worksheet of f. A nil logger falls back to slog.Default.
func NewGrid(f *excelize.File, sheetName string, log *slog.Logger) *Grid {
	if log == nil {
		log = slog.Default()
	}
	return &Grid{f: f, sheet: sheetName, log: log}
}

// File exposes the underlying workbook.
func (g *Grid) File() *excelize.File { return g.f }

// Sheet returns the worksheet name the grid operates on.
func (g *Grid) Sheet() string { return g.sheet }

// MergedRegions returns the sheet's current merged regions. Ranges the
// engine cannot parse are skipped with a Warn log.
func (g *Grid) MergedRegions() []Region {
	merges, err := g.f.GetMergeCells(g.sheet)
	if err != nil {
		g.log.Warn("list merged regions", "sheet", g.sheet, "err", err)
		return nil
	}
	regions := make([]Region, 0, len(merges))
	for _, mc := range merges {
		r, err := regionFromMerge(mc)
		if err != nil {
			g.log.Warn("parse merged region", "range", mc.GetStartAxis()+":"+mc.GetEndAxis(), "err", err)
			continue
		}
		regions = append(regions, r)
	}
	return regions
}

// ReserveRows inserts 2*pairs raw rows immediately before insertBefore,
// copies per-cell styles from the two-row format source (formatSourceRow
// and the row below it, alternating) into every inserted row across
// formatCols, then repairs merged regions across repairCols in the
// inserted band. Rows, merges and formula references at or below
// insertBefore shift down with the insertion.
func (g *Grid) ReserveRows(insertBefore, pairs, formatSourceRow int, formatCols, repairCols ColSpan) error {
	if pairs <= 0 {
		return nil
	}
	n := 2 * pairs
	if err := g.f.InsertRows(g.sheet, insertBefore, n); err != nil {
		return fmt.Errorf("insert %d rows before row %d on %q: %w", n, insertBefore, g.sheet, err)
	}
	for i := 0; i < n; i++ {
		g.CopyRowStyles(formatSourceRow+i%2, insertBefore+i, formatCols)
	}
	g.RepairMerges(RowBand(insertBefore, insertBefore+n-1, repairCols.First, repairCols.Last))
	return nil
}

// RepairMerges dissolves every merged region overlapping band. It sweeps
// up to mergeRepairPasses times because removing one region can reveal
// another overlap.
func (g *Grid) RepairMerges(band Region) {
	for pass := 0; pass < mergeRepairPasses; pass++ {
		dissolved := 0
		for _, r := range g.MergedRegions() {
			if !r.Overlaps(band) {
				continue
			}
			g.unmerge(r)
			dissolved++
		}
		if dissolved == 0 {
			return
		}
	}
}

func (g *Grid) unmerge(r Region) {
	top := Ref{Row: r.FirstRow, Col: r.FirstCol}.Name()
	bottom := Ref{Row: r.LastRow, Col: r.LastCol}.Name()
	if err := g.f.UnmergeCell(g.sheet, top, bottom); err != nil {
		g.log.Warn("unmerge region", "sheet", g.sheet, "range", r.String(), "err", err)
	}
}

// Merge establishes the region as a merged cell. Identical existing
// regions are left alone; partial overlaps are dissolved first so the
// operation is idempotent and never produces overlapping merges.
func (g *Grid) Merge(target Region) {
	for _, r := range g.MergedRegions() {
		if r == target {
			return
		}
		if r.Overlaps(target) {
			g.unmerge(r)
		}
	}
	top := target.Anchor().Name()
	bottom := Ref{Row: target.LastRow, Col: target.LastCol}.Name()
	if err := g.f.MergeCell(g.sheet, top, bottom); err != nil {
		g.log.Warn("merge region", "sheet", g.sheet, "range", target.String(), "err", err)
	}
}

// MergePair merges the vertical two-row pair starting at (col, row).
func (g *Grid) MergePair(col, row int) {
	g.Merge(Region{FirstRow: row, LastRow: row + 1, FirstCol: col, LastCol: col})
}

// CopyRowStyles copies per-cell style IDs from srcRow to dstRow across the
// column span. Style read or apply failures are cosmetic and only logged.
func (g *Grid) CopyRowStyles(srcRow, dstRow int, cols ColSpan) {
	for c := cols.First; c <= cols.Last; c++ {
		src := Ref{Row: srcRow, Col: c}.Name()
		dst := Ref{Row: dstRow, Col: c}.Name()
		styleID, err := g.f.GetCellStyle(g.sheet, src)
		if err != nil {
			g.log.Warn("read source style", "sheet", g.sheet, "cell", src, "err", err)
			continue
		}
		if err := g.f.SetCellStyle(g.sheet, dst, dst, styleID); err != nil {
			g.log.Warn("apply style", "sheet", g.sheet, "cell", dst, "err", err)
		}
	}
}

// StyleOf returns the style ID of a cell, or 0 when the engine cannot
// resolve it.
func (g *Grid) StyleOf(cell string) int {
	styleID, err := g.f.GetCellStyle(g.sheet, cell)
	if err != nil {
		g.log.Warn("read cell style", "sheet", g.sheet, "cell", cell, "err", err)
		return 0
	}
	return styleID
}

// SetStyle applies a style ID to a single cell. Cosmetic; failures are
// logged and skipped.
func (g *Grid) SetStyle(cell string, styleID int) {
	if err := g.f.SetCellStyle(g.sheet, cell, cell, styleID); err != nil {
		g.log.Warn("set cell style", "sheet", g.sheet, "cell", cell, "err", err)
	}
}

// anchorOf resolves the merged-region anchor covering ref, if any.
func (g *Grid) anchorOf(ref Ref) (anchor Ref, owner Region, merged bool) {
	for _, r := range g.MergedRegions() {
		if r.Contains(ref.Col, ref.Row) {
			return r.Anchor(), r, true
		}
	}
	return ref, Region{}, false
}

// SetValue writes a value at the cell's merge anchor. When the engine
// rejects the write, the covering merge (if any) is dissolved and the
// write retried once at the original coordinate; a second failure drops
// the value with a Warn log.
func (g *Grid) SetValue(cell string, value any) {
	g.write(cell, "set cell value", func(target string) error {
		return g.f.SetCellValue(g.sheet, target, value)
	})
}

// SetFormula writes a formula (without a leading "=") with the same
// anchor resolution and retry policy as SetValue.
func (g *Grid) SetFormula(cell, formula string) {
	g.write(cell, "set cell formula", func(target string) error {
		return g.f.SetCellFormula(g.sheet, target, formula)
	})
}

func (g *Grid) write(cell, what string, put func(target string) error) {
	ref, err := ParseRef(cell)
	if err != nil {
		g.log.Warn(what, "sheet", g.sheet, "cell", cell, "err", err)
		return
	}
	target, owner, merged := g.anchorOf(ref)
	if err := put(target.Name()); err == nil {
		return
	}
	if merged {
		g.unmerge(owner)
	}
	if err := put(ref.Name()); err != nil {
		g.log.Warn(what+" dropped", "sheet", g.sheet, "cell", cell, "err", err)
	}
}

// ClearCells blanks every (row, col) combination, resolving merge anchors
// the same way SetValue does.
func (g *Grid) ClearCells(rows []int, cols []string) {
	for _, row := range rows {
		for _, col := range cols {
			g.SetValue(Cell(col, row), nil)
		}
	}
}

// Value reads a cell's calculated or raw value as a string. Best effort;
// read failures return "".
func (g *Grid) Value(cell string) string {
	v, err := g.f.GetCellValue(g.sheet, cell)
	if err != nil {
		g.log.Warn("read cell value", "sheet", g.sheet, "cell", cell, "err", err)
		return ""
	}
	return v
}

// Formula reads a cell's formula string, "" when the cell has none.
func (g *Grid) Formula(cell string) string {
	fml, err := g.f.GetCellFormula(g.sheet, cell)
	if err != nil {
		g.log.Warn("read cell formula", "sheet", g.sheet, "cell", cell, "err", err)
		return ""
	}
	return fml
}
