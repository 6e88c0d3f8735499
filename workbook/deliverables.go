package workbook

import (
	"strings"

	"github.com/atelierops/docgen/pricing"
	"github.com/atelierops/docgen/sheet"
)

// updateDeliverables refreshes the counts in the deliverables block below
// the totals band. The block's labels are located by scanning, not by
// fixed rows, because the whole block shifts with inserted item rows.
func (d *document) updateDeliverables() {
	del := d.cfg.Deliverables
	start := del.StartRow + d.geo.shift
	end := del.EndRow + d.geo.shift
	g := d.g

	// Add-on deliverables count how many items actually bought the add-on.
	for label, key := range del.AddonLabels {
		row := d.findLabel(del.AltLabelCol, label, start, end)
		if row == 0 {
			d.log.Warn("deliverable label not found", "label", label)
			continue
		}
		col, ok := d.cfg.Columns.Addons[key]
		if !ok {
			d.log.Warn("deliverable add-on has no item column", "addon", key)
			continue
		}
		cell := sheet.Cell(del.AddonCountCol, row)
		g.SetFormula(cell, pricing.CountRangeExpr(
			sheet.Cell(col, d.geo.firstRow), sheet.Cell(col, d.geo.lastRow)))
		g.SetStyle(cell, d.st.count(g.StyleOf(cell)))
	}

	d.setDeliverableCount(del.AltLabelCol, "ROUND OF FITTINGS", start, end, 1)

	// Two revision rounds as soon as any item prices at the activewear
	// tier, otherwise one. The sheet decides via the price column.
	if row := d.findLabel(del.AltLabelCol, "ROUND OF REVISIONS", start, end); row != 0 {
		cell := sheet.Cell(d.cfg.Deliverables.CountCol, row)
		g.SetFormula(cell, pricing.ConditionalCountExpr(
			sheet.Cell(d.cfg.Columns.Price, d.geo.firstRow),
			sheet.Cell(d.cfg.Columns.Price, d.geo.lastRegularRow),
			d.prices.Table().Activewear.Whole(), 2, 1))
		g.SetStyle(cell, d.st.count(g.StyleOf(cell)))
		g.MergePair(sheet.ColNumber(d.cfg.Deliverables.CountCol), row)
	} else {
		d.log.Warn("deliverable label not found", "label", "ROUND OF REVISIONS")
	}

	styles := len(d.req.Items)
	d.setDeliverableCount(del.LabelCol, "PATTERNS", start, end, styles)
	d.setDeliverableCount(del.LabelCol, "FIRST SAMPLES", start, end, styles)

	if activewear := d.req.ActivewearCount(); activewear > 0 {
		d.extendForActivewear(start, end, styles, activewear)
	} else {
		d.setDeliverableCount(del.LabelCol, "FINAL SAMPLES", start, end, styles)
	}
}

// setDeliverableCount writes a plain numeric count next to a label and
// keeps the count cell's two-row merge.
func (d *document) setDeliverableCount(labelCol, label string, start, end, count int) {
	row := d.findLabel(labelCol, label, start, end)
	if row == 0 {
		d.log.Warn("deliverable label not found", "label", label)
		return
	}
	cell := sheet.Cell(d.cfg.Deliverables.CountCol, row)
	d.g.SetValue(cell, count)
	d.g.SetStyle(cell, d.st.count(d.g.StyleOf(cell)))
	d.g.MergePair(sheet.ColNumber(d.cfg.Deliverables.CountCol), row)
}

// extendForActivewear turns the FINAL SAMPLES pair into SECOND SAMPLES
// and appends three pairs below it: a second fitting round, a second
// revision round and the real FINAL SAMPLES. Formatting is copied from
// the revision-round pair.
func (d *document) extendForActivewear(start, end, styles, activewear int) {
	del := d.cfg.Deliverables
	g := d.g

	finalRow := d.findLabel(del.LabelCol, "FINAL SAMPLES", start, end)
	if finalRow == 0 {
		d.log.Warn("deliverable label not found", "label", "FINAL SAMPLES")
		return
	}
	g.SetValue(sheet.Cell(del.LabelCol, finalRow), "SECOND SAMPLES")
	g.SetValue(sheet.Cell(del.CountCol, finalRow), activewear)
	g.MergePair(sheet.ColNumber(del.CountCol), finalRow)

	insertAt := finalRow + 2
	// The format source is read after the insertion, so a revisions pair
	// sitting at or below the insertion point has moved down six rows.
	srcRow := d.findLabel(del.AltLabelCol, "ROUND OF REVISIONS", start, end)
	switch {
	case srcRow == 0:
		srcRow = finalRow
	case srcRow >= insertAt:
		srcRow += 6
	}
	span := sheet.ColSpan{
		First: sheet.ColNumber(del.LabelCol),
		Last:  sheet.ColNumber(del.AddonCountCol),
	}
	if err := g.ReserveRows(insertAt, 3, srcRow, span, span); err != nil {
		d.log.Warn("extend deliverables block", "err", err)
		return
	}

	labelCol := sheet.ColNumber(del.LabelCol)
	extra := []struct {
		label string
		count int
	}{
		{"2ND ROUND OF FITTINGS", 1},
		{"2ND ROUND OF REVISIONS", 1},
		{"FINAL SAMPLES", styles},
	}
	for i, e := range extra {
		row := insertAt + 2*i
		g.Merge(sheet.Region{FirstRow: row, LastRow: row + 1, FirstCol: labelCol, LastCol: labelCol + 1})
		g.SetValue(sheet.Cell(del.LabelCol, row), e.label)
		cell := sheet.Cell(del.CountCol, row)
		g.SetValue(cell, e.count)
		g.SetStyle(cell, d.st.count(g.StyleOf(cell)))
		g.MergePair(sheet.ColNumber(del.CountCol), row)
	}
}

// writeNotes places the request's notes below the PROJECT NOTES label,
// one note per label pair (every other row).
func (d *document) writeNotes() {
	if len(d.req.Notes) == 0 {
		return
	}
	sm := d.cfg.Summary
	labelRow := d.findLabel(sm.LabelCol, sm.NotesLabel, d.geo.totalsRow, d.geo.totalsRow+40)
	if labelRow == 0 {
		d.log.Warn("notes label not found", "want", sm.NotesLabel)
		return
	}
	idx := 0
	for _, note := range d.req.Notes {
		note = strings.TrimSpace(note)
		if note == "" {
			continue
		}
		cell := sheet.Cell(sm.LabelCol, labelRow+1+2*idx)
		d.g.SetValue(cell, strings.ToUpper(note))
		d.g.SetStyle(cell, d.st.note(d.g.StyleOf(cell)))
		idx++
	}
}

// findLabel scans a column for a label between two rows. Exact matches
// win; the first partial match is the fallback.
func (d *document) findLabel(col, label string, first, last int) int {
	want := strings.ToLower(strings.TrimSpace(label))
	partial := 0
	for row := first; row <= last; row++ {
		v := strings.ToLower(strings.TrimSpace(d.g.Value(sheet.Cell(col, row))))
		if v == "" {
			continue
		}
		if v == want {
			return row
		}
		if partial == 0 && strings.Contains(v, want) {
			partial = row
		}
	}
	return partial
}
