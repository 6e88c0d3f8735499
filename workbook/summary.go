package workbook

import (
	"fmt"
	"strings"

	"github.com/atelierops/docgen/pricing"
	"github.com/atelierops/docgen/sheet"
)

// writeSummary relocates the totals band to its computed row and rewires
// every summary formula to the actual item range. The fixed block on the
// right of the item area (dev, optional, discount rows) never moves; only
// the totals band and everything below it shift with inserted rows.
func (d *document) writeSummary() {
	sm := d.cfg.Summary
	cols := d.cfg.Columns
	totals := d.geo.totalsRow
	g := d.g

	devLabelCell := sheet.Cell(cols.Number, totals)
	g.SetValue(devLabelCell, sm.DevLabel)
	g.SetStyle(devLabelCell, d.st.totalsLabel(g.StyleOf(devLabelCell)))

	devCell := sheet.Cell(cols.Total, totals)
	g.SetFormula(devCell, pricing.SumColumnExpr(cols.Total, d.geo.firstRow, d.geo.lastRow))
	g.SetStyle(devCell, d.st.totalsValue(g.StyleOf(devCell), d.cfg.Branding.DevFill))

	firstAddon, _ := cols.addonSpan()
	optLabelCell := sheet.Cell(firstAddon, totals)
	g.SetValue(optLabelCell, sm.OptLabel)
	g.SetStyle(optLabelCell, d.st.totalsLabel(g.StyleOf(optLabelCell)))

	optCell := sheet.Cell(cols.AddonSum, totals)
	g.SetFormula(optCell, pricing.SumColumnExpr(cols.AddonSum, d.geo.firstRow, d.geo.lastRow))
	g.SetStyle(optCell, d.st.totalsValue(g.StyleOf(optCell), d.cfg.Branding.OptFill))

	d.retargetSummaryRefs()

	discountCell := sheet.Cell(sm.ValueCol, sm.DiscountRow)
	g.SetValue(sheet.Cell(sm.LabelCol, sm.DiscountRow),
		fmt.Sprintf("DISCOUNT (%.0f%%)", d.req.DiscountPercent))
	if d.req.DiscountPercent > 0 {
		g.SetFormula(discountCell,
			pricing.DiscountExpr(sm.ValueCol, sm.DevRow, sm.SumEndRow, d.req.DiscountPercent))
	} else {
		// A zero discount is a literal zero, not a degenerate formula.
		g.SetValue(discountCell, 0)
	}
	g.SetStyle(discountCell, d.st.currency(g.StyleOf(discountCell)))

	grandLabelCell := sheet.Cell(sm.LabelCol, totals)
	if strings.Contains(strings.ToUpper(g.Value(grandLabelCell)), sm.GrandLabel) {
		grandCell := sheet.Cell(sm.ValueCol, totals)
		g.SetFormula(grandCell,
			pricing.GrandTotalExpr(sm.ValueCol, sm.DevRow, sm.SumEndRow, discountCell))
		g.SetStyle(grandCell, d.st.totalsValue(g.StyleOf(grandCell), d.cfg.Branding.DueFill))
	} else {
		d.log.Warn("grand total label not found", "cell", grandLabelCell, "want", sm.GrandLabel)
	}
}

// retargetSummaryRefs rewrites the template's static references to the
// totals band (written against its original row) so they point at the
// relocated row. Only the summary value column is scanned.
func (d *document) retargetSummaryRefs() {
	if d.geo.shift == 0 {
		return
	}
	sm := d.cfg.Summary
	cols := d.cfg.Columns
	replacements := [][2]string{
		{sheet.Cell(cols.Total, sm.TotalsRow), sheet.Cell(cols.Total, d.geo.totalsRow)},
		{sheet.Cell(cols.AddonSum, sm.TotalsRow), sheet.Cell(cols.AddonSum, d.geo.totalsRow)},
	}
	for row := sm.DevRow; row <= sm.DiscountRow; row++ {
		cell := sheet.Cell(sm.ValueCol, row)
		formula := d.g.Formula(cell)
		if formula == "" {
			continue
		}
		updated := formula
		for _, rep := range replacements {
			updated = strings.ReplaceAll(updated, rep[0], rep[1])
		}
		if updated != formula {
			d.g.SetFormula(cell, updated)
		}
	}
}
