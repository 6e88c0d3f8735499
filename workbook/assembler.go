package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/atelierops/docgen/pricing"
	"github.com/atelierops/docgen/sheet"
)

// Result is a finished workbook plus the running totals the assembler
// accumulated while writing items. The sheet itself carries formulas, not
// these numbers; the totals exist for callers that need them without
// evaluating the file.
type Result struct {
	Bytes            []byte
	DevelopmentTotal pricing.Money
	OptionalTotal    pricing.Money
}

// Assembler builds workbooks for one template layout.
type Assembler struct {
	cfg    Config
	prices *pricing.Resolver
	log    *slog.Logger
}

// New validates the config and compiles its pricing table.
func New(cfg Config, log *slog.Logger) (*Assembler, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("workbook config: %w", err)
	}
	prices, err := pricing.NewResolver(cfg.Pricing)
	if err != nil {
		return nil, fmt.Errorf("workbook pricing: %w", err)
	}
	return &Assembler{cfg: cfg, prices: prices, log: log}, nil
}

// Build opens the configured template and renders the request into it.
func (a *Assembler) Build(req Request) (*Result, error) {
	f, err := excelize.OpenFile(a.cfg.TemplatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, a.cfg.TemplatePath)
		}
		return nil, fmt.Errorf("open template %q: %w", a.cfg.TemplatePath, err)
	}
	defer f.Close()
	return a.Render(f, req)
}

// Render mutates an already-open template workbook and serializes it.
// The steps run in a fixed order: sheet isolation, header, row
// reservation, clearing, item writes, summary relocation, deliverables,
// notes. Each step assumes the row positions established by the previous
// ones.
func (a *Assembler) Render(f *excelize.File, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := a.isolateSheet(f); err != nil {
		return nil, err
	}

	d := &document{
		cfg:    a.cfg,
		prices: a.prices,
		log:    a.log,
		req:    req,
		g:      sheet.NewGrid(f, a.cfg.OutputSheet, a.log),
		st:     newStyleSet(f, a.cfg.Branding, a.log),
		geo:    a.layout(req),
	}

	d.writeHeader()
	if err := d.reserveRows(); err != nil {
		return nil, err
	}
	d.clearItemRows()
	if err := d.writeItems(); err != nil {
		return nil, err
	}
	d.writeSummary()
	d.updateDeliverables()
	d.writeNotes()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return &Result{
		Bytes:            buf.Bytes(),
		DevelopmentTotal: d.devTotal,
		OptionalTotal:    d.optTotal,
	}, nil
}

// isolateSheet renames the target sheet to the output name and prunes
// every other sheet, so the delivered file holds exactly one worksheet.
func (a *Assembler) isolateSheet(f *excelize.File) error {
	names := f.GetSheetList()
	hasTarget, hasOutput := false, false
	for _, name := range names {
		if name == a.cfg.TargetSheet {
			hasTarget = true
		}
		if name == a.cfg.OutputSheet {
			hasOutput = true
		}
	}
	switch {
	case hasTarget:
		if a.cfg.TargetSheet != a.cfg.OutputSheet {
			if err := f.SetSheetName(a.cfg.TargetSheet, a.cfg.OutputSheet); err != nil {
				return fmt.Errorf("rename sheet %q: %w", a.cfg.TargetSheet, err)
			}
		}
	case hasOutput:
		// Rebuilding a previously generated file.
	default:
		return fmt.Errorf("%w: %q", ErrSheetMissing, a.cfg.TargetSheet)
	}
	for _, name := range f.GetSheetList() {
		if name == a.cfg.OutputSheet {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("delete sheet %q: %w", name, err)
		}
	}
	if idx, err := f.GetSheetIndex(a.cfg.OutputSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return nil
}

// geometry is the computed row layout for one request.
type geometry struct {
	rows           []int // first row of each item pair, regular items then custom
	firstRow       int
	lastRow        int // first row of the last pair
	lastRegularRow int
	extraPairs     int
	shift          int // rows everything below the item area moved down
	totalsRow      int
}

func (a *Assembler) layout(req Request) geometry {
	total := req.Total()
	first := a.cfg.AnchorRows[0]
	rows := make([]int, total)
	for i := range rows {
		rows[i] = first + 2*i
	}
	extra := total - a.cfg.Capacity()
	if extra < 0 {
		extra = 0
	}
	geo := geometry{
		rows:           rows,
		firstRow:       first,
		lastRow:        rows[total-1],
		lastRegularRow: first,
		extraPairs:     extra,
		shift:          2 * extra,
		totalsRow:      a.cfg.Summary.TotalsRow + 2*extra,
	}
	if n := len(req.Items); n > 0 {
		geo.lastRegularRow = rows[n-1]
	}
	return geo
}

// document carries the per-request render state.
type document struct {
	cfg    Config
	prices *pricing.Resolver
	log    *slog.Logger
	req    Request
	g      *sheet.Grid
	st     *styleSet
	geo    geometry

	devTotal pricing.Money
	optTotal pricing.Money
}

func (d *document) writeHeader() {
	h := d.cfg.Header
	for cell, label := range h.Labels {
		d.g.SetValue(cell, label)
	}
	if h.TaglineCell != "" && h.Tagline != "" {
		d.g.SetValue(h.TaglineCell, h.Tagline)
	}
	if h.ClientCell != "" {
		d.g.SetValue(h.ClientCell, strings.ToUpper(strings.TrimSpace(d.req.Client.Name)))
		d.g.SetStyle(h.ClientCell, d.st.clientBanner())
	}
	if h.EmailCell != "" && d.req.Client.Email != "" {
		d.g.SetValue(h.EmailCell, strings.TrimSpace(d.req.Client.Email))
	}
	if h.RepCell != "" && d.req.Client.Representative != "" {
		d.g.SetValue(h.RepCell, strings.ToUpper(strings.TrimSpace(d.req.Client.Representative)))
	}
}

// reserveRows makes room below the native anchors when the request holds
// more items than the template. New rows inherit the format-source pair's
// styles; merges straddling the insertion are dissolved.
func (d *document) reserveRows() error {
	if d.geo.extraPairs == 0 {
		return nil
	}
	repair := sheet.ColSpan{First: 1, Last: sheet.ColNumber(d.cfg.Summary.ValueCol)}
	return d.g.ReserveRows(
		d.cfg.Summary.TotalsRow,
		d.geo.extraPairs,
		d.cfg.FormatSourceRow,
		d.cfg.Columns.span(),
		repair,
	)
}

// clearItemRows blanks every native anchor and every row the request will
// use, so a shorter rerun never inherits stale values, plus the stale
// discount cells of the summary block.
func (d *document) clearItemRows() {
	seen := make(map[int]bool)
	var rows []int
	for _, row := range append(append([]int{}, d.cfg.AnchorRows...), d.geo.rows...) {
		if !seen[row] {
			seen[row] = true
			rows = append(rows, row)
		}
	}
	d.g.ClearCells(rows, d.cfg.Columns.itemCols())
	d.g.SetValue(sheet.Cell(d.cfg.Summary.LabelCol, d.cfg.Summary.DiscountRow), nil)
	d.g.SetValue(sheet.Cell(d.cfg.Summary.ValueCol, d.cfg.Summary.DiscountRow), nil)
}

// rowSpec is one item row ready to be written.
type rowSpec struct {
	number     int
	name       string
	price      pricing.Money
	complexity float64 // whole percent
	addons     map[string]bool
	optional   bool // row participates in the add-on columns
}

func (d *document) writeItems() error {
	lastAnchor := d.cfg.AnchorRows[len(d.cfg.AnchorRows)-1]
	total := d.req.Total()
	idx := 0

	for _, it := range d.req.Items {
		price, err := d.prices.BasePrice(total, it.Activewear)
		if err != nil {
			return err
		}
		d.writeItemRow(d.geo.rows[idx], d.geo.rows[idx] > lastAnchor, rowSpec{
			number:     orSequence(it.Number, d.cfg.StartNumber+idx),
			name:       displayName(it.Name, "STYLE"),
			price:      price,
			complexity: it.ComplexityPercent,
			addons:     it.Addons,
			optional:   true,
		})
		idx++
	}
	for _, it := range d.req.CustomItems {
		d.writeItemRow(d.geo.rows[idx], d.geo.rows[idx] > lastAnchor, rowSpec{
			number:     orSequence(it.Number, d.cfg.StartNumber+idx),
			name:       displayName(it.Name, "CUSTOM ITEM"),
			price:      it.Price,
			complexity: it.ComplexityPercent,
		})
		idx++
	}
	return nil
}

func orSequence(explicit, generated int) int {
	if explicit != 0 {
		return explicit
	}
	return generated
}

func (d *document) writeItemRow(row int, inserted bool, spec rowSpec) {
	cols := d.cfg.Columns
	if inserted {
		span := cols.span()
		d.g.RepairMerges(sheet.RowBand(row, row+1, span.First, span.Last))
	}

	d.put(row, inserted, cols.Number, spec.number, d.st.count, "left")
	d.put(row, inserted, cols.Name, spec.name, nil, "left")
	d.put(row, inserted, cols.Price, spec.price.Whole(), d.st.currency, "center")
	if spec.complexity != 0 {
		d.put(row, inserted, cols.Complexity, spec.complexity/100, d.st.percent, "center")
	} else {
		d.put(row, inserted, cols.Complexity, nil, d.st.percent, "center")
	}

	priceCell := sheet.Cell(cols.Price, row)
	complexityCell := sheet.Cell(cols.Complexity, row)
	d.putFormula(row, inserted, cols.Total,
		pricing.LineTotalExpr(priceCell, complexityCell, spec.complexity), d.st.currency)
	d.devTotal += spec.price * pricing.Money(1+spec.complexity/100)

	for key, col := range cols.Addons {
		if !spec.optional || !spec.addons[key] {
			d.put(row, inserted, col, nil, d.st.currency, "center")
			continue
		}
		price, ok := d.prices.Addon(key)
		if !ok {
			d.log.Warn("add-on missing from pricing table", "addon", key)
			d.put(row, inserted, col, nil, d.st.currency, "center")
			continue
		}
		d.optTotal += price
		d.put(row, inserted, col, price.Whole(), d.st.currency, "center")
	}

	firstAddon, lastAddon := cols.addonSpan()
	if spec.optional {
		d.putFormula(row, inserted, cols.AddonSum,
			pricing.SumRangeExpr(sheet.Cell(firstAddon, row), sheet.Cell(lastAddon, row)), d.st.currency)
	} else {
		d.put(row, inserted, cols.AddonSum, nil, d.st.currency, "center")
	}
}

func (d *document) put(row int, inserted bool, col string, v any, numFmt func(int) int, horizontal string) {
	cell := sheet.Cell(col, row)
	d.g.SetValue(cell, v)
	d.decorate(cell, inserted, numFmt, horizontal)
	if inserted {
		d.g.MergePair(sheet.ColNumber(col), row)
	}
}

func (d *document) putFormula(row int, inserted bool, col, formula string, numFmt func(int) int) {
	cell := sheet.Cell(col, row)
	d.g.SetFormula(cell, formula)
	d.decorate(cell, inserted, numFmt, "center")
	if inserted {
		d.g.MergePair(sheet.ColNumber(col), row)
	}
}

func (d *document) decorate(cell string, inserted bool, numFmt func(int) int, horizontal string) {
	base := d.g.StyleOf(cell)
	styled := base
	if numFmt != nil {
		styled = numFmt(styled)
	}
	if inserted {
		styled = d.st.itemCell(styled, horizontal)
	}
	if styled != base {
		d.g.SetStyle(cell, styled)
	}
}
