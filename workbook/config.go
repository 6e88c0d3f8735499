// Package workbook assembles development-package workbooks from a
// fixed-layout xlsx template: header fields, per-item row pairs, the
// relocated summary block and the deliverables section below it.
package workbook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/atelierops/docgen/pricing"
	"github.com/atelierops/docgen/sheet"
)

// Columns names the item-area columns of the template by letter.
type Columns struct {
	Number     string            `yaml:"number"`
	Name       string            `yaml:"name"`
	Price      string            `yaml:"price"`
	Complexity string            `yaml:"complexity"`
	Total      string            `yaml:"total"`
	AddonSum   string            `yaml:"addon_sum"`
	Addons     map[string]string `yaml:"addons"` // addon key → column letter
}

// addonSpan returns the leftmost and rightmost add-on columns, for the
// per-row add-on SUM range.
func (c Columns) addonSpan() (first, last string) {
	lo, hi := 0, 0
	for _, col := range c.Addons {
		n := sheet.ColNumber(col)
		if lo == 0 || n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return sheet.ColName(lo), sheet.ColName(hi)
}

// itemCols lists every column an item row touches, for clearing.
func (c Columns) itemCols() []string {
	cols := []string{c.Number, c.Name, c.Price, c.Complexity, c.Total}
	first, last := c.addonSpan()
	for n := sheet.ColNumber(first); n > 0 && n <= sheet.ColNumber(last); n++ {
		cols = append(cols, sheet.ColName(n))
	}
	return append(cols, c.AddonSum)
}

// span returns the item area as 1-based column numbers.
func (c Columns) span() sheet.ColSpan {
	return sheet.ColSpan{First: sheet.ColNumber(c.Number), Last: sheet.ColNumber(c.AddonSum)}
}

// Summary names the summary block: the label/value column pair on the
// right of the item area and the template-native row positions.
type Summary struct {
	LabelCol    string `yaml:"label_col"`
	ValueCol    string `yaml:"value_col"`
	DevRow      int    `yaml:"dev_row"`
	OptRow      int    `yaml:"opt_row"`
	DiscountRow int    `yaml:"discount_row"`
	SumEndRow   int    `yaml:"sum_end_row"`
	// TotalsRow is where the template keeps the totals band before any
	// rows are inserted. It shifts down two rows per extra item pair.
	TotalsRow int `yaml:"totals_row"`

	DevLabel   string `yaml:"dev_label"`
	OptLabel   string `yaml:"opt_label"`
	GrandLabel string `yaml:"grand_label"`
	NotesLabel string `yaml:"notes_label"`
}

// Deliverables names the deliverables block below the totals band.
// Labels live in two columns: LabelCol for sample/pattern rows and
// AltLabelCol for fittings, revisions and the add-on deliverables.
type Deliverables struct {
	StartRow      int               `yaml:"start_row"`
	EndRow        int               `yaml:"end_row"`
	LabelCol      string            `yaml:"label_col"`
	AltLabelCol   string            `yaml:"alt_label_col"`
	CountCol      string            `yaml:"count_col"`
	AddonCountCol string            `yaml:"addon_count_col"`
	AddonLabels   map[string]string `yaml:"addon_labels"` // deliverable label → addon key
}

// Header describes the fixed header cells of the template.
type Header struct {
	TaglineCell string            `yaml:"tagline_cell"`
	Tagline     string            `yaml:"tagline"`
	ClientCell  string            `yaml:"client_cell"`
	EmailCell   string            `yaml:"email_cell"`
	RepCell     string            `yaml:"rep_cell,omitempty"`
	Labels      map[string]string `yaml:"labels"` // cell → caption
}

// Branding holds fonts, fills and number formats applied to cells the
// assembler writes.
type Branding struct {
	FontName       string  `yaml:"font_name"`
	FontSize       float64 `yaml:"font_size"`
	ClientFont     string  `yaml:"client_font"`
	ClientSize     float64 `yaml:"client_size"`
	ClientColor    string  `yaml:"client_color"`
	DevFill        string  `yaml:"dev_fill"`
	OptFill        string  `yaml:"opt_fill"`
	DueFill        string  `yaml:"due_fill"`
	CurrencyFormat string  `yaml:"currency_format"`
	PercentFormat  string  `yaml:"percent_format"`
	CountFormat    string  `yaml:"count_format"`
}

// Config is the full layout description of one workbook template. All row
// and column positions live here; the assembler never hard-codes a cell.
type Config struct {
	TemplatePath string `yaml:"template_path"`
	TargetSheet  string `yaml:"target_sheet"`
	OutputSheet  string `yaml:"output_sheet"`

	// AnchorRows are the first rows of the template's native item pairs.
	AnchorRows []int `yaml:"anchor_rows"`
	// FormatSourceRow is the first row of the pair whose formatting is
	// copied into inserted rows.
	FormatSourceRow int `yaml:"format_source_row"`
	// StartNumber seeds the item sequence numbers.
	StartNumber int `yaml:"start_number"`

	Columns      Columns       `yaml:"columns"`
	Summary      Summary       `yaml:"summary"`
	Deliverables Deliverables  `yaml:"deliverables"`
	Header       Header        `yaml:"header"`
	Branding     Branding      `yaml:"branding"`
	Pricing      pricing.Table `yaml:"pricing"`
}

// DefaultConfig returns the layout of the standard development template.
func DefaultConfig() Config {
	return Config{
		TemplatePath:    "development_template.xlsx",
		TargetSheet:     "DEVELOPMENT ONLY",
		OutputSheet:     "Workbook",
		AnchorRows:      []int{10, 12, 14, 16, 18},
		FormatSourceRow: 18,
		StartNumber:     101,
		Columns: Columns{
			Number:     "B",
			Name:       "C",
			Price:      "D",
			Complexity: "E",
			Total:      "F",
			AddonSum:   "L",
			Addons: map[string]string{
				pricing.AddonWashDye:   "H",
				pricing.AddonDesign:    "I",
				pricing.AddonSource:    "J",
				pricing.AddonTreatment: "K",
			},
		},
		Summary: Summary{
			LabelCol:    "N",
			ValueCol:    "P",
			DevRow:      10,
			OptRow:      12,
			DiscountRow: 14,
			SumEndRow:   13,
			TotalsRow:   20,
			DevLabel:    "TOTAL DEVELOPMENT",
			OptLabel:    "TOTAL OPTIONAL ADD-ONS",
			GrandLabel:  "TOTAL DUE AT SIGNING",
			NotesLabel:  "PROJECT NOTES",
		},
		Deliverables: Deliverables{
			StartRow:      22,
			EndRow:        34,
			LabelCol:      "B",
			AltLabelCol:   "H",
			CountCol:      "D",
			AddonCountCol: "J",
			AddonLabels: map[string]string{
				"WASH/TREATMENT": pricing.AddonWashDye,
				"DESIGN":         pricing.AddonDesign,
				"SOURCING":       pricing.AddonSource,
				"TREATMENT":      pricing.AddonTreatment,
			},
		},
		Header: Header{
			TaglineCell: "B3",
			Tagline:     "CRAFTED JUST FOR",
			ClientCell:  "J3",
			EmailCell:   "D6",
			RepCell:     "J6",
			Labels: map[string]string{
				"B8": "DEVELOPMENT PACKAGE",
				"H9": "WASH/DYE",
				"I9": "DESIGN",
				"J9": "SOURCE",
				"K9": "TREATMENT",
				"L9": "TOTAL",
			},
		},
		Branding: Branding{
			FontName:       "Arial",
			FontSize:       20,
			ClientFont:     "Schibsted Grotesk",
			ClientSize:     48,
			ClientColor:    "C9A57A",
			DevFill:        "709171",
			OptFill:        "F0CFBB",
			DueFill:        "FFFF00",
			CurrencyFormat: "$#,##0",
			PercentFormat:  "0%",
			CountFormat:    "0",
		},
		Pricing: pricing.DefaultTable(),
	}
}

// LoadConfig reads a YAML config overlay on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Capacity is the number of item pairs the template holds natively.
func (c Config) Capacity() int { return len(c.AnchorRows) }

// Validate rejects layouts the assembler cannot place items into.
func (c Config) Validate() error {
	if c.TargetSheet == "" || c.OutputSheet == "" {
		return fmt.Errorf("target and output sheet names are required")
	}
	if len(c.AnchorRows) == 0 {
		return fmt.Errorf("at least one anchor row is required")
	}
	for i, row := range c.AnchorRows {
		if row <= 1 {
			return fmt.Errorf("anchor row %d out of range: %d", i, row)
		}
		if i > 0 && row != c.AnchorRows[i-1]+2 {
			return fmt.Errorf("anchor rows must step by two, got %v", c.AnchorRows)
		}
	}
	if c.FormatSourceRow <= 0 {
		return fmt.Errorf("format source row is required")
	}
	if c.Summary.TotalsRow <= c.AnchorRows[len(c.AnchorRows)-1] {
		return fmt.Errorf("totals row %d must sit below the last anchor row %d",
			c.Summary.TotalsRow, c.AnchorRows[len(c.AnchorRows)-1])
	}
	for _, col := range append(c.Columns.itemCols(), c.Summary.LabelCol, c.Summary.ValueCol) {
		if sheet.ColNumber(col) == 0 {
			return fmt.Errorf("invalid column letter %q", col)
		}
	}
	return c.Pricing.Validate()
}
