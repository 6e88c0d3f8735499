// Package pricing resolves base prices for development line items from a
// volume/category tier table and builds the spreadsheet formula strings
// the workbook writes instead of precomputed totals.
package pricing

import (
	"fmt"
	"math"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// Money is a dollar amount. Currency cells are written as whole dollars,
// see Whole.
type Money float64

// Whole rounds to the nearest whole dollar.
func (m Money) Whole() int {
	return int(math.Round(float64(m)))
}

// Add-on keys shared between the tier table and line items.
const (
	AddonWashDye   = "wash_dye"
	AddonDesign    = "design"
	AddonSource    = "source"
	AddonTreatment = "treatment"
)

// Table is the tier pricing table. Base price resolution: an activewear
// item always prices at Activewear; otherwise a project with fewer than
// VolumeBreak total items prices at LowVolume, and HighVolume from
// VolumeBreak up. TierRule, when set, replaces that band logic with an
// expression over {total, activewear}, e.g.
//
//	activewear ? 3560.0 : (total < 5 ? 2780.0 : 2325.0)
type Table struct {
	LowVolume   Money            `yaml:"low_volume"`
	HighVolume  Money            `yaml:"high_volume"`
	Activewear  Money            `yaml:"activewear"`
	VolumeBreak int              `yaml:"volume_break"`
	Addons      map[string]Money `yaml:"addons"`
	TierRule    string           `yaml:"tier_rule,omitempty"`
}

// DefaultTable returns the standard development pricing.
func DefaultTable() Table {
	return Table{
		LowVolume:   2780,
		HighVolume:  2325,
		Activewear:  3560,
		VolumeBreak: 5,
		Addons: map[string]Money{
			AddonWashDye:   1330,
			AddonDesign:    1330,
			AddonSource:    1330,
			AddonTreatment: 760,
		},
	}
}

// LoadTable reads a YAML tier table, starting from DefaultTable so a
// partial file only overrides what it names.
func LoadTable(path string) (Table, error) {
	t := DefaultTable()
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read pricing table %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse pricing table %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("pricing table %q: %w", path, err)
	}
	return t, nil
}

// Validate checks the table for values the resolver cannot work with.
func (t Table) Validate() error {
	if t.LowVolume <= 0 || t.HighVolume <= 0 || t.Activewear <= 0 {
		return fmt.Errorf("tier prices must be positive (low %v, high %v, activewear %v)",
			t.LowVolume, t.HighVolume, t.Activewear)
	}
	if t.VolumeBreak <= 0 {
		return fmt.Errorf("volume break must be positive, got %d", t.VolumeBreak)
	}
	for key, price := range t.Addons {
		if price <= 0 {
			return fmt.Errorf("addon %q price must be positive, got %v", key, price)
		}
	}
	return nil
}

// Resolver answers base-price and add-on lookups for one table. The tier
// rule, when present, is compiled once at construction.
type Resolver struct {
	table Table
	rule  *vm.Program
}

// NewResolver validates the table and compiles its tier rule.
func NewResolver(t Table) (*Resolver, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	r := &Resolver{table: t}
	if t.TierRule != "" {
		program, err := expr.Compile(t.TierRule, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compile tier rule %q: %w", t.TierRule, err)
		}
		r.rule = program
	}
	return r, nil
}

// Table returns the resolver's tier table.
func (r *Resolver) Table() Table { return r.table }

// BasePrice resolves the per-item base price. total is the full project
// item count, regular and custom items included. The result depends only
// on the arguments and the table; item position never matters.
func (r *Resolver) BasePrice(total int, activewear bool) (Money, error) {
	if r.rule != nil {
		out, err := expr.Run(r.rule, map[string]any{
			"total":      total,
			"activewear": activewear,
		})
		if err != nil {
			return 0, fmt.Errorf("evaluate tier rule: %w", err)
		}
		switch v := out.(type) {
		case float64:
			return Money(v), nil
		case int:
			return Money(v), nil
		default:
			return 0, fmt.Errorf("tier rule evaluated to %T, expected a number", out)
		}
	}
	if activewear {
		return r.table.Activewear, nil
	}
	if total < r.table.VolumeBreak {
		return r.table.LowVolume, nil
	}
	return r.table.HighVolume, nil
}

// Addon returns the price of an add-on by key.
func (r *Resolver) Addon(key string) (Money, bool) {
	price, ok := r.table.Addons[key]
	return price, ok
}
