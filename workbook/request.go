package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atelierops/docgen/pricing"
)

// Fatal assembly errors. Everything else degrades with a Warn log.
var (
	ErrTemplateNotFound = errors.New("template file not found")
	ErrSheetMissing     = errors.New("target worksheet missing from template")
	ErrNoItems          = errors.New("request has no line items")
)

// Client identifies who the workbook is for.
type Client struct {
	Name           string `yaml:"name"`
	Email          string `yaml:"email"`
	Representative string `yaml:"representative,omitempty"`
}

// LineItem is a development style priced from the tier table.
type LineItem struct {
	Name string `yaml:"name"`
	// ComplexityPercent is a whole percentage (15 means +15%).
	ComplexityPercent float64 `yaml:"complexity_percent"`
	Activewear        bool    `yaml:"activewear"`
	// Addons flags the optional add-ons sold for this item, keyed like
	// the pricing table (wash_dye, design, source, treatment).
	Addons map[string]bool `yaml:"addons"`
	// Number overrides the generated sequence number when non-zero.
	Number int `yaml:"number,omitempty"`
}

// CustomLineItem carries its own price instead of a tier lookup and never
// has add-ons.
type CustomLineItem struct {
	Name              string        `yaml:"name"`
	Price             pricing.Money `yaml:"price"`
	ComplexityPercent float64       `yaml:"complexity_percent"`
	Number            int           `yaml:"number,omitempty"`
}

// Request is one workbook order.
type Request struct {
	Client          Client           `yaml:"client"`
	Items           []LineItem       `yaml:"items"`
	CustomItems     []CustomLineItem `yaml:"custom_items,omitempty"`
	DiscountPercent float64          `yaml:"discount_percent"`
	Notes           []string         `yaml:"notes,omitempty"`
}

// Total counts every line item, regular and custom.
func (r Request) Total() int {
	return len(r.Items) + len(r.CustomItems)
}

// ActivewearCount counts the activewear items.
func (r Request) ActivewearCount() int {
	n := 0
	for _, it := range r.Items {
		if it.Activewear {
			n++
		}
	}
	return n
}

// Validate rejects requests the assembler cannot build a document from.
func (r Request) Validate() error {
	if r.Total() == 0 {
		return ErrNoItems
	}
	if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
		return fmt.Errorf("discount percent out of range: %v", r.DiscountPercent)
	}
	for i, it := range r.Items {
		if it.ComplexityPercent < 0 {
			return fmt.Errorf("item %d: negative complexity", i)
		}
	}
	for i, it := range r.CustomItems {
		if it.Price <= 0 {
			return fmt.Errorf("custom item %d: price must be positive", i)
		}
		if it.ComplexityPercent < 0 {
			return fmt.Errorf("custom item %d: negative complexity", i)
		}
	}
	return nil
}

// displayName normalizes an item name for the sheet.
func displayName(name, fallback string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fallback
	}
	return name
}
