package workbook

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// styleSet derives cell styles from whatever the template already has, so
// a number format or fill can be applied without discarding the cell's
// inherited formatting. Derived styles are cached per (base, mutation).
type styleSet struct {
	f     *excelize.File
	brand Branding
	log   *slog.Logger
	cache map[string]int
}

func newStyleSet(f *excelize.File, brand Branding, log *slog.Logger) *styleSet {
	return &styleSet{f: f, brand: brand, log: log, cache: make(map[string]int)}
}

func (s *styleSet) derive(base int, key string, mutate func(*excelize.Style)) int {
	cacheKey := fmt.Sprintf("%d|%s", base, key)
	if id, ok := s.cache[cacheKey]; ok {
		return id
	}
	st, err := s.f.GetStyle(base)
	if err != nil || st == nil {
		st = &excelize.Style{}
	}
	mutate(st)
	id, err := s.f.NewStyle(st)
	if err != nil {
		s.log.Warn("derive style", "base", base, "key", key, "err", err)
		return base
	}
	s.cache[cacheKey] = id
	return id
}

func (s *styleSet) currency(base int) int {
	return s.derive(base, "currency", func(st *excelize.Style) {
		nf := s.brand.CurrencyFormat
		st.CustomNumFmt = &nf
	})
}

func (s *styleSet) percent(base int) int {
	return s.derive(base, "percent", func(st *excelize.Style) {
		nf := s.brand.PercentFormat
		st.CustomNumFmt = &nf
	})
}

func (s *styleSet) count(base int) int {
	return s.derive(base, "count", func(st *excelize.Style) {
		nf := s.brand.CountFormat
		st.CustomNumFmt = &nf
	})
}

// itemCell dresses a cell on an inserted row: brand font, full border and
// the given horizontal alignment, on top of the copied row formatting.
func (s *styleSet) itemCell(base int, horizontal string) int {
	return s.derive(base, "item-"+horizontal, func(st *excelize.Style) {
		s.applyFont(st)
		st.Border = fullBorder()
		st.Alignment = &excelize.Alignment{Horizontal: horizontal, Vertical: "center", WrapText: true}
	})
}

func (s *styleSet) totalsLabel(base int) int {
	return s.derive(base, "totals-label", func(st *excelize.Style) {
		s.applyFont(st)
		st.Font.Bold = true
		st.Border = fullBorder()
	})
}

func (s *styleSet) totalsValue(base int, fill string) int {
	return s.derive(base, "totals-"+fill, func(st *excelize.Style) {
		s.applyFont(st)
		st.Font.Bold = true
		st.Border = fullBorder()
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
		numFmt := s.brand.CurrencyFormat
		st.CustomNumFmt = &numFmt
		if fill != "" {
			st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
		}
	})
}

// clientBanner is the oversized client-name style of the header.
func (s *styleSet) clientBanner() int {
	return s.derive(0, "client-banner", func(st *excelize.Style) {
		st.Font = &excelize.Font{
			Family: s.brand.ClientFont,
			Size:   s.brand.ClientSize,
			Bold:   true,
			Color:  s.brand.ClientColor,
		}
		st.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	})
}

func (s *styleSet) note(base int) int {
	return s.derive(base, "note", func(st *excelize.Style) {
		s.applyFont(st)
		st.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	})
}

func (s *styleSet) applyFont(st *excelize.Style) {
	if st.Font == nil {
		st.Font = &excelize.Font{}
	}
	st.Font.Family = s.brand.FontName
	st.Font.Size = s.brand.FontSize
}

func fullBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	border := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		border = append(border, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return border
}
