package pricing

import (
	"fmt"
	"strconv"
)

// Formula builders. All results are written with SetCellFormula, which
// takes formulas without a leading "=".

// LineTotalExpr builds the per-item total formula. A zero complexity
// yields a bare reference to the price cell; the multiplication term is
// only emitted when a complexity modifier exists.
func LineTotalExpr(priceCell, complexityCell string, complexityPct float64) string {
	if complexityPct == 0 {
		return priceCell
	}
	return fmt.Sprintf("%s*(1+%s)", priceCell, complexityCell)
}

// SumRangeExpr builds SUM over an inclusive cell range.
func SumRangeExpr(firstCell, lastCell string) string {
	return fmt.Sprintf("SUM(%s:%s)", firstCell, lastCell)
}

// SumColumnExpr builds SUM over one column between two rows.
func SumColumnExpr(col string, firstRow, lastRow int) string {
	return SumRangeExpr(fmt.Sprintf("%s%d", col, firstRow), fmt.Sprintf("%s%d", col, lastRow))
}

// DiscountExpr builds the discount formula over the summary value column.
// pct is a whole percentage (10 means 10%).
func DiscountExpr(col string, firstRow, lastRow int, pct float64) string {
	dec := strconv.FormatFloat(pct/100, 'f', -1, 64)
	return fmt.Sprintf("%s*%s", SumColumnExpr(col, firstRow, lastRow), dec)
}

// GrandTotalExpr builds the due-at-signing formula: the summary column sum
// minus the discount cell.
func GrandTotalExpr(col string, firstRow, lastRow int, discountCell string) string {
	return fmt.Sprintf("%s-%s", SumColumnExpr(col, firstRow, lastRow), discountCell)
}

// CountRangeExpr builds COUNT over an inclusive cell range. Used for
// deliverable counts driven by how many items carry an add-on price.
func CountRangeExpr(firstCell, lastCell string) string {
	return fmt.Sprintf("COUNT(%s:%s)", firstCell, lastCell)
}

// ConditionalCountExpr builds IF(COUNTIF(range, needle)>0, whenAny,
// otherwise) for deliverable rows whose count depends on a price showing
// up anywhere in a column.
func ConditionalCountExpr(firstCell, lastCell string, needle, whenAny, otherwise int) string {
	return fmt.Sprintf("IF(COUNTIF(%s:%s,%d)>0,%d,%d)", firstCell, lastCell, needle, whenAny, otherwise)
}
