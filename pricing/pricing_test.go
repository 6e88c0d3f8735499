package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePriceTiers(t *testing.T) {
	r, err := NewResolver(DefaultTable())
	require.NoError(t, err)

	tests := []struct {
		name       string
		total      int
		activewear bool
		want       Money
	}{
		{"single item", 1, false, 2780},
		{"just under the break", 4, false, 2780},
		{"at the break", 5, false, 2325},
		{"large project", 11, false, 2325},
		{"activewear small project", 2, true, 3560},
		{"activewear wins over volume", 9, true, 3560},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.BasePrice(tt.total, tt.activewear)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasePriceIgnoresItemPosition(t *testing.T) {
	r, err := NewResolver(DefaultTable())
	require.NoError(t, err)

	// Same total, any mix: every non-activewear item prices identically.
	first, err := r.BasePrice(6, false)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		got, err := r.BasePrice(6, false)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestTierRuleOverridesBands(t *testing.T) {
	table := DefaultTable()
	table.TierRule = "activewear ? 4000.0 : (total < 3 ? 3000.0 : 2000.0)"
	r, err := NewResolver(table)
	require.NoError(t, err)

	got, err := r.BasePrice(2, false)
	require.NoError(t, err)
	assert.Equal(t, Money(3000), got)

	got, err = r.BasePrice(8, false)
	require.NoError(t, err)
	assert.Equal(t, Money(2000), got)

	got, err = r.BasePrice(8, true)
	require.NoError(t, err)
	assert.Equal(t, Money(4000), got)
}

func TestTierRuleCompileError(t *testing.T) {
	table := DefaultTable()
	table.TierRule = "total <"
	_, err := NewResolver(table)
	assert.Error(t, err)
}

func TestTierRuleNonNumericResult(t *testing.T) {
	table := DefaultTable()
	table.TierRule = `"not a price"`
	r, err := NewResolver(table)
	require.NoError(t, err)

	_, err = r.BasePrice(3, false)
	assert.Error(t, err)
}

func TestTableValidate(t *testing.T) {
	bad := DefaultTable()
	bad.LowVolume = 0
	assert.Error(t, bad.Validate())

	bad = DefaultTable()
	bad.VolumeBreak = 0
	assert.Error(t, bad.Validate())

	bad = DefaultTable()
	bad.Addons = map[string]Money{AddonDesign: -1}
	assert.Error(t, bad.Validate())

	assert.NoError(t, DefaultTable().Validate())
}

func TestAddonLookup(t *testing.T) {
	r, err := NewResolver(DefaultTable())
	require.NoError(t, err)

	price, ok := r.Addon(AddonTreatment)
	assert.True(t, ok)
	assert.Equal(t, Money(760), price)

	_, ok = r.Addon("embroidery")
	assert.False(t, ok)
}

func TestMoneyWhole(t *testing.T) {
	assert.Equal(t, 2780, Money(2780).Whole())
	assert.Equal(t, 3059, Money(3058.8).Whole())
	assert.Equal(t, 2780, Money(2780.4).Whole())
}

func TestLineTotalExpr(t *testing.T) {
	// Zero complexity stays a bare reference so the sheet shows the
	// price untouched instead of a degenerate multiplication.
	assert.Equal(t, "D10", LineTotalExpr("D10", "E10", 0))
	assert.Equal(t, "D12*(1+E12)", LineTotalExpr("D12", "E12", 15))
}

func TestSumAndCountBuilders(t *testing.T) {
	assert.Equal(t, "SUM(F10:F18)", SumRangeExpr("F10", "F18"))
	assert.Equal(t, "SUM(L10:L22)", SumColumnExpr("L", 10, 22))
	assert.Equal(t, "COUNT(H10:H18)", CountRangeExpr("H10", "H18"))
	assert.Equal(t, "IF(COUNTIF(D10:D18,3560)>0,2,1)", ConditionalCountExpr("D10", "D18", 3560, 2, 1))
}

func TestDiscountAndGrandTotalExprs(t *testing.T) {
	assert.Equal(t, "SUM(P10:P13)*0.1", DiscountExpr("P", 10, 13, 10))
	assert.Equal(t, "SUM(P10:P13)*0.255", DiscountExpr("P", 10, 13, 25.5))
	assert.Equal(t, "SUM(P10:P13)-P14", GrandTotalExpr("P", 10, 13, "P14"))
}
