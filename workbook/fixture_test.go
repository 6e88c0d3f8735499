package workbook

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const fixtureSheet = "DEVELOPMENT ONLY"

var itemFixtureCols = []string{"B", "C", "D", "E", "F", "H", "I", "J", "K", "L"}

// newTemplate builds the development template shape in memory: five
// native item pairs, the summary block on the right, the totals band at
// row 20 and the deliverables block below it. The default excelize sheet
// is kept so pruning has something to remove.
func newTemplate(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	_, err := f.NewSheet(fixtureSheet)
	require.NoError(t, err)

	for _, row := range []int{10, 12, 14, 16, 18} {
		for _, col := range itemFixtureCols {
			require.NoError(t, f.MergeCell(fixtureSheet,
				fmt.Sprintf("%s%d", col, row), fmt.Sprintf("%s%d", col, row+1)))
		}
	}

	// Summary block and its static references to the totals band.
	require.NoError(t, f.SetCellValue(fixtureSheet, "N10", "DEVELOPMENT"))
	require.NoError(t, f.SetCellFormula(fixtureSheet, "P10", "F20"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "N12", "OPTIONAL ADD-ONS"))
	require.NoError(t, f.SetCellFormula(fixtureSheet, "P12", "L20"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "N20", "TOTAL DUE AT SIGNING"))

	// Deliverables block, rows 22-34.
	require.NoError(t, f.SetCellValue(fixtureSheet, "B22", "PATTERNS"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "B24", "FIRST SAMPLES"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "B26", "FINAL SAMPLES"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H22", "WASH/TREATMENT"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H24", "DESIGN"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H26", "SOURCING"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H28", "TREATMENT"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H30", "ROUND OF FITTINGS"))
	require.NoError(t, f.SetCellValue(fixtureSheet, "H32", "ROUND OF REVISIONS"))

	// Distinct formatting on the revision-round pair, the format source
	// for rows the activewear extension appends.
	revStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(fixtureSheet, "B32", "J33", revStyle))
	for _, row := range []int{22, 24, 26} {
		require.NoError(t, f.MergeCell(fixtureSheet,
			fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row+1)))
	}

	require.NoError(t, f.SetCellValue(fixtureSheet, "N26", "PROJECT NOTES"))
	return f
}

// render builds a workbook from a fresh fixture template and reopens the
// serialized bytes, so assertions see what a recipient would.
func render(t *testing.T, req Request) (*Result, *excelize.File) {
	t.Helper()
	asm, err := New(DefaultConfig(), quietLogger())
	require.NoError(t, err)

	res, err := asm.Render(newTemplate(t), req)
	require.NoError(t, err)

	out, err := excelize.OpenReader(bytes.NewReader(res.Bytes))
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })
	return res, out
}

func itemsRequest(n int) Request {
	req := Request{Client: Client{Name: "Halcyon Studio", Email: "ops@halcyon.example"}}
	for i := 0; i < n; i++ {
		req.Items = append(req.Items, LineItem{Name: fmt.Sprintf("Style %d", i+1)})
	}
	return req
}

func value(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue("Workbook", cell)
	require.NoError(t, err)
	return v
}

func formula(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellFormula("Workbook", cell)
	require.NoError(t, err)
	return v
}
