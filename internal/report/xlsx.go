package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prism/internal/model"
)

// Sheet names in exported workbooks.
const (
	SheetStatTests  = "stat_tests"
	SheetGrimChecks = "grim_checks"
)

var (
	statTestHeader = []string{
		"statistic_family", "df1", "df2", "value", "p_comparison", "reported_p",
		"computed_p", "error", "decision_error", "one_tailed", "source", "raw",
	}
	grimHeader = []string{"sentence", "mean", "n", "grim_ok"}
)

func writeXLSX(w io.Writer, result *model.AnalysisResult) error {
	f := xlsx.NewFile()

	stats, err := f.AddSheet(SheetStatTests)
	if err != nil {
		return eris.Wrap(err, "xlsx: add stat sheet")
	}
	addStringRow(stats, statTestHeader)
	for _, t := range result.StatTests {
		row := stats.AddRow()
		row.AddCell().SetString(string(t.Family))
		addOptionalFloat(row, t.DF1)
		addOptionalFloat(row, t.DF2)
		row.AddCell().SetFloat(t.Value)
		row.AddCell().SetString(t.PComparison)
		addOptionalFloat(row, t.ReportedP)
		addOptionalFloat(row, t.ComputedP)
		row.AddCell().SetBool(t.Error)
		row.AddCell().SetString(string(t.DecisionError))
		row.AddCell().SetBool(t.OneTailed)
		row.AddCell().SetString(t.Source)
		row.AddCell().SetString(t.Raw)
	}

	grims, err := f.AddSheet(SheetGrimChecks)
	if err != nil {
		return eris.Wrap(err, "xlsx: add grim sheet")
	}
	addStringRow(grims, grimHeader)
	for _, g := range result.GrimChecks {
		row := grims.AddRow()
		row.AddCell().SetString(g.Sentence)
		row.AddCell().SetFloat(g.Mean)
		row.AddCell().SetInt(g.N)
		if g.GrimOK == nil {
			row.AddCell()
		} else {
			row.AddCell().SetBool(*g.GrimOK)
		}
	}

	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// Null values become empty cells.
func addOptionalFloat(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
