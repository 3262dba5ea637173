package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prism/internal/model"
)

func sampleReport() *model.Report {
	result := model.NewAnalysisResult()
	result.StatTests = append(result.StatTests,
		model.StatTestRecord{
			Family:        model.FamilyT,
			DF2:           model.Float(28),
			Value:         2.05,
			ReportedP:     model.Float(0.20),
			PComparison:   "=",
			ComputedP:     model.Float(0.049834),
			Error:         true,
			DecisionError: model.ClassDecisionError,
			Source:        "paper.pdf",
			Raw:           "t(28) = 2.05, p = .20",
		},
		model.StatTestRecord{
			Family:        model.FamilyR,
			DF2:           model.Float(0),
			Value:         0.5,
			ReportedP:     model.Float(0.01),
			PComparison:   "<",
			DecisionError: model.ClassUncomputable,
			Source:        "paper.pdf",
			Raw:           "r(0) = .5, p < .01",
		},
	)
	result.GrimChecks = append(result.GrimChecks,
		model.GrimCheckRecord{Sentence: "M = 3.14, N = 3.", Mean: 3.14, N: 3, GrimOK: model.Bool(false)},
		model.GrimCheckRecord{Sentence: "M = -1.5, N = 4.", Mean: -1.5, N: 4},
	)
	return &model.Report{ID: "r1", Filename: "paper.pdf", SHA256: "abc123", Result: result}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"":         FormatJSON,
		"JSON":     FormatJSON,
		"yml":      FormatYAML,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"xlsx":     FormatXLSX,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, FormatFromPath("out/report.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("report"))
	assert.Equal(t, FormatYAML, FormatFromPath("report.YML"))
	assert.Equal(t, FormatMarkdown, FormatFromPath("report.md"))
	assert.Equal(t, FormatXLSX, FormatFromPath("report.xlsx"))
	assert.Equal(t, ".xlsx", FormatXLSX.Ext())
	assert.Equal(t, ".json", FormatJSON.Ext())
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport()))

	var got model.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleReport().Result, got)
	assert.Contains(t, buf.String(), `"computed_p": null`)
	assert.Contains(t, buf.String(), `"grim_ok": null`)
	assert.Contains(t, buf.String(), "\n  \"stat_tests\"")
}

func TestWrite_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, &model.Report{Filename: "blank.pdf"}))
	assert.JSONEq(t, `{"stat_tests":[],"grim_checks":[]}`, buf.String())

	require.Error(t, Write(&buf, FormatJSON, nil))
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleReport()))

	var got model.AnalysisResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleReport().Result, got)
	assert.Contains(t, buf.String(), "statistic_family: t")
	assert.Contains(t, buf.String(), "decision_error: decision_error")
}

func TestWrite_Markdown(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Review = "The t-test on page 3 looks misreported."

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, r))
	out := buf.String()

	assert.Contains(t, out, "# Consistency Report: paper.pdf")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "## Statistical Tests")
	assert.Contains(t, out, "`t(28) = 2.05, p = .20`")
	assert.Contains(t, out, "0.0498")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "## GRIM Checks")
	assert.Contains(t, out, "inconsistent")
	assert.Contains(t, out, "indeterminate")
	assert.Contains(t, out, "## Review")
	assert.Contains(t, out, r.Review)
	assert.Contains(t, out, "significance conclusion")
}

func TestWrite_MarkdownEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, &model.Report{Result: model.NewAnalysisResult()}))
	out := buf.String()

	assert.Contains(t, out, "# Consistency Report")
	assert.Contains(t, out, "No test statistics were found.")
	assert.Contains(t, out, "No mean and sample size pairs were found.")
	assert.Contains(t, out, "No inconsistencies detected.")
	assert.NotContains(t, out, "## Review")
}

func TestWrite_XLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleReport()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	stats, ok := f.Sheet[SheetStatTests]
	require.True(t, ok)
	require.Len(t, stats.Rows, 3)
	assert.Equal(t, "statistic_family", stats.Rows[0].Cells[0].String())
	assert.Equal(t, "t", stats.Rows[1].Cells[0].String())
	assert.Equal(t, "decision_error", stats.Rows[1].Cells[8].String())
	assert.Equal(t, "t(28) = 2.05, p = .20", stats.Rows[1].Cells[11].String())

	grims, ok := f.Sheet[SheetGrimChecks]
	require.True(t, ok)
	require.Len(t, grims.Rows, 3)
	assert.Equal(t, "M = 3.14, N = 3.", grims.Rows[1].Cells[0].String())
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, SaveFile(path, FormatFromPath(path), sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got.StatTests, 2)
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, Format("pdf"), sampleReport())
	require.Error(t, err)
}
