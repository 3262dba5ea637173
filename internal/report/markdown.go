package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prism/internal/model"
)

func writeMarkdown(w io.Writer, r *model.Report, result *model.AnalysisResult) error {
	md := markdown.NewMarkdown(w)

	title := "Consistency Report"
	if r.Filename != "" {
		title += ": " + r.Filename
	}
	md.H1(title)
	md.PlainText("")

	writeSummary(md, r, result)
	writeStatTests(md, result)
	writeGrimChecks(md, result)

	if r.Review != "" {
		md.H2("Review")
		md.PlainText("")
		md.PlainText(r.Review)
		md.PlainText("")
	}

	return eris.Wrap(md.Build(), "report: build markdown")
}

func writeSummary(md *markdown.Markdown, r *model.Report, result *model.AnalysisResult) {
	md.H2("Summary")
	md.PlainText("")

	rows := [][]string{
		{"Statistical tests", strconv.Itoa(len(result.StatTests))},
		{"Inconsistencies", strconv.Itoa(result.ErrorCount())},
		{"Decision errors", strconv.Itoa(result.DecisionErrorCount())},
		{"GRIM checks", strconv.Itoa(len(result.GrimChecks))},
		{"GRIM failures", strconv.Itoa(result.GrimFailures())},
	}
	if r.SHA256 != "" {
		rows = append(rows, []string{"SHA-256", "`" + r.SHA256 + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case result.DecisionErrorCount() > 0:
		md.Warningf("%d reported p-value(s) change the significance conclusion when recomputed.",
			result.DecisionErrorCount())
	case result.ErrorCount() > 0 || result.GrimFailures() > 0:
		md.Note("Some reported values do not match their recomputation.")
	default:
		md.Tip("No inconsistencies detected.")
	}
	md.PlainText("")
}

func writeStatTests(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("Statistical Tests")
	md.PlainText("")

	if len(result.StatTests) == 0 {
		md.PlainText("No test statistics were found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.StatTests))
	for _, t := range result.StatTests {
		rows = append(rows, []string{
			"`" + t.Raw + "`",
			string(t.Family),
			formatReported(t),
			formatP(t.ComputedP),
			string(t.DecisionError),
			boolMark(t.OneTailed),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Citation", "Family", "Reported p", "Computed p", "Result", "One-tailed"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeGrimChecks(md *markdown.Markdown, result *model.AnalysisResult) {
	md.H2("GRIM Checks")
	md.PlainText("")

	if len(result.GrimChecks) == 0 {
		md.PlainText("No mean and sample size pairs were found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.GrimChecks))
	for _, g := range result.GrimChecks {
		rows = append(rows, []string{
			strconv.FormatFloat(g.Mean, 'f', -1, 64),
			strconv.Itoa(g.N),
			grimLabel(g.GrimOK),
			g.Sentence,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Mean", "N", "GRIM", "Sentence"},
		Rows:   rows,
	})
	md.PlainText("")
}

func formatReported(t model.StatTestRecord) string {
	if t.ReportedP == nil {
		return t.PComparison
	}
	return fmt.Sprintf("%s %s", t.PComparison, strconv.FormatFloat(*t.ReportedP, 'g', -1, 64))
}

func formatP(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 4, 64)
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func grimLabel(ok *bool) string {
	switch {
	case ok == nil:
		return "indeterminate"
	case *ok:
		return "consistent"
	default:
		return "inconsistent"
	}
}
