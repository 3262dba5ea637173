package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/report"
	"github.com/sells-group/prism/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect saved reports",
	Long:  "Commands for listing and rendering reports saved by check --save, batch --save, or the upload server.",
}

// -- reports list --

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filename, _ := cmd.Flags().GetString("filename")
		limit, _ := cmd.Flags().GetInt("limit")

		reports, err := st.ListReports(ctx, store.ReportFilter{Filename: filename, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "reports list")
		}

		if len(reports) == 0 {
			fmt.Fprintln(os.Stderr, "No reports found.")
			return nil
		}

		summaries := make([]model.ReportSummary, 0, len(reports))
		for i := range reports {
			summaries = append(summaries, reports[i].Summarize())
		}
		return printSummaries(os.Stdout, summaries)
	},
}

func printSummaries(w io.Writer, summaries []model.ReportSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tTESTS\tERRORS\tDECISION\tGRIM\tGRIM FAIL\tREVIEW\tCREATED")
	for _, s := range summaries {
		review := "-"
		if s.HasReview {
			review = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			s.ID, s.Filename, s.StatTests, s.Errors, s.DecisionErrors,
			s.GrimChecks, s.GrimFailures, review, s.CreatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

// -- reports show --

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render one saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rep, err := st.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "reports show %s", args[0])
		}
		return report.Write(os.Stdout, format, rep)
	},
}

func init() {
	reportsListCmd.Flags().String("filename", "", "filter by filename")
	reportsListCmd.Flags().Int("limit", 20, "max reports to list")

	reportsShowCmd.Flags().String("format", "markdown", "output format: json, yaml, markdown")

	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}
