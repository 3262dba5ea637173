package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/pdftext"
	"github.com/sells-group/prism/internal/review"
	anthropicpkg "github.com/sells-group/prism/pkg/anthropic"
)

var reviewPaper string

var reviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Generate and store a written review of a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("review"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rep, err := st.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "review %s", args[0])
		}

		in := review.Input{Filename: rep.Filename, Result: rep.Result}
		if reviewPaper != "" {
			ext, err := pdftext.NewExtractor(cfg.Extract)
			if err != nil {
				return err
			}
			doc, err := ext.Extract(ctx, reviewPaper)
			if err != nil {
				return err
			}
			in.PaperText = doc.Text()
		}

		gen := review.NewGenerator(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		text, err := gen.Review(ctx, in)
		if err != nil {
			return err
		}

		if err := st.SaveReview(ctx, rep.ID, text); err != nil {
			return eris.Wrap(err, "save review")
		}
		zap.L().Info("review saved", zap.String("id", rep.ID))

		fmt.Fprintln(os.Stdout, text)
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewPaper, "paper", "", "include the text of this PDF in the review prompt")
	rootCmd.AddCommand(reviewCmd)
}
