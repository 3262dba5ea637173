package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/pipeline"
	"github.com/sells-group/prism/internal/report"
)

var (
	checkFormat string
	checkOut    string
	checkSave   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file.pdf>",
	Short: "Check one PDF for statistical reporting errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("check"); err != nil {
			return err
		}

		format, err := outputFormat(checkFormat, checkOut)
		if err != nil {
			return err
		}

		checker, err := pipeline.NewCheckerFromConfig(cfg)
		if err != nil {
			return err
		}

		rep, err := analyzeFile(ctx, checker, args[0])
		if err != nil {
			return err
		}

		if checkSave {
			if err := saveReport(ctx, rep); err != nil {
				return err
			}
		}

		if checkOut != "" {
			if err := report.SaveFile(checkOut, format, rep); err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("path", checkOut), zap.String("format", string(format)))
			return nil
		}
		return report.Write(os.Stdout, format, rep)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "output format: json, yaml, markdown, xlsx (default from --out extension, else json)")
	checkCmd.Flags().StringVar(&checkOut, "out", "", "write the report to this path instead of stdout")
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "persist the report to the configured store")
	rootCmd.AddCommand(checkCmd)
}

// outputFormat picks the explicit format, else the one implied by path.
func outputFormat(flag, path string) (report.Format, error) {
	if flag != "" {
		return report.ParseFormat(flag)
	}
	if path != "" {
		return report.FormatFromPath(path), nil
	}
	return report.FormatJSON, nil
}

// analyzeFile runs checker over path and wraps the result in a Report.
func analyzeFile(ctx context.Context, checker *pipeline.Checker, path string) (*model.Report, error) {
	result, err := checker.Run(ctx, path)
	if err != nil {
		return nil, err
	}
	sum, err := fileSHA256(path)
	if err != nil {
		return nil, err
	}
	return &model.Report{
		Filename: filepath.Base(path),
		SHA256:   sum,
		Result:   result,
	}, nil
}

func saveReport(ctx context.Context, rep *model.Report) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.SaveReport(ctx, rep); err != nil {
		return eris.Wrap(err, "save report")
	}
	zap.L().Info("report saved", zap.String("id", rep.ID), zap.String("filename", rep.Filename))
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", eris.Wrapf(err, "hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
