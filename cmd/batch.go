package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/pipeline"
	"github.com/sells-group/prism/internal/report"
	"github.com/sells-group/prism/internal/store"
)

var (
	batchOut    string
	batchFormat string
	batchSave   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Check every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("check"); err != nil {
			return err
		}
		format, err := report.ParseFormat(batchFormat)
		if err != nil {
			return err
		}

		paths, err := listPDFs(args[0])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			zap.L().Warn("no PDF files found", zap.String("dir", args[0]))
			return nil
		}

		checker, err := pipeline.NewCheckerFromConfig(cfg)
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		sink := func(ctx context.Context, rep *model.Report) error {
			if st != nil {
				if err := st.SaveReport(ctx, rep); err != nil {
					return eris.Wrap(err, "save report")
				}
			}
			if batchOut == "" {
				return nil
			}
			name := strings.TrimSuffix(rep.Filename, filepath.Ext(rep.Filename)) + format.Ext()
			return report.SaveFile(filepath.Join(batchOut, name), format, rep)
		}

		reports, failed := processBatch(ctx, paths, cfg.Batch.MaxConcurrentDocuments, checker.Run, sink)

		if batchOut == "" {
			if err := writeCombined(os.Stdout, reports); err != nil {
				return err
			}
		}
		if failed > 0 {
			zap.L().Warn("some documents failed", zap.Int("failed", failed), zap.Int("total", len(paths)))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write one report per document into this directory (default: combined JSON on stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "per-document format with --out: json, yaml, markdown, xlsx")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each report to the configured store")
	rootCmd.AddCommand(batchCmd)
}

// listPDFs returns the *.pdf files directly inside dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

type runFunc func(ctx context.Context, pdfPath string) (*model.AnalysisResult, error)

type sinkFunc func(ctx context.Context, rep *model.Report) error

// processBatch analyzes paths with bounded concurrency. A failing document
// is logged and counted; it never cancels the others. Reports come back in
// path order, skipping failures.
func processBatch(ctx context.Context, paths []string, concurrency int, run runFunc, sink sinkFunc) ([]*model.Report, int) {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		succeeded atomic.Int64
		failed    atomic.Int64
	)
	start := time.Now()
	results := make([]*model.Report, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", filepath.Base(path)))

			result, err := run(gCtx, path)
			if err != nil {
				log.Error("document failed", zap.Error(err))
				failed.Add(1)
				return nil
			}
			sum, err := fileSHA256(path)
			if err != nil {
				log.Warn("could not hash document", zap.Error(err))
			}
			rep := &model.Report{Filename: filepath.Base(path), SHA256: sum, Result: result}

			if sink != nil {
				if err := sink(gCtx, rep); err != nil {
					log.Error("document output failed", zap.Error(err))
					failed.Add(1)
					return nil
				}
			}

			results[i] = rep
			succeeded.Add(1)
			log.Debug("document checked",
				zap.Int("stat_tests", len(result.StatTests)),
				zap.Int("grim_checks", len(result.GrimChecks)),
			)
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)

	reports := make([]*model.Report, 0, len(results))
	for _, rep := range results {
		if rep != nil {
			reports = append(reports, rep)
		}
	}
	return reports, int(failed.Load())
}

// writeCombined writes {"filename": AnalysisResult, ...} as indented JSON.
func writeCombined(w io.Writer, reports []*model.Report) error {
	combined := make(map[string]*model.AnalysisResult, len(reports))
	for _, rep := range reports {
		combined[rep.Filename] = rep.Result
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(combined), "encode combined report")
}
