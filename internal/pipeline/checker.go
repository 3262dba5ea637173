// Package pipeline runs the consistency checks over a single document.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/config"
	"github.com/sells-group/prism/internal/extract"
	"github.com/sells-group/prism/internal/grim"
	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/pdftext"
	"github.com/sells-group/prism/internal/statcheck"
)

// Checker chains extraction, p-value recomputation, mean/N discovery and
// GRIM into one AnalysisResult.
type Checker struct {
	extractor pdftext.Extractor
	finder    extract.PairFinder
	engine    *statcheck.Engine
}

// NewChecker creates a Checker from its collaborators. A nil finder or
// engine falls back to the regex defaults.
func NewChecker(extractor pdftext.Extractor, finder extract.PairFinder, engine *statcheck.Engine) *Checker {
	if finder == nil {
		finder = extract.NewRegexFinder()
	}
	if engine == nil {
		engine = statcheck.NewEngine(statcheck.DefaultOptions(), nil)
	}
	return &Checker{extractor: extractor, finder: finder, engine: engine}
}

// NewCheckerFromConfig wires a Checker from application config.
func NewCheckerFromConfig(cfg *config.Config) (*Checker, error) {
	ext, err := pdftext.NewExtractor(cfg.Extract)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build extractor")
	}
	engine := statcheck.NewEngine(statcheck.Options{
		Alpha:              cfg.Check.Alpha,
		PEqualAlphaSig:     cfg.Check.PEqualAlphaSig,
		OneTailedDetection: cfg.Check.OneTailedDetection,
	}, nil)
	return NewChecker(ext, extract.NewRegexFinder(), engine), nil
}

// Run analyzes the PDF at pdfPath. Only an extraction failure is returned
// as an error; every other problem is recorded in the result.
func (c *Checker) Run(ctx context.Context, pdfPath string) (*model.AnalysisResult, error) {
	log := zap.L().With(zap.String("document", pdfPath))
	start := time.Now()

	doc, err := c.extractor.Extract(ctx, pdfPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: extract")
	}
	log.Debug("pipeline: text extracted",
		zap.Int("pages", len(doc.Pages)),
		zap.Int("empty_pages", doc.EmptyPages()),
	)

	result := c.Analyze(doc, filepath.Base(pdfPath))

	log.Info("pipeline: document checked",
		zap.Int("stat_tests", len(result.StatTests)),
		zap.Int("stat_errors", result.ErrorCount()),
		zap.Int("decision_errors", result.DecisionErrorCount()),
		zap.Int("grim_checks", len(result.GrimChecks)),
		zap.Int("grim_failures", result.GrimFailures()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// Analyze runs the checks over already-extracted text.
func (c *Checker) Analyze(doc model.DocumentText, source string) *model.AnalysisResult {
	result := model.NewAnalysisResult()
	text := doc.Text()

	result.StatTests = c.engine.Recompute(text, source)

	for _, pair := range c.finder.FindMeanNPairs(text) {
		verdict := grim.Check(pair.MeanText, pair.N)
		if verdict == grim.Indeterminate {
			zap.L().Debug("pipeline: grim indeterminate",
				zap.String("mean", pair.MeanText),
				zap.Int("n", pair.N),
			)
		}
		result.GrimChecks = append(result.GrimChecks, model.GrimCheckRecord{
			Sentence: pair.Sentence,
			Mean:     pair.Mean,
			N:        pair.N,
			GrimOK:   verdict.OK(),
		})
	}
	return result
}
