// Package statcheck recomputes p-values for test statistics reported in
// document text and flags the ones that disagree with what was reported.
package statcheck

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/model"
)

// Options tunes how reported p-values are judged.
type Options struct {
	// Alpha is the significance threshold.
	Alpha float64
	// PEqualAlphaSig treats p == alpha as significant.
	PEqualAlphaSig bool
	// OneTailedDetection accepts a halved p when the text mentions
	// one-tailed testing and the halved value is consistent.
	OneTailedDetection bool
}

// DefaultOptions mirrors the conventional statcheck settings.
func DefaultOptions() Options {
	return Options{Alpha: 0.05, PEqualAlphaSig: true, OneTailedDetection: true}
}

var oneTailedPattern = regexp.MustCompile(`(?i)\bone[-\s]?(?:tailed|sided)\b|\bdirectional\b`)

// Engine scans text for test statistics and checks each one.
type Engine struct {
	scanner CitationScanner
	opts    Options
}

// NewEngine creates an Engine. A nil scanner uses RegexScanner; a
// non-positive alpha falls back to the default.
func NewEngine(opts Options, scanner CitationScanner) *Engine {
	if scanner == nil {
		scanner = NewRegexScanner()
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = DefaultOptions().Alpha
	}
	return &Engine{scanner: scanner, opts: opts}
}

// Recompute returns one record per reported statistic in document order.
// The result is never nil.
func (e *Engine) Recompute(text, source string) []model.StatTestRecord {
	citations := e.scanner.Scan(text)
	records := make([]model.StatTestRecord, 0, len(citations))
	if len(citations) == 0 {
		return records
	}

	oneTailed := e.opts.OneTailedDetection && oneTailedPattern.MatchString(text)
	for _, c := range citations {
		records = append(records, e.check(c, source, oneTailed))
	}
	return records
}

func (e *Engine) check(c Citation, source string, oneTailedText bool) model.StatTestRecord {
	rec := model.StatTestRecord{
		Family:      c.Family,
		DF1:         c.DF1,
		DF2:         c.DF2,
		Value:       c.Value,
		ReportedP:   c.ReportedP,
		PComparison: c.PComparison,
		Source:      source,
		Raw:         c.Raw,
	}

	df1, df2 := dfs(c)
	p, err := PValue(c.Family, c.Value, df1, df2)
	if err != nil {
		zap.L().Debug("statcheck: uncomputable statistic",
			zap.String("raw", c.Raw),
			zap.Error(err),
		)
		rec.DecisionError = model.ClassUncomputable
		return rec
	}

	lo, hi := pRange(c, df1, df2)
	class := e.classify(c, p, lo, hi)

	if class.IsError() && oneTailedText && twoTailed(c.Family) {
		if e.classify(c, p/2, lo/2, hi/2) == model.ClassMatch {
			class = model.ClassMatch
			p /= 2
			rec.OneTailed = true
		}
	}

	rec.ComputedP = model.Float(p)
	rec.DecisionError = class
	rec.Error = class.IsError()
	return rec
}

// dfs maps a citation's degrees of freedom onto PValue's arguments.
// Single-df families may carry theirs in either slot.
func dfs(c Citation) (df1, df2 float64) {
	switch {
	case c.DF1 != nil && c.DF2 != nil:
		return *c.DF1, *c.DF2
	case c.DF1 != nil:
		return *c.DF1, 0
	case c.DF2 != nil:
		return *c.DF2, 0
	}
	return 0, 0
}
