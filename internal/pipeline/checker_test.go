package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prism/internal/config"
	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/pdftext"
	"github.com/sells-group/prism/internal/pdftext/pdftexttest"
)

type stubExtractor struct {
	doc   model.DocumentText
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (model.DocumentText, error) {
	s.calls++
	return s.doc, s.err
}

const samplePage = "Participants (M = 23.5, N = 40) completed the task. " +
	"The effect was reliable, t(28) = 2.05, p = .05. " +
	"A second contrast was not, t(28) = 2.05, p = .20. " +
	"Scores averaged M = 3.14 with N = 3 raters."

func TestChecker_Run(t *testing.T) {
	ext := &stubExtractor{doc: model.DocumentText{Pages: []string{samplePage}}}
	c := NewChecker(ext, nil, nil)

	result, err := c.Run(context.Background(), "/tmp/papers/sample.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, ext.calls)

	require.Len(t, result.StatTests, 2)
	assert.Equal(t, model.ClassMatch, result.StatTests[0].DecisionError)
	assert.Equal(t, model.ClassDecisionError, result.StatTests[1].DecisionError)
	assert.Equal(t, "sample.pdf", result.StatTests[0].Source)

	require.Len(t, result.GrimChecks, 2)
	assert.Equal(t, 23.5, result.GrimChecks[0].Mean)
	assert.Equal(t, 40, result.GrimChecks[0].N)
	require.NotNil(t, result.GrimChecks[0].GrimOK)
	assert.True(t, *result.GrimChecks[0].GrimOK)
	require.NotNil(t, result.GrimChecks[1].GrimOK)
	assert.False(t, *result.GrimChecks[1].GrimOK)

	assert.Equal(t, 1, result.DecisionErrorCount())
	assert.Equal(t, 1, result.GrimFailures())
}

func TestChecker_ZeroPages(t *testing.T) {
	c := NewChecker(&stubExtractor{doc: model.DocumentText{Pages: []string{}}}, nil, nil)

	result, err := c.Run(context.Background(), "empty.pdf")
	require.NoError(t, err)
	assert.NotNil(t, result.StatTests)
	assert.NotNil(t, result.GrimChecks)
	assert.Empty(t, result.StatTests)
	assert.Empty(t, result.GrimChecks)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stat_tests":[],"grim_checks":[]}`, string(data))
}

func TestChecker_ExtractionFailure(t *testing.T) {
	cause := eris.Wrap(pdftext.ErrDocumentUnreadable, "missing.pdf")
	c := NewChecker(&stubExtractor{err: cause}, nil, nil)

	result, err := c.Run(context.Background(), "missing.pdf")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, pdftext.ErrDocumentUnreadable))
}

func TestChecker_Idempotent(t *testing.T) {
	c := NewChecker(&stubExtractor{doc: model.DocumentText{Pages: []string{samplePage, "", samplePage}}}, nil, nil)

	first, err := c.Run(context.Background(), "same.pdf")
	require.NoError(t, err)
	second, err := c.Run(context.Background(), "same.pdf")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChecker_UnparseableMeanIsIndeterminate(t *testing.T) {
	c := NewChecker(&stubExtractor{}, nil, nil)

	result := c.Analyze(model.DocumentText{Pages: []string{"The loss was M = -2.50 for N = 12 runs."}}, "x")
	require.Len(t, result.GrimChecks, 1)
	assert.Nil(t, result.GrimChecks[0].GrimOK)
}

func TestChecker_NativePDF(t *testing.T) {
	path := pdftexttest.WriteFile(t, "paper.pdf",
		"Results: t(28) = 2.05, p = .20.",
		"Sample: M = 3.33, N = 3.",
	)

	c := NewChecker(pdftext.NewNative(), nil, nil)
	result, err := c.Run(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, result.StatTests, 1)
	assert.Equal(t, model.ClassDecisionError, result.StatTests[0].DecisionError)
	assert.Equal(t, filepath.Base(path), result.StatTests[0].Source)

	require.Len(t, result.GrimChecks, 1)
	require.NotNil(t, result.GrimChecks[0].GrimOK)
	assert.True(t, *result.GrimChecks[0].GrimOK)
}

func TestNewCheckerFromConfig(t *testing.T) {
	cfg := &config.Config{
		Extract: config.ExtractConfig{Provider: "native"},
		Check:   config.CheckConfig{Alpha: 0.05, PEqualAlphaSig: true, OneTailedDetection: true},
	}
	c, err := NewCheckerFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c)

	cfg.Extract.Provider = "ocr"
	_, err = NewCheckerFromConfig(cfg)
	require.Error(t, err)
}
