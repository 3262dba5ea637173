// Package review asks a language model to read the consistency findings
// for a paper and write a reviewer's assessment.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prism/internal/config"
	"github.com/sells-group/prism/internal/model"
	"github.com/sells-group/prism/internal/resilience"
	"github.com/sells-group/prism/pkg/anthropic"
)

// maxPaperChars bounds how much extracted paper text goes into a prompt.
const maxPaperChars = 120_000

const systemPrompt = `Assume the role of a deeply knowledgeable peer reviewer with a strong command of statistics and research methods. You are given the output of an automated consistency check of a published paper and, when available, the paper's text.

The automated check recomputed the p-value of every reported test statistic from its degrees of freedom and flagged disagreements ("inconsistency" when the significance conclusion is unchanged, "decision_error" when it flips). It also ran the GRIM test on reported means and sample sizes; grim_ok false means the mean cannot arise from integer data with that N.

Published papers rarely contain obvious mistakes, so look carefully, but do not invent problems. Explain which flagged items are most likely genuine reporting errors, which could be explained by one-tailed testing, rounding or extraction noise, and whether any of them undermine the paper's conclusions. Ignore formatting and other minor issues.

Answer in this format:

Summary:

Major Errors (if any):

Likely False Positives:`

// Input is what a review is written from.
type Input struct {
	Filename  string
	Result    *model.AnalysisResult
	PaperText string
}

// Generator writes reviews with an Anthropic model.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// NewGenerator creates a Generator. A non-positive requestsPerMinute
// disables rate limiting.
func NewGenerator(client anthropic.Client, cfg config.AnthropicConfig) *Generator {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1)
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("review")

	return &Generator{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		limiter:   limiter,
		retry:     retry,
	}
}

// Review returns the model's assessment of in.
func (g *Generator) Review(ctx context.Context, in Input) (string, error) {
	if in.Result == nil {
		return "", eris.New("review: nil analysis result")
	}

	prompt, err := buildPrompt(in)
	if err != nil {
		return "", err
	}

	req := anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    anthropic.CachedSystemBlocks(systemPrompt, ""),
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	}

	resp, err := resilience.Do(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "review: rate limit wait")
		}
		return g.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return "", eris.Wrapf(err, "review: generate for %s", in.Filename)
	}

	resp.Usage.LogCost(g.model, "review")
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.Errorf("review: empty response for %s", in.Filename)
	}
	zap.L().Debug("review: generated",
		zap.String("filename", in.Filename),
		zap.Int("chars", len(text)),
		zap.String("stop_reason", resp.StopReason),
	)
	return text, nil
}

func buildPrompt(in Input) (string, error) {
	findings, err := json.MarshalIndent(in.Result, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "review: marshal findings")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Paper: %s\n\n", in.Filename)
	fmt.Fprintf(&b, "Automated findings: %d statistical tests (%d inconsistent, %d decision errors), %d GRIM checks (%d failed).\n\n",
		len(in.Result.StatTests), in.Result.ErrorCount(), in.Result.DecisionErrorCount(),
		len(in.Result.GrimChecks), in.Result.GrimFailures())
	b.WriteString("<findings>\n")
	b.Write(findings)
	b.WriteString("\n</findings>\n")

	if text := strings.TrimSpace(in.PaperText); text != "" {
		if len(text) > maxPaperChars {
			text = text[:maxPaperChars]
		}
		b.WriteString("\n<paper>\n")
		b.WriteString(text)
		b.WriteString("\n</paper>\n")
	}
	return b.String(), nil
}
