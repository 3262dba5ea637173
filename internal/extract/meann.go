package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/prism/internal/model"
)

// PairFinder finds mean/sample-size pairs in document text.
type PairFinder interface {
	FindMeanNPairs(text string) []model.MeanNPair
}

var (
	meanPattern = regexp.MustCompile(`(?i)\bM(?:ean)?\s*[=:]?\s*([-+]?[0-9]+(?:\.[0-9]+)?)`)
	nPattern    = regexp.MustCompile(`(?i)\bN\s*[=:]?\s*([0-9]+)\b`)
)

// RegexFinder pairs the first mean and the first N reported in the same
// sentence.
type RegexFinder struct{}

// NewRegexFinder creates a RegexFinder.
func NewRegexFinder() *RegexFinder {
	return &RegexFinder{}
}

// FindMeanNPairs returns one pair per sentence that reports both a mean and
// an N. Sentences whose captured numbers do not parse are skipped.
func (f *RegexFinder) FindMeanNPairs(text string) []model.MeanNPair {
	pairs := []model.MeanNPair{}
	for _, s := range Sentences(text) {
		m := meanPattern.FindStringSubmatch(s)
		n := nPattern.FindStringSubmatch(s)
		if m == nil || n == nil {
			continue
		}

		meanText := strings.TrimPrefix(m[1], "+")
		mean, err := strconv.ParseFloat(meanText, 64)
		if err != nil {
			continue
		}
		size, err := strconv.Atoi(n[1])
		if err != nil {
			continue
		}

		pairs = append(pairs, model.MeanNPair{
			Sentence: cleanSentence(s),
			Mean:     mean,
			MeanText: meanText,
			N:        size,
		})
	}
	return pairs
}

// FindMeanNPairs runs the default RegexFinder over text.
func FindMeanNPairs(text string) []model.MeanNPair {
	return NewRegexFinder().FindMeanNPairs(text)
}
