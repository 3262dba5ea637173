package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prism/internal/model"
)

func TestSentences(t *testing.T) {
	t.Parallel()

	got := Sentences("First one. Second? Third!  Fourth has 2.5 inside.\nFifth")
	assert.Equal(t, []string{
		"First one.",
		"Second?",
		"Third!",
		"Fourth has 2.5 inside.",
		"Fifth",
	}, got)
}

func TestSentences_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Sentences(""))
	assert.Equal(t, []string{"no terminal punctuation"}, Sentences("no terminal punctuation"))
}

func TestFindMeanNPairs_SameSentence(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("Participants were young (M = 23.5, N = 40). Nothing else here.")
	require.Len(t, pairs, 1)
	assert.InDelta(t, 23.5, pairs[0].Mean, 1e-9)
	assert.Equal(t, "23.5", pairs[0].MeanText)
	assert.Equal(t, 40, pairs[0].N)
	assert.Equal(t, "Participants were young (M = 23.5, N = 40).", pairs[0].Sentence)
}

func TestFindMeanNPairs_SplitAcrossSentences(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("The average score was M = 23.5 overall. The sample had N = 40 students.")
	assert.Empty(t, pairs)
}

func TestFindMeanNPairs_OnlyOnePattern(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FindMeanNPairs("Scores were high (M = 23.5)."))
	assert.Empty(t, FindMeanNPairs("We recruited N = 40 adults."))
}

func TestFindMeanNPairs_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		mean     float64
		meanText string
		n        int
	}{
		{name: "mean word and colon", text: "Mean: 4.20 with n: 12.", mean: 4.2, meanText: "4.20", n: 12},
		{name: "lowercase no separator", text: "m 3.00 and n 3.", mean: 3, meanText: "3.00", n: 3},
		{name: "negative mean", text: "Change scores (M = -1.25, N = 16).", mean: -1.25, meanText: "-1.25", n: 16},
		{name: "explicit plus", text: "Gain (M = +0.5, N = 8).", mean: 0.5, meanText: "0.5", n: 8},
		{name: "integer mean", text: "M = 7, N = 30.", mean: 7, meanText: "7", n: 30},
		{name: "no spaces", text: "M=2.75,N=20.", mean: 2.75, meanText: "2.75", n: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := FindMeanNPairs(tt.text)
			require.Len(t, pairs, 1)
			assert.InDelta(t, tt.mean, pairs[0].Mean, 1e-9)
			assert.Equal(t, tt.meanText, pairs[0].MeanText)
			assert.Equal(t, tt.n, pairs[0].N)
		})
	}
}

func TestFindMeanNPairs_FirstMatchWins(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("Group A (M = 1.5, N = 10) and group B (M = 2.5, N = 12) differed.")
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.5, pairs[0].Mean, 1e-9)
	assert.Equal(t, 10, pairs[0].N)
}

func TestFindMeanNPairs_OverflowingNSkipped(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("M = 2.5, N = 99999999999999999999999. M = 3.5, N = 4.")
	require.Len(t, pairs, 1)
	assert.Equal(t, 4, pairs[0].N)
}

func TestFindMeanNPairs_WrappedLines(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("Reaction times\n(M = 512.3,\nN = 24) were slow.")
	require.Len(t, pairs, 1)
	assert.Equal(t, "Reaction times (M = 512.3, N = 24) were slow.", pairs[0].Sentence)
}

func TestFindMeanNPairs_NoText(t *testing.T) {
	t.Parallel()

	pairs := FindMeanNPairs("")
	assert.NotNil(t, pairs)
	assert.Empty(t, pairs)
}

func TestRegexFinder_ImplementsPairFinder(t *testing.T) {
	t.Parallel()

	var f PairFinder = NewRegexFinder()
	assert.Equal(t, []model.MeanNPair{{Sentence: "M = 1.0, N = 2.", Mean: 1, MeanText: "1.0", N: 2}},
		f.FindMeanNPairs("M = 1.0, N = 2."))
}
