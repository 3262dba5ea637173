package statcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prism/internal/model"
)

func TestRegexScanner_Families(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		family model.StatisticFamily
		value  float64
	}{
		{text: "t(28) = 2.05, p = .05", family: model.FamilyT, value: 2.05},
		{text: "t (28)=2.05,p=.05", family: model.FamilyT, value: 2.05},
		{text: "F(1, 40) = 2.10, p = .16", family: model.FamilyF, value: 2.10},
		{text: "r(48) = -.30, p = .03", family: model.FamilyR, value: -0.30},
		{text: "chi2(1) = 3.84, p = .05", family: model.FamilyChi2, value: 3.84},
		{text: "χ2(1) = 3.84, p = .05", family: model.FamilyChi2, value: 3.84},
		{text: "chi-square(1) = 3.84, p = .05", family: model.FamilyChi2, value: 3.84},
		{text: "X2(3, N = 210) = 9.1, p = .03", family: model.FamilyChi2, value: 9.1},
		{text: "z = 2.33, p = .02", family: model.FamilyZ, value: 2.33},
		{text: "Q(12) = 30.5, p = .002", family: model.FamilyQ, value: 30.5},
	}

	s := NewRegexScanner()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := s.Scan(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, tt.family, got[0].Family)
			assert.InDelta(t, tt.value, got[0].Value, 1e-12)
		})
	}
}

func TestRegexScanner_Comparisons(t *testing.T) {
	t.Parallel()

	s := NewRegexScanner()

	tests := []struct {
		text string
		op   string
		p    *float64
	}{
		{text: "t(9) = 3.1, p = .013", op: "=", p: model.Float(0.013)},
		{text: "t(9) = 3.1, p < .05", op: "<", p: model.Float(0.05)},
		{text: "t(9) = 3.1, p ≤ .05", op: "<", p: model.Float(0.05)},
		{text: "t(9) = 0.4, p > .10", op: ">", p: model.Float(0.10)},
		{text: "t(9) = 0.4, p >= .10", op: ">", p: model.Float(0.10)},
		{text: "t(9) = 5.9, p = 2.5e-4", op: "=", p: model.Float(0.00025)},
		{text: "t(9) = 0.4, ns", op: "ns"},
		{text: "t(9) = 0.4, n.s.", op: "ns"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := s.Scan(tt.text)
			require.Len(t, got, 1)
			assert.Equal(t, tt.op, got[0].PComparison)
			if tt.p == nil {
				assert.Nil(t, got[0].ReportedP)
				return
			}
			require.NotNil(t, got[0].ReportedP)
			assert.InDelta(t, *tt.p, *got[0].ReportedP, 1e-12)
		})
	}
}

func TestRegexScanner_DocumentOrder(t *testing.T) {
	t.Parallel()

	text := "First F(2, 57) = 4.31, p < .05, then t(28) = 2.05, p = .05, and finally chi2(1) = 3.84, p = .05."
	got := NewRegexScanner().Scan(text)
	require.Len(t, got, 3)
	assert.Equal(t, model.FamilyF, got[0].Family)
	assert.Equal(t, model.FamilyT, got[1].Family)
	assert.Equal(t, model.FamilyChi2, got[2].Family)
	assert.Less(t, got[0].Offset, got[1].Offset)
	assert.Less(t, got[1].Offset, got[2].Offset)
}

func TestRegexScanner_Ignores(t *testing.T) {
	t.Parallel()

	s := NewRegexScanner()
	for _, text := range []string{
		"The t-test was run on 28 participants.",
		"t(28) = 2.05",
		"size = 3, p = .05",
		"M = 3.2, SD = 1.1",
	} {
		assert.Empty(t, s.Scan(text), text)
	}
}

func TestRegexScanner_WrappedWhitespace(t *testing.T) {
	t.Parallel()

	got := NewRegexScanner().Scan("t(28)\n= 2.05,\np = .05")
	require.Len(t, got, 1)
	assert.Equal(t, "t(28) = 2.05, p = .05", got[0].Raw)
}

func TestDecimals(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"2":      0,
		"2.05":   2,
		".050":   3,
		"-1.5":   1,
		"1e-4":   4,
		"2.5e-3": 4,
		"1.5e2":  0,
	}
	for in, want := range tests {
		assert.Equal(t, want, decimals(in), in)
	}
}
