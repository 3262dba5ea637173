package statcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prism/internal/model"
)

func TestPValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		family model.StatisticFamily
		value  float64
		df1    float64
		df2    float64
		want   float64
	}{
		{name: "t", family: model.FamilyT, value: 2.05, df1: 28, want: 0.049834},
		{name: "t symmetric", family: model.FamilyT, value: -2.05, df1: 28, want: 0.049834},
		{name: "F", family: model.FamilyF, value: 4.31, df1: 2, df2: 57, want: 0.018068},
		{name: "chi2", family: model.FamilyChi2, value: 3.84, df1: 1, want: 0.050044},
		{name: "chi2 two df", family: model.FamilyChi2, value: 10.5, df1: 2, want: 0.005248},
		{name: "r", family: model.FamilyR, value: 0.30, df1: 48, want: 0.034286},
		{name: "r negative", family: model.FamilyR, value: -0.25, df1: 98, want: 0.012123},
		{name: "r perfect", family: model.FamilyR, value: 1, df1: 10, want: 0},
		{name: "z", family: model.FamilyZ, value: 1.96, want: 0.049996},
		{name: "Q", family: model.FamilyQ, value: 12.1, df1: 4, want: 0.016623},
		{name: "zero statistic", family: model.FamilyT, value: 0, df1: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := PValue(tt.family, tt.value, tt.df1, tt.df2)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p, 1e-5)
		})
	}
}

func TestPValue_Uncomputable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		family model.StatisticFamily
		value  float64
		df1    float64
		df2    float64
	}{
		{name: "t zero df", family: model.FamilyT, value: 2, df1: 0},
		{name: "F missing df2", family: model.FamilyF, value: 2, df1: 1},
		{name: "F negative", family: model.FamilyF, value: -1, df1: 1, df2: 10},
		{name: "chi2 negative", family: model.FamilyChi2, value: -3, df1: 1},
		{name: "r beyond one", family: model.FamilyR, value: 1.2, df1: 30},
		{name: "Q zero df", family: model.FamilyQ, value: 3, df1: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := PValue(tt.family, tt.value, tt.df1, tt.df2)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUncomputable)
		})
	}
}

func TestPValue_UnknownFamily(t *testing.T) {
	t.Parallel()

	_, err := PValue("W", 1, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown statistic family")
}
