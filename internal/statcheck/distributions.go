package statcheck

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sells-group/prism/internal/model"
)

// ErrUncomputable is returned when a statistic or its degrees of freedom
// fall outside the domain of the reference distribution.
var ErrUncomputable = eris.New("statcheck: statistic outside distribution domain")

// PValue recomputes the p-value of a test statistic from its reference
// distribution: two-tailed for t, r and Z, upper tail for F, chi2 and Q.
// df2 is only read for F.
func PValue(family model.StatisticFamily, value, df1, df2 float64) (float64, error) {
	if !finite(value) {
		return 0, eris.Wrapf(ErrUncomputable, "%s value %v", family, value)
	}

	var p float64
	switch family {
	case model.FamilyT:
		if !positive(df1) {
			return 0, eris.Wrapf(ErrUncomputable, "t df %v", df1)
		}
		p = twoTailedT(value, df1)
	case model.FamilyR:
		if !positive(df1) {
			return 0, eris.Wrapf(ErrUncomputable, "r df %v", df1)
		}
		if math.Abs(value) > 1 {
			return 0, eris.Wrapf(ErrUncomputable, "r %v outside [-1, 1]", value)
		}
		if math.Abs(value) == 1 {
			return 0, nil
		}
		t := value * math.Sqrt(df1/(1-value*value))
		p = twoTailedT(t, df1)
	case model.FamilyF:
		if !positive(df1) || !positive(df2) {
			return 0, eris.Wrapf(ErrUncomputable, "F df (%v, %v)", df1, df2)
		}
		if value < 0 {
			return 0, eris.Wrapf(ErrUncomputable, "F %v negative", value)
		}
		p = distuv.F{D1: df1, D2: df2}.Survival(value)
	case model.FamilyChi2, model.FamilyQ:
		if !positive(df1) {
			return 0, eris.Wrapf(ErrUncomputable, "%s df %v", family, df1)
		}
		if value < 0 {
			return 0, eris.Wrapf(ErrUncomputable, "%s %v negative", family, value)
		}
		p = distuv.ChiSquared{K: df1}.Survival(value)
	case model.FamilyZ:
		p = 2 * distuv.UnitNormal.Survival(math.Abs(value))
	default:
		return 0, eris.Errorf("statcheck: unknown statistic family %q", family)
	}

	if !finite(p) {
		return 0, eris.Wrapf(ErrUncomputable, "%s p-value not finite", family)
	}
	return math.Min(math.Max(p, 0), 1), nil
}

func twoTailedT(t, df float64) float64 {
	return 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
}

// twoTailed reports whether the family's p-value is two-tailed, which is
// what makes a one-tailed reading possible.
func twoTailed(family model.StatisticFamily) bool {
	switch family {
	case model.FamilyT, model.FamilyR, model.FamilyZ:
		return true
	default:
		return false
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(df float64) bool {
	return finite(df) && df > 0
}
