package statcheck

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/sells-group/prism/internal/model"
)

const eps = 1e-9

type significance int

const (
	sigUnknown significance = iota
	sigYes
	sigNo
)

// pRange returns the smallest and largest p-values the statistic could
// produce given the precision it was reported with.
func pRange(c Citation, df1, df2 float64) (lo, hi float64) {
	half := 0.5 * math.Pow(10, -float64(decimals(c.ValueText)))

	v := c.Value
	upper, lower := v+half, math.Max(v-half, 0)
	if twoTailed(c.Family) {
		a := math.Abs(v)
		upper, lower = a+half, math.Max(a-half, 0)
		if c.Family == model.FamilyR {
			upper = math.Min(upper, 1)
		}
	}

	// p falls as the statistic grows.
	lo, errLo := PValue(c.Family, upper, df1, df2)
	hi, errHi := PValue(c.Family, lower, df1, df2)
	if errLo != nil || errHi != nil {
		p, _ := PValue(c.Family, v, df1, df2)
		return p, p
	}
	return lo, hi
}

// consistent reports whether a p-value range agrees with what the text
// reports about p.
func (e *Engine) consistent(c Citation, lo, hi float64) bool {
	switch c.PComparison {
	case "ns":
		return !e.significant(hi)
	case "<":
		return lo < *c.ReportedP
	case ">":
		return hi > *c.ReportedP
	default:
		places := decimals(c.PText)
		rLo, _ := stats.Round(lo, places)
		rHi, _ := stats.Round(hi, places)
		rep := *c.ReportedP
		return rep >= rLo-eps && rep <= rHi+eps
	}
}

func (e *Engine) significant(p float64) bool {
	if e.opts.PEqualAlphaSig && math.Abs(p-e.opts.Alpha) < eps {
		return true
	}
	return p < e.opts.Alpha
}

// reportedSignificance is what the text claims about significance, if
// anything can be read from it.
func (e *Engine) reportedSignificance(c Citation) significance {
	if c.PComparison == "ns" {
		return sigNo
	}
	rep := *c.ReportedP
	switch c.PComparison {
	case "<":
		if rep <= e.opts.Alpha+eps {
			return sigYes
		}
		return sigUnknown
	case ">":
		if rep >= e.opts.Alpha-eps {
			return sigNo
		}
		return sigUnknown
	default:
		if e.significant(rep) {
			return sigYes
		}
		return sigNo
	}
}

// classify labels a citation given its computed p and the p range
// implied by the statistic's rounding.
func (e *Engine) classify(c Citation, p, lo, hi float64) model.Classification {
	if e.consistent(c, lo, hi) {
		return model.ClassMatch
	}

	computed := sigNo
	if e.significant(p) {
		computed = sigYes
	}
	reported := e.reportedSignificance(c)
	if reported != sigUnknown && reported != computed {
		return model.ClassDecisionError
	}
	return model.ClassInconsistency
}
