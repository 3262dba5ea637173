// Package grim implements the granularity-related inconsistency of means
// test: a mean of n integer-valued observations must equal some integer sum
// divided by n, after rounding to the reported number of decimals.
package grim

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/sells-group/prism/internal/model"
)

// Verdict is the outcome of a GRIM check.
type Verdict int

const (
	// Indeterminate means the check could not be evaluated.
	Indeterminate Verdict = iota
	// Consistent means some integer sum reproduces the reported mean.
	Consistent
	// Inconsistent means no integer sum reproduces the reported mean.
	Inconsistent
)

func (v Verdict) String() string {
	switch v {
	case Consistent:
		return "consistent"
	case Inconsistent:
		return "inconsistent"
	default:
		return "indeterminate"
	}
}

// OK maps the verdict to the serialized grim_ok field: true, false, or nil
// for Indeterminate.
func (v Verdict) OK() *bool {
	switch v {
	case Consistent:
		return model.Bool(true)
	case Inconsistent:
		return model.Bool(false)
	default:
		return nil
	}
}

var meanText = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?$`)

// Check tests a mean given as reported text (e.g. "3.14") against sample
// size n. The number of digits after the decimal point sets the precision.
// Negative means, n <= 0 and text that is not a plain decimal number are
// Indeterminate.
func Check(mean string, n int) Verdict {
	if n <= 0 {
		return Indeterminate
	}
	m := meanText.FindStringSubmatch(strings.TrimSpace(mean))
	if m == nil {
		return Indeterminate
	}
	decimals := len(m[2])

	// Work in integers scaled by 10^d so rounding is exact.
	scaled, ok := new(big.Int).SetString(m[1]+m[2], 10)
	if !ok {
		return Indeterminate
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	size := big.NewInt(int64(n))

	// With n above 10^d every value at this precision is reachable.
	if size.Cmp(scale) > 0 {
		return Consistent
	}

	// Candidate sums bracket mean*n: floor and ceiling.
	low := new(big.Int).Quo(new(big.Int).Mul(scaled, size), scale)
	high := new(big.Int).Add(low, big.NewInt(1))

	for _, sum := range []*big.Int{low, high} {
		if roundedMean(sum, size, scale).Cmp(scaled) == 0 {
			return Consistent
		}
	}
	return Inconsistent
}

// roundedMean returns round_half_up(sum/n * scale) for non-negative sum.
func roundedMean(sum, n, scale *big.Int) *big.Int {
	// floor((2*sum*scale + n) / (2n))
	num := new(big.Int).Mul(sum, scale)
	num.Mul(num, big.NewInt(2))
	num.Add(num, n)
	den := new(big.Int).Mul(n, big.NewInt(2))
	return num.Quo(num, den)
}
