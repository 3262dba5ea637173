package model

// StatisticFamily names the reference distribution of a reported test statistic.
type StatisticFamily string

const (
	FamilyT    StatisticFamily = "t"
	FamilyF    StatisticFamily = "F"
	FamilyChi2 StatisticFamily = "chi2"
	FamilyR    StatisticFamily = "r"
	FamilyZ    StatisticFamily = "Z"
	FamilyQ    StatisticFamily = "Q"
)

// Classification is the outcome of comparing a reported p-value with the
// recomputed one. It is serialized as the record's decision_error field.
type Classification string

const (
	// ClassMatch means reported and recomputed p agree at the reported precision.
	ClassMatch Classification = "match"
	// ClassInconsistency means both p-values are in the same significance
	// class but differ beyond rounding.
	ClassInconsistency Classification = "inconsistency"
	// ClassDecisionError means the p-values fall on opposite sides of alpha.
	ClassDecisionError Classification = "decision_error"
	// ClassUncomputable means the statistic or its degrees of freedom are
	// outside the domain of the reference distribution.
	ClassUncomputable Classification = "uncomputable"
)

// IsError reports whether the classification counts as a reporting error.
func (c Classification) IsError() bool {
	return c == ClassInconsistency || c == ClassDecisionError
}

// StatTestRecord is one inferential-statistic citation found in a document.
// ComputedP derives only from Family, DF1, DF2 and Value; ReportedP is
// compared against it, never used to produce it.
type StatTestRecord struct {
	Family        StatisticFamily `json:"statistic_family" yaml:"statistic_family"`
	DF1           *float64        `json:"df1" yaml:"df1"`
	DF2           *float64        `json:"df2" yaml:"df2"`
	Value         float64         `json:"value" yaml:"value"`
	ReportedP     *float64        `json:"reported_p" yaml:"reported_p"`
	PComparison   string          `json:"p_comparison" yaml:"p_comparison"`
	ComputedP     *float64        `json:"computed_p" yaml:"computed_p"`
	Error         bool            `json:"error" yaml:"error"`
	DecisionError Classification  `json:"decision_error" yaml:"decision_error"`
	OneTailed     bool            `json:"one_tailed" yaml:"one_tailed"`
	Source        string          `json:"source" yaml:"source"`
	Raw           string          `json:"raw" yaml:"raw"`
}

// GrimCheckRecord is the GRIM verdict for one MeanNPair. GrimOK is nil when
// the check could not be evaluated, which is distinct from false.
type GrimCheckRecord struct {
	Sentence string  `json:"sentence" yaml:"sentence"`
	Mean     float64 `json:"mean" yaml:"mean"`
	N        int     `json:"n" yaml:"n"`
	GrimOK   *bool   `json:"grim_ok" yaml:"grim_ok"`
}

// AnalysisResult is the full output of one document analysis.
type AnalysisResult struct {
	StatTests  []StatTestRecord  `json:"stat_tests" yaml:"stat_tests"`
	GrimChecks []GrimCheckRecord `json:"grim_checks" yaml:"grim_checks"`
}

// NewAnalysisResult returns a result with non-nil slices so it serializes
// as empty arrays rather than null.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		StatTests:  []StatTestRecord{},
		GrimChecks: []GrimCheckRecord{},
	}
}

// ErrorCount returns the number of stat records flagged as errors.
func (r *AnalysisResult) ErrorCount() int {
	n := 0
	for _, st := range r.StatTests {
		if st.Error {
			n++
		}
	}
	return n
}

// DecisionErrorCount returns the number of stat records whose
// significance conclusion flips under recomputation.
func (r *AnalysisResult) DecisionErrorCount() int {
	n := 0
	for _, st := range r.StatTests {
		if st.DecisionError == ClassDecisionError {
			n++
		}
	}
	return n
}

// GrimFailures returns the number of GRIM checks that evaluated to false.
func (r *AnalysisResult) GrimFailures() int {
	n := 0
	for _, g := range r.GrimChecks {
		if g.GrimOK != nil && !*g.GrimOK {
			n++
		}
	}
	return n
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
