package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResult_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	orig := &AnalysisResult{
		StatTests: []StatTestRecord{
			{
				Family:        FamilyF,
				DF1:           Float(2),
				DF2:           Float(57),
				Value:         4.31,
				ReportedP:     Float(0.018),
				PComparison:   "=",
				ComputedP:     Float(0.01797),
				DecisionError: ClassMatch,
				Source:        "paper.pdf",
				Raw:           "F(2, 57) = 4.31, p = .018",
			},
			{
				Family:        FamilyT,
				DF1:           Float(0),
				Value:         1.2,
				PComparison:   "ns",
				DecisionError: ClassUncomputable,
				Source:        "paper.pdf",
			},
		},
		GrimChecks: []GrimCheckRecord{
			{Sentence: "M = 3.14, N = 3.", Mean: 3.14, N: 3, GrimOK: Bool(false)},
			{Sentence: "M = 2.5, N = 0.", Mean: 2.5, N: 0, GrimOK: nil},
		},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got AnalysisResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, &got)

	// Null markers must survive as explicit nulls, not omitted keys.
	assert.Contains(t, string(data), `"grim_ok":null`)
	assert.Contains(t, string(data), `"computed_p":null`)
	assert.Contains(t, string(data), `"df2":null`)
	assert.Contains(t, string(data), `"reported_p":null`)
	assert.Contains(t, string(data), `"decision_error":"match"`)
}

func TestNewAnalysisResult_EmptyArrays(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewAnalysisResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"stat_tests":[],"grim_checks":[]}`, string(data))
}

func TestAnalysisResult_Counts(t *testing.T) {
	t.Parallel()

	r := &AnalysisResult{
		StatTests: []StatTestRecord{
			{Error: true, DecisionError: ClassDecisionError},
			{Error: true, DecisionError: ClassInconsistency},
			{DecisionError: ClassMatch},
			{DecisionError: ClassUncomputable},
		},
		GrimChecks: []GrimCheckRecord{
			{GrimOK: Bool(true)},
			{GrimOK: Bool(false)},
			{GrimOK: nil},
		},
	}

	assert.Equal(t, 2, r.ErrorCount())
	assert.Equal(t, 1, r.DecisionErrorCount())
	assert.Equal(t, 1, r.GrimFailures())
}

func TestClassification_IsError(t *testing.T) {
	t.Parallel()

	assert.True(t, ClassDecisionError.IsError())
	assert.True(t, ClassInconsistency.IsError())
	assert.False(t, ClassMatch.IsError())
	assert.False(t, ClassUncomputable.IsError())
}

func TestDocumentText_Text(t *testing.T) {
	t.Parallel()

	d := DocumentText{Pages: []string{"page one", "", "page three"}}
	assert.Equal(t, "page one\n\npage three", d.Text())
	assert.Equal(t, 1, d.EmptyPages())

	assert.Equal(t, "", DocumentText{}.Text())
}

func TestReport_Summarize(t *testing.T) {
	t.Parallel()

	r := &Report{
		ID:       "abc",
		Filename: "paper.pdf",
		Review:   "Looks fine.",
		Result: &AnalysisResult{
			StatTests:  []StatTestRecord{{Error: true, DecisionError: ClassDecisionError}, {}},
			GrimChecks: []GrimCheckRecord{{GrimOK: Bool(false)}},
		},
	}

	s := r.Summarize()
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, 2, s.StatTests)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 1, s.DecisionErrors)
	assert.Equal(t, 1, s.GrimChecks)
	assert.Equal(t, 1, s.GrimFailures)
	assert.True(t, s.HasReview)

	empty := (&Report{ID: "x"}).Summarize()
	assert.Zero(t, empty.StatTests)
	assert.False(t, empty.HasReview)
}
