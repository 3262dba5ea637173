package model

import "time"

// Report is a persisted analysis of one uploaded document. The ID is
// opaque to the analysis core.
type Report struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	SHA256    string          `json:"sha256"`
	Result    *AnalysisResult `json:"result"`
	Review    string          `json:"review,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReportSummary is the list view of a Report.
type ReportSummary struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	StatTests      int       `json:"stat_tests"`
	Errors         int       `json:"errors"`
	DecisionErrors int       `json:"decision_errors"`
	GrimChecks     int       `json:"grim_checks"`
	GrimFailures   int       `json:"grim_failures"`
	HasReview      bool      `json:"has_review"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summarize builds the list view for r.
func (r *Report) Summarize() ReportSummary {
	s := ReportSummary{
		ID:        r.ID,
		Filename:  r.Filename,
		HasReview: r.Review != "",
		CreatedAt: r.CreatedAt,
	}
	if r.Result != nil {
		s.StatTests = len(r.Result.StatTests)
		s.Errors = r.Result.ErrorCount()
		s.DecisionErrors = r.Result.DecisionErrorCount()
		s.GrimChecks = len(r.Result.GrimChecks)
		s.GrimFailures = r.Result.GrimFailures()
	}
	return s
}
