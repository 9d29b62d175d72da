package harness

import "encoding/json"

// TraceEvent is one recorded action of a scenario run.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
	Depth    int    `json:"depth"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every step applied and every assertion held.
	Pass bool `json:"pass"`

	// SurveyID is the id of the loaded survey.
	SurveyID string `json:"survey_id"`

	// Trace lists the recorded actions in seq order, nested bulk-sets
	// included.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the canonical snapshot of the final root state.
	State json.RawMessage `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
