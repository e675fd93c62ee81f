package harness

import "github.com/roach88/depwhy/internal/ir"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Errors holds one message per failed check.
	Errors []string `json:"errors,omitempty"`

	// Reports holds the report of each step, nil for rejected queries.
	Reports []*ir.Report `json:"reports"`

	// History is the conversation recorded from the successful steps.
	History []ir.ChatTurn `json:"history"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Errors:  []string{},
		Reports: []*ir.Report{},
	}
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
