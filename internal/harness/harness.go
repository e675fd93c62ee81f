package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/depwhy/internal/facts"
	"github.com/roach88/depwhy/internal/ir"
	"github.com/roach88/depwhy/internal/report"
	"github.com/roach88/depwhy/internal/store"
	"github.com/roach88/depwhy/internal/testutil"
)

// Assembler answers one upgrade question.
type Assembler interface {
	Assemble(q ir.Query) (*ir.Report, error)
}

// NewAssembler builds the assembler a scenario runs against: the fact
// directory it names, or catalog when it names none.
func NewAssembler(s *Scenario, catalog *facts.Catalog, logger *slog.Logger) (*report.Assembler, error) {
	if s.Facts != "" {
		res, errs := facts.LoadDir(s.Facts, facts.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("scenario %s: load facts: %w", s.Name, errs[0])
		}
		catalog = res.Catalog
	}
	if catalog == nil {
		return nil, fmt.Errorf("scenario %s: no fact tables", s.Name)
	}
	return report.New(catalog, report.WithLogger(logger)), nil
}

// Run executes a scenario and returns the result.
//
// History goes to a fresh in-memory store with a deterministic clock, so
// the same scenario always records the same turns. The returned error is
// reserved for infrastructure failures; unmet expectations are reported in
// Result.Errors.
func Run(ctx context.Context, scenario *Scenario, asm Assembler) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewDeterministicClock()
	session := "scenario:" + scenario.Name
	result := NewResult()

	for i, step := range scenario.Steps {
		label := fmt.Sprintf("steps[%d] %s", i, step.Query.Query())

		r, err := assembleTwice(asm, step.Query.Query())
		if err != nil && !errors.Is(err, report.ErrInvalidInput) {
			result.AddError(fmt.Sprintf("%s: %v", label, err))
			result.Reports = append(result.Reports, nil)
			continue
		}

		checkStep(result, label, step.Expect, r, err)
		result.Reports = append(result.Reports, r)
		if r == nil {
			continue
		}

		turn := ir.ChatTurn{
			SessionID: session,
			Seq:       clock.Next(),
			Query:     r.Query,
			ReportID:  r.ID,
			Response:  r.RawText,
		}
		if err := st.AppendTurn(ctx, turn); err != nil {
			return nil, fmt.Errorf("record %s: %w", label, err)
		}
	}

	history, err := st.Turns(ctx, session)
	if err != nil {
		return nil, err
	}
	result.History = history

	for _, msg := range evaluateAssertions(history, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// assembleTwice asks the same question twice and fails if the answers
// differ in any byte.
func assembleTwice(asm Assembler, q ir.Query) (*ir.Report, error) {
	first, err := asm.Assemble(q)
	if err != nil {
		return nil, err
	}
	second, err := asm.Assemble(q)
	if err != nil {
		return nil, fmt.Errorf("second assemble failed: %w", err)
	}
	if first.ID != second.ID || first.RawText != second.RawText {
		return nil, fmt.Errorf("report not idempotent: %s then %s", first.ID, second.ID)
	}
	return first, nil
}
