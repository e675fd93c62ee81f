package harness

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depwhy/internal/facts"
	"github.com/roach88/depwhy/internal/ir"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFile(t *testing.T, name string) *Result {
	t.Helper()

	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)

	catalog, err := facts.LoadDefault()
	require.NoError(t, err)

	asm, err := NewAssembler(scenario, catalog, discardLogger())
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario, asm)
	require.NoError(t, err)
	return result
}

func TestRun_SeedScenario(t *testing.T) {
	result := runFile(t, "seed_upgrades.yaml")

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Reports, 4)
	assert.Nil(t, result.Reports[2], "rejected step has no report")
	require.Len(t, result.History, 3)
	assert.Equal(t, "scenario:seed_upgrades", result.History[0].SessionID)
	assert.Equal(t, int64(3), result.History[2].Seq)
	assert.Equal(t, result.Reports[3].ID, result.History[2].ReportID)
}

func TestRun_CustomFacts(t *testing.T) {
	result := runFile(t, "custom_facts.yaml")
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Deterministic(t *testing.T) {
	first := runFile(t, "seed_upgrades.yaml")
	second := runFile(t, "seed_upgrades.yaml")

	assert.Equal(t, first.History, second.History)
}

func TestRun_ReportsFailures(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: failing
description: "every check is wrong"
steps:
  - query: {package: auth-lib, from: 2.1.0, to: 2.2.0}
    expect:
      bump: major
      direction: downgrade
      focus: Checkout Service
      contains:
        security: ["CVE-2099-999"]
      not_contains:
        release: ["OAuth2"]
      counts:
        compatibility: 1
  - query: {package: auth-lib, from: 2.1.0, to: 2.2.0}
    expect:
      invalid_input: true
  - query: {package: auth-lib, from: 2.1.0, to: ""}
assertions:
  - type: history_count
    count: 5
  - type: history_order
    packages: [payments-core]
`))
	require.NoError(t, err)

	catalog, err := facts.LoadDefault()
	require.NoError(t, err)
	asm, err := NewAssembler(scenario, catalog, discardLogger())
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario, asm)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	joined := ""
	for _, e := range result.Errors {
		joined += e + "\n"
	}
	for _, want := range []string{
		"bump: expected major, got minor",
		"direction: expected downgrade, got upgrade",
		`focus: expected "Checkout Service", got ""`,
		`security: expected to contain "CVE-2099-999"`,
		`release: expected not to contain "OAuth2"`,
		"compatibility: expected 1 lines, got 3",
		"expected invalid input, got a report",
		"unexpected error",
		"expected 5 turns, got 2",
		"history_order: expected [payments-core]",
	} {
		assert.Contains(t, joined, want)
	}
}

type flakyAssembler struct {
	n int
}

func (f *flakyAssembler) Assemble(q ir.Query) (*ir.Report, error) {
	f.n++
	return &ir.Report{ID: string(rune('a' + f.n)), Query: q}, nil
}

func TestRun_DetectsNonIdempotentAssembler(t *testing.T) {
	scenario := &Scenario{
		Name:        "flaky",
		Description: "answers change between calls",
		Steps:       []Step{{Query: QueryStep{Package: "p", From: "1", To: "2"}}},
	}

	result, err := Run(context.Background(), scenario, &flakyAssembler{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "report not idempotent")
	assert.Empty(t, result.History)
}

func TestNewAssembler_BadFactsDir(t *testing.T) {
	scenario := &Scenario{Name: "missing", Facts: filepath.Join(t.TempDir(), "nope")}

	_, err := NewAssembler(scenario, nil, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load facts")
}

func TestNewAssembler_NoCatalog(t *testing.T) {
	_, err := NewAssembler(&Scenario{Name: "empty"}, nil, discardLogger())
	assert.Error(t, err)
}
