package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/depwhy/internal/ir"
)

// checkStep compares one step's outcome with its expect clause.
func checkStep(result *Result, label string, expect *ExpectClause, r *ir.Report, err error) {
	if expect == nil {
		if err != nil {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
		}
		return
	}

	if expect.InvalidInput {
		if err == nil {
			result.AddError(fmt.Sprintf("%s: expected invalid input, got a report", label))
		}
		return
	}
	if err != nil {
		result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
		return
	}

	if expect.Bump != "" && string(r.BumpKind) != expect.Bump {
		result.AddError(fmt.Sprintf("%s: bump: expected %s, got %s", label, expect.Bump, r.BumpKind))
	}
	if expect.Direction != "" && string(r.Direction) != expect.Direction {
		result.AddError(fmt.Sprintf("%s: direction: expected %s, got %s", label, expect.Direction, r.Direction))
	}
	if expect.Focus != "" && r.CompatibilityFocus != expect.Focus {
		result.AddError(fmt.Sprintf("%s: focus: expected %q, got %q", label, expect.Focus, r.CompatibilityFocus))
	}

	for _, name := range sortedKeys(expect.Contains) {
		text := textSections[name](r)
		for _, want := range expect.Contains[name] {
			if !strings.Contains(text, want) {
				result.AddError(fmt.Sprintf("%s: %s: expected to contain %q\n  Actual: %s", label, name, want, text))
			}
		}
	}
	for _, name := range sortedKeys(expect.NotContains) {
		text := textSections[name](r)
		for _, unwanted := range expect.NotContains[name] {
			if strings.Contains(text, unwanted) {
				result.AddError(fmt.Sprintf("%s: %s: expected not to contain %q\n  Actual: %s", label, name, unwanted, text))
			}
		}
	}
	for _, name := range sortedKeys(expect.Counts) {
		got := len(listSections[name](r))
		if got != expect.Counts[name] {
			result.AddError(fmt.Sprintf("%s: %s: expected %d lines, got %d", label, name, expect.Counts[name], got))
		}
	}
}

// evaluateAssertions checks the recorded history.
func evaluateAssertions(history []ir.ChatTurn, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		switch a.Type {
		case AssertHistoryCount:
			if len(history) != a.Count {
				errs = append(errs, fmt.Sprintf("assertions[%d] %s: expected %d turns, got %d", i, a.Type, a.Count, len(history)))
			}
		case AssertHistoryOrder:
			got := make([]string, len(history))
			for j, turn := range history {
				got[j] = turn.Query.Package
			}
			if !slices.Equal(got, a.Packages) {
				errs = append(errs, fmt.Sprintf("assertions[%d] %s: expected %v, got %v", i, a.Type, a.Packages, got))
			}
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
