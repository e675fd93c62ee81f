package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		Query: Query{
			Ecosystem:   EcosystemPip,
			Package:     "auth-lib",
			FromVersion: "2.1.0",
			ToVersion:   "2.2.0",
		},
		BumpKind:       BumpMinor,
		Direction:      DirectionUpgrade,
		Summary:        "Minor version upgrade from 2.1.0 to 2.2.0.",
		ReleaseSummary: "Added OAuth2 refresh token support.",
		Risk:           []string{"low"},
		Security:       []string{"none"},
		Incidents:      []string{"none"},
		Compatibility:  []string{"none"},
		Sources:        []string{"Release notes for auth-lib 2.2.0"},
		RawText:        "text",
	}
}

func TestReportID_Deterministic(t *testing.T) {
	id1, err := ReportID(sampleReport())
	require.NoError(t, err)
	id2, err := ReportID(sampleReport())
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestReportID_IgnoresIDField(t *testing.T) {
	r := sampleReport()
	before, err := ReportID(r)
	require.NoError(t, err)

	r.ID = before
	after, err := ReportID(r)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReportID_ChangesWithContent(t *testing.T) {
	base, err := ReportID(sampleReport())
	require.NoError(t, err)

	mutations := map[string]func(r *Report){
		"context":  func(r *Report) { r.Query.Context = "Checkout Service" },
		"bump":     func(r *Report) { r.BumpKind = BumpMajor },
		"security": func(r *Report) { r.Security = append(r.Security, "extra") },
		"raw text": func(r *Report) { r.RawText += "!" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := sampleReport()
			mutate(r)
			id, err := ReportID(r)
			require.NoError(t, err)
			assert.NotEqual(t, base, id)
		})
	}
}

func TestReportID_EqualUpToNFC(t *testing.T) {
	composed := sampleReport()
	composed.Query.Context = "caf\u00e9"
	decomposed := sampleReport()
	decomposed.Query.Context = "cafe\u0301"
	require.NotEqual(t, composed.Query.Context, decomposed.Query.Context)

	a, err := ReportID(composed)
	require.NoError(t, err)
	b, err := ReportID(decomposed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashWithDomain_Separation(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
}
