package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depwhy/internal/facts"
	"github.com/roach88/depwhy/internal/ir"
	"github.com/roach88/depwhy/internal/report"
	"github.com/roach88/depwhy/internal/store"
	"github.com/roach88/depwhy/internal/testutil"
)

type fixture struct {
	shell *Shell
	store *store.Store
	out   *bytes.Buffer
}

func newFixture(t *testing.T, input string, opts ...Option) *fixture {
	t.Helper()

	catalog, err := facts.LoadDefault()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	out := &bytes.Buffer{}
	base := []Option{
		WithLogger(logger),
		WithNoColor(true),
		WithIDGenerator(testutil.NewFixedIDGenerator("test-session")),
		WithClock(testutil.NewDeterministicClock()),
	}
	sh := New(report.New(catalog, report.WithLogger(logger)), st, strings.NewReader(input), out, append(base, opts...)...)
	return &fixture{shell: sh, store: st, out: out}
}

func (f *fixture) turns(t *testing.T) []ir.ChatTurn {
	t.Helper()
	turns, err := f.store.Turns(context.Background(), f.shell.SessionID())
	require.NoError(t, err)
	return turns
}

func TestRun_AppendsTurnsAndRedisplaysHistory(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0 2.2.0\nlogging-lib 1.5.0 1.5.1\nquit\n")

	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Equal(t, 2, strings.Count(out, "[1] You: Explain upgrading auth-lib from 2.1.0 to 2.2.0"))
	assert.Equal(t, 1, strings.Count(out, "[2] You: Explain upgrading logging-lib from 1.5.0 to 1.5.1"))
	assert.Contains(t, out, "Bye.")

	turns := f.turns(t)
	require.Len(t, turns, 2)
	assert.Equal(t, "test-session", turns[0].SessionID)
	assert.Equal(t, int64(1), turns[0].Seq)
	assert.Equal(t, int64(2), turns[1].Seq)
	assert.Equal(t, "auth-lib", turns[0].Query.Package)
	assert.Contains(t, turns[0].Response, "Summary: ")
	assert.NotEmpty(t, turns[0].ReportID)
}

func TestRun_InvalidInputAppendsNothing(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0\n")

	require.NoError(t, f.shell.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Error: target version is required")
	assert.Empty(t, f.turns(t))
}

func TestRun_UnknownEcosystemFlag(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0 2.2.0 -e rubygems\n")

	require.NoError(t, f.shell.Run(context.Background()))

	assert.Contains(t, f.out.String(), "unknown ecosystem")
	assert.Empty(t, f.turns(t))
}

func TestRun_UsageErrors(t *testing.T) {
	f := newFixture(t, "auth-lib 1 2 --verbose\nauth-lib 1 2 3\n")

	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "unknown flag --verbose")
	assert.Contains(t, out, "too many arguments")
	assert.Empty(t, f.turns(t))
}

func TestRun_ContextFlagReachesReport(t *testing.T) {
	f := newFixture(t, "payments-core 3.1.0 4.0.0 --context Checkout Service\n")

	require.NoError(t, f.shell.Run(context.Background()))

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "Checkout Service", turns[0].Query.Context)
	assert.Contains(t, f.out.String(), "(Context: Checkout Service)")
}

func TestRun_ClearDropsHistory(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0 2.2.0\nclear\nhistory\n")

	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Conversation cleared.")
	assert.Contains(t, out, "No conversation yet.")
	assert.Empty(t, f.turns(t))
}

func TestRun_EcosystemCommand(t *testing.T) {
	f := newFixture(t, "ecosystem npm\necosystem\nauth-lib 2.1.0 2.2.0\necosystem cobol\n")

	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Ecosystem set to npm.")
	assert.Contains(t, out, "Ecosystem: npm")
	assert.Contains(t, out, "unknown ecosystem")

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, ir.EcosystemNpm, turns[0].Query.Ecosystem)
}

func TestRun_DefaultEcosystemOption(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0 2.2.0\n", WithEcosystem(ir.EcosystemCargo))

	require.NoError(t, f.shell.Run(context.Background()))

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, ir.EcosystemCargo, turns[0].Query.Ecosystem)
}

func TestRun_HelpAndBlankLines(t *testing.T) {
	f := newFixture(t, "\n   \nhelp\n")

	require.NoError(t, f.shell.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Commands:")
	assert.Empty(t, f.turns(t))
}

func TestRun_EOFEndsSession(t *testing.T) {
	f := newFixture(t, "")
	assert.NoError(t, f.shell.Run(context.Background()))
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t, "auth-lib 2.1.0 2.2.0\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.shell.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.turns(t))
}

func TestRun_NoColorHasNoEscapes(t *testing.T) {
	f := newFixture(t, "payments-core 3.1.0 3.2.0\n")

	require.NoError(t, f.shell.Run(context.Background()))

	assert.Contains(t, f.out.String(), "WARNING:")
	assert.NotContains(t, f.out.String(), "\x1b[")
}

func TestNew_DefaultSessionIDIsUUID(t *testing.T) {
	sh := New(nil, nil, strings.NewReader(""), io.Discard)
	assert.Len(t, sh.SessionID(), 36)
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    request
		wantErr string
	}{
		{
			name: "positional",
			line: "auth-lib 2.1.0 2.2.0",
			want: request{pkg: "auth-lib", from: "2.1.0", to: "2.2.0"},
		},
		{
			name: "short flags",
			line: "auth-lib 2.1.0 2.2.0 -e npm -c API Gateway canary",
			want: request{pkg: "auth-lib", from: "2.1.0", to: "2.2.0", ecosystem: "npm", context: "API Gateway canary"},
		},
		{
			name: "equals form",
			line: "auth-lib 2.1.0 2.2.0 --ecosystem=maven --context=Checkout Service",
			want: request{pkg: "auth-lib", from: "2.1.0", to: "2.2.0", ecosystem: "maven", context: "Checkout Service"},
		},
		{
			name: "flags first",
			line: "-e npm auth-lib 2.1.0 2.2.0",
			want: request{pkg: "auth-lib", from: "2.1.0", to: "2.2.0", ecosystem: "npm"},
		},
		{
			name: "missing versions left blank",
			line: "auth-lib",
			want: request{pkg: "auth-lib"},
		},
		{name: "dangling ecosystem", line: "auth-lib 1 2 -e", wantErr: "needs a value"},
		{name: "unknown flag", line: "auth-lib 1 2 -x", wantErr: "unknown flag -x"},
		{name: "too many", line: "a 1 2 3", wantErr: "too many arguments"},
		{name: "only flags", line: "-e npm", wantErr: "usage:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequest(strings.Fields(tt.line))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPalette_PaintsWarnings(t *testing.T) {
	p := newPalette(true)
	text := "Risk:\n  - WARNING: something\n"
	assert.Equal(t, "Risk:\n  - WARNING: something", p.response(text))
}
