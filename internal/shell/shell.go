package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/depwhy/internal/ir"
	"github.com/roach88/depwhy/internal/report"
)

// Assembler answers one upgrade question.
type Assembler interface {
	Assemble(q ir.Query) (*ir.Report, error)
}

// History stores the turns of a session in order.
type History interface {
	AppendTurn(ctx context.Context, turn ir.ChatTurn) error
	Turns(ctx context.Context, sessionID string) ([]ir.ChatTurn, error)
	ClearSession(ctx context.Context, sessionID string) error
}

const helpText = `Ask about an upgrade:
  ` + usageLine + `

Examples:
  auth-lib 2.1.0 2.2.0
  payments-core 3.1.0 4.0.0 --context Checkout Service

Commands:
  history            show the conversation so far
  clear              forget the conversation
  ecosystem [eco]    show or set the default ecosystem
  help               show this message
  quit, exit         leave
`

// Shell is one conversation session.
type Shell struct {
	asm     Assembler
	history History
	in      io.Reader
	out     io.Writer

	session   string
	clock     Clock
	ecosystem ir.Ecosystem
	colors    palette
	logger    *slog.Logger
}

// Option configures a Shell.
type Option func(*config)

type config struct {
	ids       IDGenerator
	clock     Clock
	ecosystem ir.Ecosystem
	noColor   bool
	logger    *slog.Logger
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEcosystem sets the ecosystem used when a question names none.
func WithEcosystem(eco ir.Ecosystem) Option {
	return func(c *config) { c.ecosystem = eco }
}

// WithNoColor disables ANSI colour.
func WithNoColor(noColor bool) Option {
	return func(c *config) { c.noColor = noColor }
}

// WithIDGenerator replaces the UUIDv7 session id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *config) { c.ids = ids }
}

// WithClock replaces the turn sequence clock.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// New starts a session reading from in and writing to out.
func New(asm Assembler, history History, in io.Reader, out io.Writer, opts ...Option) *Shell {
	cfg := config{
		ids:       UUIDv7Generator{},
		clock:     &seqClock{},
		ecosystem: ir.DefaultEcosystem,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Shell{
		asm:       asm,
		history:   history,
		in:        in,
		out:       out,
		session:   cfg.ids.Generate(),
		clock:     cfg.clock,
		ecosystem: cfg.ecosystem,
		colors:    newPalette(cfg.noColor),
		logger:    cfg.logger,
	}
}

// SessionID returns the id under which turns are stored.
func (s *Shell) SessionID() string {
	return s.session
}

// Run reads lines until EOF, quit, or ctx is cancelled. It returns
// ctx.Err() on cancellation and nil on a normal end of session.
func (s *Shell) Run(ctx context.Context) error {
	s.logger.Debug("session started", "session", s.session, "ecosystem", s.ecosystem)
	fmt.Fprintf(s.out, "%s Type 'help' for usage.\n", s.colors.heading.Sprint("depwhy chat."))

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := s.readLines(readCtx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, s.colors.prompt.Sprint("> "))

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			if err := <-readErr; err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(s.out)
			s.logger.Debug("session ended", "session", s.session, "reason", "eof")
			return nil
		}

		done, err := s.Handle(ctx, line)
		if err != nil {
			return err
		}
		if done {
			s.logger.Debug("session ended", "session", s.session, "reason", "quit")
			return nil
		}
	}
}

// readLines scans input on its own goroutine so a blocked read does not
// hold up cancellation. The error channel receives exactly one value once
// lines is closed.
func (s *Shell) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

// Handle processes one input line. It reports whether the session should
// end. Only history storage failures are returned as errors.
func (s *Shell) Handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		fmt.Fprintln(s.out, "Bye.")
		return true, nil
	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case "history":
		return false, s.showHistory(ctx)
	case "clear":
		if err := s.history.ClearSession(ctx, s.session); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "Conversation cleared.")
		return false, nil
	case "ecosystem":
		s.setEcosystem(fields[1:])
		return false, nil
	}

	return false, s.ask(ctx, fields)
}

func (s *Shell) ask(ctx context.Context, fields []string) error {
	req, err := parseRequest(fields)
	if err != nil {
		s.complain(err.Error())
		return nil
	}

	r, err := s.asm.Assemble(req.query(s.ecosystem))
	if err != nil {
		var inputErr *report.InputError
		if errors.As(err, &inputErr) {
			s.complain(inputErr.Message)
			return nil
		}
		return err
	}

	turn := ir.ChatTurn{
		SessionID: s.session,
		Seq:       s.clock.Next(),
		Query:     r.Query,
		ReportID:  r.ID,
		Response:  r.RawText,
	}
	if err := s.history.AppendTurn(ctx, turn); err != nil {
		return err
	}
	s.logger.Debug("turn recorded", "session", s.session, "seq", turn.Seq, "report", r.ID)

	return s.showHistory(ctx)
}

func (s *Shell) showHistory(ctx context.Context) error {
	turns, err := s.history.Turns(ctx, s.session)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Fprintln(s.out, "No conversation yet.")
		return nil
	}

	for i, turn := range turns {
		fmt.Fprintf(s.out, "\n%s %s\n", s.colors.heading.Sprintf("[%d] You:", i+1), turn.Query.String())
		fmt.Fprintf(s.out, "%s\n%s\n", s.colors.heading.Sprint("Assistant:"), s.colors.response(turn.Response))
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) setEcosystem(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Ecosystem: %s\n", s.ecosystem)
		return
	}
	eco, err := ir.ParseEcosystem(args[0])
	if err != nil {
		s.complain(err.Error())
		return
	}
	s.ecosystem = eco
	fmt.Fprintf(s.out, "Ecosystem set to %s.\n", eco)
}

func (s *Shell) complain(msg string) {
	fmt.Fprintln(s.out, s.colors.err.Sprint("Error: "+msg))
}
