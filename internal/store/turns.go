package store

import (
	"context"
	"fmt"

	"github.com/roach88/depwhy/internal/ir"
)

// AppendTurn records one turn. The (session, seq) pair must be new;
// history is append-only.
func (s *Store) AppendTurn(ctx context.Context, turn ir.ChatTurn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns
		(session_id, seq, ecosystem, package, from_version, to_version, context, report_id, response)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		turn.SessionID,
		turn.Seq,
		string(turn.Query.Ecosystem),
		turn.Query.Package,
		turn.Query.FromVersion,
		turn.Query.ToVersion,
		turn.Query.Context,
		turn.ReportID,
		turn.Response,
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// Turns returns a session's turns in seq order.
func (s *Store) Turns(ctx context.Context, sessionID string) ([]ir.ChatTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, ecosystem, package, from_version, to_version, context, report_id, response
		FROM turns
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []ir.ChatTurn
	for rows.Next() {
		var turn ir.ChatTurn
		var ecosystem string
		if err := rows.Scan(
			&turn.SessionID,
			&turn.Seq,
			&ecosystem,
			&turn.Query.Package,
			&turn.Query.FromVersion,
			&turn.Query.ToVersion,
			&turn.Query.Context,
			&turn.ReportID,
			&turn.Response,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Query.Ecosystem = ir.Ecosystem(ecosystem)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	return turns, nil
}

// CountTurns returns how many turns a session holds.
func (s *Store) CountTurns(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

// ClearSession deletes every turn of a session.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
