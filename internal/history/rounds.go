// internal/history/rounds.go
//
// Finished rounds and per-challenger stats.
// A round belongs either to a signed-in user or to an anonymous cookie ID;
// anonymous rounds are claimed when that browser later signs in.

package history

import (
	"context"
	"database/sql"
	"time"
)

// Round is one finished game as stored in the rounds table.
type Round struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	AnonymousID string    `json:"-"`
	Secret      string    `json:"secret"`
	Guesses     string    `json:"guesses"` // letters in guess order
	Wrong       string    `json:"wrong"`
	Outcome     string    `json:"outcome"` // "won" | "lost", from the AI's side
	FinishedAt  time.Time `json:"finishedAt"`
}

// RecordRound inserts a finished round and, for signed-in owners, updates
// their stats in the same transaction.
func (s *Store) RecordRound(ctx context.Context, r Round) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO rounds (id, user_id, anonymous_id, secret, guesses, wrong_letters, outcome, finished_at)
        VALUES (?,?,?,?,?,?,?,?)`,
		r.ID, nullable(r.UserID), nullable(r.AnonymousID), r.Secret, r.Guesses, r.Wrong, r.Outcome,
		r.FinishedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Outcome == "won"); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// bumpStats increments rounds posed and updates AI wins / stumps (within tx).
// A stump is a round the AI lost; the streak resets whenever the AI wins.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, aiWon bool) error {
	var posed, wins, stumps, streak int
	row := tx.QueryRowContext(ctx, `SELECT rounds_posed, ai_wins, stumps, stump_streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&posed, &wins, &stumps, &streak); err != nil {
		return err
	}
	posed++
	if aiWon {
		wins++
		streak = 0
	} else {
		stumps++
		streak++
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET rounds_posed=?, ai_wins=?, stumps=?, stump_streak=? WHERE id=?`,
		posed, wins, stumps, streak, userID)
	return err
}

// RecentRounds lists a user's rounds, newest first. Default limit is 50.
func (s *Store) RecentRounds(ctx context.Context, userID string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, secret, guesses, wrong_letters, outcome, finished_at
        FROM rounds WHERE user_id=? ORDER BY finished_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var r Round
		var finished string
		if err := rows.Scan(&r.ID, &r.Secret, &r.Guesses, &r.Wrong, &r.Outcome, &finished); err != nil {
			return nil, err
		}
		r.UserID = userID
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonRounds transfers anonymous rounds to a user account.
// Stats are not back-filled; only rounds finished while signed in count.
func (s *Store) ClaimAnonRounds(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
