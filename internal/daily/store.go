package daily

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoResult means the AI has not played that date yet.
var ErrNoResult = errors.New("no daily result")

type Result struct {
	Date      string    `json:"date"`
	WordIndex int       `json:"wordIndex"`
	Secret    string    `json:"secret"`
	Guesses   string    `json:"guesses"`
	Wrong     string    `json:"wrong"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Get(ctx context.Context, date string) (*Result, error) {
	var r Result
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT date, word_index, secret, guesses, wrong_letters, outcome, created_at
		FROM daily_results WHERE date=?`, date,
	).Scan(&r.Date, &r.WordIndex, &r.Secret, &r.Guesses, &r.Wrong, &r.Outcome, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoResult
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &r, nil
}

// InsertResult stores the result for r.Date; an existing row for that date wins.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(date, word_index, secret, guesses, wrong_letters, outcome)
		VALUES(?,?,?,?,?,?)`, r.Date, r.WordIndex, r.Secret, r.Guesses, r.Wrong, r.Outcome,
	)
	return err
}

// History lists past results, newest date first.
func (s *Store) History(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, word_index, secret, guesses, wrong_letters, outcome, created_at
		FROM daily_results
		ORDER BY date DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		var created string
		if err := rows.Scan(&r.Date, &r.WordIndex, &r.Secret, &r.Guesses, &r.Wrong, &r.Outcome, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
