// internal/history/users.go
//
// Challenger accounts: people who pose words for the AI.
// Passwords are bcrypt hashed; usernames are unique case-insensitively.

package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrUserNotFound  = errors.New("user not found")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	RoundsPosed  int       `json:"roundsPosed"`
	AIWins       int       `json:"aiWins"`
	Stumps       int       `json:"stumps"`
	StumpStreak  int       `json:"stumpStreak"`
}

// CreateUser validates input, checks uniqueness, hashes the password and inserts the user.
func (s *Store) CreateUser(ctx context.Context, username, pw string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.insertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// insertUser writes u; a concurrent signup that won the race on the
// username index surfaces as ErrUsernameTaken.
func (s *Store) insertUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrUsernameTaken
	}
	return err
}

// Authenticate returns the user when username/password match.
func (s *Store) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_posed, ai_wins, stumps, stump_streak
	                    FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_posed, ai_wins, stumps, stump_streak
	                    FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created,
		&u.RoundsPosed, &u.AIWins, &u.Stumps, &u.StumpStreak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	// bcrypt refuses passwords longer than 72 bytes.
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8–72 bytes")
	}
	return nil
}

// GenID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
