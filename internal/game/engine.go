// internal/game/engine.go
//
// Round controller: the side of the game that knows the secret word.
// Responsibilities:
//   - Create new games from a player-supplied secret word.
//   - Ask the solver for a letter, compute where it occurs and feed that back.
//   - Render the board and keep a transcript of turns.
//   - Track state transitions: playing → won/lost (won/lost from the AI's side).
//
// Notes:
//   - The solver only ever receives the word length and per-position feedback.
//   - Every Game owns a fresh solver round; nothing is shared between games
//     except the read-only dictionary slice.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman-ai/internal/solver"
)

// ErrInvalidSecret is returned for secrets containing anything other than A–Z.
var ErrInvalidSecret = errors.New("secret word may only contain letters")

// Normalize turns raw player input into a secret word: the first
// whitespace-separated token, uppercased.
func Normalize(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// New starts a game for secret against dict.
// An empty secret yields *solver.InvalidWordLengthError.
func New(secret string, dict []string) (*Game, error) {
	secret = Normalize(secret)
	round, err := solver.NewRound(len(secret), dict)
	if err != nil {
		return nil, err
	}
	if !isAlpha(secret) {
		return nil, ErrInvalidSecret
	}
	return &Game{
		ID:     randomID(),
		Secret: secret,
		Turns:  []Turn{},
		round:  round,
	}, nil
}

// Reveal is the feedback for letter: true at every position of secret holding it.
func Reveal(secret string, letter byte) []bool {
	out := make([]bool, len(secret))
	for i := 0; i < len(secret); i++ {
		out[i] = secret[i] == letter
	}
	return out
}

// Step lets the AI make one guess and applies the feedback.
func (g *Game) Step() (Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step()
}

// Play steps until the round is won or lost and returns the new turns.
func (g *Game) Play() ([]Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := len(g.Turns)
	for !g.round.Outcome().Terminal() {
		if _, err := g.step(); err != nil {
			return append([]Turn(nil), g.Turns[start:]...), err
		}
	}
	return append([]Turn(nil), g.Turns[start:]...), nil
}

func (g *Game) step() (Turn, error) {
	wasFallback := g.round.Fallback()
	letter, err := g.round.NextGuess()
	if err != nil {
		return Turn{}, err
	}
	if g.round.Fallback() && !wasFallback {
		log.Debug().Str("gameId", g.ID).Int("guesses", len(g.Turns)).Msg("no candidates left, using backup frequencies")
	}

	matches := Reveal(g.Secret, letter)
	if _, err := g.round.ApplyFeedback(letter, matches); err != nil {
		return Turn{}, err
	}

	count := 0
	for _, m := range matches {
		if m {
			count++
		}
	}
	t := Turn{
		Letter:     string(letter),
		Count:      count,
		Remaining:  g.round.Remaining(),
		Candidates: g.round.CandidateCount(),
		Fallback:   g.round.Fallback(),
		Board:      g.board(),
	}
	g.Turns = append(g.Turns, t)
	log.Debug().Str("gameId", g.ID).Str("letter", t.Letter).Int("count", count).
		Int("candidates", t.Candidates).Msg("turn")
	return t, nil
}

// Board renders the secret with unrevealed positions as '_', e.g. "D _ G".
func (g *Game) Board() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board()
}

func (g *Game) board() string {
	var b strings.Builder
	for i, hidden := range g.round.Hidden() {
		if i > 0 {
			b.WriteByte(' ')
		}
		if hidden {
			b.WriteByte('_')
		} else {
			b.WriteByte(g.Secret[i])
		}
	}
	return b.String()
}

// Outcome reports the round state.
func (g *Game) Outcome() solver.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round.Outcome()
}

// Snapshot is a point-in-time, copy-safe view of a game.
type Snapshot struct {
	ID        string         `json:"gameId"`
	Length    int            `json:"length"`
	Board     string         `json:"board"`
	State     solver.Outcome `json:"state"`
	Remaining int            `json:"remaining"`
	Guessed   string         `json:"guessed"`
	Wrong     string         `json:"wrong"`
	Turns     []Turn         `json:"turns"`
	Secret    string         `json:"secret,omitempty"` // only once finished
}

// Snapshot returns the current view of the game.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		ID:        g.ID,
		Length:    g.round.Length(),
		Board:     g.board(),
		State:     g.round.Outcome(),
		Remaining: g.round.Remaining(),
		Guessed:   g.round.Guessed(),
		Wrong:     g.round.Wrong(),
		Turns:     append([]Turn{}, g.Turns...),
	}
	if s.State.Terminal() {
		s.Secret = g.Secret
	}
	return s
}

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
