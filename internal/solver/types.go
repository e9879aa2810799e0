// internal/solver/types.go
//
// Core type definitions for the hangman guessing engine.
// Defines:
//   - Outcome: state of a round after feedback (playing/won/lost).
//   - Frequency: per-letter occurrence table indexed A..Z.
//   - Round: all per-round state owned by the engine.
//   - Error values returned by the engine entry points.

package solver

import (
	"errors"
	"fmt"
)

const (
	// AlphabetSize is the number of guessable letters (A–Z).
	AlphabetSize = 26

	// MaxWrongGuesses is the wrong-guess budget every round starts with.
	MaxWrongGuesses = 6
)

// Outcome is the round state reported after each piece of feedback.
type Outcome string

const (
	OutcomeContinue Outcome = "playing"
	OutcomeWin      Outcome = "won"
	OutcomeLoss     Outcome = "lost"
)

// Terminal reports whether no further guesses may be made.
func (o Outcome) Terminal() bool { return o == OutcomeWin || o == OutcomeLoss }

// Frequency holds letter occurrence counts, slot 0 = 'A' ... slot 25 = 'Z'.
type Frequency [AlphabetSize]int

// Count returns the count stored for letter l; bytes outside 'A'..'Z' count 0.
func (f Frequency) Count(l byte) int {
	if l < 'A' || l > 'Z' {
		return 0
	}
	return f[l-'A']
}

// Round is the state of a single game as seen by the engine.
// It is not safe for concurrent use.
type Round struct {
	length     int
	candidates []string
	backup     Frequency

	guessed   [AlphabetSize]bool
	order     []byte // guessed letters in guess order
	wrong     []byte // incorrectly guessed letters in guess order
	hidden    []bool // true = still hidden
	remaining int

	pending  byte // letter awaiting feedback, 0 if none
	fallback bool
	outcome  Outcome
}

// InvalidWordLengthError is returned when a round is started with a
// non-positive word length. No round is created.
type InvalidWordLengthError struct {
	Length int
}

func (e *InvalidWordLengthError) Error() string {
	return fmt.Sprintf("invalid word length %d: must be positive", e.Length)
}

var (
	ErrRoundOver         = errors.New("round finished")
	ErrFeedbackPending   = errors.New("previous guess has no feedback yet")
	ErrNoPendingGuess    = errors.New("no guess awaiting feedback")
	ErrUnexpectedLetter  = errors.New("feedback letter does not match the pending guess")
	ErrFeedbackLength    = errors.New("feedback length does not match word length")
	ErrAlphabetExhausted = errors.New("every letter has already been guessed")
)
