// internal/game/types.go
//
// Core type definitions for a hangman round played by the AI.
// Defines:
//   - Turn: one guess and the feedback it received.
//   - Game: a secret word plus the solver round trying to reveal it.

package game

import (
	"sync"

	"github.com/robalobadob/hangman-ai/internal/solver"
)

// Turn records a single guess.
type Turn struct {
	Letter     string `json:"letter"`     // guessed letter, uppercase
	Count      int    `json:"count"`      // occurrences in the secret word
	Remaining  int    `json:"remaining"`  // wrong guesses left after this turn
	Candidates int    `json:"candidates"` // candidate words left after this turn
	Fallback   bool   `json:"fallback"`   // guess came from the backup table
	Board      string `json:"board"`      // board after this turn
}

// Game holds the state of a single round.
type Game struct {
	mu sync.Mutex

	ID     string        // Unique game identifier (random hex string).
	Secret string        // The word the AI must reveal (always uppercase).
	Turns  []Turn        // Guesses made so far.
	round  *solver.Round // Engine state; never exposed directly.
}
