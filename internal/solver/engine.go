// internal/solver/engine.go
//
// Guessing engine for a single hangman round.
// Responsibilities:
//   - Start a round from a word length and a dictionary (NewRound).
//   - Pick the next letter by occurrence frequency over the candidate words (NextGuess).
//   - Apply per-position feedback, track the wrong-guess budget and prune candidates (ApplyFeedback).
//
// Notes:
//   - Frequencies sum letter occurrences per word: a word with two Os adds 2 to O.
//     This over-weights repeated letters and is kept on purpose.
//   - When no candidates remain the round switches to the backup table computed
//     at round start. Candidates never re-grow, so the switch is permanent.
//   - The engine never sees the secret word, only the feedback derived from it.
package solver

import (
	"slices"
	"strings"
)

// NewRound starts a round for a secret of the given length.
// Candidates are the dictionary words of exactly that length; the backup
// frequency table is computed from them before any guess is made.
func NewRound(length int, dict []string) (*Round, error) {
	if length <= 0 {
		return nil, &InvalidWordLengthError{Length: length}
	}

	candidates := make([]string, 0)
	for _, w := range dict {
		if len(w) == length {
			candidates = append(candidates, w)
		}
	}

	hidden := make([]bool, length)
	for i := range hidden {
		hidden[i] = true
	}

	return &Round{
		length:     length,
		candidates: candidates,
		backup:     CountLetters(candidates),
		hidden:     hidden,
		remaining:  MaxWrongGuesses,
		outcome:    OutcomeContinue,
	}, nil
}

// CountLetters sums letter occurrences over words. Bytes outside A–Z are ignored.
func CountLetters(words []string) Frequency {
	var f Frequency
	for _, w := range words {
		for i := 0; i < len(w); i++ {
			if c := w[i]; c >= 'A' && c <= 'Z' {
				f[c-'A']++
			}
		}
	}
	return f
}

// NextGuess chooses the next letter and records it as guessed.
// The letter must be answered with ApplyFeedback before the next call.
func (r *Round) NextGuess() (byte, error) {
	if r.outcome.Terminal() {
		return 0, ErrRoundOver
	}
	if r.pending != 0 {
		return 0, ErrFeedbackPending
	}
	if len(r.order) == AlphabetSize {
		return 0, ErrAlphabetExhausted
	}

	working := CountLetters(r.candidates)
	if len(r.candidates) == 0 {
		r.fallback = true
		working = r.backup
	}

	// -1 sits below every real count, including 0.
	for i, done := range r.guessed {
		if done {
			working[i] = -1
		}
	}

	best := 0
	for i := 1; i < AlphabetSize; i++ {
		if working[i] > working[best] {
			best = i
		}
	}

	letter := byte('A' + best)
	r.guessed[best] = true
	r.order = append(r.order, letter)
	r.pending = letter
	return letter, nil
}

// ApplyFeedback reports where the pending guess occurs in the secret word.
// matches[j] must be true exactly when the secret has letter at position j.
func (r *Round) ApplyFeedback(letter byte, matches []bool) (Outcome, error) {
	if r.outcome.Terminal() {
		return r.outcome, ErrRoundOver
	}
	if r.pending == 0 {
		return r.outcome, ErrNoPendingGuess
	}
	if letter != r.pending {
		return r.outcome, ErrUnexpectedLetter
	}
	if len(matches) != r.length {
		return r.outcome, ErrFeedbackLength
	}
	r.pending = 0

	countInWord := 0
	for j, hit := range matches {
		if hit {
			countInWord++
			r.hidden[j] = false
		}
	}

	if countInWord == 0 {
		r.remaining--
		r.wrong = append(r.wrong, letter)
		if r.remaining == 0 {
			r.outcome = OutcomeLoss
			return r.outcome, nil
		}
	}

	if !slices.Contains(r.hidden, true) {
		r.outcome = OutcomeWin
		return r.outcome, nil
	}

	wrong := string(r.wrong)
	r.candidates = slices.DeleteFunc(r.candidates, func(w string) bool {
		if strings.ContainsAny(w, wrong) {
			return true
		}
		for j, hit := range matches {
			if hit != (w[j] == letter) {
				return true
			}
		}
		return false
	})
	return r.outcome, nil
}

// Length is the secret word length.
func (r *Round) Length() int { return r.length }

// Outcome is the current round state.
func (r *Round) Outcome() Outcome { return r.outcome }

// Remaining is the number of wrong guesses still allowed.
func (r *Round) Remaining() int { return r.remaining }

// Fallback reports whether guesses are being drawn from the backup table.
func (r *Round) Fallback() bool { return r.fallback }

// Backup returns the frequency table computed at round start.
func (r *Round) Backup() Frequency { return r.backup }

// Guessed returns the guessed letters in guess order.
func (r *Round) Guessed() string { return string(r.order) }

// Wrong returns the incorrectly guessed letters in guess order.
func (r *Round) Wrong() string { return string(r.wrong) }

// Candidates returns a copy of the words still consistent with all feedback.
func (r *Round) Candidates() []string { return slices.Clone(r.candidates) }

// CandidateCount is len(Candidates()) without the copy.
func (r *Round) CandidateCount() int { return len(r.candidates) }

// Hidden returns a copy of the per-position flags; true = not yet revealed.
func (r *Round) Hidden() []bool { return slices.Clone(r.hidden) }
