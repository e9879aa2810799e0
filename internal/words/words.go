// internal/words/words.go
//
// Dictionary loading for the hangman player.
//
// Responsibilities:
//   - Load a word list from a configured file, or fall back to the embedded default.
//   - Normalize entries to uppercase and keep only plain A–Z words.
//   - Expose the list read-only, plus size statistics for diagnostics.
//
// Word lists:
//   - One word per line; blank lines and lines starting with '#' are skipped.
//   - Case-insensitive on input, always uppercase once loaded.
//   - Order and duplicates are preserved: every entry contributes to letter counts.
//
// The embedded default is parsed once (sync.Once) and shared.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/robalobadob/hangman-ai/assets"
)

// Dictionary is an immutable, ordered list of uppercase words.
type Dictionary struct {
	words []string
}

var (
	embeddedOnce sync.Once
	embedded     Dictionary
	embeddedErr  error
)

// New builds a Dictionary from raw entries, normalizing each one.
// Entries that are empty or contain anything other than letters are dropped.
func New(entries []string) Dictionary {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		w := strings.ToUpper(strings.TrimSpace(e))
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	return Dictionary{words: out}
}

// Load reads the dictionary from path, or returns the embedded default when
// path is empty.
func Load(path string) (Dictionary, error) {
	if path == "" {
		return Embedded()
	}
	f, err := os.Open(path)
	if err != nil {
		return Dictionary{}, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return Dictionary{}, fmt.Errorf("read word list %s: %w", path, err)
	}
	return d, nil
}

// Parse reads one word per line from r.
func Parse(r io.Reader) (Dictionary, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return Dictionary{}, err
	}
	return New(lines), nil
}

// Embedded returns the dictionary compiled into the binary.
func Embedded() (Dictionary, error) {
	embeddedOnce.Do(func() {
		list, err := assets.WordList()
		if err != nil {
			embeddedErr = err
			return
		}
		embedded = New(list)
		if embedded.Len() == 0 {
			embeddedErr = errors.New("words: embedded list is empty")
		}
	})
	return embedded, embeddedErr
}

// Words returns a copy of the word list.
func (d Dictionary) Words() []string { return slices.Clone(d.words) }

// Len is the number of words, duplicates included.
func (d Dictionary) Len() int { return len(d.words) }

// At returns the i-th word.
func (d Dictionary) At(i int) string { return d.words[i] }

// Lengths counts words per word length.
func (d Dictionary) Lengths() map[int]int {
	m := make(map[int]int)
	for _, w := range d.words {
		m[len(w)]++
	}
	return m
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
