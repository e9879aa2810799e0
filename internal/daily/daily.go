// internal/daily/daily.go
//
// Word of the day: each UTC date maps deterministically onto a dictionary
// index, so every server with the same salt and word list agrees on it.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/hangman-ai/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes give an even enough spread for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the index and word of the day. ok is false for an empty dictionary.
func Pick(date time.Time, salt string, dict words.Dictionary) (idx int, word string, ok bool) {
	if dict.Len() == 0 {
		return 0, "", false
	}
	idx = WordIndex(date, salt, dict.Len())
	return idx, dict.At(idx), true
}
