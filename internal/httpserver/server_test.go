package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman-ai/internal/config"
	"github.com/robalobadob/hangman-ai/internal/daily"
	"github.com/robalobadob/hangman-ai/internal/game"
	"github.com/robalobadob/hangman-ai/internal/history"
	"github.com/robalobadob/hangman-ai/internal/store"
	"github.com/robalobadob/hangman-ai/internal/words"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWith(t, words.New([]string{"cat", "cot", "dog"}))
}

func newTestServerWith(t *testing.T, dict words.Dictionary) *Server {
	t.Helper()
	hist, err := history.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })

	cfg := config.Config{
		JWTSecret:      "test_secret",
		JWTExpiry:      time.Hour,
		CookieName:     "hangman_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "salt",
		RoundRetention: time.Minute,
	}
	s := New(cfg, dict, store.NewMemoryStore(), hist)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, s *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodOptions, "/rounds", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/debug/words", "")
	assert.JSONEq(t, `{"words":3,"byLength":{"3":3}}`, rec.Body.String())
}

func TestNewRoundValidation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/rounds", `{"word":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_word_length")

	rec = do(t, s, http.MethodPost, "/rounds", `{"word":"d0g"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "letters_only")

	rec = do(t, s, http.MethodPost, "/rounds", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/rounds/nope/guess", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoundLifecycleAsGuest(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/rounds", `{"word":"dog"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	snap := decode[game.Snapshot](t, rec)
	assert.Equal(t, 3, snap.Length)
	assert.Equal(t, "_ _ _", snap.Board)
	assert.Equal(t, "playing", string(snap.State))
	assert.Empty(t, snap.Secret)

	rec = do(t, s, http.MethodPost, "/rounds/"+snap.ID+"/guess", "")
	require.Equal(t, http.StatusOK, rec.Code)
	g := decode[guessRes](t, rec)
	assert.Equal(t, "C", g.Turn.Letter)
	assert.Equal(t, 5, g.Remaining)
	assert.Empty(t, g.Secret)

	rec = do(t, s, http.MethodPost, "/rounds/"+snap.ID+"/play", "")
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[game.Snapshot](t, rec)
	assert.Equal(t, "won", string(done.State))
	assert.Equal(t, "DOG", done.Secret)
	assert.Equal(t, "CDGO", done.Guessed)
	assert.NotNil(t, cookie(rec, anonCookieName))

	rec = do(t, s, http.MethodPost, "/rounds/"+snap.ID+"/guess", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// replaying a finished round records nothing new
	rec = do(t, s, http.MethodPost, "/rounds/"+snap.ID+"/play", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var n int
	require.NoError(t, s.hist.DB().QueryRow(`SELECT COUNT(*) FROM rounds WHERE anonymous_id IS NOT NULL`).Scan(&n))
	assert.Equal(t, 1, n)

	rec = do(t, s, http.MethodGet, "/rounds/"+snap.ID, "")
	assert.Equal(t, "DOG", decode[game.Snapshot](t, rec).Secret)
}

func TestAuthAndStats(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/auth/me", "", &http.Cookie{Name: "hangman_token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", `{"username":"alice","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := cookie(rec, "hangman_token")
	require.NotNil(t, tok)

	rec = do(t, s, http.MethodPost, "/auth/signup", `{"username":"Alice","password":"correct horse"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodGet, "/auth/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[authUser](t, rec).Username)

	// AI wins DOG, loses on a word outside the dictionary
	for _, word := range []string{"dog", "zzz"} {
		rec = do(t, s, http.MethodPost, "/rounds", `{"word":"`+word+`"}`, tok)
		require.Equal(t, http.StatusCreated, rec.Code)
		id := decode[game.Snapshot](t, rec).ID
		rec = do(t, s, http.MethodPost, "/rounds/"+id+"/play", "", tok)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/stats/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, stats["roundsPosed"])
	assert.EqualValues(t, 1, stats["aiWins"])
	assert.EqualValues(t, 1, stats["stumps"])
	assert.EqualValues(t, 1, stats["stumpStreak"])

	rec = do(t, s, http.MethodGet, "/rounds/mine", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]history.Round](t, rec), 2)

	rec = do(t, s, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", `{"username":"alice","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookie(rec, "hangman_token"))

	rec = do(t, s, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, cookie(rec, "hangman_token").MaxAge)
}

func TestLoginClaimsGuestRounds(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/rounds", `{"word":"cat"}`)
	id := decode[game.Snapshot](t, rec).ID
	rec = do(t, s, http.MethodPost, "/rounds/"+id+"/play", "")
	anon := cookie(rec, anonCookieName)
	require.NotNil(t, anon)

	rec = do(t, s, http.MethodPost, "/auth/signup", `{"username":"bob_1","password":"hunter2hunter2"}`, anon)
	require.Equal(t, http.StatusOK, rec.Code)
	tok := cookie(rec, "hangman_token")

	rec = do(t, s, http.MethodGet, "/rounds/mine", "", tok)
	rounds := decode[[]history.Round](t, rec)
	require.Len(t, rounds, 1)
	assert.Equal(t, "CAT", rounds[0].Secret)
}

func TestDailyPlaysOncePerDate(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/daily", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[daily.Result](t, rec)
	assert.Equal(t, "2026-10-17", first.Date)
	assert.Contains(t, []string{"CAT", "COT", "DOG"}, first.Secret)
	assert.Equal(t, "won", first.Outcome)

	rec = do(t, s, http.MethodGet, "/daily", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, decode[daily.Result](t, rec))

	s.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	rec = do(t, s, http.MethodGet, "/daily", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/daily/history?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[[]daily.Result](t, rec)
	require.Len(t, hist, 2)
	assert.Equal(t, "2026-10-18", hist[0].Date)
}

func TestFinishedRoundsAreEvicted(t *testing.T) {
	s := newTestServer(t)
	s.cfg.RoundRetention = 20 * time.Millisecond

	rec := do(t, s, http.MethodPost, "/rounds", `{"word":"cat"}`)
	live := decode[game.Snapshot](t, rec).ID

	var finished []string
	for i := 0; i < 5; i++ {
		rec = do(t, s, http.MethodPost, "/rounds", `{"word":"dog"}`)
		id := decode[game.Snapshot](t, rec).ID
		rec = do(t, s, http.MethodPost, "/rounds/"+id+"/play", "")
		require.Equal(t, http.StatusOK, rec.Code)
		finished = append(finished, id)
	}

	require.Eventually(t, func() bool {
		for _, id := range finished {
			if _, err := s.store.Get(context.Background(), id); !errors.Is(err, store.ErrNotFound) {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	rec = do(t, s, http.MethodGet, "/rounds/"+finished[0], "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// unfinished games stay
	rec = do(t, s, http.MethodGet, "/rounds/"+live, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorBodiesAreValidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/auth/signup",
		`{"username":"erin","password":"`+strings.Repeat("p", 73)+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be 8–72 bytes", decode[map[string]string](t, rec)["error"])

	rec = do(t, s, http.MethodPost, "/auth/signup",
		`{"username":"erin","password":"`+strings.Repeat("p", 72)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, `/no"such`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, `/no"such`, body["path"])
}

func TestDailyWithEmptyDictionary(t *testing.T) {
	s := newTestServerWith(t, words.New(nil))

	rec := do(t, s, http.MethodGet, "/daily", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_dictionary")

	rec = do(t, s, http.MethodGet, "/daily/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]daily.Result](t, rec))
}
