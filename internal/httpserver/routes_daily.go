// internal/httpserver/routes_daily.go
//
// HTTP routes for the word of the day.
// Exposes two endpoints under /daily:
//   - GET /daily          → today's word played by the AI (played on first request)
//   - GET /daily/history  → past daily results, newest first (?limit=N, default 20)
//
// The word is chosen deterministically from date + salt; the AI plays it at
// most once per date and the result is stored in daily_results.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman-ai/internal/daily"
	"github.com/robalobadob/hangman-ai/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv *Server
	mu  sync.Mutex // serializes first plays of a date
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", dd.handleToday)
		r.Get("/history", dd.handleHistory)
	})
}

// handleToday returns today's result, letting the AI play it if nobody asked yet.
func (d *dailyServer) handleToday(w http.ResponseWriter, r *http.Request) {
	s := d.srv
	now := s.now()
	date := daily.DateKey(now)
	idx, word, ok := daily.Pick(now, s.cfg.DailySalt, s.dict)
	if !ok {
		http.Error(w, `{"error":"empty_dictionary"}`, http.StatusServiceUnavailable)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := s.daily.Get(r.Context(), date)
	if err == nil {
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	if !errors.Is(err, daily.ErrNoResult) {
		log.Error().Err(err).Str("date", date).Msg("load daily")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	g, err := game.New(word, s.dict.Words())
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily word rejected")
		http.Error(w, `{"error":"bad_daily_word"}`, http.StatusInternalServerError)
		return
	}
	if _, err := g.Play(); err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily play")
		http.Error(w, `{"error":"play_failed"}`, http.StatusInternalServerError)
		return
	}
	snap := g.Snapshot()
	if err := s.daily.InsertResult(r.Context(), daily.Result{
		Date:      date,
		WordIndex: idx,
		Secret:    snap.Secret,
		Guesses:   snap.Guessed,
		Wrong:     snap.Wrong,
		Outcome:   string(snap.State),
	}); err != nil {
		log.Error().Err(err).Str("date", date).Msg("store daily")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("date", date).Str("outcome", string(snap.State)).Msg("daily played")

	res, err = s.daily.Get(r.Context(), date)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleHistory lists stored daily results.
func (d *dailyServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 100 {
		limit = 100
	}
	rows, err := d.srv.daily.History(r.Context(), limit)
	if err != nil {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}
