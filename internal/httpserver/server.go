// internal/httpserver/server.go
//
// HTTP server wiring for the hangman AI.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Round endpoints (optional auth): POST /rounds, POST /rounds/{id}/guess,
//     POST /rounds/{id}/play, GET /rounds/{id}.
//   - Word of the day (optional auth): mounted under /daily.
//   - Auth + challenger stats (see auth.go).
//
// Notes:
//   - Live games sit in the in-memory store; a round is written to the history
//     database once, by the request that finishes it.
//   - The owner of a finished round is whoever finishes it: the signed-in user,
//     else the anonymous cookie of that browser.
//   - Finished games stay in the live store for cfg.RoundRetention, then go.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman-ai/internal/config"
	"github.com/robalobadob/hangman-ai/internal/daily"
	"github.com/robalobadob/hangman-ai/internal/game"
	"github.com/robalobadob/hangman-ai/internal/history"
	"github.com/robalobadob/hangman-ai/internal/solver"
	"github.com/robalobadob/hangman-ai/internal/store"
	"github.com/robalobadob/hangman-ai/internal/words"
)

// Server bundles router, live game store, history database and dictionary.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	dict  words.Dictionary
	store store.Store
	hist  *history.Store
	daily *daily.Store
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, dict words.Dictionary, st store.Store, hist *history.Store) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		dict:  dict,
		store: st,
		hist:  hist,
		daily: daily.NewStore(hist.DB()),
		now:   time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-ai","endpoints":["/health","POST /rounds","POST /rounds/{id}/guess","POST /rounds/{id}/play","/daily","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"words": s.dict.Len(), "byLength": s.dict.Lengths()})
	})

	// Rounds — OPTIONAL AUTH (guests can challenge the AI)
	s.r.With(s.withOptionalAuth()).Post("/rounds", s.handleNewRound)
	s.r.With(s.withOptionalAuth()).Post("/rounds/{id}/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Post("/rounds/{id}/play", s.handlePlay)
	s.r.Get("/rounds/{id}", s.handleGetRound)

	// Word of the day
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// writeJSON marshals v as the response body; use it whenever the body
// carries text that did not come from a literal.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encode_failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ ROUNDS -------------------------------------

type newRoundReq struct {
	Word string `json:"word"` // the secret the AI has to find
}

// handleNewRound starts a game against the posted word.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	g, err := game.New(req.Word, s.dict.Words())
	if err != nil {
		var lenErr *solver.InvalidWordLengthError
		switch {
		case errors.As(err, &lenErr):
			http.Error(w, `{"error":"invalid_word_length"}`, http.StatusBadRequest)
		case errors.Is(err, game.ErrInvalidSecret):
			http.Error(w, `{"error":"letters_only"}`, http.StatusBadRequest)
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("gameId", g.ID).Int("length", len(g.Secret)).Msg("round started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

type guessRes struct {
	Turn      game.Turn      `json:"turn"`
	Board     string         `json:"board"`
	State     solver.Outcome `json:"state"`
	Remaining int            `json:"remaining"`
	Secret    string         `json:"secret,omitempty"`
}

// handleGuess lets the AI take one turn.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	turn, err := g.Step()
	if errors.Is(err, solver.ErrRoundOver) {
		http.Error(w, `{"error":"round_finished"}`, http.StatusConflict)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("step")
		http.Error(w, `{"error":"step_failed"}`, http.StatusInternalServerError)
		return
	}

	snap := g.Snapshot()
	if snap.State.Terminal() {
		s.recordRound(w, r, snap)
	}
	_ = json.NewEncoder(w).Encode(guessRes{
		Turn:      turn,
		Board:     snap.Board,
		State:     snap.State,
		Remaining: snap.Remaining,
		Secret:    snap.Secret,
	})
}

// handlePlay lets the AI play until the round ends.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	turns, err := g.Play()
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("play")
		http.Error(w, `{"error":"play_failed"}`, http.StatusInternalServerError)
		return
	}

	snap := g.Snapshot()
	if len(turns) > 0 {
		s.recordRound(w, r, snap)
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// handleGetRound returns the current game view.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// recordRound persists a finished round (best effort, non-fatal if it fails).
func (s *Server) recordRound(w http.ResponseWriter, r *http.Request, snap game.Snapshot) {
	s.evictLater(snap.ID)
	rec := history.Round{
		ID:         snap.ID,
		Secret:     snap.Secret,
		Guesses:    snap.Guessed,
		Wrong:      snap.Wrong,
		Outcome:    string(snap.State),
		FinishedAt: s.now().UTC(),
	}
	if me := currentUser(r); me != nil {
		rec.UserID = me.ID
	} else {
		rec.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.hist.RecordRound(r.Context(), rec); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("record round")
		return
	}
	log.Info().Str("gameId", snap.ID).Str("outcome", rec.Outcome).Int("guesses", len(rec.Guesses)).Msg("round finished")
}

// evictLater drops a finished game from the live store after the retention window.
func (s *Server) evictLater(id string) {
	time.AfterFunc(s.cfg.RoundRetention, func() {
		if err := s.store.Delete(context.Background(), id); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("evict round")
			return
		}
		log.Debug().Str("gameId", id).Msg("round evicted")
	})
}
