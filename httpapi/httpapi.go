// Package httpapi implements the §6 HTTP API: the small request/
// response layer a UI server embeds around the engine façade. It is
// an external collaborator per spec.md §1 — the browser UI itself is
// out of scope — but the routes it exposes are part of this spec.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	hexwar40k "github.com/castellan-labs/hexwar40k"
)

// Server wraps one Engine per game id behind the JSON routes spec.md
// §6 names. It does not itself run training; it is the UI-facing
// surface only.
type Server struct {
	mu     sync.Mutex
	games  map[string]*gameSession
	cfg    *hexwar40k.ResolvedConfig
	log    zerolog.Logger
	upgrader websocket.Upgrader
}

type gameSession struct {
	// mu serializes every engine.Step/engine.State access for this
	// session: two concurrent POSTs for the same game_id must not race
	// on GameState's slices/maps.
	mu          sync.Mutex
	engine      *hexwar40k.Engine
	bot         hexwar40k.Bot
	listenersMu sync.Mutex
	listeners   map[chan []byte]struct{}
}

// broadcast fans a serialized state snapshot out to every websocket
// reader registered via handleStream. A listener whose buffered
// channel is full misses this snapshot but stays registered, so a slow
// client never blocks the action path.
func (sess *gameSession) broadcast(payload []byte) {
	sess.listenersMu.Lock()
	defer sess.listenersMu.Unlock()
	for ch := range sess.listeners {
		select {
		case ch <- payload:
		default:
		}
	}
}

func (sess *gameSession) subscribe() chan []byte {
	ch := make(chan []byte, 4)
	sess.listenersMu.Lock()
	if sess.listeners == nil {
		sess.listeners = make(map[chan []byte]struct{})
	}
	sess.listeners[ch] = struct{}{}
	sess.listenersMu.Unlock()
	return ch
}

func (sess *gameSession) unsubscribe(ch chan []byte) {
	sess.listenersMu.Lock()
	delete(sess.listeners, ch)
	sess.listenersMu.Unlock()
}

// NewServer builds an HTTP API server sharing one read-only
// ResolvedConfig snapshot across every game session it creates
// (spec.md §5: "workers may share immutable references").
func NewServer(cfg *hexwar40k.ResolvedConfig, log zerolog.Logger) *Server {
	return &Server{
		games: make(map[string]*gameSession),
		cfg:   cfg,
		log:   log,
	}
}

// Router builds the gorilla/mux router for the four §6 routes plus
// the /game/stream websocket feed SPEC_FULL.md §3 adds.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/game/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/game/action", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/game/ai-turn", s.handleAITurn).Methods(http.MethodPost)
	r.HandleFunc("/game/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/game/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

type startRequest struct {
	GameID  string `json:"game_id"`
	PveMode bool   `json:"pve_mode"`
	Seed    int64  `json:"seed"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	engine := hexwar40k.NewEngine(s.cfg, map[int]string{0: "agent", 1: "opponent"}, 0)
	engine.SetLogger(s.log.With().Str("game_id", req.GameID).Logger())
	obs, info, err := engine.Reset(r.Context(), req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	s.games[req.GameID] = &gameSession{engine: engine, bot: hexwar40k.GreedyBot{}}
	s.mu.Unlock()
	writeJSON(w, map[string]any{"observation": obs, "info": info})
}

// actionRequest accepts both wire forms spec.md §6 names for
// POST /game/action: Action is either a raw Discrete(12) id (number)
// or a semantic action tag (string) paired with UnitID and one of
// DestCol/DestRow or TargetID.
type actionRequest struct {
	GameID   string          `json:"game_id"`
	Action   json.RawMessage `json:"action"`
	UnitID   string          `json:"unitId"`
	DestCol  int             `json:"destCol"`
	DestRow  int             `json:"destRow"`
	TargetID string          `json:"targetId"`
}

func (s *Server) session(gameID string) (*gameSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.games[gameID]
	return sess, ok
}

// resolveActionID decodes either wire form of req.Action into the raw
// id sess.engine.Step expects, dispatching semantic actions through
// DecodeSemanticAction/EncodeAction rather than executing them
// directly, so both forms share the one legality and logging path.
func resolveActionID(sess *gameSession, req actionRequest) (int, error) {
	var id int
	if err := json.Unmarshal(req.Action, &id); err == nil {
		return id, nil
	}
	var tag string
	if err := json.Unmarshal(req.Action, &tag); err != nil {
		return 0, err
	}
	kind, ok := hexwar40k.ParseActionKind(tag)
	if !ok {
		return 0, &unknownActionKindError{tag: tag}
	}
	action, err := hexwar40k.DecodeSemanticAction(sess.engine.State, kind, req.UnitID, req.DestCol, req.DestRow, req.TargetID)
	if err != nil {
		return 0, err
	}
	return hexwar40k.EncodeAction(action), nil
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, ok := s.session(req.GameID)
	if !ok {
		writeError(w, http.StatusNotFound, errGameNotFound(req.GameID))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	actionID, err := resolveActionID(sess, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	obs, reward, terminated, truncated, info := sess.engine.Step(actionID)
	writeJSON(w, map[string]any{
		"observation": obs, "reward": reward, "terminated": terminated,
		"truncated": truncated, "info": info,
	})
	if payload, err := json.Marshal(serializeState(sess.engine.State)); err == nil {
		sess.broadcast(payload)
	}
}

func (s *Server) handleAITurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, ok := s.session(req.GameID)
	if !ok {
		writeError(w, http.StatusNotFound, errGameNotFound(req.GameID))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	mask := hexwar40k.GetActionMask(sess.engine.State)
	action, err := sess.bot.Act(sess.engine.State, mask)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	obs, reward, terminated, truncated, info := sess.engine.Step(action)
	writeJSON(w, map[string]any{
		"observation": obs, "reward": reward, "terminated": terminated,
		"truncated": truncated, "info": info,
	})
	if payload, err := json.Marshal(serializeState(sess.engine.State)); err == nil {
		sess.broadcast(payload)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	sess, ok := s.session(gameID)
	if !ok {
		writeError(w, http.StatusNotFound, errGameNotFound(gameID))
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, serializeState(sess.engine.State))
}

// serializeState converts the five tracking sets to lists for JSON
// (spec.md §6: "GET /game/state returning the serialised GameState
// with sets converted to lists").
func serializeState(state *hexwar40k.GameState) map[string]any {
	return map[string]any{
		"turn":            state.Turn,
		"current_player":  state.CurrentPlayer,
		"phase":           state.Phase,
		"game_over":       state.GameOver,
		"winner":          state.Winner,
		"units":           state.Units,
		"units_moved":     setToList(state.UnitsMoved),
		"units_fled":      setToList(state.UnitsFled),
		"units_shot":      setToList(state.UnitsShot),
		"units_charged":   setToList(state.UnitsCharged),
		"units_attacked":  setToList(state.UnitsAttacked),
		"action_logs":     state.ActionLogs,
	}
}

// setToList converts one of GameState's tracking sets to a stable,
// sorted id list so JSON output is deterministic across calls.
func setToList(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// handleStream pushes a state snapshot over a websocket immediately on
// connect, then again whenever handleAction/handleAITurn advances this
// game_id's engine — this is additive relative to spec.md §6 (push
// instead of poll), not a replacement route.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	sess, ok := s.session(gameID)
	if !ok {
		writeError(w, http.StatusNotFound, errGameNotFound(gameID))
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sess.mu.Lock()
	initial, err := json.Marshal(serializeState(sess.engine.State))
	sess.mu.Unlock()
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
		return
	}

	ch := sess.subscribe()
	defer sess.unsubscribe(ch)

	// Drain client-initiated control/close frames so the read side
	// notices a disconnect; this stream never accepts client payloads.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func errGameNotFound(id string) error {
	return &gameNotFoundError{id: id}
}

type gameNotFoundError struct{ id string }

func (e *gameNotFoundError) Error() string { return "no game session with id " + e.id }

type unknownActionKindError struct{ tag string }

func (e *unknownActionKindError) Error() string { return "unknown action kind " + e.tag }
