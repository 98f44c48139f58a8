package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	hexwar40k "github.com/castellan-labs/hexwar40k"
)

func testConfig(t *testing.T) *hexwar40k.ResolvedConfig {
	t.Helper()
	src := hexwar40k.LocalFileSource{Dir: "../testdata"}
	cfg, err := hexwar40k.LoadResolvedConfig(context.Background(), src, "phase1-open.json", "registry.json", "rewards.json", "")
	if err != nil {
		t.Fatalf("loading resolved config: %v", err)
	}
	return cfg
}

func startGame(t *testing.T, srv *Server, gameID string) {
	t.Helper()
	body, _ := json.Marshal(startRequest{GameID: gameID, Seed: 1})
	req := httptest.NewRequest(http.MethodPost, "/game/start", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleStart(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("handleStart: status %d body %s", w.Code, w.Body.String())
	}
}

func TestHandleStartCreatesSessionWithGivenSeed(t *testing.T) {
	srv := NewServer(testConfig(t), zerolog.Nop())
	startGame(t, srv, "g1")
	sess, ok := srv.session("g1")
	if !ok {
		t.Fatalf("expected session g1 to exist")
	}
	if sess.engine.State == nil {
		t.Fatalf("expected engine state to be initialized after reset")
	}
}

func TestHandleActionConcurrentRequestsDoNotRace(t *testing.T) {
	srv := NewServer(testConfig(t), zerolog.Nop())
	startGame(t, srv, "g2")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(actionRequest{GameID: "g2", Action: json.RawMessage("11")})
			req := httptest.NewRequest(http.MethodPost, "/game/action", bytes.NewReader(body))
			w := httptest.NewRecorder()
			srv.handleAction(w, req)
		}()
	}
	wg.Wait()
}

func TestBroadcastDeliversToSubscribedListener(t *testing.T) {
	srv := NewServer(testConfig(t), zerolog.Nop())
	startGame(t, srv, "g3")
	sess, _ := srv.session("g3")

	ch := sess.subscribe()
	defer sess.unsubscribe(ch)

	sess.broadcast([]byte(`{"turn":1}`))

	select {
	case payload := <-ch:
		if string(payload) != `{"turn":1}` {
			t.Fatalf("unexpected payload: %s", payload)
		}
	default:
		t.Fatalf("expected broadcast payload to be buffered for the listener")
	}
}
