package connection

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

func TestClaimSeat(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	host, err := bsm.ClaimSeat("game1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if host != mb.PlayerA {
		t.Fatalf("expected player: %s\tgot: %s", mb.PlayerA, host)
	}

	join, err := bsm.ClaimSeat("game1", "s2")
	if err != nil {
		t.Fatal(err)
	}
	if join != mb.PlayerB {
		t.Fatalf("expected player: %s\tgot: %s", mb.PlayerB, join)
	}

	again, err := bsm.ClaimSeat("game1", "s1")
	if err != nil || again != mb.PlayerA {
		t.Fatalf("expected seat to be kept\tgot: %s %v", again, err)
	}

	if _, err := bsm.ClaimSeat("game1", "s3"); !errors.Is(err, cerr.ErrGameFull) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrGameFull, err)
	}

	sessionId, ok := bsm.SeatedSession("game1", mb.PlayerB)
	if !ok || sessionId != "s2" {
		t.Fatalf("expected session: s2\tgot: %s", sessionId)
	}
}

func TestReleaseSeat(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	_, _ = bsm.ClaimSeat("game1", "s1")
	_, _ = bsm.ClaimSeat("game1", "s2")

	remaining, ok := bsm.ReleaseSeat("game1", mb.PlayerA)
	if !ok || remaining != "s2" {
		t.Fatalf("expected remaining: s2\tgot: %s", remaining)
	}

	// the freed seat is taken by the next joiner
	player, err := bsm.ClaimSeat("game1", "s3")
	if err != nil {
		t.Fatal(err)
	}
	if player != mb.PlayerA {
		t.Fatalf("expected player: %s\tgot: %s", mb.PlayerA, player)
	}

	_, _ = bsm.ReleaseSeat("game1", mb.PlayerA)
	if _, ok := bsm.ReleaseSeat("game1", mb.PlayerB); ok {
		t.Fatal("expected no session left in the game")
	}
	if _, ok := bsm.SeatedSession("game1", mb.PlayerB); ok {
		t.Fatal("expected empty seat")
	}
}

func TestSessionLifecycle(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	session := bsm.GenerateNewSession(nil)

	found, err := bsm.FindSession(session.Id())
	if err != nil {
		t.Fatal(err)
	}
	if found != session {
		t.Fatal("expected the generated session")
	}
	if bsm.SessionCount() != 1 {
		t.Fatalf("expected sessions: 1\tgot: %d", bsm.SessionCount())
	}

	session.createdAt = time.Now().Add(-time.Hour)
	if n := bsm.removeStale(time.Minute * 30); n != 1 {
		t.Fatalf("expected removed: 1\tgot: %d", n)
	}
	if _, err := bsm.FindSession(session.Id()); !errors.Is(err, cerr.ErrSessionNotFound) {
		t.Fatalf("expected err: %v\tgot: %v", cerr.ErrSessionNotFound, err)
	}
	if bsm.SessionCount() != 0 {
		t.Fatalf("expected sessions: 0\tgot: %d", bsm.SessionCount())
	}
}

func TestRemoveStaleKeepsSeatedSessions(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	host := bsm.GenerateNewSession(nil)
	host.createdAt = time.Now().Add(-time.Minute * 41)
	if _, err := bsm.ClaimSeat("g1", host.Id()); err != nil {
		t.Fatal(err)
	}

	if n := bsm.removeStale(time.Minute * 40); n != 0 {
		t.Fatalf("expected removed: 0\tgot: %d", n)
	}
	if _, err := bsm.FindSession(host.Id()); err != nil {
		t.Fatalf("seated session must survive cleanup: %v", err)
	}
	if !bsm.HasSeats("g1") {
		t.Fatal("expected the seat to be kept")
	}

	// A seat whose session is gone is cleared
	if _, err := bsm.ClaimSeat("g1", "ghost"); err != nil {
		t.Fatal(err)
	}
	if _, err := bsm.ClaimSeat("g2", "ghost"); err != nil {
		t.Fatal(err)
	}
	_ = bsm.removeStale(time.Minute * 40)

	if _, ok := bsm.SeatedSession("g1", mb.PlayerB); ok {
		t.Fatal("expected the seat of a missing session to be freed")
	}
	if sessionId, ok := bsm.SeatedSession("g1", mb.PlayerA); !ok || sessionId != host.Id() {
		t.Fatalf("expected host in seat A\tgot: %s", sessionId)
	}
	if bsm.HasSeats("g2") {
		t.Fatal("expected a game without live sessions to lose its seats")
	}
}

func TestRemoveStaleClosesConnection(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	sessions := make(chan *Session, 1)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sessions <- bsm.GenerateNewSession(conn)
	}))
	defer server.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	var session *Session
	select {
	case session = <-sessions:
	case <-time.After(time.Second * 5):
		t.Fatal("no session was created")
	}

	session.createdAt = time.Now().Add(-time.Hour)
	if n := bsm.removeStale(time.Minute * 40); n != 1 {
		t.Fatalf("expected removed: 1\tgot: %d", n)
	}

	_ = client.SetReadDeadline(time.Now().Add(time.Second * 5))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Fatal("expected the stale connection to be closed")
	}
}

func TestFetchCodeFromMsg(t *testing.T) {
	code, err := FetchCodeFromMsg([]byte(`{"code": 6, "payload": {"row": 1, "col": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	if code != CodeAttack {
		t.Fatalf("expected code: %d\tgot: %d", CodeAttack, code)
	}

	if _, err := FetchCodeFromMsg([]byte(`{"payload": {}}`)); err == nil {
		t.Fatal("expected an error for a frame without code")
	}
	if _, err := FetchCodeFromMsg([]byte(`not json`)); err == nil {
		t.Fatal("expected an error for a malformed frame")
	}

	req, err := DecodePayload[ReqAttack]([]byte(`{"code": 6, "payload": {"row": 1, "col": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	if req.Row != 1 || req.Col != 2 {
		t.Fatalf("unexpected payload: %+v", req)
	}
}
