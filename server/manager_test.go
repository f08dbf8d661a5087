package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestManager(t *testing.T) (*RoomManager, *httptest.Server) {
	t.Helper()
	cfg := DefaultRoomConfig()
	cfg.Seed = 7
	m := NewRoomManager(cfg, "lobby")
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	mux.HandleFunc("/admin/config", m.HandleAdminConfig)
	mux.HandleFunc("/metrics", m.HandleMetrics)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		m.Close()
	})
	return m, srv
}

func TestManagerGetOrCreateRoom(t *testing.T) {
	m, _ := newTestManager(t)
	a, err := m.GetOrCreateRoom("x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, _ := m.GetOrCreateRoom("x")
	if a != b {
		t.Fatalf("expected the same room instance")
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatalf("Get must not create rooms")
	}
	if ids := m.RoomIDs(); len(ids) != 1 || ids[0] != "x" {
		t.Fatalf("ids=%v", ids)
	}
}

func TestManagerDefaultCodec(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SetDefaultCodec("bson"); err == nil {
		t.Fatalf("expected unknown codec error")
	}
	if m.codec != JSONCodec {
		t.Fatalf("failed update must keep the json default")
	}
	if err := m.SetDefaultCodec("msgpack"); err != nil || m.codec != MsgpackCodec {
		t.Fatalf("codec=%v err=%v", m.codec.Name(), err)
	}
}

func TestHandleWSWelcome(t *testing.T) {
	_, srv := newTestManager(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?room=r1&player=alice"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m map[string]any
	if err := ws.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	if m["type"] != msgWelcome || m["player"] != "alice" || m["room"] != "r1" || m["pilot"] != true {
		t.Fatalf("welcome=%v", m)
	}

	if err := ws.WriteJSON(InputMessage{Type: "pause"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		var st map[string]any
		if err := ws.ReadJSON(&st); err != nil {
			t.Fatalf("waiting for paused state: %v", err)
		}
		if st["type"] != msgState {
			continue
		}
		if snap := st["snapshot"].(map[string]any); snap["paused"] == true {
			return
		}
	}
}

func TestHandleWSRejectsUnknownCodec(t *testing.T) {
	_, srv := newTestManager(t)
	resp, err := http.Get(srv.URL + "/ws?codec=xml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestAdminConfigAndMetrics(t *testing.T) {
	m, srv := newTestManager(t)

	resp, err := http.Get(srv.URL + "/metrics?room=nope")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("metrics for missing room status=%d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/admin/config", "application/json",
		strings.NewReader(`{"timeLimit":45,"broadcastEvery":3}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post status=%d", resp.StatusCode)
	}
	room, ok := m.Get("lobby")
	if !ok {
		t.Fatalf("admin should address the default room")
	}
	if room.Tuning().TimeLimit != 45 || room.broadcastEvery.Load() != 3 {
		t.Fatalf("patch not applied: limit=%v every=%d", room.Tuning().TimeLimit, room.broadcastEvery.Load())
	}

	resp, err = http.Post(srv.URL+"/admin/config", "application/json", strings.NewReader(`{"timeLimit":-1}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid patch status=%d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/admin/config")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var cur tuningPatch
	_ = json.NewDecoder(resp.Body).Decode(&cur)
	resp.Body.Close()
	if cur.TimeLimit == nil || *cur.TimeLimit != 45 {
		t.Fatalf("config=%+v", cur)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	resp.Body.Close()
	if payload["room"] != "lobby" || payload["metrics"] == nil || payload["game"] == nil {
		t.Fatalf("metrics payload=%v", payload)
	}
}
