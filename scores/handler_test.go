package scores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*httptest.Server, *FileStore) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "scores.json"))
	mux := http.NewServeMux()
	mux.Handle("/api/scores", Handler(store, nil))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestHandlerPostThenGet(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"name":"AMY","score":300,"height":42}`
	resp, err := http.Post(srv.URL+"/api/scores", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var ok map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&ok)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || ok["success"] != true {
		t.Fatalf("status=%d body=%v", resp.StatusCode, ok)
	}

	resp, err = http.Get(srv.URL + "/api/scores")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Scores) != 1 || doc.Scores[0].Name != "AMY" {
		t.Fatalf("scores=%+v", doc.Scores)
	}
	if doc.Scores[0].ID == "" || doc.Scores[0].Timestamp == "" {
		t.Fatalf("id/timestamp not filled: %+v", doc.Scores[0])
	}
}

func TestHandlerRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{`, `{"name":"lower","score":1}`} {
		resp, err := http.Post(srv.URL+"/api/scores", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q status=%d", body, resp.StatusCode)
		}
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/scores", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("delete status=%d", resp.StatusCode)
	}
}

func TestClientRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	if err := c.Submit(ctx, mustRecord(t, "LOW", 10, 1)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Submit(ctx, mustRecord(t, "HIGH", 99, 2)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	recs, err := c.Top(ctx, 1)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "HIGH" {
		t.Fatalf("top=%+v", recs)
	}
	local, _ := store.Top(ctx, 0)
	if len(local) != 2 {
		t.Fatalf("store has %d records", len(local))
	}

	if err := c.Submit(ctx, Record{ID: "x", Name: "bad", Timestamp: "t"}); err == nil {
		t.Fatalf("expected server-side rejection")
	}
}
