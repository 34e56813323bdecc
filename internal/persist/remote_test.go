package persist

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
)

// ============================================================
// Item sync
// ============================================================

func TestRemoteLoadItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/modules" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("unexpected auth header %q", got)
		}
		// Legacy field name in the payload still decodes.
		io.WriteString(w, `[{"id":"i1","category":"exam","name":"Algebra","examDate":"2026-09-10","tasks":[]}]`)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok123", nil)
	items, err := r.LoadItems("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].DueDate != "2026-09-10" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestRemoteSaveItems(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/modules" || r.Method != http.MethodPut {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL+"/", "tok123", nil) // trailing slash is trimmed
	err := r.SaveItems("alice", []plan.Item{{ID: "i1", Category: plan.CategoryDaily, Name: "Daily 1"}})
	if err != nil {
		t.Fatal(err)
	}

	var sent []plan.Item
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].ID != "i1" {
		t.Fatalf("unexpected payload: %s", gotBody)
	}
}

func TestRemoteLoadItemsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid token"}}`)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "expired", nil)
	_, err := r.LoadItems("alice")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("error should carry the server message, got %q", err)
	}
}

func TestRemoteSaveItemsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok", nil)
	err := r.SaveItems("alice", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry the body text, got %q", err)
	}
}

func TestRemoteTimerStaysLocal(t *testing.T) {
	// No server at all: timer reads and writes must never touch the network.
	local := newTestLocal(t)
	r := NewRemote("http://127.0.0.1:0", "tok", local)

	state, err := r.LoadTimer("alice")
	if err != nil {
		t.Fatal(err)
	}
	state.CompletedFocus = 2
	if err := r.SaveTimer("alice", state); err != nil {
		t.Fatal(err)
	}
	got, err := local.LoadTimer("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedFocus != 2 {
		t.Fatalf("expected state in the local store, got %+v", got)
	}
}

// ============================================================
// Auth
// ============================================================

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "alice" || creds["password"] != "hunter2" {
			t.Errorf("unexpected credentials %v", creds)
		}
		io.WriteString(w, `{"token":"tok123"}`)
	}))
	defer srv.Close()

	token, err := Login(srv.URL, "alice", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok123" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestLoginRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"code":"UNAUTHORIZED","message":"wrong password"}}`)
	}))
	defer srv.Close()

	_, err := Login(srv.URL, "alice", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "wrong password") {
		t.Fatalf("expected server message in error, got %q", err)
	}
}

func TestLoginMissingTokenIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	if _, err := Login(srv.URL, "alice", "pw"); err == nil {
		t.Fatal("2xx without a token should be an error")
	}
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"token":"fresh"}`)
	}))
	defer srv.Close()

	token, err := Register(srv.URL, "bob", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if token != "fresh" {
		t.Fatalf("unexpected token %q", token)
	}
}

// ============================================================
// Backend selection
// ============================================================

func TestChoose(t *testing.T) {
	local := newTestLocal(t)

	if b := Choose("", "", local); b != local {
		t.Fatal("empty api base should select the local backend")
	}
	if _, ok := Choose("http://example.com", "tok", local).(*Remote); !ok {
		t.Fatal("api base should select the remote backend")
	}
}
