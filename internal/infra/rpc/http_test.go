package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProvider_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if req.Method != "getCategories" {
			t.Errorf("expected method getCategories, got %s", req.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  []string{"Concerts", "Sports"},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, 5*time.Second)

	result, err := p.Call(context.Background(), "getCategories", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cats, ok := result.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", result)
	}
	if len(cats) != 2 || cats[0] != "Concerts" {
		t.Errorf("unexpected result: %v", cats)
	}

	health := p.GetHealth()
	if !health.Available {
		t.Error("provider should be available after a success")
	}
}

func TestHTTPProvider_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32000, "message": "event not pending"},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, 5*time.Second)

	_, err := p.Call(context.Background(), "approveEvent", map[string]any{"eventId": 7})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "ledger error: event not pending" {
		t.Errorf("error = %q, want remote message preserved", got)
	}
}

func TestHTTPProvider_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewHTTPProvider("mock", server.URL, 5*time.Second)

	_, err := p.Call(context.Background(), "getEvents", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if ClassifyError(err) != ActionFailover {
		t.Errorf("429 should classify as failover, got %v", ClassifyError(err))
	}
}
