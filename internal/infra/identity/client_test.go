package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

func sessionServer(t *testing.T, authenticated bool, principal string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": authenticated,
			"principal":     principal,
		})
	}))
}

func TestClient_IsAuthenticated(t *testing.T) {
	server := sessionServer(t, true, "user-1")
	defer server.Close()

	c := NewClient(Config{Endpoint: server.URL})
	ok, err := c.IsAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("IsAuthenticated: %v", err)
	}
	if !ok {
		t.Error("expected authenticated session")
	}
}

func TestClient_Identity_Unauthenticated(t *testing.T) {
	server := sessionServer(t, false, "")
	defer server.Close()

	c := NewClient(Config{Endpoint: server.URL})
	_, err := c.Identity(context.Background())
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestClient_Login_CallbackOnSuccess(t *testing.T) {
	provider := sessionServer(t, true, "user-9")
	defer provider.Close()

	c := NewClient(Config{})
	done := make(chan domain.Principal, 1)
	c.Login(context.Background(), provider.URL, func(p domain.Principal) {
		done <- p
	})

	select {
	case p := <-done:
		if p != "user-9" {
			t.Errorf("principal = %q", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("login callback never fired")
	}
}

func TestClient_Login_NoCallbackOnFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer provider.Close()

	c := NewClient(Config{})
	done := make(chan domain.Principal, 1)
	c.Login(context.Background(), provider.URL, func(p domain.Principal) {
		done <- p
	})

	select {
	case p := <-done:
		t.Fatalf("callback fired on failed login with %q", p)
	case <-time.After(300 * time.Millisecond):
	}
}
