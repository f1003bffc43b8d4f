package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/identity"
	ledgerclient "github.com/vietddude/boxoffice/internal/infra/ledger"
	"github.com/vietddude/boxoffice/internal/infra/rpc"
	"github.com/vietddude/boxoffice/internal/session"
	"github.com/vietddude/boxoffice/internal/workflow"
)

type stubLedger struct {
	admin    bool
	events   []domain.Event
	pending  []domain.Event
	nextID   uint64
	buyErr   error
	buyCalls int
}

func (s *stubLedger) GetEvents(_ context.Context, _ domain.Filter) ([]domain.Event, error) {
	return s.events, nil
}

func (s *stubLedger) GetCategories(_ context.Context) ([]string, error) {
	return []string{"Concerts"}, nil
}

func (s *stubLedger) IsAdmin(_ context.Context) (bool, error) {
	return s.admin, nil
}

func (s *stubLedger) CreateEvent(_ context.Context, _ ledgerclient.CreateEventArgs) (uint64, error) {
	s.nextID++
	return s.nextID, nil
}

func (s *stubLedger) GetPendingEvents(_ context.Context) ([]domain.Event, error) {
	return s.pending, nil
}

func (s *stubLedger) ApproveEvent(_ context.Context, eventID uint64, _ bool, _ string) error {
	remaining := s.pending[:0]
	for _, e := range s.pending {
		if e.ID != eventID {
			remaining = append(remaining, e)
		}
	}
	s.pending = remaining
	return nil
}

func (s *stubLedger) GetOrganizer(_ context.Context, _ uint64) (domain.Principal, bool, error) {
	return "", false, nil
}

func (s *stubLedger) BuyTicket(_ context.Context, _ uint64) (uint64, error) {
	s.buyCalls++
	if s.buyErr != nil {
		return 0, s.buyErr
	}
	s.nextID++
	return s.nextID, nil
}

func newTestServer(t *testing.T, stub *stubLedger, identity domain.Principal) *Server {
	t.Helper()

	handle := session.NewHandle(func(caller domain.Principal) *ledgerclient.Actor {
		return ledgerclient.New(rpc.NewRouter(), caller)
	})
	if identity != "" {
		if err := handle.Bind(identity); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
	}

	deps := Deps{
		Catalog:     workflow.NewCatalogService(func() workflow.CatalogLedger { return stub }, nil),
		Moderation:  workflow.NewModerationService(func() workflow.ModerationLedger { return stub }, handle, nil, nil),
		Purchase:    workflow.NewPurchaseService(func() workflow.PurchaseLedger { return stub }, handle, nil),
		Session:     handle,
		DefaultLang: "en",
	}
	return NewServer(deps, 0)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("{}")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, decoded
}

func TestSearch_FormatsPrices(t *testing.T) {
	stub := &stubLedger{events: []domain.Event{
		{ID: 1, Name: "Jazz Night", PriceE8s: 250_000_000, Status: domain.EventStatusApproved},
	}}
	srv := newTestServer(t, stub, "")

	rec, body := doJSON(t, srv, "GET", "/events?city=Kyiv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	events := body["events"].([]any)
	first := events[0].(map[string]any)
	if first["price"] != "2.5" {
		t.Errorf("price = %v, want 2.5", first["price"])
	}
	if body["lang"] != "en" {
		t.Errorf("lang = %v, want default en", body["lang"])
	}
}

func TestSearch_LangParamOverridesDefault(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "")

	_, body := doJSON(t, srv, "GET", "/events?lang=ua", "")
	if body["lang"] != "ua" {
		t.Errorf("lang = %v, want ua", body["lang"])
	}
}

func TestSubmit_RequiresAuthentication(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "")

	rec, _ := doJSON(t, srv, "POST", "/events",
		`{"name":"X","date":"2026-10-01","city":"Kyiv","category":"Concerts","price":"1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSubmit_CreatesEvent(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "w7x-organizer")

	rec, body := doJSON(t, srv, "POST", "/events",
		`{"name":"Jazz Night","date":"2026-10-01","city":"Kyiv","category":"Concerts","price":"2.5"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["status"] != "pending" {
		t.Errorf("status field = %v, want pending", body["status"])
	}
}

func TestPending_ForbiddenForNonAdmin(t *testing.T) {
	srv := newTestServer(t, &stubLedger{admin: false}, "w7x-user")

	rec, _ := doJSON(t, srv, "GET", "/admin/pending", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestModerate_ReturnsRefreshedQueue(t *testing.T) {
	stub := &stubLedger{
		admin: true,
		pending: []domain.Event{
			{ID: 7, Name: "Jazz Night"},
			{ID: 8, Name: "Derby Final"},
		},
	}
	srv := newTestServer(t, stub, "w7x-admin")

	rec, body := doJSON(t, srv, "POST", "/admin/events/7/moderate", `{"decision":"reject"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	events := body["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("queue length = %d, want 1", len(events))
	}
}

func TestModerate_RejectsUnknownDecision(t *testing.T) {
	srv := newTestServer(t, &stubLedger{admin: true}, "w7x-admin")

	rec, _ := doJSON(t, srv, "POST", "/admin/events/7/moderate", `{"decision":"maybe"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPurchase_ReturnsTicketID(t *testing.T) {
	stub := &stubLedger{}
	srv := newTestServer(t, stub, "w7x-buyer")

	rec, body := doJSON(t, srv, "POST", "/events/3/purchase", `{"priceE8s":100000000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["ticketId"] == nil {
		t.Error("missing ticketId")
	}
}

func TestPurchase_ConflictMapsTo409(t *testing.T) {
	stub := &stubLedger{buyErr: fmt.Errorf("%w", domain.ErrEventNotApproved)}
	srv := newTestServer(t, stub, "w7x-buyer")

	rec, body := doJSON(t, srv, "POST", "/events/3/purchase", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if body["retryable"] != false {
		t.Errorf("conflict reported as retryable")
	}
}

func TestCardPayment_NoLedgerCall(t *testing.T) {
	stub := &stubLedger{}
	srv := newTestServer(t, stub, "w7x-buyer")

	rec, body := doJSON(t, srv, "POST", "/events/3/purchase/card", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["reference"] == "" || body["reference"] == nil {
		t.Error("missing payment reference")
	}
	if stub.buyCalls != 0 {
		t.Errorf("card path made %d ledger calls", stub.buyCalls)
	}
}

func TestLogin_BindsSessionAfterResponse(t *testing.T) {
	// The provider answers only once released, so the handshake is still
	// in flight when the /login response has already gone out.
	release := make(chan struct{})
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"authenticated":true,"principal":"w7x-user"}`))
	}))
	defer provider.Close()

	srv := newTestServer(t, &stubLedger{}, "")
	srv.deps.Identity = identity.NewClient(identity.Config{Provider: provider.URL})

	front := httptest.NewServer(srv.Handler())
	defer front.Close()

	resp, err := http.Post(front.URL+"/login", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /login failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if principal, ok := srv.deps.Session.Identity(); ok {
			if principal != "w7x-user" {
				t.Fatalf("bound principal = %q, want w7x-user", principal)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session never bound after /login")
}

func TestSession_ReportsState(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "")
	_, body := doJSON(t, srv, "GET", "/session", "")
	if body["state"] != "unauthenticated" {
		t.Errorf("state = %v", body["state"])
	}

	srv = newTestServer(t, &stubLedger{}, "w7x-user")
	_, body = doJSON(t, srv, "GET", "/session", "")
	if body["state"] != "authenticated" || body["principal"] != "w7x-user" {
		t.Errorf("unexpected session body: %v", body)
	}
}

func TestReceipts_EmptyWithoutStore(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "w7x-user")

	rec, body := doJSON(t, srv, "GET", "/me/receipts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if receipts := body["receipts"].([]any); len(receipts) != 0 {
		t.Errorf("receipts = %v, want empty", receipts)
	}
}

func TestHealthz_DegradedOnFailingCheck(t *testing.T) {
	srv := newTestServer(t, &stubLedger{}, "")
	srv.deps.Health = map[string]HealthChecker{
		"ledger": func(_ context.Context) error { return nil },
		"redis":  func(_ context.Context) error { return errors.New("connection refused") },
	}

	rec, body := doJSON(t, srv, "GET", "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if body["status"] != "degraded" {
		t.Errorf("status field = %v", body["status"])
	}
}
