package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/workflow"
)

// eventView is the JSON shape of an event. Price carries both the wire
// integer and the exact display rendering so the UI never does decimal
// arithmetic.
type eventView struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	City        string `json:"city"`
	Category    string `json:"category"`
	PriceE8s    uint64 `json:"priceE8s"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Status      string `json:"status"`
}

func toEventView(e domain.Event) eventView {
	return eventView{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		City:        e.City,
		Category:    string(e.Category),
		PriceE8s:    e.PriceE8s,
		Price:       domain.FormatPrice(e.PriceE8s),
		Description: e.Description,
		Image:       e.Image,
		Status:      string(e.Status),
	}
}

func toEventViews(events []domain.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toEventView(e))
	}
	return views
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		City:     q.Get("city"),
		Date:     q.Get("date"),
		Category: q.Get("category"),
	}

	events, err := s.deps.Catalog.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": toEventViews(events),
		"lang":   s.lang(r),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.Catalog.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

type submitRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	City        string `json:"city"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	id, err := s.deps.Moderation.Submit(r.Context(), workflow.SubmitInput{
		Name:        req.Name,
		Date:        req.Date,
		City:        req.City,
		Category:    domain.Category(req.Category),
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "status": string(domain.EventStatusPending)})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Moderation.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": toEventViews(events)})
}

type moderateRequest struct {
	Decision     string `json:"decision"` // approve | reject
	NameOverride string `json:"nameOverride"`
}

func (s *Server) handleModerate(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	var decision workflow.Decision
	switch req.Decision {
	case "approve":
		decision = workflow.DecisionApprove
	case "reject":
		decision = workflow.DecisionReject
	default:
		writeError(w, fmt.Errorf("%w: decision must be approve or reject", domain.ErrInvalidInput))
		return
	}

	queue, err := s.deps.Moderation.Moderate(r.Context(), eventID, decision, req.NameOverride)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": toEventViews(queue)})
}

func (s *Server) handleOrganizer(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	organizer, ok, err := s.deps.Moderation.ResolveOrganizer(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"organizer": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"organizer": organizer.Text()})
}

type purchaseRequest struct {
	PriceE8s uint64 `json:"priceE8s"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// The UI already holds the event it is buying; the snapshot is only
	// used for the local receipt, never sent to the ledger.
	var req purchaseRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	ticket, err := s.deps.Purchase.Purchase(r.Context(), domain.Event{
		ID:       eventID,
		PriceE8s: req.PriceE8s,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticketId": ticket.ID, "eventId": ticket.EventID})
}

func (s *Server) handleCardPayment(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := s.deps.Purchase.PayWithCard(r.Context(), domain.Event{ID: eventID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reference": payment.Reference})
}

type loginRequest struct {
	Provider string `json:"provider"`
}

// handleLogin starts the asynchronous identity handshake. The response
// is accepted-and-pending; the UI polls /session for the outcome.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	// The handshake outlives this request: net/http cancels r.Context()
	// as soon as the 202 goes out, which would abort the provider POST.
	loginCtx := context.WithoutCancel(r.Context())
	s.deps.Identity.Login(loginCtx, req.Provider, func(principal domain.Principal) {
		if err := s.deps.Session.Bind(principal); err != nil {
			// Bind only fails on a malformed principal from the provider.
			return
		}
	})
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "pending"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"state": s.deps.Session.State().String()}
	if identity, ok := s.deps.Session.Identity(); ok {
		body["principal"] = identity.Text()
	}
	writeJSON(w, http.StatusOK, body)
}

type receiptView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	EventID   uint64 `json:"eventId"`
	TicketID  uint64 `json:"ticketId,omitempty"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"createdAt"`
}

func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.deps.Session.Identity()
	if !ok {
		writeError(w, domain.ErrNotAuthenticated)
		return
	}
	if s.deps.Receipts == nil {
		writeJSON(w, http.StatusOK, map[string]any{"receipts": []receiptView{}})
		return
	}

	receipts, err := s.deps.Receipts.ListByPrincipal(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]receiptView, 0, len(receipts))
	for _, rec := range receipts {
		views = append(views, receiptView{
			ID:        rec.ID,
			Kind:      string(rec.Kind),
			EventID:   rec.EventID,
			TicketID:  rec.TicketID,
			Amount:    domain.FormatPrice(rec.AmountE8s),
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipts": views})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.deps.Health))
	healthy := true
	for name, check := range s.deps.Health {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": overall, "checks": checks})
}

func pathID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad event id %q", domain.ErrInvalidInput, r.PathValue("id"))
	}
	return id, nil
}
