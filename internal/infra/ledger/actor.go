// Package ledger is the typed actor proxy for the remote ledger service.
// An Actor binds every outgoing call to one caller identity; the zero
// identity is the anonymous binding. Components must obtain their actor
// through the session handle at call time rather than holding onto one,
// so a login swaps bindings without stale references.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/rpc"
	"github.com/vietddude/boxoffice/internal/observe/metrics"
)

// Actor executes ledger operations as a fixed caller identity.
type Actor struct {
	router *rpc.Router
	caller domain.Principal // empty = anonymous
}

// New creates an actor bound to the given caller. An empty principal
// produces the anonymous binding used before login.
func New(router *rpc.Router, caller domain.Principal) *Actor {
	return &Actor{router: router, caller: caller}
}

// Caller returns the identity this actor signs calls with.
func (a *Actor) Caller() (domain.Principal, bool) {
	return a.caller, a.caller != ""
}

// CreateEventArgs carries the fields of a new event submission. Price is
// already converted to e8s by the workflow layer.
type CreateEventArgs struct {
	Name        string
	Date        string
	City        string
	Category    domain.Category
	PriceE8s    uint64
	Description string
	Image       string
}

// IsAdmin reports whether the bound caller has the administrator role.
func (a *Actor) IsAdmin(ctx context.Context) (bool, error) {
	result, err := a.read(ctx, "isAdmin", nil)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := decode(result, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// GetEvents queries approved events matching the filter. Empty filter
// fields are transmitted as nulls, imposing no restriction.
func (a *Actor) GetEvents(ctx context.Context, f domain.Filter) ([]domain.Event, error) {
	params := map[string]any{
		"city":     nullable(f.City),
		"date":     nullable(f.Date),
		"category": nullable(f.Category),
	}
	result, err := a.read(ctx, "getEvents", params)
	if err != nil {
		return nil, err
	}
	return decodeEvents(result)
}

// GetCategories returns the category list the ledger accepts.
func (a *Actor) GetCategories(ctx context.Context) ([]string, error) {
	result, err := a.read(ctx, "getCategories", nil)
	if err != nil {
		return nil, err
	}
	var cats []string
	if err := decode(result, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateEvent submits a new event for moderation and returns its
// ledger-assigned identifier. The event starts in Pending state with
// the bound caller as organizer.
func (a *Actor) CreateEvent(ctx context.Context, args CreateEventArgs) (uint64, error) {
	params := map[string]any{
		"name":        args.Name,
		"date":        args.Date,
		"city":        args.City,
		"category":    string(args.Category),
		"priceE8s":    args.PriceE8s,
		"description": args.Description,
		"image":       nullable(args.Image),
	}
	result, err := a.write(ctx, "createEvent", params)
	if err != nil {
		return 0, err
	}
	return decodeID(result)
}

// GetPendingEvents returns the admin review queue, in service order.
func (a *Actor) GetPendingEvents(ctx context.Context) ([]domain.Event, error) {
	result, err := a.read(ctx, "getPendingEvents", nil)
	if err != nil {
		return nil, err
	}
	return decodeEvents(result)
}

// ApproveEvent atomically transitions a pending event. When approving,
// a non-empty nameOverride is applied in the same transition; it is
// never sent as a separate edit.
func (a *Actor) ApproveEvent(ctx context.Context, eventID uint64, approve bool, nameOverride string) error {
	params := map[string]any{
		"eventId": eventID,
		"approve": approve,
		"name":    nullable(nameOverride),
	}
	_, err := a.write(ctx, "approveEvent", params)
	return err
}

// GetOrganizer resolves the organizer of an event. The remote surface
// does not distinguish an unknown event from an unavailable organizer;
// both come back as absent.
func (a *Actor) GetOrganizer(ctx context.Context, eventID uint64) (domain.Principal, bool, error) {
	result, err := a.read(ctx, "getOrganizer", map[string]any{"eventId": eventID})
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	var text string
	if err := decode(result, &text); err != nil {
		return "", false, err
	}
	p, err := domain.ParsePrincipal(text)
	if err != nil {
		return "", false, nil
	}
	return p, true, nil
}

// BuyTicket purchases one ticket for an approved event and returns the
// minted ticket identifier. The call is never retried: a failure that
// may have partially committed must surface to the user as-is.
func (a *Actor) BuyTicket(ctx context.Context, eventID uint64) (uint64, error) {
	result, err := a.write(ctx, "buyTicket", map[string]any{"eventId": eventID})
	if err != nil {
		return 0, err
	}
	return decodeID(result)
}

// read executes an idempotent query with retry and provider failover.
func (a *Actor) read(ctx context.Context, method string, params map[string]any) (any, error) {
	return a.call(ctx, method, params, true)
}

// write executes a side-effecting call: single attempt, active provider
// only.
func (a *Actor) write(ctx context.Context, method string, params map[string]any) (any, error) {
	return a.call(ctx, method, params, false)
}

func (a *Actor) call(ctx context.Context, method string, params map[string]any, idempotent bool) (any, error) {
	if params == nil {
		params = map[string]any{}
	}
	if a.caller != "" {
		params["caller"] = a.caller.Text()
	}

	start := time.Now()
	var result any
	var err error
	if idempotent {
		result, err = rpc.CallWithRetryAndFailover(ctx, a.router, method, params, rpc.ReadRetryConfig)
	} else {
		var p rpc.Provider
		p, err = a.router.Provider()
		if err == nil {
			result, err = rpc.CallWithRetry(ctx, p, method, params, rpc.WriteRetryConfig)
		}
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.LedgerCalls.WithLabelValues(method, outcome).Inc()
	metrics.LedgerLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, mapRemoteError(method, err)
	}
	return result, nil
}

// eventRecord is the wire shape of an event.
type eventRecord struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	City        string `json:"city"`
	Category    string `json:"category"`
	PriceE8s    uint64 `json:"priceE8s"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Organizer   string `json:"organizer"`
	Status      string `json:"status"`
}

func decodeEvents(result any) ([]domain.Event, error) {
	var records []eventRecord
	if err := decode(result, &records); err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(records))
	for _, r := range records {
		events = append(events, domain.Event{
			ID:          r.ID,
			Name:        r.Name,
			Date:        r.Date,
			City:        r.City,
			Category:    domain.Category(r.Category),
			PriceE8s:    r.PriceE8s,
			Description: r.Description,
			Image:       r.Image,
			Organizer:   domain.Principal(r.Organizer),
			Status:      domain.EventStatus(r.Status),
		})
	}
	return events, nil
}

func decodeID(result any) (uint64, error) {
	var id uint64
	if err := decode(result, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// decode re-marshals a loosely typed JSON value into a typed target.
func decode(result any, target any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode ledger result: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode ledger result: %w", err)
	}
	return nil
}

func nullable[T ~string](s T) any {
	if s == "" {
		return nil
	}
	return string(s)
}
