package workflow

import (
	"context"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/observe/metrics"
)

// CatalogLedger is the slice of the actor surface the catalog needs.
type CatalogLedger interface {
	GetEvents(ctx context.Context, f domain.Filter) ([]domain.Event, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// CatalogCache serves recent query results. Nil disables caching and
// every search is a fresh full query.
type CatalogCache interface {
	GetEvents(ctx context.Context, f domain.Filter) ([]domain.Event, bool)
	SetEvents(ctx context.Context, f domain.Filter, events []domain.Event)
	GetCategories(ctx context.Context) ([]string, bool)
	SetCategories(ctx context.Context, cats []string)
}

// CatalogService answers buyer-facing catalog queries. It holds no
// state of its own; filters pass through to the ledger unchanged and
// only approved events ever come back.
type CatalogService struct {
	ledger func() CatalogLedger
	cache  CatalogCache
}

// NewCatalogService creates a catalog service. The ledger accessor is
// resolved per call so a login rebinds the actor underneath. cache may
// be nil.
func NewCatalogService(ledger func() CatalogLedger, cache CatalogCache) *CatalogService {
	return &CatalogService{ledger: ledger, cache: cache}
}

// Search returns approved events matching the filter.
func (s *CatalogService) Search(ctx context.Context, f domain.Filter) ([]domain.Event, error) {
	if s.cache != nil {
		if events, ok := s.cache.GetEvents(ctx, f); ok {
			metrics.CatalogCacheHits.WithLabelValues("hit").Inc()
			return events, nil
		}
		metrics.CatalogCacheHits.WithLabelValues("miss").Inc()
	}

	events, err := s.ledger().GetEvents(ctx, f)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetEvents(ctx, f, events)
	}
	return events, nil
}

// Categories returns the category list accepted by the ledger.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cats, ok := s.cache.GetCategories(ctx); ok {
			return cats, nil
		}
	}

	cats, err := s.ledger().GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCategories(ctx, cats)
	}
	return cats, nil
}
