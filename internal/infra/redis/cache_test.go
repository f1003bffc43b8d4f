package redis

import (
	"testing"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

func TestSearchKey(t *testing.T) {
	tests := []struct {
		filter domain.Filter
		want   string
	}{
		{domain.Filter{}, "catalog:search:||"},
		{domain.Filter{City: "Kyiv"}, "catalog:search:kyiv||"},
		{
			domain.Filter{City: "Warsaw", Date: "2026-09-01", Category: "Concerts"},
			"catalog:search:warsaw|2026-09-01|concerts",
		},
	}
	for _, tt := range tests {
		if got := SearchKey(tt.filter); got != tt.want {
			t.Errorf("SearchKey(%+v) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}

func TestSearchKey_DistinctFiltersDistinctKeys(t *testing.T) {
	a := SearchKey(domain.Filter{City: "Kyiv"})
	b := SearchKey(domain.Filter{Date: "Kyiv"})
	if a == b {
		t.Errorf("city and date filters collide: %q", a)
	}
}
