package scheduler

import (
	"errors"
	"reflect"
	"testing"
)

func testCatalog(t *testing.T, extensions ...ExtensionSpec) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(extensions)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return catalog
}

func TestResolveActions(t *testing.T) {
	index := func(i int) *int { return &i }
	catalog := testCatalog(t,
		ExtensionSpec{Name: "database", Handler: "ext/database", Ordering: OrderingSpec{Index: index(150)}},
	)

	tests := []struct {
		name      string
		requested []string
		want      []string
		wantErr   error
	}{
		{
			name:      "empty request",
			requested: nil,
			wantErr:   ErrEmptyRequest,
		},
		{
			name:      "unknown action",
			requested: []string{"collect", "bogus"},
			wantErr:   ErrUnknownAction,
		},
		{
			name:      "all expands to the pipeline",
			requested: []string{"all"},
			want:      []string{"collect", "stage", "store", "purge"},
		},
		{
			name:      "all combined with anything fails",
			requested: []string{"all", "collect"},
			wantErr:   ErrSingletonConflict,
		},
		{
			name:      "all combined with itself fails",
			requested: []string{"all", "all"},
			wantErr:   ErrSingletonConflict,
		},
		{
			name:      "rebuild alone",
			requested: []string{"rebuild"},
			want:      []string{"rebuild"},
		},
		{
			name:      "validate alone",
			requested: []string{"validate"},
			want:      []string{"validate"},
		},
		{
			name:      "initialize alone",
			requested: []string{"initialize"},
			want:      []string{"initialize"},
		},
		{
			name:      "rebuild combined fails",
			requested: []string{"rebuild", "purge"},
			wantErr:   ErrSingletonConflict,
		},
		{
			name:      "validate repeated fails",
			requested: []string{"validate", "validate"},
			wantErr:   ErrSingletonConflict,
		},
		{
			name:      "duplicates and order are preserved",
			requested: []string{"stage", "collect", "collect", "database"},
			want:      []string{"stage", "collect", "collect", "database"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveActions(tt.requested, catalog)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if got != nil {
					t.Errorf("Expected no partial result, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolveActionsDoesNotAliasRequest(t *testing.T) {
	catalog := testCatalog(t)
	requested := []string{"collect", "stage"}
	resolved, err := ResolveActions(requested, catalog)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	resolved[0] = "mutated"
	if requested[0] != "collect" {
		t.Errorf("Resolver must not alias the caller's slice")
	}
}
