package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aidrigs/partsdb-console/internal/model"
)

func TestListCategories_DecodesResponse(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/" {
			t.Errorf("path = %q, want /categories/", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Category{
			{ID: "c1", CategoryNameEN: "Brakes"},
			{ID: "c2", CategoryNameEN: "Filters", CategoryNameFR: "Filtres"},
		})
	}))

	categories, err := client.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error: %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(categories))
	}
	if categories[1].CategoryNameFR != "Filtres" {
		t.Errorf("CategoryNameFR = %q, want %q", categories[1].CategoryNameFR, "Filtres")
	}
}

func TestCreateCategory_SendsBody(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var input model.CategoryInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if input.CategoryNameEN != "Suspension" {
			t.Errorf("CategoryNameEN = %q, want %q", input.CategoryNameEN, "Suspension")
		}
		json.NewEncoder(w).Encode(model.Category{ID: "c9", CategoryNameEN: input.CategoryNameEN})
	}))

	created, err := client.CreateCategory(ctx, model.CategoryInput{CategoryNameEN: "Suspension"})
	if err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	if created.ID != "c9" {
		t.Errorf("ID = %q, want %q", created.ID, "c9")
	}
}

func TestDeleteCategory_UsesDeleteMethod(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/categories/c1" {
			t.Errorf("path = %q, want /categories/c1", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteCategory(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}
}

func TestListPriceTiers_SearchQuery(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "wholesale" {
			t.Errorf("search = %q, want %q", got, "wholesale")
		}
		json.NewEncoder(w).Encode([]model.PriceTier{{ID: "t1", TierName: "Wholesale A"}})
	}))

	tiers, err := client.ListPriceTiers(ctx, "wholesale")
	if err != nil {
		t.Fatalf("ListPriceTiers() error: %v", err)
	}
	if len(tiers) != 1 || tiers[0].TierName != "Wholesale A" {
		t.Errorf("unexpected tiers: %+v", tiers)
	}
}

func TestListPriceTiers_NoSearchOmitsQuery(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("RawQuery = %q, want empty", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]model.PriceTier{})
	}))

	if _, err := client.ListPriceTiers(ctx, ""); err != nil {
		t.Fatalf("ListPriceTiers() error: %v", err)
	}
}

func TestUpdateSetting_PutsToKeyPath(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		if r.URL.Path != "/settings/default_currency" {
			t.Errorf("path = %q, want /settings/default_currency", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.SystemSetting{Key: "default_currency", Value: "EUR"})
	}))

	updated, err := client.UpdateSetting(ctx, "default_currency", model.SettingUpdate{Value: "EUR"})
	if err != nil {
		t.Fatalf("UpdateSetting() error: %v", err)
	}
	if updated.Value != "EUR" {
		t.Errorf("Value = %q, want %q", updated.Value, "EUR")
	}
}

func TestListParts_PaginationAndSearch(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("page"); got != "3" {
			t.Errorf("page = %q, want %q", got, "3")
		}
		if got := q.Get("page_size"); got != "50" {
			t.Errorf("page_size = %q, want %q", got, "50")
		}
		if got := q.Get("search"); got != "brake pad" {
			t.Errorf("search = %q, want %q", got, "brake pad")
		}
		json.NewEncoder(w).Encode(model.PartListPage{
			Items: []model.Part{{ID: "p1", PartID: "BP-1001", PartNameEN: "Brake Pad"}},
			Total: 120,
			Page:  3,
		})
	}))

	page, err := client.ListParts(ctx, 3, 50, "brake pad")
	if err != nil {
		t.Fatalf("ListParts() error: %v", err)
	}
	if page.Total != 120 {
		t.Errorf("Total = %d, want 120", page.Total)
	}
	if len(page.Items) != 1 || page.Items[0].PartID != "BP-1001" {
		t.Errorf("unexpected items: %+v", page.Items)
	}
}

func TestGetDashboardStats_DecodesCounts(t *testing.T) {
	ctx := context.Background()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/stats" {
			t.Errorf("path = %q, want /dashboard/stats", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.DashboardStats{TotalParts: 1500, PendingApprovals: 12})
	}))

	stats, err := client.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats() error: %v", err)
	}
	if stats.TotalParts != 1500 {
		t.Errorf("TotalParts = %d, want 1500", stats.TotalParts)
	}
	if stats.PendingApprovals != 12 {
		t.Errorf("PendingApprovals = %d, want 12", stats.PendingApprovals)
	}
}
