package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/painelgpt/backend/internal/domain"
	"github.com/painelgpt/backend/internal/infrastructure/memory"
)

func testItem(id, categoryID int64, categoryName, name string, price float64) domain.Item {
	return domain.Item{
		ID:           id,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		RestaurantID: 1,
		Name:         name,
		Prices:       []domain.Price{{Value: &price}},
	}
}

func TestScorePair(t *testing.T) {
	tests := []struct {
		name       string
		catSim     int
		nameSim    int
		priceClose bool
		wantScore  int
		wantMethod string
	}{
		{"exact name and category", 100, 100, false, 100, domain.MethodNameCategory},
		{"exact name at category threshold", 80, 100, true, 100, domain.MethodNameCategory},
		{"near-exact name", 80, 90, false, 95, domain.MethodNameCategory},
		{"strong name with close price", 80, 85, true, 90, domain.MethodNameCategoryPrice},
		{"strong name at boundary with close price", 80, 80, true, 90, domain.MethodNameCategoryPrice},
		{"strong name without close price", 80, 85, false, 85, domain.MethodNameCategory},
		{"name alone beats weak category", 79, 100, false, 80, domain.MethodName},
		{"name alone at threshold", 0, 95, false, 80, domain.MethodName},
		{"weak name with category", 80, 60, false, 70, domain.MethodNameCategory},
		{"below weak name threshold", 80, 59, false, 0, ""},
		{"name alone below threshold", 0, 94, false, 0, ""},
		{"nothing matches", 79, 94, false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, method := scorePair(tt.catSim, tt.nameSim, tt.priceClose)
			if score != tt.wantScore {
				t.Errorf("scorePair(%d, %d, %v) score = %d, want %d",
					tt.catSim, tt.nameSim, tt.priceClose, score, tt.wantScore)
			}
			if method != tt.wantMethod {
				t.Errorf("scorePair(%d, %d, %v) method = %q, want %q",
					tt.catSim, tt.nameSim, tt.priceClose, method, tt.wantMethod)
			}
		})
	}
}

func TestBestCandidate(t *testing.T) {
	svc := NewMatchService(nil, nil, MatchConfig{})

	t.Run("no candidates yields zero confidence", func(t *testing.T) {
		geraldo := testItem(1, 1, "Bebidas", "Coca-Cola Lata 350ml", 6.50)

		result := svc.BestCandidate(geraldo, nil)
		if result.Confidence != 0 {
			t.Errorf("Confidence = %d, want 0", result.Confidence)
		}
		if result.IfoodItem != nil {
			t.Errorf("IfoodItem = %+v, want nil", result.IfoodItem)
		}
	})

	t.Run("exact name and category scores 100", func(t *testing.T) {
		geraldo := testItem(1, 1, "Bebidas", "Coca-Cola Lata 350ml", 6.50)
		candidates := []domain.Item{
			testItem(101, 10, "Bebidas", "Coca Cola Lata 350ml", 6.50),
			testItem(102, 10, "Bebidas", "Fanta Laranja Lata 350ml", 6.50),
		}

		result := svc.BestCandidate(geraldo, candidates)
		if result.Confidence != 100 {
			t.Errorf("Confidence = %d, want 100", result.Confidence)
		}
		if result.IfoodItem == nil || result.IfoodItem.ID != 101 {
			t.Errorf("IfoodItem = %+v, want item 101", result.IfoodItem)
		}
		if result.Method != domain.MethodNameCategory {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodNameCategory)
		}
	})

	t.Run("close price lifts strong name match to 90", func(t *testing.T) {
		geraldo := testItem(1, 1, "Pizzas", "Pizza Margherita", 42.00)
		candidates := []domain.Item{
			testItem(101, 10, "Pizzas", "Pizza Margarita", 42.50),
		}

		result := svc.BestCandidate(geraldo, candidates)
		if result.Confidence != 90 {
			t.Errorf("Confidence = %d, want 90", result.Confidence)
		}
		if result.Method != domain.MethodNameCategoryPrice {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodNameCategoryPrice)
		}
	})

	t.Run("distant price keeps strong name match at 85", func(t *testing.T) {
		geraldo := testItem(1, 1, "Pizzas", "Pizza Margherita", 42.00)
		candidates := []domain.Item{
			testItem(101, 10, "Pizzas", "Pizza Margarita", 55.00),
		}

		result := svc.BestCandidate(geraldo, candidates)
		if result.Confidence != 85 {
			t.Errorf("Confidence = %d, want 85", result.Confidence)
		}
		if result.Method != domain.MethodNameCategory {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodNameCategory)
		}
	})

	t.Run("first candidate wins ties", func(t *testing.T) {
		geraldo := testItem(1, 1, "Bebidas", "Coca-Cola Lata 350ml", 6.50)
		candidates := []domain.Item{
			testItem(101, 10, "Bebidas", "Coca Cola Lata 350ml", 6.50),
			testItem(102, 10, "Bebidas", "Coca Cola Lata 350ml", 6.50),
		}

		result := svc.BestCandidate(geraldo, candidates)
		if result.IfoodItem == nil || result.IfoodItem.ID != 101 {
			t.Errorf("IfoodItem = %+v, want first candidate 101", result.IfoodItem)
		}
	})
}

func TestBuildMatchList(t *testing.T) {
	t.Run("fresh entries split on auto threshold", func(t *testing.T) {
		g1 := testItem(1, 1, "Bebidas", "Item A", 5)
		g2 := testItem(2, 1, "Bebidas", "Item B", 5)
		g3 := testItem(3, 1, "Bebidas", "Item C", 5)
		linked := testItem(101, 10, "Bebidas", "Item A", 5)

		candidates := []domain.MatchCandidate{
			{GeraldoItem: g1, IfoodItem: &linked, Confidence: 90, Method: domain.MethodNameCategory},
			{GeraldoItem: g2, IfoodItem: &linked, Confidence: 89, Method: domain.MethodNameCategory},
			{GeraldoItem: g3},
		}

		entries := BuildMatchList(candidates, nil, []domain.Item{linked})
		statuses := map[int64]domain.MatchStatus{}
		for _, e := range entries {
			statuses[e.GeraldoItem.ID] = e.Status
		}

		if statuses[1] != domain.StatusAuto {
			t.Errorf("entry 1 status = %q, want auto", statuses[1])
		}
		if statuses[2] != domain.StatusPending {
			t.Errorf("entry 2 status = %q, want pendente", statuses[2])
		}
		if statuses[3] != domain.StatusPending {
			t.Errorf("entry 3 status = %q, want pendente", statuses[3])
		}
	})

	t.Run("persisted record wins over recomputed candidate", func(t *testing.T) {
		g1 := testItem(1, 1, "Bebidas", "Item A", 5)
		recomputed := testItem(102, 10, "Bebidas", "Item A v2", 5)
		stored := testItem(101, 10, "Bebidas", "Item A", 5)
		storedID := stored.ID

		candidates := []domain.MatchCandidate{
			{GeraldoItem: g1, IfoodItem: &recomputed, Confidence: 85, Method: domain.MethodNameCategory},
		}
		records := []domain.MatchRecord{{
			RestaurantID:  1,
			GeraldoItemID: 1,
			IfoodItemID:   &storedID,
			Confidence:    100,
			Status:        domain.StatusConfirmed,
			Method:        domain.MethodNameCategory,
			UpdatedAt:     time.Now(),
		}}

		entries := BuildMatchList(candidates, records, []domain.Item{stored, recomputed})
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d, want 1", len(entries))
		}
		e := entries[0]
		if !e.Persisted {
			t.Error("Persisted = false, want true")
		}
		if e.Status != domain.StatusConfirmed {
			t.Errorf("Status = %q, want confirmado", e.Status)
		}
		if e.Confidence != 100 {
			t.Errorf("Confidence = %d, want 100", e.Confidence)
		}
		if e.IfoodItem == nil || e.IfoodItem.ID != 101 {
			t.Errorf("IfoodItem = %+v, want stored item 101", e.IfoodItem)
		}
	})

	t.Run("persisted link to vanished item resolves to nil", func(t *testing.T) {
		g1 := testItem(1, 1, "Bebidas", "Item A", 5)
		goneID := int64(999)

		records := []domain.MatchRecord{{
			RestaurantID:  1,
			GeraldoItemID: 1,
			IfoodItemID:   &goneID,
			Confidence:    100,
			Status:        domain.StatusConfirmed,
			Method:        domain.MethodNameCategory,
		}}

		entries := BuildMatchList([]domain.MatchCandidate{{GeraldoItem: g1}}, records, nil)
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d, want 1", len(entries))
		}
		if entries[0].IfoodItem != nil {
			t.Errorf("IfoodItem = %+v, want nil for vanished item", entries[0].IfoodItem)
		}
		if entries[0].Status != domain.StatusConfirmed {
			t.Errorf("Status = %q, want confirmado", entries[0].Status)
		}
	})

	t.Run("pendente entries sort first, then ascending confidence", func(t *testing.T) {
		linked := testItem(101, 10, "Bebidas", "Linked", 5)
		confirmedID := linked.ID

		candidates := []domain.MatchCandidate{
			{GeraldoItem: testItem(1, 1, "Bebidas", "Fifty", 5), IfoodItem: &linked, Confidence: 50, Method: domain.MethodNameCategory},
			{GeraldoItem: testItem(2, 1, "Bebidas", "NinetyFive", 5), IfoodItem: &linked, Confidence: 95, Method: domain.MethodNameCategory},
			{GeraldoItem: testItem(3, 1, "Bebidas", "Ten", 5), IfoodItem: &linked, Confidence: 10, Method: domain.MethodNameCategory},
			{GeraldoItem: testItem(4, 1, "Bebidas", "Done", 5), IfoodItem: &linked, Confidence: 80, Method: domain.MethodNameCategory},
		}
		records := []domain.MatchRecord{{
			RestaurantID:  1,
			GeraldoItemID: 4,
			IfoodItemID:   &confirmedID,
			Confidence:    100,
			Status:        domain.StatusConfirmed,
			Method:        domain.MethodNameCategory,
		}}

		entries := BuildMatchList(candidates, records, []domain.Item{linked})

		wantOrder := []int64{3, 1, 2, 4} // pendente 10, pendente 50, auto 95, confirmado 100
		if len(entries) != len(wantOrder) {
			t.Fatalf("len(entries) = %d, want %d", len(entries), len(wantOrder))
		}
		for i, want := range wantOrder {
			if entries[i].GeraldoItem.ID != want {
				t.Errorf("entries[%d] = item %d (status %s, conf %d), want item %d",
					i, entries[i].GeraldoItem.ID, entries[i].Status, entries[i].Confidence, want)
			}
		}
	})
}

func seedTestCatalog() (*memory.CatalogStore, *memory.MatchStore) {
	catalog := memory.NewCatalogStore()
	catalog.SeedRestaurant(
		domain.Restaurant{ID: 1, GeraldoID: 100, Name: "Cantina da Praca"},
		[]domain.Category{
			{ID: 1, Name: "Bebidas", Origin: domain.OriginGeraldo},
			{ID: 2, Name: "Lanches", Origin: domain.OriginGeraldo},
			{ID: 10, Name: "Bebidas", Origin: domain.OriginIfood},
			{ID: 20, Name: "Lanches", Origin: domain.OriginIfood},
		},
		[]domain.Item{
			itemIn(1, 1, domain.OriginGeraldo, "Coca-Cola Lata 350ml", 6.50),
			itemIn(2, 2, domain.OriginGeraldo, "X-Burger Bacon", 25.00),
			itemIn(3, 2, domain.OriginGeraldo, "Prato Exclusivo da Casa", 32.00),
			itemIn(101, 10, domain.OriginIfood, "Coca Cola Lata 350ml", 6.50),
			itemIn(102, 20, domain.OriginIfood, "X-Burguer Bacon", 25.00),
		},
	)
	return catalog, memory.NewMatchStore()
}

func itemIn(id, categoryID int64, origin domain.Origin, name string, price float64) domain.Item {
	return domain.Item{
		ID:         id,
		CategoryID: categoryID,
		Origin:     origin,
		Name:       name,
		Prices:     []domain.Price{{Value: &price}},
	}
}

func TestListMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown restaurant", func(t *testing.T) {
		catalog, matches := seedTestCatalog()
		svc := NewMatchService(catalog, matches, MatchConfig{})

		_, err := svc.ListMatches(ctx, 999)
		if !errors.Is(err, domain.ErrRestaurantNotFound) {
			t.Errorf("error = %v, want ErrRestaurantNotFound", err)
		}
	})

	t.Run("computes the review queue in order", func(t *testing.T) {
		catalog, matches := seedTestCatalog()
		svc := NewMatchService(catalog, matches, MatchConfig{})

		entries, err := svc.ListMatches(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d, want 3", len(entries))
		}

		// No counterpart exists for item 3: pendente, zero confidence, first
		if entries[0].GeraldoItem.ID != 3 || entries[0].Status != domain.StatusPending || entries[0].Confidence != 0 {
			t.Errorf("entries[0] = item %d (%s, %d), want item 3 (pendente, 0)",
				entries[0].GeraldoItem.ID, entries[0].Status, entries[0].Confidence)
		}
		// Near-exact name: 95, auto
		if entries[1].GeraldoItem.ID != 2 || entries[1].Status != domain.StatusAuto || entries[1].Confidence != 95 {
			t.Errorf("entries[1] = item %d (%s, %d), want item 2 (auto, 95)",
				entries[1].GeraldoItem.ID, entries[1].Status, entries[1].Confidence)
		}
		// Exact name and category: 100, auto
		if entries[2].GeraldoItem.ID != 1 || entries[2].Status != domain.StatusAuto || entries[2].Confidence != 100 {
			t.Errorf("entries[2] = item %d (%s, %d), want item 1 (auto, 100)",
				entries[2].GeraldoItem.ID, entries[2].Status, entries[2].Confidence)
		}
	})

	t.Run("recomputation preserves reviewed records", func(t *testing.T) {
		catalog, matches := seedTestCatalog()
		svc := NewMatchService(catalog, matches, MatchConfig{})

		// Reviewer unlinked item 1 despite the perfect automatic score
		err := matches.Upsert(ctx, domain.MatchRecord{
			RestaurantID:  1,
			GeraldoItemID: 1,
			Confidence:    0,
			Status:        domain.StatusNoMatch,
			Method:        domain.MethodManual,
			UpdatedAt:     time.Now(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries, err := svc.ListMatches(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, e := range entries {
			if e.GeraldoItem.ID != 1 {
				continue
			}
			if e.Status != domain.StatusNoMatch {
				t.Errorf("item 1 status = %q, want sem_match after recomputation", e.Status)
			}
			if e.Confidence != 0 || e.IfoodItem != nil {
				t.Errorf("item 1 = (conf %d, link %v), want (0, nil)", e.Confidence, e.IfoodItem)
			}
			if !e.Persisted {
				t.Error("item 1 Persisted = false, want true")
			}
		}
	})

	t.Run("catalog failure surfaces ErrCatalogUnavailable", func(t *testing.T) {
		_, matches := seedTestCatalog()
		svc := NewMatchService(failingCatalog{}, matches, MatchConfig{})

		_, err := svc.ListMatches(ctx, 1)
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			t.Errorf("error = %v, want ErrCatalogUnavailable", err)
		}
	})
}

// failingCatalog resolves restaurants but fails every item read
type failingCatalog struct{}

func (failingCatalog) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return nil, errors.New("store offline")
}

func (failingCatalog) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	return &domain.Restaurant{ID: id, Name: "stub"}, nil
}

func (failingCatalog) ListCategories(ctx context.Context, restaurantID int64, origin domain.Origin) ([]domain.Category, error) {
	return nil, errors.New("store offline")
}

func (failingCatalog) ListItems(ctx context.Context, restaurantID int64, origin domain.Origin, categoryIDs ...int64) ([]domain.Item, error) {
	return nil, errors.New("store offline")
}

func (failingCatalog) ListAllItems(ctx context.Context, origin domain.Origin) ([]domain.Item, error) {
	return nil, errors.New("store offline")
}
