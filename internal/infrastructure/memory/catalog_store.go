package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/painelgpt/backend/internal/domain"
)

// CatalogStore is a thread-safe in-memory catalog, seeded up front. It backs
// the handler and usecase test suites and the memory store mode.
type CatalogStore struct {
	restaurants []domain.Restaurant
	categories  []domain.Category
	items       []domain.Item
	mutex       sync.RWMutex
}

// NewCatalogStore creates an empty in-memory catalog
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// SeedRestaurant adds a restaurant with its categories and items. Items are
// joined to their category name and restaurant id on the way in, matching what
// the SQL store returns.
func (s *CatalogStore) SeedRestaurant(r domain.Restaurant, categories []domain.Category, items []domain.Item) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.restaurants = append(s.restaurants, r)
	catNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		c.RestaurantID = r.ID
		s.categories = append(s.categories, c)
		catNames[c.ID] = c.Name
	}
	for _, i := range items {
		i.RestaurantID = r.ID
		i.RestaurantName = r.Name
		if i.CategoryName == "" {
			i.CategoryName = catNames[i.CategoryID]
		}
		s.items = append(s.items, i)
	}
}

// ListRestaurants returns all restaurants ordered by name
func (s *CatalogStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := slices.Clone(s.restaurants)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetRestaurant returns one restaurant, or ErrRestaurantNotFound
func (s *CatalogStore) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, r := range s.restaurants {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrRestaurantNotFound
}

// ListCategories returns the restaurant's categories of one origin, by name
func (s *CatalogStore) ListCategories(ctx context.Context, restaurantID int64, origin domain.Origin) ([]domain.Category, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []domain.Category
	for _, c := range s.categories {
		if c.RestaurantID == restaurantID && c.Origin == origin {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListItems returns the restaurant's items of one origin ordered by id,
// optionally restricted to the given categories
func (s *CatalogStore) ListItems(ctx context.Context, restaurantID int64, origin domain.Origin, categoryIDs ...int64) ([]domain.Item, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []domain.Item
	for _, i := range s.items {
		if i.RestaurantID != restaurantID || i.Origin != origin {
			continue
		}
		if len(categoryIDs) > 0 && !slices.Contains(categoryIDs, i.CategoryID) {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListAllItems returns every item of one origin across restaurants, by id.
// Backs the global item audit listing.
func (s *CatalogStore) ListAllItems(ctx context.Context, origin domain.Origin) ([]domain.Item, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []domain.Item
	for _, i := range s.items {
		if i.Origin == origin {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
