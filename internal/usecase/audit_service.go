package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/painelgpt/backend/internal/domain"
)

// Restaurant list filters
const (
	FilterAll         = "todos"
	FilterWithProblem = "com_problema"
	FilterNoIfood     = "sem_ifood"
)

// ItemFlags summarizes the quality gaps of one item
type ItemFlags struct {
	MissingPhoto       bool `json:"missingPhoto"`
	MissingDescription bool `json:"missingDescription"`
	MissingPrice       bool `json:"missingPrice"`
}

// HasProblem reports whether any gap is present
func (f ItemFlags) HasProblem() bool {
	return f.MissingPhoto || f.MissingDescription || f.MissingPrice
}

// Flags computes the quality flags of an item
func Flags(i domain.Item) ItemFlags {
	return ItemFlags{
		MissingPhoto:       i.MissingPhoto(),
		MissingDescription: i.MissingDescription(),
		MissingPrice:       i.MissingPrice(),
	}
}

// CategoryStats is the per-category quality roll-up of the geraldo catalog
type CategoryStats struct {
	Category           domain.Category `json:"category"`
	TotalItems         int             `json:"totalItems"`
	MissingPhoto       int             `json:"missingPhoto"`
	MissingDescription int             `json:"missingDescription"`
	MissingPrice       int             `json:"missingPrice"`
}

// RestaurantStats is the per-restaurant quality roll-up
type RestaurantStats struct {
	Restaurant         domain.Restaurant `json:"restaurant"`
	TotalCategories    int               `json:"totalCategories"`
	TotalItems         int               `json:"totalItems"`
	MissingPhoto       int               `json:"missingPhoto"`
	MissingDescription int               `json:"missingDescription"`
	MissingPrice       int               `json:"missingPrice"`
}

// HasProblem reports whether any item of the restaurant has a gap
func (s RestaurantStats) HasProblem() bool {
	return s.MissingPhoto > 0 || s.MissingDescription > 0 || s.MissingPrice > 0
}

// Overview aggregates the whole geraldo catalog
type Overview struct {
	Restaurants        []RestaurantStats `json:"restaurants"`
	TotalRestaurants   int               `json:"totalRestaurants"`
	WithoutIfood       int               `json:"withoutIfood"`
	MissingPhoto       int               `json:"missingPhoto"`
	MissingDescription int               `json:"missingDescription"`
	MissingPrice       int               `json:"missingPrice"`
}

// AuditService computes catalog quality statistics over the geraldo origin
type AuditService struct {
	catalog domain.CatalogRepository
}

// NewAuditService creates an audit service over the given catalog store
func NewAuditService(catalog domain.CatalogRepository) *AuditService {
	return &AuditService{catalog: catalog}
}

// RestaurantAudit computes the category and restaurant roll-ups for one
// restaurant's geraldo catalog
func (s *AuditService) RestaurantAudit(ctx context.Context, restaurantID int64) (*RestaurantStats, []CategoryStats, error) {
	restaurant, err := s.catalog.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, nil, err
	}

	categories, err := s.catalog.ListCategories(ctx, restaurantID, domain.OriginGeraldo)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.catalog.ListItems(ctx, restaurantID, domain.OriginGeraldo)
	if err != nil {
		return nil, nil, err
	}

	byCategory := make(map[int64]*CategoryStats, len(categories))
	catStats := make([]CategoryStats, len(categories))
	for i, c := range categories {
		catStats[i] = CategoryStats{Category: c}
		byCategory[c.ID] = &catStats[i]
	}

	total := RestaurantStats{Restaurant: *restaurant, TotalCategories: len(categories)}
	for _, item := range items {
		flags := Flags(item)

		total.TotalItems++
		if flags.MissingPhoto {
			total.MissingPhoto++
		}
		if flags.MissingDescription {
			total.MissingDescription++
		}
		if flags.MissingPrice {
			total.MissingPrice++
		}

		cs, ok := byCategory[item.CategoryID]
		if !ok {
			// Item points at a category outside this restaurant's geraldo set;
			// count it in the restaurant totals only
			continue
		}
		cs.TotalItems++
		if flags.MissingPhoto {
			cs.MissingPhoto++
		}
		if flags.MissingDescription {
			cs.MissingDescription++
		}
		if flags.MissingPrice {
			cs.MissingPrice++
		}
	}

	return &total, catStats, nil
}

// CatalogOverview computes the global dashboard numbers across all restaurants.
// A restaurant whose catalog read fails is skipped rather than failing the
// whole overview.
func (s *AuditService) CatalogOverview(ctx context.Context) (*Overview, error) {
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	overview := Overview{Restaurants: make([]RestaurantStats, 0, len(restaurants))}
	for _, r := range restaurants {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stats, _, err := s.RestaurantAudit(ctx, r.ID)
		if err != nil {
			continue
		}

		overview.Restaurants = append(overview.Restaurants, *stats)
		overview.TotalRestaurants++
		if !r.HasIfood() {
			overview.WithoutIfood++
		}
		overview.MissingPhoto += stats.MissingPhoto
		overview.MissingDescription += stats.MissingDescription
		overview.MissingPrice += stats.MissingPrice
	}

	return &overview, nil
}

// FilterRestaurants applies the dashboard search and filter chips to a stats
// list: search matches the name (case-insensitive substring) or the geraldo id
func FilterRestaurants(stats []RestaurantStats, search, filter string) []RestaurantStats {
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]RestaurantStats, 0, len(stats))
	for _, s := range stats {
		if search != "" {
			name := strings.ToLower(s.Restaurant.Name)
			id := strconv.FormatInt(s.Restaurant.GeraldoID, 10)
			if !strings.Contains(name, search) && !strings.Contains(id, search) {
				continue
			}
		}

		switch filter {
		case FilterNoIfood:
			if s.Restaurant.HasIfood() {
				continue
			}
		case FilterWithProblem:
			if !s.HasProblem() {
				continue
			}
		}

		filtered = append(filtered, s)
	}
	return filtered
}
