package domain

import "context"

// CatalogRepository defines read access to the menu catalogs. Implementations
// return items pre-joined to their category name and price rows.
type CatalogRepository interface {
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*Restaurant, error)
	ListCategories(ctx context.Context, restaurantID int64, origin Origin) ([]Category, error)

	// ListItems returns the restaurant's items for one origin, ordered by item
	// id. When categoryIDs are given only items of those categories are
	// returned.
	ListItems(ctx context.Context, restaurantID int64, origin Origin, categoryIDs ...int64) ([]Item, error)

	// ListAllItems returns every item of one origin across restaurants,
	// ordered by item id, each joined to its restaurant name
	ListAllItems(ctx context.Context, origin Origin) ([]Item, error)
}

// MatchRepository defines read/write access to the match-record store.
type MatchRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]MatchRecord, error)

	// Upsert writes the record keyed by (RestaurantID, GeraldoItemID),
	// overwriting any existing record for that key.
	Upsert(ctx context.Context, record MatchRecord) error
}
