package domain

// Origin identifies which catalog a category or item belongs to
type Origin string

const (
	// OriginGeraldo is the primary catalog (source of the items being matched)
	OriginGeraldo Origin = "geraldo"

	// OriginIfood is the delivery-platform catalog supplying match candidates
	OriginIfood Origin = "ifood"
)

// Restaurant is the unit of matching scope; items never match across restaurants
type Restaurant struct {
	ID          int64   `json:"id"`
	GeraldoID   int64   `json:"geraldoId"`
	Name        string  `json:"name"`
	IfoodUUID   *string `json:"ifoodUuid,omitempty"`
	GeraldoLink *string `json:"geraldoLink,omitempty"`
	VitrineLink *string `json:"vitrineLink,omitempty"`
	IfoodLink   *string `json:"ifoodLink,omitempty"`
}

// HasIfood reports whether the restaurant is linked to an ifood storefront
func (r Restaurant) HasIfood() bool {
	return r.IfoodUUID != nil && *r.IfoodUUID != ""
}

// Category groups items within one restaurant; category sets are independent per origin
type Category struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurantId"`
	Name         string `json:"name"`
	Origin       Origin `json:"origin"`
}

// Price is one size/price row of an item; Value is nil when the row has no price
type Price struct {
	Value    *float64 `json:"value"`
	SizeName *string  `json:"sizeName,omitempty"`
}

// Item is a menu item joined to its category name and price rows
type Item struct {
	ID             int64   `json:"id"`
	CategoryID     int64   `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	RestaurantID   int64   `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName,omitempty"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	Origin         Origin  `json:"origin"`
	Prices         []Price `json:"prices,omitempty"`
}

// RepresentativePrice returns the first non-nil price row, or 0 when the item
// has no priced row
func (i Item) RepresentativePrice() float64 {
	for _, p := range i.Prices {
		if p.Value != nil {
			return *p.Value
		}
	}
	return 0
}

// MissingPhoto reports whether the item has no image
func (i Item) MissingPhoto() bool {
	return i.ImageURL == nil || *i.ImageURL == ""
}

// MissingDescription reports whether the item has no usable description
func (i Item) MissingDescription() bool {
	return i.Description == nil || isBlank(*i.Description)
}

// MissingPrice reports whether no price row carries a positive value
func (i Item) MissingPrice() bool {
	for _, p := range i.Prices {
		if p.Value != nil && *p.Value > 0 {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
