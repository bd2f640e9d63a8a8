package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/painelgpt/backend/internal/domain"
)

// CatalogRepo reads restaurants, categories, items and prices
type CatalogRepo struct {
	db *DB
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, geraldo_id, nome, ifood_uuid, geraldo_link, vitrine_link, ifood_link
		FROM restaurantes
		ORDER BY nome, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.GeraldoID, &rest.Name,
			&rest.IfoodUUID, &rest.GeraldoLink, &rest.VitrineLink, &rest.IfoodLink); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *CatalogRepo) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, geraldo_id, nome, ifood_uuid, geraldo_link, vitrine_link, ifood_link
		FROM restaurantes
		WHERE id = $1
	`, id).Scan(&rest.ID, &rest.GeraldoID, &rest.Name,
		&rest.IfoodUUID, &rest.GeraldoLink, &rest.VitrineLink, &rest.IfoodLink)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: restaurant %d", domain.ErrRestaurantNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant %d: %w", id, err)
	}
	return &rest, nil
}

func (r *CatalogRepo) ListCategories(ctx context.Context, restaurantID int64, origin domain.Origin) ([]domain.Category, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, restaurante_id, nome, origem
		FROM categorias
		WHERE restaurante_id = $1 AND origem = $2
		ORDER BY id
	`, restaurantID, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.RestaurantID, &cat.Name, &cat.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

const itemSelect = `
	SELECT i.id, i.categoria_id, c.nome, c.restaurante_id, r.nome,
	       i.nome, i.descricao, i.imagem_url, i.origem
	FROM itens i
	JOIN categorias c ON c.id = i.categoria_id
	JOIN restaurantes r ON r.id = c.restaurante_id
`

func (r *CatalogRepo) ListItems(ctx context.Context, restaurantID int64, origin domain.Origin, categoryIDs ...int64) ([]domain.Item, error) {
	query := itemSelect + `
	WHERE c.restaurante_id = $1 AND i.origem = $2
	`
	args := []any{restaurantID, origin}
	if len(categoryIDs) > 0 {
		query += " AND i.categoria_id = ANY($3)"
		args = append(args, categoryIDs)
	}
	query += " ORDER BY i.id"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	return r.attachPrices(ctx, items)
}

func (r *CatalogRepo) ListAllItems(ctx context.Context, origin domain.Origin) ([]domain.Item, error) {
	rows, err := r.db.Pool.Query(ctx, itemSelect+`
	WHERE i.origem = $1
	ORDER BY r.nome, i.id
	`, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	return r.attachPrices(ctx, items)
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.CategoryName,
			&item.RestaurantID, &item.RestaurantName,
			&item.Name, &item.Description, &item.ImageURL, &item.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// attachPrices loads the price rows for the given items in one query
func (r *CatalogRepo) attachPrices(ctx context.Context, items []domain.Item) ([]domain.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
		index[item.ID] = i
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT item_id, valor, tamanho_nome
		FROM precos
		WHERE item_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var price domain.Price
		if err := rows.Scan(&itemID, &price.Value, &price.SizeName); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Prices = append(items[i].Prices, price)
		}
	}
	return items, rows.Err()
}
