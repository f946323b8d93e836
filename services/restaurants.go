package services

import (
	"context"
	"errors"

	"foodflow/db"
	"foodflow/models"

	"github.com/jackc/pgx/v5"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

const restaurantColumns = `id, name, rating, reviews, delivery_time, min_order, image, categories, city, address, opening_hours, about, tags`

func scanRestaurant(row pgx.Row) (*models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Rating, &r.Reviews, &r.DeliveryTime, &r.MinOrder,
		&r.Image, &r.Categories, &r.City, &r.Address, &r.OpeningHours, &r.About, &r.Tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &r, nil
}

// pageBounds clamps paging inputs to what the query accepts: a bad
// limit falls back to the default page size, a negative offset to 0.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListRestaurants returns restaurants without menus, optionally
// filtered by city or category, newest listings last.
func ListRestaurants(ctx context.Context, city, category string, limit, offset int) ([]models.Restaurant, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := db.Pool.Query(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants
		WHERE ($1 = '' OR city = $1)
		  AND ($2 = '' OR $2 = ANY(categories))
		ORDER BY id
		LIMIT $3 OFFSET $4`,
		city, category, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *r)
	}
	return list, rows.Err()
}

// GetRestaurant returns one restaurant with its full menu.
func GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	r, err := scanRestaurant(db.Pool.QueryRow(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	r.Menu, err = listMenu(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func listMenu(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, restaurant_id, name, price, description, category
		FROM menu_items WHERE restaurant_id = $1 ORDER BY id`,
		restaurantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Price, &it.Description, &it.Category); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// PGMenu adapts the restaurant tables to the composer's MenuSource.
type PGMenu struct{}

func (PGMenu) RestaurantForItem(ctx context.Context, itemID string) (*models.Restaurant, error) {
	var restaurantID int64
	err := db.Pool.QueryRow(ctx, `
		SELECT restaurant_id FROM menu_items WHERE id::text = $1`, itemID,
	).Scan(&restaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownItem
		}
		return nil, err
	}
	return GetRestaurant(ctx, restaurantID)
}
