package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// GetRestaurantByID loads one cached restaurant row. Returns nil and no
// error when no row exists.
func (s *Store) GetRestaurantByID(ctx context.Context, placeID string) (*domain.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT place_id, name FROM restaurants WHERE place_id = ?
	`, placeID)

	var restaurant domain.Restaurant
	if err := row.Scan(&restaurant.PlaceID, &restaurant.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query restaurant: %w", err)
	}
	return &restaurant, nil
}

// ListRestaurants returns cached restaurants, paged.
func (s *Store) ListRestaurants(ctx context.Context, offset, limit int) ([]domain.Restaurant, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT place_id, name FROM restaurants ORDER BY place_id LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		var restaurant domain.Restaurant
		if err := rows.Scan(&restaurant.PlaceID, &restaurant.Name); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return restaurants, nil
}

// CreateRestaurant caches one restaurant by place id.
func (s *Store) CreateRestaurant(ctx context.Context, placeID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO restaurants (place_id, name) VALUES (?, ?)
	`, placeID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: restaurant %s", ErrDuplicateEntry, placeID)
		}
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}
