package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// GetFilter returns the saved search filter of one user, or nil and no
// error when the user never saved one.
func (s *Store) GetFilter(ctx context.Context, email string) (*domain.SavedRestaurantFilter, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT cuisines, allergies, rating, costs, radius, location_text
		FROM search_filters WHERE email = ?
	`, email)

	var (
		filter       domain.SavedRestaurantFilter
		rawCuisines  string
		rawAllergies string
	)
	err := row.Scan(&rawCuisines, &rawAllergies, &filter.Rating, &filter.Costs, &filter.Radius, &filter.LocationText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query search filter: %w", err)
	}
	if err := json.Unmarshal([]byte(rawCuisines), &filter.Cuisines); err != nil {
		return nil, fmt.Errorf("decode cuisines: %w", err)
	}
	if err := json.Unmarshal([]byte(rawAllergies), &filter.Allergies); err != nil {
		return nil, fmt.Errorf("decode allergies: %w", err)
	}
	return &filter, nil
}

// CreateFilter saves the search filter of one user.
func (s *Store) CreateFilter(ctx context.Context, email string, filter domain.SavedRestaurantFilter) (domain.SavedRestaurantFilter, error) {
	if _, err := s.GetUserByMail(ctx, email); err != nil {
		return domain.SavedRestaurantFilter{}, err
	}
	rawCuisines, rawAllergies, err := encodeFilterLists(filter)
	if err != nil {
		return domain.SavedRestaurantFilter{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_filters (email, cuisines, allergies, rating, costs, radius, location_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, email, rawCuisines, rawAllergies, filter.Rating, filter.Costs, filter.Radius, filter.LocationText)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.SavedRestaurantFilter{}, fmt.Errorf("%w: filter for %s", ErrDuplicateEntry, email)
		}
		return domain.SavedRestaurantFilter{}, fmt.Errorf("create search filter: %w", err)
	}
	return filter, nil
}

// UpdateFilter replaces the saved search filter of one user.
func (s *Store) UpdateFilter(ctx context.Context, email string, filter domain.SavedRestaurantFilter) (domain.SavedRestaurantFilter, error) {
	rawCuisines, rawAllergies, err := encodeFilterLists(filter)
	if err != nil {
		return domain.SavedRestaurantFilter{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE search_filters
		SET cuisines = ?, allergies = ?, rating = ?, costs = ?, radius = ?, location_text = ?
		WHERE email = ?
	`, rawCuisines, rawAllergies, filter.Rating, filter.Costs, filter.Radius, filter.LocationText, email)
	if err != nil {
		return domain.SavedRestaurantFilter{}, fmt.Errorf("update search filter: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.SavedRestaurantFilter{}, fmt.Errorf("update search filter: %w", err)
	}
	if rows == 0 {
		return domain.SavedRestaurantFilter{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return filter, nil
}

func encodeFilterLists(filter domain.SavedRestaurantFilter) (string, string, error) {
	cuisines := filter.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	allergies := filter.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	rawCuisines, err := json.Marshal(cuisines)
	if err != nil {
		return "", "", fmt.Errorf("encode cuisines: %w", err)
	}
	rawAllergies, err := json.Marshal(allergies)
	if err != nil {
		return "", "", fmt.Errorf("encode allergies: %w", err)
	}
	return string(rawCuisines), string(rawAllergies), nil
}
