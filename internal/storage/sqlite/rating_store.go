package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// GetRestaurantRating returns the rating one user gave one restaurant, or
// nil and no error when none is stored.
func (s *Store) GetRestaurantRating(ctx context.Context, email, placeID string) (*domain.RestaurantRating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT b.email, b.place_id, r.name, b.comment, b.rating, b.updated_at
		FROM restaurant_ratings b
		JOIN restaurants r ON r.place_id = b.place_id
		WHERE b.email = ? AND b.place_id = ?
	`, email, placeID)

	rating, err := scanRestaurantRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query restaurant rating: %w", err)
	}
	return rating, nil
}

// ListRestaurantRatings returns all restaurant ratings of one user.
func (s *Store) ListRestaurantRatings(ctx context.Context, email string) ([]domain.RestaurantRating, error) {
	if _, err := s.GetUserByMail(ctx, email); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.email, b.place_id, r.name, b.comment, b.rating, b.updated_at
		FROM restaurant_ratings b
		JOIN restaurants r ON r.place_id = b.place_id
		WHERE b.email = ?
		ORDER BY b.updated_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query restaurant ratings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ratings := make([]domain.RestaurantRating, 0)
	for rows.Next() {
		rating, err := scanRestaurantRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant rating: %w", err)
		}
		ratings = append(ratings, *rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurant ratings: %w", err)
	}
	return ratings, nil
}

// CreateRestaurantRating inserts a new rating. The referenced user and
// restaurant must exist; the timestamp is set by the store.
func (s *Store) CreateRestaurantRating(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error) {
	if _, err := s.GetUserByMail(ctx, rating.Email); err != nil {
		return domain.RestaurantRating{}, err
	}
	restaurant, err := s.GetRestaurantByID(ctx, rating.PlaceID)
	if err != nil {
		return domain.RestaurantRating{}, err
	}
	if restaurant == nil {
		return domain.RestaurantRating{}, fmt.Errorf("%w: %s", ErrRestaurantNotFound, rating.PlaceID)
	}

	rating.Name = restaurant.Name
	rating.Timestamp = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO restaurant_ratings (email, place_id, comment, rating, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, rating.Email, rating.PlaceID, rating.Comment, rating.Rating, rating.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.RestaurantRating{}, fmt.Errorf("%w: rating %s/%s", ErrDuplicateEntry, rating.Email, rating.PlaceID)
		}
		return domain.RestaurantRating{}, fmt.Errorf("create restaurant rating: %w", err)
	}
	return rating, nil
}

// UpdateRestaurantRating replaces comment and rating of a stored assessment
// and refreshes its timestamp.
func (s *Store) UpdateRestaurantRating(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE restaurant_ratings SET comment = ?, rating = ?, updated_at = ?
		WHERE email = ? AND place_id = ?
	`, rating.Comment, rating.Rating, now, rating.Email, rating.PlaceID)
	if err != nil {
		return domain.RestaurantRating{}, fmt.Errorf("update restaurant rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.RestaurantRating{}, fmt.Errorf("update restaurant rating: %w", err)
	}
	if rows == 0 {
		return domain.RestaurantRating{}, fmt.Errorf("update restaurant rating %s/%s: no such assessment", rating.Email, rating.PlaceID)
	}
	updated, err := s.GetRestaurantRating(ctx, rating.Email, rating.PlaceID)
	if err != nil {
		return domain.RestaurantRating{}, err
	}
	return *updated, nil
}

// DeleteRestaurantRating removes one assessment and reports affected rows.
func (s *Store) DeleteRestaurantRating(ctx context.Context, email, placeID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM restaurant_ratings WHERE email = ? AND place_id = ?
	`, email, placeID)
	if err != nil {
		return 0, fmt.Errorf("delete restaurant rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete restaurant rating: %w", err)
	}
	return rows, nil
}

// GetRecipeRating returns the rating one user gave one recipe, or nil and
// no error when none is stored.
func (s *Store) GetRecipeRating(ctx context.Context, email, recipeID string) (*domain.RecipeRating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT email, recipe_id, recipe_name, comment, rating, updated_at
		FROM recipe_ratings WHERE email = ? AND recipe_id = ?
	`, email, recipeID)

	rating, err := scanRecipeRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recipe rating: %w", err)
	}
	return rating, nil
}

// ListRecipeRatings returns all recipe ratings of one user.
func (s *Store) ListRecipeRatings(ctx context.Context, email string) ([]domain.RecipeRating, error) {
	if _, err := s.GetUserByMail(ctx, email); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, recipe_id, recipe_name, comment, rating, updated_at
		FROM recipe_ratings WHERE email = ?
		ORDER BY updated_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query recipe ratings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ratings := make([]domain.RecipeRating, 0)
	for rows.Next() {
		rating, err := scanRecipeRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe rating: %w", err)
		}
		ratings = append(ratings, *rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ratings: %w", err)
	}
	return ratings, nil
}

// CreateRecipeRating inserts a new recipe rating. The referenced user must
// exist; the timestamp is set by the store.
func (s *Store) CreateRecipeRating(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	if _, err := s.GetUserByMail(ctx, rating.Email); err != nil {
		return domain.RecipeRating{}, err
	}

	rating.Timestamp = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipe_ratings (email, recipe_id, recipe_name, comment, rating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rating.Email, rating.RecipeID, rating.Name, rating.Comment, rating.Rating, rating.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.RecipeRating{}, fmt.Errorf("%w: rating %s/%s", ErrDuplicateEntry, rating.Email, rating.RecipeID)
		}
		return domain.RecipeRating{}, fmt.Errorf("create recipe rating: %w", err)
	}
	return rating, nil
}

// UpdateRecipeRating replaces comment and rating of a stored assessment and
// refreshes its timestamp.
func (s *Store) UpdateRecipeRating(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE recipe_ratings SET comment = ?, rating = ?, updated_at = ?
		WHERE email = ? AND recipe_id = ?
	`, rating.Comment, rating.Rating, now, rating.Email, rating.RecipeID)
	if err != nil {
		return domain.RecipeRating{}, fmt.Errorf("update recipe rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.RecipeRating{}, fmt.Errorf("update recipe rating: %w", err)
	}
	if rows == 0 {
		return domain.RecipeRating{}, fmt.Errorf("update recipe rating %s/%s: no such assessment", rating.Email, rating.RecipeID)
	}
	updated, err := s.GetRecipeRating(ctx, rating.Email, rating.RecipeID)
	if err != nil {
		return domain.RecipeRating{}, err
	}
	return *updated, nil
}

// DeleteRecipeRating removes one assessment and reports affected rows.
func (s *Store) DeleteRecipeRating(ctx context.Context, email, recipeID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM recipe_ratings WHERE email = ? AND recipe_id = ?
	`, email, recipeID)
	if err != nil {
		return 0, fmt.Errorf("delete recipe rating: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete recipe rating: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRestaurantRating(row scanner) (*domain.RestaurantRating, error) {
	var rating domain.RestaurantRating
	if err := row.Scan(&rating.Email, &rating.PlaceID, &rating.Name, &rating.Comment, &rating.Rating, &rating.Timestamp); err != nil {
		return nil, err
	}
	return &rating, nil
}

func scanRecipeRating(row scanner) (*domain.RecipeRating, error) {
	var rating domain.RecipeRating
	if err := row.Scan(&rating.Email, &rating.RecipeID, &rating.Name, &rating.Comment, &rating.Rating, &rating.Timestamp); err != nil {
		return nil, err
	}
	return &rating, nil
}
