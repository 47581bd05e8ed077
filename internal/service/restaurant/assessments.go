package restaurant

import (
	"context"
	"fmt"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// Assessments returns every restaurant rating the user stored.
func (s *Service) Assessments(ctx context.Context, user domain.User) ([]domain.RestaurantRating, error) {
	return s.store.ListRestaurantRatings(ctx, user.Email)
}

// AddAssessment stores a new rating. The rating must not exist yet.
func (s *Service) AddAssessment(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error) {
	return s.store.CreateRestaurantRating(ctx, rating)
}

// UpdateAssessment replaces comment and rating of a stored assessment.
func (s *Service) UpdateAssessment(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error) {
	return s.store.UpdateRestaurantRating(ctx, rating)
}

// DeleteAssessment removes one assessment.
func (s *Service) DeleteAssessment(ctx context.Context, user domain.User, placeID string) error {
	rows, err := s.store.DeleteRestaurantRating(ctx, user.Email, placeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("delete assessment %s/%s: no such assessment", user.Email, placeID)
	}
	return nil
}

// SavedFilter returns the user's stored search filter, or nil when none
// was saved yet.
func (s *Service) SavedFilter(ctx context.Context, user domain.User) (*domain.SavedRestaurantFilter, error) {
	return s.store.GetFilter(ctx, user.Email)
}

// SaveFilter stores the search filter of a user for prefill on the next
// visit, creating or updating the single record per user.
func (s *Service) SaveFilter(ctx context.Context, user domain.User, filter domain.SavedRestaurantFilter) (domain.SavedRestaurantFilter, error) {
	if err := filter.Validate(); err != nil {
		return domain.SavedRestaurantFilter{}, fmt.Errorf("validate filter: %w", err)
	}
	existing, err := s.store.GetFilter(ctx, user.Email)
	if err != nil {
		return domain.SavedRestaurantFilter{}, err
	}
	if existing == nil {
		return s.store.CreateFilter(ctx, user.Email, filter)
	}
	return s.store.UpdateFilter(ctx, user.Email, filter)
}
