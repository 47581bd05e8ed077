package domain

import "time"

// RestaurantRating is one stored assessment of a restaurant by a user.
// At most one exists per (email, place_id) pair.
type RestaurantRating struct {
	Email     string    `json:"email"`
	PlaceID   string    `json:"place_id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	Rating    float64   `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// RecipeRating is one stored assessment of a recipe by a user.
// At most one exists per (email, recipe_id) pair.
type RecipeRating struct {
	Email     string    `json:"email"`
	RecipeID  string    `json:"recipe_id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	Rating    float64   `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
