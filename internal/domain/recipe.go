package domain

import "time"

// Recipe is one row of the static recipe catalog. CookTime and PrepTime are
// nil when the source dataset carries no parseable duration.
type Recipe struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Ingredients  string         `json:"ingredients"`
	Instructions string         `json:"instructions,omitempty"`
	URL          string         `json:"url,omitempty"`
	Image        string         `json:"image,omitempty"`
	CookTime     *time.Duration `json:"cook_time,omitempty"`
	PrepTime     *time.Duration `json:"prep_time,omitempty"`
}
