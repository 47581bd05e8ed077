package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Cuisines lists every cuisine the search UI offers.
var Cuisines = []string{
	"Doener",
	"Pizza",
	"Burger",
	"Sushi",
	"Asiatisch",
	"Italienisch",
	"Griechisch",
	"Tuerkisch",
	"Indisch",
	"Mexikanisch",
	"Vegetarisch",
	"Vegan",
}

// Allergies lists every allergy the search UI offers.
var Allergies = []string{
	"Gluten",
	"Laktose",
	"Nuesse",
	"Soja",
	"Eier",
	"Fisch",
	"Krebstiere",
	"Senf",
	"Sellerie",
}

var validate = validator.New()

// RestaurantFilter carries all criteria for one restaurant search.
// Rating and Costs are range checked at the boundary; the selection core
// relies on them being valid.
type RestaurantFilter struct {
	Cuisines  []string `json:"cuisines" validate:"required,min=1,dive,required"`
	Allergies []string `json:"allergies,omitempty"`
	Rating    int      `json:"rating" validate:"gte=1,lte=5"`
	Costs     int      `json:"costs" validate:"gte=0,lte=4"`
	Radius    int      `json:"radius" validate:"gt=0"`
	Location  Location `json:"location"`
}

// Validate checks the filter ranges.
func (f RestaurantFilter) Validate() error {
	return validate.Struct(f)
}

// SavedRestaurantFilter is the per-user filter persisted for prefill.
// The location is kept as the free text the user typed, not as coordinates.
type SavedRestaurantFilter struct {
	Cuisines     []string `json:"cuisines" validate:"required,min=1,dive,required"`
	Allergies    []string `json:"allergies,omitempty"`
	Rating       int      `json:"rating" validate:"gte=1,lte=5"`
	Costs        int      `json:"costs" validate:"gte=0,lte=4"`
	Radius       int      `json:"radius" validate:"gt=0"`
	LocationText string   `json:"location_text" validate:"required"`
}

// Validate checks the filter ranges.
func (f SavedRestaurantFilter) Validate() error {
	return validate.Struct(f)
}

// RecipeFilter carries the criteria for one recipe search. An empty keyword
// matches every recipe.
type RecipeFilter struct {
	Keyword      string        `json:"keyword"`
	MaxTotalTime time.Duration `json:"max_total_time" validate:"gt=0"`
}

// Validate checks the filter ranges.
func (f RecipeFilter) Validate() error {
	return validate.Struct(f)
}

// NormalizeList flattens the loose inputs the web layer may deliver for
// cuisine and allergy selections (nothing, one value, many values) into a
// uniform slice without empty or duplicate entries.
func NormalizeList(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
