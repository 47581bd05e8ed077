package domain

// Location identifies a point on earth.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RestaurantLocation extends a Location with the formatted address.
type RestaurantLocation struct {
	Location
	Address string `json:"address,omitempty"`
}

// Restaurant is one candidate returned by the places source. Rating and
// OwnRating stay nil when no rating is known; they are never coerced to 0
// outside of weight computation.
type Restaurant struct {
	PlaceID   string             `json:"place_id"`
	Name      string             `json:"name"`
	Location  RestaurantLocation `json:"location"`
	Rating    *float64           `json:"rating,omitempty"`
	OwnRating *float64           `json:"own_rating,omitempty"`
	Phone     string             `json:"phone,omitempty"`
	Homepage  string             `json:"homepage,omitempty"`
	MapsURL   string             `json:"maps_url,omitempty"`
}

// PlaceDetails carries the extended fields fetched for a selected restaurant.
type PlaceDetails struct {
	Homepage string
	MapsURL  string
	Phone    string
	Address  string
}
