package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/essensfindung/essensfindung/internal/domain"
)

type restaurantSearchRequest struct {
	Cuisines     []string `json:"cuisines"`
	Allergies    []string `json:"allergies"`
	Rating       int      `json:"rating"`
	Costs        int      `json:"costs"`
	RadiusMeters int      `json:"radius"`
	LocationText string   `json:"location_text"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

// handleRestaurantSearch saves the filter for prefill, resolves the
// location, and runs the selection pipeline.
func (s *Server) handleRestaurantSearch(w http.ResponseWriter, r *http.Request) {
	var req restaurantSearchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user := currentUser(r)

	cuisines := domain.NormalizeList(req.Cuisines...)
	if len(cuisines) == 0 {
		cuisines = []string{"Restaurant"}
	}
	allergies := domain.NormalizeList(req.Allergies...)

	var location domain.Location
	if req.Lat != nil && req.Lng != nil {
		location = domain.Location{Lat: *req.Lat, Lng: *req.Lng}
	} else {
		resolved, err := s.restaurants.GeocodeLocation(r.Context(), req.LocationText)
		if err != nil {
			s.respondError(w, err)
			return
		}
		location = resolved
	}

	if req.LocationText != "" {
		saved := domain.SavedRestaurantFilter{
			Cuisines:     cuisines,
			Allergies:    allergies,
			Rating:       req.Rating,
			Costs:        req.Costs,
			Radius:       req.RadiusMeters,
			LocationText: req.LocationText,
		}
		if _, err := s.restaurants.SaveFilter(r.Context(), user, saved); err != nil {
			s.respondError(w, err)
			return
		}
	}

	result, err := s.restaurants.Search(r.Context(), user, domain.RestaurantFilter{
		Cuisines:  cuisines,
		Allergies: allergies,
		Rating:    req.Rating,
		Costs:     req.Costs,
		Radius:    req.RadiusMeters,
		Location:  location,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleListRestaurants pages through the restaurants past searches have
// cached, via ?offset= and ?limit= query parameters.
func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 100)

	restaurants, err := s.restaurants.KnownRestaurants(r.Context(), offset, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, restaurants)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

type ratingRequest struct {
	PlaceID string  `json:"place_id"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

func (s *Server) handleListRestaurantRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.restaurants.Assessments(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleCreateRestaurantRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.restaurants.AddAssessment(r.Context(), domain.RestaurantRating{
		Email:   currentUser(r).Email,
		PlaceID: req.PlaceID,
		Comment: req.Comment,
		Rating:  req.Rating,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRestaurantRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.restaurants.UpdateAssessment(r.Context(), domain.RestaurantRating{
		Email:   currentUser(r).Email,
		PlaceID: req.PlaceID,
		Comment: req.Comment,
		Rating:  req.Rating,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRestaurantRating(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	if err := s.restaurants.DeleteAssessment(r.Context(), currentUser(r), placeID); err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := s.restaurants.SavedFilter(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if filter == nil {
		s.writeError(w, http.StatusNotFound, "no saved filter")
		return
	}
	s.writeJSON(w, http.StatusOK, filter)
}

func (s *Server) handleSaveFilter(w http.ResponseWriter, r *http.Request) {
	var filter domain.SavedRestaurantFilter
	if err := decodeBody(r, &filter); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filter.Cuisines = domain.NormalizeList(filter.Cuisines...)
	filter.Allergies = domain.NormalizeList(filter.Allergies...)
	saved, err := s.restaurants.SaveFilter(r.Context(), currentUser(r), filter)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}
