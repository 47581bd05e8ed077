package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/essensfindung/essensfindung/internal/auth"
	"github.com/essensfindung/essensfindung/internal/gateway/geocode"
	"github.com/essensfindung/essensfindung/internal/gateway/places"
	"github.com/essensfindung/essensfindung/internal/recipes"
	"github.com/essensfindung/essensfindung/internal/service/recipe"
	"github.com/essensfindung/essensfindung/internal/service/restaurant"
	"github.com/essensfindung/essensfindung/internal/storage/sqlite"
)

type errorPayload struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorPayload{Error: message})
}

// respondError translates the service error kinds into HTTP statuses. The
// full error stays in the log; clients only see the message.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, recipes.ErrInvalidKeyword):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNotAuthorized):
		s.writeError(w, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, restaurant.ErrNoResults),
		errors.Is(err, recipe.ErrRecipeNotFound),
		errors.Is(err, geocode.ErrLocationNotFound),
		errors.Is(err, sqlite.ErrUserNotFound),
		errors.Is(err, sqlite.ErrRestaurantNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sqlite.ErrDuplicateEntry):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, places.ErrUpstream), errors.Is(err, geocode.ErrLookup):
		s.log.Error().Err(err).Msg("upstream failure")
		s.writeError(w, http.StatusBadGateway, "external service unavailable")
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, out any) error {
	defer func() {
		_ = r.Body.Close()
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}
