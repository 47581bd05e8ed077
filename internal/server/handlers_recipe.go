package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// noTimeLimit stands in when the caller leaves the time bound empty, so
// recipes without a known duration limit still match.
const noTimeLimit = 100000 * time.Hour

type recipeSearchRequest struct {
	Keyword         string `json:"keyword"`
	MaxTotalMinutes int    `json:"max_total_minutes"`
}

func (s *Server) handleRecipeSearch(w http.ResponseWriter, r *http.Request) {
	var req recipeSearchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	maxTotal := time.Duration(req.MaxTotalMinutes) * time.Minute
	if maxTotal <= 0 {
		maxTotal = noTimeLimit
	}

	recipe, err := s.recipes.Search(r.Context(), currentUser(r), domain.RecipeFilter{
		Keyword:      req.Keyword,
		MaxTotalTime: maxTotal,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

type recipeRatingRequest struct {
	RecipeID string  `json:"recipe_id"`
	Name     string  `json:"name"`
	Comment  string  `json:"comment"`
	Rating   float64 `json:"rating"`
}

func (s *Server) handleListRecipeRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.recipes.Assessments(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleCreateRecipeRating(w http.ResponseWriter, r *http.Request) {
	var req recipeRatingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.recipes.AddAssessment(r.Context(), domain.RecipeRating{
		Email:    currentUser(r).Email,
		RecipeID: req.RecipeID,
		Name:     req.Name,
		Comment:  req.Comment,
		Rating:   req.Rating,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecipeRating(w http.ResponseWriter, r *http.Request) {
	var req recipeRatingRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.recipes.UpdateAssessment(r.Context(), domain.RecipeRating{
		Email:    currentUser(r).Email,
		RecipeID: req.RecipeID,
		Name:     req.Name,
		Comment:  req.Comment,
		Rating:   req.Rating,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecipeRating(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "recipeID")
	if err := s.recipes.DeleteAssessment(r.Context(), currentUser(r), recipeID); err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
