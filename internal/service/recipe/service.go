// Package recipe picks a random recipe matching a filter and tracks the
// user's recipe assessments.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/essensfindung/essensfindung/internal/domain"
	"github.com/essensfindung/essensfindung/internal/storage/sqlite"
)

// ErrRecipeNotFound indicates that no recipe matched the filter.
var ErrRecipeNotFound = errors.New("no recipe found with these filters")

// Catalog answers filter queries over the static recipe dataset.
type Catalog interface {
	Filter(maxTotalTime time.Duration, keyword string) ([]domain.Recipe, error)
}

// Store persists recipe ratings.
type Store interface {
	GetRecipeRating(ctx context.Context, email, recipeID string) (*domain.RecipeRating, error)
	ListRecipeRatings(ctx context.Context, email string) ([]domain.RecipeRating, error)
	CreateRecipeRating(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error)
	UpdateRecipeRating(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error)
	DeleteRecipeRating(ctx context.Context, email, recipeID string) (int64, error)
}

// Service searches recipes and manages recipe assessments.
type Service struct {
	catalog Catalog
	store   Store
	log     zerolog.Logger

	rngM sync.Mutex
	rng  *rand.Rand
}

// Option applies Service options.
type Option func(*Service)

// WithRand replaces the selection random source, used by tests for
// reproducible draws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates the recipe service.
func NewService(catalog Catalog, store Store, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		store:   store,
		log:     zerolog.Nop(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search picks one recipe uniformly at random from all recipes matching
// the filter. Unlike restaurants, no rating weighting applies. The pick
// receives a placeholder rating entry if the user never rated it.
func (s *Service) Search(ctx context.Context, user domain.User, filter domain.RecipeFilter) (domain.Recipe, error) {
	if err := filter.Validate(); err != nil {
		return domain.Recipe{}, fmt.Errorf("validate filter: %w", err)
	}

	matches, err := s.catalog.Filter(filter.MaxTotalTime, filter.Keyword)
	if err != nil {
		return domain.Recipe{}, err
	}
	if len(matches) == 0 {
		return domain.Recipe{}, ErrRecipeNotFound
	}

	s.rngM.Lock()
	pick := matches[s.rng.Intn(len(matches))]
	s.rngM.Unlock()

	if err := s.ensureRating(ctx, user, pick); err != nil {
		return domain.Recipe{}, err
	}

	s.log.Info().
		Str("email", user.Email).
		Str("recipe_id", pick.ID).
		Int("matches", len(matches)).
		Msg("recipe selected")
	return pick, nil
}

func (s *Service) ensureRating(ctx context.Context, user domain.User, pick domain.Recipe) error {
	existing, err := s.store.GetRecipeRating(ctx, user.Email, pick.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.store.CreateRecipeRating(ctx, domain.RecipeRating{
		Email:    user.Email,
		RecipeID: pick.ID,
		Name:     pick.Name,
	})
	if err != nil && !errors.Is(err, sqlite.ErrDuplicateEntry) {
		return err
	}
	return nil
}

// Assessments returns every recipe rating the user stored.
func (s *Service) Assessments(ctx context.Context, user domain.User) ([]domain.RecipeRating, error) {
	return s.store.ListRecipeRatings(ctx, user.Email)
}

// AddAssessment stores a new rating. The rating must not exist yet.
func (s *Service) AddAssessment(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	return s.store.CreateRecipeRating(ctx, rating)
}

// UpdateAssessment replaces comment and rating of a stored assessment.
func (s *Service) UpdateAssessment(ctx context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	return s.store.UpdateRecipeRating(ctx, rating)
}

// DeleteAssessment removes one assessment.
func (s *Service) DeleteAssessment(ctx context.Context, user domain.User, recipeID string) error {
	rows, err := s.store.DeleteRecipeRating(ctx, user.Email, recipeID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("delete assessment %s/%s: no such assessment", user.Email, recipeID)
	}
	return nil
}
