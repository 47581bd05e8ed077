// Package restaurant implements the restaurant decision pipeline: query the
// places source per cuisine, filter by minimum rating, merge the user's own
// rating history, and draw one winner weighted by both ratings.
package restaurant

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/essensfindung/essensfindung/internal/domain"
	"github.com/essensfindung/essensfindung/internal/gateway/places"
	"github.com/essensfindung/essensfindung/internal/storage/sqlite"
)

var (
	// ErrNoResults indicates that no restaurant matched the search criteria.
	ErrNoResults = errors.New("no restaurants found with these parameters")
	// ErrNoCandidates indicates an empty candidate list handed to Select.
	// The orchestrator checks for no results before selecting, so callers
	// should never see it.
	ErrNoCandidates = errors.New("no candidates to select from")
)

// PlacesGateway is the external restaurant source.
type PlacesGateway interface {
	NearbySearch(ctx context.Context, query places.NearbyQuery) ([]domain.Restaurant, error)
	Details(ctx context.Context, placeID string) (domain.PlaceDetails, error)
}

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	Get(ctx context.Context, address string) (domain.Location, error)
}

// Store persists restaurants, ratings, and saved filters.
type Store interface {
	GetRestaurantByID(ctx context.Context, placeID string) (*domain.Restaurant, error)
	CreateRestaurant(ctx context.Context, placeID, name string) error
	ListRestaurants(ctx context.Context, offset, limit int) ([]domain.Restaurant, error)
	GetRestaurantRating(ctx context.Context, email, placeID string) (*domain.RestaurantRating, error)
	ListRestaurantRatings(ctx context.Context, email string) ([]domain.RestaurantRating, error)
	CreateRestaurantRating(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error)
	UpdateRestaurantRating(ctx context.Context, rating domain.RestaurantRating) (domain.RestaurantRating, error)
	DeleteRestaurantRating(ctx context.Context, email, placeID string) (int64, error)
	GetFilter(ctx context.Context, email string) (*domain.SavedRestaurantFilter, error)
	CreateFilter(ctx context.Context, email string, filter domain.SavedRestaurantFilter) (domain.SavedRestaurantFilter, error)
	UpdateFilter(ctx context.Context, email string, filter domain.SavedRestaurantFilter) (domain.SavedRestaurantFilter, error)
}

// Service orchestrates the restaurant search.
type Service struct {
	places PlacesGateway
	geo    Geocoder
	store  Store
	log    zerolog.Logger

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

// NewService creates the restaurant service.
func NewService(placesGateway PlacesGateway, geo Geocoder, store Store, opts ...Option) *Service {
	s := &Service{
		places: placesGateway,
		geo:    geo,
		store:  store,
		log:    zerolog.Nop(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeocodeLocation resolves the free-text location of a search into
// coordinates.
func (s *Service) GeocodeLocation(ctx context.Context, locationText string) (domain.Location, error) {
	return s.geo.Get(ctx, locationText)
}

// KnownRestaurants pages through the restaurants past searches have cached.
func (s *Service) KnownRestaurants(ctx context.Context, offset, limit int) ([]domain.Restaurant, error) {
	return s.store.ListRestaurants(ctx, offset, limit)
}

// Search runs the full pipeline and returns the one restaurant the user
// should visit. The winner is cached in the restaurant table and receives a
// placeholder rating entry if the user never rated it.
func (s *Service) Search(ctx context.Context, user domain.User, filter domain.RestaurantFilter) (domain.Restaurant, error) {
	if err := filter.Validate(); err != nil {
		return domain.Restaurant{}, fmt.Errorf("validate filter: %w", err)
	}

	candidates, err := s.queryAllCuisines(ctx, filter)
	if err != nil {
		return domain.Restaurant{}, err
	}

	filtered := FilterByRating(candidates, filter.Rating)
	if len(filtered) == 0 {
		return domain.Restaurant{}, ErrNoResults
	}

	merged, err := AttachOwnRatings(ctx, filtered, func(ctx context.Context, placeID string) (*domain.RestaurantRating, error) {
		return s.store.GetRestaurantRating(ctx, user.Email, placeID)
	})
	if err != nil {
		return domain.Restaurant{}, err
	}

	s.rngM.Lock()
	winner, err := Select(merged, s.rng)
	s.rngM.Unlock()
	if err != nil {
		return domain.Restaurant{}, err
	}

	details, err := s.places.Details(ctx, winner.PlaceID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	winner.Homepage = details.Homepage
	winner.MapsURL = details.MapsURL
	winner.Phone = details.Phone
	if details.Address != "" {
		winner.Location.Address = details.Address
	}

	if err := s.ensureRestaurant(ctx, winner); err != nil {
		return domain.Restaurant{}, err
	}
	if err := s.ensureRating(ctx, user, winner); err != nil {
		return domain.Restaurant{}, err
	}

	s.log.Info().
		Str("email", user.Email).
		Str("place_id", winner.PlaceID).
		Int("candidates", len(merged)).
		Msg("restaurant selected")
	return winner, nil
}

func (s *Service) queryAllCuisines(ctx context.Context, filter domain.RestaurantFilter) ([]domain.Restaurant, error) {
	candidates := make([]domain.Restaurant, 0)
	seen := map[string]struct{}{}
	for _, cuisine := range filter.Cuisines {
		results, err := s.places.NearbySearch(ctx, places.NearbyQuery{
			Keyword:  cuisine,
			Location: filter.Location,
			Radius:   filter.Radius,
			MaxPrice: filter.Costs,
			OpenNow:  true,
		})
		if err != nil {
			return nil, err
		}
		// A restaurant matching several requested cuisines appears once;
		// otherwise it would hold one selection slot per cuisine.
		for _, result := range results {
			if _, ok := seen[result.PlaceID]; ok {
				continue
			}
			seen[result.PlaceID] = struct{}{}
			candidates = append(candidates, result)
		}
	}
	return candidates, nil
}

func (s *Service) ensureRestaurant(ctx context.Context, winner domain.Restaurant) error {
	existing, err := s.store.GetRestaurantByID(ctx, winner.PlaceID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if err := s.store.CreateRestaurant(ctx, winner.PlaceID, winner.Name); err != nil {
		if errors.Is(err, sqlite.ErrDuplicateEntry) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) ensureRating(ctx context.Context, user domain.User, winner domain.Restaurant) error {
	existing, err := s.store.GetRestaurantRating(ctx, user.Email, winner.PlaceID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.store.CreateRestaurantRating(ctx, domain.RestaurantRating{
		Email:   user.Email,
		PlaceID: winner.PlaceID,
		Name:    winner.Name,
	})
	if err != nil && !errors.Is(err, sqlite.ErrDuplicateEntry) {
		return err
	}
	return nil
}

// FilterByRating returns every candidate whose external rating is at least
// minRating. Candidates without an external rating pass; ratings for new
// places are not known before anyone rated them. The input slice is left
// untouched.
func FilterByRating(candidates []domain.Restaurant, minRating int) []domain.Restaurant {
	filtered := make([]domain.Restaurant, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Rating != nil && *candidate.Rating < float64(minRating) {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// AttachOwnRatings looks up the user's stored rating for every candidate
// and sets OwnRating where one exists. Lookup failures propagate; silently
// treating them as unrated would skew the selection weights.
func AttachOwnRatings(
	ctx context.Context,
	candidates []domain.Restaurant,
	lookup func(ctx context.Context, placeID string) (*domain.RestaurantRating, error),
) ([]domain.Restaurant, error) {
	merged := make([]domain.Restaurant, len(candidates))
	copy(merged, candidates)
	for i := range merged {
		rating, err := lookup(ctx, merged[i].PlaceID)
		if err != nil {
			return nil, fmt.Errorf("lookup own rating for %s: %w", merged[i].PlaceID, err)
		}
		if rating != nil {
			value := rating.Rating
			merged[i].OwnRating = &value
		}
	}
	return merged, nil
}

// Select draws one candidate with weight own_rating*4 + rating*2, counting
// missing ratings as 0 for the weight only. When every weight is 0 the
// draw is uniform.
func Select(candidates []domain.Restaurant, rng *rand.Rand) (domain.Restaurant, error) {
	if len(candidates) == 0 {
		return domain.Restaurant{}, ErrNoCandidates
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, candidate := range candidates {
		weights[i] = selectionWeight(candidate)
		total += weights[i]
	}
	if total == 0 {
		return candidates[rng.Intn(len(candidates))], nil
	}

	draw := rng.Float64() * total
	for i, weight := range weights {
		draw -= weight
		if draw < 0 {
			return candidates[i], nil
		}
	}
	// Float accumulation can leave draw at a hair above zero after the
	// last subtraction.
	return candidates[len(candidates)-1], nil
}

func selectionWeight(candidate domain.Restaurant) float64 {
	own := 0.0
	if candidate.OwnRating != nil {
		own = *candidate.OwnRating
	}
	external := 0.0
	if candidate.Rating != nil {
		external = *candidate.Rating
	}
	return own*4 + external*2
}
