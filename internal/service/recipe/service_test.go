package recipe

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

type stubCatalog struct {
	matches     []domain.Recipe
	err         error
	lastMaxTime time.Duration
	lastKeyword string
}

func (c *stubCatalog) Filter(maxTotalTime time.Duration, keyword string) ([]domain.Recipe, error) {
	c.lastMaxTime = maxTotalTime
	c.lastKeyword = keyword
	if c.err != nil {
		return nil, c.err
	}
	return c.matches, nil
}

type memoryRatingStore struct {
	ratings     map[string]domain.RecipeRating
	createCalls int
}

func newMemoryRatingStore() *memoryRatingStore {
	return &memoryRatingStore{ratings: map[string]domain.RecipeRating{}}
}

func ratingKey(email, recipeID string) string {
	return email + "|" + recipeID
}

func (m *memoryRatingStore) GetRecipeRating(_ context.Context, email, recipeID string) (*domain.RecipeRating, error) {
	if r, ok := m.ratings[ratingKey(email, recipeID)]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memoryRatingStore) ListRecipeRatings(_ context.Context, email string) ([]domain.RecipeRating, error) {
	out := make([]domain.RecipeRating, 0)
	for _, r := range m.ratings {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRatingStore) CreateRecipeRating(_ context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	m.createCalls++
	m.ratings[ratingKey(rating.Email, rating.RecipeID)] = rating
	return rating, nil
}

func (m *memoryRatingStore) UpdateRecipeRating(_ context.Context, rating domain.RecipeRating) (domain.RecipeRating, error) {
	key := ratingKey(rating.Email, rating.RecipeID)
	if _, ok := m.ratings[key]; !ok {
		return domain.RecipeRating{}, errors.New("no such rating")
	}
	m.ratings[key] = rating
	return rating, nil
}

func (m *memoryRatingStore) DeleteRecipeRating(_ context.Context, email, recipeID string) (int64, error) {
	key := ratingKey(email, recipeID)
	if _, ok := m.ratings[key]; !ok {
		return 0, nil
	}
	delete(m.ratings, key)
	return 1, nil
}

func TestSearchPicksUniformlyAmongMatches(t *testing.T) {
	catalog := &stubCatalog{matches: []domain.Recipe{
		{ID: "a", Name: "One"},
		{ID: "b", Name: "Two"},
		{ID: "c", Name: "Three"},
	}}
	service := NewService(catalog, newMemoryRatingStore(), WithRand(rand.New(rand.NewSource(11))))
	user := domain.User{Email: "mail@example.com"}
	filter := domain.RecipeFilter{MaxTotalTime: time.Hour}

	counts := map[string]int{}
	draws := 3000
	for i := 0; i < draws; i++ {
		pick, err := service.Search(context.Background(), user, filter)
		if err != nil {
			t.Fatalf("search returned error: %v", err)
		}
		counts[pick.ID]++
	}

	for _, recipe := range catalog.matches {
		got := counts[recipe.ID]
		if got < 800 || got > 1200 {
			t.Fatalf("expected roughly uniform picks for %s, got %d of %d", recipe.ID, got, draws)
		}
	}
}

func TestSearchForwardsFilterToCatalog(t *testing.T) {
	catalog := &stubCatalog{matches: []domain.Recipe{{ID: "a", Name: "One"}}}
	service := NewService(catalog, newMemoryRatingStore())

	_, err := service.Search(context.Background(), domain.User{Email: "mail@example.com"}, domain.RecipeFilter{
		Keyword:      "rice",
		MaxTotalTime: 25 * time.Minute,
	})
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	if catalog.lastKeyword != "rice" || catalog.lastMaxTime != 25*time.Minute {
		t.Fatalf("expected filter forwarded to the catalog, got %q / %v", catalog.lastKeyword, catalog.lastMaxTime)
	}
}

func TestSearchNoMatches(t *testing.T) {
	service := NewService(&stubCatalog{}, newMemoryRatingStore())

	_, err := service.Search(context.Background(), domain.User{Email: "mail@example.com"}, domain.RecipeFilter{
		MaxTotalTime: time.Minute,
	})
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestSearchRejectsInvalidFilter(t *testing.T) {
	service := NewService(&stubCatalog{matches: []domain.Recipe{{ID: "a"}}}, newMemoryRatingStore())

	_, err := service.Search(context.Background(), domain.User{Email: "mail@example.com"}, domain.RecipeFilter{})
	if err == nil {
		t.Fatal("expected validation error for missing time bound")
	}
}

func TestSearchCreatesPlaceholderRatingOnce(t *testing.T) {
	catalog := &stubCatalog{matches: []domain.Recipe{{ID: "a", Name: "One"}}}
	store := newMemoryRatingStore()
	service := NewService(catalog, store)
	user := domain.User{Email: "mail@example.com"}
	filter := domain.RecipeFilter{MaxTotalTime: time.Hour}

	for i := 0; i < 2; i++ {
		if _, err := service.Search(context.Background(), user, filter); err != nil {
			t.Fatalf("search %d returned error: %v", i, err)
		}
	}

	if store.createCalls != 1 {
		t.Fatalf("expected one placeholder insert, got %d", store.createCalls)
	}
	placeholder := store.ratings[ratingKey(user.Email, "a")]
	if placeholder.Rating != 0 || placeholder.Name != "One" {
		t.Fatalf("expected zero-valued placeholder with recipe name, got %+v", placeholder)
	}
}

func TestSearchKeepsExistingRating(t *testing.T) {
	catalog := &stubCatalog{matches: []domain.Recipe{{ID: "a", Name: "One"}}}
	store := newMemoryRatingStore()
	user := domain.User{Email: "mail@example.com"}
	store.ratings[ratingKey(user.Email, "a")] = domain.RecipeRating{
		Email:    user.Email,
		RecipeID: "a",
		Rating:   5,
	}
	service := NewService(catalog, store)

	if _, err := service.Search(context.Background(), user, domain.RecipeFilter{MaxTotalTime: time.Hour}); err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	if store.createCalls != 0 {
		t.Fatalf("expected no placeholder insert, got %d", store.createCalls)
	}
	if store.ratings[ratingKey(user.Email, "a")].Rating != 5 {
		t.Fatal("expected existing rating untouched")
	}
}

func TestDeleteAssessmentMissingRecord(t *testing.T) {
	service := NewService(&stubCatalog{}, newMemoryRatingStore())

	err := service.DeleteAssessment(context.Background(), domain.User{Email: "mail@example.com"}, "nope")
	if err == nil {
		t.Fatal("expected error when deleting a missing assessment")
	}
}
