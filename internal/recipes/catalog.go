// Package recipes loads the static recipe dataset and answers filter
// queries against it. The catalog is read-only after Load and safe to
// share across requests.
package recipes

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// ErrInvalidKeyword is returned when the keyword is not a valid pattern.
var ErrInvalidKeyword = errors.New("invalid keyword pattern")

// maxLineBytes bounds one dataset line; some recipes carry long
// instruction blocks.
const maxLineBytes = 1 << 20

// Catalog is the in-memory recipe table.
type Catalog struct {
	recipes []domain.Recipe
}

type datasetRow struct {
	ID struct {
		OID string `json:"$oid"`
	} `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"recipeInstructions"`
	URL          string `json:"url"`
	Image        string `json:"image"`
	CookTime     string `json:"cookTime"`
	PrepTime     string `json:"prepTime"`
}

// Load reads a newline-delimited JSON dataset.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe dataset: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	catalog := &Catalog{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row datasetRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("decode recipe dataset line %d: %w", lineNo, err)
		}
		catalog.recipes = append(catalog.recipes, domain.Recipe{
			ID:           row.ID.OID,
			Name:         row.Name,
			Description:  row.Description,
			Ingredients:  row.Ingredients,
			Instructions: row.Instructions,
			URL:          row.URL,
			Image:        row.Image,
			CookTime:     parseISODuration(row.CookTime),
			PrepTime:     parseISODuration(row.PrepTime),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recipe dataset: %w", err)
	}
	return catalog, nil
}

// Len returns the number of loaded recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Filter returns every recipe whose combined cook and prep time fits
// maxTotalTime and that matches the keyword. Recipes without parseable
// durations never pass the time filter. An empty keyword matches all;
// otherwise it is applied case-insensitively against name, description,
// and instructions.
func (c *Catalog) Filter(maxTotalTime time.Duration, keyword string) ([]domain.Recipe, error) {
	var pattern *regexp.Regexp
	if trimmed := strings.TrimSpace(keyword); trimmed != "" {
		compiled, err := regexp.Compile("(?i)" + trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyword, err)
		}
		pattern = compiled
	}

	matches := make([]domain.Recipe, 0)
	for _, recipe := range c.recipes {
		if !cooktimeOK(recipe, maxTotalTime) {
			continue
		}
		if !keywordOK(recipe, pattern) {
			continue
		}
		matches = append(matches, recipe)
	}
	return matches, nil
}

func cooktimeOK(recipe domain.Recipe, maxTotalTime time.Duration) bool {
	if recipe.CookTime == nil || recipe.PrepTime == nil {
		return false
	}
	return *recipe.CookTime+*recipe.PrepTime <= maxTotalTime
}

func keywordOK(recipe domain.Recipe, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return true
	}
	return pattern.MatchString(recipe.Name) ||
		pattern.MatchString(recipe.Description) ||
		pattern.MatchString(recipe.Instructions)
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts the dataset's ISO-8601 time strings (PT1H30M)
// to a duration. Anything unparseable yields nil, which the time filter
// treats as not satisfying the constraint.
func parseISODuration(raw string) *time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "PT" {
		return nil
	}
	groups := isoDurationPattern.FindStringSubmatch(raw)
	if groups == nil {
		return nil
	}
	total := time.Duration(0)
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if groups[i+1] == "" {
			continue
		}
		value, err := strconv.Atoi(groups[i+1])
		if err != nil {
			return nil
		}
		total += time.Duration(value) * unit
	}
	return &total
}
