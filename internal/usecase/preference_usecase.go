package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/internal/repository"
)

const defaultUserID = "default_user"

// PreferenceComputer derives a shopping profile from stored records.
type PreferenceComputer interface {
	ComputeProfile(ctx context.Context) (*entity.PreferenceProfile, error)
}

type preferenceUseCase struct {
	records repository.ProductRecordRepository
}

func NewPreferenceComputer(records repository.ProductRecordRepository) PreferenceComputer {
	return &preferenceUseCase{records: records}
}

var priceValuePattern = regexp.MustCompile(`[\d]+\.?\d*`)

// counter tallies string values and ranks them by count, breaking ties by
// name so output is stable.
type counter map[string]int

func (c counter) add(key string) { c[key]++ }

func (c counter) topN(n int) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c[keys[i]] != c[keys[j]] {
			return c[keys[i]] > c[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

type categoryAccumulator struct {
	count      int
	brands     counter
	colors     counter
	sizes      counter
	conditions counter
	prices     []float64
}

// ComputeProfile aggregates every stored product record into top-level and
// per-category preference counters.
func (uc *preferenceUseCase) ComputeProfile(ctx context.Context) (*entity.PreferenceProfile, error) {
	records, err := uc.records.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list product records: %w", err)
	}

	categories := counter{}
	brands := counter{}
	colors := counter{}
	perCategory := map[string]*categoryAccumulator{}
	total := 0

	for _, record := range records {
		if !record.IsProductYes() {
			continue
		}
		total++

		category := deref(record.Category)
		brand := deref(record.Brand)

		if category != "" {
			categories.add(category)
		}
		if brand != "" {
			brands.add(brand)
		}
		for _, c := range splitColors(deref(record.Color)) {
			colors.add(c)
		}

		if category == "" {
			continue
		}
		acc := perCategory[category]
		if acc == nil {
			acc = &categoryAccumulator{
				brands:     counter{},
				colors:     counter{},
				sizes:      counter{},
				conditions: counter{},
			}
			perCategory[category] = acc
		}
		acc.count++
		if brand != "" {
			acc.brands.add(brand)
		}
		for _, c := range splitColors(deref(record.Color)) {
			acc.colors.add(c)
		}
		if size := record.AdditionalAttributes["Size"]; size != "" {
			acc.sizes.add(size)
		}
		if condition := record.AdditionalAttributes["Condition"]; condition != "" {
			acc.conditions.add(condition)
		}
		if price, ok := ParsePrice(deref(record.Price)); ok {
			acc.prices = append(acc.prices, price)
		}
	}

	profile := &entity.PreferenceProfile{
		UserID:              defaultUserID,
		TotalProducts:       total,
		TopCategories:       categories.topN(10),
		TopBrands:           brands.topN(10),
		TopColors:           colors.topN(10),
		CategoryPreferences: map[string]entity.CategoryPreference{},
	}

	for category, acc := range perCategory {
		pref := entity.CategoryPreference{
			Count:          acc.count,
			Brands:         acc.brands,
			TopBrands:      acc.brands.topN(3),
			Colors:         acc.colors,
			FavoriteColors: acc.colors.topN(3),
			Sizes:          acc.sizes,
			PreferredSizes: acc.sizes.topN(3),
			Conditions:     acc.conditions,
			PriceRange:     priceRange(acc.prices),
		}
		if top := acc.conditions.topN(1); len(top) > 0 {
			pref.PreferredCondition = &top[0]
		}
		profile.CategoryPreferences[category] = pref
	}

	return profile, nil
}

// splitColors breaks multi-color values like "Black/White" into parts.
func splitColors(color string) []string {
	if color == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(color, func(r rune) bool { return r == '/' || r == ',' }) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParsePrice extracts the numeric value from a price string like
// "US $1,299.00".
func ParsePrice(price string) (float64, bool) {
	if price == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(price, ",", "")
	match := priceValuePattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func priceRange(prices []float64) entity.PriceRange {
	if len(prices) == 0 {
		return entity.PriceRange{}
	}
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}
	min := round2(sorted[0])
	max := round2(sorted[len(sorted)-1])
	avg := round2(sum / float64(len(sorted)))

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = round2((sorted[mid-1] + sorted[mid]) / 2)
	} else {
		median = round2(sorted[mid])
	}

	return entity.PriceRange{Min: &min, Max: &max, Avg: &avg, Median: &median}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
