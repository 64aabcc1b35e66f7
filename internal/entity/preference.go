package entity

// PriceRange summarizes prices seen within one category.
type PriceRange struct {
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Avg    *float64 `json:"avg"`
	Median *float64 `json:"median"`
}

// CategoryPreference aggregates the products of one category.
type CategoryPreference struct {
	Count              int            `json:"count"`
	Brands             map[string]int `json:"brands"`
	TopBrands          []string       `json:"top_brands"`
	Colors             map[string]int `json:"colors"`
	FavoriteColors     []string       `json:"favorite_colors"`
	Sizes              map[string]int `json:"sizes"`
	PreferredSizes     []string       `json:"preferred_sizes"`
	Conditions         map[string]int `json:"conditions"`
	PreferredCondition *string        `json:"preferred_condition"`
	PriceRange         PriceRange     `json:"price_range"`
}

// PreferenceProfile is the derived shopping profile for one user, computed
// from all stored product records.
type PreferenceProfile struct {
	UserID              string                        `json:"user_id"`
	TotalProducts       int                           `json:"total_products"`
	TopCategories       []string                      `json:"top_categories"`
	TopBrands           []string                      `json:"top_brands"`
	TopColors           []string                      `json:"top_colors"`
	CategoryPreferences map[string]CategoryPreference `json:"category_preferences"`
}
