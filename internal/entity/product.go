package entity

// Heading is one h1-h6 element with its level, in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// PageText holds the structured text pulled out of a parsed page. It is one
// of the two inputs to reconciliation, serialized as-is into the prompt.
type PageText struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Heading     string    `json:"heading"`
	MainContent string    `json:"main_content"`
	Headings    []Heading `json:"headings"`
	PriceHint   string    `json:"price,omitempty"`
}

// ImageCandidate is a scored image considered by the representative-image
// selector. Candidates live only for the duration of one selection call.
type ImageCandidate struct {
	URL    string
	Score  float64
	Width  int
	Height int
	Alt    string
}

// ProductRecord is the canonical reconciled output for one URL. JSON keys
// match the persisted artifact format; nullable fields stay present as null
// rather than being omitted, so every record carries the full schema.
type ProductRecord struct {
	IsProduct            string            `json:"is_product"`
	ProductName          *string           `json:"product_name"`
	Color                *string           `json:"Color"`
	Brand                *string           `json:"Brand"`
	Price                *string           `json:"price"`
	Currency             *string           `json:"currency"`
	Rating               *float64          `json:"rating"`
	RatingCount          *int64            `json:"rating_count"`
	Description          *string           `json:"description"`
	Category             *string           `json:"Category"`
	AdditionalAttributes map[string]string `json:"additional_attributes"`

	// Enrichment fields, merged in by the caller after reconciliation.
	URL           string   `json:"url"`
	LastVisitTime *float64 `json:"lastVisitTime"`
	OriginalTitle *string  `json:"original_title"`
	MainImage     *string  `json:"main_image"`
}

// IsProductYes reports whether reconciliation classified the page as a
// product page.
func (p *ProductRecord) IsProductYes() bool {
	return p.IsProduct == "Yes"
}
