package entity

// HistoryItem is one entry from an uploaded browser history export.
type HistoryItem struct {
	URL           string   `json:"url"`
	LastVisitTime *float64 `json:"lastVisitTime,omitempty"`
	Title         string   `json:"title,omitempty"`
}

// BatchStats summarizes one pipeline run over a batch of history items.
type BatchStats struct {
	Total       int `json:"total"`
	Processed   int `json:"processed"`
	Products    int `json:"products"`
	NonProducts int `json:"non_products"`
	Errors      int `json:"errors"`
}

// BatchResult carries the stats plus every product record the run produced.
type BatchResult struct {
	Stats    BatchStats       `json:"stats"`
	Products []*ProductRecord `json:"products"`
}
