package entity

import "github.com/PuerkitoBio/goquery"

// ParsedPage is the queryable form of a fetched page: the parsed markup plus
// the URL it was resolved against. It is produced by one fetch strategy, read
// by the image selector and text extractor, then discarded.
type ParsedPage struct {
	Doc     *goquery.Document
	BaseURL string
}
