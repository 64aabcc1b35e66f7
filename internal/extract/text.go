package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/shopscout-service/internal/entity"
)

const (
	maxMainContentLen = 5000
	maxHeadings       = 20
)

var (
	mainRegionPattern = regexp.MustCompile(`(?i)(content|main|article|product|detail)`)
	pricePattern      = regexp.MustCompile(`(?i)price`)
	headingLevels     = map[string]int{"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6}
)

// ExtractText pulls the structured text fields out of a parsed page.
func ExtractText(page *entity.ParsedPage) entity.PageText {
	doc := page.Doc

	text := entity.PageText{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Heading: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		text.Description = strings.TrimSpace(desc)
	} else if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		text.Description = strings.TrimSpace(desc)
	}

	text.MainContent = mainContent(doc)
	text.Headings = headings(doc)
	text.PriceHint = priceHint(doc)

	return text
}

// mainContent picks the most likely content region, strips boilerplate
// descendants, and returns its whitespace-collapsed text capped at 5000
// characters. The region is cloned so the document itself stays intact.
func mainContent(doc *goquery.Document) string {
	region := doc.Find("main").First()
	if region.Length() == 0 {
		region = doc.Find("article").First()
	}
	if region.Length() == 0 {
		region = firstMatchingDiv(doc, "class")
	}
	if region.Length() == 0 {
		region = firstMatchingDiv(doc, "id")
	}
	if region.Length() == 0 {
		region = doc.Find("body").First()
	}
	if region.Length() == 0 {
		return ""
	}

	clone := region.Clone()
	clone.Find("script, style, nav, footer, header").Remove()

	collapsed := strings.Join(strings.Fields(clone.Text()), " ")
	runes := []rune(collapsed)
	if len(runes) > maxMainContentLen {
		return string(runes[:maxMainContentLen])
	}
	return collapsed
}

func firstMatchingDiv(doc *goquery.Document, attr string) *goquery.Selection {
	var match *goquery.Selection
	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if mainRegionPattern.MatchString(s.AttrOr(attr, "")) {
			match = s
			return false
		}
		return true
	})
	if match == nil {
		// Empty selection so callers can keep chaining Length checks.
		return doc.Find("div.__none__")
	}
	return match
}

// headings lists every non-empty h1-h6 in document order, capped at 20.
func headings(doc *goquery.Document) []entity.Heading {
	var out []entity.Heading
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			return true
		}
		out = append(out, entity.Heading{Level: headingLevels[goquery.NodeName(s)], Text: txt})
		return len(out) < maxHeadings
	})
	return out
}

// priceHint returns the og:price:amount meta content, or the text of the
// first element whose class mentions price.
func priceHint(doc *goquery.Document) string {
	if amount, ok := doc.Find(`meta[property="og:price:amount"]`).First().Attr("content"); ok && amount != "" {
		return strings.TrimSpace(amount)
	}

	var price string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !pricePattern.MatchString(s.AttrOr("class", "")) {
			return true
		}
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			price = txt
			return false
		}
		return true
	})
	return price
}
