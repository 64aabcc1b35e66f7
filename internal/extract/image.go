package extract

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/shopscout-service/internal/entity"
	"github.com/user/shopscout-service/pkg/utils"
)

const minImageDimension = 100

var (
	goodClassPatterns = []string{"product", "hero", "main", "feature", "gallery", "zoom", "primary"}
	junkClassPatterns = []string{"logo", "icon", "sprite", "banner", "ad", "social", "avatar", "thumb", "badge", "button", "nav"}
	goodURLPatterns   = []string{"product", "hero", "main", "feature", "gallery", "zoom", "item"}
	junkURLPatterns   = []string{
		"logo", "icon", "sprite", "banner", "ad", "social", "avatar", "badge",
		"button", "arrow", "placeholder", "transparent-pixel", "grey-pixel",
		"gray-pixel", "spacer", "loading", "1x1",
	}
	ancestorPatterns = []string{"product", "main", "content", "gallery", "detail"}

	lazySrcAttrs = []string{"data-src", "data-lazy-src", "data-srcset", "data-original"}
)

// imageFacts is everything a scoring rule may look at for one <img> element.
type imageFacts struct {
	url      string
	width    int
	height   int
	alt      string
	classes  string
	ancestor bool // some ancestor class or id matches ancestorPatterns
}

// scoreRule is one named heuristic. Rules are applied in order and their
// contributions summed; keeping them as an explicit list keeps the heuristic
// testable rule by rule.
type scoreRule struct {
	name  string
	score func(f imageFacts) float64
}

var imageScoreRules = []scoreRule{
	{"area", func(f imageFacts) float64 {
		if f.width > 0 && f.height > 0 {
			area := float64(f.width) * float64(f.height)
			if v := area / 10000; v < 100 {
				return v
			}
			return 100
		}
		return 20
	}},
	{"aspect-ratio", func(f imageFacts) float64 {
		if f.width > 0 && f.height > 0 {
			ratio := float64(f.width) / float64(f.height)
			if ratio > 0.5 && ratio < 2.5 {
				return 30
			}
		}
		return 0
	}},
	{"alt-length", func(f imageFacts) float64 {
		if n := len(f.alt); n > 10 {
			if v := float64(n) / 2; v < 30 {
				return v
			}
			return 30
		}
		return 0
	}},
	{"class-bonus", func(f imageFacts) float64 {
		if containsAny(strings.ToLower(f.classes), goodClassPatterns) {
			return 50
		}
		return 0
	}},
	{"class-penalty", func(f imageFacts) float64 {
		if containsAny(strings.ToLower(f.classes), junkClassPatterns) {
			return -50
		}
		return 0
	}},
	{"url-penalty", func(f imageFacts) float64 {
		if containsAny(strings.ToLower(f.url), junkURLPatterns) {
			return -50
		}
		return 0
	}},
	{"url-bonus", func(f imageFacts) float64 {
		if containsAny(strings.ToLower(f.url), goodURLPatterns) {
			return 40
		}
		return 0
	}},
	{"ancestor", func(f imageFacts) float64 {
		if f.ancestor {
			return 30
		}
		return 0
	}},
}

// SelectImage picks the single representative image URL for a page, or ""
// when no usable image exists. Precedence: og:image meta tag, then a
// schema.org Product image, then heuristic scoring over all <img> elements.
func SelectImage(page *entity.ParsedPage) string {
	if content, ok := page.Doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && content != "" {
		return content
	}

	if img := productSchemaImage(page.Doc); img != "" {
		return img
	}

	candidates := scoreImages(page)
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates[0].URL
}

// productSchemaImage scans embedded JSON-LD blocks for a Product entry and
// returns its image, accepting string, array, and object forms.
func productSchemaImage(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw interface{}
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		items, ok := raw.([]interface{})
		if !ok {
			items = []interface{}{raw}
		}
		for _, it := range items {
			obj, ok := it.(map[string]interface{})
			if !ok || obj["@type"] != "Product" {
				continue
			}
			if img := schemaImageValue(obj["image"]); img != "" {
				found = img
				return false
			}
		}
		return true
	})
	return found
}

func schemaImageValue(v interface{}) string {
	switch img := v.(type) {
	case string:
		return img
	case []interface{}:
		if len(img) == 0 {
			return ""
		}
		if s, ok := img[0].(string); ok {
			return s
		}
		if obj, ok := img[0].(map[string]interface{}); ok {
			if s, ok := obj["url"].(string); ok {
				return s
			}
		}
	case map[string]interface{}:
		if s, ok := img["url"].(string); ok {
			return s
		}
	}
	return ""
}

func scoreImages(page *entity.ParsedPage) []entity.ImageCandidate {
	var candidates []entity.ImageCandidate

	page.Doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := resolveImageSource(s, page.BaseURL)
		if src == "" {
			return
		}

		width, height := parseDimensions(s)
		// Tiny images are out before any scoring can rescue them.
		if width > 0 && height > 0 && (width < minImageDimension || height < minImageDimension) {
			return
		}

		alt := s.AttrOr("alt", "")
		facts := imageFacts{
			url:      src,
			width:    width,
			height:   height,
			alt:      alt,
			classes:  s.AttrOr("class", ""),
			ancestor: hasScoredAncestor(s),
		}

		var score float64
		for _, rule := range imageScoreRules {
			score += rule.score(facts)
		}

		if len(alt) > 50 {
			alt = alt[:50]
		}
		candidates = append(candidates, entity.ImageCandidate{
			URL:    src,
			Score:  score,
			Width:  width,
			Height: height,
			Alt:    alt,
		})
	})

	return candidates
}

// resolveImageSource picks a usable source attribute, unwraps srcset lists,
// and normalizes protocol-relative and root-relative URLs. Inline data URIs
// are rejected.
func resolveImageSource(s *goquery.Selection, baseURL string) string {
	src := s.AttrOr("src", "")
	for _, attr := range lazySrcAttrs {
		if src != "" {
			break
		}
		src = s.AttrOr(attr, "")
	}
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}

	// srcset form: take the first URL, dropping its width descriptor.
	if strings.Contains(src, ",") {
		first := strings.Split(src, ",")[0]
		if fields := strings.Fields(first); len(fields) > 0 {
			src = fields[0]
		}
	}

	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if strings.HasPrefix(src, "/") {
		base, err := url.Parse(baseURL)
		if err != nil {
			return src
		}
		abs, err := utils.ToAbsoluteURL(base, src)
		if err != nil {
			return src
		}
		return abs
	}
	return src
}

// parseDimensions reads the declared width/height attributes. If either is
// present but not an integer, both are treated as unknown.
func parseDimensions(s *goquery.Selection) (int, int) {
	widthAttr := s.AttrOr("width", "")
	heightAttr := s.AttrOr("height", "")

	var width, height int
	if widthAttr != "" {
		w, err := strconv.Atoi(strings.TrimSpace(widthAttr))
		if err != nil {
			return 0, 0
		}
		width = w
	}
	if heightAttr != "" {
		h, err := strconv.Atoi(strings.TrimSpace(heightAttr))
		if err != nil {
			return 0, 0
		}
		height = h
	}
	return width, height
}

func hasScoredAncestor(s *goquery.Selection) bool {
	matched := false
	s.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		class := strings.ToLower(p.AttrOr("class", ""))
		id := strings.ToLower(p.AttrOr("id", ""))
		for _, pattern := range ancestorPatterns {
			if strings.Contains(class, pattern) || strings.Contains(id, pattern) {
				matched = true
				return false
			}
		}
		return true
	})
	return matched
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
