package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/shopscout-service/internal/entity"
)

func TestExtractText_BasicFields(t *testing.T) {
	html := `<html><head>
		<title>  Nike Air Zoom - Shop  </title>
		<meta name="description" content="The lightest running shoe we make.">
	</head><body>
		<h1> Nike Air Zoom </h1>
		<main>Lightweight upper. Responsive foam.</main>
	</body></html>`

	text := ExtractText(parsePage(t, html, "https://shop.com/item"))

	assert.Equal(t, "Nike Air Zoom - Shop", text.Title)
	assert.Equal(t, "The lightest running shoe we make.", text.Description)
	assert.Equal(t, "Nike Air Zoom", text.Heading)
	assert.Equal(t, "Lightweight upper. Responsive foam.", text.MainContent)
}

func TestExtractText_DescriptionFallsBackToOG(t *testing.T) {
	html := `<html><head>
		<meta property="og:description" content="From the social card.">
	</head><body></body></html>`

	text := ExtractText(parsePage(t, html, "https://shop.com/item"))
	assert.Equal(t, "From the social card.", text.Description)
}

func TestMainContent_RegionCascade(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "main wins over article",
			html: `<body><main>from main</main><article>from article</article></body>`,
			want: "from main",
		},
		{
			name: "article when no main",
			html: `<body><article>from article</article><div class="content">from div</div></body>`,
			want: "from article",
		},
		{
			name: "div by class",
			html: `<body><div class="product-detail">from class div</div><div id="main">from id div</div></body>`,
			want: "from class div",
		},
		{
			name: "div by id",
			html: `<body><div class="sidebar">sidebar</div><div id="main-content">from id div</div></body>`,
			want: "from id div",
		},
		{
			name: "body fallback",
			html: `<body><p>whole body</p></body>`,
			want: "whole body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := ExtractText(parsePage(t, "<html>"+tt.html+"</html>", "https://shop.com"))
			assert.Equal(t, tt.want, text.MainContent)
		})
	}
}

func TestMainContent_StripsBoilerplateAndCollapsesWhitespace(t *testing.T) {
	html := `<html><body><main>
		<script>var x = "hidden";</script>
		<style>.a { color: red }</style>
		<nav>Home / Shoes</nav>
		<header>Site Header</header>
		<p>Real   product

		copy.</p>
		<footer>Copyright</footer>
	</main></body></html>`

	text := ExtractText(parsePage(t, html, "https://shop.com"))

	assert.Equal(t, "Real product copy.", text.MainContent)
	assert.NotContains(t, text.MainContent, "hidden")
	assert.NotContains(t, text.MainContent, "Copyright")
}

func TestMainContent_CappedAt5000Runes(t *testing.T) {
	body := strings.Repeat("word ", 2000)
	html := `<html><body><main>` + body + `</main></body></html>`

	text := ExtractText(parsePage(t, html, "https://shop.com"))
	assert.Len(t, []rune(text.MainContent), 5000)
}

func TestHeadings_DocumentOrderCappedAt20(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><h2>Section</h2><h1>Title</h1><h3></h3>`)
	for i := 0; i < 25; i++ {
		b.WriteString("<h4>More</h4>")
	}
	b.WriteString("</body></html>")

	text := ExtractText(parsePage(t, b.String(), "https://shop.com"))

	assert.Len(t, text.Headings, 20)
	assert.Equal(t, entity.Heading{Level: 2, Text: "Section"}, text.Headings[0])
	assert.Equal(t, entity.Heading{Level: 1, Text: "Title"}, text.Headings[1])
	assert.Equal(t, 4, text.Headings[2].Level, "empty h3 is skipped")
}

func TestPriceHint(t *testing.T) {
	t.Run("og price amount", func(t *testing.T) {
		html := `<html><head><meta property="og:price:amount" content="89.99"></head>
			<body><span class="price">$120.00</span></body></html>`
		text := ExtractText(parsePage(t, html, "https://shop.com"))
		assert.Equal(t, "89.99", text.PriceHint)
	})

	t.Run("first price class", func(t *testing.T) {
		html := `<html><body>
			<span class="old-price"></span>
			<span class="sale-price">$89.99</span>
		</body></html>`
		text := ExtractText(parsePage(t, html, "https://shop.com"))
		assert.Equal(t, "$89.99", text.PriceHint)
	})

	t.Run("absent", func(t *testing.T) {
		text := ExtractText(parsePage(t, `<html><body><p>no price</p></body></html>`, "https://shop.com"))
		assert.Equal(t, "", text.PriceHint)
	})
}
