package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://shop.com/item")
	b := HashURL("https://shop.com/item")
	c := HashURL("https://shop.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://shop.com/products/shoes")
	require.NoError(t, err)

	abs, err := ToAbsoluteURL(base, "/images/hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.com/images/hero.jpg", abs)

	abs, err = ToAbsoluteURL(base, "detail.html")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.com/products/detail.html", abs)
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "https://shop.com/item", EnsureScheme("shop.com/item"))
	assert.Equal(t, "https://shop.com/item", EnsureScheme("https://shop.com/item"))
	assert.Equal(t, "http://shop.com/item", EnsureScheme("http://shop.com/item"))
}

func TestRandomHex(t *testing.T) {
	a := RandomHex(16)
	b := RandomHex(16)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
