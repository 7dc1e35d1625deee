package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCSPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/products/main/x", GCSPublicURL("", "/products/main/x", "b"))
	assert.Equal(t, "https://cdn.example.com/categories/1", PublicURL("https://cdn.example.com/", "b", "categories/1"))
	assert.Equal(t, "https://storage.googleapis.com/b/c/1", PublicURL("", "b", "c/1"))
}

func TestParseGCSURL(t *testing.T) {
	b, obj, ok := ParseGCSURL("https://storage.googleapis.com/shop-assets/products/gallery/a%20b.png")
	assert.True(t, ok)
	assert.Equal(t, "shop-assets", b)
	assert.Equal(t, "products/gallery/a b.png", obj)

	_, _, ok = ParseGCSURL("https://images.unsplash.com/photo-1")
	assert.False(t, ok)
	_, _, ok = ParseGCSURL("https://storage.googleapis.com/only-bucket")
	assert.False(t, ok)
}
