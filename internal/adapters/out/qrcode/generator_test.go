package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	data, err := NewGenerator().PNG("https://wa.me/966500000000")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestPNG_Empty(t *testing.T) {
	_, err := Generator{}.PNG("  ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}
