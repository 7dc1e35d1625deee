package qrcode

import (
	"errors"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	ContentType = "image/png"
)

var ErrEmptyContent = errors.New("qrcode: empty content")

// Generator encodes links (WhatsApp chat URL など) as PNG QR images.
type Generator struct {
	Size int
}

func NewGenerator() Generator { return Generator{Size: DefaultSize} }

func (g Generator) PNG(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}
	return goqrcode.Encode(content, goqrcode.Medium, size)
}
