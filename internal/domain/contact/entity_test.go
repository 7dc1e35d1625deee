package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAndValidate(t *testing.T) {
	i := Info{Phone: " 011 ", Email: " shop@example.com ", WhatsappURL: " https://wa.me/9665000 "}.Normalize()
	assert.Equal(t, "011", i.Phone)
	assert.Equal(t, "https://wa.me/9665000", i.WhatsappURL)
	assert.NoError(t, i.Validate())

	assert.NoError(t, Info{}.Validate(), "empty info is valid")
	assert.ErrorIs(t, Info{Email: "nope"}.Validate(), ErrInvalidEmail)
	assert.ErrorIs(t, Info{TelegramURL: "t.me/shop"}.Validate(), ErrInvalidURL)
	assert.ErrorIs(t, Info{WhatsappQrURL: "ftp://x/y.png"}.Validate(), ErrInvalidURL)
}
