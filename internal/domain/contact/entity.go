package contact

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// 設定ドキュメントの場所 (settings/contact)
const (
	CollectionSettings = "settings"
	DocContact         = "contact"
)

var (
	ErrInvalidEmail = errors.New("contact: invalid email")
	ErrInvalidURL   = errors.New("contact: invalid url")
	ErrNoWhatsApp   = errors.New("contact: whatsappUrl is empty")
)

// Info is the storefront contact block. Every field may be empty.
type Info struct {
	Phone         string     `json:"phone"`
	Mobile        string     `json:"mobile"`
	Email         string     `json:"email"`
	Address       string     `json:"address"`
	WhatsappURL   string     `json:"whatsappUrl"`
	TelegramURL   string     `json:"telegramUrl"`
	WhatsappQrURL string     `json:"whatsappQrUrl"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

func (i Info) Normalize() Info {
	i.Phone = strings.TrimSpace(i.Phone)
	i.Mobile = strings.TrimSpace(i.Mobile)
	i.Email = strings.TrimSpace(i.Email)
	i.Address = strings.TrimSpace(i.Address)
	i.WhatsappURL = strings.TrimSpace(i.WhatsappURL)
	i.TelegramURL = strings.TrimSpace(i.TelegramURL)
	i.WhatsappQrURL = strings.TrimSpace(i.WhatsappQrURL)
	return i
}

func (i Info) Validate() error {
	if i.Email != "" {
		if _, err := mail.ParseAddress(i.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	for _, raw := range []string{i.WhatsappURL, i.TelegramURL, i.WhatsappQrURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return ErrInvalidURL
		}
	}
	return nil
}

// Repository stores the single contact document.
// Get returns an empty Info when the document does not exist.
type Repository interface {
	Get(ctx context.Context) (Info, error)
	Save(ctx context.Context, info Info) (Info, error)
}
