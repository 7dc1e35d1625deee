package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain/contact"
)

// QRGenerator is an outbound port (go-qrcode).
type QRGenerator interface {
	PNG(content string) ([]byte, error)
}

// WhatsappQRObjectPath is where the generated QR image is stored.
const WhatsappQRObjectPath = "settings/whatsapp-qr.png"

// ContactUsecase reads and edits settings/contact.
type ContactUsecase struct {
	repo   contact.Repository
	qr     QRGenerator
	images ImageStore
	now    func() time.Time
}

func NewContactUsecase(repo contact.Repository, qr QRGenerator, images ImageStore) *ContactUsecase {
	return &ContactUsecase{repo: repo, qr: qr, images: images, now: time.Now}
}

// Public is the storefront read: failures yield an empty Info.
func (u *ContactUsecase) Public(ctx context.Context) contact.Info {
	info, err := u.repo.Get(ctx)
	if err != nil {
		log.Printf("[store.contact] WARN: load contact info failed: %v (serving empty)", err)
		return contact.Info{}
	}
	return info
}

func (u *ContactUsecase) Get(ctx context.Context) (contact.Info, error) {
	return u.repo.Get(ctx)
}

func (u *ContactUsecase) Save(ctx context.Context, in contact.Info) (contact.Info, error) {
	info := in.Normalize()
	if err := info.Validate(); err != nil {
		return contact.Info{}, err
	}
	now := u.now().UTC()
	info.UpdatedAt = &now
	return u.repo.Save(ctx, info)
}

// GenerateWhatsappQR renders whatsappUrl as PNG, uploads it and stores its URL.
func (u *ContactUsecase) GenerateWhatsappQR(ctx context.Context) (contact.Info, error) {
	if u.qr == nil {
		return contact.Info{}, errors.New("contact_usecase: qr generator is not configured")
	}
	if u.images == nil {
		return contact.Info{}, ErrImageStoreMissing
	}
	info, err := u.repo.Get(ctx)
	if err != nil {
		return contact.Info{}, err
	}
	if info.WhatsappURL == "" {
		return contact.Info{}, contact.ErrNoWhatsApp
	}

	png, err := u.qr.PNG(info.WhatsappURL)
	if err != nil {
		return contact.Info{}, fmt.Errorf("contact_usecase: render qr: %w", err)
	}
	url, err := u.images.Upload(ctx, WhatsappQRObjectPath, "image/png", png)
	if err != nil {
		return contact.Info{}, fmt.Errorf("contact_usecase: upload qr: %w", err)
	}

	info.WhatsappQrURL = url
	return u.Save(ctx, info)
}
