package firestore

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	contactdom "storefront/internal/domain/contact"
)

// ContactRepositoryFS stores settings/contact.
type ContactRepositoryFS struct {
	Client *firestore.Client
	now    func() time.Time
}

var _ contactdom.Repository = (*ContactRepositoryFS)(nil)

func NewContactRepositoryFS(client *firestore.Client) *ContactRepositoryFS {
	return &ContactRepositoryFS{Client: client, now: time.Now}
}

func (r *ContactRepositoryFS) docRef() *firestore.DocumentRef {
	return r.Client.Collection(contactdom.CollectionSettings).Doc(contactdom.DocContact)
}

// Get はドキュメントが無ければ空の Info を返す。
func (r *ContactRepositoryFS) Get(ctx context.Context) (contactdom.Info, error) {
	if r.Client == nil {
		return contactdom.Info{}, errClientNil
	}
	snap, err := r.docRef().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return contactdom.Info{}, nil
		}
		return contactdom.Info{}, err
	}

	data := snap.Data()
	info := contactdom.Info{
		Phone:         asString(data["phone"]),
		Mobile:        asString(data["mobile"]),
		Email:         asString(data["email"]),
		Address:       asString(data["address"]),
		WhatsappURL:   asString(data["whatsappUrl"]),
		TelegramURL:   asString(data["telegramUrl"]),
		WhatsappQrURL: asString(data["whatsappQrUrl"]),
	}
	if t, ok := asTime(data["updatedAt"]); ok {
		info.UpdatedAt = &t
	}
	return info.Normalize(), nil
}

func (r *ContactRepositoryFS) Save(ctx context.Context, info contactdom.Info) (contactdom.Info, error) {
	if r.Client == nil {
		return contactdom.Info{}, errClientNil
	}
	info = info.Normalize()
	now := r.now().UTC()

	_, err := r.docRef().Set(ctx, map[string]any{
		"phone":         info.Phone,
		"mobile":        info.Mobile,
		"email":         info.Email,
		"address":       info.Address,
		"whatsappUrl":   info.WhatsappURL,
		"telegramUrl":   info.TelegramURL,
		"whatsappQrUrl": info.WhatsappQrURL,
		"updatedAt":     now,
	}, firestore.MergeAll)
	if err != nil {
		return contactdom.Info{}, err
	}

	info.UpdatedAt = &now
	log.Printf("[contact_repo_fs] Save OK")
	return info, nil
}
