package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	admindom "storefront/internal/domain/admin"
)

// AdminProfileRepositoryFS reads adminProfiles/{uid}.
type AdminProfileRepositoryFS struct {
	Client *firestore.Client
}

var _ admindom.Repository = (*AdminProfileRepositoryFS)(nil)

func NewAdminProfileRepositoryFS(client *firestore.Client) *AdminProfileRepositoryFS {
	return &AdminProfileRepositoryFS{Client: client}
}

func (r *AdminProfileRepositoryFS) GetByUID(ctx context.Context, uid string) (admindom.Profile, error) {
	if r.Client == nil {
		return admindom.Profile{}, errClientNil
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return admindom.Profile{}, admindom.ErrNotFound
	}

	snap, err := r.Client.Collection(admindom.CollectionAdminProfiles).Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return admindom.Profile{}, admindom.ErrNotFound
		}
		return admindom.Profile{}, err
	}

	data := snap.Data()
	disabled, _ := data["disabled"].(bool)
	return admindom.Profile{
		UID:         snap.Ref.ID,
		Email:       asString(data["email"]),
		DisplayName: asString(data["displayName"]),
		Role:        asString(data["role"]),
		Disabled:    disabled,
	}, nil
}
