package admin

import (
	"context"
	"errors"
	"strings"
)

const CollectionAdminProfiles = "adminProfiles"

var (
	ErrNotFound  = errors.New("admin: profile not found")
	ErrForbidden = errors.New("admin: forbidden")
)

// Profile is keyed by Firebase uid. Its existence grants console access.
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

func (p Profile) CanAccessConsole() bool {
	return strings.TrimSpace(p.UID) != "" && !p.Disabled
}

type Repository interface {
	GetByUID(ctx context.Context, uid string) (Profile, error)
}
