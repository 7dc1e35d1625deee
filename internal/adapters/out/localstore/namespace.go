package localstore

import (
	"context"
	"strings"

	cartdom "storefront/internal/domain/cart"
)

// Namespaced isolates one shopper session inside a shared store:
// key "storefront.cart" becomes "session/<id>/storefront.cart".
type Namespaced struct {
	base cartdom.LocalStorage
	ns   string
}

var _ cartdom.LocalStorage = Namespaced{}

func Namespace(base cartdom.LocalStorage, sessionID string) Namespaced {
	return Namespaced{base: base, ns: "session/" + strings.TrimSpace(sessionID) + "/"}
}

func (n Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.base.Get(ctx, n.ns+key)
}

func (n Namespaced) Set(ctx context.Context, key, value string) error {
	return n.base.Set(ctx, n.ns+key, value)
}

func (n Namespaced) Remove(ctx context.Context, key string) error {
	return n.base.Remove(ctx, n.ns+key)
}
