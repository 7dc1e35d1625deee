package cart

import "context"

// StorageKey is the fixed key the cart is persisted under.
// Session isolation comes from the LocalStorage namespace, not from the key.
const StorageKey = "storefront.cart"

// LocalStorage is a key-value string store scoped to one shopper session.
// Get reports ok=false when the key is absent.
type LocalStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
