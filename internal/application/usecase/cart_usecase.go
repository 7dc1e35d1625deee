// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartSessionRequired = errors.New("cart_usecase: session id is required")
	ErrCartLineNotFound    = errors.New("cart_usecase: line not found")
	ErrCartUnknownUnit     = errors.New("cart_usecase: product has no such unit option")
	ErrCartUnknownColor    = errors.New("cart_usecase: product has no such color")
)

// SessionStorage returns the cart storage of one shopper session.
// DI では localstore.Namespace(base, sessionID) を渡す。
type SessionStorage func(sessionID string) cartdom.LocalStorage

// CartView is the read model returned to the storefront after every cart call.
type CartView struct {
	Lines         []CartLineView `json:"lines"`
	LineCount     int            `json:"lineCount"`
	TotalQuantity int            `json:"totalQuantity"`
	Total         string         `json:"total"`
}

type CartLineView struct {
	cartdom.LineKey
	ProductName   string `json:"productName"`
	UnitLabel     string `json:"unitLabel"`
	UnitPrice     string `json:"unitPrice"`
	PiecesPerUnit int    `json:"piecesPerUnit,omitempty"`
	Quantity      int    `json:"quantity"`
	Subtotal      string `json:"subtotal"`
}

// AddToCartInput: UnitType / Color は任意。
type AddToCartInput struct {
	ProductID string
	UnitType  string
	Color     string
}

// CartUsecase coordinates cart operations.
// 同一セッションのリクエストは sessionLocks で直列化する。
type CartUsecase struct {
	storage SessionStorage
	catalog catalog.ReadModel
	locks   *sessionLocks
	now     func() time.Time
}

func NewCartUsecase(storage SessionStorage, read catalog.ReadModel) *CartUsecase {
	return &CartUsecase{
		storage: storage,
		catalog: read,
		locks:   newSessionLocks(),
		now:     time.Now,
	}
}

// withCart opens the session cart under the session lock.
func (uc *CartUsecase) withCart(ctx context.Context, sessionID string, fn func(c *cartdom.Cart) error) error {
	sid := normalizeSessionID(sessionID)
	if sid == "" {
		return ErrCartSessionRequired
	}
	var err error
	uc.locks.lock(sid, func() {
		c := cartdom.Open(ctx, uc.storage(sid), cartdom.StorageKey)
		err = fn(c)
	})
	return err
}

// View returns the current cart.
func (uc *CartUsecase) View(ctx context.Context, sessionID string) (CartView, error) {
	var v CartView
	err := uc.withCart(ctx, sessionID, func(c *cartdom.Cart) error {
		v = NewCartView(c)
		return nil
	})
	return v, err
}

// Snapshot returns a deep copy of the cart.
func (uc *CartUsecase) Snapshot(ctx context.Context, sessionID string) (cartdom.Snapshot, error) {
	var s cartdom.Snapshot
	err := uc.withCart(ctx, sessionID, func(c *cartdom.Cart) error {
		s = c.Snapshot(uc.now())
		return nil
	})
	return s, err
}

// Add resolves the product from the read model, then adds one unit.
func (uc *CartUsecase) Add(ctx context.Context, sessionID string, in AddToCartInput) (CartView, error) {
	pid := strings.TrimSpace(in.ProductID)
	if pid == "" {
		return CartView{}, ErrCartInvalidArgument
	}
	p, err := uc.catalog.Product(ctx, pid)
	if err != nil {
		return CartView{}, err
	}

	var unit *catalog.UnitOption
	if raw := strings.TrimSpace(in.UnitType); raw != "" {
		t, err := catalog.ParseUnitType(raw)
		if err != nil {
			return CartView{}, err
		}
		u, ok := p.UnitByType(t)
		if !ok {
			return CartView{}, ErrCartUnknownUnit
		}
		unit = &u
	}

	color := strings.TrimSpace(in.Color)
	if color != "" && len(p.Colors) > 0 {
		declared, ok := p.DeclaredColor(color)
		if !ok {
			return CartView{}, ErrCartUnknownColor
		}
		color = declared
	}

	var v CartView
	err = uc.withCart(ctx, sessionID, func(c *cartdom.Cart) error {
		c.Add(ctx, p, unit, color)
		v = NewCartView(c)
		return nil
	})
	return v, err
}

func (uc *CartUsecase) Increment(ctx context.Context, sessionID string, key cartdom.LineKey) (CartView, error) {
	return uc.mutate(ctx, sessionID, func(c *cartdom.Cart) bool { return c.Increment(ctx, key) })
}

func (uc *CartUsecase) Decrement(ctx context.Context, sessionID string, key cartdom.LineKey) (CartView, error) {
	return uc.mutate(ctx, sessionID, func(c *cartdom.Cart) bool { return c.Decrement(ctx, key) })
}

// SetQuantity: NaN / 負数は無視 (カートは変わらない)、0 は削除。
func (uc *CartUsecase) SetQuantity(ctx context.Context, sessionID string, key cartdom.LineKey, qty float64) (CartView, error) {
	return uc.mutate(ctx, sessionID, func(c *cartdom.Cart) bool {
		c.SetQuantity(ctx, key, qty)
		return true
	})
}

func (uc *CartUsecase) Remove(ctx context.Context, sessionID string, key cartdom.LineKey) (CartView, error) {
	return uc.mutate(ctx, sessionID, func(c *cartdom.Cart) bool { return c.Remove(ctx, key) })
}

func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) (CartView, error) {
	return uc.mutate(ctx, sessionID, func(c *cartdom.Cart) bool {
		c.Clear(ctx)
		return true
	})
}

func (uc *CartUsecase) mutate(ctx context.Context, sessionID string, fn func(c *cartdom.Cart) bool) (CartView, error) {
	var v CartView
	err := uc.withCart(ctx, sessionID, func(c *cartdom.Cart) error {
		if !fn(c) {
			return ErrCartLineNotFound
		}
		v = NewCartView(c)
		return nil
	})
	return v, err
}

func NewCartView(c *cartdom.Cart) CartView {
	lines := c.Lines()
	out := CartView{
		Lines:         make([]CartLineView, 0, len(lines)),
		LineCount:     len(lines),
		TotalQuantity: c.TotalQuantity(),
		Total:         c.TotalPrice().StringFixed(2),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, CartLineView{
			LineKey:       l.Key(),
			ProductName:   l.ProductName,
			UnitLabel:     l.Unit.DisplayLabel(),
			UnitPrice:     l.Unit.Price.StringFixed(2),
			PiecesPerUnit: l.Unit.PiecesPerUnit,
			Quantity:      l.Quantity,
			Subtotal:      l.Subtotal().StringFixed(2),
		})
	}
	return out
}
