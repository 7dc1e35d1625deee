package order

import (
	"context"
	"errors"
	"sort"
	"strings"

	common "storefront/internal/domain/common"
)

// Filter は管理画面の一覧条件。ゼロ値は全件。
type Filter struct {
	Status      *Status
	Month       string // orderMonth ("YYYYMM")
	SearchQuery string // orderNumber / customer name / restaurant 部分一致
	Created     common.TimeRange
}

type Page = common.Page
type PageResult = common.PageResult[Order]

// Repository is the persistence port for orders.
type Repository interface {
	// Create assigns the next orderSequence in the month of o.CreatedAt and
	// stores o under its orderNumber. A key collision returns ErrConflict.
	Create(ctx context.Context, o Order) (Order, error)

	GetByID(ctx context.Context, id string) (Order, error)

	// List returns orders newest first.
	List(ctx context.Context, filter Filter, page Page) (PageResult, error)

	// Update loads, mutates and stores the order atomically.
	Update(ctx context.Context, id string, mutate func(o *Order) error) (Order, error)

	Delete(ctx context.Context, id string) error
}

var (
	ErrNotFound    = errors.New("order: not found")
	ErrConflict    = errors.New("order: conflict")
	ErrUnavailable = errors.New("order: storage unavailable")
)

// Match is used by adapters that filter in memory.
func (f Filter) Match(o Order) bool {
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.Month != "" && o.Month != f.Month {
		return false
	}
	if !f.Created.Contains(o.CreatedAt) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.SearchQuery)); q != "" {
		hay := strings.ToLower(o.Number + " " + o.Customer.Name + " " + o.Customer.RestaurantName + " " + o.Customer.Phone)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// SortNewestFirst orders by CreatedAt desc, then orderNumber desc.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].Number > orders[j].Number
	})
}
