package memory

import (
	"context"
	"log"
	"strings"
	"sync"

	orderdom "storefront/internal/domain/order"
	"storefront/internal/domain/sequence"
)

// OrderRepositoryMem is the offline/demo order store. Orders live in an
// in-memory list (newest first) and numbering follows the networked rules:
// the next orderSequence is derived from local orders of the same month and
// never falls below a number already issued in that month.
type OrderRepositoryMem struct {
	mu     sync.Mutex
	orders []orderdom.Order
	issued issuedMarks

	// FailCreate は Create を失敗させるテスト用フック。
	FailCreate func(o orderdom.Order) error
}

func NewOrderRepositoryMem() *OrderRepositoryMem {
	return &OrderRepositoryMem{issued: issuedMarks{}}
}

var _ orderdom.Repository = (*OrderRepositoryMem)(nil)

func (r *OrderRepositoryMem) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		if err := r.FailCreate(o); err != nil {
			return orderdom.Order{}, err
		}
	}

	month := orderdom.MonthScope(o.CreatedAt)
	scope := orderdom.SequenceScope(month)
	last := 0
	for _, existing := range r.orders {
		if existing.Month == month {
			last = sequence.Max(last, existing.Sequence)
		}
	}
	if r.issued == nil {
		r.issued = issuedMarks{}
	}
	seq, err := r.issued.next(scope, last)
	if err != nil {
		return orderdom.Order{}, err
	}

	num := orderdom.NumberFor(o.CreatedAt, seq)
	if r.indexOf(num.Value) >= 0 {
		return orderdom.Order{}, orderdom.ErrConflict
	}
	o.AssignNumber(num)
	o.Items = append([]orderdom.Item(nil), o.Items...)
	r.issued.commit(scope, seq)

	r.orders = append([]orderdom.Order{o}, r.orders...)
	log.Printf("[order_repo_mem] Create OK orderNumber=%s (local)", o.Number)
	return cloneOrder(o), nil
}

func (r *OrderRepositoryMem) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(strings.TrimSpace(id))
	if idx < 0 {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return cloneOrder(r.orders[idx]), nil
}

func (r *OrderRepositoryMem) List(_ context.Context, filter orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	r.mu.Lock()
	matched := make([]orderdom.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Match(o) {
			matched = append(matched, cloneOrder(o))
		}
	}
	r.mu.Unlock()

	orderdom.SortNewestFirst(matched)
	return paginateOrders(matched, page), nil
}

func (r *OrderRepositoryMem) Update(_ context.Context, id string, mutate func(o *orderdom.Order) error) (orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(strings.TrimSpace(id))
	if idx < 0 {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	next := cloneOrder(r.orders[idx])
	if err := mutate(&next); err != nil {
		return orderdom.Order{}, err
	}
	r.orders[idx] = next
	return cloneOrder(next), nil
}

func (r *OrderRepositoryMem) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(strings.TrimSpace(id))
	if idx < 0 {
		return orderdom.ErrNotFound
	}
	r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
	return nil
}

// Len is the number of local orders.
func (r *OrderRepositoryMem) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// Seed inserts already-numbered orders (e.g. restored local history).
func (r *OrderRepositoryMem) Seed(orders ...orderdom.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		r.orders = append([]orderdom.Order{cloneOrder(o)}, r.orders...)
	}
}

func (r *OrderRepositoryMem) indexOf(id string) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrder(o orderdom.Order) orderdom.Order {
	o.Items = append([]orderdom.Item(nil), o.Items...)
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		o.UpdatedAt = &t
	}
	return o
}
