// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	orderdom "storefront/internal/domain/order"
)

var ErrOrderNoChanges = errors.New("order_usecase: no changes")

// OrderListQuery is the console list query. Status / Month は空なら全件。
type OrderListQuery struct {
	Status  string
	Month   string
	Search  string
	Page    int
	PerPage int
}

// OrderUsecase is the console-side order management.
type OrderUsecase struct {
	repo orderdom.Repository
	now  func() time.Time
}

func NewOrderUsecase(repo orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{
		repo: repo,
		now:  time.Now,
	}
}

// =======================
// Queries
// =======================

func (u *OrderUsecase) List(ctx context.Context, q OrderListQuery) (orderdom.PageResult, error) {
	f := orderdom.Filter{
		Month:       strings.TrimSpace(q.Month),
		SearchQuery: strings.TrimSpace(q.Search),
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		st, err := orderdom.ParseStatus(s)
		if err != nil {
			return orderdom.PageResult{}, err
		}
		f.Status = &st
	}
	return u.repo.List(ctx, f, orderdom.Page{Number: q.Page, PerPage: q.PerPage})
}

func (u *OrderUsecase) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}
	return u.repo.GetByID(ctx, id)
}

// =======================
// Commands
// =======================

func (u *OrderUsecase) UpdateStatus(ctx context.Context, id, status string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}
	to, err := orderdom.ParseStatus(status)
	if err != nil {
		return orderdom.Order{}, err
	}
	return u.repo.Update(ctx, id, func(o *orderdom.Order) error {
		return o.ChangeStatus(to, u.now().UTC())
	})
}

func (u *OrderUsecase) UpdateFields(ctx context.Context, id string, p orderdom.Patch) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}
	if p.Empty() {
		return orderdom.Order{}, ErrOrderNoChanges
	}
	return u.repo.Update(ctx, id, func(o *orderdom.Order) error {
		return o.ApplyPatch(p, u.now().UTC())
	})
}

func (u *OrderUsecase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.ErrInvalidID
	}
	return u.repo.Delete(ctx, id)
}
