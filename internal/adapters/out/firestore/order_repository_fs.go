package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	common "storefront/internal/domain/common"
	orderdom "storefront/internal/domain/order"
)

// OrderRepositoryFS は orders コレクションの Firestore 実装。
// doc ID = orderNumber ("2025-06-0008")。
type OrderRepositoryFS struct {
	Client *firestore.Client
	now    func() time.Time
}

var _ orderdom.Repository = (*OrderRepositoryFS)(nil)

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client, now: time.Now}
}

func (r *OrderRepositoryFS) ordersCol() *firestore.CollectionRef {
	return r.Client.Collection(orderdom.CollectionOrders)
}

// latestInMonth: orderMonth == month ORDER BY orderSequence DESC LIMIT 1
func (r *OrderRepositoryFS) latestInMonth(month string) firestore.Query {
	return r.ordersCol().
		Where(orderdom.FieldOrderMonth, "==", month).
		OrderBy(orderdom.FieldOrderSequence, firestore.Desc).
		Limit(1)
}

// ========================
// Create (numbering)
// ========================

// Create runs the numbering protocol in one transaction: read the month
// counter and the latest order of the month, take max+1, then create the
// order doc under its orderNumber. tx.Create fails with AlreadyExists
// instead of overwriting, which surfaces as orderdom.ErrConflict.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errClientNil
	}
	if o.CreatedAt.IsZero() {
		return orderdom.Order{}, orderdom.ErrInvalidCreatedAt
	}

	month := orderdom.MonthScope(o.CreatedAt)
	scope := orderdom.SequenceScope(month)
	counter := sequenceCounterFS{client: r.Client}

	var created orderdom.Order
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq, err := counter.nextTx(tx, scope, r.latestInMonth(month), orderdom.FieldOrderSequence)
		if err != nil {
			return err
		}

		next := o
		next.AssignNumber(orderdom.NumberFor(o.CreatedAt, seq))

		if err := tx.Create(r.ordersCol().Doc(next.Number), orderToDoc(next)); err != nil {
			return err
		}
		if err := counter.commitTx(tx, scope, seq, r.now().UTC()); err != nil {
			return err
		}

		created = next
		return nil
	})
	if err != nil {
		err = classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable)
		log.Printf("[order_repo_fs] Create FAILED month=%s: %v", month, err)
		return orderdom.Order{}, err
	}

	log.Printf("[order_repo_fs] Create OK orderNumber=%s", created.Number)
	return created, nil
}

// ========================
// Read
// ========================

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errClientNil
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.ordersCol().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable)
	}
	return docToOrder(snap)
}

func (r *OrderRepositoryFS) List(ctx context.Context, filter orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	if r.Client == nil {
		return orderdom.PageResult{}, errClientNil
	}

	it := applyOrderFilterQuery(r.ordersCol().Query, filter).Documents(ctx)
	defer it.Stop()

	var all []orderdom.Order
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return orderdom.PageResult{}, classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable)
		}

		o, err := docToOrder(doc)
		if err != nil {
			log.Printf("[order_repo_fs] WARN: skip undecodable doc id=%s: %v", doc.Ref.ID, err)
			continue
		}
		if filter.Match(o) {
			all = append(all, o)
		}
	}

	orderdom.SortNewestFirst(all)
	return common.Paginate(all, page), nil
}

// ========================
// Admin writes
// ========================

func (r *OrderRepositoryFS) Update(ctx context.Context, id string, mutate func(o *orderdom.Order) error) (orderdom.Order, error) {
	if r.Client == nil {
		return orderdom.Order{}, errClientNil
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	ref := r.ordersCol().Doc(id)

	var updated orderdom.Order
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return orderdom.ErrNotFound
			}
			return err
		}

		o, err := docToOrder(snap)
		if err != nil {
			return err
		}
		if err := mutate(&o); err != nil {
			return err
		}

		if err := tx.Update(ref, patchUpdates(o, r.now())); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		if errors.Is(err, orderdom.ErrNotFound) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable)
	}

	log.Printf("[order_repo_fs] Update OK id=%s status=%s", id, updated.Status)
	return updated, nil
}

func (r *OrderRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errClientNil
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.ErrNotFound
	}

	ref := r.ordersCol().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return orderdom.ErrNotFound
		}
		return classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("delete order %s: %w", id, classify(err, orderdom.ErrConflict, orderdom.ErrUnavailable))
	}
	log.Printf("[order_repo_fs] Delete OK id=%s", id)
	return nil
}
