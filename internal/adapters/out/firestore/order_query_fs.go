package firestore

import (
	"cloud.google.com/go/firestore"

	orderdom "storefront/internal/domain/order"
)

// applyOrderFilterQuery pushes equality filters down to Firestore.
// createdAt ordering and free-text search stay in memory so no composite
// index is needed beyond orderMonth+orderSequence.
func applyOrderFilterQuery(q firestore.Query, f orderdom.Filter) firestore.Query {
	if f.Status != nil {
		q = q.Where("status", "==", string(*f.Status))
	}
	if f.Month != "" {
		q = q.Where(orderdom.FieldOrderMonth, "==", f.Month)
	}
	return q
}
