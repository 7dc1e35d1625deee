package firestore

import (
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"storefront/internal/domain/sequence"
)

const countersCollection = "counters"

// sequenceCounterFS は counters/{scope} ドキュメントで採番を直列化する。
//
// Transaction 内で
//  1. counters/{scope}.last を読む
//  2. 対象コレクションの「最新 1 件」クエリ (sequence desc, limit 1) を読む
//  3. max(1, 2) + 1 を次番号とし、counter を更新する
//
// 2 を毎回読むので、counter 導入前に書かれたドキュメントとも整合する。
// 同時実行時は counter doc の競合で Firestore が transaction を再試行する。
type sequenceCounterFS struct {
	client *firestore.Client
}

func (c sequenceCounterFS) ref(scope sequence.Scope) *firestore.DocumentRef {
	return c.client.Collection(countersCollection).Doc(scope.Key)
}

// nextTx must run before any write of the transaction.
func (c sequenceCounterFS) nextTx(
	tx *firestore.Transaction,
	scope sequence.Scope,
	latest firestore.Query,
	field string,
) (int, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	last := 0
	snap, err := tx.Get(c.ref(scope))
	switch {
	case err == nil:
		last = asInt(snap.Data()["last"])
	case isNotFound(err):
		// counter 未作成 (そのスコープで初めての採番)
	default:
		return 0, err
	}

	it := tx.Documents(latest)
	defer it.Stop()
	doc, err := it.Next()
	switch {
	case err == iterator.Done:
	case err != nil:
		return 0, err
	default:
		last = sequence.Max(last, asInt(doc.Data()[field]))
	}

	return sequence.Next(last)
}

func (c sequenceCounterFS) commitTx(tx *firestore.Transaction, scope sequence.Scope, seq int, now time.Time) error {
	return tx.Set(c.ref(scope), map[string]any{
		"collection": scope.Collection,
		"scope":      scope.Key,
		"last":       seq,
		"updatedAt":  now,
	})
}
