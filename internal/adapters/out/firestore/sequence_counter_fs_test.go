package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

// newEmulatorClient は FIRESTORE_EMULATOR_HOST がある時だけ動く。
// テストごとに別 project を使うので emulator のデータは共有されない。
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, "storefront-test-"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func emulatorOrder(t *testing.T, at time.Time) orderdom.Order {
	t.Helper()
	o, err := orderdom.New(
		orderdom.Customer{Name: "Amal"},
		"",
		[]orderdom.Item{{ProductID: "P1", Name: "Velvet", UnitType: catalog.UnitPiece, UnitPrice: decimal.NewFromInt(10), Quantity: 1}},
		at,
	)
	require.NoError(t, err)
	return o
}

func TestOrderRepositoryFS_NumberingOnEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewOrderRepositoryFS(client)

	june := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	// counter 導入前に書かれた注文 (sequence 7) も考慮される
	seeded := emulatorOrder(t, june)
	seeded.AssignNumber(orderdom.NumberFor(june, 7))
	_, err := client.Collection(orderdom.CollectionOrders).Doc(seeded.Number).Set(ctx, orderToDoc(seeded))
	require.NoError(t, err)

	got, err := repo.Create(ctx, emulatorOrder(t, june))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-0008", got.Number)
	assert.Equal(t, 8, got.Sequence)

	stored, err := repo.GetByID(ctx, got.Number)
	require.NoError(t, err)
	assert.Equal(t, "202506", stored.Month)

	// 月が変わると 1 から
	july, err := repo.Create(ctx, emulatorOrder(t, time.Date(2025, time.July, 1, 0, 5, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-0001", july.Number)

	// 最新を消しても counter は戻らない
	require.NoError(t, repo.Delete(ctx, got.Number))
	again, err := repo.Create(ctx, emulatorOrder(t, june))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-0009", again.Number)
}

func TestOrderRepositoryFS_ExistingKeyIsConflict(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewOrderRepositoryFS(client)

	// orderMonth を持たない doc は最新クエリに出てこないが、キーは衝突する
	_, err := client.Collection(orderdom.CollectionOrders).Doc("2025-06-0001").Set(ctx, map[string]any{"customerName": "legacy"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, emulatorOrder(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, orderdom.ErrConflict)

	legacy, err := client.Collection(orderdom.CollectionOrders).Doc("2025-06-0001").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacy", legacy.Data()["customerName"], "existing doc is not overwritten")
}

func TestCatalogRepositoryFS_CodesOnEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	repo := NewCatalogRepositoryFS(client)

	p1, err := repo.CreateProduct(ctx, catalog.Product{Name: "Velvet", CategoryID: "CAT-000001", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "PROD-000001", p1.ID)

	require.NoError(t, repo.DeleteProduct(ctx, p1.ID))
	p2, err := repo.CreateProduct(ctx, catalog.Product{Name: "Silk", CategoryID: "CAT-000001", Price: decimal.NewFromInt(25)})
	require.NoError(t, err)
	assert.Equal(t, "PROD-000002", p2.ID)
}
