package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/adapters/out/localstore"
	"storefront/internal/adapters/out/memory"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func testCatalog() *memory.CatalogRepositoryMem {
	cats := []catalog.Category{{ID: "fabrics", Name: "Fabrics", CreatedAt: fixedNow}}
	subs := []catalog.Subcategory{{ID: "velvet", CategoryID: "fabrics", Name: "Velvet", CreatedAt: fixedNow}}
	prods := []catalog.Product{
		{
			ID: "P1", Name: "Velvet", CategoryID: "fabrics", SubcategoryID: "velvet",
			Price:  decimal.NewFromInt(10),
			Colors: []string{"red", "blue"},
			UnitOptions: []catalog.UnitOption{
				{Type: catalog.UnitPiece, Price: decimal.NewFromInt(10)},
				{Type: catalog.UnitBundle, Price: decimal.NewFromInt(45), PiecesPerUnit: 5},
			},
			CreatedAt: fixedNow,
		},
		{ID: "P2", Name: "Silk", CategoryID: "fabrics", Price: decimal.NewFromInt(25), CreatedAt: fixedNow},
	}
	return memory.NewCatalogRepositoryMem(cats, subs, prods)
}

type cartFixture struct {
	store *localstore.MemoryStore
	carts *CartUsecase
}

func newCartFixture() cartFixture {
	store := localstore.NewMemoryStore()
	carts := NewCartUsecase(func(sid string) cartdom.LocalStorage {
		return localstore.Namespace(store, sid)
	}, testCatalog())
	carts.now = func() time.Time { return fixedNow }
	return cartFixture{store: store, carts: carts}
}

type recordingMailer struct{ sent []string }

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, o orderdom.Order) error {
	m.sent = append(m.sent, o.Number)
	return nil
}

type recordingEvents struct{ published []string }

func (e *recordingEvents) PublishOrderCreated(_ context.Context, o orderdom.Order) error {
	e.published = append(e.published, o.Number)
	return nil
}
