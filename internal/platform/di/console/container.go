// internal/platform/di/console/container.go
package console

import (
	"context"
	"errors"
	"log"

	"storefront/internal/adapters/in/http/middleware"
	fs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/memory"
	"storefront/internal/adapters/out/qrcode"
	uc "storefront/internal/application/usecase"
	catalogdom "storefront/internal/domain/catalog"
	contactdom "storefront/internal/domain/contact"
	orderdom "storefront/internal/domain/order"

	shared "storefront/internal/platform/di/shared"
)

// ========================================
// Container (Console DI)
// ========================================
type Container struct {
	Infra *shared.Infra

	// Application-layer usecases
	CatalogAdminUC *uc.CatalogAdminUsecase
	OrderUC        *uc.OrderUsecase
	ContactUC      *uc.ContactUsecase

	// nil のとき /console/* は 503
	Auth *middleware.AdminAuth
}

func NewContainer(_ context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("console.container: infra is nil")
	}
	var (
		catalogRepo catalogdom.Repository
		orderRepo   orderdom.Repository
		contactRepo contactdom.Repository
	)
	if infra.Firestore != nil {
		catalogRepo = fs.NewCatalogRepositoryFS(infra.Firestore)
		orderRepo = fs.NewOrderRepositoryFS(infra.Firestore)
		contactRepo = fs.NewContactRepositoryFS(infra.Firestore)
	} else {
		log.Printf("[console.container] WARN: firestore is not configured; console edits are process-local")
		catalogRepo = memory.NewFallbackCatalog()
		orderRepo = memory.NewOrderRepositoryMem()
		contactRepo = memory.NewContactRepositoryMem()
	}

	// Images (GCS)。未設定ならアップロード系だけ storage_unavailable を返す。
	var images uc.ImageStore
	if infra.GCS != nil && infra.Settings.ImageBucket != "" {
		images = gcso.NewImageRepositoryGCS(infra.GCS, infra.Settings.ImageBucket, infra.Settings.PublicBaseURL)
	}

	c := &Container{
		Infra:          infra,
		CatalogAdminUC: uc.NewCatalogAdminUsecase(catalogRepo, images),
		OrderUC:        uc.NewOrderUsecase(orderRepo),
		ContactUC:      uc.NewContactUsecase(contactRepo, qrcode.NewGenerator(), images),
		Auth:           shared.NewAdminAuth(infra),
	}
	return c, nil
}

// Close releases container-owned resources (clients belong to Infra).
func (c *Container) Close() error {
	return nil
}
