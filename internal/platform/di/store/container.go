// internal/platform/di/store/container.go
package store

import (
	"context"
	"errors"
	"log"

	"storefront/internal/adapters/out/localstore"
	"storefront/internal/adapters/out/memory"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	catalogdom "storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
	appcfg "storefront/internal/infra/config"

	outfs "storefront/internal/adapters/out/firestore"
	kafkaout "storefront/internal/adapters/out/kafka"
	mailout "storefront/internal/adapters/out/mail"

	shared "storefront/internal/platform/di/shared"
)

// cartKeyPrefix は Redis 上の cart キーの名前空間 ("storefront:session/...")。
const cartKeyPrefix = "storefront"

// Container is the storefront DI container.
// Pure DI: build deps only. No routing here.
type Container struct {
	Infra *shared.Infra

	Catalog    catalogdom.ReadModel
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	ContactUC  *usecase.ContactUsecase

	live   *outfs.CatalogLiveFS
	events *kafkaout.OrderEventPublisher
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		return nil, errors.New("store.container: infra is nil")
	}
	c := &Container{Infra: infra}
	settings := infra.Settings

	// ------------------------------------------------------------
	// Catalog read model
	// ------------------------------------------------------------
	fallback := memory.NewFallbackCatalog()
	switch {
	case infra.Firestore != nil && settings.CatalogMode == appcfg.CatalogModeLive:
		c.live = outfs.NewCatalogLiveFS(infra.Firestore, fallback)
		// 購読は DI の初期化 ctx より長生きさせる (Close で止める)
		c.live.Start(context.WithoutCancel(ctx))
		c.Catalog = c.live
	default:
		log.Printf("[store.container] catalog: serving fallback dataset (mode=%s firestore=%t)",
			settings.CatalogMode, infra.Firestore != nil)
		c.Catalog = fallback
	}

	// ------------------------------------------------------------
	// Cart storage (Redis → memory)
	// ------------------------------------------------------------
	var base cartdom.LocalStorage
	if infra.Redis != nil {
		base = localstore.NewRedisStore(infra.Redis, cartKeyPrefix, infra.Config.CartTTL)
	} else {
		log.Printf("[store.container] WARN: redis is not configured; carts are kept in process memory (ttl=%s)", infra.Config.CartTTL)
		base = localstore.NewMemoryStoreTTL(infra.Config.CartTTL)
	}
	c.CartUC = usecase.NewCartUsecase(func(sessionID string) cartdom.LocalStorage {
		return localstore.Namespace(base, sessionID)
	}, c.Catalog)

	// ------------------------------------------------------------
	// Orders + checkout
	// ------------------------------------------------------------
	var orders orderdom.Repository
	if infra.Firestore != nil {
		orders = outfs.NewOrderRepositoryFS(infra.Firestore)
	} else {
		log.Printf("[store.container] WARN: orders are kept in process memory")
		orders = memory.NewOrderRepositoryMem()
	}
	c.CheckoutUC = usecase.NewCheckoutUsecase(c.CartUC, orders, settings.Location)

	if m := mailout.NewOrderConfirmationMailerWithSendGrid(
		infra.SendGridAPIKey(ctx), settings.MailFrom, settings.StoreName,
	); m != nil {
		c.CheckoutUC.WithMailer(m)
	}
	if p := kafkaout.NewOrderEventPublisher(settings.KafkaBrokers, settings.KafkaOrderTopic); p != nil {
		c.events = p
		c.CheckoutUC.WithEvents(p)
	}

	// ------------------------------------------------------------
	// Contact (read-only on the storefront)
	// ------------------------------------------------------------
	if infra.Firestore != nil {
		c.ContactUC = usecase.NewContactUsecase(outfs.NewContactRepositoryFS(infra.Firestore), nil, nil)
	} else {
		c.ContactUC = usecase.NewContactUsecase(memory.NewContactRepositoryMem(), nil, nil)
	}

	return c, nil
}

// Close stops catalog subscriptions and flushes the event writer.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.live != nil {
		errs = append(errs, c.live.Close())
	}
	errs = append(errs, c.events.Close())
	return errors.Join(errs...)
}
