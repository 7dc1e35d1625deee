package firestore

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	catalogdom "storefront/internal/domain/catalog"
)

// liveCollection keeps the latest snapshot of one collection in memory.
type liveCollection[T any] struct {
	name   string
	decode func(*firestore.DocumentSnapshot) T

	mu    sync.RWMutex
	items []T

	ready     chan struct{}
	readyOnce sync.Once

	// warmup を使い切った or 購読が失敗した。以後 ready までは待たずに fallback。
	degraded atomic.Bool
}

func newLiveCollection[T any](name string, decode func(*firestore.DocumentSnapshot) T) *liveCollection[T] {
	return &liveCollection[T]{name: name, decode: decode, ready: make(chan struct{})}
}

// run subscribes until ctx is done, reconnecting with capped backoff.
func (lc *liveCollection[T]) run(ctx context.Context, q firestore.Query) {
	backoff := time.Second
	for {
		err := lc.subscribe(ctx, q)
		if ctx.Err() != nil {
			return
		}
		lc.degraded.Store(true)
		log.Printf("[catalog_live_fs] WARN: %s subscription ended: %v (retry in %s)", lc.name, err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (lc *liveCollection[T]) subscribe(ctx context.Context, q firestore.Query) error {
	it := q.Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			return err
		}

		var items []T
		docs := qs.Documents
		for {
			snap, err := docs.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return err
			}
			items = append(items, lc.decode(snap))
		}

		lc.publish(items)
	}
}

func (lc *liveCollection[T]) publish(items []T) {
	lc.mu.Lock()
	lc.items = items
	lc.mu.Unlock()
	lc.readyOnce.Do(func() { close(lc.ready) })
}

// get waits up to warmup for the first snapshot, once. After the warmup ran
// out (or the subscription failed) reads return immediately until the first
// snapshot arrives. ok=false means the caller should serve fallback data.
func (lc *liveCollection[T]) get(ctx context.Context, warmup time.Duration) ([]T, bool) {
	select {
	case <-lc.ready:
	default:
		if lc.degraded.Load() {
			return nil, false
		}
		t := time.NewTimer(warmup)
		defer t.Stop()
		select {
		case <-lc.ready:
		case <-t.C:
			if lc.degraded.CompareAndSwap(false, true) {
				log.Printf("[catalog_live_fs] WARN: %s: no snapshot within %s; serving fallback", lc.name, warmup)
			}
			return nil, false
		case <-ctx.Done():
			return nil, false
		}
	}

	lc.mu.RLock()
	defer lc.mu.RUnlock()
	out := make([]T, len(lc.items))
	copy(out, lc.items)
	return out, true
}

// ============================================================
// CatalogLiveFS
// ============================================================

// CatalogLiveFS は店頭用の ReadModel。
// categories / subcategories / products をライブ購読してメモリに保持し、
// まだ 1 度もスナップショットを受け取れていない間は Fallback を返す。
type CatalogLiveFS struct {
	Client   *firestore.Client
	Fallback catalogdom.ReadModel
	Warmup   time.Duration

	categories    *liveCollection[catalogdom.Category]
	subcategories *liveCollection[catalogdom.Subcategory]
	products      *liveCollection[catalogdom.Product]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ catalogdom.ReadModel = (*CatalogLiveFS)(nil)

func NewCatalogLiveFS(client *firestore.Client, fallback catalogdom.ReadModel) *CatalogLiveFS {
	return &CatalogLiveFS{
		Client:        client,
		Fallback:      fallback,
		Warmup:        3 * time.Second,
		categories:    newLiveCollection(catalogdom.CollectionCategories, docToCategory),
		subcategories: newLiveCollection(catalogdom.CollectionSubcategories, docToSubcategory),
		products:      newLiveCollection(catalogdom.CollectionProducts, docToProduct),
	}
}

// Start launches one subscription goroutine per collection.
func (c *CatalogLiveFS) Start(ctx context.Context) {
	if c.Client == nil {
		log.Printf("[catalog_live_fs] WARN: firestore client is nil; serving fallback only")
		c.categories.degraded.Store(true)
		c.subcategories.degraded.Store(true)
		c.products.degraded.Store(true)
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(3)
	go func() {
		defer c.wg.Done()
		c.categories.run(ctx, c.Client.Collection(catalogdom.CollectionCategories).OrderBy("createdAt", firestore.Desc))
	}()
	go func() {
		defer c.wg.Done()
		c.subcategories.run(ctx, c.Client.Collection(catalogdom.CollectionSubcategories).OrderBy("createdAt", firestore.Desc))
	}()
	go func() {
		defer c.wg.Done()
		c.products.run(ctx, c.Client.Collection(catalogdom.CollectionProducts).OrderBy("createdAt", firestore.Desc))
	}()
	log.Printf("[catalog_live_fs] subscriptions started")
}

func (c *CatalogLiveFS) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

func (c *CatalogLiveFS) Categories(ctx context.Context) ([]catalogdom.Category, error) {
	items, ok := c.categories.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Categories(ctx)
	}
	catalogdom.SortNewestFirst(items, catalogdom.CategoryKey)
	return items, nil
}

func (c *CatalogLiveFS) Category(ctx context.Context, id string) (catalogdom.Category, error) {
	items, ok := c.categories.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Category(ctx, id)
	}
	id = strings.TrimSpace(id)
	for _, x := range items {
		if x.ID == id {
			return x, nil
		}
	}
	return catalogdom.Category{}, catalogdom.ErrNotFound
}

func (c *CatalogLiveFS) Subcategories(ctx context.Context, categoryID string) ([]catalogdom.Subcategory, error) {
	items, ok := c.subcategories.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Subcategories(ctx, categoryID)
	}
	categoryID = strings.TrimSpace(categoryID)
	out := make([]catalogdom.Subcategory, 0, len(items))
	for _, s := range items {
		if categoryID == "" || s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	catalogdom.SortNewestFirst(out, catalogdom.SubcategoryKey)
	return out, nil
}

func (c *CatalogLiveFS) Subcategory(ctx context.Context, id string) (catalogdom.Subcategory, error) {
	items, ok := c.subcategories.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Subcategory(ctx, id)
	}
	id = strings.TrimSpace(id)
	for _, x := range items {
		if x.ID == id {
			return x, nil
		}
	}
	return catalogdom.Subcategory{}, catalogdom.ErrNotFound
}

func (c *CatalogLiveFS) Products(ctx context.Context, f catalogdom.ProductFilter) ([]catalogdom.Product, error) {
	items, ok := c.products.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Products(ctx, f)
	}
	out := catalogdom.FilterProducts(items, f)
	catalogdom.SortNewestFirst(out, catalogdom.ProductKey)
	return out, nil
}

func (c *CatalogLiveFS) Product(ctx context.Context, id string) (catalogdom.Product, error) {
	items, ok := c.products.get(ctx, c.Warmup)
	if !ok {
		return c.Fallback.Product(ctx, id)
	}
	id = strings.TrimSpace(id)
	for _, x := range items {
		if x.ID == id {
			return x, nil
		}
	}
	return catalogdom.Product{}, catalogdom.ErrNotFound
}
