// cmd/seed_catalog/main.go
//
// Firestore に店頭のフォールバックカタログを投入する。
// 使い方:
//
//	FIRESTORE_PROJECT_ID=xxx go run ./cmd/seed_catalog [-dry-run]
package main

import (
	"context"
	"flag"
	"log"
	"time"

	fs "storefront/internal/adapters/out/firestore"
	"storefront/internal/adapters/out/memory"
	usecase "storefront/internal/application/usecase"
	catalogdom "storefront/internal/domain/catalog"
	shared "storefront/internal/platform/di/shared"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "seed into process memory instead of Firestore")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var repo catalogdom.Repository
	if *dryRun {
		repo = memory.NewCatalogRepositoryMem(nil, nil, nil)
	} else {
		infra, err := shared.NewInfra(ctx)
		if err != nil {
			log.Fatalf("[seed_catalog] infra init failed: %v", err)
		}
		defer infra.Close()
		if infra.Firestore == nil {
			log.Fatalf("[seed_catalog] FIRESTORE_PROJECT_ID is empty (use -dry-run to try locally)")
		}
		repo = fs.NewCatalogRepositoryFS(infra.Firestore)
	}

	uc := usecase.NewCatalogAdminUsecase(repo, nil)
	n, err := seed(ctx, uc)
	if err != nil {
		log.Fatalf("[seed_catalog] failed after %d documents: %v", n, err)
	}
	log.Printf("[seed_catalog] done: %d documents written (dryRun=%t)", n, *dryRun)
}

// seed writes the fallback dataset. Fallback ids are remapped to the codes
// assigned by the repository.
func seed(ctx context.Context, uc *usecase.CatalogAdminUsecase) (int, error) {
	categories, subcategories, products := memory.FallbackCatalog()
	written := 0

	categoryIDs := map[string]string{}
	for _, c := range categories {
		created, err := uc.CreateCategory(ctx, usecase.CreateCategoryInput{
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		})
		if err != nil {
			return written, err
		}
		categoryIDs[c.ID] = created.ID
		written++
		log.Printf("[seed_catalog] category %s -> %s", c.ID, created.ID)
	}

	subcategoryIDs := map[string]string{}
	for _, s := range subcategories {
		created, err := uc.CreateSubcategory(ctx, usecase.CreateSubcategoryInput{
			CategoryID:  categoryIDs[s.CategoryID],
			Name:        s.Name,
			Description: s.Description,
			ImageURL:    s.ImageURL,
		})
		if err != nil {
			return written, err
		}
		subcategoryIDs[s.ID] = created.ID
		written++
		log.Printf("[seed_catalog] subcategory %s -> %s", s.ID, created.ID)
	}

	for _, p := range products {
		p.CategoryID = categoryIDs[p.CategoryID]
		p.SubcategoryID = subcategoryIDs[p.SubcategoryID]
		mainURL, gallery := p.MainImageURL, p.GalleryURLs

		created, err := uc.CreateProduct(ctx, usecase.CreateProductInput{Product: p})
		if err != nil {
			return written, err
		}
		// 既存の公開画像 URL は作成後に patch で載せる
		if _, err := uc.UpdateProduct(ctx, created.ID, catalogdom.ProductPatch{
			MainImageURL: &mainURL,
			GalleryURLs:  &gallery,
		}); err != nil {
			return written, err
		}
		written++
		log.Printf("[seed_catalog] product %s -> %s (%s)", p.ID, created.ID, created.Code())
	}
	return written, nil
}
