package gcs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"

	gcscommon "storefront/internal/adapters/out/gcs/common"
)

// ImageRepositoryGCS stores catalog images and generated QR codes.
//
// Layout (single bucket):
//   - categories/{uuid}
//   - subcategories/{uuid}
//   - products/main/{uuid}
//   - products/gallery/{uuid}
//   - settings/whatsapp-qr-{uuid}.png
//
// バケットに allUsers: Storage Object Viewer が付いている前提で、
// アップロード後のオブジェクトは公開 URL で参照できる。
type ImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewImageRepositoryGCS(client *storage.Client, bucket, publicBaseURL string) *ImageRepositoryGCS {
	return &ImageRepositoryGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: strings.TrimSpace(publicBaseURL),
	}
}

func (r *ImageRepositoryGCS) bucket() (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("image_repository_gcs: storage client is nil")
	}
	if r.Bucket == "" {
		return nil, errors.New("image_repository_gcs: bucket is empty")
	}
	return r.Client.Bucket(r.Bucket), nil
}

// Upload writes data to objectPath and returns its public URL.
func (r *ImageRepositoryGCS) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	bh, err := r.bucket()
	if err != nil {
		return "", err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return "", errors.New("image_repository_gcs: objectPath is empty")
	}
	if len(data) == 0 {
		return "", errors.New("image_repository_gcs: empty content")
	}

	w := bh.Object(obj).NewWriter(ctx)
	w.ContentType = strings.TrimSpace(contentType)
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", obj, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", obj, err)
	}

	url := gcscommon.PublicURL(r.PublicBaseURL, r.Bucket, obj)
	log.Printf("[image_repo_gcs] uploaded bucket=%s object=%s size=%d", r.Bucket, obj, len(data))
	return url, nil
}

// DeleteByURL removes the object behind a public URL. URLs that do not point
// into this bucket are ignored.
func (r *ImageRepositoryGCS) DeleteByURL(ctx context.Context, publicURL string) error {
	b, obj, ok := gcscommon.ParseGCSURL(publicURL)
	if !ok || b != r.Bucket {
		return nil
	}
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	if err := bh.Object(obj).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
