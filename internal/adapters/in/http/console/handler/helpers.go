// backend\internal\adapters\in\http\console\handler\helpers.go
package consoleHandler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	usecase "storefront/internal/application/usecase"
)

// 画像アップロード上限 (1 ファイル)
const maxImageBytes = 8 << 20

// multipart 全体の上限 (main + gallery)
const maxMultipartBytes = 64 << 20

var errNotMultipart = errors.New("console: not a multipart request")

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if !isMultipart(r) {
		return errNotMultipart
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	return r.ParseMultipartForm(maxMultipartBytes)
}

// formImage reads an optional image field. A missing field returns (nil, nil).
func formImage(r *http.Request, field string) (*usecase.ImageUpload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	return readImage(r.MultipartForm.File[field][0])
}

// formImages reads every file under field (gallery).
func formImages(r *http.Request, field string) ([]usecase.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []usecase.ImageUpload
	for _, fh := range r.MultipartForm.File[field] {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		if img != nil {
			out = append(out, *img)
		}
	}
	return out, nil
}

func readImage(fh *multipart.FileHeader) (*usecase.ImageUpload, error) {
	if fh.Size > maxImageBytes {
		return nil, errors.New("console: image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) > maxImageBytes {
		return nil, errors.New("console: image too large")
	}

	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, errors.New("console: not an image")
	}
	return &usecase.ImageUpload{ContentType: ct, Data: data}, nil
}

// splitCSV parses "a,b,c" / "a, b, c" into []string (empty trimmed items are removed).
func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
