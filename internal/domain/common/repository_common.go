package common

import "time"

// TimeRange は期間フィルタのための共通構造体
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range (open bounds allowed).
func (r TimeRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// Page はオフセットページング指定
type Page struct {
	Number  int // 1-based
	PerPage int // 0 以下は実装側デフォルト
}

// PageResult はページング結果（ジェネリクスでアイテム型を受け取る）
type PageResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
}

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// NormalizePage はページ番号/件数を正規化し、limit/offset を返します。
func NormalizePage(number, perPage, defaultPerPage, maxPerPage int) (page int, limit int, offset int) {
	page = number
	if page <= 0 {
		page = 1
	}
	limit = perPage
	if limit <= 0 {
		limit = defaultPerPage
	}
	if maxPerPage > 0 && limit > maxPerPage {
		limit = maxPerPage
	}
	offset = (page - 1) * limit
	return
}

// ComputeTotalPages は合計件数と1ページあたり件数から総ページ数を計算します。
func ComputeTotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Paginate slices an already filtered and sorted list into one page.
func Paginate[T any](all []T, p Page) PageResult[T] {
	page, limit, offset := NormalizePage(p.Number, p.PerPage, DefaultPerPage, MaxPerPage)
	total := len(all)

	items := []T{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		items = append(items, all[offset:end]...)
	}

	return PageResult[T]{
		Items:      items,
		TotalCount: total,
		TotalPages: ComputeTotalPages(total, limit),
		Page:       page,
		PerPage:    limit,
	}
}
