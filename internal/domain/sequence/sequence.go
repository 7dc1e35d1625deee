// Package sequence holds the counter rules shared by order numbers and
// catalog codes. Storage adapters own the atomic read-increment-write.
package sequence

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidScope = errors.New("sequence: invalid scope")
	ErrExhausted    = errors.New("sequence: exhausted")
)

// Scope は 1 本のカウンタを表す。Key はカウンタ doc の ID としても使う。
type Scope struct {
	Collection string // 採番対象のコレクション (orders, products, ...)
	Key        string // "orders-202506" / "products"
}

func (s Scope) Validate() error {
	if strings.TrimSpace(s.Collection) == "" || strings.TrimSpace(s.Key) == "" {
		return ErrInvalidScope
	}
	return nil
}

// CollectionScope is the unbounded scope used by catalog entities.
func CollectionScope(collection string) Scope {
	return Scope{Collection: collection, Key: collection}
}

// Next returns last+1. A negative last is treated as 0.
func Next(last int) (int, error) {
	if last < 0 {
		last = 0
	}
	if last >= math.MaxInt32 {
		return 0, ErrExhausted
	}
	return last + 1, nil
}

// Code builds "{PREFIX}-{seq:06}", e.g. PROD-000042.
func Code(prefix string, seq int) string {
	return fmt.Sprintf("%s-%06d", strings.ToUpper(strings.TrimSpace(prefix)), seq)
}

// Max returns the largest value in seqs, or 0.
func Max(seqs ...int) int {
	m := 0
	for _, s := range seqs {
		if s > m {
			m = s
		}
	}
	return m
}
