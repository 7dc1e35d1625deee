package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/sequence"
)

const (
	CollectionOrders = "orders"

	// Firestore field names used by the numbering query.
	FieldOrderMonth    = "orderMonth"
	FieldOrderSequence = "orderSequence"
	FieldOrderNumber   = "orderNumber"
)

// Number is the numbering metadata of one order.
type Number struct {
	Sequence int    // orderSequence (1-based within Month)
	Month    string // orderMonth, "YYYYMM"
	Value    string // orderNumber, "YYYY-MM-NNNN"
}

// MonthScope returns "YYYYMM" for t in t's own location.
func MonthScope(t time.Time) string {
	return fmt.Sprintf("%04d%02d", t.Year(), int(t.Month()))
}

// SequenceScope is the counter scope of a month.
func SequenceScope(month string) sequence.Scope {
	return sequence.Scope{Collection: CollectionOrders, Key: CollectionOrders + "-" + month}
}

// NumberFor composes the number of the seq-th order in t's month.
// Sequences past 9999 keep growing in width.
func NumberFor(t time.Time, seq int) Number {
	return Number{
		Sequence: seq,
		Month:    MonthScope(t),
		Value:    fmt.Sprintf("%04d-%02d-%04d", t.Year(), int(t.Month()), seq),
	}
}

// ParseNumber is the inverse of NumberFor.
func ParseNumber(s string) (Number, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) < 4 {
		return Number{}, ErrInvalidNumber
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	seq, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || seq <= 0 {
		return Number{}, ErrInvalidNumber
	}
	return NumberFor(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), seq), nil
}
