package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is an independent copy of the cart taken at checkout.
type Snapshot struct {
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	TakenAt time.Time       `json:"takenAt"`
}

func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

func (s Snapshot) TotalQuantity() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}
