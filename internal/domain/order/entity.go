package order

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// Item は注文時点の商品/単位/価格を非正規化して保持する。
type Item struct {
	ProductID     string           `json:"productId"`
	Name          string           `json:"name"`
	UnitType      catalog.UnitType `json:"unitType"`
	UnitLabel     string           `json:"unitLabel"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	PiecesPerUnit int              `json:"piecesPerUnit"`
	Color         string           `json:"color,omitempty"`
	Quantity      int              `json:"quantity"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer is what the shopper typed into the checkout form.
type Customer struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	RestaurantName  string `json:"restaurantName,omitempty"`
	ShippingAddress string `json:"shippingAddress,omitempty"`
}

func (c Customer) normalize() Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.RestaurantName = strings.TrimSpace(c.RestaurantName)
	c.ShippingAddress = strings.TrimSpace(c.ShippingAddress)
	return c
}

// ========================================
// Entity
// ========================================

// Order is immutable after creation except for admin edits.
// ID equals Number.Value once the order has been stored.
type Order struct {
	ID        string          `json:"id"`
	Customer  Customer        `json:"customer"`
	Notes     string          `json:"notes,omitempty"`
	Status    Status          `json:"status"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Sequence  int             `json:"orderSequence"`
	Month     string          `json:"orderMonth"`
	Number    string          `json:"orderNumber"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

// Patch represents admin edits. A nil field means "no change".
type Patch struct {
	CustomerName    *string
	Email           *string
	Phone           *string
	RestaurantName  *string
	ShippingAddress *string
	Notes           *string
}

func (p Patch) Empty() bool {
	return p.CustomerName == nil && p.Email == nil && p.Phone == nil &&
		p.RestaurantName == nil && p.ShippingAddress == nil && p.Notes == nil
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID           = errors.New("order: invalid id")
	ErrInvalidCustomerName = errors.New("order: invalid customer name")
	ErrInvalidEmail        = errors.New("order: invalid email")
	ErrInvalidItems        = errors.New("order: invalid items")
	ErrInvalidCreatedAt    = errors.New("order: invalid createdAt")
	ErrInvalidStatus       = errors.New("order: invalid status")
	ErrInvalidTransition   = errors.New("order: invalid status transition")
	ErrInvalidNumber       = errors.New("order: invalid order number")
)

const MinItemsRequired = 1

// New composes a pending order. Number metadata is assigned by the repository.
func New(customer Customer, notes string, items []Item, createdAt time.Time) (Order, error) {
	o := Order{
		Customer:  customer.normalize(),
		Notes:     strings.TrimSpace(notes),
		Status:    StatusPending,
		Items:     normalizeItems(items),
		CreatedAt: createdAt,
	}
	o.Total = SumItems(o.Items)
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// AssignNumber stores numbering metadata and makes the order number the id.
func (o *Order) AssignNumber(n Number) {
	o.Sequence = n.Sequence
	o.Month = n.Month
	o.Number = n.Value
	o.ID = n.Value
}

// ApplyPatch applies admin field edits.
func (o *Order) ApplyPatch(p Patch, now time.Time) error {
	next := *o
	if p.CustomerName != nil {
		next.Customer.Name = *p.CustomerName
	}
	if p.Email != nil {
		next.Customer.Email = *p.Email
	}
	if p.Phone != nil {
		next.Customer.Phone = *p.Phone
	}
	if p.RestaurantName != nil {
		next.Customer.RestaurantName = *p.RestaurantName
	}
	if p.ShippingAddress != nil {
		next.Customer.ShippingAddress = *p.ShippingAddress
	}
	if p.Notes != nil {
		next.Notes = strings.TrimSpace(*p.Notes)
	}
	next.Customer = next.Customer.normalize()
	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = &now
	*o = next
	return nil
}

// ChangeStatus moves the order along the lifecycle.
func (o *Order) ChangeStatus(to Status, now time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = &now
	return nil
}

func (o Order) validate() error {
	if o.Customer.Name == "" {
		return ErrInvalidCustomerName
	}
	if o.Customer.Email != "" {
		if _, err := mail.ParseAddress(o.Customer.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return validateItems(o.Items)
}

func validateItems(items []Item) error {
	if len(items) < MinItemsRequired {
		return ErrInvalidItems
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || !it.UnitType.Valid() || it.UnitPrice.IsNegative() {
			return ErrInvalidItems
		}
	}
	return nil
}

func normalizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.Name = strings.TrimSpace(it.Name)
		it.UnitLabel = strings.TrimSpace(it.UnitLabel)
		it.Color = strings.TrimSpace(it.Color)
		out = append(out, it)
	}
	return out
}

func SumItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
