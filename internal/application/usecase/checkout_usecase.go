// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

// OrderMailer is an outbound port (SendGrid).
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, o orderdom.Order) error
}

// OrderEvents is an outbound port (Kafka).
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, o orderdom.Order) error
}

// CheckoutInput is what the checkout form sends.
type CheckoutInput struct {
	SessionID       string
	CustomerName    string
	Email           string
	Phone           string
	RestaurantName  string
	ShippingAddress string
	Notes           string
}

// Confirmation is returned to the shopper after a successful submission.
type Confirmation struct {
	Customer     orderdom.Customer `json:"customerInfo"`
	CartSnapshot cartdom.Snapshot  `json:"cartSnapshot"`
	CreatedAt    time.Time         `json:"createdAt"`
	OrderNumber  string            `json:"orderNumber"`
	Order        orderdom.Order    `json:"order"`
}

// CheckoutUsecase turns the session cart into an order.
//   - 事前条件 (空カート / 名前なし) は書き込み前に弾く
//   - 注文の書き込みが成功してからカートを空にする
//   - 同じセッションの二重送信は InFlight で失敗させる
type CheckoutUsecase struct {
	carts  *CartUsecase
	orders orderdom.Repository

	mailer OrderMailer
	events OrderEvents

	now func() time.Time
	loc *time.Location

	notifyTimeout time.Duration
}

func NewCheckoutUsecase(carts *CartUsecase, orders orderdom.Repository, loc *time.Location) *CheckoutUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &CheckoutUsecase{
		carts:         carts,
		orders:        orders,
		now:           time.Now,
		loc:           loc,
		notifyTimeout: 10 * time.Second,
	}
}

func (u *CheckoutUsecase) WithMailer(m OrderMailer) *CheckoutUsecase {
	u.mailer = m
	return u
}

func (u *CheckoutUsecase) WithEvents(e OrderEvents) *CheckoutUsecase {
	u.events = e
	return u
}

// Submit validates the cart and the customer, writes the order and clears the cart.
func (u *CheckoutUsecase) Submit(ctx context.Context, in CheckoutInput) (Confirmation, error) {
	sid := normalizeSessionID(in.SessionID)
	if sid == "" {
		return Confirmation{}, validationError("session", ErrCartSessionRequired)
	}
	if u.orders == nil {
		return Confirmation{}, classifyWriteError(ErrCheckoutRepoMissing)
	}

	if !u.carts.locks.beginCheckout(sid) {
		return Confirmation{}, &CheckoutError{Kind: CheckoutInFlight, Err: ErrCheckoutInFlight}
	}
	defer u.carts.locks.endCheckout(sid)

	var (
		conf Confirmation
		err  error
	)
	// カートの読み取りからクリアまでセッションロックを保持する
	lockErr := u.carts.withCart(ctx, sid, func(c *cartdom.Cart) error {
		conf, err = u.submitLocked(ctx, c, in)
		return nil
	})
	if lockErr != nil {
		return Confirmation{}, lockErr
	}
	if err != nil {
		return Confirmation{}, err
	}

	u.notify(ctx, conf.Order)
	return conf, nil
}

func (u *CheckoutUsecase) submitLocked(ctx context.Context, c *cartdom.Cart, in CheckoutInput) (Confirmation, error) {
	if c.IsEmpty() {
		return Confirmation{}, validationError("cart", ErrCartEmpty)
	}
	customer := orderdom.Customer{
		Name:            strings.TrimSpace(in.CustomerName),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		RestaurantName:  strings.TrimSpace(in.RestaurantName),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
	}
	if customer.Name == "" {
		return Confirmation{}, validationError("customerName", ErrNameRequired)
	}

	createdAt := u.now().In(u.loc)
	snapshot := c.Snapshot(createdAt)
	notes := orderdom.ComposeNotes(in.Notes, customer.RestaurantName, customer.Phone)

	draft, err := orderdom.New(customer, notes, ItemsFromLines(snapshot.Lines), createdAt)
	if err != nil {
		return Confirmation{}, classifyWriteError(err)
	}

	created, err := u.orders.Create(ctx, draft)
	if err != nil {
		ce := classifyWriteError(err)
		log.Printf("[store.checkout] order write failed kind=%s: %v (cart kept)", ce.Kind, err)
		return Confirmation{}, ce
	}

	c.Clear(ctx)
	log.Printf("[store.checkout] order created orderNumber=%s items=%d total=%s",
		created.Number, len(created.Items), created.Total.StringFixed(2))

	return Confirmation{
		Customer:     created.Customer,
		CartSnapshot: snapshot,
		CreatedAt:    created.CreatedAt,
		OrderNumber:  created.Number,
		Order:        created,
	}, nil
}

// notify は best-effort。失敗してもチェックアウトは成功扱い。
func (u *CheckoutUsecase) notify(ctx context.Context, o orderdom.Order) {
	if u.mailer == nil && u.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.notifyTimeout)
	defer cancel()

	if u.mailer != nil {
		if err := u.mailer.SendOrderConfirmation(ctx, o); err != nil {
			log.Printf("[store.checkout] WARN: confirmation mail failed orderNumber=%s: %v", o.Number, err)
		}
	}
	if u.events != nil {
		if err := u.events.PublishOrderCreated(ctx, o); err != nil {
			log.Printf("[store.checkout] WARN: order event failed orderNumber=%s: %v", o.Number, err)
		}
	}
}

// ItemsFromLines denormalizes cart lines at their current unit price.
func ItemsFromLines(lines []cartdom.Line) []orderdom.Item {
	items := make([]orderdom.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, orderdom.Item{
			ProductID:     l.ProductID,
			Name:          l.ProductName,
			UnitType:      l.Unit.Type,
			UnitLabel:     l.Unit.DisplayLabel(),
			UnitPrice:     l.Unit.Price,
			PiecesPerUnit: l.Unit.PiecesPerUnit,
			Color:         l.Color,
			Quantity:      l.Quantity,
		})
	}
	return items
}
