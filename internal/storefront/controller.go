package storefront

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
	"github.com/TarcisoJNDev/upuniversestorege/internal/checkout"
)

// maxLineQuantity caps the quantity stepper regardless of stock.
const maxLineQuantity = 10

// lowStockThreshold marks lines that should warn the shopper.
const lowStockThreshold = 5

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notifier receives user-visible toast messages. The page stays
// interactive whatever happens; failures end here, not in panics.
type Notifier interface {
	Notify(message string, kind NoticeKind)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, NoticeKind) {}

// LineView is one rendered cart row.
type LineView struct {
	ProductID int64
	Name      string
	Category  string
	ImageURL  string
	UnitPrice float64
	Promoted  bool
	Quantity  int
	MaxQty    int
	Subtotal  float64
	LowStock  bool
	Stock     int
}

// Totals is the page footer: the cart subtotal plus the selected shipping
// fee. Shipping is a presentation concern recomputed on every change and
// never persisted into the cart store.
type Totals struct {
	Subtotal float64
	Shipping float64
	Grand    float64
}

// View is the full render state of the cart page.
type View struct {
	Lines    []LineView
	Totals   Totals
	Shipping checkout.ShippingOption
	Empty    bool
}

// Controller translates page actions into cart store calls and produces
// the render state for the affected regions.
type Controller struct {
	store    *cart.Store
	notifier Notifier
	shipping checkout.ShippingOption
	phone    string
}

func NewController(store *cart.Store, notifier Notifier, whatsAppPhone string) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		shipping: checkout.ShippingPickup,
		phone:    whatsAppPhone,
	}
}

// Initialize loads the persisted cart before the first render.
func (c *Controller) Initialize(ctx context.Context) {
	c.store.Initialize(ctx)
}

// AddItem adds a product to the cart, reporting the outcome as a toast.
func (c *Controller) AddItem(ctx context.Context, productID int64, quantity int) bool {
	result := c.store.AddToCart(ctx, productID, quantity)
	if result.Success {
		c.notifier.Notify(result.Message, NoticeSuccess)
	} else {
		c.notifier.Notify(result.Message, NoticeError)
	}
	return result.Success
}

// IncrementItem bumps a line's quantity by one, stopping at the stepper
// ceiling of min(stock, 10).
func (c *Controller) IncrementItem(ctx context.Context, productID int64) {
	item, ok := c.findItem(productID)
	if !ok {
		return
	}

	max := stepperMax(item.Stock)
	if item.Quantity >= max {
		c.notifier.Notify(fmt.Sprintf("Limite máximo de %d unidades atingido", max), NoticeError)
		return
	}

	c.store.UpdateQuantity(ctx, productID, item.Quantity+1)
}

// DecrementItem lowers a line's quantity by one; the floor is 1, removal
// goes through RemoveItem.
func (c *Controller) DecrementItem(ctx context.Context, productID int64) {
	item, ok := c.findItem(productID)
	if !ok {
		return
	}

	if item.Quantity <= 1 {
		return
	}

	c.store.UpdateQuantity(ctx, productID, item.Quantity-1)
}

// SetQuantity applies a direct quantity edit. Values outside
// [1, min(stock, 10)] are rejected with a visible message and clamped to
// the nearest valid bound, so the validation never reaches the store.
func (c *Controller) SetQuantity(ctx context.Context, productID int64, quantity int) {
	item, ok := c.findItem(productID)
	if !ok {
		return
	}

	max := stepperMax(item.Stock)
	if quantity < 1 || quantity > max {
		c.notifier.Notify(fmt.Sprintf("Quantidade deve ser entre 1 e %d", max), NoticeError)
		if quantity < 1 {
			quantity = 1
		} else {
			quantity = max
		}
	}

	c.store.UpdateQuantity(ctx, productID, quantity)
}

// RemoveItem drops a line from the cart.
func (c *Controller) RemoveItem(ctx context.Context, productID int64) {
	c.store.RemoveFromCart(ctx, productID)
}

// Clear empties the cart.
func (c *Controller) Clear(ctx context.Context) {
	c.store.ClearCart(ctx)
}

// SelectShipping switches the shipping option and takes effect on the next
// Totals/View read.
func (c *Controller) SelectShipping(option checkout.ShippingOption) {
	c.shipping = option
}

// Shipping returns the currently selected option.
func (c *Controller) Shipping() checkout.ShippingOption {
	return c.shipping
}

// CurrentTotals recomputes the footer from the current cart and shipping
// selection.
func (c *Controller) CurrentTotals() Totals {
	snapshot := c.store.Cart()
	return Totals{
		Subtotal: snapshot.Total,
		Shipping: c.shipping.Fee(),
		Grand:    snapshot.Total + c.shipping.Fee(),
	}
}

// View renders the full cart page state.
func (c *Controller) View() View {
	snapshot := c.store.Cart()

	lines := make([]LineView, 0, len(snapshot.Items))
	for i := range snapshot.Items {
		item := &snapshot.Items[i]
		lines = append(lines, LineView{
			ProductID: item.ID,
			Name:      item.Name,
			Category:  item.Category,
			ImageURL:  item.ImageURL,
			UnitPrice: item.EffectivePrice(),
			Promoted:  item.PromotionalPrice != nil && *item.PromotionalPrice < item.Price,
			Quantity:  item.Quantity,
			MaxQty:    stepperMax(item.Stock),
			Subtotal:  item.Subtotal(),
			LowStock:  item.Stock <= lowStockThreshold,
			Stock:     item.Stock,
		})
	}

	return View{
		Lines: lines,
		Totals: Totals{
			Subtotal: snapshot.Total,
			Shipping: c.shipping.Fee(),
			Grand:    snapshot.Total + c.shipping.Fee(),
		},
		Shipping: c.shipping,
		Empty:    len(lines) == 0,
	}
}

// Checkout builds the WhatsApp hand-off link for the current cart and
// shipping selection. An empty cart notifies and fails.
func (c *Controller) Checkout(ctx context.Context) (string, error) {
	snapshot := c.store.Cart()

	message, err := checkout.BuildOrderSummary(snapshot, c.shipping)
	if err != nil {
		c.notifier.Notify("Seu carrinho está vazio!", NoticeError)
		return "", err
	}

	link := checkout.WhatsAppLink(c.phone, message)
	log.Info().Str("session_id", snapshot.SessionID).Int("count", snapshot.Count).Msg("storefront: checkout message generated")
	return link, nil
}

func (c *Controller) findItem(productID int64) (cart.LineItem, bool) {
	snapshot := c.store.Cart()
	for _, item := range snapshot.Items {
		if item.ID == productID {
			return item, true
		}
	}
	return cart.LineItem{}, false
}

func stepperMax(stock int) int {
	if stock < 1 {
		// Out-of-stock snapshot still renders with a usable stepper; stock
		// is a soft UI bound, not a reservation.
		return maxLineQuantity
	}
	if stock < maxLineQuantity {
		return stock
	}
	return maxLineQuantity
}
