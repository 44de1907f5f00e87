package cart

import "time"

// LineItem is one product-quantity pairing within a cart. Name, prices,
// category and stock are snapshots captured from the catalog at add-time;
// they are not live references.
type LineItem struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	PromotionalPrice *float64 `json:"promotional_price"`
	ImageURL         string   `json:"image_url"`
	Category         string   `json:"category"`
	Quantity         int      `json:"quantity"`
	Stock            int      `json:"stock"`
}

// EffectivePrice is the promotional price when present and lower than the
// regular price.
func (li *LineItem) EffectivePrice() float64 {
	if li.PromotionalPrice != nil && *li.PromotionalPrice < li.Price {
		return *li.PromotionalPrice
	}
	return li.Price
}

// Subtotal is the line's effective price times its quantity.
func (li *LineItem) Subtotal() float64 {
	return li.EffectivePrice() * float64(li.Quantity)
}

// Cart is the aggregate keyed by session id. Total and Count are derived:
// they are recomputed from Items before every persist and every display,
// never trusted as independently-mutable fields.
type Cart struct {
	SessionID string     `json:"-"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	Count     int        `json:"count"`
	UpdatedAt time.Time  `json:"-"`
}

// NewCart returns an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     make([]LineItem, 0),
	}
}

// CalculateTotals recomputes Total and Count from Items. Every code path
// that mutates Items must call it before the cart is considered valid.
func (c *Cart) CalculateTotals() {
	total := 0.0
	count := 0
	for i := range c.Items {
		total += c.Items[i].Subtotal()
		count += c.Items[i].Quantity
	}
	c.Total = total
	c.Count = count
}

// Normalize enforces the aggregate invariants on a cart that arrived from
// an untrusted source: duplicate product ids merge into one line, lines
// with quantity <= 0 are dropped, insertion order is preserved, and the
// totals are recomputed.
func (c *Cart) Normalize() {
	merged := make([]LineItem, 0, len(c.Items))
	index := make(map[int64]int, len(c.Items))

	for _, item := range c.Items {
		if pos, ok := index[item.ID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, item)
	}

	items := merged[:0]
	for _, item := range merged {
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}

	c.Items = items
	c.CalculateTotals()
}

// Clone returns a deep copy so callers can read a snapshot without racing
// with later mutations.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]LineItem, len(c.Items))
	copy(clone.Items, c.Items)
	for i := range clone.Items {
		if c.Items[i].PromotionalPrice != nil {
			promo := *c.Items[i].PromotionalPrice
			clone.Items[i].PromotionalPrice = &promo
		}
	}
	return &clone
}

func (c *Cart) findItem(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}
