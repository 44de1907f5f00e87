package storefront_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
	"github.com/TarcisoJNDev/upuniversestorege/internal/catalog"
	"github.com/TarcisoJNDev/upuniversestorege/internal/checkout"
	"github.com/TarcisoJNDev/upuniversestorege/internal/storefront"
)

type mockFetcher struct {
	products map[int64]*catalog.Product
}

func (m *mockFetcher) ProductByID(ctx context.Context, id int64) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

type nopPersister struct{}

func (nopPersister) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return nil, nil
}
func (nopPersister) Save(ctx context.Context, sessionID string, c *cart.Cart) error { return nil }
func (nopPersister) Delete(ctx context.Context, sessionID string) error             { return nil }

type recordingNotifier struct {
	messages []string
	kinds    []storefront.NoticeKind
}

func (n *recordingNotifier) Notify(message string, kind storefront.NoticeKind) {
	n.messages = append(n.messages, message)
	n.kinds = append(n.kinds, kind)
}

func floatPtr(v float64) *float64 { return &v }

func newController(t *testing.T) (*storefront.Controller, *recordingNotifier) {
	t.Helper()

	fetcher := &mockFetcher{products: map[int64]*catalog.Product{
		1: {ID: 1, Name: "Vaso Estelar", Price: 25, Stock: 3, Category: "Decoração", Status: "active"},
		2: {ID: 2, Name: "Luminária Nebulosa", Price: 40, PromotionalPrice: floatPtr(30), Stock: 20, Category: "Decoração", Status: "active"},
	}}

	notifier := &recordingNotifier{}
	store := cart.NewStore("sess_test", fetcher, nopPersister{})
	return storefront.NewController(store, notifier, "558182047692"), notifier
}

func TestController_SetQuantity(t *testing.T) {
	tests := []struct {
		name         string
		productID    int64
		quantity     int
		wantQuantity int
		wantNotice   bool
	}{
		{name: "in_range", productID: 2, quantity: 5, wantQuantity: 5},
		{name: "below_range_clamps_to_one", productID: 2, quantity: 0, wantQuantity: 1, wantNotice: true},
		{name: "above_stock_clamps_to_stock", productID: 1, quantity: 9, wantQuantity: 3, wantNotice: true},
		{name: "above_hard_cap_clamps_to_ten", productID: 2, quantity: 15, wantQuantity: 10, wantNotice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctrl, notifier := newController(t)
			ctrl.Initialize(ctx)
			ctrl.AddItem(ctx, tt.productID, 1)
			notifier.messages = nil
			notifier.kinds = nil

			ctrl.SetQuantity(ctx, tt.productID, tt.quantity)

			view := ctrl.View()
			require.Len(t, view.Lines, 1)
			assert.Equal(t, tt.wantQuantity, view.Lines[0].Quantity)
			if tt.wantNotice {
				require.NotEmpty(t, notifier.messages, "out-of-range edit must notify")
				assert.Equal(t, storefront.NoticeError, notifier.kinds[0])
			} else {
				assert.Empty(t, notifier.messages)
			}
		})
	}
}

func TestController_IncrementItem(t *testing.T) {
	ctx := context.Background()
	ctrl, notifier := newController(t)
	ctrl.AddItem(ctx, 1, 2)
	notifier.messages = nil

	ctrl.IncrementItem(ctx, 1)
	assert.Equal(t, 3, ctrl.View().Lines[0].Quantity)

	// Stock for product 1 is 3, so the next increment hits the ceiling.
	ctrl.IncrementItem(ctx, 1)
	assert.Equal(t, 3, ctrl.View().Lines[0].Quantity)
	assert.NotEmpty(t, notifier.messages)
}

func TestController_DecrementItem(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t)
	ctrl.AddItem(ctx, 1, 2)

	ctrl.DecrementItem(ctx, 1)
	assert.Equal(t, 1, ctrl.View().Lines[0].Quantity)

	// The floor is 1; removal is an explicit action.
	ctrl.DecrementItem(ctx, 1)
	require.Len(t, ctrl.View().Lines, 1)
	assert.Equal(t, 1, ctrl.View().Lines[0].Quantity)
}

func TestController_ShippingIsAdditiveAndUnpersisted(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t)
	ctrl.AddItem(ctx, 1, 2) // 2 × 25.00

	assert.Equal(t, storefront.Totals{Subtotal: 50, Shipping: 0, Grand: 50}, ctrl.CurrentTotals())

	ctrl.SelectShipping(checkout.ShippingExpress)
	assert.Equal(t, storefront.Totals{Subtotal: 50, Shipping: 25, Grand: 75}, ctrl.CurrentTotals())

	ctrl.SelectShipping(checkout.ShippingStandard)
	assert.Equal(t, storefront.Totals{Subtotal: 50, Shipping: 15, Grand: 65}, ctrl.CurrentTotals())
}

func TestController_View(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t)
	ctrl.AddItem(ctx, 1, 1)
	ctrl.AddItem(ctx, 2, 2)

	view := ctrl.View()

	require.Len(t, view.Lines, 2)
	assert.False(t, view.Empty)

	vaso := view.Lines[0]
	assert.Equal(t, 25.0, vaso.UnitPrice)
	assert.False(t, vaso.Promoted)
	assert.True(t, vaso.LowStock, "stock 3 is under the warning threshold")
	assert.Equal(t, 3, vaso.MaxQty)

	luminaria := view.Lines[1]
	assert.Equal(t, 30.0, luminaria.UnitPrice)
	assert.True(t, luminaria.Promoted)
	assert.False(t, luminaria.LowStock)
	assert.Equal(t, 10, luminaria.MaxQty, "stepper caps at 10 even with more stock")
	assert.Equal(t, 60.0, luminaria.Subtotal)
}

func TestController_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty_cart_fails_with_notice", func(t *testing.T) {
		ctrl, notifier := newController(t)

		_, err := ctrl.Checkout(ctx)

		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
		assert.NotEmpty(t, notifier.messages)
	})

	t.Run("builds_whatsapp_link", func(t *testing.T) {
		ctrl, _ := newController(t)
		ctrl.AddItem(ctx, 1, 1)
		ctrl.SelectShipping(checkout.ShippingStandard)

		link, err := ctrl.Checkout(ctx)

		require.NoError(t, err)
		assert.Contains(t, link, "https://wa.me/558182047692?text=")
	})
}

func TestController_ClearAndRemove(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t)
	ctrl.AddItem(ctx, 1, 1)
	ctrl.AddItem(ctx, 2, 1)

	ctrl.RemoveItem(ctx, 1)
	require.Len(t, ctrl.View().Lines, 1)

	ctrl.Clear(ctx)
	view := ctrl.View()
	assert.True(t, view.Empty)
	assert.Zero(t, view.Totals.Subtotal)
}
