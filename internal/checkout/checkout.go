package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
)

var ErrEmptyCart = errors.New("cart is empty")

// ShippingOption is the fixed shipping enumeration. The fee is additive to
// the cart total at presentation time and never persisted into the cart.
type ShippingOption string

const (
	ShippingPickup   ShippingOption = "pickup"
	ShippingStandard ShippingOption = "standard"
	ShippingExpress  ShippingOption = "express"
)

func (o ShippingOption) Fee() float64 {
	switch o {
	case ShippingStandard:
		return 15
	case ShippingExpress:
		return 25
	default:
		return 0
	}
}

func (o ShippingOption) Label() string {
	switch o {
	case ShippingStandard:
		return "Entrega Padrão"
	case ShippingExpress:
		return "Entrega Expressa"
	default:
		return "Retirada na Loja"
	}
}

// BuildOrderSummary renders the order hand-off message: numbered items with
// quantity, unit effective price and subtotal, then the shipping line and
// the grand total. Pure function; fails with ErrEmptyCart so callers check
// before handing off to the messaging channel.
func BuildOrderSummary(c *cart.Cart, shipping ShippingOption) (string, error) {
	if c == nil || len(c.Items) == 0 {
		return "", ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer um pedido na Universo Paralelo Store.\n\n")
	b.WriteString("*RESUMO DO PEDIDO*\n\n")
	b.WriteString("*Itens:*\n")

	orderTotal := 0.0
	for i, item := range c.Items {
		unit := item.EffectivePrice()
		subtotal := unit * float64(item.Quantity)
		orderTotal += subtotal

		fmt.Fprintf(&b, "%d. *%s*\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Quantidade: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Preço unitário: R$ %.2f\n", unit)
		fmt.Fprintf(&b, "   Subtotal: R$ %.2f\n\n", subtotal)
	}

	fmt.Fprintf(&b, "*Frete:* %s - R$ %.2f\n\n", shipping.Label(), shipping.Fee())
	fmt.Fprintf(&b, "*TOTAL DO PEDIDO: R$ %.2f*\n\n", orderTotal+shipping.Fee())
	b.WriteString("Por favor, confirme os dados para finalizarmos o pedido!\n")
	b.WriteString("Obrigado!")

	return b.String(), nil
}

// WhatsAppLink URL-encodes the message into a wa.me deep link. Fire and
// forget: no response is awaited or parsed.
func WhatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
