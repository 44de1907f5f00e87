package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Product is the catalog representation the cart snapshots from. The cart
// subsystem never writes to it.
type Product struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Price            float64  `json:"price"`
	PromotionalPrice *float64 `json:"promotional_price,omitempty"`
	Category         string   `json:"category"`
	Stock            int      `json:"stock"`
	ImageURL         string   `json:"image_url"`
	Featured         bool     `json:"featured,omitempty"`
	Status           string   `json:"status"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// EffectivePrice returns the promotional price when present and lower than
// the regular price.
func (p *Product) EffectivePrice() float64 {
	if p.PromotionalPrice != nil && *p.PromotionalPrice < p.Price {
		return *p.PromotionalPrice
	}
	return p.Price
}

// UnmarshalJSON coerces the loosely-shaped payloads the upstream API emits:
// prices arrive as numbers or numeric strings, a missing or empty
// promotional price becomes nil instead of zero.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID               json.Number `json:"id"`
		Name             string      `json:"name"`
		Description      string      `json:"description"`
		Price            json.Number `json:"price"`
		PromotionalPrice json.Number `json:"promotional_price"`
		Category         string      `json:"category"`
		Stock            json.Number `json:"stock"`
		ImageURL         string      `json:"image_url"`
		Featured         bool        `json:"featured"`
		Status           string      `json:"status"`
	}

	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := parseInt(raw.ID)
	if err != nil {
		return fmt.Errorf("catalog: invalid product id %q: %w", raw.ID, err)
	}

	price, err := parseFloat(raw.Price)
	if err != nil {
		return fmt.Errorf("catalog: invalid product price %q: %w", raw.Price, err)
	}

	stock, err := parseInt(raw.Stock)
	if err != nil {
		stock = 0
	}

	p.ID = id
	p.Name = raw.Name
	p.Description = raw.Description
	p.Price = price
	p.Category = raw.Category
	p.Stock = int(stock)
	p.ImageURL = raw.ImageURL
	p.Featured = raw.Featured
	p.Status = raw.Status
	if p.Status == "" {
		p.Status = "active"
	}

	p.PromotionalPrice = nil
	if raw.PromotionalPrice != "" {
		promo, err := parseFloat(raw.PromotionalPrice)
		if err != nil {
			return fmt.Errorf("catalog: invalid promotional price %q: %w", raw.PromotionalPrice, err)
		}
		if promo > 0 {
			p.PromotionalPrice = &promo
		}
	}

	return nil
}

func parseFloat(n json.Number) (float64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" || s == "null" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" || s == "null" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// ListFilter narrows product listings. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Search   string
	Featured bool
	Limit    int
}

// Category groups products for navigation.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
