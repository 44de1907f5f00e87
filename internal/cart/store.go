package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/TarcisoJNDev/upuniversestorege/internal/catalog"
)

// ProductFetcher is the slice of the catalog client the store needs: an
// authoritative read of one product, used to validate adds and snapshot
// price/stock.
type ProductFetcher interface {
	ProductByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Persister is the remote cart store. Upsert semantics on Save; Load
// returns nil without error when no cart exists for the session.
type Persister interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// AddResult reports the outcome of an add-to-cart call. The store returns
// Success=false instead of an error for catalog failures so a flaky
// network never crashes the caller.
type AddResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Cart    *Cart  `json:"cart,omitempty"`
}

// Store is the single authoritative in-process cart for one session. Every
// mutation recomputes the derived totals and then persists; persistence
// failures are logged and swallowed, leaving memory as the source of truth
// for the page lifetime. Calls on a store complete one at a time, so a
// mutation's recompute and persist finish before the next call proceeds.
type Store struct {
	sessionID string
	fetcher   ProductFetcher
	persister Persister

	mu          sync.Mutex
	cart        *Cart
	initialized bool
}

func NewStore(sessionID string, fetcher ProductFetcher, persister Persister) *Store {
	return &Store{
		sessionID: sessionID,
		fetcher:   fetcher,
		persister: persister,
		cart:      NewCart(sessionID),
	}
}

// Initialize loads the persisted cart for the session. Idempotent: only
// the first call fetches. A failed or malformed load degrades to an empty
// in-memory cart rather than blocking the page.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized(ctx)
}

func (s *Store) ensureInitialized(ctx context.Context) {
	if s.initialized {
		return
	}
	s.initialized = true

	loaded, err := s.persister.Load(ctx, s.sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.sessionID).Msg("cart: failed to load persisted cart, starting empty")
		return
	}
	if loaded == nil {
		return
	}

	loaded.SessionID = s.sessionID
	loaded.Normalize()
	s.cart = loaded
	log.Info().Str("session_id", s.sessionID).Int("count", s.cart.Count).Msg("cart: loaded persisted cart")
}

// Cart returns a snapshot of the current in-memory state. It never
// triggers network I/O.
func (s *Store) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddToCart validates the product against the catalog, then either
// increments the existing line's quantity or appends a new line
// snapshotting the product's current price, promotion, stock and display
// fields. A failed fetch aborts with no mutation. No stock ceiling is
// enforced here; that is a UI-level soft constraint.
func (s *Store) AddToCart(ctx context.Context, productID int64, quantity int) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized(ctx)

	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.fetcher.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Warn().Int64("product_id", productID).Msg("cart: product not found, add aborted")
			return AddResult{Success: false, Message: "Produto não encontrado"}
		}
		log.Error().Err(err).Int64("product_id", productID).Msg("cart: failed to fetch product, add aborted")
		return AddResult{Success: false, Message: "Erro ao adicionar produto ao carrinho"}
	}

	if pos := s.cart.findItem(productID); pos >= 0 {
		s.cart.Items[pos].Quantity += quantity
	} else {
		s.cart.Items = append(s.cart.Items, LineItem{
			ID:               product.ID,
			Name:             product.Name,
			Price:            product.Price,
			PromotionalPrice: product.PromotionalPrice,
			ImageURL:         product.ImageURL,
			Category:         categoryOrDefault(product.Category),
			Quantity:         quantity,
			Stock:            product.Stock,
		})
	}

	s.cart.CalculateTotals()
	s.saveCart(ctx)

	return AddResult{
		Success: true,
		Message: "Produto adicionado ao carrinho",
		Cart:    s.cart.Clone(),
	}
}

// RemoveFromCart filters out the line with the given product id. A miss is
// still recomputed and persisted.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized(ctx)

	items := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	s.cart.Items = items

	s.cart.CalculateTotals()
	s.saveCart(ctx)
	return s.cart.Clone()
}

// UpdateQuantity sets (not increments) a line's quantity. A quantity of
// zero or below removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized(ctx)

	pos := s.cart.findItem(productID)
	if pos < 0 {
		return s.cart.Clone()
	}

	if quantity <= 0 {
		s.cart.Items = append(s.cart.Items[:pos], s.cart.Items[pos+1:]...)
	} else {
		s.cart.Items[pos].Quantity = quantity
	}

	s.cart.CalculateTotals()
	s.saveCart(ctx)
	return s.cart.Clone()
}

// ClearCart resets the cart to empty and persists the empty state.
func (s *Store) ClearCart(ctx context.Context) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureInitialized(ctx)

	s.cart = NewCart(s.sessionID)
	s.saveCart(ctx)
	return s.cart.Clone()
}

func (s *Store) saveCart(ctx context.Context) {
	if err := s.persister.Save(ctx, s.sessionID, s.cart); err != nil {
		log.Error().Err(err).Str("session_id", s.sessionID).Msg("cart: failed to persist cart, in-memory state kept")
	}
}

func categoryOrDefault(category string) string {
	if category == "" {
		return "Sem categoria"
	}
	return category
}
