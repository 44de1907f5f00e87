package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Service is the server side of cart persistence: load-with-empty-default,
// normalize-then-upsert, and clear. Two sessions sharing an id race on
// Save with last-write-wins; there is no version check.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*Cart, error)
	SaveCart(ctx context.Context, c *Cart) (*Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

var ErrSessionRequired = errors.New("session id is required")

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetCart returns the persisted cart, or an empty cart when none exists.
func (s *service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	c, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return NewCart(sessionID), nil
		}

		log.Error().Err(err).Str("session_id", sessionID).Msg("service: failed to fetch cart")
		return nil, fmt.Errorf("service: failed to fetch cart: %w", err)
	}

	return c, nil
}

// SaveCart normalizes the incoming payload before persisting: duplicate
// product ids merge, non-positive quantities drop, and the derived totals
// are recomputed from the items regardless of what the client sent.
func (s *service) SaveCart(ctx context.Context, c *Cart) (*Cart, error) {
	if c.SessionID == "" {
		return nil, ErrSessionRequired
	}

	c.Normalize()

	if err := s.repo.Save(ctx, c); err != nil {
		log.Error().Err(err).Str("session_id", c.SessionID).Msg("service: failed to save cart")
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}

	log.Info().Str("session_id", c.SessionID).Int("count", c.Count).Msg("service: cart saved")
	return c, nil
}

// ClearCart deletes the persisted state, equivalent to saving an empty cart.
func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("service: failed to clear cart")
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}

	return nil
}
