package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrCartNotFound = errors.New("cart not found")

type Repository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetBySessionID(ctx context.Context, sessionID string) (*Cart, error) {
	query := `
		SELECT session_id, items, total, count, updated_at
		FROM carts
		WHERE session_id = $1
	`

	var (
		c        Cart
		rawItems []byte
	)
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&c.SessionID,
		&rawItems,
		&c.Total,
		&c.Count,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("repository: failed to select cart for session %s: %w", sessionID, err)
	}

	if err := json.Unmarshal(rawItems, &c.Items); err != nil {
		// Stored items column is unreadable. Treat as no existing cart
		// rather than propagating a programming error to the user.
		log.Warn().Err(err).Str("session_id", sessionID).Msg("repository: malformed cart items, returning not found")
		return nil, ErrCartNotFound
	}
	if c.Items == nil {
		c.Items = make([]LineItem, 0)
	}

	return &c, nil
}

func (r *postgresRepository) Save(ctx context.Context, c *Cart) error {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("repository: failed to encode cart items: %w", err)
	}

	now := time.Now().UTC()

	insert := `
		INSERT INTO carts (session_id, items, total, count, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.Exec(ctx, insert, c.SessionID, items, c.Total, c.Count, now)
	if err == nil {
		c.UpdatedAt = now
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return fmt.Errorf("repository: failed to insert cart for session %s: %w", c.SessionID, err)
	}

	update := `
		UPDATE carts
		SET items = $1, total = $2, count = $3, updated_at = $4
		WHERE session_id = $5
	`
	_, err = r.db.Exec(ctx, update, items, c.Total, c.Count, now, c.SessionID)
	if err != nil {
		return fmt.Errorf("repository: failed to update cart for session %s: %w", c.SessionID, err)
	}

	c.UpdatedAt = now
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete cart for session %s: %w", sessionID, err)
	}
	return nil
}
