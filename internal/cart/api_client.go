package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// APIClient is the HTTP Persister for the cart persistence endpoint.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type cartEnvelope struct {
	Success bool  `json:"success"`
	Cart    *Cart `json:"cart"`
}

func (c *APIClient) endpoint(sessionID string) string {
	return c.baseURL + "/cart/" + url.PathEscape(sessionID)
}

// Load fetches the persisted cart. A missing cart or a malformed stored
// payload both come back as (nil, nil): the caller starts from empty.
func (c *APIClient) Load(ctx context.Context, sessionID string) (*Cart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("cart: failed to build load request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart: failed to load cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart: unexpected status %d loading cart", resp.StatusCode)
	}

	var payload cartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("cart: malformed stored cart, treating as empty")
		return nil, nil
	}

	return payload.Cart, nil
}

// Save upserts the full cart keyed by session id.
func (c *APIClient) Save(ctx context.Context, sessionID string, cart *Cart) error {
	body, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart: failed to encode cart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(sessionID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cart: failed to build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cart: failed to save cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("cart: unexpected status %d saving cart", resp.StatusCode)
	}

	return nil
}

// Delete clears the persisted state for the session.
func (c *APIClient) Delete(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(sessionID), nil)
	if err != nil {
		return fmt.Errorf("cart: failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cart: failed to delete cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cart: unexpected status %d deleting cart", resp.StatusCode)
	}

	return nil
}
