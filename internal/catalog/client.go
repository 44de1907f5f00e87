package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

const fallbackImageURL = "https://images.unsplash.com/photo-1571330735066-03aaa9429d89?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"

// Client reads product representations from the storefront API. Failures
// are returned to the caller and surfaced as non-fatal "could not load"
// states; they must never corrupt cart state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type productResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
}

type productListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
}

// ProductByID fetches one product's current representation. A 404 maps to
// ErrProductNotFound; other failures come back wrapped as transient errors.
func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	endpoint := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status %d fetching product %d", resp.StatusCode, id)
	}

	var payload productResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode product %d: %w", id, err)
	}
	if payload.Product == nil {
		return nil, ErrProductNotFound
	}

	payload.Product.ImageURL = c.ImageURL(payload.Product.ImageURL)
	return payload.Product, nil
}

// Products lists products matching the filter. Used by recommendation
// panels; not invariant-critical to the cart itself.
func (c *Client) Products(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Featured {
		query.Set("featured", "true")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	endpoint := c.baseURL + "/products"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status %d fetching products", resp.StatusCode)
	}

	var payload productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode products: %w", err)
	}

	for i := range payload.Products {
		payload.Products[i].ImageURL = c.ImageURL(payload.Products[i].ImageURL)
	}
	return payload.Products, nil
}

// ImageURL normalizes the image path the API stores: absolute URLs pass
// through, rooted paths get the API host, bare filenames live under
// /uploads/, and an empty path falls back to a placeholder.
func (c *Client) ImageURL(imagePath string) string {
	switch {
	case imagePath == "":
		return fallbackImageURL
	case strings.HasPrefix(imagePath, "http"):
		return imagePath
	case strings.HasPrefix(imagePath, "/"):
		return c.host() + imagePath
	default:
		return c.host() + "/uploads/" + imagePath
	}
}

func (c *Client) host() string {
	parsed, err := url.Parse(c.baseURL)
	if err != nil || parsed.Host == "" {
		return c.baseURL
	}
	return parsed.Scheme + "://" + parsed.Host
}
