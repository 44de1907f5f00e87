package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TarcisoJNDev/upuniversestorege/internal/cart"
)

// fakeCartServer emulates the persistence endpoint with in-memory storage.
type fakeCartServer struct {
	mu    sync.Mutex
	carts map[string]json.RawMessage
}

func (f *fakeCartServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Path[len("/api/cart/"):]
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			stored, ok := f.carts[sessionID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success": true, "cart": ` + string(stored) + `}`))
		case http.MethodPost:
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.carts[sessionID] = body
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success": true}`))
		case http.MethodDelete:
			delete(f.carts, sessionID)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success": true}`))
		}
	})
	return mux
}

func TestAPIClient_RoundTrip(t *testing.T) {
	fake := &fakeCartServer{carts: make(map[string]json.RawMessage)}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := cart.NewAPIClient(server.URL + "/api")
	ctx := context.Background()

	saved := &cart.Cart{
		SessionID: "sess_rt",
		Items:     []cart.LineItem{{ID: 42, Name: "Miniatura Foguete", Price: 10, Quantity: 2}},
	}
	saved.CalculateTotals()

	require.NoError(t, client.Save(ctx, "sess_rt", saved))

	loaded, err := client.Load(ctx, "sess_rt")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Items, loaded.Items)
	assert.Equal(t, saved.Total, loaded.Total)
	assert.Equal(t, saved.Count, loaded.Count)

	require.NoError(t, client.Delete(ctx, "sess_rt"))

	gone, err := client.Load(ctx, "sess_rt")
	require.NoError(t, err)
	assert.Nil(t, gone, "deleted cart loads as absent")
}

func TestAPIClient_Load(t *testing.T) {
	t.Run("missing_cart_is_nil_not_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		loaded, err := cart.NewAPIClient(server.URL).Load(context.Background(), "sess_x")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("malformed_payload_treated_as_no_cart", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true, "cart": {"items": "not-an-array"`))
		}))
		defer server.Close()

		loaded, err := cart.NewAPIClient(server.URL).Load(context.Background(), "sess_x")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("server_error_propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := cart.NewAPIClient(server.URL).Load(context.Background(), "sess_x")
		assert.Error(t, err)
	})
}
