package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeTokens struct {
	token       string
	invalidated atomic.Int32
}

func (f *fakeTokens) Token() string { return f.token }

func (f *fakeTokens) Invalidate(context.Context) {
	f.invalidated.Add(1)
	f.token = ""
}

func newTestClient(t *testing.T, h http.Handler, tokens ports.TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	return c.ForDevice(tokens)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fase de petición
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_AdjuntaBearerYPrefijoAPI(t *testing.T) {
	var gotAuth, gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, 200, map[string]any{"success": true, "user": map[string]any{"_id": "u1", "name": "Ada"}})
	})
	c := newTestClient(t, mux, &fakeTokens{token: "tok-123"})

	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/auth/me", gotPath)
}

func TestClient_SinTokenNoEnviaAuthorization(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, 200, map[string]any{"categories": []any{map[string]any{"_id": "c1", "name": "TVs"}}})
	})
	c := newTestClient(t, mux, &fakeTokens{})

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "c1", cats[0].ID)
	assert.Empty(t, gotAuth)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fase de respuesta: errores
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_401CierraSesion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"success": false, "message": "Token expired"})
	})
	tokens := &fakeTokens{token: "stale"}
	c := newTestClient(t, mux, tokens)

	_, err := c.ListOrders(context.Background(), dto.OrderFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSessionExpired))
	apiErr, ok := dto.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Token expired", apiErr.Message)
	assert.EqualValues(t, 1, tokens.invalidated.Load())
}

func TestClient_401EnLoginNoCierraSesion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "Invalid credentials"})
	})
	tokens := &fakeTokens{token: "still-valid"}
	c := newTestClient(t, mux, tokens)

	_, err := c.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "bad"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualValues(t, 0, tokens.invalidated.Load())
	assert.Equal(t, "still-valid", tokens.token)
}

func TestClient_MensajeDesdeCampoError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]any{"error": "Product not found"})
	})
	c := newTestClient(t, mux, &fakeTokens{})

	_, err := c.GetProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	apiErr, _ := dto.AsAPIError(err)
	assert.Equal(t, "Product not found", apiErr.Message)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClient_ErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tokens := &fakeTokens{token: "tok"}
	c := New(config.APIConfig{BaseURL: url, Timeout: time.Second}, logger.Nop()).ForDevice(tokens)

	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	apiErr, ok := dto.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNetwork())
	assert.Equal(t, dto.CodeNetwork, apiErr.Code)
	assert.EqualValues(t, 0, tokens.invalidated.Load(), "un fallo de red no toca la sesión")
}

func TestClient_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := New(config.APIConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, logger.Nop())

	_, err := c.ListCategories(context.Background())
	apiErr, ok := dto.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, dto.CodeNetwork, apiErr.Code)
	assert.Equal(t, "tiempo de espera agotado", apiErr.Message)
}

func TestClient_RespuestaNoJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})
	c := newTestClient(t, mux, &fakeTokens{})

	_, err := c.ListCategories(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptedSnapshot)
}

// ──────────────────────────────────────────────────────────────────────────────
// Endpoints
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_AceptaAmbasFormas(t *testing.T) {
	var wrapped atomic.Bool
	wrapped.Store(true)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/updateprofile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		if wrapped.Load() {
			writeJSON(w, 200, map[string]any{"success": true, "user": map[string]any{"_id": "u1", "name": "Wrapped"}})
			return
		}
		writeJSON(w, 200, map[string]any{"_id": "u1", "name": "Bare"})
	})
	c := newTestClient(t, mux, &fakeTokens{token: "t"})

	u, err := c.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", u.Name)

	wrapped.Store(false)
	u, err = c.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bare", u.Name)
}

func TestListProducts_QueryYClaveData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Kitchen", r.URL.Query().Get("category"))
		assert.Equal(t, "price", r.URL.Query().Get("sort"))
		assert.Empty(t, r.URL.Query().Get("subcategory"))
		writeJSON(w, 200, map[string]any{"data": []any{
			map[string]any{"_id": "p1", "name": "Blender", "price": 15000, "stock": 3},
		}})
	})
	c := newTestClient(t, mux, &fakeTokens{})

	out, err := c.ListProducts(context.Background(), dto.ProductFilter{Category: "Kitchen", Sort: "price"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "15000", out.Items[0].Price.String())
}

func TestCreateOrder_EnviaIdempotencyKey(t *testing.T) {
	var key string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		var body dto.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, 201, map[string]any{"success": true, "order": map[string]any{
			"_id": "o1", "orderNumber": "ORD-1", "user": map[string]any{"_id": "u1", "name": "Ada"},
		}})
	})
	c := newTestClient(t, mux, &fakeTokens{token: "t"})

	o, err := c.CreateOrder(context.Background(), dto.CreateOrderRequest{PaymentMethod: "cash"}, "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "idem-1", key)
	assert.Equal(t, "ORD-1", o.OrderNumber)
	assert.Equal(t, "u1", o.Customer.ID)
}

func TestReplyMessage_DocumentoEnCampoMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contact/m1/reply", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true, "message": map[string]any{"_id": "m1", "status": "replied", "reply": "Hi"}})
	})
	mux.HandleFunc("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]any{"success": true, "message": "Message sent"})
	})
	c := newTestClient(t, mux, &fakeTokens{token: "t"})

	m, err := c.ReplyMessage(context.Background(), "m1", dto.ReplyMessageRequest{Reply: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "replied", m.Status)

	assert.NoError(t, c.SubmitContact(context.Background(), dto.ContactRequest{Name: "A"}))
}
