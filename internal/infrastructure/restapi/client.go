// Package restapi implementa los puertos del backend REST de la tienda sobre HTTP/JSON.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/pkg/config"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa StoreAPI.
var _ ports.StoreAPI = (*Client)(nil)

const maxResponseBytes = 4 << 20

// Client cliente del backend. El http.Client y el limitador se comparten entre
// dispositivos; el TokenSource es propio de cada uno (ver ForDevice).
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     ports.TokenSource
	log        *logger.Logger
}

// New construye el cliente con base <API_BASE_URL>/api y el timeout configurado.
// RateLimit <= 0 desactiva el límite de peticiones salientes.
func New(cfg config.APIConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.Endpoint(),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
	}
}

// ForDevice devuelve una copia del cliente que usa tokens para autenticar.
func (c *Client) ForDevice(tokens ports.TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// request describe una llamada al backend.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// credentialPaths endpoints donde un 401 significa credenciales inválidas, no sesión vencida.
var credentialPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
}

// do ejecuta la petición y decodifica la respuesta 2xx en out (si no es nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &dto.APIError{Code: dto.CodeNetwork, Message: "petición cancelada", Err: err}
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("api: sin respuesta")
		msg := "no se pudo contactar al servidor"
		if ctx.Err() != nil || isTimeout(err) {
			msg = "tiempo de espera agotado"
		}
		return &dto.APIError{Code: dto.CodeNetwork, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &dto.APIError{Code: dto.CodeNetwork, Message: "respuesta incompleta", Err: err}
	}
	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(ctx, r, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &dto.APIError{
			Status:  resp.StatusCode,
			Code:    "INVALID_RESPONSE",
			Message: "respuesta inválida del servidor",
			Err:     fmt.Errorf("%w: %v", domain.ErrCorruptedSnapshot, err),
		}
	}
	return nil
}

// errorPayload cuerpo de error del backend: {message} o {error}.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) apiError(ctx context.Context, r request, status int, raw []byte) error {
	var p errorPayload
	_ = json.Unmarshal(raw, &p)
	msg := p.Message
	if msg == "" {
		msg = p.Error
	}
	apiErr := &dto.APIError{Status: status, Code: dto.CodeForStatus(status), Message: msg}

	switch status {
	case http.StatusUnauthorized:
		if credentialPaths[r.path] {
			apiErr.Err = domain.ErrUnauthorized
			break
		}
		apiErr.Err = domain.ErrSessionExpired
		if c.tokens != nil {
			c.tokens.Invalidate(ctx)
		}
	case http.StatusForbidden:
		apiErr.Err = domain.ErrForbidden
	case http.StatusNotFound:
		apiErr.Err = domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.Err = domain.ErrInvalidInput
	}
	c.log.Debug().Int("status", status).Str("path", r.path).Str("message", msg).Msg("api: error")
	return apiErr
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
