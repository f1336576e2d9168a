// Package fakeapi levanta en memoria el backend REST de la tienda para tests de
// integración: mismas rutas, envelopes y códigos que el backend real.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	pkgjwt "github.com/jhoicas/electro-storefront/pkg/jwt"
)

const issuer = "fakeapi"

// Locals del middleware de auth.
const (
	localUserID = "user_id"
	localRole   = "role"
)

// Request petición recibida, para asserts.
type Request struct {
	Method         string
	Path           string
	Authorization  string
	IdempotencyKey string
}

type account struct {
	user entity.User
	hash []byte
}

type injected struct {
	status  int
	message string
}

// Server backend falso. Los métodos Seed* y los accesores son seguros en concurrencia.
type Server struct {
	t   testing.TB
	srv *httptest.Server
	app *fiber.App

	mu          sync.Mutex
	secret      string
	tokenTTL    int
	accounts    map[string]*account // por id
	products    []entity.Product
	categories  []entity.Category
	orders      []entity.Order
	messages    []entity.ContactMessage
	idempotency map[string]string // Idempotency-Key -> id de pedido
	failures    map[string]injected
	lost        map[string]bool // la petición se procesa pero la respuesta se pierde
	requests    []Request
	orderSeq    int
}

// New arranca el servidor y lo cierra al terminar el test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		t:           t,
		secret:      uuid.NewString(),
		tokenTTL:    60,
		accounts:    map[string]*account{},
		idempotency: map[string]string{},
		failures:    map[string]injected{},
		lost:        map[string]bool{},
		orderSeq:    1000,
	}
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.routes()
	s.srv = httptest.NewServer(adaptor.FiberApp(s.app))
	t.Cleanup(s.srv.Close)
	return s
}

// URL base sin el sufijo /api (lo agrega el cliente).
func (s *Server) URL() string { return s.srv.URL }

// SetTokenTTL minutos de vida de los tokens emitidos (negativo = ya vencidos).
func (s *Server) SetTokenTTL(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = minutes
}

// RevokeTokens rota el secret: todo token emitido antes pasa a responder 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = uuid.NewString()
}

// FailNext hace que la próxima petición a method+path responda status con message.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = injected{status: status, message: message}
}

// LoseNextResponse procesa la próxima petición a method+path pero responde 504,
// como un proxy que corta la respuesta después de que el backend hizo el trabajo.
func (s *Server) LoseNextResponse(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost[method+" "+path] = true
}

// SeedUser registra un usuario con password en claro y devuelve su token.
func (s *Server) SeedUser(name, email, password string, role entity.Role) (entity.User, string) {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		s.t.Fatalf("fakeapi: bcrypt: %v", err)
	}
	u := entity.User{
		ID:        newObjectID(),
		Name:      name,
		Email:     strings.ToLower(email),
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.mu.Unlock()
	tok, err := s.issue(u)
	if err != nil {
		s.t.Fatalf("fakeapi: token: %v", err)
	}
	return u, tok
}

// SeedProduct agrega un producto; asigna id si viene vacío.
func (s *Server) SeedProduct(p entity.Product) entity.Product {
	if p.ID == "" {
		p.ID = newObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return p
}

// SeedCategory agrega una categoría activa.
func (s *Server) SeedCategory(c entity.Category) entity.Category {
	if c.ID == "" {
		c.ID = newObjectID()
	}
	c.IsActive = true
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
	return c
}

// SeedMessage agrega un mensaje de contacto sin leer.
func (s *Server) SeedMessage(m entity.ContactMessage) entity.ContactMessage {
	if m.ID == "" {
		m.ID = newObjectID()
	}
	if m.Status == "" {
		m.Status = entity.MessageUnread
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return m
}

// Product devuelve el producto guardado (para verificar stock).
func (s *Server) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.productIndex(id); i >= 0 {
		return s.products[i], true
	}
	return entity.Product{}, false
}

// Orders copia de los pedidos creados.
func (s *Server) Orders() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Requests copia de las peticiones recibidas.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests peticiones recibidas a method+path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) issue(u entity.User) (string, error) {
	s.mu.Lock()
	secret, ttl := s.secret, s.tokenTTL
	s.mu.Unlock()
	return pkgjwt.Generate(secret, u.ID, string(u.Role), issuer, ttl)
}

func (s *Server) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// ── Middlewares ───────────────────────────────────────────────────────────────

func (s *Server) record(c *fiber.Ctx) error {
	key := c.Method() + " " + c.Path()
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:         c.Method(),
		Path:           c.Path(),
		Authorization:  c.Get(fiber.HeaderAuthorization),
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	f, ok := s.failures[key]
	if ok {
		delete(s.failures, key)
	}
	lost := s.lost[key]
	delete(s.lost, key)
	s.mu.Unlock()
	if ok {
		return fail(c, f.status, f.message)
	}
	if lost {
		_ = c.Next()
		return fail(c, fiber.StatusGatewayTimeout, "Gateway Timeout")
	}
	return c.Next()
}

// protect valida el Bearer Token y carga user_id y role en Locals.
func (s *Server) protect(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return fail(c, fiber.StatusUnauthorized, "Not authorized, no token")
	}
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()
	userID, role, err := pkgjwt.Parse(secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Not authorized, token failed")
	}
	s.mu.Lock()
	acc, ok := s.accounts[userID]
	s.mu.Unlock()
	if !ok || !acc.user.IsActive {
		return fail(c, fiber.StatusUnauthorized, "Not authorized, user not found")
	}
	c.Locals(localUserID, userID)
	c.Locals(localRole, role)
	return c.Next()
}

func adminOnly(c *fiber.Ctx) error {
	if role, _ := c.Locals(localRole).(string); role != string(entity.RoleAdmin) {
		return fail(c, fiber.StatusForbidden, "Not authorized as an admin")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(localRole).(string)
	return role == string(entity.RoleAdmin)
}

// ── Helpers de respuesta ──────────────────────────────────────────────────────

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// doc serializa v renombrando "id" a "_id" como lo hace el backend (MongoDB).
func doc(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return v
	}
	if id, ok := m["id"]; ok {
		m["_id"] = id
		delete(m, "id")
	}
	return m
}

func docs[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, doc(it))
	}
	return out
}

func newObjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *Server) nextOrderNumber() string {
	s.orderSeq++
	return fmt.Sprintf("ORD-%d", s.orderSeq)
}
