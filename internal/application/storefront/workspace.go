// Package storefront compone, por dispositivo, la sesión, el carrito y el cliente del
// backend sobre un mismo almacenamiento local.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/electro-storefront/internal/application/cart"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/application/session"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/domain/repository"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/storage"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// Verificar en tiempo de compilación que Workspace entrega el token al cliente HTTP.
var _ ports.TokenSource = (*Workspace)(nil)

// APIFactory construye el cliente del backend autenticado con tokens.
type APIFactory func(tokens ports.TokenSource) ports.StoreAPI

// Deps dependencias compartidas por todos los dispositivos.
type Deps struct {
	KV  repository.KeyValueStore
	API APIFactory
	Log *logger.Logger
}

// Workspace estado de un dispositivo: sesión, carrito y cliente del backend.
// No es seguro para uso concurrente entre operaciones; ver Locker.
type Workspace struct {
	deviceID string
	kv       repository.KeyValueStore
	log      *logger.Logger
	api      ports.StoreAPI
	session  *session.Store
	cart     *cart.Store
}

// Open hidrata el Workspace del dispositivo desde su espacio de claves.
func Open(ctx context.Context, deps Deps, deviceID string) (*Workspace, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("storefront: device id vacío: %w", domain.ErrInvalidInput)
	}
	if deps.KV == nil || deps.API == nil {
		return nil, errors.New("storefront: KV y API son requeridos")
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithStr("device", deviceID)

	w := &Workspace{deviceID: deviceID, kv: storage.Namespace(deps.KV, deviceID), log: log}
	w.session = session.NewStore(ctx, w.kv, nil, log)
	w.api = deps.API(w)
	w.session.SetAPI(w.api)
	w.cart = cart.NewStore(ctx, w.kv, w.session.Identity(), log)
	return w, nil
}

// DeviceID id del dispositivo.
func (w *Workspace) DeviceID() string { return w.deviceID }

// API cliente del backend autenticado con la sesión del dispositivo.
func (w *Workspace) API() ports.StoreAPI { return w.api }

// Session copia de la sesión.
func (w *Workspace) Session() entity.Session { return w.session.Snapshot() }

// IsAuthenticated indica si hay sesión.
func (w *Workspace) IsAuthenticated() bool { return w.session.IsAuthenticated() }

// Cart copia del carrito de la identidad activa.
func (w *Workspace) Cart() entity.Cart { return w.cart.Snapshot() }

// CartIdentity identidad dueña del carrito activo.
func (w *Workspace) CartIdentity() entity.CartIdentity { return w.cart.Identity() }

// Token implementa ports.TokenSource.
func (w *Workspace) Token() string { return w.session.Token() }

// Invalidate implementa ports.TokenSource: el backend rechazó el token, se cierra la
// sesión y el carrito vuelve al invitado.
func (w *Workspace) Invalidate(ctx context.Context) {
	w.session.Invalidate(ctx)
	w.cart.SwitchIdentity(ctx, entity.GuestIdentity())
}

// ── Sesión ────────────────────────────────────────────────────────────────────

// Register crea la cuenta; si inicia sesión, el carrito invitado pasa al usuario.
func (w *Workspace) Register(ctx context.Context, in dto.RegisterRequest) (entity.Session, error) {
	s, err := w.session.Register(ctx, in)
	if err != nil {
		return s, err
	}
	w.adoptSession(ctx, s)
	return s, nil
}

// Login autentica; el carrito invitado se fusiona en el del usuario.
func (w *Workspace) Login(ctx context.Context, in dto.LoginRequest) (entity.Session, error) {
	s, err := w.session.Login(ctx, in)
	if err != nil {
		return s, err
	}
	w.adoptSession(ctx, s)
	return s, nil
}

// adoptSession activa el carrito del usuario y le transfiere el carrito invitado.
func (w *Workspace) adoptSession(ctx context.Context, s entity.Session) {
	if !s.IsAuthenticated() {
		return
	}
	w.cart.SwitchIdentity(ctx, s.Identity())
	if w.cart.TransferGuestCart(ctx) == entity.Applied {
		w.log.Info().Str("user_id", s.User.ID).Msg("carrito invitado transferido")
	}
}

// Logout cierra la sesión; el carrito del usuario queda guardado y se activa el invitado.
func (w *Workspace) Logout(ctx context.Context) {
	w.session.Logout(ctx)
	w.cart.SwitchIdentity(ctx, entity.GuestIdentity())
}

// UpdateProfile actualiza los datos del usuario.
func (w *Workspace) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (entity.Session, error) {
	return w.session.UpdateProfile(ctx, in)
}

// UpdatePassword cambia la contraseña.
func (w *Workspace) UpdatePassword(ctx context.Context, in dto.UpdatePasswordRequest) (entity.Session, error) {
	return w.session.UpdatePassword(ctx, in)
}

// ClearError limpia el error de la sesión.
func (w *Workspace) ClearError() { w.session.ClearError() }

// ── Carrito ───────────────────────────────────────────────────────────────────

// AddItem consulta el producto y lo agrega; un producto sin stock no se agrega.
func (w *Workspace) AddItem(ctx context.Context, productID string, quantity int) (entity.Outcome, error) {
	p, err := w.api.GetProduct(ctx, productID)
	if err != nil {
		return entity.NoOp, err
	}
	return w.AddProduct(ctx, *p, quantity)
}

// AddProduct agrega un producto ya consultado.
func (w *Workspace) AddProduct(ctx context.Context, p entity.Product, quantity int) (entity.Outcome, error) {
	if !p.InStock() {
		return entity.NoOp, domain.ErrOutOfStock
	}
	return w.cart.AddItem(ctx, p, quantity), nil
}

func (w *Workspace) RemoveItem(ctx context.Context, productID string) entity.Outcome {
	return w.cart.RemoveItem(ctx, productID)
}

func (w *Workspace) SetQuantity(ctx context.Context, productID string, quantity int) entity.Outcome {
	return w.cart.SetQuantity(ctx, productID, quantity)
}

func (w *Workspace) IncrementQuantity(ctx context.Context, productID string) entity.Outcome {
	return w.cart.IncrementQuantity(ctx, productID)
}

func (w *Workspace) DecrementQuantity(ctx context.Context, productID string) entity.Outcome {
	return w.cart.DecrementQuantity(ctx, productID)
}

func (w *Workspace) ClearCart(ctx context.Context) entity.Outcome {
	return w.cart.Clear(ctx)
}

// ReloadCart vuelve a leer el carrito desde el almacenamiento.
func (w *Workspace) ReloadCart(ctx context.Context) { w.cart.Load(ctx) }

// Close libera el Workspace. El estado ya está persistido tras cada operación.
func (w *Workspace) Close() error {
	w.log.Debug().Msg("workspace cerrado")
	return nil
}
