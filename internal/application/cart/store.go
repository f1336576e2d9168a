// Package cart mantiene el carrito de la identidad activa de un dispositivo y lo
// persiste en el almacenamiento local tras cada cambio.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/domain/repository"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// Store carrito de un dispositivo. Cada identidad (invitado o usuario) tiene su propio slot.
type Store struct {
	mu       sync.Mutex
	kv       repository.KeyValueStore
	log      *logger.Logger
	identity entity.CartIdentity
	cart     entity.Cart
}

// NewStore construye el store para identity y carga su slot.
func NewStore(ctx context.Context, kv repository.KeyValueStore, identity entity.CartIdentity, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{kv: kv, log: log, identity: identity}
	s.cart = s.read(ctx, identity)
	return s
}

// Identity identidad dueña del carrito actual.
func (s *Store) Identity() entity.CartIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Snapshot copia del carrito actual.
func (s *Store) Snapshot() entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem agrega quantity unidades del producto (mínimo 1).
func (s *Store) AddItem(ctx context.Context, p entity.Product, quantity int) entity.Outcome {
	return s.mutate(ctx, func(c *entity.Cart) entity.Outcome { return c.Add(p, quantity) })
}

// RemoveItem elimina la línea del producto.
func (s *Store) RemoveItem(ctx context.Context, productID string) entity.Outcome {
	return s.mutate(ctx, func(c *entity.Cart) entity.Outcome { return c.Remove(productID) })
}

// SetQuantity fija la cantidad acotada a [1, stock].
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) entity.Outcome {
	return s.mutate(ctx, func(c *entity.Cart) entity.Outcome { return c.SetQuantity(productID, quantity) })
}

// IncrementQuantity suma 1 sin superar el stock.
func (s *Store) IncrementQuantity(ctx context.Context, productID string) entity.Outcome {
	return s.mutate(ctx, func(c *entity.Cart) entity.Outcome { return c.Increment(productID) })
}

// DecrementQuantity resta 1 sin bajar de 1.
func (s *Store) DecrementQuantity(ctx context.Context, productID string) entity.Outcome {
	return s.mutate(ctx, func(c *entity.Cart) entity.Outcome { return c.Decrement(productID) })
}

// Clear vacía el carrito y persiste el slot vacío.
func (s *Store) Clear(ctx context.Context) entity.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.cart.Clear()
	s.write(ctx, s.identity, s.cart)
	return out
}

// Load vuelve a leer el slot de la identidad actual.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.read(ctx, s.identity)
}

// SwitchIdentity cambia de identidad y carga su slot. El slot anterior queda persistido.
func (s *Store) SwitchIdentity(ctx context.Context, identity entity.CartIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity == s.identity {
		return
	}
	s.identity = identity
	s.cart = s.read(ctx, identity)
}

// TransferGuestCart fusiona el slot invitado en el carrito del usuario actual y borra
// el slot invitado. NoOp si la identidad es invitado o el slot invitado está vacío.
func (s *Store) TransferGuestCart(ctx context.Context) entity.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity.IsGuest() {
		return entity.NoOp
	}
	guest := entity.GuestIdentity()
	guestCart := s.read(ctx, guest)
	if guestCart.IsEmpty() {
		return entity.NoOp
	}
	s.cart.Merge(guestCart)
	s.write(ctx, s.identity, s.cart)
	if err := s.kv.Delete(ctx, guest.StorageKey()); err != nil {
		s.log.Warn().Err(err).Msg("carrito: borrar slot invitado")
	}
	s.log.Debug().
		Str("identity", s.identity.String()).
		Int("lines", len(guestCart.Items)).
		Msg("carrito: invitado transferido")
	return entity.Applied
}

func (s *Store) mutate(ctx context.Context, fn func(c *entity.Cart) entity.Outcome) entity.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := fn(&s.cart)
	if out == entity.Applied {
		s.write(ctx, s.identity, s.cart)
	}
	return out
}

// read devuelve el carrito persistido de identity; ausente o corrupto = carrito vacío.
// Los totales guardados se recalculan.
func (s *Store) read(ctx context.Context, identity entity.CartIdentity) entity.Cart {
	raw, err := s.kv.Get(ctx, identity.StorageKey())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("identity", identity.String()).Msg("carrito: leer slot")
		}
		return entity.NewCart()
	}
	c, err := decode(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("identity", identity.String()).Msg("carrito: slot corrupto, se usa carrito vacío")
		return entity.NewCart()
	}
	return c
}

func (s *Store) write(ctx context.Context, identity entity.CartIdentity, c entity.Cart) {
	raw, err := json.Marshal(c)
	if err == nil {
		err = s.kv.Set(ctx, identity.StorageKey(), raw)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("identity", identity.String()).Msg("carrito: persistir slot")
	}
}

func decode(raw []byte) (entity.Cart, error) {
	var c entity.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return entity.Cart{}, fmt.Errorf("%w: %v", domain.ErrCorruptedSnapshot, err)
	}
	c.Normalize()
	return c, nil
}
