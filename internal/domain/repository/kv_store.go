package repository

import "context"

// Claves del almacenamiento local de un dispositivo. Las claves de carrito se derivan
// con entity.CartIdentity.StorageKey.
const (
	KeySessionToken = "session:token"
	KeySessionUser  = "session:user"
)

// KeyValueStore define el puerto del almacenamiento local persistente (DIP).
// Get devuelve domain.ErrNotFound si la clave no existe; Delete de una clave
// inexistente no es error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
