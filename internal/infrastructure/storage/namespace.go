package storage

import (
	"context"

	"github.com/jhoicas/electro-storefront/internal/domain/repository"
)

var _ repository.KeyValueStore = (*NamespacedStore)(nil)

// NamespacedStore aísla las claves de un dispositivo dentro de un almacenamiento compartido.
type NamespacedStore struct {
	inner  repository.KeyValueStore
	prefix string
}

// Namespace antepone "device:<id>:" a cada clave.
func Namespace(inner repository.KeyValueStore, deviceID string) *NamespacedStore {
	return &NamespacedStore{inner: inner, prefix: "device:" + deviceID + ":"}
}

// Prefix prefijo aplicado a las claves.
func (s *NamespacedStore) Prefix() string { return s.prefix }

func (s *NamespacedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *NamespacedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *NamespacedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
