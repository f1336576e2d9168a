// Package backend abre el almacenamiento clave-valor elegido por configuración.
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/electro-storefront/internal/domain/repository"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/postgres"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/redisstore"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/sqlite"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/storage"
	"github.com/jhoicas/electro-storefront/pkg/config"
)

// Backend almacenamiento abierto por Open; Close libera conexiones.
type Backend interface {
	repository.KeyValueStore
	io.Closer
}

// Open abre el driver indicado en cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return sqlite.Open(cfg.Storage.SQLitePath)
	case "postgres":
		s, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return s, nil
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisstore.NewKVStore(client, cfg.Storage.RedisTTL), nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}
