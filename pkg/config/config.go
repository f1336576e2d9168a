package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	API      APIConfig
	Storage  StorageConfig
	DB       DBConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP del storefront.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerPath string // ruta al swagger.json servido en /docs
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig configuración del cliente REST hacia el backend de la tienda.
type APIConfig struct {
	BaseURL   string        // sin el sufijo /api
	Timeout   time.Duration // timeout por petición
	RateLimit float64       // peticiones por segundo salientes
	RateBurst int
}

// Endpoint devuelve la URL base con el prefijo /api ya aplicado.
func (c APIConfig) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api"
}

// StorageConfig selecciona el almacenamiento clave-valor local de cada dispositivo.
type StorageConfig struct {
	Driver     string // memory, sqlite, postgres, redis
	SQLitePath string
	RedisURL   string
	RedisTTL   time.Duration // 0 = sin expiración
}

// DBConfig configuración de PostgreSQL (driver postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int // 0 = valor por defecto del pool
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// CheckoutConfig reglas de cotización del checkout.
type CheckoutConfig struct {
	FreeShippingThreshold decimal.Decimal // subtotal desde el cual el envío es gratis
	FlatShipping          decimal.Decimal
	TaxRate               decimal.Decimal // IVA, ej. 0.075
}

// SessionConfig opciones de la cookie de dispositivo.
type SessionConfig struct {
	DeviceCookie string
	CookieSecure bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, STORAGE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "electro-storefront"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 3000),
			SwaggerPath: getString(v, "SWAGGER_PATH", "./docs/swagger.json"),
		},
		API: APIConfig{
			BaseURL:   getString(v, "API_BASE_URL", "http://localhost:5000"),
			Timeout:   time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 30)) * time.Second,
			RateLimit: getFloat(v, "API_RATE_LIMIT", 20),
			RateBurst: getInt(v, "API_RATE_BURST", 40),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getString(v, "STORAGE_DRIVER", "sqlite")),
			SQLitePath: getString(v, "SQLITE_PATH", defaultSQLitePath()),
			RedisURL:   getString(v, "REDIS_URL", "redis://localhost:6379/0"),
			RedisTTL:   time.Duration(getInt(v, "REDIS_TTL_HOURS", 24*30)) * time.Hour,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "storefront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			MinConns:    getInt(v, "DB_MIN_CONNS", 1),
		},
		Checkout: CheckoutConfig{
			FreeShippingThreshold: getDecimal(v, "CHECKOUT_FREE_SHIPPING_THRESHOLD", "50000"),
			FlatShipping:          getDecimal(v, "CHECKOUT_FLAT_SHIPPING", "2000"),
			TaxRate:               getDecimal(v, "CHECKOUT_TAX_RATE", "0.075"),
		},
		Session: SessionConfig{
			DeviceCookie: getString(v, "DEVICE_COOKIE", "sf_device"),
			CookieSecure: getBool(v, "COOKIE_SECURE", false),
		},
	}

	switch cfg.Storage.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return nil, fmt.Errorf("config: STORAGE_DRIVER desconocido %q", cfg.Storage.Driver)
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("config: API_TIMEOUT_SECONDS debe ser positivo")
	}
	return cfg, nil
}

// defaultSQLitePath ubica el estado local del CLI en ~/.shopctl/state.db.
func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.db"
	}
	return filepath.Join(home, ".shopctl", "state.db")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(v.GetString(key), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDecimal(v *viper.Viper, key, def string) decimal.Decimal {
	raw := def
	if v.IsSet(key) {
		raw = v.GetString(key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.RequireFromString(def)
	}
	return d
}
