// Package config carga la configuración: defaults, luego YAML opcional, luego
// variables de entorno (tags `env`).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env" env:"APP_ENV"`
		LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
		Name     string `yaml:"name" env:"APP_NAME"`
	} `yaml:"app"`

	Server struct {
		Addr            string        `yaml:"addr" env:"SERVER_ADDR"`
		BasePath        string        `yaml:"base_path" env:"SERVER_BASE_PATH"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		// IPs o CIDRs de proxies cuyo X-Forwarded-For se acepta. Vacío = ninguno.
		TrustedProxies []string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
	} `yaml:"server"`

	Storage struct {
		// postgres | sqlite
		Driver       string `yaml:"driver" env:"STORAGE_DRIVER"`
		DSN          string `yaml:"dsn" env:"STORAGE_DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"STORAGE_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"STORAGE_MAX_IDLE_CONNS"`
		AutoMigrate  bool   `yaml:"auto_migrate" env:"STORAGE_AUTO_MIGRATE"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind   string `yaml:"kind" env:"CACHE_KIND"`
		Prefix string `yaml:"prefix" env:"CACHE_PREFIX"`
		Redis  struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
		KID    string `yaml:"kid" env:"JWT_KID"`
		// Seed Ed25519 (32 bytes, base64). Vacío = clave efímera (solo dev).
		SigningSeed string        `yaml:"signing_seed" env:"JWT_SIGNING_SEED"`
		AccessTTL   time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
		RefreshTTL  time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
		Leeway      time.Duration `yaml:"leeway" env:"JWT_LEEWAY"`
	} `yaml:"jwt"`

	Security struct {
		PasswordBlacklistPath string `yaml:"password_blacklist_path" env:"SECURITY_PASSWORD_BLACKLIST_PATH"`
		PasswordMinLength     int    `yaml:"password_min_length" env:"SECURITY_PASSWORD_MIN_LENGTH"`
		PasswordRequireUpper  bool   `yaml:"password_require_upper" env:"SECURITY_PASSWORD_REQUIRE_UPPER"`
		PasswordRequireLower  bool   `yaml:"password_require_lower" env:"SECURITY_PASSWORD_REQUIRE_LOWER"`
		PasswordRequireDigit  bool   `yaml:"password_require_digit" env:"SECURITY_PASSWORD_REQUIRE_DIGIT"`
		PasswordRequireSymbol bool   `yaml:"password_require_symbol" env:"SECURITY_PASSWORD_REQUIRE_SYMBOL"`
	} `yaml:"security"`

	Rate struct {
		Enabled bool `yaml:"enabled" env:"RATE_ENABLED"`
		Login   struct {
			Limit  int           `yaml:"limit" env:"RATE_LOGIN_LIMIT"`
			Window time.Duration `yaml:"window" env:"RATE_LOGIN_WINDOW"`
		} `yaml:"login"`
		Register struct {
			Limit  int           `yaml:"limit" env:"RATE_REGISTER_LIMIT"`
			Window time.Duration `yaml:"window" env:"RATE_REGISTER_WINDOW"`
		} `yaml:"register"`
	} `yaml:"rate"`

	Denylist struct {
		PruneInterval time.Duration `yaml:"prune_interval" env:"DENYLIST_PRUNE_INTERVAL"`
	} `yaml:"denylist"`

	Observability struct {
		MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
		OTELEnabled    bool   `yaml:"otel_enabled" env:"OTEL_ENABLED"`
		OTELEndpoint   string `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"`
	} `yaml:"observability"`
}

// Default devuelve la configuración de desarrollo: SQLite local, cache en
// memoria, TTLs de 15m/24h.
func Default() *Config {
	var c Config
	c.App.Env = "dev"
	c.App.LogLevel = "info"
	c.App.Name = "hellodiary"

	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 15 * time.Second

	c.Storage.Driver = "sqlite"
	c.Storage.DSN = "hellodiary.db"
	c.Storage.MaxOpenConns = 10
	c.Storage.MaxIdleConns = 5
	c.Storage.AutoMigrate = true

	c.Cache.Kind = "memory"
	c.Cache.Prefix = "hellodiary"
	c.Cache.Redis.Addr = "localhost:6379"

	c.JWT.Issuer = "hellodiary"
	c.JWT.KID = "hd-ed25519-1"
	c.JWT.AccessTTL = 15 * time.Minute
	c.JWT.RefreshTTL = 24 * time.Hour
	c.JWT.Leeway = 5 * time.Second

	c.Rate.Enabled = true
	c.Rate.Login.Limit = 10
	c.Rate.Login.Window = time.Minute
	c.Rate.Register.Limit = 5
	c.Rate.Register.Window = 10 * time.Minute

	c.Denylist.PruneInterval = time.Hour

	c.Observability.MetricsEnabled = true
	return &c
}

// Load aplica defaults, luego el YAML en path (si existe) y por último el
// entorno. Path vacío o inexistente = solo defaults + entorno.
func Load(path string) (*Config, error) {
	c := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) normalize() {
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Cache.Kind = strings.ToLower(strings.TrimSpace(c.Cache.Kind))

	bp := strings.TrimSpace(c.Server.BasePath)
	bp = strings.TrimRight(bp, "/")
	if bp != "" && !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	c.Server.BasePath = bp
}

// IsProd reporta si corre en producción.
func (c *Config) IsProd() bool { return c.App.Env == "prod" || c.App.Env == "production" }

// Validate verifica valores críticos.
func (c *Config) Validate() error {
	var errs []error

	for _, p := range c.Server.TrustedProxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var err error
		if strings.Contains(p, "/") {
			_, err = netip.ParsePrefix(p)
		} else {
			_, err = netip.ParseAddr(p)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: invalid %q", p))
		}
	}

	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q (postgres|sqlite)", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn: required"))
	}

	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown %q (memory|redis)", c.Cache.Kind))
	}

	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("jwt.access_ttl: must be > 0"))
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		errs = append(errs, errors.New("jwt.refresh_ttl: must be greater than access_ttl"))
	}
	if c.IsProd() && strings.TrimSpace(c.JWT.SigningSeed) == "" {
		errs = append(errs, errors.New("jwt.signing_seed: required in prod"))
	}

	if c.Rate.Enabled {
		if c.Rate.Login.Limit <= 0 || c.Rate.Login.Window <= 0 {
			errs = append(errs, errors.New("rate.login: limit and window must be > 0"))
		}
		if c.Rate.Register.Limit <= 0 || c.Rate.Register.Window <= 0 {
			errs = append(errs, errors.New("rate.register: limit and window must be > 0"))
		}
	}

	if c.Observability.OTELEnabled && strings.TrimSpace(c.Observability.OTELEndpoint) == "" {
		errs = append(errs, errors.New("observability.otel_endpoint: required when otel is enabled"))
	}

	return errors.Join(errs...)
}
