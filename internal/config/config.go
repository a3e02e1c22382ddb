package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env      string `yaml:"app_env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		BaseURL            string   `yaml:"base_url"` // externally-visible URL, used for the OIDC redirect_uri
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
		VenueTTL string `yaml:"venue_ttl"`
	} `yaml:"cache"`

	Keycloak struct {
		Authority string `yaml:"authority"` // e.g. https://keycloak.example.com/realms/dartsstats
		ClientID  string `yaml:"client_id"`
		// Scope pedido en /authorize. Debe incluir openid y el scope que mapea roles.
		Scope string `yaml:"scope"`
		// StateTTL acota la vida de los logins abandonados en el state store.
		StateTTL string `yaml:"state_ttl"`
		// JWTLeeway tolerancia de reloj al validar bearer tokens.
		JWTLeeway           string `yaml:"jwt_leeway"`
		JWKSRefreshInterval string `yaml:"jwks_refresh_interval"`
	} `yaml:"keycloak"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "1h"
	}
	if c.Cache.VenueTTL == "" {
		c.Cache.VenueTTL = "24h"
	}
	if c.Keycloak.Scope == "" {
		c.Keycloak.Scope = "openid profile email roles"
	}
	if c.Keycloak.StateTTL == "" {
		c.Keycloak.StateTTL = "10m"
	}
	if c.Keycloak.JWTLeeway == "" {
		c.Keycloak.JWTLeeway = "30s"
	}
	if c.Keycloak.JWKSRefreshInterval == "" {
		c.Keycloak.JWKSRefreshInterval = "1h"
	}

	// env overrides (secrets y deployment knobs)
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SERVER_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Kind = "redis"
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KEYCLOAK_AUTHORITY"); v != "" {
		c.Keycloak.Authority = v
	}
	if v := os.Getenv("KEYCLOAK_CLIENT_ID"); v != "" {
		c.Keycloak.ClientID = v
	}

	return &c, nil
}

// Duration parsea un string de duración con fallback.
func Duration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// EnvInt lee un entero desde una variable de entorno con fallback.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
