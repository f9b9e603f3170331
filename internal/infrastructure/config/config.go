// Package config loads server settings from config.toml and ERP_ prefixed
// environment variables, environment first.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing secret; production refuses it.
const DefaultJWTSecret = "dev-secret-do-not-use-in-production"

// Config is the full server configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Numbering NumberingConfig `mapstructure:"numbering"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Port    string `mapstructure:"port"`
	Version string `mapstructure:"version"`
}

// DatabaseConfig selects postgres (Host..SSLMode) or sqlite (Path)
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	Path            string `mapstructure:"path"` // ":memory:" allowed
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig holds JWT validation settings. Tokens are issued elsewhere.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	// HSTSMaxAge enables Strict-Transport-Security when positive
	HSTSMaxAge time.Duration `mapstructure:"hsts_max_age"`
	// CORSOrigins lists allowed browser origins; empty rejects cross-origin calls
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type TelemetryConfig struct {
	Enabled           bool            `mapstructure:"enabled"`
	MetricsEnabled    bool            `mapstructure:"metrics_enabled"`
	CollectorEndpoint string          `mapstructure:"collector_endpoint"`
	SamplingRatio     float64         `mapstructure:"sampling_ratio"`
	ExportInterval    time.Duration   `mapstructure:"export_interval"`
	ServiceName       string          `mapstructure:"service_name"` // empty: app.name
	Insecure          bool            `mapstructure:"insecure"`
	LogsEnabled       bool            `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool            `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool            `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration   `mapstructure:"db_slow_query_threshold"`
	Profiling         ProfilingConfig `mapstructure:"profiling"`
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	ServerAddress string   `mapstructure:"server_address"`
	ProfileTypes  []string `mapstructure:"profile_types"`
	SpanProfiles  bool     `mapstructure:"span_profiles"`
	// RequestLabels tags request profiles with route, method and tenant
	RequestLabels bool `mapstructure:"request_labels"`
}

// NumberingConfig holds defaults applied to sequences created on first use.
type NumberingConfig struct {
	StartNumber    int64         `mapstructure:"start_number"`
	Padding        int           `mapstructure:"padding"`
	Separator      string        `mapstructure:"separator"`
	PrefixTemplate string        `mapstructure:"prefix_template"` // empty: per-document-type prefix followed by /{FY}
	SuffixTemplate string        `mapstructure:"suffix_template"`
	GuardTTL       time.Duration `mapstructure:"guard_ttl"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// defaults lists every key Load knows. A key missing here cannot be set
// from the environment, since viper only unmarshals keys it has seen.
var defaults = map[string]any{
	"app.name":    "erp-backoffice",
	"app.env":     "development",
	"app.port":    "8080",
	"app.version": "dev",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "erp",
	"database.sslmode":            "disable",
	"database.path":               "erp.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": DefaultJWTSecret,
	"jwt.issuer": "erp-backoffice",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":     15 * time.Second,
	"http.write_timeout":    15 * time.Second,
	"http.idle_timeout":     time.Minute,
	"http.max_header_bytes": 1 << 20,
	"http.max_body_size":    2 << 20,
	"http.idempotency_ttl":  24 * time.Hour,
	"http.trusted_proxies":  []string{},
	"http.hsts_max_age":     time.Duration(0),
	"http.cors_origins":     []string{},

	"telemetry.enabled":                  false,
	"telemetry.metrics_enabled":          false,
	"telemetry.collector_endpoint":       "localhost:4317",
	"telemetry.sampling_ratio":           1.0,
	"telemetry.export_interval":          time.Minute,
	"telemetry.service_name":             "",
	"telemetry.insecure":                 false,
	"telemetry.logs_enabled":             false,
	"telemetry.db_trace_enabled":         false,
	"telemetry.db_log_full_sql":          false,
	"telemetry.db_slow_query_threshold":  200 * time.Millisecond,
	"telemetry.profiling.enabled":        false,
	"telemetry.profiling.server_address": "",
	"telemetry.profiling.profile_types":  []string{"cpu", "alloc_space", "inuse_space"},
	"telemetry.profiling.span_profiles":  false,
	"telemetry.profiling.request_labels": false,

	"numbering.start_number":    1,
	"numbering.padding":         4,
	"numbering.separator":       "/",
	"numbering.prefix_template": "",
	"numbering.suffix_template": "",
	"numbering.guard_ttl":       5 * time.Second,
	"numbering.max_retries":     3,
}

// Load reads ./config.toml, ./config/config.toml or /etc/erp/config.toml
// when present, then applies ERP_ variables (ERP_DATABASE_PASSWORD sets
// database.password). Empty variables count as unset.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/erp")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.Driver == "postgres" || db.Driver == "sqlite",
		"database.driver must be postgres or sqlite, got %q", db.Driver)
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	n := c.Numbering
	check(n.StartNumber >= 0, "numbering.start_number cannot be negative")
	check(n.Padding >= 0 && n.Padding <= 12, "numbering.padding must be between 0 and 12, got %d", n.Padding)
	check(n.MaxRetries >= 0, "numbering.max_retries cannot be negative")

	t := c.Telemetry
	check(t.SamplingRatio >= 0 && t.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", t.SamplingRatio)
	check(!t.Profiling.Enabled || t.Profiling.ServerAddress != "",
		"telemetry.profiling.server_address is required when profiling is enabled")

	if c.IsProduction() {
		check(c.JWT.Secret != DefaultJWTSecret, "jwt.secret must be set in production")
		check(len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		check(db.Driver == "postgres", "database.driver must be postgres in production")
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		check(!t.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the app runs with env=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr returns host:port for the Redis client.
func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}
