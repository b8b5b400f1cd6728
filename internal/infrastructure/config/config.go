package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Tenant    TenantConfig
	Backend   BackendConfig
	Session   SessionConfig
	Redis     RedisConfig
	Storage   StorageConfig
	SRI       SRIConfig
	Printing  PrintingConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxUploadSize   int64
	LoginRateLimit  float64 // login attempts per second per client
	LoginRateBurst  int
	TrustedProxies  []string
	HSTSEnabled     bool
}

// TenantConfig controls how the tenant is derived from the request
type TenantConfig struct {
	BaseDomain    string   // e.g. "facturas.ec"; "acme.facturas.ec" -> tenant "acme"
	ReservedNames []string // subdomains that always resolve to the public site
	HeaderEnabled bool     // trust X-Tenant (behind a proxy or in development)
	CookieEnabled bool     // fall back to the tenant cookie on hosts outside BaseDomain
	CookieName    string
}

// BackendConfig holds settings for the remote REST API
type BackendConfig struct {
	BaseURL            string
	APIPrefix          string
	Timeout            time.Duration
	DownloadTimeout    time.Duration
	MaxDownloadSize    int64 // bytes accepted for one XML, PDF or Excel file
	BreakerThreshold   int
	BreakerOpenTimeout time.Duration
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   string // strict, lax, none
	Store      string // memory, redis
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// StorageConfig holds object storage settings for the document archive
type StorageConfig struct {
	Driver    string // memory, s3, none
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
}

// SRIConfig holds tax-authority related UI settings
type SRIConfig struct {
	PollInterval time.Duration // how often a pending document's status is re-fetched
	IVACodes     []string      // accepted IVA percentage codes for products
}

// PrintingConfig holds report PDF rendering settings
type PrintingConfig struct {
	Enabled   bool
	RemoteURL string // remote Chrome DevTools endpoint, empty launches a local browser
	NoSandbox bool
	Timeout   time.Duration
	MaxTabs   int // reports printed concurrently
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	LogsEnabled       bool
	ProfilingEnabled  bool
	PyroscopeURL      string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DASH_ prefix (e.g., DASH_BACKEND_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			MaxUploadSize:   v.GetInt64("http.max_upload_size"),
			LoginRateLimit:  v.GetFloat64("http.login_rate_limit"),
			LoginRateBurst:  v.GetInt("http.login_rate_burst"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
			HSTSEnabled:     v.GetBool("http.hsts_enabled"),
		},
		Tenant: TenantConfig{
			BaseDomain:    v.GetString("tenant.base_domain"),
			ReservedNames: v.GetStringSlice("tenant.reserved_names"),
			HeaderEnabled: v.GetBool("tenant.header_enabled"),
			CookieEnabled: v.GetBool("tenant.cookie_enabled"),
			CookieName:    v.GetString("tenant.cookie_name"),
		},
		Backend: BackendConfig{
			BaseURL:            v.GetString("backend.base_url"),
			APIPrefix:          v.GetString("backend.api_prefix"),
			Timeout:            v.GetDuration("backend.timeout"),
			DownloadTimeout:    v.GetDuration("backend.download_timeout"),
			MaxDownloadSize:    v.GetInt64("backend.max_download_size"),
			BreakerThreshold:   v.GetInt("backend.breaker_threshold"),
			BreakerOpenTimeout: v.GetDuration("backend.breaker_open_timeout"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("session.secret"),
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Secure:     v.GetBool("session.secure"),
			SameSite:   v.GetString("session.same_site"),
			Store:      v.GetString("session.store"),
		},
		Redis: RedisConfig{
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Storage: StorageConfig{
			Driver:    v.GetString("storage.driver"),
			Endpoint:  v.GetString("storage.endpoint"),
			Region:    v.GetString("storage.region"),
			Bucket:    v.GetString("storage.bucket"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			UseSSL:    v.GetBool("storage.use_ssl"),
			PathStyle: v.GetBool("storage.path_style"),
		},
		SRI: SRIConfig{
			PollInterval: v.GetDuration("sri.poll_interval"),
			IVACodes:     v.GetStringSlice("sri.iva_codes"),
		},
		Printing: PrintingConfig{
			Enabled:   v.GetBool("printing.enabled"),
			RemoteURL: v.GetString("printing.remote_url"),
			NoSandbox: v.GetBool("printing.no_sandbox"),
			Timeout:   v.GetDuration("printing.timeout"),
			MaxTabs:   v.GetInt("printing.max_tabs"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeURL:      v.GetString("telemetry.pyroscope_url"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "facturacion-dashboard"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second // report PDFs take a while
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 5 << 20
	}
	if cfg.HTTP.LoginRateLimit == 0 {
		cfg.HTTP.LoginRateLimit = 0.2 // one attempt every 5s sustained
	}
	if cfg.HTTP.LoginRateBurst == 0 {
		cfg.HTTP.LoginRateBurst = 5
	}
	if cfg.Tenant.BaseDomain == "" {
		cfg.Tenant.BaseDomain = "localhost"
	}
	if len(cfg.Tenant.ReservedNames) == 0 {
		cfg.Tenant.ReservedNames = []string{"www", "app", "api", "admin", "static"}
	}
	if cfg.Tenant.CookieName == "" {
		cfg.Tenant.CookieName = "tenant"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080"
	}
	if cfg.Backend.APIPrefix == "" {
		cfg.Backend.APIPrefix = "/api/v1"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Backend.DownloadTimeout == 0 {
		cfg.Backend.DownloadTimeout = 60 * time.Second
	}
	if cfg.Backend.MaxDownloadSize == 0 {
		cfg.Backend.MaxDownloadSize = 256 << 20
	}
	if cfg.Backend.BreakerThreshold == 0 {
		cfg.Backend.BreakerThreshold = 5
	}
	if cfg.Backend.BreakerOpenTimeout == 0 {
		cfg.Backend.BreakerOpenTimeout = 30 * time.Second
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "dash_session"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 8 * time.Hour
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = "lax"
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "dash:session:"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.SRI.PollInterval == 0 {
		cfg.SRI.PollInterval = 10 * time.Second
	}
	if len(cfg.SRI.IVACodes) == 0 {
		cfg.SRI.IVACodes = []string{"0", "2", "3", "4", "5", "6", "7", "8", "10"}
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "facturacion-dashboard"
	}
	if cfg.Telemetry.PyroscopeURL == "" {
		cfg.Telemetry.PyroscopeURL = "http://localhost:4040"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be 'memory' or 'redis', got %q", c.Session.Store)
	}

	switch c.Storage.Driver {
	case "none", "memory":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage.driver is 's3'")
		}
	default:
		return fmt.Errorf("storage.driver must be 'none', 'memory' or 's3', got %q", c.Storage.Driver)
	}

	switch c.Session.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("session.same_site must be strict, lax or none, got %q", c.Session.SameSite)
	}
	if c.Session.SameSite == "none" && !c.Session.Secure {
		return fmt.Errorf("session.same_site=none requires session.secure=true")
	}

	if c.SRI.PollInterval < time.Second {
		return fmt.Errorf("sri.poll_interval must be at least 1s, got %s", c.SRI.PollInterval)
	}

	if c.Printing.MaxTabs < 0 {
		return fmt.Errorf("printing.max_tabs must not be negative, got %d", c.Printing.MaxTabs)
	}

	if c.App.Env == "production" {
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production (HTTPS required for secure cookies)")
		}
		if c.Tenant.BaseDomain == "localhost" {
			return fmt.Errorf("tenant.base_domain must be set in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionSecret returns the configured secret, or a fixed development secret
// outside production. validate() guarantees a real secret in production.
func (c *Config) SessionSecret() string {
	if c.Session.Secret != "" {
		return c.Session.Secret
	}
	return "development-only-session-secret-change-me"
}
