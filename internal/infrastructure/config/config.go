package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Messaging MessagingConfig
	Jobs      JobsConfig
	Swagger   SwaggerConfig
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

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int           // requests allowed per window per client
	RateLimitWindow   time.Duration // refill window
	RateLimitBurst    int
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// StorageConfig holds S3-compatible object storage settings for attachments.
// An empty Bucket selects the in-memory development backend.
type StorageConfig struct {
	Bucket            string
	AccessKey         string
	SecretKey         string
	Endpoint          string
	Region            string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
	PublicBaseURL     string // base URL of the in-memory backend
}

// Enabled reports whether a real bucket is configured
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// MessagingConfig holds attachment limits and realtime hub settings
type MessagingConfig struct {
	AttachmentMaxSize   int64
	UploadURLExpiry     time.Duration
	DownloadURLExpiry   time.Duration
	HubSendBuffer       int           // outbound frames queued per connection
	HubWriteTimeout     time.Duration // per-frame write deadline
	HubPongTimeout      time.Duration
	HubPingInterval     time.Duration // must be shorter than HubPongTimeout
	HubMaxFrameSize     int64
	TrackerTTL          time.Duration // Redis tracker key expiry, refreshed on activity
	AllowedOrigins      []string      // websocket origins; empty allows same-host only
	UseRedisTracker     bool
	TrackerKeyNamespace string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	Enabled       bool
	Timezone      string
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	MaturitySpec  string // cron spec of the fixed deposit maturity job
	MaturityBatch int
	StopTimeout   time.Duration
	RecordJobRuns bool
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool     // Whether to enable Swagger endpoint
	RequireAuth bool     // Require authentication to access Swagger
	AllowedIPs  []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only, disable in prod for security)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
	// Continuous profiling
	ProfilingEnabled bool
	PyroscopeURL     string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ERP_ prefix (e.g., ERP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/erp")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// booleans whose default is true must be seeded before reading
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.record_job_runs", true)
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("swagger.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			RateLimitBurst:    v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
			PublicBaseURL:     v.GetString("storage.public_base_url"),
		},
		Messaging: MessagingConfig{
			AttachmentMaxSize:   v.GetInt64("messaging.attachment_max_size"),
			UploadURLExpiry:     v.GetDuration("messaging.upload_url_expiry"),
			DownloadURLExpiry:   v.GetDuration("messaging.download_url_expiry"),
			HubSendBuffer:       v.GetInt("messaging.hub_send_buffer"),
			HubWriteTimeout:     v.GetDuration("messaging.hub_write_timeout"),
			HubPongTimeout:      v.GetDuration("messaging.hub_pong_timeout"),
			HubPingInterval:     v.GetDuration("messaging.hub_ping_interval"),
			HubMaxFrameSize:     v.GetInt64("messaging.hub_max_frame_size"),
			TrackerTTL:          v.GetDuration("messaging.tracker_ttl"),
			AllowedOrigins:      v.GetStringSlice("messaging.allowed_origins"),
			UseRedisTracker:     v.GetBool("messaging.use_redis_tracker"),
			TrackerKeyNamespace: v.GetString("messaging.tracker_key_namespace"),
		},
		Jobs: JobsConfig{
			Enabled:       v.GetBool("jobs.enabled"),
			Timezone:      v.GetString("jobs.timezone"),
			JobTimeout:    v.GetDuration("jobs.job_timeout"),
			RetryAttempts: v.GetInt("jobs.retry_attempts"),
			RetryDelay:    v.GetDuration("jobs.retry_delay"),
			MaturitySpec:  v.GetString("jobs.maturity_spec"),
			MaturityBatch: v.GetInt("jobs.maturity_batch"),
			StopTimeout:   v.GetDuration("jobs.stop_timeout"),
			RecordJobRuns: v.GetBool("jobs.record_job_runs"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
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
		cfg.App.Name = "lobapi"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "erp"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host != "" && cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "lobapi"
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
	applyHTTPDefaults(&cfg.HTTP)
	applyMessagingDefaults(&cfg.Messaging)
	applyJobsDefaults(&cfg.Jobs)

	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.PyroscopeURL == "" {
		cfg.Telemetry.PyroscopeURL = "http://localhost:4040"
	}
}

func applyHTTPDefaults(h *HTTPConfig) {
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 15 * time.Second
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 30 * time.Second
	}
	if h.MaxHeaderBytes == 0 {
		h.MaxHeaderBytes = 1 << 20
	}
	if h.MaxBodySize == 0 {
		h.MaxBodySize = 10 << 20
	}
	if h.RateLimitRequests == 0 {
		h.RateLimitRequests = 100
	}
	if h.RateLimitWindow == 0 {
		h.RateLimitWindow = time.Minute
	}
	if h.RateLimitBurst == 0 {
		h.RateLimitBurst = 20
	}
	// CORS origins have no wildcard fallback; cross-origin access must be configured explicitly.
	if len(h.CORSAllowMethods) == 0 {
		h.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(h.CORSAllowHeaders) == 0 {
		h.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
}

func applyMessagingDefaults(m *MessagingConfig) {
	if m.AttachmentMaxSize == 0 {
		m.AttachmentMaxSize = 25 << 20
	}
	if m.UploadURLExpiry == 0 {
		m.UploadURLExpiry = 15 * time.Minute
	}
	if m.DownloadURLExpiry == 0 {
		m.DownloadURLExpiry = time.Hour
	}
	if m.HubSendBuffer == 0 {
		m.HubSendBuffer = 64
	}
	if m.HubWriteTimeout == 0 {
		m.HubWriteTimeout = 10 * time.Second
	}
	if m.HubPongTimeout == 0 {
		m.HubPongTimeout = 60 * time.Second
	}
	if m.HubPingInterval == 0 {
		m.HubPingInterval = m.HubPongTimeout * 9 / 10
	}
	if m.HubMaxFrameSize == 0 {
		m.HubMaxFrameSize = 64 << 10
	}
	if m.TrackerTTL == 0 {
		m.TrackerTTL = 2 * time.Minute
	}
	if m.TrackerKeyNamespace == "" {
		m.TrackerKeyNamespace = "messaging:connections"
	}
}

func applyJobsDefaults(j *JobsConfig) {
	if j.Timezone == "" {
		j.Timezone = "UTC"
	}
	if j.JobTimeout == 0 {
		j.JobTimeout = 30 * time.Minute
	}
	if j.RetryAttempts == 0 {
		j.RetryAttempts = 2
	}
	if j.RetryDelay == 0 {
		j.RetryDelay = time.Minute
	}
	if j.MaturitySpec == "" {
		j.MaturitySpec = "0 2 * * *"
	}
	if j.MaturityBatch == 0 {
		j.MaturityBatch = 100
	}
	if j.StopTimeout == 0 {
		j.StopTimeout = 30 * time.Second
	}
}

// Location resolves the jobs timezone
func (j JobsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(j.Timezone)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Messaging.HubPingInterval >= c.Messaging.HubPongTimeout {
		return fmt.Errorf("messaging.hub_ping_interval (%s) must be shorter than messaging.hub_pong_timeout (%s)",
			c.Messaging.HubPingInterval, c.Messaging.HubPongTimeout)
	}
	if c.Messaging.AttachmentMaxSize < 0 {
		return fmt.Errorf("messaging.attachment_max_size cannot be negative")
	}
	if c.Messaging.UseRedisTracker && c.Redis.Host == "" {
		return fmt.Errorf("messaging.use_redis_tracker requires redis.host")
	}

	if _, err := cron.ParseStandard(c.Jobs.MaturitySpec); err != nil {
		return fmt.Errorf("jobs.maturity_spec %q is invalid: %w", c.Jobs.MaturitySpec, err)
	}
	if _, err := c.Jobs.Location(); err != nil {
		return fmt.Errorf("jobs.timezone %q is invalid: %w", c.Jobs.Timezone, err)
	}
	if c.Jobs.RetryAttempts < 0 {
		return fmt.Errorf("jobs.retry_attempts cannot be negative")
	}

	if c.Storage.Enabled() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("storage.access_key and storage.secret_key are required when storage.bucket is set")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if !c.Storage.Enabled() {
			return fmt.Errorf("storage.bucket is required in production")
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
