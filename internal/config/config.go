package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	FileToken     FileTokenSettings     `yaml:"file_token"`
	Storage       StorageSettings       `yaml:"storage"`
	Email         EmailSettings         `yaml:"email"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
	RateLimit     RateLimitSettings     `yaml:"rate_limit"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Metrics       MetricsSettings       `yaml:"metrics"`
	Seed          SeedSettings          `yaml:"seed"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Name        string `yaml:"name" env:"APP_NAME" env-default:"photo-album-api"`
	Version     string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
	// BaseURL is the public address used to build password reset links.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"photo_album"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host              string        `yaml:"host" env:"SERVER_HOST"`
	Port              int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	FileStreamTimeout time.Duration `yaml:"file_stream_timeout" env:"SERVER_FILE_STREAM_TIMEOUT"`
	MaxUploadSize     int64         `yaml:"max_upload_size" env:"SERVER_MAX_UPLOAD_SIZE"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" env:"TRUST_PROXY_HEADERS"`
}

// JWTSettings contains session token settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"ACCESS_TOKEN_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"ACCESS_TOKEN_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// FileTokenSettings contains settings for signed file access URLs.
// Expiry of 0 issues tokens without an exp claim.
type FileTokenSettings struct {
	Secret  string        `yaml:"secret" env:"FILE_SERVE_SECRET_KEY"`
	Expiry  time.Duration `yaml:"expiry" env:"FILE_TOKEN_EXPIRY"`
	BaseURL string        `yaml:"base_url" env:"FILE_BASE_URL"`
}

// StorageSettings selects where album images are kept
type StorageSettings struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"local"`
	Root    string `yaml:"root" env:"STORAGE_ROOT" env-default:"./uploads"`

	S3Bucket       string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3Region       string `yaml:"s3_region" env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint     string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3AccessKey    string `yaml:"s3_access_key" env:"S3_ACCESS_KEY"`
	S3SecretKey    string `yaml:"s3_secret_key" env:"S3_SECRET_KEY"`
	S3UsePathStyle bool   `yaml:"s3_use_path_style" env:"S3_USE_PATH_STYLE"`
}

// EmailSettings contains outbound mail settings
type EmailSettings struct {
	Provider       string        `yaml:"provider" env:"EMAIL_PROVIDER" env-default:"log"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	FromAddress    string        `yaml:"from_address" env:"FROM_EMAIL_ADDRESS" env-default:"no-reply@photo-album.local"`
	FromName       string        `yaml:"from_name" env:"FROM_EMAIL_NAME" env-default:"Photo Album"`
	Timeout        time.Duration `yaml:"timeout" env:"EMAIL_TIMEOUT"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// RateLimitSettings limits credential endpoints per client IP
type RateLimitSettings struct {
	Enabled           bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `yaml:"requests_per_minute" env:"RATE_LIMIT_PER_MINUTE"`
	Burst             int  `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// PasswordResetSettings contains password reset housekeeping settings.
// The token lifetime itself is fixed at one hour.
type PasswordResetSettings struct {
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"PASSWORD_RESET_CLEANUP_INTERVAL"`
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

// SeedSettings controls the admin account seed
type SeedSettings struct {
	Admin         bool   `yaml:"admin" env:"SEED_ADMIN"`
	AdminEmail    string `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

// ConnectionString returns the driver specific data source name
func (dbs *DatabaseSettings) ConnectionString() string {
	switch strings.ToLower(dbs.Driver) {
	case constants.DriverMySQL:
		// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}
		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, dbs.SSLMode,
		)
	}
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment variables.
// Values from the file are overridden by the environment; remaining zero
// values are filled with defaults.
func Load(configPath string) (*AppConfig, error) {
	config := newDefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// newDefaultConfig presets the settings whose zero value is a valid choice,
// so an explicit false or 0 in the file or environment is kept.
func newDefaultConfig() *AppConfig {
	return &AppConfig{
		FileToken: FileTokenSettings{Expiry: constants.DefaultFileTokenExpiry},
		Logging:   LoggingSettings{RequestLog: true},
		RateLimit: RateLimitSettings{Enabled: true},
		Metrics:   MetricsSettings{Enabled: true},
	}
}

// setDefaults sets default values that depend on other settings
func setDefaults(config *AppConfig) {
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if config.Server.FileStreamTimeout == 0 {
		config.Server.FileStreamTimeout = constants.DefaultFileStreamTimeout
	}
	if config.Server.MaxUploadSize == 0 {
		config.Server.MaxUploadSize = constants.DefaultMaxUploadSize
	}

	if config.Database.Port == 0 && strings.ToLower(config.Database.Driver) == constants.DriverMySQL {
		config.Database.Port = 3306
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}
	if config.FileToken.BaseURL == "" {
		config.FileToken.BaseURL = config.App.BaseURL
	}
	config.FileToken.BaseURL = strings.TrimRight(config.FileToken.BaseURL, "/")
	config.App.BaseURL = strings.TrimRight(config.App.BaseURL, "/")

	if config.Storage.Root == "" {
		config.Storage.Root = constants.DefaultStorageRoot
	}

	if config.Email.Timeout == 0 {
		config.Email.Timeout = constants.DefaultEmailTimeout
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		if config.App.IsDevelopment() {
			config.Logging.Format = "console"
		} else {
			config.Logging.Format = constants.DefaultLogFormat
		}
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Lower hashing cost outside production
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	if config.RateLimit.RequestsPerMinute == 0 {
		config.RateLimit.RequestsPerMinute = constants.DefaultAuthRequestsPerMinute
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultAuthBurst
	}

	if config.PasswordReset.CleanupInterval == 0 {
		config.PasswordReset.CleanupInterval = constants.DBMaintenanceInterval
	}

	if config.Seed.AdminEmail == "" {
		config.Seed.AdminEmail = constants.DefaultAdminEmail
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	if config.App.IsProduction() {
		if config.JWT.Secret == "" || config.JWT.Secret == "changeme" {
			return fmt.Errorf("session token secret must be set in production")
		}
		if config.FileToken.Secret == "" || config.FileToken.Secret == "changeme" {
			return fmt.Errorf("file token secret must be set in production")
		}
	}

	// Outside production a missing secret is replaced by a random one for the process lifetime
	if config.JWT.Secret == "" {
		config.JWT.Secret = ephemeralSecret()
		log.Warn().Msg("ACCESS_TOKEN_SECRET not set, using an ephemeral secret")
	}
	if config.FileToken.Secret == "" {
		config.FileToken.Secret = ephemeralSecret()
		log.Warn().Msg("FILE_SERVE_SECRET_KEY not set, using an ephemeral secret")
	}
	if config.JWT.Secret == config.FileToken.Secret {
		return fmt.Errorf("session token secret and file token secret must differ")
	}
	if config.FileToken.Expiry < 0 {
		return fmt.Errorf("file token expiry must not be negative")
	}

	switch strings.ToLower(config.Database.Driver) {
	case constants.DriverPostgres, constants.DriverPgx, constants.DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}
	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	switch strings.ToLower(config.Storage.Backend) {
	case constants.StorageLocal:
	case constants.StorageS3:
		if config.Storage.S3Bucket == "" {
			return fmt.Errorf("s3 bucket must be set when storage backend is s3")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", config.Storage.Backend)
	}

	switch strings.ToLower(config.Email.Provider) {
	case constants.EmailProviderLog:
		// The log mailer writes reset links, which carry live tokens, to the log
		if config.App.IsProduction() {
			return fmt.Errorf("email provider %q is not allowed in production", config.Email.Provider)
		}
	case constants.EmailProviderSendGrid:
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY must be set when email provider is sendgrid")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", config.Email.Provider)
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

func ephemeralSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate secret: %v", err))
	}
	return hex.EncodeToString(b)
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("db_password", redact(config.Database.Password)).
		Str("session_secret", redact(config.JWT.Secret)).
		Str("file_secret", redact(config.FileToken.Secret)).
		Dur("file_token_expiry", config.FileToken.Expiry).
		Str("storage", config.Storage.Backend).
		Str("email_provider", config.Email.Provider).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return constants.LogRedactedValue
}
