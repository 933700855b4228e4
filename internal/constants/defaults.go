// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide sensible defaults for configuration settings, establish
// boundaries for resource usage, and define security parameters.
package constants

// Default Pagination Values define the parameters used for paginated album listings.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of albums per page when not specified.
	DefaultPageSize = 10

	// MaxPageSize is the maximum allowable page size.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 3000

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of idle database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultStorageRoot is the directory uploaded album images are written to.
	DefaultStorageRoot = "./uploads"

	// DefaultAdminEmail is the account created by the admin seed.
	DefaultAdminEmail = "admin@example.com"

	// AdminFirstName and AdminLastName name the seeded admin account.
	AdminFirstName = "Admin"
	AdminLastName  = "User"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment enables stack traces in error responses and console logging.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment.
	EnvProduction = "production"
)

// Database drivers understood by the database package.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

// Storage backends for album images.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Email providers.
const (
	EmailProviderLog      = "log"
	EmailProviderSendGrid = "sendgrid"
)

// Size Limits define the maximum allowed sizes for request bodies and uploads.
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	MaxRequestBodySize = 1 << 20

	// MaxImageSize is the maximum size in bytes of a single uploaded image.
	MaxImageSize = 5 << 20

	// MaxImagesPerRequest is the maximum number of images accepted per upload.
	MaxImagesPerRequest = 10

	// DefaultMaxUploadSize bounds a whole multipart album request.
	DefaultMaxUploadSize = MaxImagesPerRequest*MaxImageSize + 1<<20

	// MultipartMemory is the part of a multipart body kept in memory before spilling to disk.
	MultipartMemory = 8 << 20
)

// Default Password Hash Settings define the parameters for Argon2id password hashing.
const (
	DefaultPasswordHashMemory      = 64 * 1024
	DefaultPasswordHashIterations  = 3
	DefaultPasswordHashParallelism = 2
	DefaultPasswordHashSaltLength  = 16
	DefaultPasswordHashKeyLength   = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Token and auth constants.
const (
	// DefaultJWTIssuer is the issuer claim value for session tokens.
	DefaultJWTIssuer = "photo-album-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// ResetTokenBytes is the number of random bytes in a password reset token.
	ResetTokenBytes = 32

	// FolderNameRandomLength is the length of the random hex prefix of an album folder.
	FolderNameRandomLength = 15
)

// Rate limit defaults for unauthenticated credential endpoints.
const (
	DefaultAuthRequestsPerMinute = 10
	DefaultAuthBurst             = 5
)

// MetricsNamespace prefixes every Prometheus metric of the service.
const MetricsNamespace = "photoalbum"
