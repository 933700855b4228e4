package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultShutdownTimeout   = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultFileStreamTimeout = 2 * time.Minute
)

// Database Timeouts
const (
	DBConnectionTimeout   = 30 * time.Second
	DBQueryTimeout        = 15 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Hour
)

// Authentication Timeouts
const (
	DefaultJWTExpiry       = 24 * time.Hour
	DefaultFileTokenExpiry = 24 * time.Hour

	// PasswordResetTokenLifetime is fixed; it is not configurable.
	PasswordResetTokenLifetime = 1 * time.Hour
)

// Outbound calls
const (
	DefaultEmailTimeout = 10 * time.Second
	StorageOpTimeout    = 30 * time.Second

	// PasswordResetDeliveryTimeout bounds storing a reset token and mailing it
	// after the forgot-password response has been written.
	PasswordResetDeliveryTimeout = 30 * time.Second
)

// Background tasks
const (
	// MaintenanceTaskTimeout bounds one run of the database maintenance job.
	MaintenanceTaskTimeout = 5 * time.Minute

	// RateLimiterIdleTTL is how long an unused client limiter is kept.
	RateLimiterIdleTTL = 10 * time.Minute

	// RateLimiterSweepInterval is how often idle limiters are removed.
	RateLimiterSweepInterval = 1 * time.Minute
)
