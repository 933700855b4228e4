// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table and column names so SQL in the
// repositories and migrations refers to the same schema.
package constants

// Table Names
const (
	TableUsers               = "users"
	TableAlbums              = "albums"
	TableImages              = "images"
	TablePasswordResetTokens = "password_reset_tokens"
	TableSeeds               = "seeds"
	TableGooseVersion        = "goose_db_version"
)

// Column names that carry secrets. Query logging redacts arguments bound to them.
const (
	ColumnPasswordHash = "password_hash"
	ColumnSalt         = "salt"
	ColumnTokenHash    = "token_hash"
)
