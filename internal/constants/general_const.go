package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Token types, stored in the "typ" claim.
const (
	TokenTypeSession = "session"
	TokenTypeFile    = "file"
)

// Password and profile validation
const (
	MinPasswordLength  = 7
	MinFirstNameLength = 2
	MinLastNameLength  = 1
	MaxNameLength      = 100
	MaxEmailLength     = 255
	MaxTitleLength     = 255
)

// PasswordSpecialCharacters are the characters accepted as "special" by strong_password.
const PasswordSpecialCharacters = `!@#$%^&*(),.?":{}|<>`

// Rate limit categories
const (
	RateCategoryAuth = "auth"
)
