package constants

// Base Routes
const (
	APIBasePath = "/api/v1"
	HealthPath  = "/health"
	VersionPath = "/version"
	MetricsPath = "/metrics"
)

// File access route, served both at the root and under the API prefix.
const (
	AccessFilePath = "/access-file"
)

// User Routes
const (
	UsersBasePath      = "/users"
	SignupPath         = "/signup"
	LoginPath          = "/login"
	ForgotPasswordPath = "/forgot-password"
	ResetPasswordPath  = "/reset-password/{token}"

	// ResetPasswordLinkPath is appended to the public base URL in reset emails.
	ResetPasswordLinkPath = "/reset-password/"
)

// Album Routes
const (
	AlbumsBasePath  = "/albums"
	AlbumDetailPath = "/{albumId}"
)

// URL Parameters
const (
	ParamAlbumID    = "albumId"
	ParamResetToken = "token"
)

// Query Parameters
const (
	QueryParamPage          = "page"
	QueryParamLimit         = "limit"
	QueryParamIncludeOthers = "includeOthers"
	QueryParamSearch        = "search"
	QueryParamToken         = "token"
)

// Multipart form fields
const (
	FormFieldTitle          = "title"
	FormFieldDescription    = "description"
	FormFieldImages         = "images"
	FormFieldImagesToRemove = "imagesToRemove"
)
