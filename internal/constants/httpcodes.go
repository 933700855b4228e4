// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP headers, content types and security header
// values used by the router and response helpers.
package constants

// HTTP Headers
const (
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentDisposition = "Content-Disposition"
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
	HeaderCacheControl       = "Cache-Control"
	HeaderRetryAfter         = "Retry-After"
	HeaderXForwardedFor      = "X-Forwarded-For"
	HeaderXRealIP            = "X-Real-IP"
)

// Content Types
const (
	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeMultipart   = "multipart/form-data"
)

// Accepted image MIME types.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimeBMP  = "image/bmp"
)

// Security header values.
const (
	HeaderXContentTypeOptions = "X-Content-Type-Options"
	HeaderXFrameOptions       = "X-Frame-Options"
	HeaderReferrerPolicy      = "Referrer-Policy"

	NoSniff            = "nosniff"
	FrameDeny          = "DENY"
	ReferrerNoReferrer = "no-referrer"

	// CacheControlPrivateFile lets browsers reuse a signed image URL for a while.
	CacheControlPrivateFile = "private, max-age=300"
)
