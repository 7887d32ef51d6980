package common

const (
	// AuthorizationHeaderName carries the bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// DefaultPageSize is the server-side listing page size when none is requested.
	DefaultPageSize = 40

	// ClientPageSize is the page size the listing controller asks for.
	ClientPageSize = 12
)
