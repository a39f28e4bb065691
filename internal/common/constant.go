package common

// AuthorizationHeader carries the bearer access token on outbound API requests.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// APIKeyHeader carries the public (anon) key expected by the hosted auth service.
const APIKeyHeader = "apikey"
