package bank

// Endpoint paths on the bank service.
const (
	EndpointAuthenticate = "/auth/authenticate"
	EndpointGetUser      = "/auth/user"
	EndpointGetBindings  = "/auth/bindings"
)

// Response body keys.
const (
	KeyErrorCode = "errorCode"
	KeySessionID = "sessionId"
	KeyUserID    = "userId"
)

// Cache key prefixes for bank-owned data held in redis.
const (
	CacheKeySession  = "bank:session:"
	CacheKeyUserInfo = "bank:user:"
	CacheKeyCards    = "bank:cards:"
)
