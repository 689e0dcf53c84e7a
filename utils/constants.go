package utils

// AuthCachePrefix is the prefix used for Redis session keys.
const AuthCachePrefix = "auth:"

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)
