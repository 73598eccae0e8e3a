// File: utils/constants.go
package utils

import "time"

// VenueCachePrefix is the prefix used for Redis hotel/villa cache keys.
const VenueCachePrefix = "venue:"

// DefaultVenueCacheTTL is used when no TTL is configured.
const DefaultVenueCacheTTL = 15 * time.Minute

// RequestIDKey and LoggerKey are the gin context keys set by the request logger middleware.
const (
	RequestIDKey = "requestId"
	LoggerKey    = "logger"
)
