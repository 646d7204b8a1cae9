package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staywise"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	// Token lifetime matches the original auth contract: seven days.
	DefaultTokenTTL        = 168 * time.Hour
	DefaultBcryptCost      = 10
	DefaultAdminSignupOpen = true

	DefaultSerpAPIBaseURL = "https://serpapi.com"
	DefaultSearchTimeout  = 15 * time.Second

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
