package redis

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (e.g. redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration.
// Entities carry no TTL: games, countries and player rows live until an
// administrator removes them, and registration sessions last as long as the
// user deliberates.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}
