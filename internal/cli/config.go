package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	Identity  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("STATECRAFT_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("STATECRAFT_TOKEN"),
		Identity:  getEnvOrDefault("STATECRAFT_IDENTITY", "cli:"+localUser()),
		Output:    "text",
		Verbose:   false,
	}
}

func localUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "local"
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
