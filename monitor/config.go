package monitor

import "time"

// Config holds the monitor HTTP server's listen and auth settings.
type Config struct {
	Addr            string
	JWTSecret       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns development-friendly defaults. JWTSecret is
// intentionally left blank; until one is explicitly configured, the
// auth-protected routes answer every request with 503.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8090",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}
