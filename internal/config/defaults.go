package config

const (
	// A single-user tool binds to loopback unless told otherwise.
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
