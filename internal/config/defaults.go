package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultStorePath = "itzana.db"
	DefaultDataDir   = "data"

	DefaultAnalystModel = "claude-sonnet-4-5"
	DefaultChatModel    = "claude-sonnet-4-5"

	DefaultAgentTimeout      = 300 // seconds, analyst tool loop
	DefaultCompletionTimeout = 60  // seconds, single-shot refine/assemble calls

	DefaultChartMode        = "inline"
	DefaultWholesalerColumn = "COMPANY_NAME"

	DefaultCORSMaxAge = 300
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}
