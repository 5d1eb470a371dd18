package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Store
	StorePath string `json:"store_path"`
	DataDir   string `json:"data_dir"`

	// AI / LLM
	AnthropicAPIKey   string `json:"anthropic_api_key"`
	AnthropicBaseURL  string `json:"anthropic_base_url"` // override for custom proxy
	AnalystModel      string `json:"analyst_model"`
	ChatModel         string `json:"chat_model"`
	AgentTimeout      int    `json:"agent_timeout"`      // seconds
	CompletionTimeout int    `json:"completion_timeout"` // seconds

	// Charts
	ChartMode      string `json:"chart_mode"` // "inline" or "s3"
	ChartBucket    string `json:"chart_bucket"`
	ChartRegion    string `json:"chart_region"`
	ChartKeyPrefix string `json:"chart_key_prefix"`
	ChartURLPrefix string `json:"chart_url_prefix"`

	// Domain
	WholesalerColumn    string `json:"wholesaler_column"`
	BusinessContextPath string `json:"business_context_path"`

	// Audit
	EnableAuditLogging bool `json:"enable_audit_logging"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		StorePath:          DefaultStorePath,
		DataDir:            DefaultDataDir,
		AnalystModel:       DefaultAnalystModel,
		ChatModel:          DefaultChatModel,
		AgentTimeout:       DefaultAgentTimeout,
		CompletionTimeout:  DefaultCompletionTimeout,
		ChartMode:          DefaultChartMode,
		WholesalerColumn:   DefaultWholesalerColumn,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("ITZANA_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("ITZANA_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("ITZANA_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("ITZANA_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("ITZANA_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("ITZANA_CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := getEnv("ITZANA_STORE_PATH", ""); v != "" {
		cfg.StorePath = v
	}
	if v := getEnv("ITZANA_DATA_DIR", ""); v != "" {
		cfg.DataDir = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ITZANA_ANALYST_MODEL", ""); v != "" {
		cfg.AnalystModel = v
	}
	if v := getEnv("ITZANA_CHAT_MODEL", ""); v != "" {
		cfg.ChatModel = v
	}
	if v := getEnv("ITZANA_AGENT_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.AgentTimeout = t
		}
	}
	if v := getEnv("ITZANA_COMPLETION_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.CompletionTimeout = t
		}
	}
	if v := getEnv("ITZANA_CHART_MODE", ""); v != "" {
		cfg.ChartMode = v
	}
	if v := getEnv("ITZANA_CHART_BUCKET", ""); v != "" {
		cfg.ChartBucket = v
	}
	if v := getEnv("ITZANA_CHART_REGION", ""); v != "" {
		cfg.ChartRegion = v
	}
	if v := getEnv("ITZANA_CHART_KEY_PREFIX", ""); v != "" {
		cfg.ChartKeyPrefix = v
	}
	if v := getEnv("ITZANA_CHART_URL_PREFIX", ""); v != "" {
		cfg.ChartURLPrefix = v
	}
	if v := getEnv("ITZANA_WHOLESALER_COLUMN", ""); v != "" {
		cfg.WholesalerColumn = v
	}
	if v := getEnv("ITZANA_BUSINESS_CONTEXT", ""); v != "" {
		cfg.BusinessContextPath = v
	}
	if v := getEnv("ITZANA_RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ITZANA_ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
