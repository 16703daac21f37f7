package config

import "strings"

// Config holds runtime configuration for the client.
type Config struct {
	APIBaseURL    string
	PushURL       string
	StatePath     string
	Email         string
	Password      string
	GameID        int64
	HTTPTimeout   Duration
	FetchDebounce Duration
	Metrics       MetricsConfig
}

// MetricsConfig controls the telemetry exporters.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	apiURL := envOrDefault(envAPIBaseURL, defaultAPIBaseURL)
	return Config{
		APIBaseURL:    apiURL,
		PushURL:       envOrDefault(envPushURL, derivePushURL(apiURL)),
		StatePath:     envOrDefault(envStatePath, defaultStatePath),
		Email:         envOrDefault(envEmail, ""),
		Password:      envOrDefault(envPassword, ""),
		GameID:        int64EnvOrDefault(envGameID, 0),
		HTTPTimeout:   durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
		FetchDebounce: durationEnvOrDefault(envFetchDebounce, defaultFetchDebounce),
		Metrics:       loadMetrics(),
	}
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsEnabled, false),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		ServiceName:  envOrDefault(envMetricsService, defaultMetricsService),
		OtlpEndpoint: envOrDefault(envOtlpEndpoint, ""),
		OtlpInsecure: boolEnvOrDefault(envOtlpInsecure, false),
	}
}

// derivePushURL maps the API base URL onto its websocket endpoint.
func derivePushURL(apiURL string) string {
	ws := apiURL
	if strings.HasPrefix(ws, "https://") {
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	} else if strings.HasPrefix(ws, "http://") {
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimSuffix(ws, "/") + "/ws"
}
