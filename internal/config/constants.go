package config

import "time"

const (
	envAPIBaseURL    = "SHOWDOWN_API_URL"
	envPushURL       = "SHOWDOWN_PUSH_URL"
	envStatePath     = "SHOWDOWN_STATE_PATH"
	envEmail         = "SHOWDOWN_EMAIL"
	envPassword      = "SHOWDOWN_PASSWORD"
	envGameID        = "SHOWDOWN_GAME_ID"
	envHTTPTimeout   = "SHOWDOWN_HTTP_TIMEOUT"
	envFetchDebounce = "SHOWDOWN_FETCH_DEBOUNCE"

	envMetricsEnabled = "METRICS_ENABLED"
	envMetricsPort    = "METRICS_PORT"
	envMetricsService = "METRICS_SERVICE_NAME"
	envOtlpEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtlpInsecure   = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultAPIBaseURL    = "https://showdown-backend.onrender.com"
	defaultStatePath     = ".showdown"
	defaultHTTPTimeout   = 10 * time.Second
	defaultFetchDebounce = 150 * time.Millisecond

	defaultMetricsPort    = "9091"
	defaultMetricsService = "showdown-client"
)
