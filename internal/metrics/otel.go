package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "showdown-client"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx           context.Context
	meter         metric.Meter
	apiCalls      metric.Int64Counter
	apiErrors     metric.Int64Counter
	apiLatencyMs  metric.Float64Histogram
	fetches       metric.Int64Counter
	fetchLatency  metric.Float64Histogram
	actions       metric.Int64Counter
	actionErrors  metric.Int64Counter
	pushEvents    metric.Int64Counter
	pushCoalesced metric.Int64Counter
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("showdown-client")
	ctx := context.Background()

	apiCalls, err := meter.Int64Counter("api_calls_total")
	if err != nil {
		return nil, err
	}
	apiErrors, err := meter.Int64Counter("api_errors_total")
	if err != nil {
		return nil, err
	}
	apiLatency, err := meter.Float64Histogram("api_call_duration_ms")
	if err != nil {
		return nil, err
	}
	fetches, err := meter.Int64Counter("game_fetches_total")
	if err != nil {
		return nil, err
	}
	fetchLatency, err := meter.Float64Histogram("game_fetch_duration_ms")
	if err != nil {
		return nil, err
	}
	actions, err := meter.Int64Counter("game_actions_total")
	if err != nil {
		return nil, err
	}
	actionErrors, err := meter.Int64Counter("game_action_errors_total")
	if err != nil {
		return nil, err
	}
	pushEvents, err := meter.Int64Counter("push_events_total")
	if err != nil {
		return nil, err
	}
	pushCoalesced, err := meter.Int64Counter("push_events_coalesced_total")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:           ctx,
		meter:         meter,
		apiCalls:      apiCalls,
		apiErrors:     apiErrors,
		apiLatencyMs:  apiLatency,
		fetches:       fetches,
		fetchLatency:  fetchLatency,
		actions:       actions,
		actionErrors:  actionErrors,
		pushEvents:    pushEvents,
		pushCoalesced: pushCoalesced,
	}, nil
}

func (o *otelInstruments) recordAPICall(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrOp, op)}
	o.recordCounter(o.apiCalls, 1, attrs...)
	o.recordHistogram(o.apiLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.apiErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordFetch(outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrOutcome, outcome)}
	o.recordCounter(o.fetches, 1, attrs...)
	if duration > 0 {
		o.recordHistogram(o.fetchLatency, float64(duration.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordAction(name string, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrAction, name)}
	o.recordCounter(o.actions, 1, attrs...)
	if err != nil {
		o.recordCounter(o.actionErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordPushEvent(coalesced bool) {
	if o == nil {
		return
	}
	o.recordCounter(o.pushEvents, 1)
	if coalesced {
		o.recordCounter(o.pushCoalesced, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
