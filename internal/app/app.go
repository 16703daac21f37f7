// Package app wires the client together: session, API client, game store,
// action submitter, push channel, and telemetry. The binary in cmd/showdown
// stays thin; everything here is constructor wiring plus the run loop.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"showdown-client/internal/actions"
	"showdown-client/internal/api"
	"showdown-client/internal/config"
	"showdown-client/internal/gamestore"
	"showdown-client/internal/logging"
	"showdown-client/internal/metrics"
	"showdown-client/internal/phase"
	"showdown-client/internal/push"
	"showdown-client/internal/roster"
	"showdown-client/internal/session"
)

const shutdownTimeout = 5 * time.Second

var metricsSetup = metrics.Setup

// App owns every long-lived component of the client process.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	session   *session.Context
	apiClient *api.Client
	store     *gamestore.Store
	actions   *actions.Submitter
	rosters   *roster.Client
	refetcher *push.Refetcher
	listener  *push.Listener

	metricsServer *http.Server
	metricsStop   func(context.Context) error

	feedMu    sync.Mutex
	feedShown int
}

// New constructs the client with default transport wiring.
func New(cfg config.Config, logger *slog.Logger) *App {
	return newApp(cfg, logger, nil)
}

// newApp allows tests to inject an HTTP client.
func newApp(cfg config.Config, logger *slog.Logger, httpClient *http.Client) *App {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	a := &App{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}

	notifier := logNotifier{logger: logger}

	sess := session.New(session.Config{
		Store:     session.NewFileStore(cfg.StatePath),
		Navigator: logNavigator{logger: logger},
		Logger:    logger,
	})
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	apiClient := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL, HTTPClient: httpClient}, sess, logger, recorder)
	sess.UseClient(apiClient)

	store := gamestore.New(gamestore.Config{
		Client:   apiClient,
		Logger:   logger,
		Metrics:  recorder,
		Notifier: notifier,
	})
	sess.AddResetter(store)

	a.session = sess
	a.apiClient = apiClient
	a.store = store
	a.actions = actions.New(actions.Config{Client: apiClient, Logger: logger, Metrics: recorder, Notifier: notifier})
	a.rosters = roster.NewClient(apiClient, logger, notifier)
	a.refetcher = push.NewRefetcher(a.fetchGame, logger, recorder, cfg.FetchDebounce)
	a.listener = push.NewListener(cfg.PushURL, sess, a.refetcher, logger)
	return a
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, *http.Server, func(context.Context) error) {
	rec, handler, shutdown, err := metricsSetup(context.Background(), metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var srv *http.Server
	if handler != nil && cfg.Metrics.Enabled {
		srv = &http.Server{
			Addr:    ":" + cfg.Metrics.Port,
			Handler: handler,
		}
	}
	return rec, srv, shutdown
}

// Session exposes the auth context for the UI layer.
func (a *App) Session() *session.Context { return a.session }

// Store exposes the game snapshot store for the UI layer.
func (a *App) Store() *gamestore.Store { return a.store }

// Actions exposes the turn-action submitter for the UI layer.
func (a *App) Actions() *actions.Submitter { return a.actions }

// Rosters exposes the roster/lobby client for the UI layer.
func (a *App) Rosters() *roster.Client { return a.rosters }

// Refetcher exposes the push-triggered fetch scheduler.
func (a *App) Refetcher() *push.Refetcher { return a.refetcher }

// Run logs in when credentials are configured, starts the push channel and
// refetch loop, then waits for context cancellation to shut down gracefully.
func (a *App) Run(ctx context.Context, stop context.CancelFunc) error {
	a.startMetrics()

	if !a.session.IsAuthenticated() && a.cfg.Email != "" {
		if err := a.session.Login(ctx, a.cfg.Email, a.cfg.Password); err != nil {
			if stop != nil {
				stop()
			}
			return err
		}
	}

	a.refetcher.Start(ctx)
	go a.listener.Run(ctx)

	if a.cfg.GameID != 0 {
		logging.Info(a.logger, "watching game", slog.Int64(logging.FieldGameID, a.cfg.GameID))
		a.refetcher.Trigger(a.cfg.GameID)
	} else {
		logging.Info(a.logger, "no game configured, waiting for push notifications")
	}

	<-ctx.Done()
	logging.Info(a.logger, "shutdown signal received")
	a.gracefulShutdown()
	return nil
}

// fetchGame refreshes the snapshot and writes any newly appended play-by-play
// entries to the feed.
func (a *App) fetchGame(ctx context.Context, gameID int64) error {
	if err := a.store.FetchGame(ctx, gameID); err != nil {
		return err
	}

	snap := a.store.Snapshot()
	a.feedMu.Lock()
	newEvents := snap.Events[min(a.feedShown, len(snap.Events)):]
	a.feedShown = len(snap.Events)
	a.feedMu.Unlock()

	for _, ev := range newEvents {
		logging.Info(a.logger, ev.LogMessage,
			slog.Int64(logging.FieldGameID, gameID),
			slog.Int("turn", ev.TurnNumber),
		)
	}
	if snap.Game != nil {
		logging.Info(a.logger, "phase",
			slog.Int64(logging.FieldGameID, gameID),
			slog.String("phase", string(phase.Infer(snap.Game, snap.State))),
			slog.Bool("viewer_turn", phase.IsViewerTurn(snap.Game, a.session.CurrentUser().ID)),
		)
	}
	return nil
}

func (a *App) startMetrics() {
	if a.metricsServer == nil {
		return
	}
	logging.Info(a.logger, "metrics server starting", slog.String("addr", a.metricsServer.Addr))
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(a.logger, "metrics server failed", "error", err)
		}
	}()
}

func (a *App) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.refetcher.Stop(shutdownCtx); err != nil {
		logging.Warn(a.logger, "failed to stop refetch loop", "error", err)
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics server shutdown failed", "error", err)
		}
	}
	if a.metricsStop != nil {
		if err := a.metricsStop(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics shutdown failed", "error", err)
		}
	}
	logging.Info(a.logger, "shutdown complete")
}

// logNotifier routes user-visible failure messages through the logger; a
// graphical shell would replace it with a dialog.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Notify(message string) {
	logging.Warn(n.logger, "user notice", "message", message)
}

// logNavigator records screen transitions; a graphical shell would replace
// it with a real router.
type logNavigator struct {
	logger *slog.Logger
}

func (n logNavigator) NavigateTo(route string) {
	logging.Info(n.logger, "navigate", "route", route)
}
