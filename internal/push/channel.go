package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"showdown-client/internal/api"
	"showdown-client/internal/logging"
)

const defaultRedialDelay = 3 * time.Second

// Triggerer receives game ids whose state changed server-side; the
// Refetcher implements it.
type Triggerer interface {
	Trigger(gameID int64)
}

// event is the one frame shape the client understands. Everything else the
// channel may carry is opaque and skipped.
type event struct {
	Event  string `json:"event"`
	GameID int64  `json:"game_id"`
}

// parseEvent extracts a game id from a raw frame. The second return is false
// for frames that are not game-update notifications.
func parseEvent(raw []byte) (int64, bool) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return 0, false
	}
	if ev.Event != "game_updated" || ev.GameID == 0 {
		return 0, false
	}
	return ev.GameID, true
}

// Listener maintains the push connection and forwards change notifications.
// Delivery guarantees are the server's business; the listener's whole
// contract is "on notification, trigger a refetch".
type Listener struct {
	url    string
	tokens api.TokenSource
	target Triggerer
	logger *slog.Logger
	redial time.Duration
}

// NewListener constructs a Listener for the given websocket URL.
func NewListener(url string, tokens api.TokenSource, target Triggerer, logger *slog.Logger) *Listener {
	return &Listener{
		url:    url,
		tokens: tokens,
		target: target,
		logger: logger,
		redial: defaultRedialDelay,
	}
}

// Run connects and reads frames until the context is cancelled, redialing
// with a flat delay on any connection failure. Without a live session it
// waits instead of dialing.
func (l *Listener) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		token := ""
		if l.tokens != nil {
			token = l.tokens.Token()
		}
		if token == "" {
			if !l.sleep(ctx) {
				return
			}
			continue
		}

		l.readOnce(ctx, token)
		if !l.sleep(ctx) {
			return
		}
	}
}

func (l *Listener) readOnce(ctx context.Context, token string) {
	conn, _, err := websocket.Dial(ctx, l.url+"?token="+token, nil)
	if err != nil {
		logging.Warn(l.logger, "push dial failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	logging.Info(l.logger, "push channel connected")
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				logging.Info(l.logger, "push channel closed")
			default:
				if ctx.Err() == nil {
					logging.Warn(l.logger, "push read failed", "error", err)
				}
			}
			return
		}

		gameID, ok := parseEvent(raw)
		if !ok {
			continue
		}
		logging.Debug(l.logger, "state change notification", slog.Int64(logging.FieldGameID, gameID))
		l.target.Trigger(gameID)
	}
}

func (l *Listener) sleep(ctx context.Context) bool {
	timer := time.NewTimer(l.redial)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
