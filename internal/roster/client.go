// Package roster covers the out-of-game server surface: the card catalog,
// roster building, and the game lobby. These are plain request/response
// calls with no local caching; the screens that use them re-read on entry.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"showdown-client/internal/api"
	"showdown-client/internal/domain"
	"showdown-client/internal/logging"
)

// Doer is the slice of the API client this package uses.
type Doer interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
}

// Notifier surfaces roster write failures; roster submissions are high-value
// and their itemized validation errors must all be shown at once.
type Notifier interface {
	Notify(message string)
}

// Client wraps the roster and lobby endpoints.
type Client struct {
	client   Doer
	logger   *slog.Logger
	notifier Notifier
}

// NewClient constructs a roster client.
func NewClient(client Doer, logger *slog.Logger, notifier Notifier) *Client {
	return &Client{client: client, logger: logger, notifier: notifier}
}

// FetchPlayerCards reads the full card catalog.
func (c *Client) FetchPlayerCards(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.client.GetJSON(ctx, "/api/cards/player", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// FetchAvailableTeams reads the team identifiers a roster may draw from.
func (c *Client) FetchAvailableTeams(ctx context.Context) ([]string, error) {
	var teams []string
	if err := c.client.GetJSON(ctx, "/api/available-teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// FetchRosters lists every roster visible to the player.
func (c *Client) FetchRosters(ctx context.Context) ([]domain.Roster, error) {
	var rosters []domain.Roster
	if err := c.client.GetJSON(ctx, "/api/rosters", &rosters); err != nil {
		return nil, err
	}
	return rosters, nil
}

// FetchRoster reads one roster by id.
func (c *Client) FetchRoster(ctx context.Context, id int64) (domain.Roster, error) {
	var roster domain.Roster
	if err := c.client.GetJSON(ctx, fmt.Sprintf("/api/rosters/%d", id), &roster); err != nil {
		return domain.Roster{}, err
	}
	return roster, nil
}

// RosterSubmission carries a new or updated roster.
type RosterSubmission struct {
	Name    string  `json:"name"`
	CardIDs []int64 `json:"card_ids"`
}

// CreateRoster submits a new roster. Validation failures notify the actor
// with every itemized message before the error propagates.
func (c *Client) CreateRoster(ctx context.Context, sub RosterSubmission) error {
	return c.submit(ctx, "/api/rosters", sub, "Failed to save roster")
}

// FetchMyRoster reads the player's own working roster.
func (c *Client) FetchMyRoster(ctx context.Context) (domain.Roster, error) {
	var roster domain.Roster
	if err := c.client.GetJSON(ctx, "/api/my-roster", &roster); err != nil {
		return domain.Roster{}, err
	}
	return roster, nil
}

// SaveMyRoster writes the player's own working roster, with the same
// user-blocking failure contract as CreateRoster.
func (c *Client) SaveMyRoster(ctx context.Context, sub RosterSubmission) error {
	return c.submit(ctx, "/api/my-roster", sub, "Failed to save roster")
}

// FetchGames lists the player's games.
func (c *Client) FetchGames(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	if err := c.client.GetJSON(ctx, "/api/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// FetchOpenGames lists joinable games.
func (c *Client) FetchOpenGames(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	if err := c.client.GetJSON(ctx, "/api/games/open", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GameRequest creates a new game hosted by the caller.
type GameRequest struct {
	RosterID          int64  `json:"roster_id"`
	HomeOrAway        string `json:"home_or_away"`
	LeagueDesignation string `json:"league_designation"`
}

// CreateGame opens a new game for an opponent to join.
func (c *Client) CreateGame(ctx context.Context, req GameRequest) (domain.Game, error) {
	var game domain.Game
	if err := c.client.PostJSON(ctx, "/api/games", req, &game); err != nil {
		logging.Warn(c.logger, "game creation failed", "error", err)
		return domain.Game{}, err
	}
	return game, nil
}

// JoinGame enters an open game with the chosen roster.
func (c *Client) JoinGame(ctx context.Context, gameID, rosterID int64) error {
	body := map[string]int64{"roster_id": rosterID}
	if err := c.client.PostJSON(ctx, fmt.Sprintf("/api/games/%d/join", gameID), body, nil); err != nil {
		logging.Warn(c.logger, "game join failed",
			slog.Int64(logging.FieldGameID, gameID),
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Client) submit(ctx context.Context, path string, body any, failurePrefix string) error {
	err := c.client.PostJSON(ctx, path, body, nil)
	if err == nil || errors.Is(err, api.ErrNoToken) {
		return nil
	}
	logging.Warn(c.logger, "roster write rejected",
		slog.String(logging.FieldPath, path),
		"error", err,
	)
	if c.notifier != nil {
		c.notifier.Notify(failurePrefix + ": " + api.UserMessage(err))
	}
	return err
}
