package domain

// GameStatus mirrors the server's game lifecycle states.
type GameStatus string

const (
	StatusSetup      GameStatus = "setup"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
)

// User identifies the logged-in player as decoded from the session token.
type User struct {
	ID       int64  `json:"userId"`
	Username string `json:"username"`
}

// Session holds the bearer token and the identity it was issued to.
// Exactly one live Session exists per client process.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Game is the read-only game header; it is replaced wholesale on each fetch.
type Game struct {
	ID                int64      `json:"id"`
	HomeUserID        int64      `json:"home_user_id"`
	AwayUserID        int64      `json:"away_user_id"`
	CurrentTurnUserID int64      `json:"current_turn_user_id"`
	Status            GameStatus `json:"status"`
	LeagueDesignation string     `json:"league_designation"`
}

// Completed reports whether the game has reached its terminal state.
func (g Game) Completed() bool {
	return g.Status == StatusCompleted
}

// Bases records baserunner occupancy.
type Bases struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// GameState is the client-visible subset of the server's state blob. The
// server owns its full shape; the client decodes only what it displays and
// never computes transitions itself.
type GameState struct {
	Inning          int    `json:"inning"`
	Half            string `json:"half"`
	Outs            int    `json:"outs"`
	HomeScore       int    `json:"home_score"`
	AwayScore       int    `json:"away_score"`
	Bases           Bases  `json:"bases"`
	PendingDecision string `json:"pending_decision"`
}

// GameEvent is one entry of the append-only play-by-play feed.
type GameEvent struct {
	TurnNumber int    `json:"turn_number"`
	LogMessage string `json:"log_message"`
}

// Card is a rated player entity. A non-nil Control marks a pitcher; position
// players carry fielding eligibility instead. DisplayName and DisplayPosition
// are UI-only fields set by the display package on copies, never in place.
type Card struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Team      string  `json:"team"`
	Control   *int    `json:"control"`
	Command   int     `json:"command"`
	OnBase    int     `json:"on_base"`
	IP        float64 `json:"ip"`
	Positions string  `json:"positions"`

	DisplayName     string `json:"display_name,omitempty"`
	DisplayPosition string `json:"display_position,omitempty"`
}

// IsPitcher reports whether the card is a pitcher record. The server uses a
// non-nil control rating as the sole discriminator.
func (c Card) IsPitcher() bool {
	return c.Control != nil
}

// Roster is the full pool of cards a team owner has assembled.
type Roster struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Cards  []Card `json:"cards"`
}

// LineupSlot pairs a batting-order slot with the card filling it.
type LineupSlot struct {
	Slot int  `json:"slot"`
	Card Card `json:"card"`
}

// Lineup is one side's batting order plus its starting pitcher.
type Lineup struct {
	BattingOrder    []LineupSlot `json:"batting_order"`
	StartingPitcher *Card        `json:"starting_pitcher"`
}

// SetupState describes the pre-game negotiation: which side still owes a
// lineup submission before play can begin.
type SetupState struct {
	GameID          int64 `json:"game_id"`
	HomeUserID      int64 `json:"home_user_id"`
	AwayUserID      int64 `json:"away_user_id"`
	NeedsHomeLineup bool  `json:"needs_home_lineup"`
	NeedsAwayLineup bool  `json:"needs_away_lineup"`
}
