package datasource

import (
	"context"
	"errors"
	"time"
)

// StatsSource defines the interface for fetching basketball data from
// external stats providers.
type StatsSource interface {
	// FetchPlayers retrieves the league's active players
	FetchPlayers(ctx context.Context) ([]PlayerData, error)

	// FetchTeams retrieves all league teams
	FetchTeams(ctx context.Context) ([]TeamData, error)

	// FetchTeamDefense retrieves per-team defensive ratings for a season
	FetchTeamDefense(ctx context.Context, season string) ([]TeamDefenseData, error)

	// FetchPlayerGameLog retrieves a player's box scores for a season
	FetchPlayerGameLog(ctx context.Context, leaguePlayerID int64, season string) ([]GameData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// PlayerData represents normalized player data from any stats provider
type PlayerData struct {
	LeagueID int64   `json:"league_id"` // Provider's league-wide player ID
	Name     string  `json:"name"`      // Full display name
	Team     *string `json:"team"`      // Current team abbreviation
	Position *string `json:"position"`  // Listed position
}

// TeamData represents normalized team data
type TeamData struct {
	LeagueID     int64  `json:"league_id"`    // Provider's league-wide team ID
	Name         string `json:"name"`         // Full team name
	Abbreviation string `json:"abbreviation"` // Short code (e.g., "BOS")
}

// TeamDefenseData represents a team's defensive ratings for a season
type TeamDefenseData struct {
	TeamName            string   `json:"team_name"`
	DefRating           *float64 `json:"def_rating"`             // Points allowed per 100 possessions
	DefRatingVsGuards   *float64 `json:"def_rating_vs_guards"`   // Positional split, when published
	DefRatingVsForwards *float64 `json:"def_rating_vs_forwards"`
	DefRatingVsCenters  *float64 `json:"def_rating_vs_centers"`
}

// GameData represents one normalized box-score line for a player
type GameData struct {
	GameDate  time.Time `json:"game_date"`
	Opponent  string    `json:"opponent"` // Opponent abbreviation
	IsHome    bool      `json:"is_home"`
	Points    *float64  `json:"points"`
	Rebounds  *float64  `json:"rebounds"`
	Assists   *float64  `json:"assists"`
	Steals    *float64  `json:"steals"`
	Blocks    *float64  `json:"blocks"`
	Turnovers *float64  `json:"turnovers"`
	Minutes   *float64  `json:"minutes"`

	FieldGoalsMade         *int `json:"field_goals_made"`
	FieldGoalsAttempted    *int `json:"field_goals_attempted"`
	ThreePointersMade      *int `json:"three_pointers_made"`
	ThreePointersAttempted *int `json:"three_pointers_attempted"`
	FreeThrowsMade         *int `json:"free_throws_made"`
	FreeThrowsAttempted    *int `json:"free_throws_attempted"`
}

// DataSourceError represents errors from stats provider operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
