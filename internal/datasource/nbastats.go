package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const nbaStatsDateLayout = "2006-01-02"

// NBAStatsClient implements StatsSource against a balldontlie-style REST
// stats provider.
type NBAStatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	season     string
	enabled    bool
	logger     *log.Logger
}

// NewNBAStatsClient creates a new stats API client
func NewNBAStatsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, season string, enabled bool, logger *log.Logger) *NBAStatsClient {
	if logger == nil {
		logger = log.Default()
	}
	return &NBAStatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		season:     season,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the data source name
func (c *NBAStatsClient) Name() string {
	return "nba_stats"
}

// IsEnabled returns whether the source is enabled
func (c *NBAStatsClient) IsEnabled() bool {
	return c.enabled
}

// apiPlayer is the provider's player payload
type apiPlayer struct {
	ID       int64   `json:"id"`
	Name     string  `json:"full_name"`
	Position *string `json:"position"`
	Team     *struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

// apiTeam is the provider's team payload
type apiTeam struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

// apiTeamDefense is the provider's defensive rating payload
type apiTeamDefense struct {
	TeamName            string   `json:"team_name"`
	DefRating           *float64 `json:"def_rating"`
	DefRatingVsGuards   *float64 `json:"def_rating_vs_guards"`
	DefRatingVsForwards *float64 `json:"def_rating_vs_forwards"`
	DefRatingVsCenters  *float64 `json:"def_rating_vs_centers"`
}

// apiGameStat is one box-score line in the provider's game log payload
type apiGameStat struct {
	GameDate  string   `json:"game_date"`
	Opponent  string   `json:"opponent"`
	IsHome    bool     `json:"is_home"`
	Minutes   string   `json:"min"`
	Points    *float64 `json:"pts"`
	Rebounds  *float64 `json:"reb"`
	Assists   *float64 `json:"ast"`
	Steals    *float64 `json:"stl"`
	Blocks    *float64 `json:"blk"`
	Turnovers *float64 `json:"turnover"`
	FGM       *int     `json:"fgm"`
	FGA       *int     `json:"fga"`
	FG3M      *int     `json:"fg3m"`
	FG3A      *int     `json:"fg3a"`
	FTM       *int     `json:"ftm"`
	FTA       *int     `json:"fta"`
}

// paginatedResponse is the provider's standard page envelope
type paginatedResponse struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		NextPage *int `json:"next_page"`
	} `json:"meta"`
}

// FetchPlayers retrieves all active players, walking pagination
func (c *NBAStatsClient) FetchPlayers(ctx context.Context) ([]PlayerData, error) {
	var players []PlayerData

	page := 1
	for {
		params := url.Values{}
		params.Set("per_page", "100")
		params.Set("page", strconv.Itoa(page))

		var raw []apiPlayer
		next, err := c.fetchPage(ctx, "/players", params, &raw)
		if err != nil {
			return nil, err
		}

		for _, p := range raw {
			player := PlayerData{
				LeagueID: p.ID,
				Name:     p.Name,
				Position: p.Position,
			}
			if p.Team != nil && p.Team.Abbreviation != "" {
				team := p.Team.Abbreviation
				player.Team = &team
			}
			players = append(players, player)
		}

		if next == nil {
			break
		}
		page = *next
	}

	c.logger.Printf("Fetched %d players from %s", len(players), c.Name())
	return players, nil
}

// FetchTeams retrieves all league teams
func (c *NBAStatsClient) FetchTeams(ctx context.Context) ([]TeamData, error) {
	var raw []apiTeam
	if _, err := c.fetchPage(ctx, "/teams", url.Values{"per_page": {"100"}}, &raw); err != nil {
		return nil, err
	}

	teams := make([]TeamData, 0, len(raw))
	for _, t := range raw {
		teams = append(teams, TeamData{
			LeagueID:     t.ID,
			Name:         t.FullName,
			Abbreviation: t.Abbreviation,
		})
	}

	return teams, nil
}

// FetchTeamDefense retrieves per-team defensive ratings for a season
func (c *NBAStatsClient) FetchTeamDefense(ctx context.Context, season string) ([]TeamDefenseData, error) {
	if season == "" {
		season = c.season
	}

	params := url.Values{}
	params.Set("season", season)

	var raw []apiTeamDefense
	if _, err := c.fetchPage(ctx, "/team_defense", params, &raw); err != nil {
		return nil, err
	}

	defense := make([]TeamDefenseData, 0, len(raw))
	for _, d := range raw {
		defense = append(defense, TeamDefenseData{
			TeamName:            d.TeamName,
			DefRating:           d.DefRating,
			DefRatingVsGuards:   d.DefRatingVsGuards,
			DefRatingVsForwards: d.DefRatingVsForwards,
			DefRatingVsCenters:  d.DefRatingVsCenters,
		})
	}

	return defense, nil
}

// FetchPlayerGameLog retrieves a player's box scores, walking pagination
func (c *NBAStatsClient) FetchPlayerGameLog(ctx context.Context, leaguePlayerID int64, season string) ([]GameData, error) {
	if season == "" {
		season = c.season
	}

	var games []GameData

	page := 1
	for {
		params := url.Values{}
		params.Set("player_id", strconv.FormatInt(leaguePlayerID, 10))
		params.Set("season", season)
		params.Set("per_page", "100")
		params.Set("page", strconv.Itoa(page))

		var raw []apiGameStat
		next, err := c.fetchPage(ctx, "/stats", params, &raw)
		if err != nil {
			return nil, err
		}

		for _, s := range raw {
			game, err := c.normalizeGame(s)
			if err != nil {
				c.logger.Printf("Skipping malformed game row for player %d: %v", leaguePlayerID, err)
				continue
			}
			games = append(games, game)
		}

		if next == nil {
			break
		}
		page = *next
	}

	return games, nil
}

func (c *NBAStatsClient) normalizeGame(s apiGameStat) (GameData, error) {
	gameDate, err := time.Parse(nbaStatsDateLayout, s.GameDate)
	if err != nil {
		return GameData{}, fmt.Errorf("bad game_date %q: %w", s.GameDate, err)
	}
	if s.Opponent == "" {
		return GameData{}, fmt.Errorf("missing opponent")
	}

	return GameData{
		GameDate:               gameDate,
		Opponent:               s.Opponent,
		IsHome:                 s.IsHome,
		Points:                 s.Points,
		Rebounds:               s.Rebounds,
		Assists:                s.Assists,
		Steals:                 s.Steals,
		Blocks:                 s.Blocks,
		Turnovers:              s.Turnovers,
		Minutes:                parseMinutes(s.Minutes),
		FieldGoalsMade:         s.FGM,
		FieldGoalsAttempted:    s.FGA,
		ThreePointersMade:      s.FG3M,
		ThreePointersAttempted: s.FG3A,
		FreeThrowsMade:         s.FTM,
		FreeThrowsAttempted:    s.FTA,
	}, nil
}

// parseMinutes converts the provider's "MM" or "MM:SS" string to decimal
// minutes. Empty or unparseable strings mean the player did not play.
func parseMinutes(min string) *float64 {
	min = strings.TrimSpace(min)
	if min == "" {
		return nil
	}

	parts := strings.SplitN(min, ":", 2)
	whole, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil
	}
	if len(parts) == 2 {
		if secs, err := strconv.ParseFloat(parts[1], 64); err == nil {
			whole += secs / 60
		}
	}

	return &whole
}

// fetchPage requests one page and decodes its data array into out.
// Returns the next page number, or nil on the last page.
func (c *NBAStatsClient) fetchPage(ctx context.Context, path string, params url.Values, out interface{}) (*int, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "authentication failed", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("server returned %d", resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return nil, NewDataSourceError(c.Name(), ErrCodeUnknown, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope paginatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to decode response", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to decode data payload", err)
	}

	return envelope.Meta.NextPage, nil
}
