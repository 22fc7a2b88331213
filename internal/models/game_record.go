package models

import (
	"time"

	"github.com/google/uuid"
)

// StatCategory identifies which box-score stat a line is set on
type StatCategory string

const (
	StatPoints    StatCategory = "points"
	StatRebounds  StatCategory = "rebounds"
	StatAssists   StatCategory = "assists"
	StatSteals    StatCategory = "steals"
	StatBlocks    StatCategory = "blocks"
	StatTurnovers StatCategory = "turnovers"
	StatMinutes   StatCategory = "minutes"
)

// ValidStatCategories lists the categories the estimator accepts
var ValidStatCategories = []StatCategory{
	StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks, StatTurnovers, StatMinutes,
}

// IsValid reports whether the category is a known box-score stat
func (s StatCategory) IsValid() bool {
	for _, c := range ValidStatCategories {
		if s == c {
			return true
		}
	}
	return false
}

// GameRecord is one player's box-score line for one date. Rows are immutable
// once ingested except for DaysRest/IsBackToBack, which are recomputed from
// the chronological sequence of a player's games on every (re)ingest.
type GameRecord struct {
	ID       uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	PlayerID uuid.UUID `db:"player_id" json:"player_id" validate:"required,uuid4"`
	GameDate time.Time `db:"game_date" json:"game_date" validate:"required"`
	Opponent string    `db:"opponent" json:"opponent"`
	IsHome   bool      `db:"is_home" json:"is_home"`

	// DaysRest is nil only for a player's first known game.
	DaysRest     *int `db:"days_rest" json:"days_rest"`
	IsBackToBack bool `db:"is_back_to_back" json:"is_back_to_back"`

	Points    *float64 `db:"points" json:"points"`
	Rebounds  *float64 `db:"rebounds" json:"rebounds"`
	Assists   *float64 `db:"assists" json:"assists"`
	Steals    *float64 `db:"steals" json:"steals"`
	Blocks    *float64 `db:"blocks" json:"blocks"`
	Turnovers *float64 `db:"turnovers" json:"turnovers"`
	Minutes   *float64 `db:"minutes" json:"minutes"`

	FieldGoalsMade         *int `db:"field_goals_made" json:"field_goals_made"`
	FieldGoalsAttempted    *int `db:"field_goals_attempted" json:"field_goals_attempted"`
	ThreePointersMade      *int `db:"three_pointers_made" json:"three_pointers_made"`
	ThreePointersAttempted *int `db:"three_pointers_attempted" json:"three_pointers_attempted"`
	FreeThrowsMade         *int `db:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted    *int `db:"free_throws_attempted" json:"free_throws_attempted"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StatValue extracts the value for a stat category. The second return is
// false when the stat was not recorded for this game.
func (g *GameRecord) StatValue(stat StatCategory) (float64, bool) {
	var v *float64
	switch stat {
	case StatPoints:
		v = g.Points
	case StatRebounds:
		v = g.Rebounds
	case StatAssists:
		v = g.Assists
	case StatSteals:
		v = g.Steals
	case StatBlocks:
		v = g.Blocks
	case StatTurnovers:
		v = g.Turnovers
	case StatMinutes:
		v = g.Minutes
	default:
		return 0, false
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// DidNotPlay reports whether the player logged zero minutes (or minutes are
// missing) for this game. Bets resolve as void on a DNP.
func (g *GameRecord) DidNotPlay() bool {
	return g.Minutes == nil || *g.Minutes == 0
}
