package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a league player whose box scores we track
type Player struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	LeagueID  int64     `db:"league_id" json:"league_id" validate:"required"` // provider's player identifier
	Name      string    `db:"name" json:"name" validate:"required"`
	Team      *string   `db:"team" json:"team"`
	Position  *string   `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Team represents a league team
type Team struct {
	ID           uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	LeagueID     int64     `db:"league_id" json:"league_id" validate:"required"`
	Name         string    `db:"name" json:"name" validate:"required"`
	Abbreviation string    `db:"abbreviation" json:"abbreviation"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeamDefensiveProfile holds a team's current defensive rating.
// At most one active profile exists per team; rows are refreshed in place.
type TeamDefensiveProfile struct {
	ID                  uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	TeamID              uuid.UUID `db:"team_id" json:"team_id" validate:"required,uuid4"`
	TeamName            string    `db:"team_name" json:"team_name" validate:"required"`
	DefRating           *float64  `db:"def_rating" json:"def_rating"` // points allowed per game
	DefRatingVsGuards   *float64  `db:"def_rating_vs_guards" json:"def_rating_vs_guards"`
	DefRatingVsForwards *float64  `db:"def_rating_vs_forwards" json:"def_rating_vs_forwards"`
	DefRatingVsCenters  *float64  `db:"def_rating_vs_centers" json:"def_rating_vs_centers"`
	LastUpdated         time.Time `db:"last_updated" json:"last_updated"`
}

// HasRating reports whether the profile carries a usable defensive rating
func (p *TeamDefensiveProfile) HasRating() bool {
	return p != nil && p.DefRating != nil
}
