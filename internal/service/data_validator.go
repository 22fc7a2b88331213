package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/propedge/internal/models"
)

// DataValidator validates provider data before it reaches the database
type DataValidator struct {
	logger *log.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *log.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidatePlayer checks player data for required fields
func (v *DataValidator) ValidatePlayer(player *models.Player) []string {
	var errors []string

	if player.Name == "" {
		errors = append(errors, "name is required")
	}
	if player.LeagueID <= 0 {
		errors = append(errors, fmt.Sprintf("league_id must be positive, got %d", player.LeagueID))
	}

	return errors
}

// ValidateGame checks a game record for required fields and plausible
// stat ranges before ingestion.
func (v *DataValidator) ValidateGame(game *models.GameRecord) []string {
	var errors []string

	if game.GameDate.IsZero() {
		errors = append(errors, "game_date is required")
	}
	if game.GameDate.After(time.Now().Add(24 * time.Hour)) {
		errors = append(errors, "game_date is in the future")
	}
	if game.Opponent == "" {
		errors = append(errors, "opponent is required")
	}

	if game.Minutes != nil && (*game.Minutes < 0 || *game.Minutes > 60) {
		errors = append(errors, fmt.Sprintf("minutes out of range (0-60), got %.1f", *game.Minutes))
	}
	if game.Points != nil && (*game.Points < 0 || *game.Points > 120) {
		errors = append(errors, fmt.Sprintf("points out of range (0-120), got %.1f", *game.Points))
	}
	for _, check := range []struct {
		name  string
		value *float64
		max   float64
	}{
		{"rebounds", game.Rebounds, 40},
		{"assists", game.Assists, 40},
		{"steals", game.Steals, 15},
		{"blocks", game.Blocks, 15},
		{"turnovers", game.Turnovers, 20},
	} {
		if check.value != nil && (*check.value < 0 || *check.value > check.max) {
			errors = append(errors, fmt.Sprintf("%s out of range (0-%.0f), got %.1f", check.name, check.max, *check.value))
		}
	}

	return errors
}
