package predictor

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/propedge/internal/models"
)

// Additive rest adjustments by days of rest before the game. Rest beyond
// maxRestDays is treated as maxRestDays.
var restAdjustments = map[int]float64{
	0: -1.5, // back-to-back
	1: -0.4,
	2: 1.1,
	3: 0.5,
	4: 0.0,
}

const maxRestDays = 4

// ApplyRestAdjustment shifts a prediction by the additive rest factor for
// the given days of rest. Unknown rest (nil) leaves the prediction
// unchanged.
func (e *Estimator) ApplyRestAdjustment(prediction float64, daysRest *int) float64 {
	if daysRest == nil {
		e.logger.Debug("Days rest unknown, skipping rest adjustment")
		return prediction
	}

	rest := *daysRest
	if rest < 0 {
		rest = 0
	}
	if rest > maxRestDays {
		rest = maxRestDays
	}

	return prediction + restAdjustments[rest]
}

// ApplyOpponentAdjustment scales a prediction by the opponent's defensive
// rating relative to the league average. A rating above league average
// (weaker defense) inflates the prediction, below deflates it. If no
// rating is stored for the opponent the prediction is returned unchanged.
func (e *Estimator) ApplyOpponentAdjustment(ctx context.Context, prediction float64, opponent string, leagueAvg float64) float64 {
	if opponent == "" || leagueAvg <= 0 {
		return prediction
	}

	profile := e.lookupDefensiveProfile(ctx, opponent)
	if profile == nil || !profile.HasRating() {
		e.logger.WithField("opponent", opponent).Warn("No defensive rating available, skipping opponent adjustment")
		return prediction
	}

	factor := *profile.DefRating / leagueAvg
	adjusted := prediction * factor

	e.logger.WithFields(logrus.Fields{
		"opponent":   opponent,
		"def_rating": *profile.DefRating,
		"factor":     factor,
	}).Debug("Applied opponent adjustment")

	return adjusted
}

func (e *Estimator) lookupDefensiveProfile(ctx context.Context, opponent string) *models.TeamDefensiveProfile {
	if profile, ok := e.ratings.Get(opponent); ok {
		return profile
	}

	profile, err := e.teams.GetDefensiveProfileByTeam(ctx, opponent)
	if err != nil {
		if err != models.ErrNotFound {
			e.logger.WithError(err).WithField("opponent", opponent).Warn("Failed to fetch defensive profile")
		}
		return nil
	}

	e.ratings.Set(opponent, profile)
	return profile
}

// RatingCache is a TTL cache for team defensive profiles keyed by team
// name or abbreviation. Ratings refresh on a schedule, so a short TTL
// keeps estimator lookups from hammering the database.
type RatingCache struct {
	cache *cache.Cache
}

// NewRatingCache creates a rating cache with the given entry TTL
func NewRatingCache(ttl time.Duration) *RatingCache {
	return &RatingCache{
		cache: cache.New(ttl, ttl*2),
	}
}

// Get returns the cached profile for a team, if present and fresh
func (rc *RatingCache) Get(team string) (*models.TeamDefensiveProfile, bool) {
	v, ok := rc.cache.Get(team)
	if !ok {
		return nil, false
	}
	return v.(*models.TeamDefensiveProfile), true
}

// Set stores a profile under the team key
func (rc *RatingCache) Set(team string, profile *models.TeamDefensiveProfile) {
	rc.cache.Set(team, profile, cache.DefaultExpiration)
}

// Flush discards all cached ratings
func (rc *RatingCache) Flush() {
	rc.cache.Flush()
}
