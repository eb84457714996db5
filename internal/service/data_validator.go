package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/metrics"
	"github.com/yourusername/hellraiser/internal/models"
)

// Validation failure reasons recorded on the metrics counter
const (
	reasonMissingFields       = "missing_fields"
	reasonNegativeCounts      = "negative_counts"
	reasonHitsExceedAtBats    = "hits_exceed_at_bats"
	reasonHomeRunIndicator    = "home_run_indicator"
	reasonHomeRunWithoutHit   = "home_run_without_hit"
	reasonBattingAverageRange = "batting_average_range"
	reasonDecayWeightRange    = "decay_weight_range"
	reasonTeamCodeFormat      = "team_code_format"
	reasonScalarMismatch      = "scalar_mismatch"
	reasonFutureDated         = "future_dated"
	reasonInvalidOdds         = "invalid_odds"
	reasonInvalidField        = "invalid_field"
)

// DataValidator checks player records at the service boundary before they
// reach the estimator. Struct tags cover required fields and numeric ranges;
// the cross-field rules here cover what tags cannot express.
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewDataValidator creates a new data validator
func NewDataValidator(log *logrus.Logger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   log.WithField("component", "validator"),
	}
}

// ValidateObservation validates a single game line
func (v *DataValidator) ValidateObservation(obs *models.GameObservation) []string {
	var errs []string

	if err := v.validate.Struct(obs); err != nil {
		v.collectTagFailures(err, &errs)
	}

	// Cross-field constraints
	if obs.Hits > obs.AtBats {
		v.fail(&errs, reasonHitsExceedAtBats,
			fmt.Sprintf("hits %d exceed at_bats %d", obs.Hits, obs.AtBats))
	}

	if obs.HomeRuns > obs.Hits && obs.HomeRuns <= 1 {
		v.fail(&errs, reasonHomeRunWithoutHit,
			"a home-run game must record at least one hit")
	}

	if obs.BattingAverage > 1.0 {
		v.fail(&errs, reasonBattingAverageRange,
			fmt.Sprintf("batting_average must be within [0, 1], got %v", obs.BattingAverage))
	}

	// The struct tag admits zero so at-rest rows can be unweighted; a record
	// handed to the estimator must carry a stamped weight in (0, 1]
	if obs.DecayWeight == 0 {
		v.fail(&errs, reasonDecayWeightRange, "decay_weight must be within (0, 1], got 0")
	}

	return errs
}

// ValidateRecord validates a full player record including its observations
func (v *DataValidator) ValidateRecord(record *models.PlayerRecord) []string {
	if record == nil {
		return []string{"player record is nil"}
	}

	var errs []string

	if err := v.validate.Struct(record); err != nil {
		v.collectTagFailures(err, &errs)
	}

	if record.GameDate.IsZero() {
		v.fail(&errs, reasonMissingFields, "game_date is required")
	}

	if record.Team != "" && !v.IsValidTeamCode(record.Team) {
		v.fail(&errs, reasonTeamCodeFormat,
			fmt.Sprintf("team code must be 2-3 uppercase letters, got %q", record.Team))
	}

	homeRunGames := 0
	for i := range record.Observations {
		obs := &record.Observations[i]
		homeRunGames += obs.HomeRuns

		for _, msg := range v.ValidateObservation(obs) {
			errs = append(errs, fmt.Sprintf("observation %d: %s", i, msg))
		}

		if !record.GameDate.IsZero() && obs.Date.After(record.GameDate) {
			v.fail(&errs, reasonFutureDated,
				fmt.Sprintf("observation %d dated %s after game date %s",
					i, obs.Date.Format("2006-01-02"), record.GameDate.Format("2006-01-02")))
		}
	}

	// Season scalars must cover at least what the observations show
	if record.RecentGamesPlayed < len(record.Observations) {
		v.fail(&errs, reasonScalarMismatch,
			fmt.Sprintf("recent_games_played %d below observation count %d",
				record.RecentGamesPlayed, len(record.Observations)))
	}

	if record.RecentHomeRunCount < homeRunGames {
		v.fail(&errs, reasonScalarMismatch,
			fmt.Sprintf("recent_home_run_count %d below observed home-run games %d",
				record.RecentHomeRunCount, homeRunGames))
	}

	if record.Odds != nil && record.Odds.American.IsZero() {
		v.fail(&errs, reasonInvalidOdds, "odds american price cannot be zero")
	}

	return errs
}

// IsValidTeamCode reports whether a team code looks like a league abbreviation
func (v *DataValidator) IsValidTeamCode(team string) bool {
	if len(team) < 2 || len(team) > 3 {
		return false
	}
	for _, r := range team {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// fail appends a validation message and bumps the failure counter
func (v *DataValidator) fail(errs *[]string, reason, msg string) {
	*errs = append(*errs, msg)
	metrics.RecordValidationFailure(reason)
}

// collectTagFailures converts struct-tag violations into validation messages
func (v *DataValidator) collectTagFailures(err error, errs *[]string) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		v.fail(errs, reasonInvalidField, err.Error())
		return
	}

	for _, fieldError := range fieldErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()

		var msg string
		switch tag {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "gt", "gte", "lt", "lte":
			msg = fmt.Sprintf("%s violates the %s=%s constraint, got %v",
				field, tag, fieldError.Param(), fieldError.Value())
		default:
			msg = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
		v.fail(errs, reasonForField(field), msg)
	}
}

// reasonForField maps a struct field to its metrics failure reason
func reasonForField(field string) string {
	switch field {
	case "PlayerName", "Team", "Date":
		return reasonMissingFields
	case "AtBats", "Hits", "RecentHomeRunCount", "RecentGamesPlayed":
		return reasonNegativeCounts
	case "HomeRuns":
		return reasonHomeRunIndicator
	case "BattingAverage":
		return reasonBattingAverageRange
	case "DecayWeight":
		return reasonDecayWeightRange
	default:
		return reasonInvalidField
	}
}
