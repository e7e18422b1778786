package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Prediction represents one user's weekly picks for a round
type Prediction struct {
	ID         uuid.UUID `db:"id" json:"id"`
	User       string    `db:"user_name" json:"user" validate:"required"`
	Season     int       `db:"season" json:"season" validate:"required,gt=0"`
	Round      int       `db:"round" json:"round" validate:"required,gt=0"`
	P1         string    `db:"p1" json:"p1"`
	P2         string    `db:"p2" json:"p2"`
	P3         string    `db:"p3" json:"p3"`
	Pole       string    `db:"pole" json:"pole"`
	FastestLap string    `db:"fastest_lap" json:"fastestLap"`

	// WildcardDriver is scored against a top-N finish; WildcardText never scores
	WildcardDriver string `db:"wildcard_driver" json:"wildcardDriver,omitempty"`
	WildcardText   string `db:"wildcard_text" json:"wildcardText,omitempty"`

	LockField string           `db:"lock_field" json:"lockField,omitempty"`
	SideBets  map[SideBet]bool `db:"side_bets" json:"sideBets,omitempty"`

	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

// NewPredictionID derives a stable id from the (user, season, round) key
func NewPredictionID(user string, season, round int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(predictionKey(user, season, round)))
}

func predictionKey(user string, season, round int) string {
	return fmt.Sprintf("%s/%d/%d", user, season, round)
}

// Slot returns the predicted driver for a required field
func (p Prediction) Slot(f Field) string {
	switch f {
	case FieldP1:
		return p.P1
	case FieldP2:
		return p.P2
	case FieldP3:
		return p.P3
	case FieldPole:
		return p.Pole
	case FieldFastestLap:
		return p.FastestLap
	}
	return ""
}

// IsComplete reports whether all five required slots are filled
func (p Prediction) IsComplete() bool {
	for _, f := range RequiredFields {
		if p.Slot(f) == "" {
			return false
		}
	}
	return true
}

// HasLock reports whether the user designated a lock field
func (p Prediction) HasLock() bool {
	return p.LockField != ""
}

// Validate checks the identifiers and the lock field reference
func (p Prediction) Validate() error {
	if p.User == "" {
		return ErrUserRequired.WithField("user")
	}
	if err := ValidateSeasonRound(p.Season, p.Round); err != nil {
		return err
	}
	if p.LockField != "" && !IsRequiredField(Field(p.LockField)) && !IsSideBet(p.LockField) {
		return ErrInvalidLockField.WithField("lockField")
	}
	return nil
}

// PredictionScore holds the computed per-category points
type PredictionScore struct {
	P1            int             `json:"score_p1"`
	P2            int             `json:"score_p2"`
	P3            int             `json:"score_p3"`
	Pole          int             `json:"score_pole"`
	FastestLap    int             `json:"score_fastestLap"`
	Wildcard      int             `json:"score_wildcard"`
	Lock          int             `json:"score_lock"`
	SideBets      int             `json:"score_sidebets"`
	SideBetDetail map[SideBet]int `json:"score_sidebet_detail,omitempty"`
	PodiumExact   bool            `json:"podium_exact"`
	Total         int             `json:"score_total"`
}

// Slot returns the score for a required field
func (s PredictionScore) Slot(f Field) int {
	switch f {
	case FieldP1:
		return s.P1
	case FieldP2:
		return s.P2
	case FieldP3:
		return s.P3
	case FieldPole:
		return s.Pole
	case FieldFastestLap:
		return s.FastestLap
	}
	return 0
}

// ScoredPrediction is a Prediction with its derived score. It is never the source of truth.
type ScoredPrediction struct {
	Prediction
	Score PredictionScore `json:"score"`
}

// LockHit reports whether the lock earned its bonus
func (sp ScoredPrediction) LockHit() bool {
	return sp.Score.Lock > 0
}
