package models

// AdjudicationStatus is the manual verdict on a non-standings season pick
type AdjudicationStatus string

// Adjudication verdicts
const (
	AdjudicationHit     AdjudicationStatus = "hit"
	AdjudicationMiss    AdjudicationStatus = "miss"
	AdjudicationPending AdjudicationStatus = "pending"
)

// IsValid reports whether s is a known verdict
func (s AdjudicationStatus) IsValid() bool {
	switch s {
	case AdjudicationHit, AdjudicationMiss, AdjudicationPending:
		return true
	}
	return false
}

// Adjudication holds a user's verdicts keyed by category field
type Adjudication struct {
	User   string                        `db:"user_name" json:"user"`
	Season int                           `db:"season" json:"season"`
	Fields map[string]AdjudicationStatus `db:"fields" json:"fields"`
}

// Status returns the verdict for a field; unknown fields are pending
func (a Adjudication) Status(field string) AdjudicationStatus {
	if a.Fields == nil {
		return AdjudicationPending
	}
	if s, ok := a.Fields[field]; ok && s.IsValid() {
		return s
	}
	return AdjudicationPending
}
