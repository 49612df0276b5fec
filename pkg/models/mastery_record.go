package models

import "time"

// MasteryRecord tracks a user's recall state for a single topic. Records are
// created lazily on first review and never deleted, only reset.
type MasteryRecord struct {
	TopicID        string     `json:"topic_id" db:"topic_id"`
	Confidence     int        `json:"confidence" db:"confidence"`       // 0-100 recall estimate
	CycleStage     int        `json:"cycle_stage" db:"cycle_stage"`     // index into the review interval table
	ReviewCount    int        `json:"review_count" db:"review_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"` // nil until first review
	NextReviewAt   *time.Time `json:"next_review_at" db:"next_review_at"`     // nil until first review
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Due reports whether the topic is due for review at the given time. A record
// without a scheduled review is treated as due now.
func (r MasteryRecord) Due(now time.Time) bool {
	return r.NextReviewAt == nil || !r.NextReviewAt.After(now)
}
