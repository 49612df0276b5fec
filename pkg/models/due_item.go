package models

import "time"

// DueItem is a topic whose scheduled review time has arrived or passed.
// Derived on demand by the scheduler; never persisted. The external calendar
// exporter consumes DueAt for its DTSTART field.
type DueItem struct {
	TopicID     string        `json:"topic_id"`
	TopicTitle  string        `json:"topic_title"`
	DaysOverdue int           `json:"days_overdue"`
	Priority    float64       `json:"priority"`
	DueAt       time.Time     `json:"due_at"`
	Record      MasteryRecord `json:"record"` // snapshot at computation time
}
