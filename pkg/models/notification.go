package models

import (
	"fmt"
	"time"
)

// NotificationCategory classifies a notification event
type NotificationCategory string

const (
	CategoryStudyReminder NotificationCategory = "study_reminder"
	CategoryQuizResult    NotificationCategory = "quiz_result"
	CategoryRevisionDue   NotificationCategory = "revision_due"
	CategoryJobUpdate     NotificationCategory = "job_update"
	CategoryAchievement   NotificationCategory = "achievement"
)

// NotificationEvent is one user-facing notification. The id is formed
// deterministically so that repeated triggers for the same subject and day
// collapse into a single event.
type NotificationEvent struct {
	ID        string               `json:"id" db:"id"`
	Category  NotificationCategory `json:"category" db:"category"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	IsRead    bool                 `json:"is_read" db:"is_read"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
}

// DailyEventID builds the deterministic id for events that may fire at most
// once per subject per day (revision and study reminders).
func DailyEventID(subjectID string, category NotificationCategory, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", subjectID, category, day.Format("2006-01-02"))
}

// EventID builds the deterministic id for one-shot events tied to a single
// subject, such as a completed quiz attempt.
func EventID(subjectID string, category NotificationCategory) string {
	return fmt.Sprintf("%s:%s", subjectID, category)
}
