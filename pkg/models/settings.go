package models

// NotificationSettings is the per-category enable/disable configuration owned
// by the external settings store. The dispatcher reads it, never mutates it.
type NotificationSettings struct {
	StudyReminders     bool `json:"study_reminders"`
	QuizResults        bool `json:"quiz_results"`
	RevisionAlerts     bool `json:"revision_alerts"`
	JobUpdates         bool `json:"job_updates"`
	Achievements       bool `json:"achievements"`
	WeeklyReports      bool `json:"weekly_reports"`
	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
}

// DefaultNotificationSettings mirrors the product defaults: everything on
// except weekly reports.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		StudyReminders:     true,
		QuizResults:        true,
		RevisionAlerts:     true,
		JobUpdates:         true,
		Achievements:       true,
		WeeklyReports:      false,
		EmailNotifications: true,
		PushNotifications:  true,
	}
}

// CategoryEnabled reports whether events of the given category may be
// created at all. Disabled categories produce no event, not a suppressed one.
func (s NotificationSettings) CategoryEnabled(c NotificationCategory) bool {
	switch c {
	case CategoryStudyReminder:
		return s.StudyReminders
	case CategoryQuizResult:
		return s.QuizResults
	case CategoryRevisionDue:
		return s.RevisionAlerts
	case CategoryJobUpdate:
		return s.JobUpdates
	case CategoryAchievement:
		return s.Achievements
	}
	return false
}
