package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicEventIDs(t *testing.T) {
	day := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

	id := DailyEventID("arrays", CategoryRevisionDue, day)
	assert.Equal(t, "arrays:revision_due:2026-01-10", id)

	// Different times on the same day collapse to the same id
	assert.Equal(t, id, DailyEventID("arrays", CategoryRevisionDue, day.Add(6*time.Hour)))

	assert.Equal(t, "attempt-1:quiz_result", EventID("attempt-1", CategoryQuizResult))
}

func TestCategoryEnabled(t *testing.T) {
	settings := DefaultNotificationSettings()
	assert.True(t, settings.CategoryEnabled(CategoryStudyReminder))
	assert.True(t, settings.CategoryEnabled(CategoryQuizResult))
	assert.True(t, settings.CategoryEnabled(CategoryRevisionDue))
	assert.True(t, settings.CategoryEnabled(CategoryJobUpdate))
	assert.True(t, settings.CategoryEnabled(CategoryAchievement))
	assert.False(t, settings.CategoryEnabled("unknown"))

	settings.RevisionAlerts = false
	assert.False(t, settings.CategoryEnabled(CategoryRevisionDue))
}

func TestMasteryRecordDue(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, MasteryRecord{}.Due(now), "no scheduled review means due now")

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	assert.True(t, MasteryRecord{NextReviewAt: &past}.Due(now))
	assert.True(t, MasteryRecord{NextReviewAt: &now}.Due(now))
	assert.False(t, MasteryRecord{NextReviewAt: &future}.Due(now))
}

func TestTopicWeightDefault(t *testing.T) {
	assert.Equal(t, 1.0, Topic{}.Weight())
	assert.Equal(t, 2.5, Topic{ExamWeight: 2.5}.Weight())
}

func TestQuizTopicIDs(t *testing.T) {
	quiz := QuizDefinition{Questions: []QuizQuestion{
		{TopicID: "arrays"},
		{TopicID: "lists"},
		{TopicID: "arrays"},
		{TopicID: ""},
	}}
	assert.Equal(t, []string{"arrays", "lists"}, quiz.TopicIDs())
}
