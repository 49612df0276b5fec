package mastery

import (
	"testing"
	"time"

	"github.com/example/studypilot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory Repository for tests
type memoryRepo struct {
	records map[string]models.MasteryRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]models.MasteryRecord)}
}

func (m *memoryRepo) GetByTopic(topicID string) (*models.MasteryRecord, error) {
	record, ok := m.records[topicID]
	if !ok {
		return nil, nil
	}
	copied := record
	return &copied, nil
}

func (m *memoryRepo) GetAll() ([]models.MasteryRecord, error) {
	records := make([]models.MasteryRecord, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	return records, nil
}

func (m *memoryRepo) Upsert(record *models.MasteryRecord) error {
	m.records[record.TopicID] = *record
	return nil
}

func TestRecordReviewFirstCorrect(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	record, err := store.RecordReview("arrays", true, now)
	require.NoError(t, err)

	// round(50*0.7 + 100*0.3) = 65
	assert.Equal(t, 65, record.Confidence)
	assert.Equal(t, 1, record.CycleStage)
	assert.Equal(t, 1, record.ReviewCount)
	require.NotNil(t, record.LastReviewedAt)
	require.NotNil(t, record.NextReviewAt)
	assert.Equal(t, now, *record.LastReviewedAt)
	assert.Equal(t, now.AddDate(0, 0, 3), *record.NextReviewAt)
}

func TestRecordReviewFailureResetsCycle(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	_, err := store.RecordReview("arrays", true, now)
	require.NoError(t, err)

	later := now.AddDate(0, 0, 3)
	record, err := store.RecordReview("arrays", false, later)
	require.NoError(t, err)

	// round(65*0.7 + 0*0.3) = 46, below the reset threshold
	assert.Equal(t, 46, record.Confidence)
	assert.Equal(t, 0, record.CycleStage)
	assert.Equal(t, later.AddDate(0, 0, 1), *record.NextReviewAt)
}

func TestConfidenceStaysInBounds(t *testing.T) {
	tests := []struct {
		name       string
		wasCorrect bool
	}{
		{"all correct", true},
		{"all incorrect", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(newMemoryRepo())
			now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 50; i++ {
				record, err := store.RecordReview("topic", tt.wasCorrect, now)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, record.Confidence, 0)
				assert.LessOrEqual(t, record.Confidence, 100)
				now = *record.NextReviewAt
			}
		})
	}
}

func TestNextReviewMonotonicOnSuccess(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var prev time.Time
	for i := 0; i < 10; i++ {
		record, err := store.RecordReview("topic", true, now)
		require.NoError(t, err)
		require.NotNil(t, record.NextReviewAt)
		assert.False(t, record.NextReviewAt.Before(prev),
			"next review moved backwards on review %d", i+1)
		assert.True(t, record.NextReviewAt.After(*record.LastReviewedAt))
		prev = *record.NextReviewAt
		now = prev
	}
}

func TestIntervalPlateau(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var record *models.MasteryRecord
	var err error
	for i := 0; i < 8; i++ {
		record, err = store.RecordReview("topic", true, now)
		require.NoError(t, err)
		now = *record.NextReviewAt
	}

	// Stage never passes the end of the interval table
	assert.Equal(t, store.MaxStage(), record.CycleStage)
	assert.Equal(t, 30, store.IntervalDays(record.CycleStage))
}

func TestIntervalDaysClampsOutOfRangeStage(t *testing.T) {
	store := New(newMemoryRepo())
	assert.Equal(t, 1, store.IntervalDays(-3))
	assert.Equal(t, 30, store.IntervalDays(99))
}

func TestGetUnknownTopic(t *testing.T) {
	store := New(newMemoryRepo())
	record, err := store.Get("never-reviewed")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMarkReviewedCountsAsSuccess(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	record, err := store.MarkReviewed("arrays", now)
	require.NoError(t, err)
	assert.Equal(t, 65, record.Confidence)
	assert.Equal(t, 1, record.CycleStage)
}

func TestConcurrentReviewsSameTopic(t *testing.T) {
	store := New(newMemoryRepo())
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := store.RecordReview("shared", true, now)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	record, err := store.Get("shared")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 10, record.ReviewCount)
}
