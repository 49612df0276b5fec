package mastery

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/example/studypilot/pkg/models"
)

// Repository is the persistence surface the store needs. Implemented by
// database.MasteryRepository; tests supply an in-memory version.
type Repository interface {
	GetByTopic(topicID string) (*models.MasteryRecord, error)
	GetAll() ([]models.MasteryRecord, error)
	Upsert(record *models.MasteryRecord) error
}

// Tunables for the confidence/interval scheduler
const (
	// InitialConfidence is assigned when a topic is reviewed for the first time
	InitialConfidence = 50
	// SmoothingFactor is the weight kept from the previous confidence estimate
	SmoothingFactor = 0.7
	// ResetThreshold is the confidence below which the review cycle restarts
	ResetThreshold = 60
)

// DefaultIntervals are the review intervals in days, indexed by cycle stage.
// Stages beyond the table length repeat the last value (plateau).
var DefaultIntervals = []int{1, 3, 7, 14, 30}

// Store holds one mastery record per topic and is the single writer for
// confidence and scheduling fields. RecordReview and MarkReviewed are the
// only mutation paths; everything else is read-only.
type Store struct {
	repo      Repository
	intervals []int

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-topic write serialization
}

// New creates a store with the default interval table
func New(repo Repository) *Store {
	return &Store{
		repo:      repo,
		intervals: DefaultIntervals,
		locks:     make(map[string]*sync.Mutex),
	}
}

// topicLock returns the mutex serializing writes for one topic
func (s *Store) topicLock(topicID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[topicID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[topicID] = lock
	}
	return lock
}

// Get returns the mastery record for a topic, or (nil, nil) if the topic has
// never been reviewed.
func (s *Store) Get(topicID string) (*models.MasteryRecord, error) {
	return s.repo.GetByTopic(topicID)
}

// All returns every mastery record
func (s *Store) All() ([]models.MasteryRecord, error) {
	return s.repo.GetAll()
}

// IntervalDays returns the review interval for a stage, clamping out-of-range
// stages to the last table entry.
func (s *Store) IntervalDays(stage int) int {
	if stage < 0 {
		stage = 0
	}
	if stage >= len(s.intervals) {
		stage = len(s.intervals) - 1
	}
	return s.intervals[stage]
}

// MaxStage returns the index of the longest interval
func (s *Store) MaxStage() int {
	return len(s.intervals) - 1
}

// RecordReview applies one review outcome to a topic's record and schedules
// the next review. The record is created with defaults on first review.
// Writes for a topic are serialized; the repository persists all fields as
// one atomic unit so concurrent readers see either the old or the new record.
func (s *Store) RecordReview(topicID string, wasCorrect bool, now time.Time) (*models.MasteryRecord, error) {
	lock := s.topicLock(topicID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.repo.GetByTopic(topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record for %q: %v", topicID, err)
	}
	if record == nil {
		record = &models.MasteryRecord{
			TopicID:    topicID,
			Confidence: InitialConfidence,
			CycleStage: 0,
		}
	}

	// Exponential smoothing toward 100 on success, 0 on failure
	target := 0.0
	if wasCorrect {
		target = 100.0
	}
	confidence := int(math.Round(float64(record.Confidence)*SmoothingFactor + target*(1-SmoothingFactor)))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	record.Confidence = confidence

	// Low confidence restarts the cycle; otherwise advance toward the plateau
	if confidence < ResetThreshold {
		record.CycleStage = 0
	} else if record.CycleStage < s.MaxStage() {
		record.CycleStage++
	}

	next := now.AddDate(0, 0, s.IntervalDays(record.CycleStage))
	reviewed := now
	record.LastReviewedAt = &reviewed
	record.NextReviewAt = &next
	record.ReviewCount++

	if err := s.repo.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to persist record for %q: %v", topicID, err)
	}
	return record, nil
}

// MarkReviewed records a manual "mark as reviewed" action from the revision
// screen. Treated as a successful recall.
func (s *Store) MarkReviewed(topicID string, now time.Time) (*models.MasteryRecord, error) {
	return s.RecordReview(topicID, true, now)
}
