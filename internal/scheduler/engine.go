package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/studypilot/pkg/models"
)

// TopicSource supplies the read-only topic catalog
type TopicSource interface {
	GetAll() ([]models.Topic, error)
}

// RecordSource supplies mastery record snapshots. Implemented by mastery.Store.
type RecordSource interface {
	All() ([]models.MasteryRecord, error)
}

// ConfidenceWeight scales how much missing confidence contributes to priority
// relative to one day of overdue time.
const ConfidenceWeight = 0.5

// Engine derives the prioritized due list from mastery state and wall-clock
// time. It never mutates anything and is safe to call concurrently with
// record writes; it sees a stale-but-consistent snapshot at worst.
type Engine struct {
	topics  TopicSource
	records RecordSource
	profile models.Profile // explicit context, never read from ambient state
}

// New creates a scheduler engine
func New(topics TopicSource, records RecordSource, profile models.Profile) *Engine {
	return &Engine{topics: topics, records: records, profile: profile}
}

// weightFor returns the exam-relevance weight for a topic. Without a target
// exam in the profile, relevance is neutral.
func (e *Engine) weightFor(topic models.Topic) float64 {
	if e.profile.TargetExam == "" {
		return 1.0
	}
	return topic.Weight()
}

// DueList returns every topic due for review at the given time, ordered by
// descending priority with deterministic tie-breaking. Topics that have never
// been reviewed are due immediately with zero overdue days.
func (e *Engine) DueList(now time.Time) ([]models.DueItem, error) {
	topics, err := e.topics.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load topic catalog: %v", err)
	}
	records, err := e.records.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %v", err)
	}

	byTopic := make(map[string]models.MasteryRecord, len(records))
	for _, record := range records {
		byTopic[record.TopicID] = record
	}

	items := make([]models.DueItem, 0, len(topics))
	for _, topic := range topics {
		record, reviewed := byTopic[topic.ID]
		if !reviewed {
			// Never studied: due now, confidence defaulted
			record = models.MasteryRecord{
				TopicID:    topic.ID,
				Confidence: 50,
			}
		}
		if !record.Due(now) {
			continue
		}

		daysOverdue := 0
		dueAt := now
		if record.NextReviewAt != nil {
			dueAt = *record.NextReviewAt
			daysOverdue = int(now.Sub(dueAt).Hours() / 24)
			if daysOverdue < 0 {
				daysOverdue = 0
			}
		}

		priority := float64(daysOverdue)*e.weightFor(topic) +
			float64(100-record.Confidence)*ConfidenceWeight

		items = append(items, models.DueItem{
			TopicID:     topic.ID,
			TopicTitle:  topic.Title,
			DaysOverdue: daysOverdue,
			Priority:    priority,
			DueAt:       dueAt,
			Record:      record,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		ni, nj := items[i].Record.NextReviewAt, items[j].Record.NextReviewAt
		// A missing next-review date sorts as the earliest possible date
		switch {
		case ni == nil && nj != nil:
			return true
		case ni != nil && nj == nil:
			return false
		case ni != nil && nj != nil && !ni.Equal(*nj):
			return ni.Before(*nj)
		}
		return items[i].TopicID < items[j].TopicID
	})

	return items, nil
}

// Stats summarizes revision state for the dashboard sidebar
type Stats struct {
	TopicsInCycle int     `json:"topics_in_cycle"`
	AvgConfidence float64 `json:"avg_confidence"`
	DueToday      int     `json:"due_today"`
}

// ComputeStats returns revision statistics at the given time
func (e *Engine) ComputeStats(now time.Time) (*Stats, error) {
	records, err := e.records.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %v", err)
	}

	stats := &Stats{TopicsInCycle: len(records)}
	if len(records) > 0 {
		total := 0
		for _, record := range records {
			total += record.Confidence
		}
		stats.AvgConfidence = float64(total) / float64(len(records))
	}

	due, err := e.DueList(now)
	if err != nil {
		return nil, err
	}
	stats.DueToday = len(due)

	return stats, nil
}
