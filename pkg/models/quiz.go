package models

import "time"

// QuizQuestion is a single multiple-choice question. Options are keyed by a
// short option key ("a".."d") as authored in the content catalog.
type QuizQuestion struct {
	Text        string            `json:"text"`
	Options     map[string]string `json:"options"`
	CorrectKey  string            `json:"correct_key"`
	Explanation string            `json:"explanation"`
	TopicID     string            `json:"topic_id"` // topic this question reviews
}

// QuizDefinition is an immutable quiz description supplied by the external
// content catalog.
type QuizDefinition struct {
	ID              string         `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Difficulty      Difficulty     `json:"difficulty" db:"difficulty"`
	DurationMinutes int            `json:"duration_minutes" db:"duration_minutes"`
	Questions       []QuizQuestion `json:"questions" db:"-"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// TopicIDs returns the distinct topics covered by the quiz, in first-seen
// question order.
func (q QuizDefinition) TopicIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		if question.TopicID == "" || seen[question.TopicID] {
			continue
		}
		seen[question.TopicID] = true
		ids = append(ids, question.TopicID)
	}
	return ids
}
