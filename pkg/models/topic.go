package models

import "time"

// Difficulty is the coarse difficulty tag attached to topics and quizzes
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Topic represents a subject from the study catalog. Topics are authored
// externally and treated as immutable once created.
type Topic struct {
	ID         string     `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Subtopics  []string   `json:"subtopics" db:"-"` // stored as a joined column, see topic repository
	Difficulty Difficulty `json:"difficulty" db:"difficulty"`
	ExamWeight float64    `json:"exam_weight" db:"exam_weight"` // exam-relevance weight, defaults to 1.0
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Weight returns the exam-relevance weight, defaulting to 1.0 when the
// catalog left it unset.
func (t Topic) Weight() float64 {
	if t.ExamWeight <= 0 {
		return 1.0
	}
	return t.ExamWeight
}
