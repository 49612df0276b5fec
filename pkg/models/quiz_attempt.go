package models

import "time"

// AttemptStatus is the lifecycle state of a quiz attempt
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuestionResult holds the per-question outcome computed when an attempt is
// finished, for the results screen.
type QuestionResult struct {
	Index       int    `json:"index"`
	Selected    string `json:"selected"` // empty if unanswered
	CorrectKey  string `json:"correct_key"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// QuizAttempt is one run of a quiz from start to scored completion. Answers
// map question index to the selected option key; unanswered indices are
// absent and score as incorrect.
type QuizAttempt struct {
	ID             string           `json:"id" db:"id"`
	QuizID         string           `json:"quiz_id" db:"quiz_id"`
	Answers        map[int]string   `json:"answers" db:"-"`
	Cursor         int              `json:"cursor" db:"-"` // current question index, navigation only
	Status         AttemptStatus    `json:"status" db:"status"`
	Score          int              `json:"score" db:"score"`
	TotalQuestions int              `json:"total_questions" db:"total_questions"`
	Results        []QuestionResult `json:"results,omitempty" db:"-"` // set on completion
	StartedAt      time.Time        `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at" db:"completed_at"`
}
