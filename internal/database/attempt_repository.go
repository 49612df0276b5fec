package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/studypilot/pkg/models"
)

// AttemptRepository archives completed quiz attempts. In-progress attempts
// live only in the quiz engine and never touch storage.
type AttemptRepository struct{}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{}
}

type attemptRow struct {
	ID             string       `db:"id"`
	QuizID         string       `db:"quiz_id"`
	Score          int          `db:"score"`
	TotalQuestions int          `db:"total_questions"`
	Answers        string       `db:"answers"`
	StartedAt      sql.NullTime `db:"started_at"`
	CompletedAt    sql.NullTime `db:"completed_at"`
}

// SaveCompleted archives a completed attempt with its answer map
func (r *AttemptRepository) SaveCompleted(attempt *models.QuizAttempt) error {
	if attempt.Status != models.AttemptCompleted {
		return fmt.Errorf("attempt %s: %w", attempt.ID, models.ErrInvalidState)
	}

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %v", err)
	}

	_, err = DB.Exec(
		`INSERT INTO quiz_attempts (
			id, quiz_id, score, total_questions, answers, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID,
		attempt.QuizID,
		attempt.Score,
		attempt.TotalQuestions,
		string(answers),
		attempt.StartedAt,
		attempt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt: %v", err)
	}
	return nil
}

// GetLastForQuiz returns the most recently completed attempt for a quiz, or
// (nil, nil) if the quiz has never been attempted.
func (r *AttemptRepository) GetLastForQuiz(quizID string) (*models.QuizAttempt, error) {
	var row attemptRow
	err := DB.Get(&row,
		"SELECT * FROM quiz_attempts WHERE quiz_id = $1 ORDER BY completed_at DESC LIMIT 1", quizID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last attempt: %v", err)
	}
	return row.toModel()
}

func (row attemptRow) toModel() (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{
		ID:             row.ID,
		QuizID:         row.QuizID,
		Score:          row.Score,
		TotalQuestions: row.TotalQuestions,
		Status:         models.AttemptCompleted,
	}
	if err := json.Unmarshal([]byte(row.Answers), &attempt.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %v", err)
	}
	if row.StartedAt.Valid {
		attempt.StartedAt = row.StartedAt.Time
	}
	if row.CompletedAt.Valid {
		completed := row.CompletedAt.Time
		attempt.CompletedAt = &completed
	}
	return attempt, nil
}

// GetStats returns aggregate quiz statistics for the dashboard
func (r *AttemptRepository) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var completed int
	err := DB.Get(&completed, "SELECT COUNT(*) FROM quiz_attempts")
	if err != nil {
		return nil, err
	}
	stats["quizzes_completed"] = completed

	var avgScore float64
	err = DB.Get(&avgScore, `
		SELECT COALESCE(AVG(CAST(score AS REAL) / total_questions * 100), 0)
		FROM quiz_attempts WHERE total_questions > 0
	`)
	if err != nil {
		return nil, err
	}
	stats["average_score"] = avgScore

	var perfect int
	err = DB.Get(&perfect, "SELECT COUNT(*) FROM quiz_attempts WHERE score = total_questions")
	if err != nil {
		return nil, err
	}
	stats["perfect_scores"] = perfect

	return stats, nil
}
