package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/studypilot/pkg/models"
)

// QuizRepository handles database operations for the quiz catalog. Like the
// topic catalog it is written by the importer and read everywhere else.
type QuizRepository struct{}

// NewQuizRepository creates a new repository instance
func NewQuizRepository() *QuizRepository {
	return &QuizRepository{}
}

type quizRow struct {
	ID              string            `db:"id"`
	Title           string            `db:"title"`
	Difficulty      models.Difficulty `db:"difficulty"`
	DurationMinutes int               `db:"duration_minutes"`
	CreatedAt       sql.NullTime      `db:"created_at"`
}

type questionRow struct {
	ID          int64  `db:"id"`
	QuizID      string `db:"quiz_id"`
	Position    int    `db:"position"`
	Text        string `db:"text"`
	Options     string `db:"options"`
	CorrectKey  string `db:"correct_key"`
	Explanation string `db:"explanation"`
	TopicID     string `db:"topic_id"`
}

// GetByID returns a quiz definition with its questions in authored order
func (r *QuizRepository) GetByID(quizID string) (*models.QuizDefinition, error) {
	var row quizRow
	err := DB.Get(&row, "SELECT * FROM quizzes WHERE id = $1", quizID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("quiz %q: %w", quizID, models.ErrQuizNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %v", err)
	}

	var questionRows []questionRow
	err = DB.Select(&questionRows,
		"SELECT * FROM quiz_questions WHERE quiz_id = $1 ORDER BY position", quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %v", err)
	}

	quiz := &models.QuizDefinition{
		ID:              row.ID,
		Title:           row.Title,
		Difficulty:      row.Difficulty,
		DurationMinutes: row.DurationMinutes,
	}
	if row.CreatedAt.Valid {
		quiz.CreatedAt = row.CreatedAt.Time
	}

	for _, q := range questionRows {
		options := make(map[string]string)
		if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
			return nil, fmt.Errorf("failed to decode options for question %d: %v", q.ID, err)
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Text:        q.Text,
			Options:     options,
			CorrectKey:  q.CorrectKey,
			Explanation: q.Explanation,
			TopicID:     q.TopicID,
		})
	}

	return quiz, nil
}

// GetAll returns all quiz definitions without their questions, for listings
func (r *QuizRepository) GetAll() ([]models.QuizDefinition, error) {
	var rows []quizRow
	err := DB.Select(&rows, "SELECT * FROM quizzes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %v", err)
	}
	quizzes := make([]models.QuizDefinition, 0, len(rows))
	for _, row := range rows {
		quiz := models.QuizDefinition{
			ID:              row.ID,
			Title:           row.Title,
			Difficulty:      row.Difficulty,
			DurationMinutes: row.DurationMinutes,
		}
		if row.CreatedAt.Valid {
			quiz.CreatedAt = row.CreatedAt.Time
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// Upsert creates or replaces a quiz and its questions. Used by the importer only.
func (r *QuizRepository) Upsert(quiz *models.QuizDefinition) error {
	_, err := DB.Exec(
		`INSERT INTO quizzes (id, title, difficulty, duration_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			difficulty = EXCLUDED.difficulty,
			duration_minutes = EXCLUDED.duration_minutes`,
		quiz.ID, quiz.Title, quiz.Difficulty, quiz.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quiz: %v", err)
	}

	// Replace the question set wholesale; quizzes are small
	if _, err := DB.Exec("DELETE FROM quiz_questions WHERE quiz_id = $1", quiz.ID); err != nil {
		return fmt.Errorf("failed to clear quiz questions: %v", err)
	}

	for i, question := range quiz.Questions {
		options, err := json.Marshal(question.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options: %v", err)
		}
		_, err = DB.Exec(
			`INSERT INTO quiz_questions (
				quiz_id, position, text, options, correct_key, explanation, topic_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			quiz.ID, i, question.Text, string(options),
			question.CorrectKey, question.Explanation, question.TopicID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert quiz question: %v", err)
		}
	}

	return nil
}
