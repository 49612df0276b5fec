package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/studypilot/pkg/models"
)

// TopicRepository handles database operations for the topic catalog. The
// catalog is written only by the importer; everything else reads it.
type TopicRepository struct{}

// NewTopicRepository creates a new repository instance
func NewTopicRepository() *TopicRepository {
	return &TopicRepository{}
}

// topicRow is the storage shape of a topic; subtopics are kept as a single
// separator-joined column.
type topicRow struct {
	ID         string            `db:"id"`
	Title      string            `db:"title"`
	Subtopics  string            `db:"subtopics"`
	Difficulty models.Difficulty `db:"difficulty"`
	ExamWeight float64           `db:"exam_weight"`
	CreatedAt  sql.NullTime      `db:"created_at"`
}

const subtopicSeparator = ";"

func (row topicRow) toModel() models.Topic {
	topic := models.Topic{
		ID:         row.ID,
		Title:      row.Title,
		Difficulty: row.Difficulty,
		ExamWeight: row.ExamWeight,
	}
	if row.CreatedAt.Valid {
		topic.CreatedAt = row.CreatedAt.Time
	}
	if row.Subtopics != "" {
		topic.Subtopics = strings.Split(row.Subtopics, subtopicSeparator)
	}
	return topic
}

// GetByID returns a topic by its identifier
func (r *TopicRepository) GetByID(topicID string) (*models.Topic, error) {
	var row topicRow
	err := DB.Get(&row, "SELECT * FROM topics WHERE id = $1", topicID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("topic %q: %w", topicID, models.ErrTopicNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %v", err)
	}
	topic := row.toModel()
	return &topic, nil
}

// GetAll returns the full topic catalog ordered by identifier
func (r *TopicRepository) GetAll() ([]models.Topic, error) {
	var rows []topicRow
	err := DB.Select(&rows, "SELECT * FROM topics ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %v", err)
	}
	topics := make([]models.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.toModel())
	}
	return topics, nil
}

// Upsert creates or replaces a catalog topic. Used by the importer only.
func (r *TopicRepository) Upsert(topic *models.Topic) error {
	subtopics := strings.Join(topic.Subtopics, subtopicSeparator)

	// Same upsert syntax works on both drivers
	_, err := DB.Exec(
		`INSERT INTO topics (id, title, subtopics, difficulty, exam_weight)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subtopics = EXCLUDED.subtopics,
			difficulty = EXCLUDED.difficulty,
			exam_weight = EXCLUDED.exam_weight`,
		topic.ID, topic.Title, subtopics, topic.Difficulty, topic.ExamWeight,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert topic: %v", err)
	}
	return nil
}
