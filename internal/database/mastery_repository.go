package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studypilot/pkg/models"
)

// MasteryRepository handles database operations for mastery records
type MasteryRepository struct{}

// NewMasteryRepository creates a new repository instance
func NewMasteryRepository() *MasteryRepository {
	return &MasteryRepository{}
}

// GetByTopic returns the mastery record for a topic, or (nil, nil) if the
// topic has never been reviewed.
func (r *MasteryRepository) GetByTopic(topicID string) (*models.MasteryRecord, error) {
	var record models.MasteryRecord
	err := DB.Get(&record, "SELECT * FROM mastery_records WHERE topic_id = $1", topicID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mastery record: %v", err)
	}
	return &record, nil
}

// GetAll returns every mastery record
func (r *MasteryRepository) GetAll() ([]models.MasteryRecord, error) {
	var records []models.MasteryRecord
	err := DB.Select(&records, "SELECT * FROM mastery_records ORDER BY topic_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get mastery records: %v", err)
	}
	return records, nil
}

// Upsert writes a record's fields as a single atomic statement so concurrent
// readers never observe a half-updated record.
func (r *MasteryRepository) Upsert(record *models.MasteryRecord) error {
	record.UpdatedAt = time.Now()

	if IsSQLite() {
		// SQLite doesn't support ON CONFLICT together with RETURNING on this
		// driver version, so check for an existing row first
		var existing string
		err := DB.QueryRow("SELECT topic_id FROM mastery_records WHERE topic_id = $1", record.TopicID).Scan(&existing)
		if err == nil {
			_, err = DB.Exec(
				`UPDATE mastery_records SET
					confidence = $1,
					cycle_stage = $2,
					review_count = $3,
					last_reviewed_at = $4,
					next_review_at = $5,
					updated_at = CURRENT_TIMESTAMP
				WHERE topic_id = $6`,
				record.Confidence,
				record.CycleStage,
				record.ReviewCount,
				record.LastReviewedAt,
				record.NextReviewAt,
				record.TopicID,
			)
			if err != nil {
				return fmt.Errorf("failed to update mastery record: %v", err)
			}
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check mastery record: %v", err)
		}

		_, err = DB.Exec(
			`INSERT INTO mastery_records (
				topic_id, confidence, cycle_stage, review_count,
				last_reviewed_at, next_review_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			record.TopicID,
			record.Confidence,
			record.CycleStage,
			record.ReviewCount,
			record.LastReviewedAt,
			record.NextReviewAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mastery record: %v", err)
		}
		return nil
	}

	// PostgreSQL supports ON CONFLICT with RETURNING
	query := `
		INSERT INTO mastery_records (
			topic_id, confidence, cycle_stage, review_count,
			last_reviewed_at, next_review_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (topic_id) DO UPDATE SET
			confidence = EXCLUDED.confidence,
			cycle_stage = EXCLUDED.cycle_stage,
			review_count = EXCLUDED.review_count,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return DB.QueryRow(
		query,
		record.TopicID,
		record.Confidence,
		record.CycleStage,
		record.ReviewCount,
		record.LastReviewedAt,
		record.NextReviewAt,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
}
