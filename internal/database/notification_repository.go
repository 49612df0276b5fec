package database

import (
	"fmt"

	"github.com/example/studypilot/pkg/models"
)

// NotificationRepository handles the notification event log and per-channel
// delivery bookkeeping.
type NotificationRepository struct{}

// NewNotificationRepository creates a new repository instance
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// InsertIfAbsent writes an event unless one with the same id already exists.
// Returns true if the event was created. This is the idempotence guard that
// keeps a re-run scheduler tick from producing duplicate reminders.
func (r *NotificationRepository) InsertIfAbsent(event *models.NotificationEvent) (bool, error) {
	var query string
	if IsSQLite() {
		query = `
			INSERT OR IGNORE INTO notification_events (id, category, title, message, is_read, created_at)
			VALUES ($1, $2, $3, $4, false, $5)
		`
	} else {
		query = `
			INSERT INTO notification_events (id, category, title, message, is_read, created_at)
			VALUES ($1, $2, $3, $4, false, $5)
			ON CONFLICT (id) DO NOTHING
		`
	}

	result, err := DB.Exec(query,
		event.ID, event.Category, event.Title, event.Message, event.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification event: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %v", err)
	}
	return rows > 0, nil
}

// GetAll returns all events, newest first
func (r *NotificationRepository) GetAll() ([]models.NotificationEvent, error) {
	var events []models.NotificationEvent
	err := DB.Select(&events, "SELECT * FROM notification_events ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get notification events: %v", err)
	}
	return events, nil
}

// UnreadCount returns the number of unread events
func (r *NotificationRepository) UnreadCount() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM notification_events WHERE is_read = false")
	if err != nil {
		return 0, fmt.Errorf("failed to count unread events: %v", err)
	}
	return count, nil
}

// MarkRead flags a single event as read
func (r *NotificationRepository) MarkRead(eventID string) error {
	_, err := DB.Exec("UPDATE notification_events SET is_read = true WHERE id = $1", eventID)
	return err
}

// MarkAllRead flags every event as read
func (r *NotificationRepository) MarkAllRead() error {
	_, err := DB.Exec("UPDATE notification_events SET is_read = true")
	return err
}

// Delete removes a single event and its delivery records
func (r *NotificationRepository) Delete(eventID string) error {
	if _, err := DB.Exec("DELETE FROM notification_deliveries WHERE event_id = $1", eventID); err != nil {
		return err
	}
	_, err := DB.Exec("DELETE FROM notification_events WHERE id = $1", eventID)
	return err
}

// DeleteAll clears the event log
func (r *NotificationRepository) DeleteAll() error {
	if _, err := DB.Exec("DELETE FROM notification_deliveries"); err != nil {
		return err
	}
	_, err := DB.Exec("DELETE FROM notification_events")
	return err
}

// EnqueueDelivery records that an event is owed a delivery on a channel
func (r *NotificationRepository) EnqueueDelivery(eventID, channel string) error {
	var query string
	if IsSQLite() {
		query = `
			INSERT OR IGNORE INTO notification_deliveries (event_id, channel, delivered, attempts)
			VALUES ($1, $2, false, 0)
		`
	} else {
		query = `
			INSERT INTO notification_deliveries (event_id, channel, delivered, attempts)
			VALUES ($1, $2, false, 0)
			ON CONFLICT (event_id, channel) DO NOTHING
		`
	}
	_, err := DB.Exec(query, eventID, channel)
	if err != nil {
		return fmt.Errorf("failed to enqueue delivery: %v", err)
	}
	return nil
}

// PendingDeliveries returns events still owed to a channel, oldest first
func (r *NotificationRepository) PendingDeliveries(channel string) ([]models.NotificationEvent, error) {
	var events []models.NotificationEvent
	err := DB.Select(&events, `
		SELECT e.* FROM notification_events e
		JOIN notification_deliveries d ON d.event_id = e.id
		WHERE d.channel = $1 AND d.delivered = false
		ORDER BY e.created_at, e.id
	`, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deliveries: %v", err)
	}
	return events, nil
}

// MarkDelivered records a successful delivery
func (r *NotificationRepository) MarkDelivered(eventID, channel string) error {
	_, err := DB.Exec(`
		UPDATE notification_deliveries
		SET delivered = true, attempts = attempts + 1, last_error = ''
		WHERE event_id = $1 AND channel = $2
	`, eventID, channel)
	return err
}

// RecordDeliveryFailure records a failed delivery so the next tick retries it
func (r *NotificationRepository) RecordDeliveryFailure(eventID, channel, message string) error {
	_, err := DB.Exec(`
		UPDATE notification_deliveries
		SET attempts = attempts + 1, last_error = $1
		WHERE event_id = $2 AND channel = $3
	`, message, eventID, channel)
	return err
}
