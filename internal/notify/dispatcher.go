package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/example/studypilot/pkg/models"
)

// EventLog is the idempotent notification event store plus per-channel
// delivery bookkeeping. Implemented by database.NotificationRepository.
type EventLog interface {
	InsertIfAbsent(event *models.NotificationEvent) (bool, error)
	EnqueueDelivery(eventID, channel string) error
	PendingDeliveries(channel string) ([]models.NotificationEvent, error)
	MarkDelivered(eventID, channel string) error
	RecordDeliveryFailure(eventID, channel, message string) error
}

// ChannelKind maps a delivery channel to the settings switch that gates it
type ChannelKind string

const (
	ChannelInApp ChannelKind = "in_app"
	ChannelEmail ChannelKind = "email"
	ChannelPush  ChannelKind = "push"
)

// Channel delivers events to one medium. Delivery is best-effort; a failure
// is recorded and retried on the next tick without affecting other channels.
type Channel interface {
	Name() string
	Kind() ChannelKind
	Deliver(event models.NotificationEvent) error
}

// SettingsSource supplies the current per-category notification settings,
// owned by the external settings store.
type SettingsSource func() models.NotificationSettings

// Dispatcher is the only write path into the notification event log. It
// synthesizes events from due items and quiz completions, dedupes them with
// deterministic ids, and fans them out to delivery channels.
type Dispatcher struct {
	eventLog EventLog
	settings SettingsSource
	channels []Channel
}

// NewDispatcher creates a dispatcher
func NewDispatcher(eventLog EventLog, settings SettingsSource) *Dispatcher {
	return &Dispatcher{eventLog: eventLog, settings: settings}
}

// AddChannel registers a delivery channel
func (d *Dispatcher) AddChannel(c Channel) {
	d.channels = append(d.channels, c)
}

// channelEnabled applies the channel-level settings switches. The event log
// itself is the in-app channel, so in-app is always on.
func channelEnabled(kind ChannelKind, settings models.NotificationSettings) bool {
	switch kind {
	case ChannelEmail:
		return settings.EmailNotifications
	case ChannelPush:
		return settings.PushNotifications
	}
	return true
}

// OnSchedulerTick retries deliveries left over from earlier ticks, then
// synthesizes one RevisionDue event per due topic. Event ids embed the
// calendar date, so running the tick twice in a day is a no-op for
// already-created events.
func (d *Dispatcher) OnSchedulerTick(items []models.DueItem, now time.Time) {
	settings := d.settings()

	d.retryPending(settings)

	if settings.CategoryEnabled(models.CategoryRevisionDue) {
		for _, item := range items {
			event := &models.NotificationEvent{
				ID:       models.DailyEventID(item.TopicID, models.CategoryRevisionDue, now),
				Category: models.CategoryRevisionDue,
				Title:    fmt.Sprintf("Revision Due: %s", item.TopicTitle),
				Message: fmt.Sprintf("Your spaced repetition review for %s is due (confidence %d%%)",
					item.TopicTitle, item.Record.Confidence),
				CreatedAt: now,
			}
			d.publish(event, settings)
		}
	}
}

// OnQuizCompleted synthesizes one QuizResult event for a scored attempt
func (d *Dispatcher) OnQuizCompleted(attempt *models.QuizAttempt, quiz *models.QuizDefinition, now time.Time) {
	settings := d.settings()
	if !settings.CategoryEnabled(models.CategoryQuizResult) {
		return
	}

	event := &models.NotificationEvent{
		ID:       models.EventID(attempt.ID, models.CategoryQuizResult),
		Category: models.CategoryQuizResult,
		Title:    "Quiz Results Available",
		Message: fmt.Sprintf("Your %s quiz results are ready. You scored %d/%d!",
			quiz.Title, attempt.Score, attempt.TotalQuestions),
		CreatedAt: now,
	}
	d.publish(event, settings)
}

// publish writes the event if absent and attempts delivery on every enabled
// channel. The event log write is never rolled back by a channel failure.
func (d *Dispatcher) publish(event *models.NotificationEvent, settings models.NotificationSettings) {
	created, err := d.eventLog.InsertIfAbsent(event)
	if err != nil {
		log.Printf("Error writing notification event %s: %v", event.ID, err)
		return
	}
	if !created {
		return
	}

	for _, channel := range d.channels {
		if !channelEnabled(channel.Kind(), settings) {
			continue
		}
		if err := d.eventLog.EnqueueDelivery(event.ID, channel.Name()); err != nil {
			log.Printf("Error enqueueing delivery of %s on %s: %v", event.ID, channel.Name(), err)
			continue
		}
		d.deliver(channel, *event)
	}
}

// deliver attempts one delivery, recording the outcome
func (d *Dispatcher) deliver(channel Channel, event models.NotificationEvent) {
	if err := channel.Deliver(event); err != nil {
		log.Printf("Error delivering %s on %s: %v", event.ID, channel.Name(), err)
		if err := d.eventLog.RecordDeliveryFailure(event.ID, channel.Name(), err.Error()); err != nil {
			log.Printf("Error recording delivery failure for %s: %v", event.ID, err)
		}
		return
	}
	if err := d.eventLog.MarkDelivered(event.ID, channel.Name()); err != nil {
		log.Printf("Error marking %s delivered on %s: %v", event.ID, channel.Name(), err)
	}
}

// retryPending re-attempts deliveries that failed on earlier ticks
func (d *Dispatcher) retryPending(settings models.NotificationSettings) {
	for _, channel := range d.channels {
		if !channelEnabled(channel.Kind(), settings) {
			continue
		}
		pending, err := d.eventLog.PendingDeliveries(channel.Name())
		if err != nil {
			log.Printf("Error loading pending deliveries for %s: %v", channel.Name(), err)
			continue
		}
		for _, event := range pending {
			d.deliver(channel, event)
		}
	}
}
