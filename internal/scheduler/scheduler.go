package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/studypilot/pkg/models"
	"github.com/go-co-op/gocron"
)

// Default notification window
const (
	DefaultNotificationStartHour = 8  // earliest hour reminders go out
	DefaultNotificationEndHour   = 22 // latest hour reminders go out
	DefaultTickIntervalMinutes   = 60
)

// Dispatcher receives the due list on every tick. Implemented by
// notify.Dispatcher.
type Dispatcher interface {
	OnSchedulerTick(items []models.DueItem, now time.Time)
}

// Scheduler runs the periodic tick that turns due topics into notifications
type Scheduler struct {
	scheduler  *gocron.Scheduler
	engine     *Engine
	dispatcher Dispatcher
}

// NewScheduler creates a scheduler around an engine and a dispatcher
func NewScheduler(engine *Engine, dispatcher Dispatcher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		engine:     engine,
		dispatcher: dispatcher,
	}
}

// Start begins running the periodic tick
func (s *Scheduler) Start() {
	interval := DefaultTickIntervalMinutes
	if v := os.Getenv("TICK_INTERVAL_MINUTES"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			interval = m
		}
	}

	s.scheduler.Every(interval).Minutes().Do(s.tick)
	s.scheduler.StartAsync()
}

// Stop terminates the periodic tick
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// tick runs one scheduled pass, respecting the notification time window
func (s *Scheduler) tick() {
	now := time.Now().UTC()
	currentHour := now.Hour()

	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping tick",
			currentHour, startHour, endHour)
		return
	}

	if err := s.RunTick(now); err != nil {
		log.Printf("Error running scheduler tick: %v", err)
	}
}

// RunTick computes the due list and hands it to the dispatcher. Safe to call
// redundantly; the dispatcher's idempotent event ids absorb duplicate runs.
func (s *Scheduler) RunTick(now time.Time) error {
	items, err := s.engine.DueList(now)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		log.Printf("Scheduler tick: %d topic(s) due for review", len(items))
	}
	s.dispatcher.OnSchedulerTick(items, now)
	return nil
}
