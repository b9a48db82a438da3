package schedule

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Handler is the callback invoked when a scheduled exploration fires.
type Handler func(exp *Exploration)

// Scheduler registers enabled explorations as cron entries and fires them
// through a handler callback.
type Scheduler struct {
	store   *Store
	handler Handler
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler backed by the given store. The handler is called
// each time a scheduled exploration fires.
func New(store *Store, handler Handler) *Scheduler {
	return &Scheduler{
		store:   store,
		handler: handler,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads explorations from the store, registers enabled ones that have
// a schedule as cron entries, and starts the cron ticker.
func (s *Scheduler) Start() error {
	explorations, err := s.store.List()
	if err != nil {
		return err
	}

	for _, exp := range explorations {
		if exp.Schedule == "" || !exp.Enabled {
			continue
		}

		exp := exp
		_, err := s.cron.AddFunc(exp.Schedule, func() {
			slog.Info("cron firing exploration", "name", exp.Name, "user_id", exp.UserID)
			s.handler(exp)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", exp.Name, "schedule", exp.Schedule, "error", err)
			continue
		}
		slog.Info("scheduled exploration", "name", exp.Name, "schedule", exp.Schedule)
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and calls Start() again.
func (s *Scheduler) Reload() error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
