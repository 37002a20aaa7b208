package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"go.uber.org/zap"
)

// EventStore persists the whole event sequence under one key. Every
// mutation rewrites the full sequence before returning.
type EventStore struct {
	kv     KeyValueStore
	key    string
	logger *zap.Logger
}

func NewEventStore(kv KeyValueStore, key string, logger *zap.Logger) *EventStore {
	if key == "" {
		key = "events"
	}
	return &EventStore{kv: kv, key: key, logger: logger}
}

// Load returns an empty sequence when nothing is stored yet.
func (s *EventStore) Load() ([]models.CalendarEvent, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	events := []models.CalendarEvent{}
	if !ok || strings.TrimSpace(raw) == "" {
		return events, nil
	}
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("decode %q: %w", s.key, err)
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	return events, nil
}

func (s *EventStore) Save(events []models.CalendarEvent) error {
	if events == nil {
		events = []models.CalendarEvent{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", s.key, err)
	}
	s.logger.Debug("Events saved", zap.Int("count", len(events)))
	return nil
}

// Add appends e and persists the result. The input slice is not modified.
func (s *EventStore) Add(events []models.CalendarEvent, e models.CalendarEvent) ([]models.CalendarEvent, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	updated := make([]models.CalendarEvent, 0, len(events)+1)
	updated = append(updated, events...)
	updated = append(updated, e)
	if err := s.Save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove drops every event on date and persists the result.
func (s *EventStore) Remove(events []models.CalendarEvent, date string) ([]models.CalendarEvent, error) {
	updated := make([]models.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.Date != date {
			updated = append(updated, e)
		}
	}
	if err := s.Save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}
