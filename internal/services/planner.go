package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobby-s-dev/weather-planner/internal/location"
	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/bobby-s-dev/weather-planner/internal/store"
	"go.uber.org/zap"
)

type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseWeatherLoaded
	PhaseWeatherFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseWeatherLoaded:
		return "weatherLoaded"
	case PhaseWeatherFailed:
		return "weatherFailed"
	default:
		return "unknown"
	}
}

// NoticeMissingWeatherKey is shown inline when the weather key is absent.
const NoticeMissingWeatherKey = "APIキーが設定されていません"

type WeatherClient interface {
	FetchWeather(ctx context.Context, coord models.Coordinate) (*models.WeatherSnapshot, error)
	FetchPlaceName(ctx context.Context, coord models.Coordinate) (string, error)
}

type PlannerOptions struct {
	// FixedPlaceName, when set, is used instead of reverse geocoding.
	FixedPlaceName string
	Now            func() time.Time
}

// Planner is the page controller. There is a single user, so one Planner
// holds the page state for the lifetime of the process.
type Planner struct {
	weather   WeatherClient
	assistant SuggestionClient
	events    *store.EventStore
	logger    *zap.Logger
	opts      PlannerOptions

	mu           sync.Mutex
	phase        Phase
	coord        *models.Coordinate
	snapshot     *models.WeatherSnapshot
	notice       string
	eventList    []models.CalendarEvent
	selectedDate string
	panel        *AssistantPanel
	mountCount   int
	lastMount    time.Time
}

func NewPlanner(weather WeatherClient, assistant SuggestionClient, events *store.EventStore, opts PlannerOptions, logger *zap.Logger) *Planner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Planner{
		weather:   weather,
		assistant: assistant,
		events:    events,
		logger:    logger,
		opts:      opts,
		eventList: []models.CalendarEvent{},
	}
	p.loadEvents()
	return p
}

// Mount re-enters the initial flow: events are reloaded and the weather is
// resolved again for the coordinate the provider yields. A mount that is
// overtaken by a newer one leaves the state alone when it finishes.
func (p *Planner) Mount(ctx context.Context, provider location.Provider) Phase {
	p.mu.Lock()
	p.phase = PhaseInitializing
	p.coord = nil
	p.snapshot = nil
	p.notice = ""
	p.panel = nil
	p.mountCount++
	generation := p.mountCount
	p.lastMount = p.opts.Now()
	p.mu.Unlock()

	p.loadEvents()

	coord, err := provider.Resolve(ctx)
	switch {
	case errors.Is(err, models.ErrLocationPending):
		p.logger.Debug("Waiting for browser geolocation")
		return PhaseInitializing
	case err != nil:
		p.logger.Warn("Location unavailable", zap.Error(err))
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.mountCount != generation {
			return p.phase
		}
		p.phase = PhaseWeatherFailed
		return p.phase
	}

	p.mu.Lock()
	if p.mountCount != generation {
		phase := p.phase
		p.mu.Unlock()
		return phase
	}
	p.coord = &coord
	p.mu.Unlock()

	resolved, err := p.fetchSnapshot(ctx, coord)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mountCount != generation {
		p.logger.Debug("Dropping weather of a superseded mount", zap.Int("mount", generation))
		return p.phase
	}
	if err != nil {
		p.phase = PhaseWeatherFailed
		if errors.Is(err, models.ErrConfiguration) {
			p.notice = NoticeMissingWeatherKey
		}
		return p.phase
	}
	p.phase = PhaseWeatherLoaded
	p.snapshot = resolved
	p.panel = NewAssistantPanel(p.assistant, resolved.Description, resolved.Temperature, p.logger)
	return p.phase
}

// Refresh fetches the weather again for the coordinate of the current mount.
// A failed refresh keeps the last good snapshot, and the assistant panel
// survives as long as the weather it was built for is unchanged.
func (p *Planner) Refresh(ctx context.Context) (Phase, error) {
	p.mu.Lock()
	coord := p.coord
	generation := p.mountCount
	p.mu.Unlock()

	if coord == nil {
		return p.Phase(), errors.New("no coordinate resolved yet")
	}

	resolved, err := p.fetchSnapshot(ctx, *coord)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mountCount != generation {
		return p.phase, errors.New("superseded by a newer mount")
	}
	if err != nil {
		if p.snapshot == nil && errors.Is(err, models.ErrConfiguration) {
			p.notice = NoticeMissingWeatherKey
		}
		return p.phase, err
	}

	previous := p.snapshot
	p.phase = PhaseWeatherLoaded
	p.snapshot = resolved
	p.notice = ""
	if p.panel == nil || previous == nil ||
		previous.Description != resolved.Description ||
		previous.Temperature != resolved.Temperature {
		p.panel = NewAssistantPanel(p.assistant, resolved.Description, resolved.Temperature, p.logger)
	}
	return p.phase, nil
}

// fetchSnapshot runs outside the lock.
func (p *Planner) fetchSnapshot(ctx context.Context, coord models.Coordinate) (*models.WeatherSnapshot, error) {
	startTime := p.opts.Now()

	snapshot, err := p.weather.FetchWeather(ctx, coord)
	if err != nil {
		p.logger.Error("Failed to fetch weather",
			zap.Float64("lat", coord.Latitude),
			zap.Float64("lon", coord.Longitude),
			zap.Error(err))
		return nil, err
	}

	placeName := p.opts.FixedPlaceName
	if placeName == "" {
		placeName, err = p.weather.FetchPlaceName(ctx, coord)
		if err != nil {
			p.logger.Warn("Failed to resolve place name", zap.Error(err))
			placeName = models.UnknownPlace
		}
	}
	resolved := snapshot.WithPlaceName(placeName)

	p.logger.Info("Weather loaded",
		zap.String("description", resolved.Description),
		zap.Float64("temperature", resolved.Temperature),
		zap.String("place", resolved.PlaceName),
		zap.Duration("duration", p.opts.Now().Sub(startTime)))
	return &resolved, nil
}

func (p *Planner) loadEvents() {
	events, err := p.events.Load()
	if err != nil {
		p.logger.Error("Failed to load events, starting empty", zap.Error(err))
		events = []models.CalendarEvent{}
	}
	p.mu.Lock()
	p.eventList = events
	p.mu.Unlock()
}

// currentEvents re-reads the store so that edits made by another process
// sharing it are not overwritten. Callers hold p.mu.
func (p *Planner) currentEvents() []models.CalendarEvent {
	events, err := p.events.Load()
	if err != nil {
		p.logger.Warn("Failed to reload events, using the in-memory list", zap.Error(err))
		return p.eventList
	}
	p.eventList = events
	return events
}

// SelectDate opens the entry form for date.
func (p *Planner) SelectDate(date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return fmt.Errorf("%w: date is required", models.ErrInvalidEvent)
	}
	p.mu.Lock()
	p.selectedDate = date
	p.mu.Unlock()
	return nil
}

func (p *Planner) CancelSelection() {
	p.mu.Lock()
	p.selectedDate = ""
	p.mu.Unlock()
}

// SaveEvent stores title on the selected date and closes the form.
func (p *Planner) SaveEvent(title string) (models.CalendarEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selectedDate == "" {
		return models.CalendarEvent{}, fmt.Errorf("%w: no date selected", models.ErrInvalidEvent)
	}
	event := models.CalendarEvent{Title: title, Date: p.selectedDate}

	updated, err := p.events.Add(p.currentEvents(), event)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	p.eventList = updated
	p.selectedDate = ""

	p.logger.Info("Event saved", zap.String("date", event.Date))
	return event, nil
}

// AddEvent stores an event without going through the date selection.
func (p *Planner) AddEvent(event models.CalendarEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	updated, err := p.events.Add(p.currentEvents(), event)
	if err != nil {
		return err
	}
	p.eventList = updated
	return nil
}

// DeleteEvent removes every event on date.
func (p *Planner) DeleteEvent(date string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := p.currentEvents()
	updated, err := p.events.Remove(current, date)
	if err != nil {
		return err
	}
	removed := len(current) - len(updated)
	p.eventList = updated

	p.logger.Info("Events deleted", zap.String("date", date), zap.Int("removed", removed))
	return nil
}

// RequestSuggestion triggers the assistant panel of the current weather.
// It returns false when there is no panel or it was already used.
func (p *Planner) RequestSuggestion(ctx context.Context) bool {
	panel := p.Panel()
	if panel == nil {
		return false
	}
	return panel.Request(ctx)
}

// Panel returns the current assistant panel, nil until the weather is loaded.
func (p *Planner) Panel() *AssistantPanel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panel
}

func (p *Planner) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

func (p *Planner) Events() []models.CalendarEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CalendarEvent(nil), p.eventList...)
}

func (p *Planner) GetStats() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := map[string]interface{}{
		"phase":       p.phase.String(),
		"mount_count": p.mountCount,
		"last_mount":  p.lastMount,
		"events":      len(p.eventList),
	}
	if p.snapshot != nil {
		stats["weather_fetched_at"] = p.snapshot.FetchedAt
	}
	return stats
}
