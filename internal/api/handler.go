package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/export"
	"github.com/bobby-s-dev/weather-planner/internal/location"
	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/bobby-s-dev/weather-planner/internal/services"
)

// StatusReporter is implemented by the scheduler.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type Handler struct {
	planner   *services.Planner
	weather   services.WeatherClient
	assistant services.SuggestionClient
	locate    func(c *fiber.Ctx) location.Provider
	geolocate bool
	scheduler StatusReporter
	logger    *zap.Logger
	startTime time.Time
}

type HandlerOptions struct {
	// FixedCoordinate disables browser geolocation when set.
	FixedCoordinate *models.Coordinate
	Scheduler       StatusReporter
}

func NewHandler(planner *services.Planner, weather services.WeatherClient, assistant services.SuggestionClient, opts HandlerOptions, logger *zap.Logger) *Handler {
	h := &Handler{
		planner:   planner,
		weather:   weather,
		assistant: assistant,
		locate:    ReportedLocation,
		geolocate: true,
		scheduler: opts.Scheduler,
		logger:    logger,
		startTime: time.Now(),
	}
	if opts.FixedCoordinate != nil {
		h.locate = FixedLocation(*opts.FixedCoordinate)
		h.geolocate = false
	}
	return h
}

// ReportedLocation reads the coordinate the page's geolocation script sent.
func ReportedLocation(c *fiber.Ctx) location.Provider {
	return location.Reported{
		Latitude:  c.Query("lat"),
		Longitude: c.Query("lon"),
		Denied:    c.Query("geo") == "denied",
	}
}

// FixedLocation ignores the request and always uses coord.
func FixedLocation(coord models.Coordinate) func(c *fiber.Ctx) location.Provider {
	return func(*fiber.Ctx) location.Provider {
		return location.Fixed{Coordinate: coord}
	}
}

// GetWeather handles GET /api/v1/weather
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat and lon parameters are required",
		})
	}
	coord := models.Coordinate{Latitude: lat, Longitude: lon}

	h.logger.Info("Fetching weather", zap.Float64("lat", lat), zap.Float64("lon", lon))

	snapshot, err := h.weather.FetchWeather(c.UserContext(), coord)
	if err != nil {
		h.logger.Error("Failed to get weather", zap.Error(err))
		return c.Status(weatherErrorStatus(err)).JSON(fiber.Map{
			"error":   "Failed to fetch weather data",
			"details": err.Error(),
		})
	}

	placeName, err := h.weather.FetchPlaceName(c.UserContext(), coord)
	if err != nil {
		h.logger.Warn("Failed to resolve place name", zap.Error(err))
		placeName = models.UnknownPlace
	}

	return c.JSON(snapshot.WithPlaceName(placeName))
}

func weatherErrorStatus(err error) int {
	if errors.Is(err, models.ErrConfiguration) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusBadGateway
}

// GetEvents handles GET /api/v1/events
func (h *Handler) GetEvents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"events": h.planner.Events(),
	})
}

// CreateEvent handles POST /api/v1/events
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var event models.CalendarEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.planner.AddEvent(event); err != nil {
		if errors.Is(err, models.ErrInvalidEvent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"events": h.planner.Events(),
	})
}

// DeleteEvents handles DELETE /api/v1/events/:date
func (h *Handler) DeleteEvents(c *fiber.Ctx) error {
	if err := h.planner.DeleteEvent(c.Params("date")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"events": h.planner.Events(),
	})
}

type suggestionRequest struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
}

// PostSuggestion handles POST /api/v1/assistant. Failures degrade to the
// fallback text, so the response is always 200.
func (h *Handler) PostSuggestion(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "description is required",
		})
	}

	panel := services.NewAssistantPanel(h.assistant, req.Description, req.Temperature, h.logger)
	panel.Request(c.UserContext())

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Minute)
	defer cancel()
	if _, err := panel.Wait(ctx); err != nil {
		return fiber.NewError(fiber.StatusGatewayTimeout, "suggestion timed out")
	}

	return c.JSON(panel.View())
}

// GetCalendar handles GET /api/v1/calendar.ics
func (h *Handler) GetCalendar(c *fiber.Ctx) error {
	body, skipped := export.ICS(h.planner.Events(), time.Now())
	if len(skipped) > 0 {
		h.logger.Warn("Skipped events with unparsable dates", zap.Int("count", len(skipped)))
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.SendString(body)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).String(),
		"stats":     h.planner.GetStats(),
	}
	if h.scheduler != nil {
		health["scheduler"] = h.scheduler.GetStatus()
	}
	return c.JSON(health)
}
