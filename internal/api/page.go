package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/bobby-s-dev/weather-planner/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	View         services.PageView
	PanelLoading bool
	// Geolocate asks the browser for its position while the page is still
	// waiting for a coordinate.
	Geolocate bool
}

// Mount handles GET /
func (h *Handler) Mount(c *fiber.Ctx) error {
	phase := h.planner.Mount(c.UserContext(), h.locate(c))
	h.logger.Debug("Page mounted", zap.String("phase", phase.String()))
	return h.render(c)
}

// Page handles GET /planner
func (h *Handler) Page(c *fiber.Ctx) error {
	return h.render(c)
}

// SelectDate handles POST /select
func (h *Handler) SelectDate(c *fiber.Ctx) error {
	if err := h.planner.SelectDate(c.FormValue("date")); err != nil {
		h.logger.Debug("Ignoring date selection", zap.Error(err))
	}
	return c.Redirect("/planner", fiber.StatusSeeOther)
}

// CancelSelection handles POST /select/cancel
func (h *Handler) CancelSelection(c *fiber.Ctx) error {
	h.planner.CancelSelection()
	return c.Redirect("/planner", fiber.StatusSeeOther)
}

// SaveEvent handles POST /events
func (h *Handler) SaveEvent(c *fiber.Ctx) error {
	if _, err := h.planner.SaveEvent(c.FormValue("title")); err != nil {
		if !errors.Is(err, models.ErrInvalidEvent) {
			return err
		}
		h.logger.Debug("Ignoring incomplete event", zap.Error(err))
	}
	return c.Redirect("/planner", fiber.StatusSeeOther)
}

// DeleteEvent handles POST /events/delete
func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.planner.DeleteEvent(c.FormValue("date")); err != nil {
		return err
	}
	return c.Redirect("/planner", fiber.StatusSeeOther)
}

// RequestSuggestion handles POST /assistant
func (h *Handler) RequestSuggestion(c *fiber.Ctx) error {
	if !h.planner.RequestSuggestion(c.UserContext()) {
		h.logger.Debug("Suggestion already requested or weather not loaded")
	}
	return c.Redirect("/planner", fiber.StatusSeeOther)
}

func (h *Handler) render(c *fiber.Ctx) error {
	view := h.planner.View()
	data := pageData{
		View:         view,
		PanelLoading: view.Assistant != nil && view.Assistant.State == services.PanelLoading,
		Geolocate:    view.Loading && h.geolocate,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
