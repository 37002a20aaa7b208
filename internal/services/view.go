package services

import (
	"fmt"
	"time"

	"github.com/bobby-s-dev/weather-planner/internal/models"
)

// PageView is everything the page template renders, copied out under the lock.
type PageView struct {
	Today        string                 `json:"today"`
	Phase        string                 `json:"phase"`
	Loading      bool                   `json:"loading"`
	Description  string                 `json:"description"`
	Temperature  string                 `json:"temperature"`
	RangeText    string                 `json:"range"`
	PlaceName    string                 `json:"place_name,omitempty"`
	Notice       string                 `json:"notice,omitempty"`
	Events       []models.CalendarEvent `json:"events"`
	SelectedDate string                 `json:"selected_date,omitempty"`
	Assistant    *PanelView             `json:"assistant,omitempty"`
	Calendar     CalendarMonth          `json:"-"`
}

type CalendarDay struct {
	Date      string
	Day       int
	InMonth   bool
	Today     bool
	Selected  bool
	HasEvents bool
}

type CalendarMonth struct {
	Title string
	Weeks [][]CalendarDay
}

func (p *Planner) View() PageView {
	now := p.opts.Now()

	p.mu.Lock()
	view := PageView{
		Today:        formatJapaneseDate(now),
		Phase:        p.phase.String(),
		Loading:      p.phase == PhaseInitializing,
		Notice:       p.notice,
		Events:       append([]models.CalendarEvent{}, p.eventList...),
		SelectedDate: p.selectedDate,
	}
	snapshot := p.snapshot
	panel := p.panel
	p.mu.Unlock()

	if snapshot != nil {
		view.Description = snapshot.Description
		view.Temperature = models.FormatTemperature(snapshot.Temperature)
		view.RangeText = fmt.Sprintf("最高: %s°C / 最低: %s°C",
			models.FormatTemperature(snapshot.TempMax),
			models.FormatTemperature(snapshot.TempMin))
		view.PlaceName = snapshot.PlaceName
	}
	if panel != nil {
		pv := panel.View()
		view.Assistant = &pv
	}
	view.Calendar = buildMonth(now, view.Events, view.SelectedDate)
	return view
}

// formatJapaneseDate matches the ja-JP short form, e.g. 2024/6/1.
func formatJapaneseDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// buildMonth lays out the month containing now in Sunday-first weeks.
func buildMonth(now time.Time, events []models.CalendarEvent, selected string) CalendarMonth {
	withEvents := make(map[string]bool, len(events))
	for _, e := range events {
		withEvents[e.Date] = true
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))
	today := now.Format("2006-01-02")

	month := CalendarMonth{Title: fmt.Sprintf("%d年%d月", now.Year(), int(now.Month()))}
	for day := start; ; {
		week := make([]CalendarDay, 0, 7)
		for i := 0; i < 7; i++ {
			date := day.Format("2006-01-02")
			week = append(week, CalendarDay{
				Date:      date,
				Day:       day.Day(),
				InMonth:   day.Month() == now.Month(),
				Today:     date == today,
				Selected:  date == selected,
				HasEvents: withEvents[date],
			})
			day = day.AddDate(0, 0, 1)
		}
		month.Weeks = append(month.Weeks, week)
		if day.Month() != now.Month() {
			break
		}
	}
	return month
}
