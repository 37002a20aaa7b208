// Package export renders planner events for external calendar clients.
package export

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/bobby-s-dev/weather-planner/internal/models"
)

const productID = "-//weather-planner//events//JA"

// ICS renders one all-day VEVENT per event. Events whose date does not
// parse as YYYY-MM-DD are skipped and reported in the second return value.
func ICS(events []models.CalendarEvent, now time.Time) (string, []models.CalendarEvent) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	var skipped []models.CalendarEvent
	for i, e := range events {
		day, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			skipped = append(skipped, e)
			continue
		}

		event := cal.AddEvent(eventUID(i, e))
		event.SetDtStampTime(now.UTC())
		event.SetSummary(e.Title)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}
	return cal.Serialize(), skipped
}

// eventUID is stable for a given position, date and title.
func eventUID(index int, e models.CalendarEvent) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%s|%s", index, e.Date, e.Title)))
	return hex.EncodeToString(sum[:8]) + "@weather-planner"
}
