package models

import (
	"fmt"
	"strings"
)

// CalendarEvent is persisted as {"title","date"}. Date is a calendar-day
// identifier such as "2024-06-01".
type CalendarEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Validate only checks presence. A title of spaces is still a title.
func (e CalendarEvent) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	return nil
}

// FallbackSuggestion replaces the assistant's answer whenever the fetch fails.
const FallbackSuggestion = "AIから提案を取得できませんでした。"
