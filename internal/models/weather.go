package models

import (
	"strconv"
	"time"
)

// UnknownPlace is shown when reverse geocoding yields no result.
const UnknownPlace = "不明"

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherSnapshot is replaced wholesale on every fetch, never mutated.
type WeatherSnapshot struct {
	Description string    `json:"description"`
	Temperature float64   `json:"temperature"`
	TempMax     float64   `json:"temp_max"`
	TempMin     float64   `json:"temp_min"`
	PlaceName   string    `json:"place_name"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// WithPlaceName returns a copy of the snapshot carrying the given place name.
func (w WeatherSnapshot) WithPlaceName(name string) WeatherSnapshot {
	w.PlaceName = name
	return w
}

// FormatTemperature renders a Celsius value without trailing zeros (22 -> "22", 18.5 -> "18.5").
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
