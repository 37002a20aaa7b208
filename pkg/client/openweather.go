package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"go.uber.org/zap"
)

type OpenWeatherClient struct {
	*BaseClient
	geo        *BaseClient
	apiKey     string
	baseURL    string
	geoBaseURL string
	lang       string
	now        func() time.Time
}

type OpenWeatherOptions struct {
	APIKey       string
	BaseURL      string
	GeocodingURL string
	Lang         string
}

// OpenWeatherCurrentResponse keeps only the fields the planner reads. Main
// is a pointer so that a response without it can be told apart from zeros.
type OpenWeatherCurrentResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Name string `json:"name"`
}

type ReverseGeocodingResult struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

func NewOpenWeatherClient(opts OpenWeatherOptions, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if opts.GeocodingURL == "" {
		opts.GeocodingURL = "https://api.openweathermap.org/geo/1.0"
	}
	if opts.Lang == "" {
		opts.Lang = "ja"
	}
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
		geo:        NewBaseClient("geocoding", config, logger),
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		geoBaseURL: strings.TrimRight(opts.GeocodingURL, "/"),
		lang:       opts.Lang,
		now:        time.Now,
	}
}

func (c *OpenWeatherClient) FetchWeather(ctx context.Context, coord models.Coordinate) (*models.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key is not set", models.ErrConfiguration)
	}

	query := c.coordQuery(coord)
	query.Set("units", "metric")
	endpoint := c.baseURL + "/weather"

	data, err := c.Get(ctx, endpoint+"?"+query.Encode(), endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch current weather: %v", models.ErrNetwork, err)
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", models.ErrNetwork, err)
	}

	if len(response.Weather) == 0 || response.Main == nil {
		return nil, fmt.Errorf("%w: response lacks weather or main fields", models.ErrNetwork)
	}

	return &models.WeatherSnapshot{
		Description: response.Weather[0].Description,
		Temperature: response.Main.Temp,
		TempMax:     response.Main.TempMax,
		TempMin:     response.Main.TempMin,
		FetchedAt:   c.now(),
	}, nil
}

func (c *OpenWeatherClient) FetchPlaceName(ctx context.Context, coord models.Coordinate) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: weather API key is not set", models.ErrConfiguration)
	}

	query := c.coordQuery(coord)
	query.Set("limit", "1")
	endpoint := c.geoBaseURL + "/reverse"

	data, err := c.geo.Get(ctx, endpoint+"?"+query.Encode(), endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve place name: %v", models.ErrNetwork, err)
	}

	var results []ReverseGeocodingResult
	if err := json.Unmarshal(data, &results); err != nil {
		return "", fmt.Errorf("%w: failed to parse geocoding response: %v", models.ErrNetwork, err)
	}

	if len(results) == 0 || results[0].Name == "" {
		return models.UnknownPlace, nil
	}
	return results[0].Name, nil
}

func (c *OpenWeatherClient) coordQuery(coord models.Coordinate) url.Values {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("lang", c.lang)
	return query
}
