// Package weather fetches and normalizes forecasts. A Gateway fronts a
// live provider with an in-memory TTL cache, an optional persistent
// cache, and a deterministic simulator used both as an explicit mode
// and as the fallback when the provider fails.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chronos/internal/plan"
)

// Provider abstracts a forecast source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, location, date string) (plan.WeatherCondition, error)
}

const defaultWttrBaseURL = "https://wttr.in"

// WttrClient fetches forecasts from wttr.in's j1 JSON endpoint. Free,
// no API key.
type WttrClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewWttrClient(baseURL string) *WttrClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultWttrBaseURL
	}
	return &WttrClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "chronos/1.0",
	}
}

func (c *WttrClient) Name() string { return "wttr.in" }

// j1 response shape, limited to the fields we read.
type wttrResponse struct {
	CurrentCondition []struct {
		WeatherDesc []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
	} `json:"nearest_area"`
	Weather []wttrDay `json:"weather"`
}

type wttrValue struct {
	Value string `json:"value"`
}

type wttrDay struct {
	Date     string `json:"date"`
	MaxTempC string `json:"maxtempC"`
	MinTempC string `json:"mintempC"`
	Hourly   []struct {
		ChanceOfRain  string `json:"chanceofrain"`
		WindSpeedKmph string `json:"windspeedKmph"`
		Humidity      string `json:"humidity"`
	} `json:"hourly"`
}

func (c *WttrClient) Fetch(ctx context.Context, location, date string) (plan.WeatherCondition, error) {
	url := fmt.Sprintf("%s/%s?format=j1", c.baseURL, location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return plan.WeatherCondition{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return plan.WeatherCondition{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return plan.WeatherCondition{}, fmt.Errorf("wttr.in request failed (%d)", resp.StatusCode)
	}

	var parsed wttrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return plan.WeatherCondition{}, fmt.Errorf("decode wttr.in response: %w", err)
	}
	return c.normalize(parsed, location, date)
}

// normalize maps a j1 payload onto WeatherCondition: the forecast day
// matching the requested date (first day as fallback), day temperature
// as the max/min average, and midday hourly values for rain chance,
// wind and humidity.
func (c *WttrClient) normalize(r wttrResponse, location, date string) (plan.WeatherCondition, error) {
	if len(r.Weather) == 0 {
		return plan.WeatherCondition{}, fmt.Errorf("wttr.in returned no forecast days for %q", location)
	}

	day := r.Weather[0]
	for _, w := range r.Weather {
		if w.Date == date {
			day = w
			break
		}
	}

	maxC := parseFloat(day.MaxTempC, 20)
	minC := parseFloat(day.MinTempC, 15)

	chanceOfRain, windKmph, humidity := 0, 10.0, 65
	if len(day.Hourly) > 0 {
		midday := day.Hourly[0]
		if len(day.Hourly) > 4 {
			midday = day.Hourly[4]
		}
		chanceOfRain = parseInt(midday.ChanceOfRain, 0)
		windKmph = parseFloat(midday.WindSpeedKmph, 10)
		humidity = parseInt(midday.Humidity, 65)
	}

	condition := "partly cloudy"
	if len(r.CurrentCondition) > 0 && len(r.CurrentCondition[0].WeatherDesc) > 0 {
		condition = strings.ToLower(r.CurrentCondition[0].WeatherDesc[0].Value)
	}

	resolved := location
	if len(r.NearestArea) > 0 && len(r.NearestArea[0].AreaName) > 0 {
		resolved = r.NearestArea[0].AreaName[0].Value
	}

	return plan.WeatherCondition{
		TemperatureC:        round1((maxC + minC) / 2),
		Condition:           condition,
		PrecipitationChance: chanceOfRain,
		WindSpeedKmh:        round1(windKmph),
		HumidityPercent:     humidity,
		ForecastDate:        date,
		Location:            resolved,
	}, nil
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
