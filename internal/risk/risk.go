// Package risk converts forecast data into a bounded risk score, a
// plan-level risk grade, and schedule adjustments: rain-aware transit
// buffers and better-hour suggestions for weather-sensitive steps.
package risk

import (
	"fmt"
	"strings"
	"time"

	"chronos/internal/plan"
)

var severeKeywords = []string{"thunderstorm", "storm", "heavy rain", "hail", "severe"}

// Score maps a forecast onto a 0-100 scale. Precipitation contributes
// up to 40 points, wind up to 20, the condition text up to 40.
func Score(w plan.WeatherCondition) int {
	score := 0

	switch {
	case w.PrecipitationChance >= 80:
		score += 40
	case w.PrecipitationChance >= 60:
		score += 30
	case w.PrecipitationChance >= 40:
		score += 20
	case w.PrecipitationChance >= 20:
		score += 10
	}

	switch {
	case w.WindSpeedKmh >= 40:
		score += 20
	case w.WindSpeedKmh >= 25:
		score += 10
	case w.WindSpeedKmh >= 15:
		score += 5
	}

	cond := strings.ToLower(w.Condition)
	switch {
	case containsAny(cond, severeKeywords):
		score += 40
	case strings.Contains(cond, "rain"):
		score += 15
	case strings.Contains(cond, "snow"):
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

// Level grades a score.
func Level(score int) plan.RiskLevel {
	switch {
	case score >= 60:
		return plan.RiskCritical
	case score >= 40:
		return plan.RiskHigh
	case score >= 20:
		return plan.RiskMedium
	default:
		return plan.RiskLow
	}
}

// Grade is the common Score+Level composition.
func Grade(w plan.WeatherCondition) plan.RiskLevel {
	return Level(Score(w))
}

// Buffer returns the transit buffer to insert before weather-sensitive
// steps when precipitation is likely. Zero below 30% rain chance,
// capped at one hour.
func Buffer(w plan.WeatherCondition) time.Duration {
	var buf time.Duration
	switch {
	case w.PrecipitationChance >= 70:
		buf = 45 * time.Minute
	case w.PrecipitationChance >= 50:
		buf = 30 * time.Minute
	case w.PrecipitationChance >= 30:
		buf = 15 * time.Minute
	default:
		return 0
	}
	if containsAny(strings.ToLower(w.Condition), severeKeywords) {
		buf += 15 * time.Minute
	}
	if buf > time.Hour {
		buf = time.Hour
	}
	return buf
}

// SuggestShift proposes a better start hour for an outdoor step, or -1
// when the scheduled hour is fine. Rain tends to build through the
// afternoon, so rainy-day steps move to the morning; very hot days
// move midday steps to the evening.
func SuggestShift(w plan.WeatherCondition, hour int) int {
	if w.PrecipitationChance >= 50 {
		if hour >= 14 {
			return 10
		}
		if hour >= 12 {
			return 9
		}
	}
	if w.TemperatureC >= 32 && hour >= 11 && hour <= 15 {
		return 17
	}
	return -1
}

// Explain renders the reasons behind a risk grade.
func Explain(level plan.RiskLevel, w plan.WeatherCondition) string {
	var reasons []string

	if w.PrecipitationChance >= 50 {
		reasons = append(reasons, fmt.Sprintf("High precipitation chance (%d%%)", w.PrecipitationChance))
	}
	if w.WindSpeedKmh >= 25 {
		reasons = append(reasons, fmt.Sprintf("Strong winds (%.1f km/h)", w.WindSpeedKmh))
	}
	cond := strings.ToLower(w.Condition)
	if strings.Contains(cond, "rain") || strings.Contains(cond, "storm") {
		reasons = append(reasons, fmt.Sprintf("Unfavorable conditions (%s)", w.Condition))
	}

	if len(reasons) == 0 {
		if level == plan.RiskLow {
			return "Weather conditions are favorable for outdoor activities."
		}
		return "Minor weather concerns that shouldn't significantly impact plans."
	}
	return strings.Join(reasons, " | ")
}

// Summary renders a one-line weather digest for decision traces.
func Summary(w plan.WeatherCondition) string {
	return fmt.Sprintf("%s, %.1f°C, %d%% chance of rain, wind %.1f km/h",
		titleCase(w.Condition), w.TemperatureC, w.PrecipitationChance, w.WindSpeedKmh)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
