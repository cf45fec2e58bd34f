package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chronos/internal/plan"
)

func cond(precip int, wind float64, condition string) plan.WeatherCondition {
	return plan.WeatherCondition{
		Condition:           condition,
		PrecipitationChance: precip,
		WindSpeedKmh:        wind,
	}
}

func TestScore_Components(t *testing.T) {
	assert.Equal(t, 0, Score(cond(10, 5, "sunny")))
	assert.Equal(t, 10, Score(cond(25, 5, "partly cloudy")))
	assert.Equal(t, 20, Score(cond(45, 5, "cloudy")))
	assert.Equal(t, 5, Score(cond(0, 18, "sunny")))
	assert.Equal(t, 10, Score(cond(0, 30, "sunny")))
	assert.Equal(t, 20, Score(cond(0, 45, "sunny")))
	assert.Equal(t, 15, Score(cond(0, 0, "light rain")))
	assert.Equal(t, 20, Score(cond(0, 0, "snow showers")))
	assert.Equal(t, 40, Score(cond(0, 0, "thunderstorms")))
	// Mixed conditions grade as rain, not snow.
	assert.Equal(t, 15, Score(cond(10, 0, "light rain and snow")))
}

func TestScore_Bounded(t *testing.T) {
	s := Score(cond(95, 50, "severe thunderstorms"))
	assert.Equal(t, 100, s)
}

func TestLevel_Thresholds(t *testing.T) {
	assert.Equal(t, plan.RiskLow, Level(19))
	assert.Equal(t, plan.RiskMedium, Level(20))
	assert.Equal(t, plan.RiskMedium, Level(39))
	assert.Equal(t, plan.RiskHigh, Level(40))
	assert.Equal(t, plan.RiskHigh, Level(59))
	assert.Equal(t, plan.RiskCritical, Level(60))
}

func TestGrade_RainyWindyDay(t *testing.T) {
	// 65% rain (30) + 20 km/h wind (5) + "light rain" (15) = 50 -> high
	assert.Equal(t, plan.RiskHigh, Grade(cond(65, 20, "light rain")))
}

func TestBuffer_Sizing(t *testing.T) {
	assert.Equal(t, time.Duration(0), Buffer(cond(20, 0, "cloudy")))
	assert.Equal(t, 15*time.Minute, Buffer(cond(35, 0, "cloudy")))
	assert.Equal(t, 30*time.Minute, Buffer(cond(55, 0, "light rain")))
	assert.Equal(t, 45*time.Minute, Buffer(cond(75, 0, "rainy")))
}

func TestBuffer_SevereConditionsCapAtOneHour(t *testing.T) {
	assert.Equal(t, time.Hour, Buffer(cond(85, 0, "thunderstorms")))
}

func TestSuggestShift_RainyAfternoon(t *testing.T) {
	w := cond(60, 10, "light rain")
	assert.Equal(t, 10, SuggestShift(w, 15))
	assert.Equal(t, 9, SuggestShift(w, 12))
	assert.Equal(t, -1, SuggestShift(w, 9))
}

func TestSuggestShift_HotMidday(t *testing.T) {
	w := plan.WeatherCondition{TemperatureC: 34, PrecipitationChance: 10, Condition: "sunny"}
	assert.Equal(t, 17, SuggestShift(w, 12))
	assert.Equal(t, -1, SuggestShift(w, 17))
}

func TestExplain_ListsReasons(t *testing.T) {
	w := cond(80, 30, "rainy")
	got := Explain(plan.RiskHigh, w)
	assert.Contains(t, got, "High precipitation chance (80%)")
	assert.Contains(t, got, "Strong winds")
	assert.Contains(t, got, "Unfavorable conditions (rainy)")
}

func TestExplain_FavorableDefault(t *testing.T) {
	w := cond(5, 5, "sunny")
	assert.Equal(t, "Weather conditions are favorable for outdoor activities.", Explain(plan.RiskLow, w))
}

func TestSummary(t *testing.T) {
	w := plan.WeatherCondition{
		Condition:           "partly cloudy",
		TemperatureC:        21.5,
		PrecipitationChance: 15,
		WindSpeedKmh:        12.0,
	}
	assert.Equal(t, "Partly Cloudy, 21.5°C, 15% chance of rain, wind 12.0 km/h", Summary(w))
}
