package weather

import (
	"context"
	"hash/fnv"
	"math/rand"
	"strings"

	"chronos/internal/plan"
)

// Simulator generates synthetic forecasts. The generator is seeded
// from the location and date, so the same pair always produces the
// same forecast and demos and tests stay reproducible.
type Simulator struct{}

func (Simulator) Name() string { return "simulated" }

// Condition weights are biased toward fair weather.
var simConditions = []struct {
	name   string
	weight float64
}{
	{"sunny", 0.25},
	{"partly cloudy", 0.25},
	{"cloudy", 0.20},
	{"light rain", 0.15},
	{"rainy", 0.10},
	{"thunderstorms", 0.05},
}

var simPrecipRange = map[string][2]int{
	"sunny":         {0, 10},
	"partly cloudy": {5, 25},
	"cloudy":        {15, 40},
	"light rain":    {50, 70},
	"rainy":         {70, 90},
	"thunderstorms": {80, 100},
}

func (Simulator) Fetch(_ context.Context, location, date string) (plan.WeatherCondition, error) {
	return Simulate(location, date), nil
}

// Simulate produces the deterministic synthetic forecast for a
// location and date.
func Simulate(location, date string) plan.WeatherCondition {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(location) + "_" + date))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	condition := pickCondition(rng.Float64())

	temp := 15 + rng.Float64()*13
	if strings.Contains(condition, "rain") || condition == "thunderstorms" {
		temp -= 3 + rng.Float64()*5
	}

	pr := simPrecipRange[condition]
	precip := pr[0] + rng.Intn(pr[1]-pr[0]+1)

	return plan.WeatherCondition{
		TemperatureC:        round1(temp),
		Condition:           condition,
		PrecipitationChance: precip,
		WindSpeedKmh:        round1(5 + rng.Float64()*20),
		HumidityPercent:     40 + rng.Intn(46),
		ForecastDate:        date,
		Location:            location,
		Simulated:           true,
	}
}

func pickCondition(roll float64) string {
	cum := 0.0
	for _, c := range simConditions {
		cum += c.weight
		if roll < cum {
			return c.name
		}
	}
	return simConditions[len(simConditions)-1].name
}
