package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulate_Deterministic(t *testing.T) {
	a := Simulate("Paris", "2026-05-01")
	b := Simulate("Paris", "2026-05-01")
	assert.Equal(t, a, b)

	// Key normalization: case must not change the seed.
	c := Simulate("paris", "2026-05-01")
	assert.Equal(t, a.Condition, c.Condition)
	assert.Equal(t, a.PrecipitationChance, c.PrecipitationChance)
}

func TestSimulate_Bounds(t *testing.T) {
	dates := []string{"2026-05-01", "2026-05-02", "2026-05-03", "2026-05-04", "2026-05-05"}
	for _, date := range dates {
		w := Simulate("Tokyo", date)

		pr, known := simPrecipRange[w.Condition]
		assert.True(t, known, "unknown condition %q", w.Condition)
		assert.GreaterOrEqual(t, w.PrecipitationChance, pr[0])
		assert.LessOrEqual(t, w.PrecipitationChance, pr[1])

		assert.GreaterOrEqual(t, w.TemperatureC, 7.0)
		assert.LessOrEqual(t, w.TemperatureC, 28.0)
		assert.GreaterOrEqual(t, w.WindSpeedKmh, 5.0)
		assert.LessOrEqual(t, w.WindSpeedKmh, 25.0)
		assert.GreaterOrEqual(t, w.HumidityPercent, 40)
		assert.LessOrEqual(t, w.HumidityPercent, 85)

		assert.True(t, w.Simulated)
		assert.Equal(t, "Tokyo", w.Location)
		assert.Equal(t, date, w.ForecastDate)
	}
}
