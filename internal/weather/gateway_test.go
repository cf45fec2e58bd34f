package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/plan"
)

type fakeProvider struct {
	mu     sync.Mutex
	calls  int
	result plan.WeatherCondition
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(_ context.Context, location, date string) (plan.WeatherCondition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls += 1
	if f.err != nil {
		return plan.WeatherCondition{}, f.err
	}
	w := f.result
	w.Location = location
	w.ForecastDate = date
	return w, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sunny() plan.WeatherCondition {
	return plan.WeatherCondition{
		TemperatureC:        22,
		Condition:           "sunny",
		PrecipitationChance: 5,
		WindSpeedKmh:        8,
		HumidityPercent:     50,
	}
}

func TestGateway_CachesByLocationAndDate(t *testing.T) {
	p := &fakeProvider{result: sunny()}
	g := NewGateway(p)
	ctx := context.Background()

	first := g.Fetch(ctx, "London", "2026-06-01")
	second := g.Fetch(ctx, "LONDON", "2026-06-01")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.callCount())

	g.Fetch(ctx, "London", "2026-06-02")
	assert.Equal(t, 2, p.callCount())
}

func TestGateway_CacheExpires(t *testing.T) {
	p := &fakeProvider{result: sunny()}
	g := NewGateway(p, WithTTL(30*time.Minute))

	current := time.Now()
	g.now = func() time.Time { return current }

	g.Fetch(context.Background(), "London", "2026-06-01")
	current = current.Add(31 * time.Minute)
	g.Fetch(context.Background(), "London", "2026-06-01")
	assert.Equal(t, 2, p.callCount())
}

func TestGateway_FallsBackToSimulationOnProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	g := NewGateway(p)

	w := g.Fetch(context.Background(), "London", "2026-06-01")
	assert.True(t, w.Simulated)
	assert.Equal(t, Simulate("London", "2026-06-01"), w)
}

func TestGateway_SimulationModeSkipsProvider(t *testing.T) {
	p := &fakeProvider{result: sunny()}
	g := NewGateway(p, WithSimulation(true))

	w := g.Fetch(context.Background(), "London", "2026-06-01")
	assert.True(t, w.Simulated)
	assert.Equal(t, 0, p.callCount())
}

func TestGateway_FetchRange(t *testing.T) {
	p := &fakeProvider{result: sunny()}
	g := NewGateway(p)

	got, err := g.FetchRange(context.Background(), "London", "2026-06-01", "2026-06-03")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-06-01", got[0].ForecastDate)
	assert.Equal(t, "2026-06-02", got[1].ForecastDate)
	assert.Equal(t, "2026-06-03", got[2].ForecastDate)
}

func TestGateway_FetchRangeRejectsInvertedRange(t *testing.T) {
	g := NewGateway(nil, WithSimulation(true))
	_, err := g.FetchRange(context.Background(), "London", "2026-06-03", "2026-06-01")
	require.Error(t, err)

	var aerr *plan.AgentError
	assert.ErrorAs(t, err, &aerr)
}

type memForecastStore struct {
	mu    sync.Mutex
	saved map[string]plan.WeatherCondition
}

func (m *memForecastStore) SaveForecast(_ context.Context, location string, w plan.WeatherCondition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]plan.WeatherCondition)
	}
	m.saved[location+"|"+w.ForecastDate] = w
	return nil
}

func (m *memForecastStore) LoadForecast(_ context.Context, location, date string, _ time.Duration) (*plan.WeatherCondition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.saved[location+"|"+date]; ok {
		return &w, nil
	}
	return nil, nil
}

func TestGateway_PersistentStoreServesAfterCacheClear(t *testing.T) {
	p := &fakeProvider{result: sunny()}
	store := &memForecastStore{}
	g := NewGateway(p, WithStore(store))
	ctx := context.Background()

	g.Fetch(ctx, "London", "2026-06-01")
	g.ClearCache()
	g.Fetch(ctx, "London", "2026-06-01")

	assert.Equal(t, 1, p.callCount())
}
