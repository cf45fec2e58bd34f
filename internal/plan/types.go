package plan

import "time"

// Time layouts used across the planner. Step times deliberately omit
// seconds and zone: plans are local-day schedules, not instants.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02T15:04"
)

// RiskLevel grades the weather impact on a plan.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var validRiskLevels = map[RiskLevel]bool{
	RiskLow: true, RiskMedium: true, RiskHigh: true, RiskCritical: true,
}

// IsValid returns true if the level is one of the known risk grades.
func (r RiskLevel) IsValid() bool {
	return validRiskLevels[r]
}

// WeatherCondition is a normalized single-day forecast, either from a
// live provider or from the deterministic simulator.
type WeatherCondition struct {
	TemperatureC        float64 `json:"temperature_celsius"`
	Condition           string  `json:"condition"`
	PrecipitationChance int     `json:"precipitation_chance"`
	WindSpeedKmh        float64 `json:"wind_speed_kmh"`
	HumidityPercent     int     `json:"humidity_percent"`
	ForecastDate        string  `json:"forecast_date"`
	Location            string  `json:"location"`
	Simulated           bool    `json:"is_simulated"`
}

// TaskStep is a single scheduled step in a plan option.
// TimeFrom and TimeTo use TimeLayout and must be set together.
type TaskStep struct {
	Order            int    `json:"order"`
	Description      string `json:"description"`
	TimeFrom         string `json:"time_from,omitempty"`
	TimeTo           string `json:"time_to,omitempty"`
	Location         string `json:"location,omitempty"`
	WeatherSensitive bool   `json:"weather_sensitive"`
	RiskNote         string `json:"risk_note,omitempty"`
}

// PlanOption is one complete itinerary variant with its risk verdict.
type PlanOption struct {
	Name            string     `json:"name"`
	Summary         string     `json:"summary"`
	Steps           []TaskStep `json:"steps"`
	OverallRisk     RiskLevel  `json:"overall_risk"`
	RiskExplanation string     `json:"risk_explanation"`
	Recommended     bool       `json:"recommended"`
}

// DecisionPoint records one decision the planner made and why.
type DecisionPoint struct {
	Decision  string `json:"decision"`
	Reasoning string `json:"reasoning"`
	DataUsed  string `json:"data_used,omitempty"`
}

// TaskFeasibility is the reality-check verdict: whether the requested
// activity is physically possible at the given location.
type TaskFeasibility struct {
	Feasible   bool   `json:"feasible"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
}

// WeatherRelevance is the classifier's assessment of whether weather
// matters for this request at all.
type WeatherRelevance struct {
	Relevant          bool     `json:"is_relevant"`
	Confidence        float64  `json:"confidence"`
	Explanation       string   `json:"explanation"`
	OutdoorActivities []string `json:"outdoor_activities"`
}

// Response is the complete planner output: both plan variants plus the
// decision trace. Plans are nil when the feasibility gate rejects.
type Response struct {
	ID                 string            `json:"id"`
	OriginalRequest    string            `json:"original_request"`
	ExtractedLocation  string            `json:"extracted_location,omitempty"`
	StartDate          string            `json:"start_date,omitempty"`
	EndDate            string            `json:"end_date,omitempty"`
	LocationUsed       string            `json:"location_used,omitempty"`
	LocationConfidence float64           `json:"location_confidence"`
	Feasibility        TaskFeasibility   `json:"task_feasibility"`
	Relevance          *WeatherRelevance `json:"weather_relevance,omitempty"`

	// Weather holds the start-date forecast; Forecasts covers every day
	// of a multi-day range.
	Weather   *WeatherCondition  `json:"weather_data,omitempty"`
	Forecasts []WeatherCondition `json:"forecasts,omitempty"`

	PlanA *PlanOption `json:"plan_a,omitempty"`
	PlanB *PlanOption `json:"plan_b,omitempty"`

	DecisionTrace   []DecisionPoint `json:"decision_trace"`
	GeneratedAt     string          `json:"generated_at"`
	AgentConfidence float64         `json:"agent_confidence"`
}

// AgentError is the structured error surface returned instead of a
// Response when the planner cannot proceed at all.
type AgentError struct {
	ErrorType         string `json:"error_type"`
	Message           string `json:"message"`
	FallbackAvailable bool   `json:"fallback_available"`
	Suggestion        string `json:"suggestion"`
}

func (e *AgentError) Error() string {
	return e.ErrorType + ": " + e.Message
}

// Now returns the current timestamp in the response wire format.
func Now() string {
	return time.Now().Format(time.RFC3339)
}
