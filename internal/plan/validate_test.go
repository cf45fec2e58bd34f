package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResponse() *Response {
	return &Response{
		OriginalRequest:    "picnic in the park",
		StartDate:          "2026-06-01",
		EndDate:            "2026-06-02",
		LocationUsed:       "London",
		LocationConfidence: 1.0,
		Feasibility:        TaskFeasibility{Feasible: true, Reason: "parks everywhere"},
		PlanA: &PlanOption{
			Name:    "Original Plan",
			Summary: "Picnic as requested",
			Steps: []TaskStep{
				{Order: 1, Description: "Pack food", TimeFrom: "2026-06-01T09:00", TimeTo: "2026-06-01T09:30"},
				{Order: 2, Description: "Picnic", TimeFrom: "2026-06-01T12:00", TimeTo: "2026-06-01T15:00", WeatherSensitive: true},
			},
			OverallRisk:     RiskMedium,
			RiskExplanation: "Some rain possible",
		},
		PlanB: &PlanOption{
			Name:    "Weather-Optimized",
			Summary: "Morning picnic",
			Steps: []TaskStep{
				{Order: 1, Description: "Picnic early", TimeFrom: "2026-06-02T10:00", TimeTo: "2026-06-02T12:00", WeatherSensitive: true},
			},
			OverallRisk:     RiskLow,
			RiskExplanation: "Morning stays dry",
			Recommended:     true,
		},
		AgentConfidence: 0.9,
	}
}

func TestValidate_Accepts(t *testing.T) {
	require.NoError(t, Validate(validResponse()))
}

func TestValidate_NilResponse(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidate_InfeasibleMustNotCarryPlans(t *testing.T) {
	r := validResponse()
	r.Feasibility.Feasible = false
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not carry plans")
}

func TestValidate_FeasibleNeedsBothPlans(t *testing.T) {
	r := validResponse()
	r.PlanB = nil
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan_b is missing")
}

func TestValidate_StepOrderMustBeSequential(t *testing.T) {
	r := validResponse()
	r.PlanA.Steps[1].Order = 5
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order 5, want 2")
}

func TestValidate_TimesComeInPairs(t *testing.T) {
	r := validResponse()
	r.PlanA.Steps[0].TimeTo = ""
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")
}

func TestValidate_StepOutsideDateRange(t *testing.T) {
	r := validResponse()
	r.PlanB.Steps[0].TimeFrom = "2026-06-03T10:00"
	r.PlanB.Steps[0].TimeTo = "2026-06-03T12:00"
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the plan date range")
}

func TestValidate_EndBeforeStart(t *testing.T) {
	r := validResponse()
	r.PlanA.Steps[0].TimeFrom = "2026-06-01T10:00"
	r.PlanA.Steps[0].TimeTo = "2026-06-01T09:00"
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_to before time_from")
}

func TestValidate_ChronologicalOrder(t *testing.T) {
	r := validResponse()
	r.PlanA.Steps[0].TimeFrom = "2026-06-01T13:00"
	r.PlanA.Steps[0].TimeTo = "2026-06-01T13:30"
	err := Validate(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chronological order")
}

func TestValidate_UnscheduledStepsAllowed(t *testing.T) {
	r := validResponse()
	r.PlanA.Steps = append(r.PlanA.Steps, TaskStep{Order: 3, Description: "Wrap up"})
	require.NoError(t, Validate(r))
}

func TestRiskLevel_IsValid(t *testing.T) {
	assert.True(t, RiskLow.IsValid())
	assert.True(t, RiskCritical.IsValid())
	assert.False(t, RiskLevel("").IsValid())
	assert.False(t, RiskLevel("extreme").IsValid())
}
