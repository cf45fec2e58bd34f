package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaValidDoc = `{
	"original_request": "picnic in the park",
	"task_feasibility": {"feasible": true, "reason": "parks everywhere"},
	"plan_a": {
		"name": "Original Plan",
		"summary": "Picnic as requested",
		"steps": [
			{"order": 1, "description": "Picnic", "time_from": "2026-06-01T12:00", "time_to": "2026-06-01T15:00", "weather_sensitive": true}
		],
		"overall_risk": "medium",
		"risk_explanation": "Some rain possible"
	},
	"plan_b": {
		"name": "Weather-Optimized",
		"summary": "Morning picnic",
		"steps": [
			{"order": 1, "description": "Picnic early"}
		],
		"overall_risk": "low",
		"risk_explanation": "Morning stays dry",
		"recommended": true
	},
	"decision_trace": [
		{"decision": "Moved the picnic", "reasoning": "Rain builds in the afternoon"}
	],
	"agent_confidence": 0.9
}`

func TestValidateJSON_Accepts(t *testing.T) {
	require.NoError(t, ValidateJSON([]byte(schemaValidDoc)))
}

func TestValidateJSON_AcceptsInfeasibleWithNullPlans(t *testing.T) {
	doc := `{
		"task_feasibility": {"feasible": false, "reason": "Anand has no beach", "suggestion": "Try Goa instead"},
		"plan_a": null,
		"plan_b": null,
		"agent_confidence": 0.9
	}`
	require.NoError(t, ValidateJSON([]byte(doc)))
}

func TestValidateJSON_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"missing task_feasibility",
			`{"agent_confidence": 0.9}`,
		},
		{
			"feasibility without reason",
			`{"task_feasibility": {"feasible": true}}`,
		},
		{
			"unknown risk level",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"plan_a": {"name": "A", "summary": "s", "steps": [{"order": 1, "description": "x"}], "overall_risk": "catastrophic", "risk_explanation": "e"},
				"plan_b": {"name": "B", "summary": "s", "steps": [{"order": 1, "description": "y"}], "overall_risk": "low", "risk_explanation": "e"}
			}`,
		},
		{
			"empty steps array",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"plan_a": {"name": "A", "summary": "s", "steps": [], "overall_risk": "low", "risk_explanation": "e"},
				"plan_b": null
			}`,
		},
		{
			"empty step description",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"plan_a": {"name": "A", "summary": "s", "steps": [{"order": 1, "description": ""}], "overall_risk": "low", "risk_explanation": "e"},
				"plan_b": null
			}`,
		},
		{
			"combined time string",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"plan_a": {"name": "A", "summary": "s", "steps": [{"order": 1, "description": "x", "time_from": "08:00 - 10:00", "time_to": "2026-06-01T11:00"}], "overall_risk": "low", "risk_explanation": "e"},
				"plan_b": null
			}`,
		},
		{
			"agent confidence out of range",
			`{"task_feasibility": {"feasible": true, "reason": "ok"}, "agent_confidence": 1.5}`,
		},
		{
			"precipitation out of range",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"weather_data": {"temperature_celsius": 20, "condition": "rainy", "precipitation_chance": 120, "wind_speed_kmh": 10, "humidity_percent": 50}
			}`,
		},
		{
			"negative wind speed",
			`{
				"task_feasibility": {"feasible": true, "reason": "ok"},
				"forecasts": [{"temperature_celsius": 20, "condition": "sunny", "precipitation_chance": 5, "wind_speed_kmh": -3, "humidity_percent": 50}]
			}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestValidateJSON_RejectsMalformedJSON(t *testing.T) {
	err := ValidateJSON([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode model output")
}
