package agent

import (
	"fmt"

	"chronos/internal/plan"
	"chronos/internal/risk"
)

// fallbackResponse builds rule-based plans when the model is
// unavailable or its output fails validation. The planner still
// replies with something honest about the weather.
func fallbackResponse(req Request, w *plan.WeatherCondition) *plan.Response {
	level := plan.RiskMedium
	explanation := "Weather data unavailable"
	if w != nil {
		level = risk.Grade(*w)
		explanation = risk.Explain(level, *w)
	}

	date := req.StartDate

	planA := &plan.PlanOption{
		Name:    "Original Plan",
		Summary: "Proceed with your plan as requested",
		Steps: []plan.TaskStep{
			{
				Order:            1,
				Description:      fmt.Sprintf("Proceed with: %s", req.Request),
				TimeFrom:         date + "T09:00",
				TimeTo:           date + "T17:00",
				WeatherSensitive: true,
				RiskNote:         fmt.Sprintf("Weather risk: %s", level),
			},
		},
		OverallRisk:     level,
		RiskExplanation: explanation,
		Recommended:     level == plan.RiskLow,
	}

	planBRisk := plan.RiskLow
	if level == plan.RiskCritical {
		planBRisk = plan.RiskMedium
	}
	planB := &plan.PlanOption{
		Name:    "Weather-Conscious Alternative",
		Summary: "Consider weather conditions when proceeding",
		Steps: []plan.TaskStep{
			{
				Order:       1,
				Description: "Check weather before leaving",
				TimeFrom:    date + "T08:00",
				TimeTo:      date + "T08:30",
			},
			{
				Order:            2,
				Description:      fmt.Sprintf("Proceed with: %s", req.Request),
				TimeFrom:         date + "T09:00",
				TimeTo:           date + "T17:00",
				WeatherSensitive: true,
				RiskNote:         "Have a backup plan ready",
			},
		},
		OverallRisk:     planBRisk,
		RiskExplanation: "Taking precautions reduces risk",
		Recommended:     level != plan.RiskLow,
	}

	return &plan.Response{
		// Fallback plans only exist for requests that passed the gate;
		// the pipeline swaps in the gate's verdict.
		Feasibility: plan.TaskFeasibility{
			Feasible: true,
			Reason:   "Request passed the feasibility check",
		},
		PlanA: planA,
		PlanB: planB,
		DecisionTrace: []plan.DecisionPoint{
			{
				Decision:  "Used fallback planning",
				Reasoning: "Model unavailable, using rule-based planning",
			},
		},
		AgentConfidence: 0.3,
	}
}
