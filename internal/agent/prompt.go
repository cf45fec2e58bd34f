package agent

import (
	"fmt"
	"strings"
	"time"

	"chronos/internal/plan"
	"chronos/internal/risk"
)

const systemPrompt = `You are Chronos, a weather-adaptive planning assistant.

Your task is to help users optimize their plans based on weather conditions.

## REALITY CHECK (MANDATORY, run BEFORE anything else):
Before planning, you MUST validate whether the requested activity is physically
possible at the given location. Examples of INFEASIBLE requests:
- "Beach day in Anand" - Anand is an inland city with no beach
- "Skiing in Mumbai" - Mumbai has no ski slopes
- "Desert safari in Goa" - Goa is coastal, not desert

If the task is NOT feasible:
1. Set task_feasibility.feasible = false
2. Clearly explain why in task_feasibility.reason
3. Suggest a safe alternative (nearest valid location) in task_feasibility.suggestion
4. Do NOT generate plan_a or plan_b - set both to null
5. Do NOT hallucinate weather data or schedules

If the task IS feasible:
1. Set task_feasibility.feasible = true
2. Briefly confirm why in task_feasibility.reason (e.g., "Miami has beaches")
3. Proceed with planning normally

## LOCATION RULES (STRICT):
- The location is provided EXPLICITLY by the user via structured input
- NEVER guess, infer, or hallucinate a location
- Use ONLY the location given in the context below
- Set location_used to the exact location provided
- Set location_confidence to 1.0 (user-provided)

## DATE RANGE RULES:
- Plans may span one or more days (start_date to end_date inclusive)
- For single-day requests start_date == end_date
- ALL steps MUST have time_from and time_to within the given date range
- NEVER schedule steps outside the date range
- For multi-day plans, organize steps day-by-day in strict chronological order
- Group logically: morning activities before afternoon, Day 1 before Day 2

## Your Process (only when feasible):
1. UNDERSTAND the user's plan request
2. If weather data is provided, USE it honestly
3. GENERATE two plan options:
   - Plan A: the plan as requested, with an honest risk assessment
   - Plan B: a weather-optimized alternative
4. The recommended plan is the one with lower risk

## Rules:
- ALWAYS explain WHY you made each decision in the decision_trace
- NEVER ignore weather risks - be honest about them
- Provide SPECIFIC, actionable steps (not vague advice)
- If weather is bad, suggest alternatives (different time, backup venue)
- For EVERY step, use explicit "time_from" and "time_to" fields in ISO 8601
  format (YYYY-MM-DDTHH:MM); both present together or both null
- NEVER output a combined time string like "08:00 - 10:00"
- Step "order" is 1-indexed and strictly ascending

## JSON Output Schema:
{
  "original_request": "string",
  "location_used": "string or null",
  "location_confidence": 1.0,
  "task_feasibility": {
    "feasible": true,
    "reason": "string",
    "suggestion": "string or null"
  },
  "plan_a": {
    "name": "string (e.g., 'Original Plan')",
    "summary": "string - one sentence",
    "steps": [
      {
        "order": 1,
        "description": "string",
        "time_from": "YYYY-MM-DDTHH:MM or null",
        "time_to": "YYYY-MM-DDTHH:MM or null",
        "location": "string or null",
        "weather_sensitive": true,
        "risk_note": "string or null"
      }
    ],
    "overall_risk": "low|medium|high|critical",
    "risk_explanation": "string",
    "recommended": false
  },
  "plan_b": { same shape, "name": "Weather-Optimized", "recommended": true },
  "decision_trace": [
    { "decision": "string", "reasoning": "string", "data_used": "string or null" }
  ],
  "agent_confidence": 0.85
}

## When Weather is NOT Relevant:
Still provide two plans but note that weather doesn't significantly
impact either option.

IMPORTANT: Return ONLY the JSON object. No markdown, no explanation, just valid JSON.`

// PromptBuilder assembles the per-request context prompt.
type PromptBuilder struct{}

// BuildPlanPrompt embeds the request, the user-supplied location and
// date range, the relevance assessment, and the per-day forecasts with
// their computed risk grades.
func (PromptBuilder) BuildPlanPrompt(req Request, relevance plan.WeatherRelevance, forecasts []plan.WeatherCondition) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## User Request\n%s\n", req.Request)

	sb.WriteString("\n## Provided Context (user-supplied, do NOT override)\n")
	fmt.Fprintf(&sb, "- Location: %s\n", req.Location)
	if req.StartDate == req.EndDate {
		fmt.Fprintf(&sb, "- Date: %s (%s)\n", humanDate(req.StartDate), req.StartDate)
	} else {
		fmt.Fprintf(&sb, "- Date range: %s to %s (%s to %s)\n",
			humanDate(req.StartDate), humanDate(req.EndDate), req.StartDate, req.EndDate)
	}

	sb.WriteString("\n## Weather Relevance Assessment\n")
	fmt.Fprintf(&sb, "- Relevant: %t\n", relevance.Relevant)
	fmt.Fprintf(&sb, "- Confidence: %.0f%%\n", relevance.Confidence*100)
	fmt.Fprintf(&sb, "- Outdoor activities: %s\n", strings.Join(relevance.OutdoorActivities, ", "))

	for _, w := range forecasts {
		fmt.Fprintf(&sb, "\n## Weather Data for %s on %s\n", w.Location, w.ForecastDate)
		fmt.Fprintf(&sb, "- Condition: %s\n", w.Condition)
		fmt.Fprintf(&sb, "- Temperature: %.1f°C\n", w.TemperatureC)
		fmt.Fprintf(&sb, "- Precipitation chance: %d%%\n", w.PrecipitationChance)
		fmt.Fprintf(&sb, "- Wind speed: %.1f km/h\n", w.WindSpeedKmh)
		fmt.Fprintf(&sb, "- Humidity: %d%%\n", w.HumidityPercent)
		fmt.Fprintf(&sb, "- Calculated risk level: %s\n", risk.Grade(w))
		if w.Simulated {
			sb.WriteString("- **WARNING: This is ESTIMATED weather data (forecast unavailable for this date). Do NOT present these numbers as real. Clearly tell the user the forecast is an estimate.**\n")
		}
	}

	sb.WriteString("\n## Your Task\n")
	sb.WriteString("FIRST: Perform the REALITY CHECK. Fill in 'task_feasibility' BEFORE generating any plans.\n")
	sb.WriteString("If infeasible: set plan_a and plan_b to null, do NOT invent schedules or weather.\n")
	sb.WriteString("If feasible: generate two plan options. Plan A is the plan as requested with honest risk assessment. Plan B is a weather-optimized alternative.\n")
	sb.WriteString("Include a decision trace explaining each key decision.\n")
	fmt.Fprintf(&sb, "IMPORTANT: ALL step times MUST fall within %s to %s (inclusive).\n", req.StartDate, req.EndDate)
	sb.WriteString("IMPORTANT: Use ONLY the location provided above. Do NOT guess or change it.\n")

	return sb.String()
}

func humanDate(date string) string {
	t, err := time.Parse(plan.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
