package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"chronos/internal/classify"
	"chronos/internal/plan"
	"chronos/internal/risk"
	"chronos/internal/weather"
)

// Request is the planner input. Location and dates are explicit user
// input; the pipeline never infers them.
type Request struct {
	Request   string `json:"request"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r Request) validate() *plan.AgentError {
	if strings.TrimSpace(r.Request) == "" {
		return &plan.AgentError{
			ErrorType:  "EmptyRequest",
			Message:    "the task description is empty",
			Suggestion: "Describe what you are planning.",
		}
	}
	if strings.TrimSpace(r.Location) == "" {
		return &plan.AgentError{
			ErrorType:  "EmptyLocation",
			Message:    "no location provided",
			Suggestion: "Provide at least a city or country.",
		}
	}
	start, err := time.Parse(plan.DateLayout, r.StartDate)
	if err != nil {
		return &plan.AgentError{
			ErrorType:  "InvalidDate",
			Message:    fmt.Sprintf("start date %q is not YYYY-MM-DD", r.StartDate),
			Suggestion: "Use the YYYY-MM-DD date format.",
		}
	}
	end, err := time.Parse(plan.DateLayout, r.EndDate)
	if err != nil {
		return &plan.AgentError{
			ErrorType:  "InvalidDate",
			Message:    fmt.Sprintf("end date %q is not YYYY-MM-DD", r.EndDate),
			Suggestion: "Use the YYYY-MM-DD date format.",
		}
	}
	if end.Before(start) {
		return &plan.AgentError{
			ErrorType:  "InvalidDateRange",
			Message:    "end date is before start date",
			Suggestion: "Swap the start and end dates.",
		}
	}
	return nil
}

// Planner runs the full pipeline: gate, classify, fetch, generate,
// validate, post-process. Plan never fails past input validation;
// model or parse failures degrade to the deterministic fallback plans.
type Planner struct {
	gen     Generator
	gateway *weather.Gateway
	prompts PromptBuilder
}

func NewPlanner(gen Generator, gateway *weather.Gateway) *Planner {
	return &Planner{gen: gen, gateway: gateway}
}

func (p *Planner) Plan(ctx context.Context, req Request) (*plan.Response, error) {
	if aerr := req.validate(); aerr != nil {
		return nil, aerr
	}
	req.Location = strings.TrimSpace(req.Location)
	req.Request = strings.TrimSpace(req.Request)

	// Feasibility gate. Impossible requests stop here: no forecast is
	// fetched and no model is called.
	feasibility := classify.CheckFeasibility(req.Request, req.Location)
	if !feasibility.Feasible {
		return p.infeasibleResponse(req, feasibility), nil
	}

	classification := classify.Classify(req.Request)
	relevance := classification.Relevance()

	var trace []plan.DecisionPoint
	var forecasts []plan.WeatherCondition

	if relevance.Relevant {
		var err error
		forecasts, err = p.gateway.FetchRange(ctx, req.Location, req.StartDate, req.EndDate)
		if err != nil {
			// Range already validated; treat a gateway error as a model
			// failure and degrade.
			log.Printf("agent: forecast range fetch failed: %v", err)
		}
		if len(forecasts) > 0 {
			trace = append(trace, plan.DecisionPoint{
				Decision:  "Fetched weather data",
				Reasoning: fmt.Sprintf("Weather is relevant for outdoor activities: %s", strings.Join(relevance.OutdoorActivities, ", ")),
				DataUsed:  risk.Summary(forecasts[0]),
			})
		}
	} else {
		trace = append(trace, plan.DecisionPoint{
			Decision:  "Skipped weather lookup",
			Reasoning: "Activity appears to be primarily indoor or weather-independent",
		})
	}

	resp := p.generate(ctx, req, relevance, forecasts)

	// Enrich with precomputed data; the model never overrides these.
	resp.ID = uuid.NewString()
	resp.OriginalRequest = req.Request
	resp.ExtractedLocation = req.Location
	resp.LocationUsed = req.Location
	resp.LocationConfidence = 1.0
	resp.StartDate = req.StartDate
	resp.EndDate = req.EndDate
	// The model runs its own reality check; an infeasible verdict from
	// it stands (the gate only rules on known terrain pairs). The
	// gate's verdict fills in the feasible case.
	if resp.Feasibility.Feasible {
		resp.Feasibility = feasibility
	}
	resp.Relevance = &relevance
	if len(forecasts) > 0 {
		resp.Weather = &forecasts[0]
		resp.Forecasts = forecasts
	}
	resp.DecisionTrace = append(trace, resp.DecisionTrace...)
	resp.GeneratedAt = plan.Now()

	p.postprocess(resp, forecasts)

	return resp, nil
}

// generate runs the model and falls back to rule-based plans when the
// model is unavailable or its output does not validate.
func (p *Planner) generate(ctx context.Context, req Request, relevance plan.WeatherRelevance, forecasts []plan.WeatherCondition) *plan.Response {
	if p.gen == nil {
		return fallbackResponse(req, firstForecast(forecasts))
	}

	prompt := p.prompts.BuildPlanPrompt(req, relevance, forecasts)
	raw, err := p.gen.GeneratePlans(ctx, prompt)
	if err != nil {
		log.Printf("agent: generation failed, using fallback plans: %v", err)
		return fallbackResponse(req, firstForecast(forecasts))
	}

	resp, err := parseResponse(raw, req)
	if err != nil {
		log.Printf("agent: model output rejected, using fallback plans: %v", err)
		return fallbackResponse(req, firstForecast(forecasts))
	}
	return resp
}

// parseResponse schema-checks and decodes raw model output.
func parseResponse(raw string, req Request) (*plan.Response, error) {
	cleaned := []byte(cleanModelOutput(raw))
	if err := plan.ValidateJSON(cleaned); err != nil {
		return nil, err
	}

	var resp plan.Response
	if err := json.Unmarshal(cleaned, &resp); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	// Fields the validator needs but the pipeline owns.
	resp.OriginalRequest = req.Request
	resp.StartDate = req.StartDate
	resp.EndDate = req.EndDate
	resp.LocationConfidence = 1.0
	resp.Relevance = nil
	resp.Weather = nil
	resp.Forecasts = nil

	if err := plan.Validate(&resp); err != nil {
		return nil, fmt.Errorf("validate model output: %w", err)
	}
	return &resp, nil
}

func (p *Planner) infeasibleResponse(req Request, f plan.TaskFeasibility) *plan.Response {
	return &plan.Response{
		ID:                 uuid.NewString(),
		OriginalRequest:    req.Request,
		ExtractedLocation:  req.Location,
		LocationUsed:       req.Location,
		LocationConfidence: 1.0,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Feasibility:        f,
		Relevance: &plan.WeatherRelevance{
			Relevant:    false,
			Confidence:  1.0,
			Explanation: "Request rejected by the feasibility gate; weather was not consulted.",
		},
		DecisionTrace: []plan.DecisionPoint{
			{
				Decision:  "Rejected request at the feasibility gate",
				Reasoning: f.Reason,
			},
		},
		GeneratedAt:     plan.Now(),
		AgentConfidence: 0.95,
	}
}

func firstForecast(forecasts []plan.WeatherCondition) *plan.WeatherCondition {
	if len(forecasts) == 0 {
		return nil
	}
	return &forecasts[0]
}

var riskRank = map[plan.RiskLevel]int{
	plan.RiskLow: 0, plan.RiskMedium: 1, plan.RiskHigh: 2, plan.RiskCritical: 3,
}

// postprocess applies the deterministic schedule adjustments to the
// weather-optimized variant and settles the recommendation flags.
func (p *Planner) postprocess(resp *plan.Response, forecasts []plan.WeatherCondition) {
	if resp.PlanA == nil || resp.PlanB == nil {
		return
	}

	byDate := make(map[string]plan.WeatherCondition, len(forecasts))
	for _, w := range forecasts {
		byDate[w.ForecastDate] = w
	}

	if len(byDate) > 0 {
		optimizeSchedule(resp.PlanB, byDate)
	}

	// Recommend the lower-risk variant; ties go to the optimized plan.
	if riskRank[resp.PlanA.OverallRisk] < riskRank[resp.PlanB.OverallRisk] {
		resp.PlanA.Recommended = true
		resp.PlanB.Recommended = false
	} else {
		resp.PlanA.Recommended = false
		resp.PlanB.Recommended = true
	}
}
