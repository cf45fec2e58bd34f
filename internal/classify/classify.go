// Package classify performs the deterministic pre-analysis that runs
// before any model call: weather-sensitivity classification of the
// request text, and the feasibility gate rejecting physically
// impossible activity/location pairs.
package classify

import (
	"fmt"
	"strings"

	"chronos/internal/plan"
)

// Sensitivity buckets a request by how much weather matters to it.
type Sensitivity string

const (
	SensitivityNone Sensitivity = "none"
	SensitivityLow  Sensitivity = "low"
	SensitivityHigh Sensitivity = "high"
)

var outdoorActivities = []string{
	"picnic", "hiking", "hike", "camping", "camp", "beach", "swimming", "swim",
	"bbq", "barbecue", "garden", "gardening", "cycling", "bike", "biking",
	"running", "run", "jogging", "jog", "walking", "walk", "fishing", "fish",
	"golf", "tennis", "soccer", "football", "baseball", "park", "outdoor",
	"festival", "concert", "fair", "market", "parade", "wedding", "ceremony",
	"photography", "photoshoot", "zoo", "amusement park", "theme park",
	"kayaking", "surfing", "sailing", "boating", "climbing", "skiing",
}

var indoorActivities = []string{
	"meeting", "movie", "cinema", "theater", "theatre", "museum", "shopping",
	"dinner", "lunch", "restaurant", "cafe", "coffee", "gym", "workout",
	"office", "work", "study", "library", "class", "lecture", "presentation",
	"interview", "doctor", "dentist", "appointment", "spa", "massage",
	"bowling", "arcade", "escape room", "concert hall", "opera",
}

// Result carries the sensitivity bucket plus the outdoor activity
// keywords that produced it.
type Result struct {
	Sensitivity       Sensitivity
	OutdoorActivities []string
}

// Classify buckets a free-text request by weather sensitivity.
// Keyword-based: outdoor matches win ties against indoor matches, an
// explicit "outdoor"/"outside" always wins, and a request with no
// signal at all stays low rather than none; weather may still matter.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	var outdoor, indoor []string
	for _, a := range outdoorActivities {
		if strings.Contains(lower, a) {
			outdoor = append(outdoor, a)
		}
	}
	for _, a := range indoorActivities {
		if strings.Contains(lower, a) {
			indoor = append(indoor, a)
		}
	}

	if len(outdoor) > 0 && len(outdoor) >= len(indoor) {
		return Result{Sensitivity: SensitivityHigh, OutdoorActivities: outdoor}
	}
	if strings.Contains(lower, "outdoor") || strings.Contains(lower, "outside") {
		return Result{Sensitivity: SensitivityHigh, OutdoorActivities: []string{"outdoor activity"}}
	}
	if len(indoor) == 0 && len(outdoor) == 0 {
		return Result{Sensitivity: SensitivityLow}
	}
	if len(outdoor) > 0 {
		return Result{Sensitivity: SensitivityHigh, OutdoorActivities: outdoor}
	}
	return Result{Sensitivity: SensitivityNone}
}

// Relevant reports whether a forecast lookup is warranted at all.
func (r Result) Relevant() bool {
	return r.Sensitivity != SensitivityNone
}

// Relevance converts the classification into the response field.
func (r Result) Relevance() plan.WeatherRelevance {
	rel := plan.WeatherRelevance{
		Relevant:          r.Relevant(),
		OutdoorActivities: r.OutdoorActivities,
	}
	if len(r.OutdoorActivities) > 0 {
		rel.Confidence = 0.9
		rel.Explanation = fmt.Sprintf("Identified outdoor activities: %s",
			strings.Join(r.OutdoorActivities, ", "))
	} else {
		rel.Confidence = 0.7
		if r.Relevant() {
			rel.Explanation = "No specific outdoor activities identified, but weather may still be relevant"
		} else {
			rel.Explanation = "Activity appears to be primarily indoor or weather-independent"
		}
	}
	return rel
}
