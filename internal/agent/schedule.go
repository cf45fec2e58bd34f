package agent

import (
	"fmt"
	"sort"
	"time"

	"chronos/internal/plan"
	"chronos/internal/risk"
)

const bufferDescription = "Transition buffer: allow extra travel time (rain likely)"

// optimizeSchedule rearranges a plan around adverse weather windows:
// weather-sensitive steps move to a better hour of the same day when
// the scorer suggests one, steps are re-sorted chronologically, and
// transit buffers are injected ahead of outdoor steps on rainy days.
func optimizeSchedule(opt *plan.PlanOption, byDate map[string]plan.WeatherCondition) {
	shiftSteps(opt, byDate)
	sortSteps(opt)
	injectBuffers(opt, byDate)
	renumber(opt)
}

func shiftSteps(opt *plan.PlanOption, byDate map[string]plan.WeatherCondition) {
	for i := range opt.Steps {
		s := &opt.Steps[i]
		if !s.WeatherSensitive || s.TimeFrom == "" {
			continue
		}
		from, to, ok := stepTimes(*s)
		if !ok {
			continue
		}
		w, ok := byDate[from.Format(plan.DateLayout)]
		if !ok {
			continue
		}

		hour := risk.SuggestShift(w, from.Hour())
		if hour < 0 {
			continue
		}

		newFrom := time.Date(from.Year(), from.Month(), from.Day(), hour, from.Minute(), 0, 0, from.Location())
		newTo := newFrom.Add(to.Sub(from))
		if newTo.Format(plan.DateLayout) != newFrom.Format(plan.DateLayout) {
			continue // shifted step would spill into the next day
		}

		note := fmt.Sprintf("Moved from %02d:%02d to dodge the worst weather window", from.Hour(), from.Minute())
		if s.RiskNote != "" {
			note = s.RiskNote + "; " + note
		}
		s.TimeFrom = newFrom.Format(plan.TimeLayout)
		s.TimeTo = newTo.Format(plan.TimeLayout)
		s.RiskNote = note
	}
}

// sortSteps orders scheduled steps chronologically; unscheduled steps
// keep their relative order after the scheduled ones.
func sortSteps(opt *plan.PlanOption) {
	sort.SliceStable(opt.Steps, func(i, j int) bool {
		a, b := opt.Steps[i], opt.Steps[j]
		if a.TimeFrom == "" || b.TimeFrom == "" {
			return b.TimeFrom == "" && a.TimeFrom != ""
		}
		return a.TimeFrom < b.TimeFrom
	})
}

// injectBuffers inserts a transit buffer between consecutive scheduled
// steps when the following step is weather-sensitive, rain is likely
// that day, and the gap has room for the buffer.
func injectBuffers(opt *plan.PlanOption, byDate map[string]plan.WeatherCondition) {
	out := make([]plan.TaskStep, 0, len(opt.Steps))

	for i, s := range opt.Steps {
		if i == 0 || !s.WeatherSensitive || s.Description == bufferDescription {
			out = append(out, s)
			continue
		}
		prev := opt.Steps[i-1]
		if prev.Description == bufferDescription {
			out = append(out, s)
			continue
		}

		from, _, ok := stepTimes(s)
		if !ok {
			out = append(out, s)
			continue
		}
		_, prevTo, prevOK := stepTimes(prev)
		if !prevOK {
			out = append(out, s)
			continue
		}

		w, found := byDate[from.Format(plan.DateLayout)]
		if !found {
			out = append(out, s)
			continue
		}
		buf := risk.Buffer(w)
		if buf == 0 || from.Sub(prevTo) < buf {
			out = append(out, s)
			continue
		}

		out = append(out, plan.TaskStep{
			Description: bufferDescription,
			TimeFrom:    from.Add(-buf).Format(plan.TimeLayout),
			TimeTo:      s.TimeFrom,
			RiskNote:    fmt.Sprintf("%d%% chance of rain, built-in slack before the next outdoor step", w.PrecipitationChance),
		}, s)
	}

	opt.Steps = out
}

func renumber(opt *plan.PlanOption) {
	for i := range opt.Steps {
		opt.Steps[i].Order = i + 1
	}
}

func stepTimes(s plan.TaskStep) (from, to time.Time, ok bool) {
	if s.TimeFrom == "" || s.TimeTo == "" {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.Parse(plan.TimeLayout, s.TimeFrom)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse(plan.TimeLayout, s.TimeTo)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
