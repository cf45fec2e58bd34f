package plan

import (
	"errors"
	"fmt"
	"time"
)

// Validate enforces the cross-field invariants the response schema
// cannot express: the feasibility/plan contract, sequential step
// order, paired and parseable step times, the plan date window, and
// chronological ordering. Field shapes, the risk enum and numeric
// ranges are the schema's job (ValidateJSON). Violations are collected
// rather than stopping at the first so the planner can log the full
// shape of a bad generation.
func Validate(r *Response) error {
	if r == nil {
		return errors.New("response is nil")
	}

	var errs []error

	if r.OriginalRequest == "" {
		errs = append(errs, errors.New("original_request is empty"))
	}

	window, err := dateWindow(r.StartDate, r.EndDate)
	if err != nil {
		errs = append(errs, err)
	}

	// The feasibility gate contract: no plans for infeasible requests,
	// both plans for feasible ones.
	if !r.Feasibility.Feasible {
		if r.PlanA != nil || r.PlanB != nil {
			errs = append(errs, errors.New("infeasible response must not carry plans"))
		}
	} else {
		if r.PlanA == nil {
			errs = append(errs, errors.New("plan_a is missing"))
		}
		if r.PlanB == nil {
			errs = append(errs, errors.New("plan_b is missing"))
		}
	}

	if r.PlanA != nil {
		errs = append(errs, validateOption("plan_a", r.PlanA, window)...)
	}
	if r.PlanB != nil {
		errs = append(errs, validateOption("plan_b", r.PlanB, window)...)
	}

	return errors.Join(errs...)
}

// dateWindow parses the inclusive [start, end] day range. A nil window
// means the range is absent and step times are not range-checked.
type window struct {
	from time.Time // start of the first day
	to   time.Time // end of the last day (exclusive)
}

func dateWindow(start, end string) (*window, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("start_date %q: %w", start, err)
	}
	until, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("end_date %q: %w", end, err)
	}
	if until.Before(from) {
		return nil, fmt.Errorf("end_date %s before start_date %s", end, start)
	}
	return &window{from: from, to: until.AddDate(0, 0, 1)}, nil
}

func validateOption(name string, p *PlanOption, win *window) []error {
	var errs []error

	var prevFrom time.Time
	for i, s := range p.Steps {
		label := fmt.Sprintf("%s step %d", name, i+1)

		if s.Order != i+1 {
			errs = append(errs, fmt.Errorf("%s: order %d, want %d", label, s.Order, i+1))
		}

		if (s.TimeFrom == "") != (s.TimeTo == "") {
			errs = append(errs, fmt.Errorf("%s: time_from and time_to must be set together", label))
			continue
		}
		if s.TimeFrom == "" {
			continue
		}

		from, err := time.Parse(TimeLayout, s.TimeFrom)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: time_from %q: %w", label, s.TimeFrom, err))
			continue
		}
		to, err := time.Parse(TimeLayout, s.TimeTo)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: time_to %q: %w", label, s.TimeTo, err))
			continue
		}
		if to.Before(from) {
			errs = append(errs, fmt.Errorf("%s: time_to before time_from", label))
		}
		if win != nil && (from.Before(win.from) || !to.Before(win.to)) {
			errs = append(errs, fmt.Errorf("%s: scheduled outside the plan date range", label))
		}
		if !prevFrom.IsZero() && from.Before(prevFrom) {
			errs = append(errs, fmt.Errorf("%s: steps are not in chronological order", label))
		}
		prevFrom = from
	}

	return errs
}
