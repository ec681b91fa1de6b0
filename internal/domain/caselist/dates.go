package caselist

import (
	"fmt"
	"time"
)

// DateRange is the half-open interval [From, To). A zero bound is open.
// Option records the preset it was resolved from, or "custom".
type DateRange struct {
	Option string    `json:"option,omitempty"`
	From   time.Time `json:"from,omitzero"`
	To     time.Time `json:"to,omitzero"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

func (r *DateRange) clone() *DateRange {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// Date filter option keys.
const (
	OptionToday      = "today"
	OptionYesterday  = "yesterday"
	OptionThisWeek   = "this-week"
	OptionPast7Days  = "past-7-days"
	OptionThisMonth  = "this-month"
	OptionPast30Days = "past-30-days"
	OptionNext7Days  = "next-7-days"
	OptionOverdue    = "overdue"
	OptionCustom     = "custom"
)

// StandardDateOptions are offered for the created-at and updated-at facets.
var StandardDateOptions = []string{OptionToday, OptionYesterday, OptionThisWeek, OptionPast7Days, OptionThisMonth, OptionPast30Days}

// FollowUpDateOptions are offered for the follow-up date facet.
var FollowUpDateOptions = []string{OptionToday, OptionNext7Days, OptionOverdue}

// OptionsFor returns the presets valid for a date facet.
func OptionsFor(field DateField) []string {
	if field == DateFieldFollowUpDate {
		return FollowUpDateOptions
	}
	return StandardDateOptions
}

// ResolvePreset turns a preset into a concrete range relative to now, in
// now's location.
func ResolvePreset(field DateField, option string, now time.Time) (DateRange, error) {
	valid := false
	for _, o := range OptionsFor(field) {
		if o == option {
			valid = true
			break
		}
	}
	if !valid {
		return DateRange{}, fmt.Errorf("%w: %q for %s", ErrUnknownDateOption, option, field)
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	r := DateRange{Option: option}
	switch option {
	case OptionToday:
		r.From, r.To = today, tomorrow
	case OptionYesterday:
		r.From, r.To = today.AddDate(0, 0, -1), today
	case OptionThisWeek:
		r.From, r.To = today.AddDate(0, 0, -int(today.Weekday())), tomorrow
	case OptionPast7Days:
		r.From, r.To = today.AddDate(0, 0, -6), tomorrow
	case OptionThisMonth:
		r.From, r.To = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), tomorrow
	case OptionPast30Days:
		r.From, r.To = today.AddDate(0, 0, -29), tomorrow
	case OptionNext7Days:
		r.From, r.To = today, today.AddDate(0, 0, 7)
	case OptionOverdue:
		r.To = today
	}
	return r, nil
}

// CustomRange builds a range from explicit bounds.
func CustomRange(from, to time.Time) (DateRange, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Option: OptionCustom, From: from, To: to}, nil
}

// ResolveDateRange turns a requested date facet into the range stored in the
// filter. Presets are resolved against now; anything else is a custom range
// and must carry at least one bound. A nil request clears the facet.
func ResolveDateRange(field DateField, r *DateRange, now time.Time) (*DateRange, error) {
	if r == nil {
		return nil, nil
	}
	if r.Option != "" && r.Option != OptionCustom {
		resolved, err := ResolvePreset(field, r.Option, now)
		if err != nil {
			return nil, err
		}
		return &resolved, nil
	}
	if r.From.IsZero() && r.To.IsZero() {
		return nil, fmt.Errorf("%w: custom %s range has no bounds", ErrInvalidRange, field)
	}
	resolved, err := CustomRange(r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, field)
	}
	return &resolved, nil
}

// ResolveDates resolves all three date facets.
func ResolveDates(d DateFacets, now time.Time) (DateFacets, error) {
	var out DateFacets
	var err error
	if out.CreatedAt, err = ResolveDateRange(DateFieldCreatedAt, d.CreatedAt, now); err != nil {
		return DateFacets{}, err
	}
	if out.UpdatedAt, err = ResolveDateRange(DateFieldUpdatedAt, d.UpdatedAt, now); err != nil {
		return DateFacets{}, err
	}
	if out.FollowUpDate, err = ResolveDateRange(DateFieldFollowUpDate, d.FollowUpDate, now); err != nil {
		return DateFacets{}, err
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
