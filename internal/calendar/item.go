package calendar

import (
	"log"
	"time"

	"planline/internal/domain"
)

// Kind discriminates the calendar item variants.
type Kind string

const (
	KindProject  Kind = "project"
	KindTask     Kind = "task"
	KindSubtask  Kind = "subtask"
	KindBirthday Kind = "birthday"
)

// Item is the uniform per-item shape every pipeline stage works on.
// Carry fields are views computed for a particular render, not stored state:
// Carried marks the synthetic copy placed on today, CarriedToToday marks the
// original left on its own due day.
type Item struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Day         time.Time `json:"day"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Progress    int       `json:"progress,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	ParentTitle string    `json:"parent_title,omitempty"`
	AssigneeIDs []string  `json:"assignee_ids,omitempty"`
	EmployeeID  string    `json:"employee_id,omitempty"`

	Carried        bool      `json:"carried,omitempty"`
	OriginalDay    time.Time `json:"original_day,omitempty"`
	CarriedToToday bool      `json:"carried_to_today,omitempty"`
	CarriedTo      time.Time `json:"carried_to,omitempty"`
}

// Sources are the three independently fetched collections for one month.
type Sources struct {
	Projects  []domain.Project
	Tasks     []domain.Task
	Employees []domain.Employee
}

// Month identifies the viewed calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Contains(day time.Time) bool {
	return day.Year() == m.Year && day.Month() == m.Month
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// First returns the month's first day at midnight in loc.
func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

func (m Month) String() string {
	return m.First(time.UTC).Format("2006-01")
}

// DayKeyFunc resolves an instant to its calendar-day bucket key. The policy
// is injected so day comparison is deterministic across time zones.
type DayKeyFunc func(time.Time) time.Time

// DayKeyIn truncates to midnight in the given location.
func DayKeyIn(loc *time.Location) DayKeyFunc {
	return func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// BirthdayMatch selects how an employee's date of birth is matched against
// the viewed month.
type BirthdayMatch string

const (
	// MatchDayOfMonth reproduces the legacy rule: the day component alone is
	// matched, so a birthday shows up in every viewed month on that day.
	MatchDayOfMonth BirthdayMatch = "day-of-month"
	// MatchDayAndMonth additionally requires the month to match.
	MatchDayAndMonth BirthdayMatch = "day-and-month"
)

// Options configure a View build.
type Options struct {
	Now           time.Time
	Location      *time.Location
	DayKey        DayKeyFunc
	GridCap       int
	BirthdayMatch BirthdayMatch
	Logger        *log.Logger
}

const defaultGridCap = 2

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.DayKey == nil {
		o.DayKey = DayKeyIn(o.Location)
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.GridCap <= 0 {
		o.GridCap = defaultGridCap
	}
	if o.BirthdayMatch == "" {
		o.BirthdayMatch = MatchDayOfMonth
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
