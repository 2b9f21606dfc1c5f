package calendar

import (
	"strings"
	"time"
)

// TypeToggles enables or disables whole item kinds.
type TypeToggles struct {
	Tasks     bool `json:"tasks"`
	Subtasks  bool `json:"subtasks"`
	Projects  bool `json:"projects"`
	Birthdays bool `json:"birthdays"`
}

func AllTypes() TypeToggles {
	return TypeToggles{Tasks: true, Subtasks: true, Projects: true, Birthdays: true}
}

func (t TypeToggles) enabled(k Kind) bool {
	switch k {
	case KindTask:
		return t.Tasks
	case KindSubtask:
		return t.Subtasks
	case KindProject:
		return t.Projects
	case KindBirthday:
		return t.Birthdays
	}
	return false
}

// DatePreset names a relative date window resolved against "now".
type DatePreset string

const (
	PresetAll       DatePreset = "all"
	PresetToday     DatePreset = "today"
	PresetYesterday DatePreset = "yesterday"
	PresetWeek      DatePreset = "week"  // rolling now-7d..now, not a calendar week
	PresetMonth     DatePreset = "month" // rolling now-30d..now
	PresetCustom    DatePreset = "custom"
)

// DateRange is an inclusive [Start, End] day range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FilterState is the combined set of active selections. Empty selections
// keep everything; a zero FilterState therefore filters everything out via
// the type toggles, so start from DefaultFilter.
type FilterState struct {
	Types       TypeToggles `json:"types"`
	AssigneeIDs []string    `json:"assignee_ids,omitempty"`
	ProjectIDs  []string    `json:"project_ids,omitempty"`
	Search      string      `json:"search,omitempty"`
	Preset      DatePreset  `json:"preset,omitempty"`
	Custom      *DateRange  `json:"custom,omitempty"`
}

func DefaultFilter() FilterState {
	return FilterState{Types: AllTypes(), Preset: PresetAll}
}

// WithAssignee is the single-select adapter over the multi-select pipeline.
func (f FilterState) WithAssignee(id string) FilterState {
	if id == "" {
		f.AssigneeIDs = nil
	} else {
		f.AssigneeIDs = []string{id}
	}
	return f
}

// ApplyFilters runs the filter stages in their fixed order and returns the
// survivors. The input slice is never mutated. now must be a day key; the
// date-preset stage resolves its windows against it.
func ApplyFilters(items []Item, f FilterState, now time.Time) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !f.Types.enabled(it.Kind) {
			continue
		}
		if !matchesAssignee(it, f.AssigneeIDs) {
			continue
		}
		if !matchesProject(it, f.ProjectIDs) {
			continue
		}
		if !matchesSearch(it, f.Search) {
			continue
		}
		if !matchesPreset(it, f, now) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Projects and birthdays carry no assignees and pass through unaffected.
// Tasks with no assignee fail a non-empty selection (fail-closed).
func matchesAssignee(it Item, sel []string) bool {
	if len(sel) == 0 {
		return true
	}
	if it.Kind != KindTask && it.Kind != KindSubtask {
		return true
	}
	for _, want := range sel {
		for _, have := range it.AssigneeIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Extra tasks (no project) are excluded whenever a project filter is active.
func matchesProject(it Item, sel []string) bool {
	if len(sel) == 0 {
		return true
	}
	if it.Kind == KindBirthday {
		return true
	}
	id := it.ProjectID
	if it.Kind == KindProject {
		id = it.ID
	}
	if id == "" {
		return false
	}
	for _, want := range sel {
		if id == want {
			return true
		}
	}
	return false
}

func matchesSearch(it Item, term string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	fields := []string{it.Title}
	if it.Kind == KindTask || it.Kind == KindSubtask {
		fields = append(fields, it.ParentTitle, it.ProjectName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesPreset(it Item, f FilterState, now time.Time) bool {
	switch f.Preset {
	case PresetToday:
		return it.Day.Equal(now)
	case PresetYesterday:
		return it.Day.Equal(now.AddDate(0, 0, -1))
	case PresetWeek:
		return inWindow(it.Day, now.AddDate(0, 0, -7), now)
	case PresetMonth:
		return inWindow(it.Day, now.AddDate(0, 0, -30), now)
	case PresetCustom:
		if f.Custom == nil {
			return true
		}
		return inWindow(it.Day, f.Custom.Start, f.Custom.End)
	default:
		// PresetAll, empty, and unknown presets all keep everything.
		return true
	}
}

// inWindow compares calendar dates, not instants, so windows built in a
// different zone than the day keys still behave.
func inWindow(day, start, end time.Time) bool {
	return !dateBefore(day, start) && !dateBefore(end, day)
}

func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
