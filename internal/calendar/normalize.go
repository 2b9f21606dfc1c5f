package calendar

import (
	"fmt"
	"time"
)

// Normalize converts the three raw source collections into the uniform item
// shape with resolved day keys. Items with malformed or missing dates are
// dropped and logged; one bad record never fails the whole view.
//
// Emission order is projects, tasks, subtasks, birthdays, each in source
// order. Later stages rely on this order being stable.
func Normalize(src Sources, month Month, opts Options) []Item {
	opts = opts.withDefaults()

	projectNames := make(map[string]string, len(src.Projects))
	for _, p := range src.Projects {
		projectNames[p.ID] = p.Name
	}
	taskTitles := make(map[string]string, len(src.Tasks))
	for _, t := range src.Tasks {
		taskTitles[t.ID] = t.Title
	}

	items := make([]Item, 0, len(src.Projects)+len(src.Tasks)+len(src.Employees))

	for _, p := range src.Projects {
		day, err := parseDay(p.EndDate, opts)
		if err != nil {
			opts.Logger.Printf("calendar: drop project %s: %v", p.ID, err)
			continue
		}
		items = append(items, Item{
			ID:       p.ID,
			Kind:     KindProject,
			Title:    p.Name,
			Day:      day,
			Priority: p.Priority,
			Progress: p.Progress,
		})
	}

	// Tasks before subtasks so rank ties keep collection order per kind.
	for _, pass := range []bool{false, true} {
		for _, t := range src.Tasks {
			if t.IsSubtask() != pass {
				continue
			}
			day, err := parseDay(t.DueDate, opts)
			if err != nil {
				opts.Logger.Printf("calendar: drop task %s: %v", t.ID, err)
				continue
			}
			it := Item{
				ID:          t.ID,
				Kind:        KindTask,
				Title:       t.Title,
				Day:         day,
				Status:      t.Status,
				Priority:    t.Priority,
				AssigneeIDs: t.AssigneeIDs,
			}
			if t.ProjectID != nil {
				it.ProjectID = *t.ProjectID
				it.ProjectName = projectNames[*t.ProjectID]
			}
			if t.IsSubtask() {
				it.Kind = KindSubtask
				it.ParentID = *t.ParentID
				it.ParentTitle = taskTitles[*t.ParentID]
			}
			items = append(items, it)
		}
	}

	for _, e := range src.Employees {
		if e.DateOfBirth == "" {
			continue
		}
		dob, err := parseDay(e.DateOfBirth, opts)
		if err != nil {
			opts.Logger.Printf("calendar: drop birthday for %s: %v", e.ID, err)
			continue
		}
		if opts.BirthdayMatch == MatchDayAndMonth && dob.Month() != month.Month {
			continue
		}
		if dob.Day() > month.Days() {
			continue
		}
		items = append(items, Item{
			ID:         "bday-" + e.ID,
			Kind:       KindBirthday,
			Title:      e.Name,
			Day:        time.Date(month.Year, month.Month, dob.Day(), 0, 0, 0, 0, opts.Location),
			EmployeeID: e.ID,
		})
	}

	return items
}

var dayLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDay(s string, opts Options) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, opts.Location); err == nil {
			return opts.DayKey(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", s)
}
