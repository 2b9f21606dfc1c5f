package calendar

import (
	"sort"
	"time"
)

// DayBucket is the uncapped, per-kind grouping of one day's surviving items,
// used by detail dialogs and the API day endpoint.
type DayBucket struct {
	Date      time.Time `json:"date"`
	Projects  []Item    `json:"projects"`
	Tasks     []Item    `json:"tasks"`
	Subtasks  []Item    `json:"subtasks"`
	Birthdays []Item    `json:"birthdays"`
}

func (b DayBucket) Total() int {
	return len(b.Projects) + len(b.Tasks) + len(b.Subtasks) + len(b.Birthdays)
}

// GridCell is the capped view for one calendar grid cell. Carried items are
// never in Items; they are summarized by CarriedCount instead.
type GridCell struct {
	Date          time.Time `json:"date"`
	Items         []Item    `json:"items"`
	OverflowCount int       `json:"overflow_count"`
	CarriedCount  int       `json:"carried_count"`
}

// Display rank: lower sorts first. Carried views rank below their actual
// counterparts.
func rank(it Item) int {
	switch it.Kind {
	case KindBirthday:
		return 0
	case KindProject:
		return 1
	case KindTask:
		if it.Carried {
			return 3
		}
		return 2
	case KindSubtask:
		if it.Carried {
			return 5
		}
		return 4
	}
	return 6
}

// dayItems selects the rank-sorted items bucketed under date. The stable
// sort preserves source-collection order within equal ranks.
func dayItems(items []Item, date time.Time) []Item {
	var out []Item
	for _, it := range items {
		if it.Day.Equal(date) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// ComposeBucket builds the uncapped detail view for one day.
func ComposeBucket(date time.Time, items []Item) DayBucket {
	b := DayBucket{Date: date}
	for _, it := range dayItems(items, date) {
		switch it.Kind {
		case KindProject:
			b.Projects = append(b.Projects, it)
		case KindTask:
			b.Tasks = append(b.Tasks, it)
		case KindSubtask:
			b.Subtasks = append(b.Subtasks, it)
		case KindBirthday:
			b.Birthdays = append(b.Birthdays, it)
		}
	}
	return b
}

// ComposeCell builds the capped grid-cell view for one day. When any carried
// item is present the effective cap drops to one, so the carried badge stays
// visible alongside at most a single regular item.
func ComposeCell(date time.Time, items []Item, cap int) GridCell {
	if cap <= 0 {
		cap = defaultGridCap
	}
	cell := GridCell{Date: date}
	var regular []Item
	for _, it := range dayItems(items, date) {
		if it.Carried {
			cell.CarriedCount++
			continue
		}
		regular = append(regular, it)
	}
	if cell.CarriedCount > 0 {
		cap = 1
	}
	if len(regular) > cap {
		cell.Items = regular[:cap]
	} else {
		cell.Items = regular
	}
	cell.OverflowCount = len(regular) - len(cell.Items)
	return cell
}
