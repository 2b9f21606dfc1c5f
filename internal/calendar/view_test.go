package calendar_test

import (
	"reflect"
	"testing"
	"time"

	"planline/internal/calendar"
	"planline/internal/domain"
)

func monthSources() calendar.Sources {
	overdue := task("t-overdue", "Fix login", "2024-03-10", domain.StatusInProgress, "e1")
	done := task("t-done", "Old and done", "2024-03-05", domain.StatusCompleted)
	today := task("t-today", "Due today", "2024-03-15", domain.StatusTodo)
	return calendar.Sources{
		Projects: []domain.Project{
			{ID: "p1", Name: "Website", EndDate: "2024-03-20"},
		},
		Tasks: []domain.Task{
			overdue, done, today,
			subtask("s-overdue", "t-today", "Overdue subtask", "2024-03-12", domain.StatusTodo),
		},
		Employees: []domain.Employee{
			{ID: "e1", Name: "Ada", DateOfBirth: "1990-07-15"},
		},
	}
}

func newTestView(t *testing.T, filter calendar.FilterState) *calendar.View {
	t.Helper()
	month := calendar.Month{Year: 2024, Month: time.March}
	opts := testOptions(day(2024, 3, 15))
	return calendar.NewView(monthSources(), month, filter, opts)
}

func TestViewCarriesOverdueOntoToday(t *testing.T) {
	v := newTestView(t, calendar.DefaultFilter())
	if !v.Today().Equal(day(2024, 3, 15)) {
		t.Fatalf("unexpected today: %v", v.Today())
	}

	origBucket := v.ItemsForDay(10)
	if len(origBucket.Tasks) != 1 {
		t.Fatalf("expected the overdue task on its due day, got %d", len(origBucket.Tasks))
	}
	orig := origBucket.Tasks[0]
	if !orig.CarriedToToday || !orig.CarriedTo.Equal(day(2024, 3, 15)) {
		t.Fatalf("original must link to today: %+v", orig)
	}

	todayBucket := v.ItemsForDay(15)
	if got := ids(todayBucket.Tasks); !reflect.DeepEqual(got, []string{"t-today", "t-overdue"}) {
		t.Fatalf("expected due-today task then carried view, got %v", got)
	}
	if !todayBucket.Tasks[1].Carried || !todayBucket.Tasks[1].OriginalDay.Equal(day(2024, 3, 10)) {
		t.Fatalf("carried view malformed: %+v", todayBucket.Tasks[1])
	}
	if got := ids(todayBucket.Subtasks); !reflect.DeepEqual(got, []string{"s-overdue"}) {
		t.Fatalf("expected carried subtask view, got %v", got)
	}
	// Birthday lands on the 15th via day-of-month matching.
	if len(todayBucket.Birthdays) != 1 {
		t.Fatalf("expected birthday on the 15th, got %d", len(todayBucket.Birthdays))
	}
}

func TestViewCompletedTasksDoNotCarry(t *testing.T) {
	v := newTestView(t, calendar.DefaultFilter())
	bucket := v.ItemsForDay(5)
	if len(bucket.Tasks) != 1 || bucket.Tasks[0].CarriedToToday {
		t.Fatalf("completed task must stay put: %+v", bucket.Tasks)
	}
	for _, it := range v.ItemsForDay(15).Tasks {
		if it.ID == "t-done" {
			t.Fatalf("completed task leaked onto today")
		}
	}
}

func TestViewNoCarryOutsideCurrentMonth(t *testing.T) {
	month := calendar.Month{Year: 2024, Month: time.February}
	opts := testOptions(day(2024, 3, 15))
	src := calendar.Sources{
		Tasks: []domain.Task{task("t1", "Feb work", "2024-02-10", domain.StatusTodo)},
	}
	v := calendar.NewView(src, month, calendar.DefaultFilter(), opts)
	for d := 1; d <= month.Days(); d++ {
		for _, it := range v.ItemsForDay(d).Tasks {
			if it.Carried || it.CarriedToToday {
				t.Fatalf("carry applied to a month not containing today: %+v", it)
			}
		}
	}
}

func TestViewFilterRemovesBothCarryViews(t *testing.T) {
	f := calendar.DefaultFilter()
	f.Types.Tasks = false
	v := newTestView(t, f)
	if len(v.ItemsForDay(10).Tasks) != 0 {
		t.Fatalf("original task must be filtered")
	}
	if len(v.ItemsForDay(15).Tasks) != 0 {
		t.Fatalf("carried view must be filtered with its original")
	}
	// subtasks are an independent toggle and survive
	if len(v.ItemsForDay(15).Subtasks) != 1 {
		t.Fatalf("subtask should survive the task toggle")
	}
}

func TestViewAssigneeFilterKeepsCarriedView(t *testing.T) {
	v := newTestView(t, calendar.DefaultFilter().WithAssignee("e1"))
	todayTasks := v.ItemsForDay(15).Tasks
	if got := ids(todayTasks); !reflect.DeepEqual(got, []string{"t-overdue"}) {
		t.Fatalf("expected only the carried assigned task, got %v", got)
	}
	if !todayTasks[0].Carried {
		t.Fatalf("expected the carried view to inherit assignees")
	}
}

func TestViewGridMatchesCells(t *testing.T) {
	v := newTestView(t, calendar.DefaultFilter())
	grid := v.Grid()
	if len(grid) != 31 {
		t.Fatalf("march grid must have 31 cells, got %d", len(grid))
	}
	cell15 := grid[14]
	if !cell15.Date.Equal(day(2024, 3, 15)) {
		t.Fatalf("unexpected cell date %v", cell15.Date)
	}
	// two carried views squeeze the cap to one
	if cell15.CarriedCount != 2 {
		t.Fatalf("expected 2 carried on today, got %d", cell15.CarriedCount)
	}
	if len(cell15.Items) != 1 {
		t.Fatalf("carried badge must squeeze the cap to one, got %d items", len(cell15.Items))
	}
	if !reflect.DeepEqual(cell15, v.GridCell(day(2024, 3, 15))) {
		t.Fatalf("Grid and GridCell disagree")
	}
}

func TestViewIsDeterministic(t *testing.T) {
	v := newTestView(t, calendar.DefaultFilter())
	first := v.ItemsForRange()
	second := v.ItemsForRange()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated queries on one view must agree")
	}
	for i := 1; i < len(first); i++ {
		if first[i].Day.Before(first[i-1].Day) {
			t.Fatalf("stream out of day order at %d", i)
		}
	}
}
