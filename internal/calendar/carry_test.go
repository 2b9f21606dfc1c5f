package calendar_test

import (
	"testing"
	"time"

	"planline/internal/calendar"
	"planline/internal/domain"
)

func item(id string, kind calendar.Kind, d time.Time, status string) calendar.Item {
	return calendar.Item{ID: id, Kind: kind, Title: id, Day: d, Status: status}
}

func TestCarryForwardLinksBothViews(t *testing.T) {
	today := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, day(2024, 3, 10), domain.StatusInProgress),
	}
	out := calendar.ResolveCarryForward(in, today)
	if len(out) != 2 {
		t.Fatalf("expected original plus carried copy, got %d items", len(out))
	}
	orig, carry := out[0], out[1]
	if !orig.CarriedToToday || !orig.CarriedTo.Equal(today) {
		t.Fatalf("original not marked: %+v", orig)
	}
	if orig.Carried || !orig.Day.Equal(day(2024, 3, 10)) {
		t.Fatalf("original must stay on its due day: %+v", orig)
	}
	if !carry.Carried || !carry.Day.Equal(today) || !carry.OriginalDay.Equal(day(2024, 3, 10)) {
		t.Fatalf("carried copy malformed: %+v", carry)
	}
	if carry.ID != orig.ID {
		t.Fatalf("carried copy must keep the source id")
	}
}

func TestCarryForwardSkipsTerminalStatuses(t *testing.T) {
	today := day(2024, 3, 15)
	overdue := day(2024, 3, 1)
	for _, status := range []string{domain.StatusCompleted, domain.StatusApproved, domain.StatusClientApproved} {
		out := calendar.ResolveCarryForward([]calendar.Item{item("t1", calendar.KindTask, overdue, status)}, today)
		if len(out) != 1 {
			t.Fatalf("status %s: terminal task must not carry", status)
		}
		if out[0].CarriedToToday {
			t.Fatalf("status %s: terminal task must not be marked", status)
		}
	}
	// on-hold and re-work are open work and do carry
	for _, status := range []string{domain.StatusOnHold, domain.StatusReWork} {
		out := calendar.ResolveCarryForward([]calendar.Item{item("t1", calendar.KindTask, overdue, status)}, today)
		if len(out) != 2 {
			t.Fatalf("status %s: open task must carry", status)
		}
	}
}

func TestCarryForwardOnlyTasksAndSubtasks(t *testing.T) {
	today := day(2024, 3, 15)
	overdue := day(2024, 3, 1)
	in := []calendar.Item{
		item("p1", calendar.KindProject, overdue, ""),
		item("b1", calendar.KindBirthday, overdue, ""),
		item("s1", calendar.KindSubtask, overdue, domain.StatusTodo),
	}
	out := calendar.ResolveCarryForward(in, today)
	if len(out) != 4 {
		t.Fatalf("expected only the subtask to carry, got %d items", len(out))
	}
	if out[3].ID != "s1" || !out[3].Carried {
		t.Fatalf("expected carried subtask last, got %+v", out[3])
	}
}

func TestCarryForwardLeavesTodayAndFutureAlone(t *testing.T) {
	today := day(2024, 3, 15)
	in := []calendar.Item{
		item("due-today", calendar.KindTask, today, domain.StatusTodo),
		item("due-later", calendar.KindTask, day(2024, 3, 20), domain.StatusTodo),
	}
	out := calendar.ResolveCarryForward(in, today)
	if len(out) != 2 {
		t.Fatalf("nothing should carry, got %d items", len(out))
	}
	for _, it := range out {
		if it.Carried || it.CarriedToToday {
			t.Fatalf("unexpected carry marking on %s", it.ID)
		}
	}
}

func TestCarryForwardDoesNotMutateInput(t *testing.T) {
	today := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, day(2024, 3, 10), domain.StatusTodo),
	}
	_ = calendar.ResolveCarryForward(in, today)
	if in[0].CarriedToToday || in[0].Carried {
		t.Fatalf("input slice was mutated: %+v", in[0])
	}
}

// An item overdue by many days gets exactly one carried view, on today.
func TestCarryForwardSingleHop(t *testing.T) {
	today := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, day(2024, 2, 1), domain.StatusTodo),
	}
	out := calendar.ResolveCarryForward(in, today)
	if len(out) != 2 {
		t.Fatalf("expected a single carried view, got %d items", len(out))
	}
	carried := 0
	for _, it := range out {
		if it.Carried {
			carried++
			if !it.Day.Equal(today) {
				t.Fatalf("carried view must land on today, got %v", it.Day)
			}
		}
	}
	if carried != 1 {
		t.Fatalf("expected exactly one carried view, got %d", carried)
	}
}
