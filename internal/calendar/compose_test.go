package calendar_test

import (
	"reflect"
	"testing"

	"planline/internal/calendar"
	"planline/internal/domain"
)

func TestComposeBucketGroupsAndRanks(t *testing.T) {
	d := day(2024, 3, 15)
	carriedTask := item("t9", calendar.KindTask, d, domain.StatusTodo)
	carriedTask.Carried = true
	carriedTask.OriginalDay = day(2024, 3, 1)
	in := []calendar.Item{
		item("s1", calendar.KindSubtask, d, domain.StatusTodo),
		item("t1", calendar.KindTask, d, domain.StatusTodo),
		carriedTask,
		item("p1", calendar.KindProject, d, ""),
		item("b1", calendar.KindBirthday, d, ""),
		item("elsewhere", calendar.KindTask, day(2024, 3, 16), domain.StatusTodo),
	}
	b := calendar.ComposeBucket(d, in)
	if b.Total() != 5 {
		t.Fatalf("expected 5 items on the day, got %d", b.Total())
	}
	if got := ids(b.Tasks); !reflect.DeepEqual(got, []string{"t1", "t9"}) {
		t.Fatalf("expected real task before carried view, got %v", got)
	}
	if len(b.Projects) != 1 || len(b.Subtasks) != 1 || len(b.Birthdays) != 1 {
		t.Fatalf("unexpected grouping: %+v", b)
	}
}

func TestComposeBucketTieBreakKeepsSourceOrder(t *testing.T) {
	d := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, d, domain.StatusTodo),
		item("t2", calendar.KindTask, d, domain.StatusTodo),
		item("t3", calendar.KindTask, d, domain.StatusTodo),
	}
	b := calendar.ComposeBucket(d, in)
	if got := ids(b.Tasks); !reflect.DeepEqual(got, []string{"t1", "t2", "t3"}) {
		t.Fatalf("equal ranks must keep collection order, got %v", got)
	}
}

func TestComposeCellCapsAndOverflows(t *testing.T) {
	d := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, d, domain.StatusTodo),
		item("t2", calendar.KindTask, d, domain.StatusTodo),
		item("b1", calendar.KindBirthday, d, ""),
	}
	cell := calendar.ComposeCell(d, in, 2)
	if got := ids(cell.Items); !reflect.DeepEqual(got, []string{"b1", "t1"}) {
		t.Fatalf("expected top two by rank, got %v", got)
	}
	if cell.OverflowCount != 1 || cell.CarriedCount != 0 {
		t.Fatalf("expected overflow 1, got %+v", cell)
	}
}

func TestComposeCellUnderCap(t *testing.T) {
	d := day(2024, 3, 15)
	in := []calendar.Item{item("t1", calendar.KindTask, d, domain.StatusTodo)}
	cell := calendar.ComposeCell(d, in, 2)
	if len(cell.Items) != 1 || cell.OverflowCount != 0 {
		t.Fatalf("overflow must clamp at zero, got %+v", cell)
	}
}

// With carried items present the effective cap drops to one so the badge
// stays visible: three regular plus two carried yields one listed item, two
// overflowed, two badged.
func TestComposeCellCarriedSqueezesCap(t *testing.T) {
	d := day(2024, 3, 15)
	c1 := item("c1", calendar.KindTask, d, domain.StatusTodo)
	c1.Carried = true
	c2 := item("c2", calendar.KindSubtask, d, domain.StatusTodo)
	c2.Carried = true
	in := []calendar.Item{
		item("t1", calendar.KindTask, d, domain.StatusTodo),
		item("t2", calendar.KindTask, d, domain.StatusTodo),
		item("t3", calendar.KindTask, d, domain.StatusTodo),
		c1,
		c2,
	}
	cell := calendar.ComposeCell(d, in, 2)
	if got := ids(cell.Items); !reflect.DeepEqual(got, []string{"t1"}) {
		t.Fatalf("expected a single regular item, got %v", got)
	}
	if cell.OverflowCount != 2 {
		t.Fatalf("expected overflow 2, got %d", cell.OverflowCount)
	}
	if cell.CarriedCount != 2 {
		t.Fatalf("expected carried count 2, got %d", cell.CarriedCount)
	}
}

func TestComposeCellCarriedOnly(t *testing.T) {
	d := day(2024, 3, 15)
	c := item("c1", calendar.KindTask, d, domain.StatusTodo)
	c.Carried = true
	cell := calendar.ComposeCell(d, []calendar.Item{c}, 2)
	if len(cell.Items) != 0 || cell.OverflowCount != 0 || cell.CarriedCount != 1 {
		t.Fatalf("carried-only cell malformed: %+v", cell)
	}
}

func TestComposeCellZeroCapUsesDefault(t *testing.T) {
	d := day(2024, 3, 15)
	in := []calendar.Item{
		item("t1", calendar.KindTask, d, domain.StatusTodo),
		item("t2", calendar.KindTask, d, domain.StatusTodo),
		item("t3", calendar.KindTask, d, domain.StatusTodo),
	}
	cell := calendar.ComposeCell(d, in, 0)
	if len(cell.Items) != 2 || cell.OverflowCount != 1 {
		t.Fatalf("expected default cap of two, got %+v", cell)
	}
}
