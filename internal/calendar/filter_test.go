package calendar_test

import (
	"reflect"
	"testing"

	"planline/internal/calendar"
	"planline/internal/domain"
)

func ids(items []calendar.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTypeTogglesDropWholeKinds(t *testing.T) {
	now := day(2024, 3, 15)
	in := []calendar.Item{
		item("p1", calendar.KindProject, now, ""),
		item("t1", calendar.KindTask, now, domain.StatusTodo),
		item("s1", calendar.KindSubtask, now, domain.StatusTodo),
		item("b1", calendar.KindBirthday, now, ""),
	}
	f := calendar.DefaultFilter()
	f.Types = calendar.TypeToggles{Projects: true, Birthdays: true}
	out := calendar.ApplyFilters(in, f, now)
	if got := ids(out); !reflect.DeepEqual(got, []string{"p1", "b1"}) {
		t.Fatalf("expected projects and birthdays only, got %v", got)
	}
}

func TestAssigneeFilterFailsClosed(t *testing.T) {
	now := day(2024, 3, 15)
	assigned := item("t1", calendar.KindTask, now, domain.StatusTodo)
	assigned.AssigneeIDs = []string{"e1", "e2"}
	unassigned := item("t2", calendar.KindTask, now, domain.StatusTodo)
	project := item("p1", calendar.KindProject, now, "")
	bday := item("b1", calendar.KindBirthday, now, "")

	f := calendar.DefaultFilter()
	f.AssigneeIDs = []string{"e2"}
	out := calendar.ApplyFilters([]calendar.Item{assigned, unassigned, project, bday}, f, now)
	// unassigned task drops; projects and birthdays pass through untouched
	if got := ids(out); !reflect.DeepEqual(got, []string{"t1", "p1", "b1"}) {
		t.Fatalf("unexpected survivors: %v", got)
	}
}

func TestWithAssigneeAdapter(t *testing.T) {
	f := calendar.DefaultFilter()
	f.AssigneeIDs = []string{"e1", "e2"}
	single := f.WithAssignee("e3")
	if !reflect.DeepEqual(single.AssigneeIDs, []string{"e3"}) {
		t.Fatalf("expected selection replaced, got %v", single.AssigneeIDs)
	}
	cleared := f.WithAssignee("")
	if cleared.AssigneeIDs != nil {
		t.Fatalf("expected empty id to clear the selection, got %v", cleared.AssigneeIDs)
	}
}

func TestProjectFilterExcludesExtraTasks(t *testing.T) {
	now := day(2024, 3, 15)
	inProject := item("t1", calendar.KindTask, now, domain.StatusTodo)
	inProject.ProjectID = "p1"
	extra := item("t2", calendar.KindTask, now, domain.StatusTodo) // no project
	other := item("t3", calendar.KindTask, now, domain.StatusTodo)
	other.ProjectID = "p2"
	self := item("p1", calendar.KindProject, now, "")
	bday := item("b1", calendar.KindBirthday, now, "")

	f := calendar.DefaultFilter()
	f.ProjectIDs = []string{"p1"}
	out := calendar.ApplyFilters([]calendar.Item{inProject, extra, other, self, bday}, f, now)
	if got := ids(out); !reflect.DeepEqual(got, []string{"t1", "p1", "b1"}) {
		t.Fatalf("unexpected survivors: %v", got)
	}
}

func TestSearchMatchesTitleAndLineage(t *testing.T) {
	now := day(2024, 3, 15)
	byTitle := item("t1", calendar.KindTask, now, domain.StatusTodo)
	byTitle.Title = "Deploy WEBSITE update"
	byProject := item("t2", calendar.KindTask, now, domain.StatusTodo)
	byProject.Title = "Unrelated"
	byProject.ProjectName = "Website relaunch"
	byParent := item("s1", calendar.KindSubtask, now, domain.StatusTodo)
	byParent.Title = "Also unrelated"
	byParent.ParentTitle = "website cleanup"
	project := item("p1", calendar.KindProject, now, "")
	project.Title = "Mobile app"

	f := calendar.DefaultFilter()
	f.Search = "  website "
	out := calendar.ApplyFilters([]calendar.Item{byTitle, byProject, byParent, project}, f, now)
	if got := ids(out); !reflect.DeepEqual(got, []string{"t1", "t2", "s1"}) {
		t.Fatalf("unexpected survivors: %v", got)
	}
}

func TestDatePresets(t *testing.T) {
	now := day(2024, 3, 15)
	items := []calendar.Item{
		item("today", calendar.KindTask, now, domain.StatusTodo),
		item("yesterday", calendar.KindTask, day(2024, 3, 14), domain.StatusTodo),
		item("week-edge", calendar.KindTask, day(2024, 3, 8), domain.StatusTodo),
		item("old", calendar.KindTask, day(2024, 2, 1), domain.StatusTodo),
		item("future", calendar.KindTask, day(2024, 3, 20), domain.StatusTodo),
	}
	cases := []struct {
		preset calendar.DatePreset
		want   []string
	}{
		{calendar.PresetAll, []string{"today", "yesterday", "week-edge", "old", "future"}},
		{calendar.PresetToday, []string{"today"}},
		{calendar.PresetYesterday, []string{"yesterday"}},
		{calendar.PresetWeek, []string{"today", "yesterday", "week-edge"}},
		{calendar.DatePreset("bogus"), []string{"today", "yesterday", "week-edge", "old", "future"}},
	}
	for _, tc := range cases {
		f := calendar.DefaultFilter()
		f.Preset = tc.preset
		out := calendar.ApplyFilters(items, f, now)
		if got := ids(out); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("preset %s: expected %v, got %v", tc.preset, tc.want, got)
		}
	}
}

func TestCustomRangeInclusive(t *testing.T) {
	now := day(2024, 3, 15)
	items := []calendar.Item{
		item("before", calendar.KindTask, day(2024, 3, 4), domain.StatusTodo),
		item("start", calendar.KindTask, day(2024, 3, 5), domain.StatusTodo),
		item("mid", calendar.KindTask, day(2024, 3, 7), domain.StatusTodo),
		item("end", calendar.KindTask, day(2024, 3, 10), domain.StatusTodo),
		item("after", calendar.KindTask, day(2024, 3, 11), domain.StatusTodo),
	}
	f := calendar.DefaultFilter()
	f.Preset = calendar.PresetCustom
	f.Custom = &calendar.DateRange{Start: day(2024, 3, 5), End: day(2024, 3, 10)}
	out := calendar.ApplyFilters(items, f, now)
	if got := ids(out); !reflect.DeepEqual(got, []string{"start", "mid", "end"}) {
		t.Fatalf("expected inclusive bounds, got %v", got)
	}
}

func TestCustomPresetWithoutRangeKeepsEverything(t *testing.T) {
	now := day(2024, 3, 15)
	items := []calendar.Item{
		item("t1", calendar.KindTask, day(2024, 3, 1), domain.StatusTodo),
	}
	f := calendar.DefaultFilter()
	f.Preset = calendar.PresetCustom
	out := calendar.ApplyFilters(items, f, now)
	if len(out) != 1 {
		t.Fatalf("custom without bounds must not filter, got %d items", len(out))
	}
}

func TestApplyFiltersPureAndIdempotent(t *testing.T) {
	now := day(2024, 3, 15)
	withAssignee := item("t1", calendar.KindTask, now, domain.StatusTodo)
	withAssignee.AssigneeIDs = []string{"e1"}
	in := []calendar.Item{
		withAssignee,
		item("t2", calendar.KindTask, now, domain.StatusTodo),
	}
	snapshot := make([]calendar.Item, len(in))
	copy(snapshot, in)

	f := calendar.DefaultFilter()
	f.AssigneeIDs = []string{"e1"}
	once := calendar.ApplyFilters(in, f, now)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input slice mutated")
	}
	twice := calendar.ApplyFilters(once, f, now)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filtering is not idempotent")
	}
}
