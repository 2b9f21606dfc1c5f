package calendar

import (
	"sort"
	"time"
)

// View is the query facade renderers call. It is built once per
// (sources, month, filter, options) and holds no mutable state, so the same
// call on the same view always returns the same result.
type View struct {
	month  Month
	opts   Options
	today  time.Time
	items  []Item // normalized, carry-resolved, filtered
	filter FilterState
}

// NewView normalizes the sources for the viewed month, resolves carry-forward
// (only when today falls inside the month) and applies the filter pipeline.
func NewView(src Sources, month Month, filter FilterState, opts Options) *View {
	opts = opts.withDefaults()
	today := opts.DayKey(opts.Now)

	items := Normalize(src, month, opts)
	if month.Contains(today) {
		items = ResolveCarryForward(items, today)
	}
	items = ApplyFilters(items, filter, today)

	return &View{
		month:  month,
		opts:   opts,
		today:  today,
		items:  items,
		filter: filter,
	}
}

func (v *View) Month() Month        { return v.month }
func (v *View) Today() time.Time    { return v.today }
func (v *View) Filter() FilterState { return v.filter }

// ItemsForDate returns the uncapped, filtered, carry-resolved bucket for one
// day. The date is reduced to its day key first, so instants work too.
func (v *View) ItemsForDate(date time.Time) DayBucket {
	return ComposeBucket(v.opts.DayKey(date), v.items)
}

// ItemsForDay is ItemsForDate addressed by day of month, resolved in the
// view's location.
func (v *View) ItemsForDay(day int) DayBucket {
	date := time.Date(v.month.Year, v.month.Month, day, 0, 0, 0, 0, v.opts.Location)
	return ComposeBucket(date, v.items)
}

// GridCell returns the capped grid view for one day.
func (v *View) GridCell(date time.Time) GridCell {
	return ComposeCell(v.opts.DayKey(date), v.items, v.opts.GridCap)
}

// Grid returns one capped cell per day of the viewed month.
func (v *View) Grid() []GridCell {
	cells := make([]GridCell, 0, v.month.Days())
	for d := 1; d <= v.month.Days(); d++ {
		date := time.Date(v.month.Year, v.month.Month, d, 0, 0, 0, 0, v.opts.Location)
		cells = append(cells, ComposeCell(date, v.items, v.opts.GridCap))
	}
	return cells
}

// ItemsForRange returns every surviving item of the month as one flat list
// ordered by day, then display rank. This is the activity-stream shape; the
// filter's date preset has already windowed it. Items carried in from earlier
// months surface only through their carried view on today, so their
// out-of-month originals are excluded here.
func (v *View) ItemsForRange() []Item {
	out := make([]Item, 0, len(v.items))
	for _, it := range v.items {
		if v.month.Contains(it.Day) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return rank(out[i]) < rank(out[j])
	})
	return out
}
