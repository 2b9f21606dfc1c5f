package calendar

import (
	"time"

	"planline/internal/domain"
)

// ResolveCarryForward returns items plus synthetic carried views on today for
// every overdue, non-terminal task and subtask. The input slice is not
// mutated. Carry-forward is a single hop: an item overdue by many days is
// re-presented on today only, never on intervening days.
//
// today must be a day key. Callers gate on the viewed month containing today;
// this function assumes the gate already passed.
func ResolveCarryForward(items []Item, today time.Time) []Item {
	out := make([]Item, 0, len(items))
	var carried []Item
	for _, it := range items {
		if carriesForward(it, today) {
			carry := it
			carry.Day = today
			carry.Carried = true
			carry.OriginalDay = it.Day
			carried = append(carried, carry)

			it.CarriedToToday = true
			it.CarriedTo = today
		}
		out = append(out, it)
	}
	return append(out, carried...)
}

func carriesForward(it Item, today time.Time) bool {
	if it.Kind != KindTask && it.Kind != KindSubtask {
		return false
	}
	if domain.TerminalStatus(it.Status) {
		return false
	}
	return it.Day.Before(today)
}
