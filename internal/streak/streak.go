// Package streak derives streak statistics for recurring items from their
// set of completion dates. It is pure computation: callers load the date
// set, and the cached state on the habit row is always rewritten from a
// full recomputation here, never adjusted incrementally.
package streak

import (
	"sort"

	"github.com/alexanderramin/renzoku/internal/timeutil"
)

// State is the derived streak cache for one habit.
type State struct {
	// Current is the stored streak: the length of the run of consecutive
	// days ending at yesterday. Today's completion is deliberately
	// excluded; it is layered on at read time via Display.
	Current int
	// Longest is the longest run of consecutive days over all history.
	Longest int
	// LastCompleted is the most recent completion date, empty when the
	// set is empty.
	LastCompleted timeutil.Day
}

// Compute recalculates the full streak state from the completion-date set,
// evaluated as of today. Duplicate and unordered input is tolerated; the
// result depends only on the set of distinct dates.
func Compute(days []timeutil.Day, today timeutil.Day) State {
	distinct := dedupeSorted(days)
	if len(distinct) == 0 {
		return State{}
	}

	var st State
	st.LastCompleted = distinct[len(distinct)-1]

	yesterday := today.Prev()
	runLen := 1
	for i := 0; i < len(distinct); i++ {
		if i > 0 {
			if timeutil.DaysBetween(distinct[i-1], distinct[i]) == 1 {
				runLen++
			} else {
				runLen = 1
			}
		}
		if runLen > st.Longest {
			st.Longest = runLen
		}
		if distinct[i] == yesterday {
			st.Current = runLen
		}
	}
	return st
}

// Display returns the user-visible streak: the stored value plus one when
// today is in the completion set. Today is not yet a fully elapsed day, so
// it never extends the stored streak directly.
func Display(stored int, days []timeutil.Day, today timeutil.Day) int {
	for _, d := range days {
		if d == today {
			return stored + 1
		}
	}
	return stored
}

// dedupeSorted returns the distinct input days in ascending order.
func dedupeSorted(days []timeutil.Day) []timeutil.Day {
	if len(days) == 0 {
		return nil
	}
	out := make([]timeutil.Day, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	w := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[i-1] {
			out[w] = out[i]
			w++
		}
	}
	return out[:w]
}
