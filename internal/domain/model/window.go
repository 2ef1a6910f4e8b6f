package model

import (
	"sort"
	"time"
)

// Window is a span of time a participant or team can work.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the window has positive length.
func (w Window) Valid() bool {
	return w.End.After(w.Start)
}

// Duration returns the window length, zero for invalid windows.
func (w Window) Duration() time.Duration {
	if !w.Valid() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// MergeWindows returns the sorted union of the valid windows. The input is not modified.
func MergeWindows(ws []Window) []Window {
	valid := make([]Window, 0, len(ws))
	for _, w := range ws {
		if w.Valid() {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start.Equal(valid[j].Start) {
			return valid[i].End.Before(valid[j].End)
		}
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []Window{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// TotalDuration sums the durations of an already merged window list.
func TotalDuration(merged []Window) time.Duration {
	var total time.Duration
	for _, w := range merged {
		total += w.Duration()
	}
	return total
}

// IntersectDuration returns the overlap between two merged, sorted window lists.
func IntersectDuration(a, b []Window) time.Duration {
	var total time.Duration
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start
		if b[j].Start.After(start) {
			start = b[j].Start
		}
		end := a[i].End
		if b[j].End.Before(end) {
			end = b[j].End
		}
		if end.After(start) {
			total += end.Sub(start)
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return total
}
