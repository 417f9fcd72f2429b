package gameplay

import "time"

var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// StartOfWeek is midnight of the Sunday that opens the week containing now.
func StartOfWeek(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := dayOf(now, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekActivity counts timestamps per weekday of the current week, Sunday
// first. Timestamps outside the week are ignored.
func WeekActivity(now time.Time, loc *time.Location, timestamps []time.Time) [7]int {
	if loc == nil {
		loc = time.UTC
	}
	start := StartOfWeek(now, loc)
	end := start.AddDate(0, 0, 7)

	var counts [7]int
	for _, ts := range timestamps {
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		counts[ts.In(loc).Weekday()]++
	}
	return counts
}
