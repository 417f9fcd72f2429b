package gameplay

import "time"

type StreakResult struct {
	Streak    int
	Celebrate bool
	// Changed is false when the check happened on the same calendar day and
	// nothing needs persisting.
	Changed bool
}

// CheckStreak compares calendar days in loc. Any gap other than exactly one
// day, including a missing lastSeen, restarts the streak at 1 and still
// celebrates.
func CheckStreak(lastSeen *time.Time, streak int, now time.Time, loc *time.Location) StreakResult {
	if loc == nil {
		loc = time.UTC
	}

	if lastSeen == nil || lastSeen.IsZero() {
		return StreakResult{Streak: 1, Celebrate: true, Changed: true}
	}

	today := dayOf(now, loc)
	seen := dayOf(*lastSeen, loc)

	if seen.Equal(today) {
		return StreakResult{Streak: streak, Celebrate: false, Changed: false}
	}

	yesterday := today.AddDate(0, 0, -1)
	if seen.Equal(yesterday) {
		return StreakResult{Streak: streak + 1, Celebrate: true, Changed: true}
	}

	return StreakResult{Streak: 1, Celebrate: true, Changed: true}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
