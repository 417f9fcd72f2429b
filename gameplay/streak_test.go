package gameplay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckStreakYesterdayIncrements(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	lastSeen := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)

	got := CheckStreak(&lastSeen, 5, now, time.UTC)

	assert.Equal(t, StreakResult{Streak: 6, Celebrate: true, Changed: true}, got)
}

func TestCheckStreakSameDayIsNoop(t *testing.T) {
	now := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	lastSeen := time.Date(2024, time.March, 10, 0, 1, 0, 0, time.UTC)

	first := CheckStreak(&lastSeen, 4, now, time.UTC)
	second := CheckStreak(&lastSeen, first.Streak, now, time.UTC)

	assert.Equal(t, StreakResult{Streak: 4}, first)
	assert.Equal(t, first, second)
}

func TestCheckStreakGapResetsAndCelebrates(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	lastSeen := time.Date(2024, time.March, 8, 9, 0, 0, 0, time.UTC)

	got := CheckStreak(&lastSeen, 12, now, time.UTC)

	assert.Equal(t, StreakResult{Streak: 1, Celebrate: true, Changed: true}, got)
}

func TestCheckStreakFirstVisit(t *testing.T) {
	got := CheckStreak(nil, 0, time.Now(), time.UTC)

	assert.Equal(t, StreakResult{Streak: 1, Celebrate: true, Changed: true}, got)
}

func TestCheckStreakUsesLocationForDayBoundary(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-03-09 16:00 UTC is 2024-03-10 01:00 in Tokyo.
	lastSeen := time.Date(2024, time.March, 9, 16, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)

	assert.False(t, CheckStreak(&lastSeen, 3, now, tokyo).Changed)
	assert.Equal(t, 4, CheckStreak(&lastSeen, 3, now, time.UTC).Streak)
}

func TestCheckStreakAcrossMonthBoundary(t *testing.T) {
	lastSeen := time.Date(2024, time.February, 29, 20, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 1, 7, 0, 0, 0, time.UTC)

	assert.Equal(t, 8, CheckStreak(&lastSeen, 7, now, time.UTC).Streak)
}
