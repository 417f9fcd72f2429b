package gameplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 999: 1, 1000: 2, 2500: 3}
	for xp, want := range cases {
		assert.Equal(t, want, LevelForXP(xp), "xp %d", xp)
	}
	assert.Equal(t, 500, XPToNextLevel(1500))
	assert.Equal(t, 2, LevelForXP(XPForLevel(2)))
}

func TestApplyStatDeltasClamps(t *testing.T) {
	got := ApplyStatDeltas(Stats{Logic: 98, Flexibility: 10, Ethics: 40}, Stats{Logic: 5, Flexibility: -3, Ethics: 2})

	assert.Equal(t, Stats{Logic: 100, Flexibility: 10, Ethics: 42}, got)
}

func TestClampGains(t *testing.T) {
	got := ClampGains(Stats{Logic: 9, Flexibility: -50, Ethics: 3})

	assert.Equal(t, Stats{Logic: 5, Flexibility: 0, Ethics: 3}, got)
}

func TestStatsLowest(t *testing.T) {
	assert.Equal(t, "flexibility", Stats{Logic: 30, Flexibility: 12, Ethics: 20}.Lowest())
	assert.Equal(t, "logic", DefaultStats().Lowest())
}
