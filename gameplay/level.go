package gameplay

import "github.com/mindforge/forge_api/shared"

type Stats struct {
	Logic       int `json:"logic"`
	Flexibility int `json:"flexibility"`
	Ethics      int `json:"ethics"`
}

func DefaultStats() Stats {
	return Stats{Logic: shared.DefaultStat, Flexibility: shared.DefaultStat, Ethics: shared.DefaultStat}
}

// Lowest returns the name of the weakest stat. Ties go to the first in
// logic, flexibility, ethics order.
func (s Stats) Lowest() string {
	name, value := shared.StatLogic, s.Logic
	if s.Flexibility < value {
		name, value = shared.StatFlexibility, s.Flexibility
	}
	if s.Ethics < value {
		name = shared.StatEthics
	}
	return name
}

func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/shared.XPPerLevel + 1
}

func XPToNextLevel(xp int) int {
	return LevelForXP(xp)*shared.XPPerLevel - max(xp, 0)
}

// XPForLevel is the smallest xp total that lands on level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * shared.XPPerLevel
}

func ClampStat(v int) int {
	if v < shared.MinStat {
		return shared.MinStat
	}
	if v > shared.MaxStat {
		return shared.MaxStat
	}
	return v
}

func ClampStats(s Stats) Stats {
	return Stats{
		Logic:       ClampStat(s.Logic),
		Flexibility: ClampStat(s.Flexibility),
		Ethics:      ClampStat(s.Ethics),
	}
}

// ClampGains bounds each per-result stat gain to [0, MaxStatGain].
func ClampGains(g Stats) Stats {
	return Stats{
		Logic:       min(max(g.Logic, 0), shared.MaxStatGain),
		Flexibility: min(max(g.Flexibility, 0), shared.MaxStatGain),
		Ethics:      min(max(g.Ethics, 0), shared.MaxStatGain),
	}
}

func ApplyStatDeltas(current, deltas Stats) Stats {
	return ClampStats(Stats{
		Logic:       current.Logic + deltas.Logic,
		Flexibility: current.Flexibility + deltas.Flexibility,
		Ethics:      current.Ethics + deltas.Ethics,
	})
}
