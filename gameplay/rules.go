// Package gameplay holds the pure progression rules: energy, streaks, levels
// and weekly activity. Every function takes the current time as an argument.
package gameplay

import (
	"time"

	"github.com/mindforge/forge_api/shared"
)

type Rules struct {
	MaxEnergy     int
	RegenInterval time.Duration
	Location      *time.Location
}

func DefaultRules() Rules {
	return Rules{
		MaxEnergy:     shared.MaxEnergy,
		RegenInterval: shared.EnergyRegenInterval,
		Location:      time.UTC,
	}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
