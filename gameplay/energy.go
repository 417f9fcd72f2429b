package gameplay

import "time"

// EnergyState is the stored energy balance and the regeneration anchor.
// A zero Anchor means the clock is not armed.
type EnergyState struct {
	Energy int
	Anchor time.Time
}

// Regenerate credits one unit per elapsed interval since the anchor. The
// remainder of a partial interval is carried by advancing the anchor by whole
// intervals only; reaching the cap resets the anchor to now.
func Regenerate(s EnergyState, now time.Time, r Rules) EnergyState {
	energy := clampEnergy(s.Energy, r.MaxEnergy)
	if energy >= r.MaxEnergy {
		return EnergyState{Energy: energy, Anchor: s.Anchor}
	}

	if s.Anchor.IsZero() {
		return EnergyState{Energy: energy, Anchor: now}
	}

	elapsed := now.Sub(s.Anchor)
	if elapsed <= 0 || r.RegenInterval <= 0 {
		return EnergyState{Energy: energy, Anchor: s.Anchor}
	}

	units := int(elapsed / r.RegenInterval)
	if units == 0 {
		return EnergyState{Energy: energy, Anchor: s.Anchor}
	}

	next := energy + units
	if next >= r.MaxEnergy {
		return EnergyState{Energy: r.MaxEnergy, Anchor: now}
	}

	return EnergyState{
		Energy: next,
		Anchor: s.Anchor.Add(time.Duration(units) * r.RegenInterval),
	}
}

// Consume spends one unit. It reports false and leaves the state untouched
// when the balance is empty. Leaving the cap arms the anchor at now.
func Consume(s EnergyState, now time.Time, r Rules) (EnergyState, bool) {
	if s.Energy <= 0 {
		return s, false
	}

	energy := clampEnergy(s.Energy, r.MaxEnergy)
	next := EnergyState{Energy: energy - 1, Anchor: s.Anchor}
	if energy >= r.MaxEnergy || next.Anchor.IsZero() {
		next.Anchor = now
	}
	return next, true
}

// Refund returns one spent unit, never past the cap. The anchor is kept so
// partial progress toward the next unit survives.
func Refund(s EnergyState, r Rules) EnergyState {
	return EnergyState{Energy: clampEnergy(s.Energy+1, r.MaxEnergy), Anchor: s.Anchor}
}

// NextUnitAt returns when the next unit will be credited, or nil at the cap.
func NextUnitAt(s EnergyState, r Rules) *time.Time {
	if s.Energy >= r.MaxEnergy || s.Anchor.IsZero() {
		return nil
	}
	at := s.Anchor.Add(r.RegenInterval)
	return &at
}

func clampEnergy(energy, max int) int {
	if energy < 0 {
		return 0
	}
	if energy > max {
		return max
	}
	return energy
}
