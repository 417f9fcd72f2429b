package gameplay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)

func TestRegeneratePartialCarriesRemainder(t *testing.T) {
	r := DefaultRules()

	got := Regenerate(EnergyState{Energy: 0, Anchor: t0}, t0.Add(9*time.Hour), r)

	assert.Equal(t, 2, got.Energy)
	assert.Equal(t, t0.Add(8*time.Hour), got.Anchor)
	require.NotNil(t, NextUnitAt(got, r))
	assert.Equal(t, t0.Add(12*time.Hour), *NextUnitAt(got, r))
}

func TestRegenerateReachingCapResetsAnchor(t *testing.T) {
	r := DefaultRules()
	now := t0.Add(13 * time.Hour)

	got := Regenerate(EnergyState{Energy: 1, Anchor: t0}, now, r)

	assert.Equal(t, 3, got.Energy)
	assert.Equal(t, now, got.Anchor)
	assert.Nil(t, NextUnitAt(got, r))
}

func TestRegenerateBeforeFirstInterval(t *testing.T) {
	r := DefaultRules()
	s := EnergyState{Energy: 1, Anchor: t0}

	assert.Equal(t, s, Regenerate(s, t0.Add(3*time.Hour+59*time.Minute), r))
}

func TestRegenerateIsMonotoneInElapsed(t *testing.T) {
	r := DefaultRules()
	prev := -1
	for h := 0; h <= 24; h++ {
		got := Regenerate(EnergyState{Energy: 0, Anchor: t0}, t0.Add(time.Duration(h)*time.Hour), r)
		assert.GreaterOrEqual(t, got.Energy, prev, "elapsed %dh", h)
		assert.LessOrEqual(t, got.Energy, r.MaxEnergy)
		prev = got.Energy
	}
}

func TestRegenerateArmsMissingAnchor(t *testing.T) {
	got := Regenerate(EnergyState{Energy: 1}, t0, DefaultRules())

	assert.Equal(t, 1, got.Energy)
	assert.Equal(t, t0, got.Anchor)
}

func TestRegenerateClampsOverflow(t *testing.T) {
	got := Regenerate(EnergyState{Energy: 7, Anchor: t0}, t0.Add(time.Hour), DefaultRules())

	assert.Equal(t, 3, got.Energy)
}

func TestRegenerateIgnoresClockSkew(t *testing.T) {
	s := EnergyState{Energy: 1, Anchor: t0}

	assert.Equal(t, s, Regenerate(s, t0.Add(-5*time.Hour), DefaultRules()))
}

func TestConsumeAtZeroFails(t *testing.T) {
	s := EnergyState{Energy: 0, Anchor: t0}

	got, ok := Consume(s, t0.Add(time.Hour), DefaultRules())

	assert.False(t, ok)
	assert.Equal(t, s, got)
}

func TestConsumeFromFullArmsAnchor(t *testing.T) {
	now := t0.Add(30 * time.Hour)

	got, ok := Consume(EnergyState{Energy: 3, Anchor: t0}, now, DefaultRules())

	require.True(t, ok)
	assert.Equal(t, 2, got.Energy)
	assert.Equal(t, now, got.Anchor)
}

func TestConsumeFromPartialKeepsAnchor(t *testing.T) {
	got, ok := Consume(EnergyState{Energy: 2, Anchor: t0}, t0.Add(2*time.Hour), DefaultRules())

	require.True(t, ok)
	assert.Equal(t, 1, got.Energy)
	assert.Equal(t, t0, got.Anchor)
}

func TestConsumeThenRegenerateRoundTrip(t *testing.T) {
	r := DefaultRules()

	s, ok := Consume(EnergyState{Energy: 3, Anchor: t0}, t0, r)
	require.True(t, ok)

	s = Regenerate(s, t0.Add(4*time.Hour), r)
	assert.Equal(t, 3, s.Energy)
}

func TestRefundKeepsAnchorAndCap(t *testing.T) {
	r := DefaultRules()

	got := Refund(EnergyState{Energy: 1, Anchor: t0}, r)
	assert.Equal(t, EnergyState{Energy: 2, Anchor: t0}, got)

	full := Refund(EnergyState{Energy: 3, Anchor: t0}, r)
	assert.Equal(t, 3, full.Energy)
}
