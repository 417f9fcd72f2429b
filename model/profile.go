package model

import (
	"time"

	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/shared"
)

// Profile is the per-user progression document, keyed by the auth provider's
// user id. Version is bumped on every write and guards concurrent updates.
type Profile struct {
	ID       string `json:"id" gorm:"primaryKey;type:text;not null"`
	Email    string `json:"email" gorm:"size:255"`
	FullName string `json:"full_name" gorm:"size:255"`

	XP     int `json:"xp" gorm:"default:0;not null;index"`
	Level  int `json:"level" gorm:"default:1;not null"`
	Streak int `json:"streak" gorm:"default:0;not null"`

	Energy              int        `json:"energy" gorm:"not null"`
	EnergyLastReplenish *time.Time `json:"energy_last_replenish,omitempty"`

	StatsLogic       int `json:"stats_logic" gorm:"default:10;not null"`
	StatsFlexibility int `json:"stats_flexibility" gorm:"default:10;not null"`
	StatsEthics      int `json:"stats_ethics" gorm:"default:10;not null"`

	OnboardingCompleted bool   `json:"onboarding_completed" gorm:"default:false;not null"`
	OnboardingStep      int    `json:"onboarding_step" gorm:"default:0;not null"`
	OnboardingQuestions string `json:"onboarding_questions,omitempty" gorm:"type:text"`
	OnboardingAnswers   string `json:"onboarding_answers,omitempty" gorm:"type:text"`

	LastArenaScore *int       `json:"last_arena_score,omitempty"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`

	Version   int64     `json:"version" gorm:"default:0;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// NewProfile starts a player with a full energy reserve of maxEnergy units.
func NewProfile(userID, email, fullName string, maxEnergy int, now time.Time) *Profile {
	return &Profile{
		ID:               userID,
		Email:            email,
		FullName:         fullName,
		XP:               0,
		Level:            1,
		Streak:           0,
		Energy:           maxEnergy,
		StatsLogic:       shared.DefaultStat,
		StatsFlexibility: shared.DefaultStat,
		StatsEthics:      shared.DefaultStat,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (p *Profile) Stats() gameplay.Stats {
	return gameplay.Stats{
		Logic:       p.StatsLogic,
		Flexibility: p.StatsFlexibility,
		Ethics:      p.StatsEthics,
	}
}

func (p *Profile) SetStats(s gameplay.Stats) {
	p.StatsLogic = s.Logic
	p.StatsFlexibility = s.Flexibility
	p.StatsEthics = s.Ethics
}

func (p *Profile) EnergyState() gameplay.EnergyState {
	s := gameplay.EnergyState{Energy: p.Energy}
	if p.EnergyLastReplenish != nil {
		s.Anchor = *p.EnergyLastReplenish
	}
	return s
}

func (p *Profile) SetEnergyState(s gameplay.EnergyState) {
	p.Energy = s.Energy
	if s.Anchor.IsZero() {
		p.EnergyLastReplenish = nil
		return
	}
	anchor := s.Anchor
	p.EnergyLastReplenish = &anchor
}

// SetXP updates xp and keeps level derived from it.
func (p *Profile) SetXP(xp int) {
	p.XP = xp
	p.Level = gameplay.LevelForXP(xp)
}
