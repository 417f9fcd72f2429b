package dto

import (
	"time"

	"github.com/mindforge/forge_api/gameplay"
)

type StatsInput struct {
	Logic       int `json:"logic" validate:"stat_range"`
	Flexibility int `json:"flexibility" validate:"stat_range"`
	Ethics      int `json:"ethics" validate:"stat_range"`
}

func (s StatsInput) Stats() gameplay.Stats {
	return gameplay.Stats{Logic: s.Logic, Flexibility: s.Flexibility, Ethics: s.Ethics}
}

type InitializeUserRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// UpdateProfileRequest carries only the fields a client may set directly.
// Energy and streak are owned by their own actions.
type UpdateProfileRequest struct {
	FullName            *string     `json:"full_name" validate:"omitempty,max=100"`
	XP                  *int        `json:"xp" validate:"omitempty,min=0"`
	Stats               *StatsInput `json:"stats" validate:"omitempty"`
	OnboardingStep      *int        `json:"onboarding_step" validate:"omitempty,min=0,max=50"`
	OnboardingCompleted *bool       `json:"onboarding_completed"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.FullName == nil && r.XP == nil && r.Stats == nil && r.OnboardingStep == nil && r.OnboardingCompleted == nil
}

type ProfileResponse struct {
	ID                  string         `json:"id"`
	Email               string         `json:"email,omitempty"`
	FullName            string         `json:"full_name,omitempty"`
	XP                  int            `json:"xp"`
	Level               int            `json:"level"`
	XPToNextLevel       int            `json:"xp_to_next_level"`
	Streak              int            `json:"streak"`
	Energy              int            `json:"energy"`
	MaxEnergy           int            `json:"max_energy"`
	NextEnergyAt        *time.Time     `json:"next_energy_at,omitempty"`
	Stats               gameplay.Stats `json:"stats"`
	OnboardingCompleted bool           `json:"onboarding_completed"`
	OnboardingStep      int            `json:"onboarding_step"`
	LastSeen            *time.Time     `json:"last_seen,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (r *InitializeUserRequest) Validate() error {
	return Validate(r)
}

func (r *UpdateProfileRequest) Validate() error {
	return Validate(r)
}
