package shared

import "time"

const (
	UserID   = "user_id"
	Email    = "email"
	FullName = "full_name"

	MaxEnergy           = 3
	EnergyRegenInterval = 4 * time.Hour

	XPPerLevel   = 1000
	WelcomeBonus = 100

	DefaultStat = 10
	MinStat     = 10
	MaxStat     = 100
	MaxStatGain = 5

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

const (
	StatLogic       = "logic"
	StatFlexibility = "flexibility"
	StatEthics      = "ethics"
)
