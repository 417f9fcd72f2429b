package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/services/repositories"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
)

type sampleProfile struct {
	id       string
	name     string
	xp       int
	streak   int
	stats    gameplay.Stats
	sessions int
}

var sampleProfiles = []sampleProfile{
	{id: "seed-athena", name: "Athena", xp: 5400, streak: 12, stats: gameplay.Stats{Logic: 82, Flexibility: 61, Ethics: 74}, sessions: 6},
	{id: "seed-turing", name: "Turing", xp: 3100, streak: 4, stats: gameplay.Stats{Logic: 90, Flexibility: 35, Ethics: 40}, sessions: 4},
	{id: "seed-hypatia", name: "Hypatia", xp: 3100, streak: 7, stats: gameplay.Stats{Logic: 55, Flexibility: 70, Ethics: 66}, sessions: 4},
	{id: "seed-socrates", name: "Socrates", xp: 900, streak: 1, stats: gameplay.Stats{Logic: 30, Flexibility: 25, Ethics: 45}, sessions: 2},
	{id: "seed-newcomer", name: "Newcomer", xp: 0, streak: 0, stats: gameplay.DefaultStats(), sessions: 0},
}

type ProfileSeeder struct {
	profiles  *repositories.ProfileRepository
	scenarios *repositories.ScenarioRepository
}

func NewProfileSeeder(profiles *repositories.ProfileRepository, scenarios *repositories.ScenarioRepository) *ProfileSeeder {
	return &ProfileSeeder{profiles: profiles, scenarios: scenarios}
}

// SeedProfiles is idempotent: existing profiles are left alone.
func (s *ProfileSeeder) SeedProfiles() error {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, sample := range sampleProfiles {
		if _, err := s.profiles.GetProfile(ctx, sample.id); err == nil {
			log.WithField("user_id", sample.id).Debug("Profile exists, skipping")
			continue
		}

		p := model.NewProfile(sample.id, sample.id+"@mindforge.dev", sample.name, shared.MaxEnergy, now.AddDate(0, 0, -30))
		p.SetXP(sample.xp)
		p.SetStats(gameplay.ClampStats(sample.stats))
		p.Streak = sample.streak
		p.OnboardingCompleted = sample.xp > 0
		if sample.streak > 0 {
			seen := now.AddDate(0, 0, -1)
			p.LastSeen = &seen
		}

		if _, err := s.profiles.CreateProfile(ctx, p); err != nil {
			return fmt.Errorf("seed profile %s: %w", sample.id, err)
		}

		if err := s.seedResults(ctx, sample, now); err != nil {
			return err
		}
	}

	log.WithField("profiles", len(sampleProfiles)).Info("Profiles seeded")
	return nil
}

// seedResults spreads arena sessions across the previous days.
func (s *ProfileSeeder) seedResults(ctx context.Context, sample sampleProfile, now time.Time) error {
	focus := sample.stats.Lowest()

	for i := 0; i < sample.sessions; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		scenario, err := s.scenarios.CreateScenario(ctx, &model.Scenario{
			UserID:    sample.id,
			Content:   fmt.Sprintf("# Seed Scenario %d\n**Situation**: A practice dilemma focused on %s.", i+1, focus),
			Focus:     focus,
			Submitted: true,
			CreatedAt: at,
		})
		if err != nil {
			return fmt.Errorf("seed scenario for %s: %w", sample.id, err)
		}

		score := 50 + (i*17)%50
		outcome, err := shared.JSONAPI.MarshalToString(map[string]interface{}{
			"scenario": scenario.Content,
			"response": "Seeded response.",
			"evaluation": map[string]interface{}{
				"score":   score,
				"summary": "Seeded evaluation.",
			},
		})
		if err != nil {
			return err
		}

		_, err = s.scenarios.CreateResult(ctx, &model.ScenarioResult{
			UserID:     sample.id,
			ScenarioID: &scenario.ID,
			Outcome:    outcome,
			XPEarned:   score,
			CreatedAt:  at,
		})
		if err != nil {
			return fmt.Errorf("seed result for %s: %w", sample.id, err)
		}
	}
	return nil
}
