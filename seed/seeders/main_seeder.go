package seeders

import (
	"github.com/mindforge/forge_api/services"
	log "github.com/sirupsen/logrus"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	ds *services.PostgresService
}

func NewMainSeeder(ds *services.PostgresService) *MainSeeder {
	return &MainSeeder{ds: ds}
}

// SeedAll creates the sample players and their arena history.
func (s *MainSeeder) SeedAll() error {
	log.Info("Starting database seeding...")

	profileSeeder := NewProfileSeeder(s.ds.Profiles, s.ds.Scenarios)
	if err := profileSeeder.SeedProfiles(); err != nil {
		log.WithError(err).Error("Profile seeding failed")
		return err
	}

	log.Info("Database seeding completed successfully")
	return nil
}
