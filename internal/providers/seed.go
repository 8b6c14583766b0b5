// internal/providers/seed.go
package providers

import (
	"context"
	"fmt"

	"carematch/internal/common/logger"
	"carematch/internal/models"
)

// DemoProviders returns the three sample homes loaded into an empty store.
func DemoProviders() []models.ProviderProfile {
	return []models.ProviderProfile{
		{
			Name:             "Nursing Home A (Comprehensive)",
			Address:          "123 Health St",
			Contact:          "555-0001",
			HasInfirmary:     true,
			HasEmergency:     true,
			HospitalCoop:     true,
			RehabEquipCount:  3,
			CareGrade:        models.CareGradeSemi,
			SpecialDiet:      true,
			BarrierFreeScore: 3,
			ActivityFreq:     models.ActivityDaily,
			LocationType:     models.LocationCenter,
			ServiceTypes:     []models.ServiceType{models.ServiceLongTerm, models.ServiceDayCare},
			Price:            4000,
		},
		{
			Name:             "Nursing Home B (Spiritual Focus)",
			Address:          "456 Care Ln",
			Contact:          "555-0002",
			HasInfirmary:     true,
			HospitalCoop:     true,
			RehabEquipCount:  1,
			CareGrade:        models.CareGradeSemi,
			BarrierFreeScore: 3,
			ActivityFreq:     models.ActivityDaily,
			PsychSupport:     true,
			LocationType:     models.LocationSuburb,
			ServiceTypes:     []models.ServiceType{models.ServiceLongTerm},
			Price:            3000,
		},
		{
			Name:             "Nursing Home C (Community/Day)",
			Address:          "789 Community Rd",
			Contact:          "555-0003",
			HospitalCoop:     true,
			RehabEquipCount:  2,
			CareGrade:        models.CareGradeSelf,
			BarrierFreeScore: 1,
			SafetyFacilities: true,
			ActivityFreq:     models.ActivityWeekly,
			LocationType:     models.LocationCenter,
			PublicTransport:  true,
			ShuttleService:   true,
			ServiceTypes:     []models.ServiceType{models.ServiceDayCare},
			Price:            2000,
		},
	}
}

// Seed loads the demo providers when the store is empty and returns how many
// were inserted.
func Seed(ctx context.Context, store Store, log logger.Logger) (int, error) {
	count, err := store.CountProviders(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count providers: %w", err)
	}
	if count > 0 {
		log.Info("provider store already populated, skipping seed", map[string]interface{}{"count": count})
		return 0, nil
	}

	inserted := 0
	for _, p := range DemoProviders() {
		created, err := store.CreateProvider(ctx, p)
		if err != nil {
			return inserted, fmt.Errorf("seed: create %q: %w", p.Name, err)
		}
		inserted++
		log.Debug("seeded provider", map[string]interface{}{"providerId": created.ID, "name": created.Name})
	}

	log.Info("provider store seeded", map[string]interface{}{"inserted": inserted})
	return inserted, nil
}
