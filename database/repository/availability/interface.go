// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"consultly/database"
	"consultly/models"
)

// AvailabilityRepository persists weekly templates and per-date overrides.
// Absence of either is an empty result, never an error.
type AvailabilityRepository interface {
	ReplaceTemplate(ctx context.Context, providerID string, template map[string][]string) error
	GetTemplate(ctx context.Context, providerID string) (map[string][]string, error)
	UpsertOverrideSlots(ctx context.Context, providerID, date string, slots []string) error
	GetOverride(ctx context.Context, providerID, date string) ([]string, error)
	ListOverrides(ctx context.Context, providerID, fromDate, toDate string) ([]models.DailyOverride, error)
	DeleteOverride(ctx context.Context, providerID, date string) error
}

type mongoAvailabilityRepo struct {
	templates *mongo.Collection
	overrides *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.DB()
	return &mongoAvailabilityRepo{
		templates: db.Collection("availabilityTemplates"),
		overrides: db.Collection("availabilities"),
	}
}
