// File: database/repository/availability/availability_mongo.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
)

func (r *mongoAvailabilityRepo) ReplaceTemplate(ctx context.Context, providerID string, template map[string][]string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := models.WeeklyTemplate{
		ProviderID: providerID,
		Template:   template,
		UpdatedAt:  time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.templates.ReplaceOne(ctx, bson.M{"_id": providerID}, doc, opts); err != nil {
		return fmt.Errorf("failed to replace weekly template: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetTemplate(ctx context.Context, providerID string) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.WeeklyTemplate
	err := r.templates.FindOne(ctx, bson.M{"_id": providerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly template: %w", err)
	}
	if doc.Template == nil {
		return map[string][]string{}, nil
	}
	return doc.Template, nil
}

// UpsertOverrideSlots only touches the slots field so that unrelated fields on
// the override document survive the write.
func (r *mongoAvailabilityRepo) UpsertOverrideSlots(ctx context.Context, providerID, date string, slots []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "date": date}
	update := bson.M{
		"$set": bson.M{
			"slots":     slots,
			"updatedAt": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"providerId": providerID,
			"date":       date,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.overrides.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert daily override: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) GetOverride(ctx context.Context, providerID, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.DailyOverride
	err := r.overrides.FindOne(ctx, bson.M{"providerId": providerID, "date": date}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily override: %w", err)
	}
	if doc.Slots == nil {
		return []string{}, nil
	}
	return doc.Slots, nil
}

func (r *mongoAvailabilityRepo) ListOverrides(ctx context.Context, providerID, fromDate, toDate string) ([]models.DailyOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID}
	if fromDate != "" || toDate != "" {
		dateRange := bson.M{}
		if fromDate != "" {
			dateRange["$gte"] = fromDate
		}
		if toDate != "" {
			dateRange["$lte"] = toDate
		}
		filter["date"] = dateRange
	}

	cursor, err := r.overrides.Find(ctx, filter, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list daily overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.DailyOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *mongoAvailabilityRepo) DeleteOverride(ctx context.Context, providerID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.overrides.DeleteOne(ctx, bson.M{"providerId": providerID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete daily override: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
