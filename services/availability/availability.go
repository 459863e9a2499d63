// File: services/availability/availability.go
package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	availabilityRepo "consultly/database/repository/availability"
	requestRepo "consultly/database/repository/request"
	"consultly/models"
)

// AvailabilityService manages a provider's weekly template and per-date
// overrides, and resolves the final bookable slots for a date.
type AvailabilityService interface {
	SaveTemplate(ctx context.Context, providerID string, template map[string][]string) error
	GetTemplate(ctx context.Context, providerID string) (map[string][]string, error)
	SaveOverride(ctx context.Context, providerID, date string, slots []string) error
	GetOverride(ctx context.Context, providerID, date string) ([]string, error)
	ListOverrides(ctx context.Context, providerID, fromDate, toDate string) ([]models.DailyOverride, error)
	Resolve(ctx context.Context, providerID, date string) ([]string, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Availability availabilityRepo.AvailabilityRepository
	Requests     requestRepo.RequestRepository
}

// SaveTemplate validates and replaces the provider's whole weekly template.
// Saves are wholesale; a single malformed day or slot rejects the entire map.
func (s *DefaultAvailabilityService) SaveTemplate(ctx context.Context, providerID string, template map[string][]string) error {
	if providerID == "" {
		return FieldErrors{"providerId": "must not be empty"}
	}
	if errs := validateTemplate(template); errs != nil {
		return errs
	}
	return s.Availability.ReplaceTemplate(ctx, providerID, template)
}

func (s *DefaultAvailabilityService) GetTemplate(ctx context.Context, providerID string) (map[string][]string, error) {
	return s.Availability.GetTemplate(ctx, providerID)
}

// SaveOverride validates and upserts the explicit slot list for one date.
func (s *DefaultAvailabilityService) SaveOverride(ctx context.Context, providerID, date string, slots []string) error {
	if providerID == "" {
		return FieldErrors{"providerId": "must not be empty"}
	}
	if errs := validateOverride(date, slots); errs != nil {
		return errs
	}
	return s.Availability.UpsertOverrideSlots(ctx, providerID, date, slots)
}

func (s *DefaultAvailabilityService) GetOverride(ctx context.Context, providerID, date string) ([]string, error) {
	if !ValidDate(date) {
		return nil, FieldErrors{"date": fmt.Sprintf("%q is not a valid YYYY-MM-DD date", date)}
	}
	return s.Availability.GetOverride(ctx, providerID, date)
}

func (s *DefaultAvailabilityService) ListOverrides(ctx context.Context, providerID, fromDate, toDate string) ([]models.DailyOverride, error) {
	return s.Availability.ListOverrides(ctx, providerID, fromDate, toDate)
}

// DayKeyOf returns the Sunday-indexed day-of-week key ("0".."6") for a
// "YYYY-MM-DD" date.
func DayKeyOf(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return strconv.Itoa(int(t.Weekday())), nil
}
