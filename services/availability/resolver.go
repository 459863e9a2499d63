// File: services/availability/resolver.go
package availability

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"consultly/utils"
)

// Resolve computes the final bookable time-of-day slots for a provider on a
// date: a non-empty override replaces the weekly template outright, and slots
// claimed by non-cancelled requests for that exact date are subtracted. The
// result is re-derived on every call; nothing is cached. Slot order follows
// the stored override or template; callers sort for presentation if they care.
//
// An override saved as an empty list is treated the same as no override: the
// template applies. Providers close out a day by overriding it with slots the
// clients cannot take, or by clearing the template day.
func (s *DefaultAvailabilityService) Resolve(ctx context.Context, providerID, date string) ([]string, error) {
	if !ValidDate(date) {
		return nil, FieldErrors{"date": fmt.Sprintf("%q is not a valid YYYY-MM-DD date", date)}
	}

	generalSlots, err := s.Availability.GetOverride(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve availability: %w", err)
	}

	if len(generalSlots) == 0 {
		// Template failures degrade to an empty day rather than failing the
		// resolution; an override for another date must still be reachable.
		template, err := s.Availability.GetTemplate(ctx, providerID)
		if err != nil {
			utils.GetLogger().Error("availability: template fetch failed, treating as empty",
				zap.String("providerId", providerID), zap.String("date", date), zap.Error(err))
			template = map[string][]string{}
		}
		dayKey, err := DayKeyOf(date)
		if err != nil {
			return nil, err
		}
		generalSlots = template[dayKey]
	}

	if len(generalSlots) == 0 {
		return []string{}, nil
	}

	// Booking-fetch failures must propagate: under-counting booked slots
	// would hand out a slot that is already taken.
	bookedTimes, err := s.Requests.BookedTimes(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booked slots: %w", err)
	}

	booked := make(map[string]struct{}, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = struct{}{}
	}

	finalSlots := make([]string, 0, len(generalSlots))
	for _, slot := range generalSlots {
		if _, taken := booked[slot]; !taken {
			finalSlots = append(finalSlots, slot)
		}
	}
	return finalSlots, nil
}
