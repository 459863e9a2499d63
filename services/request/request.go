// File: services/request/request.go
package request

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	requestRepo "consultly/database/repository/request"
	"consultly/models"
	"consultly/services/availability"
	"consultly/utils"
)

// Slot selection limits.
const maxCoachingSlots = 4

// TaskEnqueuer schedules the fire-and-forget follow-ups of a booking
// (confirmation email, payment-proof upload, meeting link, admin push).
// Enqueue failures are logged, never surfaced to the client.
type TaskEnqueuer interface {
	EnqueueFollowUp(payload models.RequestFollowUpPayload) error
	EnqueuePush(payload models.PushPayload) error
}

// RequestService is the booking ledger's service surface.
type RequestService interface {
	Submit(ctx context.Context, draft models.ServiceRequestDraft) (string, error)
	Get(ctx context.Context, id string) (*models.ServiceRequest, error)
	List(ctx context.Context, status string) ([]models.ServiceRequest, error)
	UpdateAdminDetails(ctx context.Context, id, status, meetingURL string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	Requests requestRepo.RequestRepository
	Tasks    TaskEnqueuer
	// Now is the clock used for the same-day rule; tests pin it.
	Now func() time.Time
}

func (s *DefaultRequestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit validates the draft, persists it with status pending and enqueues the
// follow-up side effects. The booking commits even when enqueueing fails.
func (s *DefaultRequestService) Submit(ctx context.Context, draft models.ServiceRequestDraft) (string, error) {
	if err := s.validateDraft(draft); err != nil {
		return "", err
	}

	req := &models.ServiceRequest{
		ProviderID:    draft.ProviderID,
		ClientName:    draft.ClientName,
		ClientEmail:   draft.ClientEmail,
		ClientPhone:   draft.ClientPhone,
		ServiceType:   draft.ServiceType,
		MeetingMode:   draft.MeetingMode,
		Problem:       draft.Problem,
		SelectedSlots: draft.SelectedSlots,
		Status:        models.StatusPending,
	}
	if err := s.Requests.Create(ctx, req); err != nil {
		return "", fmt.Errorf("failed to submit service request: %w", err)
	}

	if s.Tasks != nil {
		followUp := models.RequestFollowUpPayload{
			RequestID:    req.ID,
			ClientName:   req.ClientName,
			ClientEmail:  req.ClientEmail,
			MeetingMode:  req.MeetingMode,
			PaymentProof: draft.PaymentProof,
		}
		if err := s.Tasks.EnqueueFollowUp(followUp); err != nil {
			utils.GetLogger().Error("request: failed to enqueue follow-up",
				zap.String("requestId", req.ID), zap.Error(err))
		}
		push := models.PushPayload{
			Role:  models.ChatRoleAdmin,
			Title: "New service request",
			Body:  fmt.Sprintf("%s requested a %s", req.ClientName, req.ServiceType),
			Data:  map[string]string{"requestId": req.ID},
		}
		if err := s.Tasks.EnqueuePush(push); err != nil {
			utils.GetLogger().Error("request: failed to enqueue admin push",
				zap.String("requestId", req.ID), zap.Error(err))
		}
	}

	return req.ID, nil
}

func (s *DefaultRequestService) validateDraft(draft models.ServiceRequestDraft) error {
	errs := newValidationError()

	if draft.ProviderID == "" {
		errs.add("providerId", "must not be empty")
	}
	if draft.ClientName == "" {
		errs.add("clientName", "must not be empty")
	}
	switch draft.ServiceType {
	case models.ServiceCoaching, models.ServiceConsultation:
	default:
		errs.add("serviceType", "must be coaching or consultation")
	}
	switch draft.MeetingMode {
	case models.MeetingOnline, models.MeetingInPerson:
	default:
		errs.add("meetingMode", "must be online or in-person")
	}

	if len(draft.SelectedSlots) == 0 {
		errs.add("selectedSlots", "at least one slot is required")
		return errs.orNil()
	}
	if draft.ServiceType == models.ServiceConsultation && len(draft.SelectedSlots) != 1 {
		errs.add("selectedSlots", "a consultation books exactly one slot")
	}
	if draft.ServiceType == models.ServiceCoaching && len(draft.SelectedSlots) > maxCoachingSlots {
		errs.add("selectedSlots", fmt.Sprintf("coaching books at most %d slots", maxCoachingSlots))
	}

	today := s.now().Format("2006-01-02")
	seenDates := make(map[string]struct{}, len(draft.SelectedSlots))
	for i, slot := range draft.SelectedSlots {
		field := fmt.Sprintf("selectedSlots[%d]", i)
		if !availability.ValidDate(slot.Date) {
			errs.add(field+".date", fmt.Sprintf("%q is not a valid YYYY-MM-DD date", slot.Date))
			continue
		}
		if !availability.ValidTimeOfDay(slot.Time) {
			errs.add(field+".time", fmt.Sprintf("%q is not a valid HH:MM time", slot.Time))
			continue
		}
		if slot.Date == today {
			errs.add(field+".date", "same-day booking is not allowed")
		}
		if _, dup := seenDates[slot.Date]; dup && draft.ServiceType == models.ServiceCoaching {
			errs.add(field+".date", "coaching slots must fall on distinct dates")
		}
		seenDates[slot.Date] = struct{}{}
	}

	return errs.orNil()
}

func (s *DefaultRequestService) Get(ctx context.Context, id string) (*models.ServiceRequest, error) {
	return s.Requests.GetByID(ctx, id)
}

func (s *DefaultRequestService) List(ctx context.Context, status string) ([]models.ServiceRequest, error) {
	return s.Requests.List(ctx, status)
}

// UpdateAdminDetails applies an admin status transition and/or meeting link.
func (s *DefaultRequestService) UpdateAdminDetails(ctx context.Context, id, status, meetingURL string) error {
	if status != "" {
		switch status {
		case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
		default:
			errs := newValidationError()
			errs.add("status", fmt.Sprintf("%q is not a valid status", status))
			return errs
		}
	}
	if status == "" && meetingURL == "" {
		errs := newValidationError()
		errs.add("status", "nothing to update")
		return errs
	}
	return s.Requests.UpdateAdminDetails(ctx, id, status, meetingURL)
}

func (s *DefaultRequestService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.Requests.DeleteMany(ctx, ids)
}
