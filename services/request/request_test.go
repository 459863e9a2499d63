package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"consultly/models"
)

type recordingRequestRepo struct {
	created   []*models.ServiceRequest
	createErr error

	updatedID     string
	updatedStatus string
	updatedURL    string

	deletedIDs []string
}

func (r *recordingRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	req.ID = "req-1"
	r.created = append(r.created, req)
	return nil
}

func (r *recordingRequestRepo) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	for _, req := range r.created {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *recordingRequestRepo) List(ctx context.Context, status string) ([]models.ServiceRequest, error) {
	return nil, nil
}

func (r *recordingRequestRepo) ListByProvider(ctx context.Context, providerID string, excludeCancelled bool) ([]models.ServiceRequest, error) {
	return nil, nil
}

func (r *recordingRequestRepo) BookedTimes(ctx context.Context, providerID, date string) ([]string, error) {
	return nil, nil
}

func (r *recordingRequestRepo) UpdateAdminDetails(ctx context.Context, id, status, meetingURL string) error {
	r.updatedID, r.updatedStatus, r.updatedURL = id, status, meetingURL
	return nil
}

func (r *recordingRequestRepo) SetPaymentProofURL(ctx context.Context, id, url string) error {
	return nil
}

func (r *recordingRequestRepo) SetMeetingURL(ctx context.Context, id, url string) error {
	return nil
}

func (r *recordingRequestRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.deletedIDs = ids
	return int64(len(ids)), nil
}

type recordingEnqueuer struct {
	followUps []models.RequestFollowUpPayload
	pushes    []models.PushPayload
	err       error
}

func (e *recordingEnqueuer) EnqueueFollowUp(payload models.RequestFollowUpPayload) error {
	if e.err != nil {
		return e.err
	}
	e.followUps = append(e.followUps, payload)
	return nil
}

func (e *recordingEnqueuer) EnqueuePush(payload models.PushPayload) error {
	if e.err != nil {
		return e.err
	}
	e.pushes = append(e.pushes, payload)
	return nil
}

func fixedClock() time.Time {
	// Bookings are validated against this "today".
	return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
}

func newSubmitFixture() (*DefaultRequestService, *recordingRequestRepo, *recordingEnqueuer) {
	repo := &recordingRequestRepo{}
	enq := &recordingEnqueuer{}
	svc := &DefaultRequestService{Requests: repo, Tasks: enq, Now: fixedClock}
	return svc, repo, enq
}

func validDraft() models.ServiceRequestDraft {
	return models.ServiceRequestDraft{
		ProviderID:  "prov-1",
		ClientName:  "Ada",
		ClientEmail: "ada@example.com",
		ServiceType: models.ServiceConsultation,
		MeetingMode: models.MeetingOnline,
		SelectedSlots: []models.SlotRef{
			{Date: "2026-01-12", Time: "09:00"},
		},
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	svc, repo, enq := newSubmitFixture()

	id, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if id != "req-1" {
		t.Errorf("got id %q, want req-1", id)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created request, got %d", len(repo.created))
	}
	if repo.created[0].Status != models.StatusPending {
		t.Errorf("status = %q, want pending", repo.created[0].Status)
	}
	if len(enq.followUps) != 1 || len(enq.pushes) != 1 {
		t.Errorf("expected one follow-up and one push, got %d/%d", len(enq.followUps), len(enq.pushes))
	}
}

func TestSubmitCommitsWhenEnqueueFails(t *testing.T) {
	svc, repo, enq := newSubmitFixture()
	enq.err = errors.New("redis down")

	id, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("enqueue failure must not fail the booking: %v", err)
	}
	if id == "" || len(repo.created) != 1 {
		t.Errorf("request was not persisted")
	}
}

func TestSubmitRequiresAtLeastOneSlot(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.SelectedSlots = nil

	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected error for empty slot selection")
	}
}

func TestSubmitConsultationBooksExactlyOneSlot(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.SelectedSlots = []models.SlotRef{
		{Date: "2026-01-12", Time: "09:00"},
		{Date: "2026-01-13", Time: "09:00"},
	}

	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected error for multi-slot consultation")
	}
}

func TestSubmitCoachingSlotLimits(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.ServiceType = models.ServiceCoaching
	draft.SelectedSlots = []models.SlotRef{
		{Date: "2026-01-12", Time: "09:00"},
		{Date: "2026-01-13", Time: "09:00"},
		{Date: "2026-01-14", Time: "09:00"},
		{Date: "2026-01-15", Time: "09:00"},
	}
	if _, err := svc.Submit(context.Background(), draft); err != nil {
		t.Fatalf("four coaching slots must be accepted: %v", err)
	}

	draft.SelectedSlots = append(draft.SelectedSlots, models.SlotRef{Date: "2026-01-16", Time: "09:00"})
	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected error for five coaching slots")
	}
}

func TestSubmitCoachingRequiresDistinctDates(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.ServiceType = models.ServiceCoaching
	draft.SelectedSlots = []models.SlotRef{
		{Date: "2026-01-12", Time: "09:00"},
		{Date: "2026-01-12", Time: "10:00"},
	}

	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected error for two coaching slots on the same date")
	}
}

func TestSubmitRejectsSameDayBooking(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.SelectedSlots = []models.SlotRef{{Date: "2026-01-05", Time: "15:00"}}

	if _, err := svc.Submit(context.Background(), draft); err == nil {
		t.Fatal("expected error for same-day booking")
	}
}

func TestSubmitRejectsMalformedSlots(t *testing.T) {
	svc, _, _ := newSubmitFixture()

	for _, slot := range []models.SlotRef{
		{Date: "12-01-2026", Time: "09:00"},
		{Date: "2026-01-12", Time: "9am"},
	} {
		draft := validDraft()
		draft.SelectedSlots = []models.SlotRef{slot}
		if _, err := svc.Submit(context.Background(), draft); err == nil {
			t.Errorf("expected error for slot %+v", slot)
		}
	}
}

func TestSubmitValidationErrorIsTyped(t *testing.T) {
	svc, _, _ := newSubmitFixture()
	draft := validDraft()
	draft.ServiceType = "astrology"

	_, err := svc.Submit(context.Background(), draft)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := verr.Fields["serviceType"]; !ok {
		t.Errorf("missing serviceType field error: %v", verr.Fields)
	}
}

func TestUpdateAdminDetails(t *testing.T) {
	svc, repo, _ := newSubmitFixture()

	if err := svc.UpdateAdminDetails(context.Background(), "req-1", "confirmed", "https://meet.example.com/x"); err != nil {
		t.Fatalf("UpdateAdminDetails returned error: %v", err)
	}
	if repo.updatedID != "req-1" || repo.updatedStatus != models.StatusConfirmed {
		t.Errorf("unexpected update: %q %q", repo.updatedID, repo.updatedStatus)
	}

	if err := svc.UpdateAdminDetails(context.Background(), "req-1", "archived", ""); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := svc.UpdateAdminDetails(context.Background(), "req-1", "", ""); err == nil {
		t.Error("expected error for empty update")
	}
}

func TestDeleteMany(t *testing.T) {
	svc, repo, _ := newSubmitFixture()

	n, err := svc.DeleteMany(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("empty delete should be a no-op, got %d, %v", n, err)
	}

	n, err = svc.DeleteMany(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("DeleteMany returned error: %v", err)
	}
	if n != 2 || len(repo.deletedIDs) != 2 {
		t.Errorf("got %d deleted, want 2", n)
	}
}
