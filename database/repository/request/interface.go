// File: database/repository/request/interface.go
package requestRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"consultly/database"
	"consultly/models"
)

// RequestRepository persists the booking ledger.
type RequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	List(ctx context.Context, status string) ([]models.ServiceRequest, error)
	ListByProvider(ctx context.Context, providerID string, excludeCancelled bool) ([]models.ServiceRequest, error)
	// BookedTimes returns the time-of-day values of every non-cancelled
	// request slot for the provider on the given date. The date filter runs
	// on the indexed selectedSlots.date field, not client-side.
	BookedTimes(ctx context.Context, providerID, date string) ([]string, error)
	UpdateAdminDetails(ctx context.Context, id, status, meetingURL string) error
	SetPaymentProofURL(ctx context.Context, id, url string) error
	SetMeetingURL(ctx context.Context, id, url string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type mongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo constructs a new MongoDB RequestRepository.
func NewMongoRequestRepo() RequestRepository {
	return &mongoRequestRepo{
		coll: database.DB().Collection("serviceRequests"),
	}
}
