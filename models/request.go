package models

import "time"

// Service types.
const (
	ServiceCoaching     = "coaching"
	ServiceConsultation = "consultation"
)

// Meeting modes.
const (
	MeetingOnline   = "online"
	MeetingInPerson = "in-person"
)

// Request statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// SlotRef is one selected booking slot: a calendar date plus a time of day.
type SlotRef struct {
	Date string `bson:"date" json:"date" binding:"required"` // "YYYY-MM-DD"
	Time string `bson:"time" json:"time" binding:"required"` // "HH:MM"
}

// ServiceRequest is a client's booking of one or more slots with a provider.
// A cancelled request no longer occupies the provider's calendar.
type ServiceRequest struct {
	ID              string    `bson:"id" json:"id"`
	ProviderID      string    `bson:"providerId" json:"providerId"`
	ClientName      string    `bson:"clientName" json:"clientName"`
	ClientEmail     string    `bson:"clientEmail" json:"clientEmail"`
	ClientPhone     string    `bson:"clientPhone,omitempty" json:"clientPhone,omitempty"`
	ServiceType     string    `bson:"serviceType" json:"serviceType"`
	MeetingMode     string    `bson:"meetingMode" json:"meetingMode"`
	Problem         string    `bson:"problem,omitempty" json:"problem,omitempty"`
	SelectedSlots   []SlotRef `bson:"selectedSlots" json:"selectedSlots"`
	Status          string    `bson:"status" json:"status"`
	MeetingURL      string    `bson:"meetingUrl,omitempty" json:"meetingUrl,omitempty"`
	PaymentProofURL string    `bson:"paymentProofUrl,omitempty" json:"paymentProofUrl,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ServiceRequestDraft is the intake payload. PaymentProof carries the raw
// proof-of-payment image; it is uploaded out of band after the booking commits.
type ServiceRequestDraft struct {
	ProviderID    string    `json:"providerId" binding:"required"`
	ClientName    string    `json:"clientName" binding:"required"`
	ClientEmail   string    `json:"clientEmail" binding:"required,email"`
	ClientPhone   string    `json:"clientPhone"`
	ServiceType   string    `json:"serviceType" binding:"required"`
	MeetingMode   string    `json:"meetingMode" binding:"required"`
	Problem       string    `json:"problem"`
	SelectedSlots []SlotRef `json:"selectedSlots" binding:"required"`
	PaymentProof  []byte    `json:"paymentProof,omitempty"`
}
