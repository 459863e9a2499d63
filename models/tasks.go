package models

// RequestFollowUpPayload is queued after a service request commits. The worker
// performs the side effects the intake path must never block on: confirmation
// email, payment-proof upload and meeting-link generation.
type RequestFollowUpPayload struct {
	RequestID    string `json:"requestId"`
	ClientName   string `json:"clientName"`
	ClientEmail  string `json:"clientEmail"`
	MeetingMode  string `json:"meetingMode"`
	PaymentProof []byte `json:"paymentProof,omitempty"`
}

// PushPayload is queued for an FCM push to the admin or a client.
type PushPayload struct {
	Role  string            `json:"role"` // recipient role
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
