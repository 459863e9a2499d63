// File: services/notification/interface.go
package notification

import "context"

// NotificationService sends FCM pushes to registered devices.
type NotificationService interface {
	SendPushToRole(ctx context.Context, role, title, body string, data map[string]string) error
	SendPushToOwner(ctx context.Context, ownerID, title, body string, data map[string]string) error
}

// Mailer delivers transactional email. The SMTP transport and templates live
// outside this service; only the contract is fixed here.
type Mailer interface {
	SendRequestConfirmation(ctx context.Context, to, clientName, requestID string) error
}
