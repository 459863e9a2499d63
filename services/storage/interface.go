// File: services/storage/interface.go
package storage

import "context"

// StorageService uploads payment-proof images to the blob store. The upload
// happens off the intake path; a failure never blocks a booking.
type StorageService interface {
	UploadBytes(ctx context.Context, data []byte, destFolder, name string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}
