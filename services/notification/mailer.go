// File: services/notification/mailer.go
package notification

import (
	"context"

	"go.uber.org/zap"

	"consultly/utils"
)

// LogMailer records the send instead of delivering. Used in development and
// wherever the real transport is not configured.
type LogMailer struct{}

func (LogMailer) SendRequestConfirmation(ctx context.Context, to, clientName, requestID string) error {
	utils.GetLogger().Info("mailer: request confirmation (log only)",
		zap.String("to", to),
		zap.String("clientName", clientName),
		zap.String("requestId", requestID))
	return nil
}
