// File: services/notification/fcm.go
package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	deviceRepo "consultly/database/repository/device"
	"consultly/utils"
)

// DefaultNotificationService sends pushes through Firebase Cloud Messaging.
type DefaultNotificationService struct {
	client  *messaging.Client
	devices deviceRepo.DeviceRepository
}

func NewDefaultNotificationService(client *messaging.Client, devices deviceRepo.DeviceRepository) (*DefaultNotificationService, error) {
	if client == nil || devices == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client or device repo is nil")
	}
	return &DefaultNotificationService{client: client, devices: devices}, nil
}

func (s *DefaultNotificationService) SendPushToRole(ctx context.Context, role, title, body string, data map[string]string) error {
	tokens, err := s.devices.TokensForRole(ctx, role)
	if err != nil {
		return fmt.Errorf("SendPushToRole: could not load %s tokens: %w", role, err)
	}
	return s.send(ctx, tokens, title, body, data)
}

func (s *DefaultNotificationService) SendPushToOwner(ctx context.Context, ownerID, title, body string, data map[string]string) error {
	tokens, err := s.devices.TokensForOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("SendPushToOwner: could not load tokens for %s: %w", ownerID, err)
	}
	return s.send(ctx, tokens, title, body, data)
}

func (s *DefaultNotificationService) send(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}
	var lastErr error
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := s.client.Send(ctx, msg); err != nil {
			utils.GetLogger().Warn("notification: push send failed",
				zap.String("token", token), zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
