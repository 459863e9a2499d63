package handlers

import "github.com/go-redis/redis/v8"

// HandlerBundle aggregates the HTTP handlers so route registration can take a
// single dependency.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Requests     *RequestHandler
	Chat         *ChatHandler
	Signaling    *SignalingHandler
	Devices      *DeviceHandler
	Admin        *AdminHandler

	// AuthCache backs the admin session middleware.
	AuthCache *redis.Client
}
