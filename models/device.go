package models

import "time"

// DeviceToken registers an FCM push token for either the admin or a client.
type DeviceToken struct {
	Token     string    `bson:"_id" json:"token"`
	OwnerID   string    `bson:"ownerId" json:"ownerId"`
	Role      string    `bson:"role" json:"role"` // "admin" or "client"
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
