// File: utils/constants.go
package utils

import "time"

// AuthSessionPrefix is the prefix used for Redis admin session keys.
const AuthSessionPrefix = "authSession:"

// AuthSessionTTL is the time-to-live for admin sessions.
const AuthSessionTTL = 12 * time.Hour
