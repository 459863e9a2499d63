package models

import "time"

// WeeklyTemplate holds a provider's recurring weekly schedule. Template maps a
// day-of-week key ("0" = Sunday .. "6" = Saturday) to the time-of-day slots
// ("HH:MM", 24-hour) offered on that weekday. Saves replace the whole map;
// there is no day-level merge.
type WeeklyTemplate struct {
	ProviderID string              `bson:"_id" json:"providerId"`
	Template   map[string][]string `bson:"template" json:"template"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DailyOverride is an explicit slot list for one calendar date. A non-empty
// override fully replaces the template's contribution for that date.
type DailyOverride struct {
	ProviderID string    `bson:"providerId" json:"providerId"`
	Date       string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Slots      []string  `bson:"slots" json:"slots"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ResolvedAvailability is the derived view returned to booking clients. It is
// recomputed on every read and never persisted.
type ResolvedAvailability struct {
	ProviderID string   `json:"providerId"`
	Date       string   `json:"date"`
	FinalSlots []string `json:"finalSlots"`
}
