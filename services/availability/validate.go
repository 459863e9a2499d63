// File: services/availability/validate.go
package availability

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	dateRe      = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	dayKeyRe    = regexp.MustCompile(`^[0-6]$`)
)

// FieldErrors maps a field path to its validation message. Validation rejects
// the whole payload; nothing is written when any field is malformed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidTimeOfDay reports whether s is a well-formed 24-hour "HH:MM" value.
func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// ValidDate reports whether s is a well-formed "YYYY-MM-DD" value.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// ValidDayKey reports whether s is a day-of-week key "0".."6" (Sunday-indexed).
func ValidDayKey(s string) bool {
	return dayKeyRe.MatchString(s)
}

func validateTemplate(template map[string][]string) FieldErrors {
	errs := FieldErrors{}
	for dayKey, slots := range template {
		if !ValidDayKey(dayKey) {
			errs["template."+dayKey] = "day key must be a single digit 0-6"
			continue
		}
		for i, slot := range slots {
			if !ValidTimeOfDay(slot) {
				errs[fmt.Sprintf("template.%s[%d]", dayKey, i)] = fmt.Sprintf("%q is not a valid HH:MM time", slot)
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateOverride(date string, slots []string) FieldErrors {
	errs := FieldErrors{}
	if !ValidDate(date) {
		errs["date"] = fmt.Sprintf("%q is not a valid YYYY-MM-DD date", date)
	}
	for i, slot := range slots {
		if !ValidTimeOfDay(slot) {
			errs[fmt.Sprintf("slots[%d]", i)] = fmt.Sprintf("%q is not a valid HH:MM time", slot)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
