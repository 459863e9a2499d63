package availability

import (
	"context"
	"errors"
	"testing"
)

func TestValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "13:05", "23:59"}
	for _, s := range valid {
		if !ValidTimeOfDay(s) {
			t.Errorf("ValidTimeOfDay(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "24:00", "9:30", "12:60", "12-30", "12:3", "noon"}
	for _, s := range invalid {
		if ValidTimeOfDay(s) {
			t.Errorf("ValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2026-01-05", "2026-12-31", "1999-02-28"}
	for _, s := range valid {
		if !ValidDate(s) {
			t.Errorf("ValidDate(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "2026-13-01", "2026-00-10", "2026-01-32", "05-01-2026", "2026-1-5"}
	for _, s := range invalid {
		if ValidDate(s) {
			t.Errorf("ValidDate(%q) = true, want false", s)
		}
	}
}

func TestDayKeyOf(t *testing.T) {
	cases := map[string]string{
		"2026-01-04": "0", // Sunday
		"2026-01-05": "1", // Monday
		"2026-01-10": "6", // Saturday
	}
	for date, want := range cases {
		got, err := DayKeyOf(date)
		if err != nil {
			t.Fatalf("DayKeyOf(%q) returned error: %v", date, err)
		}
		if got != want {
			t.Errorf("DayKeyOf(%q) = %q, want %q", date, got, want)
		}
	}
	if _, err := DayKeyOf("garbage"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSaveTemplateRejectsMalformedPayload(t *testing.T) {
	svc, avail, _ := newResolverFixture()

	err := svc.SaveTemplate(context.Background(), "prov-1", map[string][]string{
		"1":      {"09:00", "25:00"},
		"monday": {"10:00"},
	})
	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fields["template.1[1]"]; !ok {
		t.Errorf("missing error for bad slot, got %v", fields)
	}
	if _, ok := fields["template.monday"]; !ok {
		t.Errorf("missing error for bad day key, got %v", fields)
	}
	// Rejected payloads must not be written.
	if len(avail.templates) != 0 {
		t.Errorf("template was persisted despite validation failure: %v", avail.templates)
	}
}

func TestSaveTemplateAcceptsValidPayload(t *testing.T) {
	svc, avail, _ := newResolverFixture()

	template := map[string][]string{"0": {}, "3": {"09:00", "17:30"}}
	if err := svc.SaveTemplate(context.Background(), "prov-1", template); err != nil {
		t.Fatalf("SaveTemplate returned error: %v", err)
	}
	if len(avail.templates["prov-1"]["3"]) != 2 {
		t.Errorf("template not persisted: %v", avail.templates)
	}
}

func TestSaveOverrideValidation(t *testing.T) {
	svc, avail, _ := newResolverFixture()

	if err := svc.SaveOverride(context.Background(), "prov-1", "bad-date", []string{"09:00"}); err == nil {
		t.Error("expected error for malformed date")
	}
	if err := svc.SaveOverride(context.Background(), "prov-1", "2026-03-10", []string{"9am"}); err == nil {
		t.Error("expected error for malformed slot")
	}
	if len(avail.overrides) != 0 {
		t.Errorf("override was persisted despite validation failure: %v", avail.overrides)
	}

	if err := svc.SaveOverride(context.Background(), "prov-1", "2026-03-10", []string{"09:00", "10:00"}); err != nil {
		t.Fatalf("SaveOverride returned error: %v", err)
	}
	if len(avail.overrides["prov-1|2026-03-10"]) != 2 {
		t.Errorf("override not persisted: %v", avail.overrides)
	}
}

func TestSaveTemplateRequiresProviderID(t *testing.T) {
	svc, _, _ := newResolverFixture()
	if err := svc.SaveTemplate(context.Background(), "", map[string][]string{}); err == nil {
		t.Error("expected error for empty providerId")
	}
}
