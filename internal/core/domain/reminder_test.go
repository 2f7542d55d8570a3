package domain

import (
	"testing"
)

func TestNormalizeSchedule(t *testing.T) {
	tests := []struct {
		name string
		in   Schedule
		want Schedule
	}{
		{
			name: "valid time variant",
			in:   Schedule{Type: ScheduleTime, Time: "08:00"},
			want: Schedule{Type: ScheduleTime, Time: "08:00"},
		},
		{
			name: "valid interval variant",
			in:   Schedule{Type: ScheduleInterval, IntervalMinutes: 30},
			want: Schedule{Type: ScheduleInterval, IntervalMinutes: 30},
		},
		{
			name: "unknown variant coerces to time",
			in:   Schedule{Type: "cron", Time: "09:00", IntervalMinutes: 5},
			want: Schedule{Type: ScheduleTime, Time: "09:00"},
		},
		{
			name: "interval without positive minutes coerces to time",
			in:   Schedule{Type: ScheduleInterval, IntervalMinutes: 0},
			want: Schedule{Type: ScheduleTime},
		},
		{
			name: "time variant drops stray interval",
			in:   Schedule{Type: ScheduleTime, Time: "10:00", IntervalMinutes: 15},
			want: Schedule{Type: ScheduleTime, Time: "10:00"},
		},
		{
			name: "interval variant drops stray time",
			in:   Schedule{Type: ScheduleInterval, Time: "10:00", IntervalMinutes: 15},
			want: Schedule{Type: ScheduleInterval, IntervalMinutes: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reminder{Schedule: tt.in, Audience: AudienceBoth}.Normalize()
			if got.Schedule != tt.want {
				t.Errorf("Normalize() schedule = %+v, want %+v", got.Schedule, tt.want)
			}
		})
	}
}

func TestNormalizeAudience(t *testing.T) {
	r := Reminder{
		Schedule: Schedule{Type: ScheduleTime, Time: "08:00"},
		Audience: "houseplant",
	}.Normalize()
	if r.Audience != AudienceBoth {
		t.Errorf("audience = %q, want both", r.Audience)
	}

	for _, a := range []Audience{AudienceCaregiver, AudiencePatient, AudienceBoth} {
		r := Reminder{Schedule: Schedule{Type: ScheduleTime}, Audience: a}.Normalize()
		if r.Audience != a {
			t.Errorf("valid audience %q must survive normalization", a)
		}
	}
}

func TestPatchApply(t *testing.T) {
	base := Reminder{
		ID:       "r1",
		Schedule: Schedule{Type: ScheduleTime, Time: "08:00"},
		Audience: AudiencePatient,
		Label:    "Meds",
		Icon:     "pill",
		Notes:    "before breakfast",
	}

	label := "Vitamins"
	got := ReminderPatch{Label: &label}.Apply(base)

	if got.Label != "Vitamins" {
		t.Errorf("label = %q", got.Label)
	}
	base.Label = "Vitamins"
	if got != base {
		t.Errorf("patch touched unrelated fields: %+v", got)
	}
}

func TestPatchApplyEmptyIsNoOp(t *testing.T) {
	base := Reminder{
		ID:       "r1",
		Schedule: Schedule{Type: ScheduleInterval, IntervalMinutes: 45},
		Audience: AudienceCaregiver,
		Label:    "Walk",
	}
	if got := (ReminderPatch{}).Apply(base); got != base {
		t.Errorf("empty patch changed record: %+v", got)
	}
}

func TestFreshnessTransitions(t *testing.T) {
	valid := []struct{ from, to Freshness }{
		{FreshnessLoading, FreshnessFresh},
		{FreshnessLoading, FreshnessError},
		{FreshnessFresh, FreshnessStale},
		{FreshnessStale, FreshnessLoading},
		{FreshnessError, FreshnessLoading},
	}
	for _, tt := range valid {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tt.from, tt.to)
		}
	}

	invalid := []struct{ from, to Freshness }{
		{FreshnessFresh, FreshnessLoading},
		{FreshnessFresh, FreshnessError},
		{FreshnessStale, FreshnessFresh},
		{FreshnessError, FreshnessFresh},
		{FreshnessLoading, FreshnessStale},
	}
	for _, tt := range invalid {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}
