package domain

import (
	"log/slog"
)

// Reminder represents a scheduled reminder shown to a caregiver or patient.
type Reminder struct {
	ID       string   `json:"id"`
	Schedule Schedule `json:"schedule"`
	Audience Audience `json:"audience"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// Schedule is a discriminated value: exactly one variant is populated,
// selected by Type.
type Schedule struct {
	Type ScheduleType `json:"type"`
	// Time holds a wall-clock time string ("HH:MM") for ScheduleTime.
	Time string `json:"time,omitempty"`
	// IntervalMinutes holds a positive minute count for ScheduleInterval.
	IntervalMinutes int `json:"interval_minutes,omitempty"`
}

type ScheduleType string

const (
	ScheduleTime     ScheduleType = "time"
	ScheduleInterval ScheduleType = "interval"
)

type Audience string

const (
	AudienceCaregiver Audience = "caregiver"
	AudiencePatient   Audience = "patient"
	AudienceBoth      Audience = "both"
)

// Normalize coerces a reminder into its canonical shape. An unrecognized
// schedule variant becomes ScheduleTime and an unrecognized audience becomes
// AudienceBoth; both coercions are logged rather than silently applied.
// Normalize runs on every read and every write of the durable snapshot.
func (r Reminder) Normalize() Reminder {
	switch r.Schedule.Type {
	case ScheduleTime:
		r.Schedule.IntervalMinutes = 0
	case ScheduleInterval:
		if r.Schedule.IntervalMinutes < 1 {
			slog.Warn("Interval schedule without positive minutes, coercing to time variant",
				"reminder_id", r.ID, "interval_minutes", r.Schedule.IntervalMinutes)
			r.Schedule.Type = ScheduleTime
			r.Schedule.IntervalMinutes = 0
		} else {
			r.Schedule.Time = ""
		}
	default:
		slog.Warn("Unrecognized schedule variant, coercing to time variant",
			"reminder_id", r.ID, "variant", string(r.Schedule.Type))
		r.Schedule.Type = ScheduleTime
		r.Schedule.IntervalMinutes = 0
	}

	switch r.Audience {
	case AudienceCaregiver, AudiencePatient, AudienceBoth:
	default:
		slog.Warn("Unrecognized audience, coercing to both",
			"reminder_id", r.ID, "audience", string(r.Audience))
		r.Audience = AudienceBoth
	}

	return r
}

// ReminderPatch carries the fields of a partial update. Nil fields are left
// untouched by the merge.
type ReminderPatch struct {
	Schedule *Schedule `json:"schedule,omitempty"`
	Audience *Audience `json:"audience,omitempty"`
	Label    *string   `json:"label,omitempty"`
	Icon     *string   `json:"icon,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
}

// Apply merges the patch into a copy of the reminder and re-normalizes it.
func (p ReminderPatch) Apply(r Reminder) Reminder {
	if p.Schedule != nil {
		r.Schedule = *p.Schedule
	}
	if p.Audience != nil {
		r.Audience = *p.Audience
	}
	if p.Label != nil {
		r.Label = *p.Label
	}
	if p.Icon != nil {
		r.Icon = *p.Icon
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r.Normalize()
}
