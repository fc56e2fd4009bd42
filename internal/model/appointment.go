package model

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "Scheduled"
	AppointmentStatusVisited     AppointmentStatus = "Visited"
	AppointmentStatusCanceled    AppointmentStatus = "Canceled"
	AppointmentStatusRescheduled AppointmentStatus = "Rescheduled"
)

// AppointmentStatuses lists the statuses in the order the status picker shows them.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusVisited,
	AppointmentStatusCanceled,
	AppointmentStatusRescheduled,
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for _, status := range AppointmentStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", s)
}

// Appointment is a row of the scheduling view. Doctor is a display name, not a reference.
type Appointment struct {
	ID     int64             `json:"id"`
	Name   string            `json:"name"`
	Date   string            `json:"date"`
	Time   string            `json:"time"`
	Doctor string            `json:"doctor"`
	Status AppointmentStatus `json:"status"`
}

// NewDraftAppointment is the empty draft the create modal starts from.
func NewDraftAppointment() Appointment {
	return Appointment{Status: AppointmentStatusScheduled}
}

// DateLayout is the ISO 8601 calendar date format used by every date field.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsAfterDay reports whether the calendar date s falls strictly after the day of now.
// Unparseable dates are never in the future.
func IsAfterDay(s string, now time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.After(today)
}
