package model

import (
    "fmt"
    "time"
)

// ClassSession represents a single scheduled fitness class as stored in
// the `classes` table.  A session occupies one slot on the calendar
// (date + start time + duration) and carries two capacity counters:
// the provisioned total and the seats still available.  The catalog
// owns the descriptive fields; only the booking engine mutates
// RemainingCapacity.
//
// Fields:
//  ID                – primary key identifier.
//  Title             – human readable class name.
//  Discipline        – activity type (e.g. Funcional, Yoga, Spinning).
//  Location          – branch/studio where the class takes place.
//  Instructor        – name of the instructor leading the class.
//  Date              – calendar day of the session (UTC, midnight).
//  StartTime         – wall-clock start, "HH:MM:SS" as stored in the DB.
//  DurationMin       – length of the session in minutes.
//  TotalCapacity     – provisioned number of seats.
//  RemainingCapacity – seats still available (0 ≤ remaining ≤ total,
//                      except after external catalog edits).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type ClassSession struct {
    ID                uint64    `json:"id"`                 // classes.id
    Title             string    `json:"title"`              // classes.title
    Discipline        string    `json:"discipline"`         // classes.discipline
    Location          string    `json:"location"`           // classes.location
    Instructor        string    `json:"instructor"`         // classes.instructor
    Date              time.Time `json:"date"`               // classes.class_date
    StartTime         string    `json:"start_time"`         // classes.start_time ("15:04:05")
    DurationMin       int       `json:"duration_min"`       // classes.duration_min
    TotalCapacity     int       `json:"total_capacity"`     // classes.total_capacity
    RemainingCapacity int       `json:"remaining_capacity"` // classes.remaining_capacity
    CreatedAt         time.Time `json:"-"`                  // classes.created_at
    UpdatedAt         time.Time `json:"-"`                  // classes.updated_at
}

// StartsAt combines Date and StartTime into the session's start instant
// in UTC.  Sessions never span midnight, so the end instant is always
// StartsAt plus DurationMin minutes on the same day.
func (cs ClassSession) StartsAt() (time.Time, error) {
    t, err := time.Parse("15:04:05", cs.StartTime)
    if err != nil {
        return time.Time{}, fmt.Errorf("class %d: bad start_time %q: %w", cs.ID, cs.StartTime, err)
    }
    d := cs.Date.UTC()
    return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}
