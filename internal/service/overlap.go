package service

import (
    "time"

    "github.com/ritmofit/booking-api/internal/model"
)

// Interval is a half-open time span [Start, End). Class sessions map
// onto intervals via their start instant and duration; two sessions
// conflict exactly when their intervals overlap.
type Interval struct {
    Start time.Time
    End   time.Time
}

// NewInterval builds the interval covered by a session starting at
// start and running for durationMin minutes.
func NewInterval(start time.Time, durationMin int) Interval {
    return Interval{Start: start, End: start.Add(time.Duration(durationMin) * time.Minute)}
}

// ClassInterval computes the interval occupied by a class session.
func ClassInterval(cs model.ClassSession) (Interval, error) {
    start, err := cs.StartsAt()
    if err != nil {
        return Interval{}, err
    }
    return NewInterval(start, cs.DurationMin), nil
}

// Overlaps reports whether two half-open intervals share at least one
// instant: [a,b) and [c,d) overlap iff a < d && c < b. Back-to-back
// sessions (b == c) do not overlap. An empty interval contains no
// instant at all, so it can never share one; the bare comparison would
// still flag an empty interval sitting strictly inside a longer one,
// hence the explicit guard.
func (iv Interval) Overlaps(o Interval) bool {
    if !iv.Start.Before(iv.End) || !o.Start.Before(o.End) {
        return false
    }
    return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// ConflictsAny reports whether the candidate interval overlaps any of
// the existing ones.
func ConflictsAny(candidate Interval, existing []Interval) bool {
    for _, e := range existing {
        if candidate.Overlaps(e) {
            return true
        }
    }
    return false
}
