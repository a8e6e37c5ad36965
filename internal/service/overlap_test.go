package service

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/ritmofit/booking-api/internal/model"
)

func at(hour, min int) time.Time {
    return time.Date(2026, 9, 14, hour, min, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
    testCases := []struct {
        name     string
        a        Interval
        b        Interval
        overlaps bool
    }{
        {
            name:     "Identical intervals",
            a:        NewInterval(at(10, 0), 60),
            b:        NewInterval(at(10, 0), 60),
            overlaps: true,
        },
        {
            name:     "Partial overlap",
            a:        NewInterval(at(10, 0), 60),
            b:        NewInterval(at(10, 30), 60),
            overlaps: true,
        },
        {
            name:     "Containment",
            a:        NewInterval(at(10, 0), 120),
            b:        NewInterval(at(10, 30), 30),
            overlaps: true,
        },
        {
            name:     "Back to back is allowed",
            a:        NewInterval(at(10, 0), 60),
            b:        NewInterval(at(11, 0), 60),
            overlaps: false,
        },
        {
            name:     "Disjoint",
            a:        NewInterval(at(10, 0), 60),
            b:        NewInterval(at(12, 0), 60),
            overlaps: false,
        },
        {
            name:     "Zero duration inside a longer class never overlaps",
            a:        NewInterval(at(10, 30), 0),
            b:        NewInterval(at(10, 0), 60),
            overlaps: false,
        },
        {
            name:     "Two zero durations at the same instant never overlap",
            a:        NewInterval(at(10, 30), 0),
            b:        NewInterval(at(10, 30), 0),
            overlaps: false,
        },
        {
            name:     "One minute of shared time",
            a:        NewInterval(at(10, 0), 61),
            b:        NewInterval(at(11, 0), 60),
            overlaps: true,
        },
    }

    for _, tc := range testCases {
        t.Run(tc.name, func(t *testing.T) {
            // The predicate is symmetric; check both directions.
            assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
            assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a))
        })
    }
}

func TestConflictsAny(t *testing.T) {
    candidate := NewInterval(at(10, 0), 60)

    assert.False(t, ConflictsAny(candidate, nil))
    assert.False(t, ConflictsAny(candidate, []Interval{
        NewInterval(at(8, 0), 60),
        NewInterval(at(11, 0), 60),
    }))
    assert.True(t, ConflictsAny(candidate, []Interval{
        NewInterval(at(8, 0), 60),
        NewInterval(at(10, 45), 30),
    }))
}

func TestClassInterval(t *testing.T) {
    cs := model.ClassSession{
        ID:          7,
        Date:        time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
        StartTime:   "18:30:00",
        DurationMin: 45,
    }
    iv, err := ClassInterval(cs)
    require.NoError(t, err)
    assert.Equal(t, at(18, 30), iv.Start)
    assert.Equal(t, at(19, 15), iv.End)

    cs.StartTime = "not a time"
    _, err = ClassInterval(cs)
    assert.Error(t, err)
}
