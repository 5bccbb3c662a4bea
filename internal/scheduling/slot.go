// Package scheduling holds the pure rules of lab room booking: slot overlap
// and the schedule entry status lifecycle.
package scheduling

import (
	"errors"
	"fmt"
	"time"

	"simlab/internal/model"
)

// ErrInvalidTime malformed "HH:MM" value
var ErrInvalidTime = errors.New("time must be HH:MM")

// Minutes converts "HH:MM" to minutes after midnight.
func Minutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil || len(hhmm) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps half-open interval test: [aStart, aEnd) and [bStart, bEnd) share
// at least one minute. Touching endpoints do not overlap. Inputs are "HH:MM",
// which order correctly as strings.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// Slot a booking position on the room calendar.
type Slot struct {
	LabRoomID  string
	Hari       string
	Tanggal    string // 2006-01-02
	JamMulai   string
	JamSelesai string
}

// SameDay both slots address the same room, weekday and date.
func (s Slot) SameDay(o Slot) bool {
	return s.LabRoomID == o.LabRoomID && s.Hari == o.Hari && s.Tanggal == o.Tanggal
}

// Collides same day and overlapping times.
func (s Slot) Collides(o Slot) bool {
	return s.SameDay(o) && Overlaps(s.JamMulai, s.JamSelesai, o.JamMulai, o.JamSelesai)
}

// Conflicting returns the entries whose times overlap [start, end). Cancelled
// entries and the entry with excludeID are skipped; callers pass entries
// already narrowed to one room and day.
func Conflicting(entries []model.ScheduleEntry, start, end, excludeID string) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, 0)
	for _, e := range entries {
		if e.Status == model.ScheduleStatusCancelled {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if Overlaps(start, end, e.JamMulai, e.JamSelesai) {
			out = append(out, e)
		}
	}
	return out
}
