package scheduling

import (
	"errors"
	"fmt"
	"time"

	"simlab/internal/model"
)

// ErrInvalidStatusTransition the lifecycle does not allow the move
var ErrInvalidStatusTransition = errors.New("invalid schedule status transition")

var transitions = map[string][]string{
	model.ScheduleStatusScheduled: {model.ScheduleStatusOngoing, model.ScheduleStatusCancelled},
	model.ScheduleStatusOngoing:   {model.ScheduleStatusCompleted, model.ScheduleStatusCancelled},
}

// CanTransition from → to is allowed. Staying in place is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition CanTransition as an error.
func CheckTransition(from, to string) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidStatusTransition, from, to)
}

// Path shortest sequence of single allowed moves leading from from to to,
// excluding from itself. Empty when from == to, nil when to is unreachable.
func Path(from, to string) []string {
	if from == to {
		return []string{}
	}
	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range transitions[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if next == to {
				var path []string
				for st := to; st != from; st = prev[st] {
					path = append([]string{st}, path...)
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// Terminal no further transitions exist.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// StatusAt the status an entry should have at now judged by wall clock:
// scheduled becomes ongoing once started, scheduled or ongoing becomes
// completed once ended. Terminal statuses never change. loc is the timezone the HH:MM
// values are expressed in.
func StatusAt(e model.ScheduleEntry, now time.Time, loc *time.Location) string {
	if Terminal(e.Status) {
		return e.Status
	}
	d := time.Time(e.Tanggal)
	start, err1 := Minutes(e.JamMulai)
	end, err2 := Minutes(e.JamSelesai)
	if err1 != nil || err2 != nil {
		return e.Status
	}
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	startAt := day.Add(time.Duration(start) * time.Minute)
	endAt := day.Add(time.Duration(end) * time.Minute)

	switch {
	case !now.Before(endAt):
		return model.ScheduleStatusCompleted
	case !now.Before(startAt):
		return model.ScheduleStatusOngoing
	}
	return e.Status
}
