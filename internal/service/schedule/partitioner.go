package schedule

import (
	"errors"
	"time"

	"github.com/jwalitptl/scheduler-api/internal/model"
)

// Slot duration business rules
const (
	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 2 * time.Hour
)

var (
	ErrInvalidRange    = errors.New("start time must be before end time")
	ErrInvalidDuration = errors.New("slot duration must be between 15 and 120 minutes")
)

// Partition cuts the working interval [start, end) into consecutive slots of
// exactly duration each. A trailing remainder shorter than one duration is
// dropped. The same function backs both live schedule creation and the
// preview endpoint, so the two can never drift.
func Partition(start, end time.Time, duration time.Duration) ([]model.TimeSlot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}
	if duration < MinSlotDuration || duration > MaxSlotDuration {
		return nil, ErrInvalidDuration
	}

	var slots []model.TimeSlot
	for t := start; !t.Add(duration).After(end); t = t.Add(duration) {
		slots = append(slots, model.TimeSlot{
			Start: t,
			End:   t.Add(duration),
		})
	}
	return slots, nil
}
