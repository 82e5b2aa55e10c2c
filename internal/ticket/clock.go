package ticket

import "time"

// Clock supplies the local timestamp recorded on each successful rescan.
// Production tables use the system clock; tests inject a fixed clock so the
// recorded scan date is deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
