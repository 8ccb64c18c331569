package geo

import "time"

const (
	EventInitial  = "initial"
	EventMove     = "move"
	EventStopped  = "stopped"
	EventStarted  = "started"
	EventPeriodic = "periodic"

	minDistanceForSave   = 5.0 // meters
	minTimeDiffForSave   = 10 * time.Second
	minSpeedForMoving    = 0.5 // m/s
	maxSpeedForStopped   = 1.0 // m/s
	periodicSaveInterval = 60 * time.Second
)

// Fix is one recorded position.
type Fix struct {
	Latitude  float64
	Longitude float64
	IsMoving  bool
	Timestamp time.Time
}

// Movement describes how a new fix relates to the previous one.
type Movement struct {
	Distance float64 // meters
	Bearing  float64
	Speed    float64 // m/s
	IsMoving bool
	Event    string // empty when the fix is not worth recording
}

// Assess compares the current fix against the last recorded one. speed is the
// reported speed in m/s; when it is nil the speed is derived from the two fixes.
func Assess(last *Fix, lat, lon float64, at time.Time, speed *float64) Movement {
	if last == nil {
		m := Movement{Event: EventInitial}
		if speed != nil && *speed > 0 {
			m.Speed = *speed
		}
		m.IsMoving = m.Speed > minSpeedForMoving
		return m
	}

	m := Movement{
		Distance: Distance(last.Latitude, last.Longitude, lat, lon),
		Bearing:  Bearing(last.Latitude, last.Longitude, lat, lon),
	}
	elapsed := at.Sub(last.Timestamp)
	switch {
	case speed != nil:
		m.Speed = *speed
	case elapsed > 0:
		m.Speed = m.Distance / elapsed.Seconds()
	}
	if m.Speed < 0 {
		m.Speed = 0
	}
	m.IsMoving = m.Speed > minSpeedForMoving

	switch {
	case m.Distance >= minDistanceForSave:
		m.Event = EventMove
	case last.IsMoving && m.Speed < maxSpeedForStopped && elapsed >= minTimeDiffForSave:
		m.Event = EventStopped
	case !last.IsMoving && m.Speed >= minSpeedForMoving && elapsed >= minTimeDiffForSave:
		m.Event = EventStarted
	case elapsed >= periodicSaveInterval:
		m.Event = EventPeriodic
	}
	return m
}
