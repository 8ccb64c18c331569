package geo

import "time"

// StopPoint is a stop on a trip in sequence order.
type StopPoint struct {
	ID        uint
	Name      string
	Latitude  float64
	Longitude float64
}

const arrivalRadius = 30.0 // meters

// NextStop returns the index of the stop the vehicle is heading to and the
// distance to it in meters: the stop after the closest one once the vehicle is
// within arrivalRadius of it, otherwise the closest one. The index is -1 for
// an empty list.
func NextStop(stops []StopPoint, lat, lon float64) (int, float64) {
	if len(stops) == 0 {
		return -1, 0
	}
	closest, best := 0, Distance(lat, lon, stops[0].Latitude, stops[0].Longitude)
	for i := 1; i < len(stops); i++ {
		if d := Distance(lat, lon, stops[i].Latitude, stops[i].Longitude); d < best {
			closest, best = i, d
		}
	}
	if best <= arrivalRadius && closest+1 < len(stops) {
		next := stops[closest+1]
		return closest + 1, Distance(lat, lon, next.Latitude, next.Longitude)
	}
	return closest, best
}

// ETA estimates the arrival time over distance meters. A vehicle slower than
// minSpeed is assumed to move at fallbackSpeed.
func ETA(from time.Time, distance, speed float64) time.Time {
	const (
		minSpeed      = 0.5
		fallbackSpeed = 6.0 // m/s
	)
	if speed < minSpeed {
		speed = fallbackSpeed
	}
	return from.Add(time.Duration(distance / speed * float64(time.Second)))
}
