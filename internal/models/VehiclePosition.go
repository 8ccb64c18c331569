package models

import "time"

// VehiclePosition is one retained point of a vehicle's track.
type VehiclePosition struct {
	Model
	VehicleID        uint      `json:"vehicle_id" gorm:"index;not null"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Speed            float64   `json:"speed"`   // m/s
	Bearing          float64   `json:"bearing"` // degrees
	IsMoving         bool      `json:"is_moving"`
	DistanceFromLast float64   `json:"distance_from_last"` // meters
	Timestamp        time.Time `json:"timestamp" gorm:"index"`
	EventType        string    `json:"event_type"` // initial, move, stopped, started, periodic
}
