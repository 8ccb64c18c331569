package models

import "time"

// Vehicle is a bus with live telemetry. Its drivers are the Driver rows whose
// AssignedVehicleID points at it.
type Vehicle struct {
	Model
	UniqueID              string            `json:"uniqueId" gorm:"column:unique_id;uniqueIndex;not null"`
	Name                  string            `json:"name" gorm:"not null"`
	Category              string            `json:"category"`
	Latitude              float64           `json:"latitude" gorm:"not null"`
	Longitude             float64           `json:"longitude" gorm:"not null"`
	Temperature           *float64          `json:"temperature"`
	Pression              *float64          `json:"pression"`
	Humidity              *float64          `json:"humidity"`
	Flame                 *bool             `json:"flame"`
	PositionID            string            `json:"positionId"`
	AssignedRouteID       *uint             `json:"assignedRoute" gorm:"index"`
	AssignedTripID        *uint             `json:"assignedTrip" gorm:"index"`
	AssignedBlock         *string           `json:"assignedBlock"`
	Headsign              string            `json:"headsign"`
	CurrentShapeSequence  *int              `json:"currentShapeSequence"`
	Details               VehicleDetails    `json:"vehicle_details" gorm:"embedded"`
	Drivers               []Driver          `json:"drivers" gorm:"foreignKey:AssignedVehicleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	EstimatedArrivalTimes []ArrivalEstimate `json:"estimatedArrivalTimes" gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Positions             []VehiclePosition `json:"-" gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// VehicleDetails is the next-stop estimate derived from the latest position.
type VehicleDetails struct {
	NextStopID       *uint    `json:"next_stop_id"`
	NextStopName     string   `json:"next_stop_name"`
	NextStopDistance *float64 `json:"next_stop_distance"` // km
}

type ArrivalEstimate struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	VehicleID   uint      `json:"-" gorm:"index;not null"`
	StopID      uint      `json:"stopId"`
	ArrivalTime time.Time `json:"arrivalTime"`
}

func (v Vehicle) DriverCINs() []string {
	cins := make([]string, 0, len(v.Drivers))
	for _, d := range v.Drivers {
		cins = append(cins, d.CINNumber)
	}
	return cins
}
