package dto

import (
	"time"

	"transit_ops/internal/models"
)

type ArrivalEstimateInput struct {
	StopID      uint      `json:"stopId" binding:"required"`
	ArrivalTime time.Time `json:"arrivalTime" binding:"required"`
}

type CreateVehicleRequest struct {
	UniqueID              string                 `json:"uniqueId" binding:"required"`
	Name                  string                 `json:"name" binding:"required"`
	Category              string                 `json:"category"`
	Drivers               []string               `json:"drivers"`
	Latitude              *float64               `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude             *float64               `json:"longitude" binding:"required,gte=-180,lte=180"`
	Temperature           *float64               `json:"temperature"`
	Pression              *float64               `json:"pression"`
	Humidity              *float64               `json:"humidity"`
	Flame                 *bool                  `json:"flame"`
	PositionID            string                 `json:"positionId"`
	Headsign              string                 `json:"headsign"`
	CurrentShapeSequence  *int                   `json:"currentShapeSequence"`
	EstimatedArrivalTimes []ArrivalEstimateInput `json:"estimatedArrivalTimes" binding:"omitempty,dive"`
}

type UpdateVehicleRequest struct {
	UniqueID              *string                 `json:"uniqueId"`
	Name                  *string                 `json:"name"`
	Category              *string                 `json:"category"`
	Drivers               *[]string               `json:"drivers"`
	Latitude              *float64                `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude             *float64                `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Temperature           *float64                `json:"temperature"`
	Pression              *float64                `json:"pression"`
	Humidity              *float64                `json:"humidity"`
	Flame                 *bool                   `json:"flame"`
	PositionID            *string                 `json:"positionId"`
	Headsign              *string                 `json:"headsign"`
	CurrentShapeSequence  *int                    `json:"currentShapeSequence"`
	EstimatedArrivalTimes *[]ArrivalEstimateInput `json:"estimatedArrivalTimes" binding:"omitempty,dive"`
}

// TelemetryRequest is one position and sensor report from a vehicle.
type TelemetryRequest struct {
	Latitude             *float64   `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude            *float64   `json:"longitude" binding:"required,gte=-180,lte=180"`
	Speed                *float64   `json:"speed" binding:"omitempty,gte=0"`
	Temperature          *float64   `json:"temperature"`
	Pression             *float64   `json:"pression"`
	Humidity             *float64   `json:"humidity"`
	Flame                *bool      `json:"flame"`
	PositionID           *string    `json:"positionId"`
	CurrentShapeSequence *int       `json:"currentShapeSequence"`
	Timestamp            *time.Time `json:"timestamp"`
}

type DriverRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email" binding:"required,email"`
	CINNumber   string `json:"cinNumber" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

type UpdateDriverRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email" binding:"omitempty,email"`
	CINNumber   *string `json:"cinNumber"`
	PhoneNumber *string `json:"phoneNumber"`
}

type StudentRequest struct {
	Username    string `json:"username" binding:"required"`
	BadgeID     string `json:"badgeId" binding:"required"`
	CINParent   string `json:"cinParent" binding:"required"`
	PhoneParent string `json:"phoneParent" binding:"required"`
	Level       string `json:"level" binding:"required"`
}

type UpdateStudentRequest struct {
	Username    *string `json:"username"`
	BadgeID     *string `json:"badgeId"`
	CINParent   *string `json:"cinParent"`
	PhoneParent *string `json:"phoneParent"`
	Level       *string `json:"level"`
}

// MessageRequest is validated by the service so blank content gets its own message.
type MessageRequest struct {
	Content string `json:"content"`
}

type AssignmentRequest struct {
	VehicleID    uint                   `json:"vehicle_id" binding:"required"`
	AssignedType *models.AssignedTarget `json:"assigned_type" binding:"required"`
	Status       string                 `json:"status" binding:"omitempty,oneof=active inactive"`
}
