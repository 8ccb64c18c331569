package models

// Trip is one scheduled run of a route. CalendarID is the service it runs on
// and is exposed as service_id.
type Trip struct {
	Model
	RouteID       *uint      `json:"route" gorm:"index"`
	TripID        string     `json:"trip_id" gorm:"column:trip_id;uniqueIndex;not null"`
	CalendarID    uint       `json:"service_id" gorm:"not null;index"`
	Service       *Calendar  `json:"service,omitempty" gorm:"foreignKey:CalendarID"`
	TripHeadsign  string     `json:"trip_headsign"`
	DirectionID   *int       `json:"direction_id"`
	BlockID       string     `json:"block_id"`
	TripShortName string     `json:"trip_short_name"`
	ShapeID       string     `json:"shape_id"`
	VehicleID     *uint      `json:"vehicle_id" gorm:"index"`
	StopTimes     []StopTime `json:"stop_times" gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
