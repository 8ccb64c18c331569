package models

// StopTime is a trip's scheduled call at one stop. A stop appears at most once per trip.
type StopTime struct {
	Model
	TripID        uint   `json:"trip" gorm:"not null;uniqueIndex:idx_stop_times_trip_stop"`
	StopRefID     uint   `json:"stop" gorm:"column:stop_id;not null;uniqueIndex:idx_stop_times_trip_stop"`
	Stop          *Stop  `json:"stopDetails,omitempty" gorm:"foreignKey:StopRefID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ArrivalTime   string `json:"arrival_time" gorm:"not null"`
	DepartureTime string `json:"departure_time" gorm:"not null"`
	StopSequence  int    `json:"stop_sequence" gorm:"not null"`
	PickupType    *int   `json:"pickup_type"`
	DropOffType   *int   `json:"drop_off_type"`
}
