package models

// Stop is a boarding location.
type Stop struct {
	Model
	StopID   string  `json:"stop_id" gorm:"column:stop_id;uniqueIndex;not null"`
	StopName string  `json:"stop_name"`
	StopLat  float64 `json:"stop_lat" gorm:"not null"`
	StopLon  float64 `json:"stop_lon" gorm:"not null"`
	StopDesc string  `json:"stop_desc"`
	ZoneID   string  `json:"zone_id"`
	StopURL  string  `json:"stop_url"`
}
