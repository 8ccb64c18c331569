package models

// Calendar is a GTFS service: weekday flags over a date range.
type Calendar struct {
	Model
	ServiceID string `json:"service_id" gorm:"column:service_id;uniqueIndex;not null"`
	Monday    bool   `json:"monday"`
	Tuesday   bool   `json:"tuesday"`
	Wednesday bool   `json:"wednesday"`
	Thursday  bool   `json:"thursday"`
	Friday    bool   `json:"friday"`
	Saturday  bool   `json:"saturday"`
	Sunday    bool   `json:"sunday"`
	StartDate Date   `json:"start_date" gorm:"not null"`
	EndDate   Date   `json:"end_date" gorm:"not null"`
}
