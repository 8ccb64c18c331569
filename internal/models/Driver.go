package models

type Driver struct {
	Model
	Username          string `json:"username"`
	Email             string `json:"email" gorm:"uniqueIndex;not null"`
	CINNumber         string `json:"cinNumber" gorm:"column:cin_number;uniqueIndex;not null"`
	PhoneNumber       string `json:"phoneNumber" gorm:"not null"`
	AssignedVehicleID *uint  `json:"assignedVehicle" gorm:"index"`
}
