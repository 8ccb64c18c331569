package models

// Student belongs to the parent user whose cinNumber equals CINParent.
type Student struct {
	Model
	Username    string `json:"username"`
	BadgeID     string `json:"badgeId" gorm:"column:badge_id;uniqueIndex;not null"`
	CINParent   string `json:"cinParent" gorm:"column:cin_parent;uniqueIndex;not null"`
	PhoneParent string `json:"phoneParent"`
	Level       string `json:"level"`
	ParentID    *uint  `json:"parent" gorm:"index"`
}
