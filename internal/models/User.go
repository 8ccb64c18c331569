package models

// User is an account of any role. Password holds a bcrypt hash and is never serialised.
type User struct {
	Model
	Username    string    `json:"username"`
	MyAdmin     string    `json:"myadmin" gorm:"column:my_admin;index"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	CINNumber   *string   `json:"cinNumber" gorm:"column:cin_number;uniqueIndex"`
	PhoneNumber string    `json:"phoneNumber"`
	Password    string    `json:"-" gorm:"not null"`
	Role        string    `json:"role" gorm:"not null;default:parent;index"`
	Agencies    []Agency  `json:"agencies" gorm:"many2many:user_agencies;constraint:OnDelete:CASCADE;"`
	Students    []Student `json:"students" gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (u User) AgencyIDs() []uint {
	ids := make([]uint, 0, len(u.Agencies))
	for _, a := range u.Agencies {
		ids = append(ids, a.ID)
	}
	return ids
}
