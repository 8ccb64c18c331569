package models

// Agency is a transit operator. Its routes are the Route rows pointing at it.
type Agency struct {
	Model
	Name    string  `json:"name" gorm:"uniqueIndex;not null"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Website string  `json:"website"`
	Routes  []Route `json:"routes" gorm:"foreignKey:AgencyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// RouteIDs returns the primary keys of the loaded routes.
func (a Agency) RouteIDs() []uint {
	ids := make([]uint, 0, len(a.Routes))
	for _, r := range a.Routes {
		ids = append(ids, r.ID)
	}
	return ids
}
