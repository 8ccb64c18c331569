package models

// Route is a named line operated by one agency.
type Route struct {
	Model
	AgencyID       *uint  `json:"agency" gorm:"index"`
	RouteID        string `json:"route_id" gorm:"column:route_id;uniqueIndex;not null"`
	RouteShortName string `json:"route_short_name" gorm:"not null"`
	RouteLongName  string `json:"route_long_name"`
	RouteType      string `json:"route_type"`
	Trips          []Trip `json:"trips" gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (r Route) TripIDs() []uint {
	ids := make([]uint, 0, len(r.Trips))
	for _, t := range r.Trips {
		ids = append(ids, t.ID)
	}
	return ids
}
