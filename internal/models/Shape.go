package models

// Shape is the polyline a trip follows, referenced from trips by shape_id.
type Shape struct {
	Model
	ShapeID string       `json:"shape_id" gorm:"column:shape_id;uniqueIndex;not null"`
	Points  []ShapePoint `json:"points" gorm:"foreignKey:ShapeRefID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type ShapePoint struct {
	ID           uint     `json:"-" gorm:"primaryKey"`
	ShapeRefID   uint     `json:"-" gorm:"index;not null"`
	Lat          float64  `json:"shape_pt_lat" gorm:"not null"`
	Lon          float64  `json:"shape_pt_lon" gorm:"not null"`
	Sequence     int      `json:"shape_pt_sequence" gorm:"not null"`
	DistTraveled *float64 `json:"shape_dist_traveled,omitempty"`
}

// ShapeSummary is the listing form of a shape.
type ShapeSummary struct {
	ID      uint   `json:"id"`
	ShapeID string `json:"shape_id"`
}
