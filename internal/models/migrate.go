package models

// All lists every table in migration order.
func All() []any {
	return []any{
		&Agency{},
		&Calendar{},
		&Stop{},
		&Route{},
		&Trip{},
		&StopTime{},
		&Shape{},
		&ShapePoint{},
		&Vehicle{},
		&ArrivalEstimate{},
		&VehiclePosition{},
		&Driver{},
		&VehicleAssignment{},
		&User{},
		&Student{},
		&Message{},
	}
}
