package dto

import "transit_ops/internal/models"

type CreateAgencyRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Routes  []uint `json:"routes"`
}

// UpdateAgencyRequest carries the decoded body; Fields lists the JSON keys
// the client actually sent so the admin allow-list can be enforced.
type UpdateAgencyRequest struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email" binding:"omitempty,email"`
	Phone   *string  `json:"phone"`
	Website *string  `json:"website"`
	Routes  *[]uint  `json:"routes"`
	Fields  []string `json:"-"`
}

type CreateRouteRequest struct {
	Agency         *uint  `json:"agency" binding:"required"`
	RouteID        string `json:"route_id" binding:"required"`
	RouteShortName string `json:"route_short_name" binding:"required"`
	RouteLongName  string `json:"route_long_name"`
	RouteType      string `json:"route_type"`
}

type UpdateRouteRequest struct {
	Agency         *uint   `json:"agency"`
	RouteID        *string `json:"route_id"`
	RouteShortName *string `json:"route_short_name"`
	RouteLongName  *string `json:"route_long_name"`
	RouteType      *string `json:"route_type"`
}

type CreateTripRequest struct {
	Route         uint   `json:"route" binding:"required"`
	TripID        string `json:"trip_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	TripHeadsign  string `json:"trip_headsign"`
	DirectionID   *int   `json:"direction_id" binding:"omitempty,oneof=0 1"`
	BlockID       string `json:"block_id"`
	TripShortName string `json:"trip_short_name"`
	ShapeID       string `json:"shape_id"`
	VehicleID     *uint  `json:"vehicle_id"`
}

type UpdateTripRequest struct {
	Route         *uint   `json:"route"`
	TripID        *string `json:"trip_id"`
	ServiceID     *uint   `json:"service_id"`
	TripHeadsign  *string `json:"trip_headsign"`
	DirectionID   *int    `json:"direction_id" binding:"omitempty,oneof=0 1"`
	BlockID       *string `json:"block_id"`
	TripShortName *string `json:"trip_short_name"`
	ShapeID       *string `json:"shape_id"`
	VehicleID     *uint   `json:"vehicle_id"`
}

type CreateStopRequest struct {
	StopID   string   `json:"stop_id" binding:"required"`
	StopName string   `json:"stop_name"`
	StopLat  *float64 `json:"stop_lat" binding:"required,gte=-90,lte=90"`
	StopLon  *float64 `json:"stop_lon" binding:"required,gte=-180,lte=180"`
	StopDesc string   `json:"stop_desc"`
	ZoneID   string   `json:"zone_id"`
	StopURL  string   `json:"stop_url" binding:"omitempty,url"`
}

type UpdateStopRequest struct {
	StopID   *string  `json:"stop_id"`
	StopName *string  `json:"stop_name"`
	StopLat  *float64 `json:"stop_lat" binding:"omitempty,gte=-90,lte=90"`
	StopLon  *float64 `json:"stop_lon" binding:"omitempty,gte=-180,lte=180"`
	StopDesc *string  `json:"stop_desc"`
	ZoneID   *string  `json:"zone_id"`
	StopURL  *string  `json:"stop_url" binding:"omitempty,url"`
}

type CreateStopTimeRequest struct {
	Trip          uint   `json:"trip" binding:"required"`
	Stop          uint   `json:"stop" binding:"required"`
	ArrivalTime   string `json:"arrival_time" binding:"required,gtfstime"`
	DepartureTime string `json:"departure_time" binding:"required,gtfstime"`
	StopSequence  *int   `json:"stop_sequence" binding:"required,gte=0"`
	PickupType    *int   `json:"pickup_type" binding:"omitempty,gte=0,lte=3"`
	DropOffType   *int   `json:"drop_off_type" binding:"omitempty,gte=0,lte=3"`
}

type UpdateStopTimeRequest struct {
	Trip          *uint   `json:"trip"`
	Stop          *uint   `json:"stop"`
	ArrivalTime   *string `json:"arrival_time" binding:"omitempty,gtfstime"`
	DepartureTime *string `json:"departure_time" binding:"omitempty,gtfstime"`
	StopSequence  *int    `json:"stop_sequence" binding:"omitempty,gte=0"`
	PickupType    *int    `json:"pickup_type" binding:"omitempty,gte=0,lte=3"`
	DropOffType   *int    `json:"drop_off_type" binding:"omitempty,gte=0,lte=3"`
}

type CreateCalendarRequest struct {
	ServiceID string       `json:"service_id" binding:"required"`
	Monday    *bool        `json:"monday" binding:"required"`
	Tuesday   *bool        `json:"tuesday" binding:"required"`
	Wednesday *bool        `json:"wednesday" binding:"required"`
	Thursday  *bool        `json:"thursday" binding:"required"`
	Friday    *bool        `json:"friday" binding:"required"`
	Saturday  *bool        `json:"saturday" binding:"required"`
	Sunday    *bool        `json:"sunday" binding:"required"`
	StartDate *models.Date `json:"start_date" binding:"required"`
	EndDate   *models.Date `json:"end_date" binding:"required"`
}

type UpdateCalendarRequest struct {
	ServiceID *string      `json:"service_id"`
	Monday    *bool        `json:"monday"`
	Tuesday   *bool        `json:"tuesday"`
	Wednesday *bool        `json:"wednesday"`
	Thursday  *bool        `json:"thursday"`
	Friday    *bool        `json:"friday"`
	Saturday  *bool        `json:"saturday"`
	Sunday    *bool        `json:"sunday"`
	StartDate *models.Date `json:"start_date"`
	EndDate   *models.Date `json:"end_date"`
}

type ShapePointInput struct {
	Lat          *float64 `json:"shape_pt_lat" binding:"required,gte=-90,lte=90"`
	Lon          *float64 `json:"shape_pt_lon" binding:"required,gte=-180,lte=180"`
	Sequence     *int     `json:"shape_pt_sequence" binding:"required,gte=0"`
	DistTraveled *float64 `json:"shape_dist_traveled" binding:"omitempty,gte=0"`
}

type CreateShapeRequest struct {
	ShapeID string            `json:"shape_id" binding:"required"`
	Points  []ShapePointInput `json:"points" binding:"required,min=1,dive"`
}

type UpdateShapeRequest struct {
	ShapeID *string            `json:"shape_id"`
	Points  *[]ShapePointInput `json:"points" binding:"omitempty,min=1,dive"`
}
