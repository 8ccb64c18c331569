package dto

type CreateUserRequest struct {
	Username    string  `json:"username"`
	Email       string  `json:"email" binding:"required,email"`
	CINNumber   *string `json:"cinNumber"`
	PhoneNumber string  `json:"phoneNumber"`
	Password    string  `json:"password" binding:"required,min=6"`
	Role        string  `json:"role" binding:"omitempty,role"`
	MyAdmin     string  `json:"myadmin"`
	Agencies    []uint  `json:"agencies"`
}

type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email" binding:"omitempty,email"`
	CINNumber   *string `json:"cinNumber"`
	PhoneNumber *string `json:"phoneNumber"`
	Password    *string `json:"password" binding:"omitempty,min=6"`
	Role        *string `json:"role" binding:"omitempty,role"`
	MyAdmin     *string `json:"myadmin"`
	Agencies    *[]uint `json:"agencies"`
}

type AgencyAdminRequest struct {
	UserID   uint `json:"userId" binding:"required"`
	AgencyID uint `json:"agencyId" binding:"required"`
}

type RouteAgencyRequest struct {
	AgencyID uint `json:"agencyId" binding:"required"`
	RouteID  uint `json:"routeId" binding:"required"`
}

type TripRouteRequest struct {
	TripID  uint `json:"tripId" binding:"required"`
	RouteID uint `json:"routeId" binding:"required"`
}
