package routes

import (
	"github.com/gin-gonic/gin"

	"transit_ops/internal/controllers"
)

// openCRUD registers every verb behind the same middleware.
func openCRUD(grp *gin.RouterGroup, h crud) {
	grp.POST("", h.Create)
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.PUT("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)
}

func StopRoutes(api *gin.RouterGroup, g gates, stops *controllers.StopController, stopTimes *controllers.StopTimeController) {
	openCRUD(api.Group("/stops", g.publicFleet...), stops)

	st := api.Group("/stopTimes", g.protect)
	st.GET("/trips/:tripId", stopTimes.ByTrip)
	openCRUD(st, stopTimes)
}

func VehicleRoutes(api *gin.RouterGroup, g gates, vehicles *controllers.VehicleController, assignments *controllers.AssignmentController) {
	v := api.Group("/vehicles", g.publicFleet...)
	openCRUD(v, vehicles)
	v.POST("/:id/telemetry", vehicles.Telemetry)
	v.GET("/:id/positions", vehicles.Positions)

	openCRUD(api.Group("/vehicle-assignments", g.protect), assignments)
}

func WebSocketRoutes(r *gin.Engine, g gates, h *controllers.WebSocketController) {
	r.GET("/ws/vehicles", append(append([]gin.HandlerFunc{}, g.publicFleet...), h.Vehicles)...)
}
