package routes

import (
	"github.com/gin-gonic/gin"

	"transit_ops/internal/controllers"
	"transit_ops/internal/service"
)

func AgencyRoutes(api *gin.RouterGroup, g gates, h *controllers.AgencyController) {
	agencies := api.Group("/agencies", g.protect)
	{
		agencies.POST("", g.superAdmin, h.Create)
		agencies.GET("", g.superAdmin, h.List)
		agencies.GET("/:id", h.Get)
		agencies.PUT("/:id", g.staff, h.Update)
		agencies.DELETE("/:id", g.superAdmin, h.Delete)
	}
}

// crud is the handler set of a plain resource.
type crud interface {
	Create(*gin.Context)
	List(*gin.Context)
	Get(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// staffWrites registers reads behind protect and writes behind protect+staff.
func staffWrites(grp *gin.RouterGroup, g gates, h crud) {
	grp.POST("", g.staff, h.Create)
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.PUT("/:id", g.staff, h.Update)
	grp.DELETE("/:id", g.staff, h.Delete)
}

// TransitRoutes covers the schedule entities: routes, trips, calendars and shapes.
func TransitRoutes(api *gin.RouterGroup, g gates, svc *service.Services) {
	staffWrites(api.Group("/routes", g.protect), g, controllers.NewRouteController(svc.Routes))

	trips := controllers.NewTripController(svc.Trips)
	tripGroup := api.Group("/trips", g.protect)
	tripGroup.GET("/routes/:routeId", trips.ByRoute)
	staffWrites(tripGroup, g, trips)

	staffWrites(api.Group("/calendars", g.protect), g, controllers.NewCalendarController(svc.Calendars))

	shapes := controllers.NewShapeController(svc.Shapes)
	shapeGroup := api.Group("/shapes", g.protect)
	shapeGroup.GET("/summary", shapes.Summary)
	shapeGroup.GET("/byShapeId/:shapeId", shapes.ByShapeID)
	shapeGroup.GET("/:id/geojson", shapes.GeoJSON)
	staffWrites(shapeGroup, g, shapes)
}

func PeopleRoutes(api *gin.RouterGroup, g gates, drivers *controllers.DriverController, students *controllers.StudentController) {
	staffWrites(api.Group("/drivers", g.protect), g, drivers)
	staffWrites(api.Group("/students", g.protect), g, students)
}
