package routes

import (
	"github.com/gin-gonic/gin"

	"transit_ops/internal/controllers"
)

func SessionRoutes(api *gin.RouterGroup, h *controllers.AuthController) {
	api.POST("/session", h.Session)
}

func UserRoutes(api *gin.RouterGroup, g gates, h *controllers.UserController) {
	users := api.Group("/users", g.protect)
	{
		users.POST("", g.staff, h.Create)
		users.GET("", g.staff, h.List)
		users.GET("/:id", h.Get)
		users.PUT("/:id", g.staff, h.Update)
		users.DELETE("/:id", g.staff, h.Delete)
	}
}

func PermissionRoutes(api *gin.RouterGroup, g gates, h *controllers.PermissionController) {
	perm := api.Group("/userpermission", g.protect)
	{
		perm.POST("/assign-agency", g.superAdmin, h.AssignAgency)
		perm.POST("/unassign-agency", g.superAdmin, h.UnassignAgency)
		perm.POST("/assign-route-agency", g.staff, h.AssignRouteAgency)
		perm.POST("/unassign-route-agency", g.staff, h.UnassignRouteAgency)
		perm.POST("/assign-trip-route", g.staff, h.AssignTripRoute)
		perm.POST("/unassign-trip-route", g.staff, h.UnassignTripRoute)
	}
}

func MessageRoutes(api *gin.RouterGroup, g gates, h *controllers.MessageController) {
	msgs := api.Group("/messages", g.protect)
	{
		msgs.POST("", h.Create)
		msgs.GET("", h.List)
		msgs.POST("/:id/reply", g.admin, h.Reply)
		msgs.PUT("/:id/read", h.MarkRead)
	}
}
