package routes

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_ops/internal/controllers"
	"transit_ops/internal/logger"
	"transit_ops/internal/middleware"
	"transit_ops/internal/policy"
	"transit_ops/internal/realtime"
	"transit_ops/internal/service"
)

// Options wires the router to the running services.
type Options struct {
	Services       *service.Services
	Hub            *realtime.Hub
	APIPrefix      string
	StrictAuth     bool
	AllowedOrigins []string
	AccessLog      io.Writer
}

// gates bundles the middleware chains the route groups choose from.
type gates struct {
	protect     gin.HandlerFunc
	superAdmin  gin.HandlerFunc
	admin       gin.HandlerFunc
	staff       gin.HandlerFunc
	publicFleet []gin.HandlerFunc
}

func SetupRouter(opts Options) *gin.Engine {
	if err := middleware.RegisterValidators(); err != nil {
		logrus.WithError(err).Fatal("register request validators")
	}

	r := gin.New()
	if opts.AccessLog != nil {
		r.Use(logger.AccessLog(opts.AccessLog))
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Metrics(opts.Services.Metrics),
	)

	g := gates{
		protect:    middleware.Protect(opts.Services.Auth),
		superAdmin: middleware.RequireRoles(policy.RoleSuperAdmin),
		admin:      middleware.RequireRoles(policy.RoleAdmin),
		staff:      middleware.RequireRoles(policy.RoleSuperAdmin, policy.RoleAdmin),
	}
	// Stops and vehicles are public unless strict auth is switched on.
	if opts.StrictAuth {
		g.publicFleet = []gin.HandlerFunc{g.protect}
	}

	health := controllers.NewHealthController(opts.Services.Store)
	r.GET("/healthz", health.Healthz)
	r.GET("/metrics", gin.WrapH(opts.Services.Metrics.Handler()))

	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := r.Group(prefix)

	svc := opts.Services
	SessionRoutes(api, controllers.NewAuthController(svc.Auth))
	UserRoutes(api, g, controllers.NewUserController(svc.Users))
	AgencyRoutes(api, g, controllers.NewAgencyController(svc.Agencies))
	TransitRoutes(api, g, svc)
	StopRoutes(api, g, controllers.NewStopController(svc.Stops), controllers.NewStopTimeController(svc.StopTimes))
	VehicleRoutes(api, g, controllers.NewVehicleController(svc.Vehicles), controllers.NewAssignmentController(svc.Assignments))
	PeopleRoutes(api, g, controllers.NewDriverController(svc.Drivers), controllers.NewStudentController(svc.Students))
	MessageRoutes(api, g, controllers.NewMessageController(svc.Messages))
	PermissionRoutes(api, g, controllers.NewPermissionController(svc.Permissions))

	if opts.Hub != nil {
		WebSocketRoutes(r, g, controllers.NewWebSocketController(opts.Hub, opts.AllowedOrigins))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	return r
}
