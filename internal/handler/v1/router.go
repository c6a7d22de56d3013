package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/config"
	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
	"github.com/clinicdesk/clinicdesk-api/pkg/auth"
	"github.com/clinicdesk/clinicdesk-api/pkg/metrics"
)

// Services bundles everything the router needs to wire handlers.
type Services struct {
	Auth         *service.AuthService
	Doctor       *service.DoctorService
	Schedule     *service.ScheduleService
	Availability *service.AvailabilityService
	Booking      *service.BookingService
}

// NewRouter builds the HTTP surface. Availability and the doctor
// directory are public reads; everything that writes goes through auth.
func NewRouter(
	cfg *config.Config,
	svcs Services,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(Metrics(collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:       cfg.CORS.MaxAge,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(svcs.Auth)
	doctorHandler := NewDoctorHandler(svcs.Doctor)
	scheduleHandler := NewScheduleHandler(svcs.Schedule)
	availabilityHandler := NewAvailabilityHandler(svcs.Availability)
	bookingHandler := NewBookingHandler(svcs.Booking)

	apiV1 := r.Group("/api/v1")

	// Public: login, token refresh, doctor directory, availability reads.
	authHandler.RegisterPublicRoutes(apiV1)
	apiV1.GET("/doctors", doctorHandler.List)
	apiV1.GET("/doctors/:id", doctorHandler.Get)
	availabilityHandler.RegisterRoutes(apiV1)

	// Authenticated: booking, lifecycle transitions, schedule reads.
	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtManager))
	authHandler.RegisterProtectedRoutes(protected)
	bookingHandler.RegisterRoutes(protected)
	protected.GET("/doctors/:id/schedule", scheduleHandler.GetWeeklyTemplate)
	protected.GET("/doctors/:id/leaves", scheduleHandler.ListLeaves)

	// Schedule writes: clinic staff and the doctor who owns the calendar.
	staff := protected.Group("")
	staff.Use(RequireRoles(
		string(domain.RolePlatformAdmin),
		string(domain.RoleClinicAdmin),
		string(domain.RoleDoctor),
	))
	staff.PUT("/doctors/:id/schedule", scheduleHandler.UpsertWeeklyTemplate)
	staff.POST("/doctors/:id/leaves", scheduleHandler.CreateLeave)
	staff.DELETE("/leaves/:id", scheduleHandler.CancelLeave)

	// Registry writes: admins only.
	admin := protected.Group("")
	admin.Use(RequireRoles(
		string(domain.RolePlatformAdmin),
		string(domain.RoleClinicAdmin),
	))
	admin.POST("/doctors", doctorHandler.Register)
	admin.PATCH("/doctors/:id", doctorHandler.Update)

	return r
}
