package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/handler/api"
	"lab-booking-api/internal/handler/middleware"
	"lab-booking-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	labHandler *api.LabHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, paymentHandler, labHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	labHandler *api.LabHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	labRoles := authMiddleware.RequireRole(
		user.RoleStaff, user.RoleLabTechnician, user.RoleXrayTechnician,
		user.RoleLocalAdmin, user.RoleAdmin,
	)
	adminOnly := authMiddleware.RequireRole(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: bookingHandler.Update},
				{Method: http.MethodDelete, Path: "/:id", Handler: bookingHandler.Cancel},

				{Method: http.MethodPost, Path: "/:id/create-order", Handler: paymentHandler.CreateOrder},
				{Method: http.MethodPost, Path: "/:id/payment", Handler: paymentHandler.ConfirmPayment},
				{Method: http.MethodPost, Path: "/:id/lab-payment", Handler: paymentHandler.ProcessLabPayment, Mw: []gin.HandlerFunc{labRoles}},

				{Method: http.MethodGet, Path: "/lab/:labId", Handler: labHandler.ListLabBookings, Mw: []gin.HandlerFunc{labRoles}},
				{Method: http.MethodPut, Path: "/:id/status", Handler: labHandler.UpdateStatus, Mw: []gin.HandlerFunc{labRoles}},
				{Method: http.MethodPost, Path: "/:id/results", Handler: labHandler.SubmitResults, Mw: []gin.HandlerFunc{labRoles}},
				{Method: http.MethodPost, Path: "/:id/upload-report", Handler: labHandler.UploadReport, Mw: []gin.HandlerFunc{labRoles}},

				{Method: http.MethodGet, Path: "/admin/all", Handler: adminHandler.ListAll, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPut, Path: "/admin/:id/status", Handler: adminHandler.OverrideStatus, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodDelete, Path: "/admin/:id", Handler: adminHandler.Delete, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
