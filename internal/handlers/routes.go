package handlers

import (
	"coworkops/internal/middleware"
	"coworkops/internal/services"

	"github.com/labstack/echo/v4"
)

// Router groups every HTTP handler of the API.
type Router struct {
	Auth        *AuthHandlers
	Users       *UserHandlers
	Items       *ItemHandlers
	Locations   *LocationHandlers
	Inventory   *InventoryHandlers
	Transfers   *TransferHandlers
	TimeEntries *TimeEntryHandlers
	Bookings    *BookingHandlers
	Settings    *SettingsHandlers
	Reports     *ReportHandlers
	AuditLogs   *AuditLogsHandlers
	Jobs        *JobHandlers
	Alerts      *NotificationHandlers
	Health      *HealthHandlers
}

// Register mounts the health probes at the root and the API under /v1.
// Everything except login requires a bearer token.
func (r *Router) Register(e *echo.Echo, auth echo.MiddlewareFunc, rbac *middleware.RBACMiddleware, version *middleware.VersionMiddleware) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)

	v1 := version.VersionRoute(e, "v1")
	v1.POST("/auth/login", r.Auth.Login)

	protected := v1.Group("", auth)
	perm := rbac.RequirePermission

	protected.GET("/me", r.Auth.Me)

	protected.POST("/users", r.Users.CreateUser, perm(services.PermUsersManage))
	protected.GET("/users", r.Users.ListUsers, perm(services.PermUsersRead))

	protected.POST("/items", r.Items.CreateItem, perm(services.PermItemsWrite))
	protected.GET("/items", r.Items.ListItems)
	protected.GET("/items/:id", r.Items.GetItem)
	protected.PUT("/items/:id", r.Items.UpdateItem, perm(services.PermItemsWrite))
	protected.DELETE("/items/:id", r.Items.DeactivateItem, perm(services.PermItemsWrite))

	protected.POST("/locations", r.Locations.CreateLocation, perm(services.PermLocationsWrite))
	protected.GET("/locations", r.Locations.ListLocations)
	protected.POST("/rooms", r.Locations.CreateRoom, perm(services.PermRoomsWrite))
	protected.GET("/rooms", r.Locations.ListRooms)
	protected.GET("/rooms/:id/availability", r.Locations.RoomAvailability)

	protected.GET("/stock", r.Inventory.ListStock, perm(services.PermTransfersRead))
	protected.GET("/stock/:itemId/:locationId", r.Inventory.GetStock, perm(services.PermTransfersRead))
	protected.POST("/stock/adjust", r.Inventory.AdjustStock, perm(services.PermStockAdjust))

	// Who may drive which transition is decided per transfer by the service.
	protected.POST("/transfers", r.Transfers.CreateTransfer, perm(services.PermTransfersCreate))
	protected.GET("/transfers", r.Transfers.ListTransfers, perm(services.PermTransfersRead))
	protected.GET("/transfers/:id", r.Transfers.GetTransfer, perm(services.PermTransfersRead))
	protected.PUT("/transfers/:id", r.Transfers.UpdateTransferStatus, perm(services.PermTransfersRead))

	protected.POST("/time-entries/checkin", r.TimeEntries.CheckIn, perm(services.PermTimeTrack))
	protected.POST("/time-entries/checkout", r.TimeEntries.CheckOut, perm(services.PermTimeTrack))
	protected.GET("/time-entries/status", r.TimeEntries.Status, perm(services.PermTimeTrack))
	protected.GET("/time-entries", r.TimeEntries.ListTimeEntries, perm(services.PermTimeTrack))

	protected.POST("/bookings", r.Bookings.CreateBooking, perm(services.PermBookingsCreate))
	protected.GET("/bookings", r.Bookings.ListBookings, perm(services.PermBookingsCreate))
	protected.GET("/bookings/usage", r.Bookings.Usage, perm(services.PermBookingsCreate))
	protected.DELETE("/bookings/:id", r.Bookings.CancelBooking, perm(services.PermBookingsCreate))

	protected.GET("/settings", r.Settings.GetSettings)
	protected.PUT("/settings", r.Settings.UpdateSettings, perm(services.PermSettingsWrite))

	reports := protected.Group("/reports", perm(services.PermReportsRead))
	reports.GET("/low-stock", r.Reports.LowStock)
	reports.GET("/category-totals", r.Reports.CategoryTotals)
	reports.GET("/attendance", r.Reports.Attendance)
	reports.POST("/:name/export", r.Reports.Export)

	protected.GET("/audit-logs/:table/:id", r.AuditLogs.GetEntityHistory, perm(services.PermAuditRead))

	protected.GET("/alerts", r.Alerts.ListAlerts, perm(services.PermReportsRead))
	protected.POST("/alerts/:itemId/acknowledge", r.Alerts.AcknowledgeAlert, perm(services.PermStockAdjust))

	protected.GET("/jobs", r.Jobs.ListJobs, perm(services.PermJobsRun))
	protected.POST("/jobs/:name/run", r.Jobs.RunJob, perm(services.PermJobsRun))
}
