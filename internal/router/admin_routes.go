package router

import (
	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/handler"
	"github.com/veladapass/ticketops/internal/middleware"
	"github.com/veladapass/ticketops/internal/model"
)

// RegisterAdmin registers the operator endpoints under /v1/admin. Staff
// share the day-to-day routes; destructive user management and event
// configuration require the admin role. The dashboard aggregates sit
// behind the Redis response cache when one is provided.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, chat *handler.ChatHandler,
	jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff),
	)

	// ---- Reconciliation ----
	g.GET("/groups", h.ListGroups)
	g.POST("/groups/:id/actions", h.ProcessGroupAction)
	g.POST("/courtesies", h.CreateCourtesy)

	// ---- Inventory ----
	g.GET("/inventory", h.ListInventory)
	g.POST("/inventory/batches", h.CreateInventoryBatch)
	g.PUT("/inventory/:correlative", h.UpdateInventoryEntry)
	g.DELETE("/inventory/:correlative", h.DeleteInventoryEntry)

	// ---- Dashboards ----
	if cache != nil {
		g.GET("/stats", h.Stats, cache)
	} else {
		g.GET("/stats", h.Stats)
	}
	g.GET("/validations", h.Validations)
	g.GET("/assignments/pending", h.PendingAssignments)
	g.GET("/logs", h.ListLogs)

	// ---- Support inbox ----
	g.GET("/conversations", chat.ListConversations)
	g.POST("/conversations/:email/messages", chat.ReplyToClient)

	// ---- User CRM ----
	g.GET("/users", h.ListUsers)

	adm := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	adm.POST("/users", h.CreateUser)
	adm.PUT("/users/:email", h.UpdateUser)
	adm.POST("/users/:email/reset-pin", h.ResetPIN)
	adm.DELETE("/users/:email", h.DeleteUser)
	adm.GET("/event-config", h.GetEventConfig)
	adm.PUT("/event-config", h.SaveEventConfig)
}
