package router

import (
	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/handler"
	"github.com/veladapass/ticketops/internal/middleware"
	"github.com/veladapass/ticketops/internal/model"
)

// RegisterClient registers buyer-scoped endpoints under /v1. All routes
// require a valid JWT; any authenticated role may buy tickets.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler, chat *handler.ChatHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleClient, model.RoleAdmin, model.RoleStaff),
	)

	g.POST("/bags", h.CreateBag)
	g.POST("/tickets/:id/payments", h.DeclarePayment)
	g.POST("/groups/:id/pay", h.PayGroup)
	g.POST("/groups/:id/reserve", h.ReserveGroup)
	g.GET("/my-groups", h.MyGroups)
	g.GET("/me/profile", h.Profile)
	g.PUT("/me/profile", h.UpdateProfile)

	g.GET("/me/conversation", chat.MyConversation)
	g.POST("/me/conversation/messages", chat.SendMessage)
}
