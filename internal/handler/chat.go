package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/model"
	"github.com/veladapass/ticketops/internal/repository"
)

// ChatHandler serves the support conversation endpoints. Each client
// has one append-only conversation with the admin team.
type ChatHandler struct {
	Convs *repository.ConversationRepo
	Logs  *repository.LogRepo
}

func NewChatHandler(cv *repository.ConversationRepo, l *repository.LogRepo) *ChatHandler {
	return &ChatHandler{Convs: cv, Logs: l}
}

type chatMessageReq struct {
	Text string `json:"text"`
}

// MyConversation returns the caller's conversation, oldest message first.
func (h *ChatHandler) MyConversation(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	conv, err := h.Convs.GetByClient(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, conv)
}

// SendMessage appends a message from the caller to their own conversation.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req chatMessageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, _ := c.Get("role").(string)
	msg := model.ChatMessage{Sender: email, Role: role, Text: strings.TrimSpace(req.Text)}
	if err := h.Convs.AppendMessage(ctx, email, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    "Mensaje enviado",
		UserEmail: email,
		Type:      model.LogChat,
	})
	return c.NoContent(http.StatusCreated)
}

// ListConversations returns every conversation for the admin inbox.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	convs, err := h.Convs.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, convs)
}

// ReplyToClient appends a staff message to a client's conversation.
func (h *ChatHandler) ReplyToClient(c echo.Context) error {
	client := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if client == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client email required"})
	}
	var req chatMessageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, _ := c.Get("role").(string)
	msg := model.ChatMessage{Sender: currentEmail(c), Role: role, Text: strings.TrimSpace(req.Text)}
	if err := h.Convs.AppendMessage(ctx, client, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    "Respuesta enviada a " + client,
		UserEmail: currentEmail(c),
		Type:      model.LogChat,
	})
	return c.NoContent(http.StatusCreated)
}
