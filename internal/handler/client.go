package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/config"
	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
	"github.com/veladapass/ticketops/internal/repository"
	"github.com/veladapass/ticketops/internal/utils"
)

// ClientHandler serves the buyer-facing endpoints: creating a bag of
// tickets, declaring payments, and reading one's own purchases and
// profile.
type ClientHandler struct {
	Cfg       config.Config
	DB        *sql.DB
	Users     *repository.UserRepo
	Groups    *repository.GroupRepo
	Inventory *repository.InventoryRepo
	Config    *repository.ConfigRepo
	Logs      *repository.LogRepo
}

func NewClientHandler(cfg config.Config, db *sql.DB, u *repository.UserRepo,
	g *repository.GroupRepo, inv *repository.InventoryRepo, ec *repository.ConfigRepo,
	l *repository.LogRepo) *ClientHandler {
	return &ClientHandler{Cfg: cfg, DB: db, Users: u, Groups: g, Inventory: inv, Config: ec, Logs: l}
}

// currentEmail returns the authenticated user's email stored in context
// by the JWT middleware.
func currentEmail(c echo.Context) string {
	if v, ok := c.Get("user_email").(string); ok {
		return v
	}
	return ""
}

const maxBagSize = 10

type createBagReq struct {
	Quantity    int    `json:"quantity"`
	SellerCode  string `json:"seller_code"`
	FullPayment bool   `json:"full_payment"`
}

// CreateBag opens a new purchase group for the active event. Each
// ticket is priced at the configured final price. A seller code (the
// promoter's name) attributes the sale; promoters cannot refer their
// own purchases.
func (h *ClientHandler) CreateBag(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBagReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity < 1 || req.Quantity > maxBagSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("quantity must be 1..%d", maxBagSize)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "no active event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	buyer, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	sellerEmail := ""
	if code := strings.TrimSpace(req.SellerCode); code != "" {
		seller, err := h.Users.FindPromoterByName(ctx, code)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seller code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seller lookup failed"})
		}
		if strings.EqualFold(seller.Email, buyer.Email) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot refer your own purchase"})
		}
		sellerEmail = seller.Email
	}

	group := model.PurchaseGroup{
		ID:            engine.NewGroupID(),
		UserEmail:     buyer.Email,
		SellerEmail:   sellerEmail,
		IsFullPayment: req.FullPayment,
		Status:        model.TicketPending,
		EventID:       cfg.EventInternalID,
	}
	for i := 0; i < req.Quantity; i++ {
		group.Items = append(group.Items, model.TicketItem{
			ID:        engine.NewTicketID(),
			GroupID:   group.ID,
			Status:    model.TicketPending,
			Price:     cfg.FinalPrice,
			EventName: cfg.EventTitle,
			EventID:   cfg.EventInternalID,
		})
		group.TotalAmount += cfg.FinalPrice
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	if err := h.Groups.CreateTx(ctx, tx, group); err != nil {
		_ = tx.Rollback()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bag failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:       fmt.Sprintf("Bolsa creada: %d entradas por %s", req.Quantity, utils.FormatCurrency(group.TotalAmount)),
		UserEmail:    buyer.Email,
		UserFullName: buyer.FullName,
		Type:         model.LogBolsa,
		EventID:      cfg.EventInternalID,
		Details:      group.ID,
	})

	return c.JSON(http.StatusCreated, group)
}

type declarePaymentReq struct {
	Amount int64 `json:"amount"`
}

// DeclarePayment records a buyer's claim of having transferred money
// for one ticket. The amount accumulates as a pending payment and the
// ticket waits for administrative approval; nothing is settled here.
func (h *ClientHandler) DeclarePayment(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID := c.Param("id")
	var req declarePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Groups.DeclarePayment(ctx, ticketID, email, req.Amount); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "declare payment failed"})
		}
	}

	u, _ := h.Users.GetByEmail(ctx, email)
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:       fmt.Sprintf("Pago declarado: %s en entrada %s", utils.FormatCurrency(req.Amount), ticketID),
		UserEmail:    email,
		UserFullName: u.FullName,
		Type:         model.LogReserva,
		Details:      ticketID,
	})

	return c.JSON(http.StatusOK, echo.Map{"status": model.TicketWaitingApproval})
}

// runGroupAction loads the full state, verifies the caller owns the
// group, applies a single engine action and persists the touched
// records. Shared by PayGroup and ReserveGroup.
func (h *ClientHandler) runGroupAction(c echo.Context, act engine.Action, value *int64) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	groupID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	snap, err := loadSnapshot(ctx, h.Groups, h.Inventory, h.Users, h.Config)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load state failed"})
	}
	var before *model.PurchaseGroup
	for i := range snap.Groups {
		if snap.Groups[i].ID == groupID {
			before = &snap.Groups[i]
			break
		}
	}
	if before == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
	}
	if !strings.EqualFold(before.UserEmail, email) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your group"})
	}
	eventID := before.EventID

	res, err := engine.ProcessAction(snap, groupID, "", act, value)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "process failed"})
	}
	if err := applyResult(ctx, h.DB, h.Groups, h.Inventory, h.Users, groupID, eventID, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persist failed"})
	}

	u, _ := h.Users.GetByEmail(ctx, email)
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:       fmt.Sprintf("Accion %s sobre grupo %s", act, groupID),
		UserEmail:    email,
		UserFullName: u.FullName,
		Type:         model.LogCompra,
		EventID:      eventID,
		Details:      groupID,
	})

	rejections := make([]echo.Map, 0, len(res.Rejections))
	for _, rej := range res.Rejections {
		rejections = append(rejections, echo.Map{"ticket_id": rej.TicketID, "reason": rej.Err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"group_deleted": res.GroupDeleted,
		"rejections":    rejections,
	})
}

// PayGroup declares full payment for every ticket in the caller's own
// group; the amounts wait for operator approval.
func (h *ClientHandler) PayGroup(c echo.Context) error {
	return h.runGroupAction(c, engine.ActionPay, nil)
}

type reserveReq struct {
	Amount *int64 `json:"amount"`
}

// ReserveGroup declares a partial payment (abono) on the caller's own
// group. Without an amount the minimum reservation applies.
func (h *ClientHandler) ReserveGroup(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	return h.runGroupAction(c, engine.ActionReserve, req.Amount)
}

// MyGroups returns the caller's purchase groups, newest first.
func (h *ClientHandler) MyGroups(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Groups.ListByUser(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// Hide links that are not unlocked yet.
	for gi := range groups {
		for ti := range groups[gi].Items {
			if !groups[gi].Items[ti].IsUnlocked {
				groups[gi].Items[ti].AssignedLink = ""
			}
		}
	}
	return c.JSON(http.StatusOK, groups)
}

type profileResp struct {
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	Instagram        string `json:"instagram"`
	PhoneNumber      string `json:"phone_number"`
	Role             string `json:"role"`
	IsPromoter       bool   `json:"is_promoter"`
	Balance          int64  `json:"balance"`
	Stars            int    `json:"stars"`
	CourtesyProgress int    `json:"courtesy_progress"`
	LifetimeTickets  int    `json:"lifetime_tickets"`
	ReferralCount    int    `json:"referral_count"`
}

func toProfile(u model.User) profileResp {
	return profileResp{
		Email:            u.Email,
		FullName:         u.FullName,
		Instagram:        u.Instagram,
		PhoneNumber:      u.PhoneNumber,
		Role:             u.Role,
		IsPromoter:       u.IsPromoter,
		Balance:          u.Balance,
		Stars:            u.Stars,
		CourtesyProgress: u.CourtesyProgress,
		LifetimeTickets:  u.LifetimeTickets,
		ReferralCount:    u.ReferralCount,
	}
}

// Profile returns the caller's own user record without the PIN hash.
func (h *ClientHandler) Profile(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfile(u))
}

type updateProfileReq struct {
	FullName  string `json:"full_name"`
	Instagram string `json:"instagram"`
	Phone     string `json:"phone"`
}

// UpdateProfile lets the caller change their display fields. The phone
// number is normalized to the +56 form before saving.
func (h *ClientHandler) UpdateProfile(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	phone := utils.FormatPhoneNumber(req.Phone)
	if err := h.Users.UpdateProfile(ctx, email, strings.TrimSpace(req.FullName),
		strings.TrimSpace(req.Instagram), phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProfile(u))
}

// EventInfo is the public landing endpoint: the active event with its
// pricing, formatted for display.
func (h *ClientHandler) EventInfo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":                   cfg.EventTitle,
		"event_id":                cfg.EventInternalID,
		"date":                    cfg.EventDate,
		"location":                cfg.Location,
		"reference_price":         cfg.ReferencePrice,
		"final_price":             cfg.FinalPrice,
		"reference_price_display": utils.FormatCurrency(cfg.ReferencePrice),
		"final_price_display":     utils.FormatCurrency(cfg.FinalPrice),
	})
}
