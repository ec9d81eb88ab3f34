package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/config"
	"github.com/veladapass/ticketops/internal/engine"
	"github.com/veladapass/ticketops/internal/model"
	"github.com/veladapass/ticketops/internal/queue"
	"github.com/veladapass/ticketops/internal/reporting"
	"github.com/veladapass/ticketops/internal/repository"
	"github.com/veladapass/ticketops/internal/utils"

	queuepub "github.com/veladapass/ticketops/internal/service"
)

// AdminHandler serves the operator endpoints: reconciliation actions,
// courtesy grants, inventory management, dashboards and the user CRM.
type AdminHandler struct {
	Cfg       config.Config
	DB        *sql.DB
	Users     *repository.UserRepo
	Tokens    *repository.TokenRepo
	Groups    *repository.GroupRepo
	Inventory *repository.InventoryRepo
	Config    *repository.ConfigRepo
	Logs      *repository.LogRepo
	Convs     *repository.ConversationRepo
}

func NewAdminHandler(cfg config.Config, db *sql.DB, u *repository.UserRepo,
	t *repository.TokenRepo, g *repository.GroupRepo, inv *repository.InventoryRepo,
	ec *repository.ConfigRepo, l *repository.LogRepo, cv *repository.ConversationRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, DB: db, Users: u, Tokens: t, Groups: g, Inventory: inv,
		Config: ec, Logs: l, Convs: cv}
}

// snapshot loads the full engine state through the shared helper.
func (h *AdminHandler) snapshot(ctx context.Context) (engine.Snapshot, error) {
	return loadSnapshot(ctx, h.Groups, h.Inventory, h.Users, h.Config)
}

type actionReq struct {
	Action   string `json:"action"`
	TicketID string `json:"ticket_id"`
	Value    *int64 `json:"value"`
}

// logTypeFor maps an action to the audit trail vocabulary.
func logTypeFor(act engine.Action) string {
	switch act {
	case engine.ActionApprove, engine.ActionCompletePayment:
		return model.LogAprobacion
	case engine.ActionDelete, engine.ActionRejectDelete:
		return model.LogAnulacion
	case engine.ActionRevertPayment, engine.ActionRevertAssignment:
		return model.LogReversion
	case engine.ActionPay, engine.ActionReserve:
		return model.LogCompra
	default:
		return model.LogEdicion
	}
}

// ProcessGroupAction applies one reconciliation action to a purchase
// group. The whole state is loaded, the engine produces replacement
// collections, and only the touched records are written back. Guard
// violations come back as per-ticket rejections with HTTP 200; only an
// unknown group is an error.
func (h *AdminHandler) ProcessGroupAction(c echo.Context) error {
	groupID := c.Param("id")
	var req actionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	act := engine.Action(strings.TrimSpace(req.Action))
	switch act {
	case engine.ActionDelete, engine.ActionPay, engine.ActionReserve, engine.ActionApprove,
		engine.ActionCompletePayment, engine.ActionRevertPayment, engine.ActionRejectDelete,
		engine.ActionManualLink, engine.ActionRevertAssignment, engine.ActionUnlock,
		engine.ActionLock, engine.ActionEditPrice:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load state failed"})
	}

	// Keep the pre-action group for event attribution and messaging.
	var before *model.PurchaseGroup
	for i := range snap.Groups {
		if snap.Groups[i].ID == groupID {
			before = &snap.Groups[i]
			break
		}
	}

	res, err := engine.ProcessAction(snap, groupID, req.TicketID, act, req.Value)
	if err != nil {
		if errors.Is(err, engine.ErrGroupNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "group not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "process failed"})
	}

	eventID := ""
	buyerEmail, sellerEmail := "", ""
	if before != nil {
		eventID = before.EventID
		buyerEmail = before.UserEmail
		sellerEmail = before.SellerEmail
	}
	if err := applyResult(ctx, h.DB, h.Groups, h.Inventory, h.Users, groupID, eventID, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persist failed"})
	}

	adminEmail := currentEmail(c)
	buyer, _ := h.Users.GetByEmail(ctx, buyerEmail)
	value := int64(0)
	if req.Value != nil {
		value = *req.Value
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:       fmt.Sprintf("Accion %s sobre grupo %s", act, groupID),
		UserEmail:    adminEmail,
		UserFullName: buyer.FullName,
		Type:         logTypeFor(act),
		EventID:      eventID,
		Details:      req.TicketID,
	})

	rejections := make([]echo.Map, 0, len(res.Rejections))
	rejectionTexts := make([]string, 0, len(res.Rejections))
	for _, rej := range res.Rejections {
		rejections = append(rejections, echo.Map{"ticket_id": rej.TicketID, "reason": rej.Err.Error()})
		rejectionTexts = append(rejectionTexts, fmt.Sprintf("%s: %s", rej.TicketID, rej.Err.Error()))
	}

	// Best-effort notification; the reconciliation already committed.
	_ = queuepub.PublishReconciliation(ctx, queue.ReconciliationEvent{
		Action:       string(act),
		GroupID:      groupID,
		TicketID:     req.TicketID,
		BuyerEmail:   buyerEmail,
		BuyerName:    buyer.FullName,
		SellerEmail:  sellerEmail,
		EventID:      eventID,
		EventTitle:   snap.Config.EventTitle,
		Amount:       value,
		Correlatives: res.TouchedCorrelatives,
		Rejections:   rejectionTexts,
		GroupDeleted: res.GroupDeleted,
		ProcessedAt:  time.Now().UTC().Format(time.RFC3339),
		ProcessedBy:  adminEmail,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"group_deleted":        res.GroupDeleted,
		"deleted_ticket_ids":   res.DeletedTicketIDs,
		"touched_correlatives": res.TouchedCorrelatives,
		"touched_users":        res.TouchedUserEmails,
		"rejections":           rejections,
	})
}

type courtesyReq struct {
	Email string `json:"email"`
}

// CreateCourtesy grants a free, pre-paid and unlocked ticket to the
// given user for the active event.
func (h *AdminHandler) CreateCourtesy(c echo.Context) error {
	var req courtesyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, email); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	cfg, err := h.Config.Get(ctx)
	if err != nil && err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	group := engine.GenerateCourtesyTicket(email, cfg)
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	if err := h.Groups.CreateTx(ctx, tx, group); err != nil {
		_ = tx.Rollback()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create courtesy failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Cortesia otorgada a %s", email),
		UserEmail: currentEmail(c),
		Type:      model.LogSistema,
		EventID:   cfg.EventInternalID,
		Details:   group.ID,
	})
	return c.JSON(http.StatusCreated, group)
}

type batchReq struct {
	Text     string `json:"text"`
	Cost     int64  `json:"cost"`
	CostMode string `json:"cost_mode"` // "total" or "unit"
}

// CreateInventoryBatch ingests a pasted block of entry names, one per
// line, assigning sequential correlatives and splitting the cost.
func (h *AdminHandler) CreateInventoryBatch(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	mode := engine.CostMode(req.CostMode)
	if mode != engine.CostTotal && mode != engine.CostUnit {
		mode = engine.CostTotal
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "no active event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	existing, err := h.Inventory.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	names := strings.Split(strings.ReplaceAll(req.Text, "\r\n", "\n"), "\n")
	items, err := engine.BuildInventoryBatch(existing, cfg, names, req.Cost, mode, time.Now().UTC())
	if err != nil {
		if errors.Is(err, engine.ErrEmptyBatch) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no entries in batch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build batch failed"})
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	if err := h.Inventory.InsertBatchTx(ctx, tx, items); err != nil {
		_ = tx.Rollback()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert batch failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}

	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Tanda %d cargada: %d unidades", items[0].BatchNumber, len(items)),
		UserEmail: currentEmail(c),
		Type:      model.LogSistema,
		EventID:   cfg.EventInternalID,
	})
	return c.JSON(http.StatusCreated, items)
}

// ListInventory returns the active event's inventory, or the full set
// when all=true is passed.
func (h *AdminHandler) ListInventory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if c.QueryParam("all") == "true" {
		items, err := h.Inventory.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, items)
	}
	cfg, err := h.Config.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusOK, []model.InventoryItem{})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	items, err := h.Inventory.ListByEvent(ctx, cfg.EventInternalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, items)
}

type inventoryEditReq struct {
	Name string `json:"name"`
	Link string `json:"link"`
	Cost int64  `json:"cost"`
}

// UpdateInventoryEntry edits name, link and cost of one entry. A link
// already used by another entry of the same event is rejected.
func (h *AdminHandler) UpdateInventoryEntry(c echo.Context) error {
	correlative, err := strconv.Atoi(c.Param("correlative"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid correlative"})
	}
	var req inventoryEditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "no active event"})
	}
	link := strings.TrimSpace(req.Link)
	if link != "" {
		existing, err := h.Inventory.ListByEvent(ctx, cfg.EventInternalID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if engine.LinkInUse(existing, cfg.EventInternalID, link, correlative) {
			return c.JSON(http.StatusConflict, echo.Map{"error": engine.ErrDuplicateLink.Error()})
		}
	}

	item := model.InventoryItem{
		EventID:       cfg.EventInternalID,
		CorrelativeID: correlative,
		Name:          strings.TrimSpace(req.Name),
		Link:          link,
		Cost:          req.Cost,
		IsPendingLink: link == "",
	}
	if err := h.Inventory.Update(ctx, item); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Entrada #%d editada", correlative),
		UserEmail: currentEmail(c),
		Type:      model.LogEdicion,
		EventID:   cfg.EventInternalID,
	})
	return c.NoContent(http.StatusNoContent)
}

// DeleteInventoryEntry removes a free entry; assigned entries conflict.
func (h *AdminHandler) DeleteInventoryEntry(c echo.Context) error {
	correlative, err := strconv.Atoi(c.Param("correlative"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid correlative"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "no active event"})
	}
	if err := h.Inventory.Delete(ctx, cfg.EventInternalID, correlative); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "entry is assigned"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Entrada #%d eliminada", correlative),
		UserEmail: currentEmail(c),
		Type:      model.LogAnulacion,
		EventID:   cfg.EventInternalID,
	})
	return c.NoContent(http.StatusNoContent)
}

// Stats computes the dashboard aggregates for the active event (or the
// event_id query parameter). The route sits behind the response cache.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load state failed"})
	}
	eventID := c.QueryParam("event_id")
	if eventID == "" {
		eventID = snap.Config.EventInternalID
	}
	return c.JSON(http.StatusOK, reporting.Compute(snap, eventID))
}

// Validations returns the pending and approved payment feeds grouped
// per buyer.
func (h *AdminHandler) Validations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load state failed"})
	}
	eventID := c.QueryParam("event_id")
	if eventID == "" {
		eventID = snap.Config.EventInternalID
	}
	pending, approved := reporting.Validations(snap, eventID)
	return c.JSON(http.StatusOK, echo.Map{"pending": pending, "approved": approved})
}

// PendingAssignments lists settled tickets that still need an
// inventory slot.
func (h *AdminHandler) PendingAssignments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load state failed"})
	}
	eventID := c.QueryParam("event_id")
	if eventID == "" {
		eventID = snap.Config.EventInternalID
	}
	return c.JSON(http.StatusOK, reporting.AwaitingAssignment(snap, eventID))
}

// ListGroups returns every purchase group for the operator board.
func (h *AdminHandler) ListGroups(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	groups, err := h.Groups.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, groups)
}

// ListUsers returns the full roster for the CRM view.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]profileResp, 0, len(users))
	for _, u := range users {
		out = append(out, toProfile(u))
	}
	return c.JSON(http.StatusOK, out)
}

type crmCreateReq struct {
	Email      string `json:"email"`
	PIN        string `json:"pin"`
	FullName   string `json:"full_name"`
	Instagram  string `json:"instagram"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	IsPromoter bool   `json:"is_promoter"`
}

// CreateUser registers a user on behalf of the operator, typically a
// promoter or a walk-in buyer without the app.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req crmCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}
	if len(req.PIN) < 4 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pin must be at least 4 characters"})
	}
	role := req.Role
	if role == "" {
		role = model.RoleClient
	}
	switch role {
	case model.RoleClient, model.RoleAdmin, model.RoleStaff:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	hash, err := utils.HashPIN(req.PIN, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		Email:       email,
		FullName:    strings.TrimSpace(req.FullName),
		Instagram:   strings.TrimSpace(req.Instagram),
		PhoneNumber: utils.FormatPhoneNumber(req.Phone),
		PINHash:     hash,
		Role:        role,
		IsPromoter:  req.IsPromoter,
		Stars:       1,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:       fmt.Sprintf("Usuario %s creado", email),
		UserEmail:    currentEmail(c),
		UserFullName: u.FullName,
		Type:         model.LogSistema,
	})
	return c.JSON(http.StatusCreated, toProfile(u))
}

type resetPINReq struct {
	PIN string `json:"pin"`
}

// ResetPIN sets a new PIN for a user who lost theirs.
func (h *AdminHandler) ResetPIN(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	var req resetPINReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.PIN) < 4 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pin must be at least 4 characters"})
	}
	hash, err := utils.HashPIN(req.PIN, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePIN(ctx, email, hash); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	// Old sessions must not outlive the old PIN.
	_ = h.Tokens.RevokeAllForUser(ctx, email)
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("PIN de %s restablecido", email),
		UserEmail: currentEmail(c),
		Type:      model.LogEdicion,
	})
	return c.NoContent(http.StatusNoContent)
}

type crmUpdateReq struct {
	FullName         string `json:"full_name"`
	Instagram        string `json:"instagram"`
	Phone            string `json:"phone"`
	Role             string `json:"role"`
	IsPromoter       bool   `json:"is_promoter"`
	Balance          int64  `json:"balance"`
	Stars            int    `json:"stars"`
	CourtesyProgress int    `json:"courtesy_progress"`
	LifetimeTickets  int    `json:"lifetime_tickets"`
	ReferralCount    int    `json:"referral_count"`
}

// UpdateUser applies an administrative edit to one user.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	var req crmUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Role {
	case model.RoleClient, model.RoleAdmin, model.RoleStaff:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := model.User{
		Email:            email,
		FullName:         strings.TrimSpace(req.FullName),
		Instagram:        strings.TrimSpace(req.Instagram),
		PhoneNumber:      utils.FormatPhoneNumber(req.Phone),
		Role:             req.Role,
		IsPromoter:       req.IsPromoter,
		Balance:          req.Balance,
		Stars:            req.Stars,
		CourtesyProgress: req.CourtesyProgress,
		LifetimeTickets:  req.LifetimeTickets,
		ReferralCount:    req.ReferralCount,
	}
	if err := h.Users.UpdateCRM(ctx, u); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Usuario %s actualizado", email),
		UserEmail: currentEmail(c),
		Type:      model.LogEdicion,
	})
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes a user from the roster. Purchase history keeps the
// denormalized email, so past sales remain attributable.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if email == currentEmail(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete yourself"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, email); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Usuario %s eliminado", email),
		UserEmail: currentEmail(c),
		Type:      model.LogAnulacion,
	})
	return c.NoContent(http.StatusNoContent)
}

// GetEventConfig returns the active event configuration.
func (h *AdminHandler) GetEventConfig(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg, err := h.Config.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cfg)
}

type eventConfigReq struct {
	EventTitle      string `json:"event_title"`
	EventInternalID string `json:"event_internal_id"`
	EventDate       string `json:"event_date"`
	Location        string `json:"location"`
	ReferencePrice  int64  `json:"reference_price"`
	FinalPrice      int64  `json:"final_price"`
}

// SaveEventConfig replaces the active event configuration. Existing
// tickets keep their stamped event fields; only new records pick up the
// change.
func (h *AdminHandler) SaveEventConfig(c echo.Context) error {
	var req eventConfigReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.EventTitle) == "" || strings.TrimSpace(req.EventInternalID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_title and event_internal_id required"})
	}
	if req.FinalPrice < 0 || req.ReferencePrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cfg := model.EventConfig{
		EventTitle:      strings.TrimSpace(req.EventTitle),
		EventInternalID: strings.TrimSpace(req.EventInternalID),
		EventDate:       strings.TrimSpace(req.EventDate),
		Location:        strings.TrimSpace(req.Location),
		ReferencePrice:  req.ReferencePrice,
		FinalPrice:      req.FinalPrice,
	}
	if err := h.Config.Save(ctx, cfg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	_ = h.Logs.Insert(ctx, model.ActivityLog{
		Action:    fmt.Sprintf("Evento configurado: %s", cfg.EventTitle),
		UserEmail: currentEmail(c),
		Type:      model.LogSistema,
		EventID:   cfg.EventInternalID,
	})
	return c.JSON(http.StatusOK, cfg)
}

// ListLogs returns the most recent audit entries.
func (h *AdminHandler) ListLogs(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Logs.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, logs)
}
