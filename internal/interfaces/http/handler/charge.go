package handler

import (
	"net/http"
	"time"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChargeHandler handles charge API endpoints
type ChargeHandler struct {
	BaseHandler
	service *treasuryapp.ChargeService
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(service *treasuryapp.ChargeService) *ChargeHandler {
	return &ChargeHandler{service: service}
}

// ===================== Request DTOs =====================

// CreateChargeRequest represents a request to charge a member
type CreateChargeRequest struct {
	FundID      uuid.UUID `json:"fund_id" binding:"required"`
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"required"`
	ChargeDate  time.Time `json:"charge_date" binding:"required"`
}

// CancelActionRequest carries the required cancellation reason
type CancelActionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ===================== Handlers =====================

// Create creates a new charge against a member
func (h *ChargeHandler) Create(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	charge, err := h.service.Create(c.Request.Context(), circleID, treasuryapp.CreateChargeRequest{
		FundID:      req.FundID,
		UserID:      req.UserID,
		Amount:      toDecimal(req.Amount),
		Description: req.Description,
		ChargeDate:  req.ChargeDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, charge)
}

// List lists charges with filtering
func (h *ChargeHandler) List(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter treasuryapp.ChargeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	charges, total, err := h.service.List(c.Request.Context(), circleID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, charges, total, filter.Page, filter.PageSize)
}

// Get gets a charge by ID
func (h *ChargeHandler) Get(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid charge ID")
		return
	}

	charge, err := h.service.GetByID(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charge)
}

// Submit moves a draft charge into review
func (h *ChargeHandler) Submit(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	userID, err := getUserID(c)
	if err != nil || userID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid charge ID")
		return
	}

	charge, err := h.service.SubmitForReview(c.Request.Context(), circleID, id, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charge)
}

// Approve approves a charge under review, opening it for netting
func (h *ChargeHandler) Approve(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	userID, err := getUserID(c)
	if err != nil || userID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid charge ID")
		return
	}

	var req ReviewActionRequest
	c.ShouldBindJSON(&req) // Ignore error, notes are optional

	charge, err := h.service.Approve(c.Request.Context(), circleID, id, userID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charge)
}

// Cancel cancels a charge that has not settled yet
func (h *ChargeHandler) Cancel(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	userID, err := getUserID(c)
	if err != nil || userID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid charge ID")
		return
	}

	var req CancelActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	charge, err := h.service.Cancel(c.Request.Context(), circleID, id, userID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charge)
}

// RegisterRoutes registers all charge routes
func (h *ChargeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	charges := rg.Group("/charges")
	{
		charges.GET("", h.List)
		charges.GET("/:id", h.Get)
		charges.POST("", middleware.RequireTreasurer(), h.Create)
		charges.POST("/:id/submit", middleware.RequireTreasurer(), h.Submit)
		charges.POST("/:id/approve", middleware.RequireTreasurer(), h.Approve)
		charges.POST("/:id/cancel", middleware.RequireTreasurer(), h.Cancel)
	}
}
