package handler

import (
	"net/http"
	"time"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReimbursementHandler handles reimbursement API endpoints
type ReimbursementHandler struct {
	BaseHandler
	service *treasuryapp.ReimbursementService
}

// NewReimbursementHandler creates a new ReimbursementHandler
func NewReimbursementHandler(service *treasuryapp.ReimbursementService) *ReimbursementHandler {
	return &ReimbursementHandler{service: service}
}

// ===================== Request DTOs =====================

// CreateReimbursementRequest represents a request to create a reimbursement
type CreateReimbursementRequest struct {
	FundID          uuid.UUID  `json:"fund_id" binding:"required"`
	RecipientUserID *uuid.UUID `json:"recipient_user_id"`
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	Description     string     `json:"description" binding:"required"`
	ExpenseDate     time.Time  `json:"expense_date" binding:"required"`
	ReceiptURL      string     `json:"receipt_url"`
}

// ReviewActionRequest carries an optional reviewer note
type ReviewActionRequest struct {
	Notes string `json:"notes"`
}

// RejectActionRequest carries the required rejection reason
type RejectActionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ===================== Handlers =====================

// Create creates a new reimbursement request for the calling member
func (h *ReimbursementHandler) Create(c *gin.Context) {
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

	var req CreateReimbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	reimbursement, err := h.service.Create(c.Request.Context(), circleID, treasuryapp.CreateReimbursementRequest{
		FundID:          req.FundID,
		RecipientUserID: req.RecipientUserID,
		Amount:          toDecimal(req.Amount),
		Description:     req.Description,
		ExpenseDate:     req.ExpenseDate,
		ReceiptURL:      req.ReceiptURL,
		UserID:          userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, reimbursement)
}

// List lists reimbursements with filtering
func (h *ReimbursementHandler) List(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter treasuryapp.ReimbursementListFilter
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

	reimbursements, total, err := h.service.List(c.Request.Context(), circleID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, reimbursements, total, filter.Page, filter.PageSize)
}

// Get gets a reimbursement by ID
func (h *ReimbursementHandler) Get(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reimbursement ID")
		return
	}

	reimbursement, err := h.service.GetByID(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reimbursement)
}

// Submit moves a draft reimbursement into review
func (h *ReimbursementHandler) Submit(c *gin.Context) {
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
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reimbursement ID")
		return
	}

	reimbursement, err := h.service.SubmitForReview(c.Request.Context(), circleID, id, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reimbursement)
}

// Approve approves a reimbursement under review
func (h *ReimbursementHandler) Approve(c *gin.Context) {
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
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reimbursement ID")
		return
	}

	var req ReviewActionRequest
	c.ShouldBindJSON(&req) // Ignore error, notes are optional

	reimbursement, err := h.service.Approve(c.Request.Context(), circleID, id, userID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reimbursement)
}

// Reject rejects a reimbursement under review
func (h *ReimbursementHandler) Reject(c *gin.Context) {
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
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reimbursement ID")
		return
	}

	var req RejectActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	reimbursement, err := h.service.Reject(c.Request.Context(), circleID, id, userID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reimbursement)
}

// RegisterRoutes registers all reimbursement routes
func (h *ReimbursementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reimbursements := rg.Group("/reimbursements")
	{
		reimbursements.GET("", h.List)
		reimbursements.GET("/:id", h.Get)
		reimbursements.POST("", h.Create)
		reimbursements.POST("/:id/submit", h.Submit)
		reimbursements.POST("/:id/approve", middleware.RequireTreasurer(), h.Approve)
		reimbursements.POST("/:id/reject", middleware.RequireTreasurer(), h.Reject)
	}
}
