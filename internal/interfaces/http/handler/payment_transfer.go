package handler

import (
	"net/http"
	"time"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentTransferHandler handles payment transfer API endpoints: the
// read side plus the three mutations (refresh, recurring generation,
// execution) that drive the reconciliation cycle.
type PaymentTransferHandler struct {
	BaseHandler
	transferService  *treasuryapp.PaymentTransferService
	nettingService   *treasuryapp.NettingService
	executionService *treasuryapp.TransferExecutionService
	recurringService *treasuryapp.RecurringService
}

// NewPaymentTransferHandler creates a new PaymentTransferHandler
func NewPaymentTransferHandler(
	transferService *treasuryapp.PaymentTransferService,
	nettingService *treasuryapp.NettingService,
	executionService *treasuryapp.TransferExecutionService,
	recurringService *treasuryapp.RecurringService,
) *PaymentTransferHandler {
	return &PaymentTransferHandler{
		transferService:  transferService,
		nettingService:   nettingService,
		executionService: executionService,
		recurringService: recurringService,
	}
}

// ===================== Request/Response DTOs =====================

// RefreshTransfersRequest selects the netting scope to recompute
type RefreshTransfersRequest struct {
	BudgetType string     `json:"budget_type" binding:"required"`
	GroupID    *uuid.UUID `json:"group_id"`
}

// GenerateRecurringRequest optionally pins the generation date.
// Omitted as_of means "now".
type GenerateRecurringRequest struct {
	AsOf time.Time `json:"as_of"`
}

// TransferStatsResponse represents transfer statistics in API responses
type TransferStatsResponse struct {
	PendingCount  int64   `json:"pending_count"`
	PendingTotal  float64 `json:"pending_total"`
	ExecutedCount int64   `json:"executed_count"`
	ExecutedTotal float64 `json:"executed_total"`
}

// ===================== Handlers =====================

// Refresh recomputes pending transfers for a netting scope
func (h *PaymentTransferHandler) Refresh(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req RefreshTransfersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	transfers, err := h.nettingService.Refresh(c.Request.Context(), circleID, treasuryapp.RefreshRequest{
		BudgetType: req.BudgetType,
		GroupID:    req.GroupID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfers)
}

// GenerateRecurring materializes due recurring definitions into reimbursements
func (h *PaymentTransferHandler) GenerateRecurring(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req GenerateRecurringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	result, err := h.recurringService.Generate(c.Request.Context(), circleID, req.AsOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Execute settles a pending transfer
func (h *PaymentTransferHandler) Execute(c *gin.Context) {
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

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid transfer ID")
		return
	}

	result, err := h.executionService.Execute(c.Request.Context(), circleID, transferID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List lists payment transfers with filtering
func (h *PaymentTransferHandler) List(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var filter treasuryapp.PaymentTransferListFilter
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

	transfers, total, err := h.transferService.List(c.Request.Context(), circleID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}

// Get gets a payment transfer by ID
func (h *PaymentTransferHandler) Get(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid transfer ID")
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), circleID, transferID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Stats returns pending/executed counts and totals
func (h *PaymentTransferHandler) Stats(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	stats, err := h.transferService.Stats(c.Request.Context(), circleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, TransferStatsResponse{
		PendingCount:  stats.PendingCount,
		PendingTotal:  stats.PendingTotal.InexactFloat64(),
		ExecutedCount: stats.ExecutedCount,
		ExecutedTotal: stats.ExecutedTotal.InexactFloat64(),
	})
}

// RegisterRoutes registers all payment transfer routes
func (h *PaymentTransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/payment-transfers")
	{
		transfers.GET("", h.List)
		transfers.GET("/stats", h.Stats)
		transfers.GET("/:id", h.Get)
		transfers.POST("/refresh", middleware.RequireTreasurer(), h.Refresh)
		transfers.POST("/generate-recurring", middleware.RequireTreasurer(), h.GenerateRecurring)
		transfers.POST("/:id/execute", middleware.RequireTreasurer(), h.Execute)
	}
}
