package handler

import (
	"net/http"
	"time"

	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/interfaces/http/dto"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecurringTransferHandler handles recurring transfer definition API endpoints
type RecurringTransferHandler struct {
	BaseHandler
	service *treasuryapp.RecurringTransferService
}

// NewRecurringTransferHandler creates a new RecurringTransferHandler
func NewRecurringTransferHandler(service *treasuryapp.RecurringTransferService) *RecurringTransferHandler {
	return &RecurringTransferHandler{service: service}
}

// ===================== Request DTOs =====================

// CreateRecurringTransferRequest represents a request to create a definition
type CreateRecurringTransferRequest struct {
	RecipientUserID uuid.UUID  `json:"recipient_user_id" binding:"required"`
	FundID          uuid.UUID  `json:"fund_id" binding:"required"`
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	Description     string     `json:"description" binding:"required"`
	Frequency       string     `json:"frequency" binding:"required"`
	StartDate       time.Time  `json:"start_date" binding:"required"`
	EndDate         *time.Time `json:"end_date"`
}

// ===================== Handlers =====================

// Create creates a new recurring transfer definition
func (h *RecurringTransferHandler) Create(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	var req CreateRecurringTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	definition, err := h.service.Create(c.Request.Context(), circleID, treasuryapp.CreateRecurringTransferRequest{
		RecipientUserID: req.RecipientUserID,
		FundID:          req.FundID,
		Amount:          toDecimal(req.Amount),
		Description:     req.Description,
		Frequency:       req.Frequency,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, definition)
}

// List lists recurring transfer definitions
func (h *RecurringTransferHandler) List(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	definitions, err := h.service.List(c.Request.Context(), circleID, req.Page, req.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, definitions)
}

// Get gets a recurring transfer definition by ID
func (h *RecurringTransferHandler) Get(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recurring transfer ID")
		return
	}

	definition, err := h.service.GetByID(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, definition)
}

// Pause pauses an active definition so generation skips it
func (h *RecurringTransferHandler) Pause(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recurring transfer ID")
		return
	}

	definition, err := h.service.Pause(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, definition)
}

// Resume resumes a paused definition
func (h *RecurringTransferHandler) Resume(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recurring transfer ID")
		return
	}

	definition, err := h.service.Resume(c.Request.Context(), circleID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, definition)
}

// Delete deletes a definition; already generated records stay
func (h *RecurringTransferHandler) Delete(c *gin.Context) {
	circleID, err := getCircleID(c)
	if err != nil || circleID == uuid.Nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid circle")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid recurring transfer ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), circleID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, nil)
}

// RegisterRoutes registers all recurring transfer routes
func (h *RecurringTransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recurring := rg.Group("/recurring-transfers")
	{
		recurring.GET("", h.List)
		recurring.GET("/:id", h.Get)
		recurring.POST("", middleware.RequireTreasurer(), h.Create)
		recurring.POST("/:id/pause", middleware.RequireTreasurer(), h.Pause)
		recurring.POST("/:id/resume", middleware.RequireTreasurer(), h.Resume)
		recurring.DELETE("/:id", middleware.RequireTreasurer(), h.Delete)
	}
}
