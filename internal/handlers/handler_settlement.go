package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	portssvc "github.com/splitmate-app/splitmate_backend/internal/core/ports/services"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
	"github.com/splitmate-app/splitmate_backend/internal/middleware"
)

// settlementHandler handles HTTP requests related to settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{
		settlementService: ss,
	}
}

// registerSettlementRoutes registers settlement routes nested under a
// specific group route group.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("", h.recordSettlement)
		settlements.GET("", h.listSettlements)
		settlements.GET("/simplify", h.getSimplifiedSettlements)
		settlements.GET("/:settlement_id", h.getSettlement)
		settlements.POST("/:settlement_id/confirm", h.confirmSettlement)
		settlements.DELETE("/:settlement_id", h.deleteSettlement)
	}
}

// recordSettlement godoc
// @Summary Record a settlement
// @Description Records a payment between two group members. Recorded by the debtor it starts pending; recorded by the creditor it is confirmed immediately.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   settlement body dto.RecordSettlementRequest true "Settlement details"
// @Success 201 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds the outstanding balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not a party)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "A pending settlement already exists for this pair"
// @Failure 500 {object} map[string]string "Failed to record settlement"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements [post]
func (h *settlementHandler) recordSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	var req dto.RecordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.GroupID = groupID

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID))

	settlement, err := h.settlementService.RecordSettlement(c.Request.Context(), req, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to record settlement")
		return
	}

	logger.Info("Settlement recorded successfully", slog.String("settlement_id", settlement.SettlementID), slog.String("status", string(settlement.Status)))
	c.JSON(http.StatusCreated, dto.ToSettlementResponse(settlement))
}

// listSettlements godoc
// @Summary List settlements in a group
// @Description Retrieves the group's settlements, newest first.
// @Tags settlements
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.ListSettlementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to list settlements"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements [get]
func (h *settlementHandler) listSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settlements, err := h.settlementService.ListSettlementsByGroup(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to list settlements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListSettlementsResponse(settlements))
}

// getSimplifiedSettlements godoc
// @Summary Get the simplified settlement plan
// @Description Returns the minimal set of transfers that settles the group's current balances.
// @Tags settlements
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.SimplifiedSettlementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to simplify settlements"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements/simplify [get]
func (h *settlementHandler) getSimplifiedSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	suggestions, err := h.settlementService.GetSimplifiedSettlements(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to simplify settlements")
		return
	}

	c.JSON(http.StatusOK, dto.ToSimplifiedSettlementsResponse(groupID, suggestions))
}

// getSettlement godoc
// @Summary Get a settlement
// @Description Retrieves a settlement. The caller must be a member of the settlement's group.
// @Tags settlements
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   settlement_id path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve settlement"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements/{settlement_id} [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlement_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settlement, err := h.settlementService.GetSettlementByID(c.Request.Context(), settlementID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to retrieve settlement")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// confirmSettlement godoc
// @Summary Confirm a pending settlement
// @Description Transitions a pending settlement to confirmed. Only the creditor may confirm; the amount is revalidated against the live balance.
// @Tags settlements
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   settlement_id path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Amount no longer covered by the outstanding balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not the creditor)"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 409 {object} map[string]string "Settlement is not pending"
// @Failure 500 {object} map[string]string "Failed to confirm settlement"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements/{settlement_id}/confirm [post]
func (h *settlementHandler) confirmSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlement_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("settlement_id", settlementID))

	settlement, err := h.settlementService.ConfirmSettlement(c.Request.Context(), settlementID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Confirm settlement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondGroupError(c, logger, err, "Failed to confirm settlement")
		return
	}

	logger.Info("Settlement confirmed successfully")
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// deleteSettlement godoc
// @Summary Delete a pending settlement
// @Description Removes a pending settlement. Only the recorder or a group admin may delete; confirmed settlements cannot be deleted.
// @Tags settlements
// @Param   group_id path string true "Group ID"
// @Param   settlement_id path string true "Settlement ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 409 {object} map[string]string "Settlement is not pending"
// @Failure 500 {object} map[string]string "Failed to delete settlement"
// @Security BearerAuth
// @Router /groups/{group_id}/settlements/{settlement_id} [delete]
func (h *settlementHandler) deleteSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlement_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("settlement_id", settlementID))

	if err := h.settlementService.DeleteSettlement(c.Request.Context(), settlementID, userID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Delete settlement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondGroupError(c, logger, err, "Failed to delete settlement")
		return
	}

	logger.Info("Settlement deleted successfully")
	c.Status(http.StatusNoContent)
}
