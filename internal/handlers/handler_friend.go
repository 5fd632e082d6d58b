package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitmate-app/splitmate_backend/internal/core/ports/services"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
	"github.com/splitmate-app/splitmate_backend/internal/middleware"
)

// friendHandler handles HTTP requests related to friends and cross-group
// settlement.
type friendHandler struct {
	friendService portssvc.FriendSvcFacade
}

// newFriendHandler creates a new friendHandler.
func newFriendHandler(fs portssvc.FriendSvcFacade) *friendHandler {
	return &friendHandler{
		friendService: fs,
	}
}

// registerFriendRoutes registers all friend-related routes.
func registerFriendRoutes(rg *gin.RouterGroup, friendService portssvc.FriendSvcFacade) {
	h := newFriendHandler(friendService)

	friends := rg.Group("/friends")
	{
		friends.GET("", h.listFriends)
		friends.POST("", h.addFriend)
		friends.GET("/:friend_id/balances", h.getFriendBalances)
		friends.POST("/:friend_id/settle", h.settleFriend)
	}
}

// addFriend godoc
// @Summary Add a friend
// @Description Creates a friendship with another user. Adding an existing friend is a no-op.
// @Tags friends
// @Accept  json
// @Param   friend body dto.AddFriendRequest true "Friend's user ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to add friend"
// @Security BearerAuth
// @Router /friends [post]
func (h *friendHandler) addFriend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddFriend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.friendService.AddFriend(c.Request.Context(), userID, req.UserID); err != nil {
		respondGroupError(c, logger, err, "Failed to add friend")
		return
	}

	logger.Info("Friend added successfully", slog.String("friend_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}

// listFriends godoc
// @Summary List friends
// @Description Retrieves the calling user's friends with their net cross-group balance per currency.
// @Tags friends
// @Produce  json
// @Success 200 {object} dto.ListFriendsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list friends"
// @Security BearerAuth
// @Router /friends [get]
func (h *friendHandler) listFriends(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	friends, err := h.friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list friends from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list friends"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFriendsResponse{Friends: friends})
}

// getFriendBalances godoc
// @Summary Get balances with a friend
// @Description Retrieves the per-group breakdown and per-currency totals between the calling user and a friend.
// @Tags friends
// @Produce  json
// @Param   friend_id path string true "Friend's user ID"
// @Success 200 {object} dto.FriendBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Friend not found"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /friends/{friend_id}/balances [get]
func (h *friendHandler) getFriendBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	friendID := c.Param("friend_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balances, err := h.friendService.GetFriendBalances(c.Request.Context(), userID, friendID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to compute balances")
		return
	}

	c.JSON(http.StatusOK, balances)
}

// settleFriend godoc
// @Summary Settle up with a friend
// @Description Splits one settlement amount proportionally across the shared groups carrying a balance with the friend, recording all settlements atomically.
// @Tags friends
// @Accept  json
// @Produce  json
// @Param   friend_id path string true "Friend's user ID"
// @Param   settle body dto.SettleFriendRequest true "Amount, optional currency filter, optional note"
// @Success 201 {object} dto.SettleFriendResponse
// @Failure 400 {object} map[string]string "Invalid amount, no outstanding balance, or missing currency filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Friend not found"
// @Failure 409 {object} map[string]string "A pending settlement blocks one of the affected groups"
// @Failure 500 {object} map[string]string "Failed to settle"
// @Security BearerAuth
// @Router /friends/{friend_id}/settle [post]
func (h *friendHandler) settleFriend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	friendID := c.Param("friend_id")

	var req dto.SettleFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SettleFriend", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("friend_user_id", friendID))

	allocations, err := h.friendService.SettleFriend(c.Request.Context(), userID, friendID, req)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to settle")
		return
	}

	logger.Info("Friend settled successfully", slog.Int("allocations", len(allocations)))
	c.JSON(http.StatusCreated, dto.ToSettleFriendResponse(allocations))
}
