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

// groupHandler handles HTTP requests related to groups and their members.
type groupHandler struct {
	groupService   portssvc.GroupSvcFacade
	expenseService portssvc.ExpenseSvcFacade
}

// newGroupHandler creates a new groupHandler.
func newGroupHandler(gs portssvc.GroupSvcFacade, es portssvc.ExpenseSvcFacade) *groupHandler {
	return &groupHandler{
		groupService:   gs,
		expenseService: es,
	}
}

// registerGroupRoutes registers routes for groups and their members, and
// nests the expense and settlement routes under a specific group.
func registerGroupRoutes(rg *gin.RouterGroup, groupService portssvc.GroupSvcFacade, expenseService portssvc.ExpenseSvcFacade, settlementService portssvc.SettlementSvcFacade) {
	h := newGroupHandler(groupService, expenseService)

	groupsTopLevel := rg.Group("/groups")
	{
		groupsTopLevel.POST("", h.createGroup)
		groupsTopLevel.GET("", h.listGroups)
	}

	groupSpecific := rg.Group("/groups/:group_id")
	{
		groupSpecific.GET("", h.getGroup)
		groupSpecific.PUT("", h.updateGroup)
		groupSpecific.DELETE("", h.deleteGroup)
		groupSpecific.GET("/balances", h.getGroupBalances)

		members := groupSpecific.Group("/members")
		{
			members.GET("", h.listGroupMembers)
			members.POST("", h.addMember)
			members.POST("/guests", h.addGuestMember)
			members.DELETE("/:user_id", h.removeMember)
		}

		registerExpenseRoutes(groupSpecific, expenseService)
		registerSettlementRoutes(groupSpecific, settlementService)
	}
}

// createGroup godoc
// @Summary Create a new group
// @Description Creates a new expense group with the creator as admin.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create group"
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	newGroup, err := h.groupService.CreateGroup(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create group in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	logger.Info("Group created successfully", slog.String("group_id", newGroup.GroupID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(newGroup))
}

// listGroups godoc
// @Summary List groups for current user
// @Description Retrieves the groups the authenticated user belongs to.
// @Tags groups
// @Produce  json
// @Success 200 {object} dto.ListGroupsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list groups"
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list groups from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupsResponse(groups))
}

// getGroup godoc
// @Summary Get a group by ID
// @Description Retrieves a group's details. The caller must be a member.
// @Tags groups
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to retrieve group"
// @Security BearerAuth
// @Router /groups/{group_id} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.groupService.GetGroupByID(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to retrieve group")
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// updateGroup godoc
// @Summary Update a group
// @Description Updates a group's name or default currency. Requires admin role.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   group body dto.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not an admin)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to update group"
// @Security BearerAuth
// @Router /groups/{group_id} [put]
func (h *groupHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID))

	updatedGroup, err := h.groupService.UpdateGroup(c.Request.Context(), groupID, req, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to update group")
		return
	}

	logger.Info("Group updated successfully")
	c.JSON(http.StatusOK, dto.ToGroupResponse(updatedGroup))
}

// deleteGroup godoc
// @Summary Delete a group
// @Description Soft-deletes a group. Requires admin role.
// @Tags groups
// @Param   group_id path string true "Group ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not an admin)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to delete group"
// @Security BearerAuth
// @Router /groups/{group_id} [delete]
func (h *groupHandler) deleteGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID))

	if err := h.groupService.DeleteGroup(c.Request.Context(), groupID, userID); err != nil {
		respondGroupError(c, logger, err, "Failed to delete group")
		return
	}

	logger.Info("Group deleted successfully")
	c.Status(http.StatusNoContent)
}

// getGroupBalances godoc
// @Summary Get group balances
// @Description Returns the net balance of every group member, derived from expenses and confirmed settlements.
// @Tags groups
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.GroupBalancesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /groups/{group_id}/balances [get]
func (h *groupHandler) getGroupBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	group, err := h.groupService.GetGroupByID(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to retrieve group")
		return
	}

	balances, err := h.expenseService.GetGroupBalances(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to compute balances")
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupBalancesResponse(groupID, group.CurrencyCode, balances))
}

// listGroupMembers godoc
// @Summary List group members
// @Description Retrieves the members of a group. The caller must be a member.
// @Tags groups
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Success 200 {object} dto.ListGroupMembersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /groups/{group_id}/members [get]
func (h *groupHandler) listGroupMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	members, err := h.groupService.ListGroupMembers(c.Request.Context(), groupID, userID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupMembersResponse(members))
}

// addMember godoc
// @Summary Add a member to a group
// @Description Adds an existing user to a group with a given role. Requires admin role.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   member body dto.AddMemberRequest true "User ID and role"
// @Success 201 {object} dto.GroupMemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not an admin)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "User already a member"
// @Failure 500 {object} map[string]string "Failed to add member"
// @Security BearerAuth
// @Router /groups/{group_id}/members [post]
func (h *groupHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adding user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID), slog.String("target_user_id", req.UserID))

	member, err := h.groupService.AddMember(c.Request.Context(), groupID, req, addingUserID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to add member")
		return
	}

	logger.Info("Member added successfully", slog.String("role", string(member.Role)))
	c.JSON(http.StatusCreated, dto.ToGroupMemberResponse(member))
}

// addGuestMember godoc
// @Summary Add a guest member to a group
// @Description Creates a guest user without credentials and adds them to the group. Requires admin role.
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group_id path string true "Group ID"
// @Param   guest body dto.AddGuestMemberRequest true "Guest name and optional email"
// @Success 201 {object} dto.GroupMemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not an admin)"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Failed to add guest"
// @Security BearerAuth
// @Router /groups/{group_id}/members/guests [post]
func (h *groupHandler) addGuestMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")

	var req dto.AddGuestMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddGuestMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adding user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID))

	member, err := h.groupService.AddGuestMember(c.Request.Context(), groupID, req, addingUserID)
	if err != nil {
		respondGroupError(c, logger, err, "Failed to add guest")
		return
	}

	logger.Info("Guest member added successfully", slog.String("guest_user_id", member.UserID))
	c.JSON(http.StatusCreated, dto.ToGroupMemberResponse(member))
}

// removeMember godoc
// @Summary Remove a member from a group
// @Description Removes a member. Admins can remove anyone; members can remove themselves. Members with a non-zero balance cannot be removed.
// @Tags groups
// @Param   group_id path string true "Group ID"
// @Param   user_id path string true "User ID of the member to remove"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Group or member not found"
// @Failure 409 {object} map[string]string "Member has a non-zero balance"
// @Failure 500 {object} map[string]string "Failed to remove member"
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id} [delete]
func (h *groupHandler) removeMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("group_id")
	memberUserID := c.Param("user_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("group_id", groupID), slog.String("member_user_id", memberUserID))

	if err := h.groupService.RemoveMember(c.Request.Context(), groupID, memberUserID, requestingUserID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Remove member rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondGroupError(c, logger, err, "Failed to remove member")
		return
	}

	logger.Info("Member removed successfully")
	c.Status(http.StatusNoContent)
}

// respondGroupError maps the common service errors to HTTP statuses.
func respondGroupError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
