package handlers

import (
	"net/http"

	"teamchat/internal/services"
	"teamchat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	*BaseHandler
	memberService       services.MemberService
	conversationService services.ConversationService
}

func NewMemberHandler(base *BaseHandler, memberService services.MemberService, conversationService services.ConversationService) *MemberHandler {
	return &MemberHandler{
		BaseHandler:         base,
		memberService:       memberService,
		conversationService: conversationService,
	}
}

func (h *MemberHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workspaces/:id/members/current", h.Current)
	rg.GET("/workspaces/:id/members", h.List)
	rg.POST("/workspaces/:id/conversations", h.CreateConversation)

	members := rg.Group("/members")
	{
		members.GET("/:id", h.Get)
		members.PATCH("/:id", h.UpdateRole)
		members.DELETE("/:id", h.Remove)
	}

	rg.GET("/conversations/:id", h.GetConversation)
}

func (h *MemberHandler) Current(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.memberService.Current(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	members, err := h.memberService.List(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.memberService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.memberService.UpdateRole(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// Remove godoc
// @Summary Remove a member
// @Description Admins may remove members and members may leave. Admins cannot be removed.
// @Tags members
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 204
// @Failure 400 {object} apperrors.ErrorResponse "Admins cannot be removed"
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /members/{id} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.memberService.Remove(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateConversation returns the direct conversation with another member, creating it if needed.
func (h *MemberHandler) CreateConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateConversationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	conversation, err := h.conversationService.CreateOrGet(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (h *MemberHandler) GetConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	conversation, err := h.conversationService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}
