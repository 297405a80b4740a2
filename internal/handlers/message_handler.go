package handlers

import (
	"net/http"

	"teamchat/internal/services"
	"teamchat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messageService  services.MessageService
	reactionService services.ReactionService
}

func NewMessageHandler(base *BaseHandler, messageService services.MessageService, reactionService services.ReactionService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:     base,
		messageService:  messageService,
		reactionService: reactionService,
	}
}

func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	{
		messages.POST("", h.Create)
		messages.GET("", h.List)
		messages.GET("/:id", h.Get)
		messages.PATCH("/:id", h.Update)
		messages.DELETE("/:id", h.Delete)
		messages.POST("/:id/reactions/toggle", h.ToggleReaction)
	}
}

// Create godoc
// @Summary Post a message
// @Description Body is a rich-text delta. Replies name parent_message_id and inherit its stream.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMessageRequest true "Message"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Empty body or missing target"
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.messageService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// List godoc
// @Summary List messages newest-first
// @Description Exactly one of channel_id, conversation_id or parent_message_id selects the stream.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param channel_id query string false "Channel ID"
// @Param conversation_id query string false "Conversation ID"
// @Param parent_message_id query string false "Thread parent ID"
// @Param cursor query string false "next_cursor from the previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.MessagePageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Invalid cursor"
// @Router /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ListMessagesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	page, err := h.messageService.List(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MessageHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	message, err := h.messageService.Get(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.messageService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.messageService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleReaction godoc
// @Summary Toggle the caller's reaction on a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body dto.ToggleReactionRequest true "Emoji"
// @Success 200 {object} dto.ToggleReactionResponse
// @Router /messages/{id}/reactions/toggle [post]
func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleReactionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reactionService.Toggle(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
