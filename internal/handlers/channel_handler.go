package handlers

import (
	"net/http"

	"teamchat/internal/services"
	"teamchat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	*BaseHandler
	channelService services.ChannelService
}

func NewChannelHandler(base *BaseHandler, channelService services.ChannelService) *ChannelHandler {
	return &ChannelHandler{
		BaseHandler:    base,
		channelService: channelService,
	}
}

func (h *ChannelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workspaces/:id/channels", h.Create)
	rg.GET("/workspaces/:id/channels", h.List)

	channels := rg.Group("/channels")
	{
		channels.GET("/:id", h.Get)
		channels.PATCH("/:id", h.Update)
		channels.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary Create a channel
// @Description Names are normalized: whitespace runs become "-" and letters are lowercased.
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.CreateChannelRequest true "Channel name"
// @Success 201 {object} dto.ChannelResponse
// @Failure 403 {object} apperrors.ErrorResponse "Admin required"
// @Failure 409 {object} apperrors.ErrorResponse "Name taken"
// @Router /workspaces/{id}/channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	channel, err := h.channelService.Create(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, channel)
}

func (h *ChannelHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	channels, err := h.channelService.List(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, channels)
}

func (h *ChannelHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	channel, err := h.channelService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	channel, err := h.channelService.Update(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, channel)
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.channelService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
