package handlers

import (
	"net/http"

	"teamchat/internal/services"
	"teamchat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	*BaseHandler
	workspaceService services.WorkspaceService
}

func NewWorkspaceHandler(base *BaseHandler, workspaceService services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		BaseHandler:      base,
		workspaceService: workspaceService,
	}
}

func (h *WorkspaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.Create)
		workspaces.GET("", h.List)
		workspaces.GET("/:id", h.Get)
		workspaces.GET("/:id/info", h.Info)
		workspaces.PATCH("/:id", h.Update)
		workspaces.DELETE("/:id", h.Delete)
		workspaces.POST("/:id/join-code", h.NewJoinCode)
		workspaces.POST("/:id/join", h.Join)
	}
}

// Create godoc
// @Summary Create a workspace
// @Description The caller becomes its admin; a "general" channel and a join code are created.
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWorkspaceRequest true "Workspace name"
// @Success 201 {object} dto.WorkspaceResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkspaceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	workspace, err := h.workspaceService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workspace)
}

// List godoc
// @Summary List the caller's workspaces
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.WorkspaceResponse
// @Router /workspaces [get]
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	workspaces, err := h.workspaceService.List(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspaces)
}

// Get godoc
// @Summary Get a workspace
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.Get(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

func (h *WorkspaceHandler) Info(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	info, err := h.workspaceService.Info(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkspaceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	workspace, err := h.workspaceService.Update(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WorkspaceHandler) NewJoinCode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.NewJoinCode(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}

// Join godoc
// @Summary Join a workspace with its invite code
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body dto.JoinWorkspaceRequest true "Join code (case-insensitive)"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 400 {object} apperrors.ErrorResponse "Invalid join code"
// @Failure 409 {object} apperrors.ErrorResponse "Already a member"
// @Router /workspaces/{id}/join [post]
func (h *WorkspaceHandler) Join(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.JoinWorkspaceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	workspace, err := h.workspaceService.Join(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspace)
}
