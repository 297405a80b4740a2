package handlers

import (
	"net/http"

	"teamchat/internal/middleware"
	"teamchat/internal/services"
	"teamchat/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	limiter     *middleware.LimiterPool
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, limiter *middleware.LimiterPool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		limiter:     limiter,
	}
}

// RegisterRoutes mounts /auth. Credential endpoints are rate limited per IP.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		limited := auth.Group("")
		if h.limiter != nil {
			limited.Use(middleware.RateLimitMiddleware(h.limiter))
		}
		limited.POST("/sign-up", h.SignUp)
		limited.POST("/sign-in", h.SignIn)
		limited.POST("/refresh", h.Refresh)

		auth.POST("/sign-out", h.SignOut)
		auth.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
	}
}

// SignUp godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Name, email and password"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Email already in use"
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignUp(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignIn(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Refresh(h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	var req dto.SignOutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.SignOut(h.GetDB(c), req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
