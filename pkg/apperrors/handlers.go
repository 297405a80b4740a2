package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON envelope for every error.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler writes errors into a gin response.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if h.Debug {
			appErr = appErr.WithDetails(err.Error())
		}
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("server error", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// Debug toggles internal error details in responses. Set once at startup.
var Debug = false

// HandleError writes err using the package-wide debug setting.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: Debug}
	handler.HandleGinError(c, err)
}

// AsAppError unwraps err into an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HandleValidationError writes a binding error as a validation failure.
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ValidationError(gin.H{"details": err.Error()}))
}
