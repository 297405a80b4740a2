package ws

import (
	"net/http"
	"strings"

	"teamchat/internal/auth"
	"teamchat/internal/logger"
	"teamchat/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// TokenParser validates access tokens.
type TokenParser interface {
	ParseAccessToken(token string) (*auth.Claims, error)
}

type WebSocketHandler struct {
	Manager    *WebSocketManager
	tokens     TokenParser
	authorizer RoomAuthorizer
	db         *gorm.DB
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler builds the /ws endpoint. An empty origins list accepts any origin.
func NewWebSocketHandler(manager *WebSocketManager, tokens TokenParser, authorizer RoomAuthorizer, db *gorm.DB, origins []string) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return &WebSocketHandler{
		Manager:    manager,
		tokens:     tokens,
		authorizer: authorizer,
		db:         db,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// ServeWS godoc
// @Summary Open the realtime event stream
// @Description Authenticates with ?token=<access token>, then accepts subscribe/unsubscribe actions.
// @Tags realtime
// @Param token query string true "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /ws [get]
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("token is required"))
		return
	}

	claims, err := h.tokens.ParseAccessToken(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "WebSocket upgrade failed", err)
		return
	}

	client := &Client{
		ID:         uuid.NewString(),
		UserID:     claims.UserID,
		Conn:       conn,
		Send:       make(chan []byte, sendBufferSize),
		Manager:    h.Manager,
		authorizer: h.authorizer,
		db:         h.db,
	}

	if !h.Manager.add(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
