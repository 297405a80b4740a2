package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	WorkspaceHandler *WorkspaceHandler
	ChannelHandler   *ChannelHandler
	MemberHandler    *MemberHandler
	MessageHandler   *MessageHandler
	UploadHandler    *UploadHandler
	HealthHandler    *HealthHandler
}
