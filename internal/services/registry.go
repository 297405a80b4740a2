package services

import (
	"time"

	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/imageprocessor"
	"teamchat/internal/repositories"
	"teamchat/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	AccessService       AccessService
	WorkspaceService    WorkspaceService
	ChannelService      ChannelService
	MemberService       MemberService
	ConversationService ConversationService
	MessageService      MessageService
	ReactionService     ReactionService
	UploadService       UploadService
}

// Dependencies are the shared building blocks the services are wired from.
type Dependencies struct {
	Tokens    *auth.TokenManager
	Storage   storage.Storage
	Images    *imageprocessor.Processor
	Publisher events.Publisher
	Auth      AuthConfig
	Upload    UploadConfig
}

// NewServiceContainer wires repositories into services.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	if deps.Publisher == nil {
		deps.Publisher = events.Noop()
	}
	if deps.Upload.TokenTTL <= 0 {
		deps.Upload.TokenTTL = 15 * time.Minute
	}

	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	workspaceRepo := repositories.NewWorkspaceRepository()
	memberRepo := repositories.NewMemberRepository()
	channelRepo := repositories.NewChannelRepository()
	conversationRepo := repositories.NewConversationRepository()
	messageRepo := repositories.NewMessageRepository()
	reactionRepo := repositories.NewReactionRepository()
	uploadRepo := repositories.NewUploadRepository()

	access := NewAccessService(memberRepo, channelRepo, conversationRepo, messageRepo)
	uploads := NewUploadService(uploadRepo, deps.Storage, deps.Images, deps.Tokens, deps.Upload)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, refreshTokenRepo, deps.Tokens, deps.Auth),
		AccessService:       access,
		WorkspaceService:    NewWorkspaceService(workspaceRepo, memberRepo, channelRepo, access, deps.Publisher),
		ChannelService:      NewChannelService(channelRepo, access, deps.Publisher),
		MemberService:       NewMemberService(memberRepo, messageRepo, reactionRepo, conversationRepo, access, deps.Publisher),
		ConversationService: NewConversationService(conversationRepo, memberRepo, access),
		MessageService: NewMessageService(
			messageRepo, memberRepo, channelRepo, conversationRepo, reactionRepo, uploadRepo,
			uploads, access, deps.Publisher,
		),
		ReactionService: NewReactionService(reactionRepo, messageRepo, access, deps.Publisher),
		UploadService:   uploads,
	}
}
