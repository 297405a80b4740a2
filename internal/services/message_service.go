package services

import (
	"context"
	"encoding/json"
	"time"

	"teamchat/internal/auth"
	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/pagination"
	"teamchat/internal/repositories"
	"teamchat/internal/richtext"
	"teamchat/internal/services/dto"
	"teamchat/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MessageService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
	// List returns one newest-first page of a channel, a conversation or a thread.
	List(ctx context.Context, db *gorm.DB, userID string, query *dto.ListMessagesQuery) (*dto.MessagePageResponse, error)
	Get(ctx context.Context, db *gorm.DB, userID, messageID string) (*dto.MessageResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID, messageID string, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error)
	Delete(db *gorm.DB, userID, messageID string) error
}

type messageService struct {
	messageRepo      repositories.MessageRepository
	memberRepo       repositories.MemberRepository
	channelRepo      repositories.ChannelRepository
	conversationRepo repositories.ConversationRepository
	reactionRepo     repositories.ReactionRepository
	uploadRepo       repositories.UploadRepository
	uploads          UploadService
	access           AccessService
	publisher        events.Publisher
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	memberRepo repositories.MemberRepository,
	channelRepo repositories.ChannelRepository,
	conversationRepo repositories.ConversationRepository,
	reactionRepo repositories.ReactionRepository,
	uploadRepo repositories.UploadRepository,
	uploads UploadService,
	access AccessService,
	publisher events.Publisher,
) MessageService {
	return &messageService{
		messageRepo:      messageRepo,
		memberRepo:       memberRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		reactionRepo:     reactionRepo,
		uploadRepo:       uploadRepo,
		uploads:          uploads,
		access:           access,
		publisher:        publisher,
	}
}

// ============================================
// WRITE
// ============================================

func (s *messageService) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	member, err := s.access.RequirePermission(db, req.WorkspaceID, userID, auth.ActionPostMessages)
	if err != nil {
		return nil, err
	}

	body, err := parseBody(req.Body, req.Image != nil && *req.Image != "")
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		WorkspaceID:     req.WorkspaceID,
		MemberID:        member.ID,
		Body:            body,
		ChannelID:       nonEmpty(req.ChannelID),
		ConversationID:  nonEmpty(req.ConversationID),
		ParentMessageID: nonEmpty(req.ParentMessageID),
		ImageID:         nonEmpty(req.Image),
	}

	if err := s.resolveTarget(db, member, message); err != nil {
		return nil, err
	}

	if message.ImageID != nil {
		upload, err := s.uploadRepo.FindByID(db, *message.ImageID)
		if err != nil {
			return nil, handleError(err)
		}
		if upload.UserID != userID {
			return nil, apperrors.ErrUploadNotOwned
		}
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp, err := s.Get(ctx, db, userID, message.ID)
	if err != nil {
		return nil, err
	}

	s.publishCreated(db, message, resp)
	return resp, nil
}

// resolveTarget validates the stream a new message goes to. Replies without an explicit
// stream inherit the parent's channel or conversation.
func (s *messageService) resolveTarget(db *gorm.DB, member *models.Member, message *models.Message) error {
	if message.ParentMessageID != nil {
		parent, err := s.messageRepo.FindByID(db, *message.ParentMessageID)
		if err != nil {
			return handleError(err)
		}
		if parent.WorkspaceID != message.WorkspaceID {
			return apperrors.ErrMessageNotFound
		}
		if parent.ParentMessageID != nil {
			return apperrors.ErrInvalidOperation("message", "Replies cannot have their own thread")
		}
		if message.ChannelID == nil && message.ConversationID == nil {
			message.ChannelID = parent.ChannelID
			message.ConversationID = parent.ConversationID
		}
	}

	switch {
	case message.ChannelID != nil:
		channel, err := s.channelRepo.FindByID(db, *message.ChannelID)
		if err != nil {
			return handleError(err)
		}
		if channel.WorkspaceID != message.WorkspaceID {
			return apperrors.ErrChannelNotFound
		}
	case message.ConversationID != nil:
		conversation, err := s.conversationRepo.FindByID(db, *message.ConversationID)
		if err != nil {
			return handleError(err)
		}
		if conversation.WorkspaceID != message.WorkspaceID {
			return apperrors.ErrConversationNotFound
		}
		if err := requireParticipant(conversation, member); err != nil {
			return err
		}
	default:
		return apperrors.ErrMissingTarget
	}
	return nil
}

func (s *messageService) publishCreated(db *gorm.DB, message *models.Message, resp *dto.MessageResponse) {
	if message.ParentMessageID == nil {
		s.publisher.Publish(streamRoom(message), events.MessageCreated, resp)
		return
	}

	parentID := *message.ParentMessageID
	s.publisher.Publish(events.ThreadRoom(parentID), events.MessageCreated, resp)

	summaries, err := s.messageRepo.ThreadSummaries(db, []string{parentID})
	if err != nil {
		return
	}
	summary := summaries[parentID]
	s.publisher.Publish(streamRoom(message), events.ThreadUpdated, map[string]interface{}{
		"message_id":       parentID,
		"thread_count":     summary.Count,
		"thread_timestamp": summary.LastReplyAt,
	})
}

func (s *messageService) Update(ctx context.Context, db *gorm.DB, userID, messageID string, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error) {
	message, err := s.requireAuthor(db, userID, messageID)
	if err != nil {
		return nil, err
	}

	body, err := parseBody(req.Body, message.ImageID != nil)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.UpdateBody(db, messageID, body, time.Now().UTC()); err != nil {
		return nil, handleError(err)
	}

	resp, err := s.Get(ctx, db, userID, messageID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(eventRoom(message), events.MessageUpdated, resp)
	return resp, nil
}

func (s *messageService) Delete(db *gorm.DB, userID, messageID string) error {
	message, err := s.requireAuthor(db, userID, messageID)
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.messageRepo.Delete(tx, messageID); err != nil {
		return handleError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.publisher.Publish(eventRoom(message), events.MessageDeleted, map[string]string{"id": messageID})
	return nil
}

func (s *messageService) requireAuthor(db *gorm.DB, userID, messageID string) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		return nil, handleError(err)
	}
	member, err := s.access.RequireMember(db, message.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if message.MemberID != member.ID {
		return nil, apperrors.ErrNotMessageAuthor
	}
	return message, nil
}

// ============================================
// READ
// ============================================

func (s *messageService) Get(ctx context.Context, db *gorm.DB, userID, messageID string) (*dto.MessageResponse, error) {
	message, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		return nil, handleError(err)
	}
	if err := s.canRead(db, userID, message); err != nil {
		return nil, err
	}

	page, err := s.buildResponses(ctx, db, []models.Message{*message})
	if err != nil {
		return nil, err
	}
	return &page[0], nil
}

func (s *messageService) List(ctx context.Context, db *gorm.DB, userID string, query *dto.ListMessagesQuery) (*dto.MessagePageResponse, error) {
	filter := repositories.MessageFilter{
		ChannelID:       query.ChannelID,
		ConversationID:  query.ConversationID,
		ParentMessageID: query.ParentMessageID,
	}
	if err := s.canListStream(db, userID, filter); err != nil {
		return nil, err
	}

	req := pagination.Request{Limit: query.Limit, Cursor: query.Cursor}
	req.Normalize()

	after, err := pagination.Decode(req.Cursor)
	if err != nil {
		return nil, handleError(err)
	}

	messages, err := s.messageRepo.List(db, filter, after, req.Limit+1)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	hasMore := len(messages) > req.Limit
	if hasMore {
		messages = messages[:req.Limit]
	}

	page, err := s.buildResponses(ctx, db, messages)
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if hasMore {
		last := messages[len(messages)-1]
		nextCursor = pagination.Encode(last.CreatedAt, last.ID)
	}

	return &dto.MessagePageResponse{
		Page:       page,
		Pagination: pagination.NewResponse(req.Limit, hasMore, nextCursor, len(page)),
	}, nil
}

func (s *messageService) canListStream(db *gorm.DB, userID string, filter repositories.MessageFilter) error {
	switch {
	case filter.ParentMessageID != "":
		return s.access.CanJoinRoom(db, userID, events.ThreadRoom(filter.ParentMessageID))
	case filter.ChannelID != "":
		return s.access.CanJoinRoom(db, userID, events.ChannelRoom(filter.ChannelID))
	case filter.ConversationID != "":
		return s.access.CanJoinRoom(db, userID, events.ConversationRoom(filter.ConversationID))
	}
	return apperrors.ErrMissingTarget
}

func (s *messageService) canRead(db *gorm.DB, userID string, message *models.Message) error {
	if message.ConversationID != nil {
		return s.access.CanJoinRoom(db, userID, events.ConversationRoom(*message.ConversationID))
	}
	_, err := s.access.RequireMember(db, message.WorkspaceID, userID)
	return err
}

// buildResponses populates member, user, reactions, image URL and thread summary
// for a page of messages with a fixed number of queries.
func (s *messageService) buildResponses(ctx context.Context, db *gorm.DB, messages []models.Message) ([]dto.MessageResponse, error) {
	result := make([]dto.MessageResponse, 0, len(messages))
	if len(messages) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(messages))
	for i := range messages {
		ids = append(ids, messages[i].ID)
	}

	reactions, err := s.reactionRepo.ListByMessageIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	threads, err := s.messageRepo.ThreadSummaries(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	lastAuthorIDs := make([]string, 0, len(threads))
	for _, summary := range threads {
		lastAuthorIDs = append(lastAuthorIDs, summary.LastMemberID)
	}
	lastAuthors, err := s.memberRepo.FindByIDs(db, lastAuthorIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for i := range messages {
		m := &messages[i]
		resp := dto.MessageResponse{
			ID:              m.ID,
			WorkspaceID:     m.WorkspaceID,
			MemberID:        m.MemberID,
			Body:            json.RawMessage(m.Body),
			ImageID:         m.ImageID,
			ChannelID:       m.ChannelID,
			ConversationID:  m.ConversationID,
			ParentMessageID: m.ParentMessageID,
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.UpdatedAt,
			Member:          dto.NewMemberResponse(&m.Member),
			User:            dto.NewUserResponse(&m.Member.User),
			Reactions:       summarizeReactions(reactions[m.ID]),
		}
		resp.User.Email = ""
		if m.Image != nil {
			resp.Image = s.uploads.URL(ctx, m.Image)
		}

		if summary, ok := threads[m.ID]; ok && summary.Count > 0 {
			resp.ThreadCount = summary.Count
			ts := summary.LastReplyAt
			resp.ThreadTimestamp = &ts
			if author, ok := lastAuthors[summary.LastMemberID]; ok {
				resp.ThreadName = author.User.Name
				resp.ThreadImage = author.User.Image
			}
		}
		result = append(result, resp)
	}
	return result, nil
}

// ============================================
// HELPERS
// ============================================

// summarizeReactions groups rows by value in first-seen order.
func summarizeReactions(rows []models.Reaction) []dto.ReactionSummary {
	result := make([]dto.ReactionSummary, 0)
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Value]
		if !ok {
			i = len(result)
			index[r.Value] = i
			result = append(result, dto.ReactionSummary{Value: r.Value, MemberIDs: []string{}})
		}
		result[i].Count++
		result[i].MemberIDs = append(result[i].MemberIDs, r.MemberID)
	}
	return result
}

func parseBody(raw json.RawMessage, hasImage bool) (datatypes.JSON, error) {
	delta, err := richtext.Parse(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidBody
	}
	if delta.IsBlank() && !hasImage {
		return nil, apperrors.ErrEmptyMessage
	}
	normalized, err := delta.Normalize()
	if err != nil {
		return nil, apperrors.ErrInvalidBody
	}
	return datatypes.JSON(normalized), nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// streamRoom is the channel or conversation room a message lives in.
func streamRoom(m *models.Message) string {
	if m.ConversationID != nil && m.ChannelID == nil {
		return events.ConversationRoom(*m.ConversationID)
	}
	if m.ChannelID != nil {
		return events.ChannelRoom(*m.ChannelID)
	}
	return events.WorkspaceRoom(m.WorkspaceID)
}

// eventRoom is where subscribers currently rendering the message listen.
func eventRoom(m *models.Message) string {
	if m.ParentMessageID != nil {
		return events.ThreadRoom(*m.ParentMessageID)
	}
	return streamRoom(m)
}
