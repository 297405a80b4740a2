package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/services/dto"
	"teamchat/internal/testutil"
	"teamchat/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textBody(text string) json.RawMessage {
	data, _ := json.Marshal(map[string]interface{}{
		"ops": []map[string]string{{"insert": text + "\n"}},
	})
	return data
}

func TestMessageService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	workspace, _, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
			WorkspaceID: workspace.ID,
			Body:        textBody(text),
			ChannelID:   strPtr(channel.ID),
		})
		require.NoError(t, err)
	}

	first, err := f.svc.MessageService.List(ctx, f.db, owner.ID, &dto.ListMessagesQuery{ChannelID: channel.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Page, 2)
	assert.True(t, first.Pagination.HasMore)
	assert.NotEmpty(t, first.Pagination.NextCursor)
	assert.JSONEq(t, string(textBody("three")), string(first.Page[0].Body))
	assert.Equal(t, "Owner", first.Page[0].User.Name)
	assert.Empty(t, first.Page[0].User.Email)

	second, err := f.svc.MessageService.List(ctx, f.db, owner.ID, &dto.ListMessagesQuery{
		ChannelID: channel.ID,
		Limit:     2,
		Cursor:    first.Pagination.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, second.Page, 1)
	assert.False(t, second.Pagination.HasMore)
	assert.JSONEq(t, string(textBody("one")), string(second.Page[0].Body))

	assert.Equal(t,
		[]string{events.MessageCreated, events.MessageCreated, events.MessageCreated},
		f.publisher.Types(events.ChannelRoom(channel.ID)),
	)
}

func TestMessageService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	workspace, _, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")

	_, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("   "),
		ChannelID:   strPtr(channel.ID),
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)

	_, err = f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        json.RawMessage(`{"nope":true}`),
		ChannelID:   strPtr(channel.ID),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBody)

	_, err = f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("orphan"),
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingTarget)

	stranger := testutil.CreateUser(t, f.db, "Stranger")
	_, err = f.svc.MessageService.Create(ctx, f.db, stranger.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("hi"),
		ChannelID:   strPtr(channel.ID),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotWorkspaceMember)
}

func TestMessageService_ThreadRepliesInheritStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	workspace, _, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")

	parent, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("parent"),
		ChannelID:   strPtr(channel.ID),
	})
	require.NoError(t, err)

	reply, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID:     workspace.ID,
		Body:            textBody("reply"),
		ParentMessageID: strPtr(parent.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ChannelID)
	assert.Equal(t, channel.ID, *reply.ChannelID)

	top, err := f.svc.MessageService.List(ctx, f.db, owner.ID, &dto.ListMessagesQuery{ChannelID: channel.ID})
	require.NoError(t, err)
	require.Len(t, top.Page, 1, "replies are not listed in the channel")
	assert.Equal(t, 1, top.Page[0].ThreadCount)
	assert.Equal(t, "Owner", top.Page[0].ThreadName)
	assert.NotNil(t, top.Page[0].ThreadTimestamp)

	thread, err := f.svc.MessageService.List(ctx, f.db, owner.ID, &dto.ListMessagesQuery{ParentMessageID: parent.ID})
	require.NoError(t, err)
	require.Len(t, thread.Page, 1)
	assert.Equal(t, reply.ID, thread.Page[0].ID)

	assert.Equal(t, []string{events.MessageCreated}, f.publisher.Types(events.ThreadRoom(parent.ID)))
	assert.Contains(t, f.publisher.Types(events.ChannelRoom(channel.ID)), events.ThreadUpdated)
}

func TestMessageService_DeleteParentRemovesThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	other := testutil.CreateUser(t, f.db, "Other")
	workspace, _, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")
	otherMember := testutil.AddMember(t, f.db, workspace, other, models.MemberRoleMember)

	parent, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("parent"),
		ChannelID:   strPtr(channel.ID),
	})
	require.NoError(t, err)
	reply, err := f.svc.MessageService.Create(ctx, f.db, other.ID, &dto.CreateMessageRequest{
		WorkspaceID:     workspace.ID,
		Body:            textBody("reply"),
		ParentMessageID: strPtr(parent.ID),
	})
	require.NoError(t, err)
	_, err = f.svc.ReactionService.Toggle(f.db, owner.ID, reply.ID, &dto.ToggleReactionRequest{Value: "👍"})
	require.NoError(t, err)

	require.NoError(t, f.svc.MessageService.Delete(f.db, owner.ID, parent.ID))

	var count int64
	f.db.Model(&models.Message{}).Where("parent_message_id = ?", parent.ID).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.Reaction{}).Where("message_id = ?", reply.ID).Count(&count)
	assert.Zero(t, count)

	// Replies to a removed member's messages go with them.
	own, err := f.svc.MessageService.Create(ctx, f.db, other.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("mine"),
		ChannelID:   strPtr(channel.ID),
	})
	require.NoError(t, err)
	_, err = f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID:     workspace.ID,
		Body:            textBody("answer"),
		ParentMessageID: strPtr(own.ID),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.MemberService.Remove(f.db, owner.ID, otherMember.ID))
	f.db.Model(&models.Message{}).Where("parent_message_id = ?", own.ID).Count(&count)
	assert.Zero(t, count)
}

func TestMessageService_OnlyAuthorCanEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	other := testutil.CreateUser(t, f.db, "Other")
	workspace, _, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")
	testutil.AddMember(t, f.db, workspace, other, models.MemberRoleMember)

	msg, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("draft"),
		ChannelID:   strPtr(channel.ID),
	})
	require.NoError(t, err)
	assert.Nil(t, msg.UpdatedAt)

	_, err = f.svc.MessageService.Update(ctx, f.db, other.ID, msg.ID, &dto.UpdateMessageRequest{Body: textBody("hacked")})
	assert.ErrorIs(t, err, apperrors.ErrNotMessageAuthor)
	assert.ErrorIs(t, f.svc.MessageService.Delete(f.db, other.ID, msg.ID), apperrors.ErrNotMessageAuthor)

	edited, err := f.svc.MessageService.Update(ctx, f.db, owner.ID, msg.ID, &dto.UpdateMessageRequest{Body: textBody("final")})
	require.NoError(t, err)
	assert.NotNil(t, edited.UpdatedAt)
	assert.JSONEq(t, string(textBody("final")), string(edited.Body))

	require.NoError(t, f.svc.MessageService.Delete(f.db, owner.ID, msg.ID))
	_, err = f.svc.MessageService.Get(ctx, f.db, owner.ID, msg.ID)
	assert.ErrorIs(t, err, apperrors.ErrMessageNotFound)
}

func TestMessageService_ConversationIsPrivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	friend := testutil.CreateUser(t, f.db, "Friend")
	outsider := testutil.CreateUser(t, f.db, "Outsider")
	workspace, _, _ := testutil.CreateWorkspace(t, f.db, owner, "Acme")
	friendMember := testutil.AddMember(t, f.db, workspace, friend, models.MemberRoleMember)
	testutil.AddMember(t, f.db, workspace, outsider, models.MemberRoleMember)

	conversation, err := f.svc.ConversationService.CreateOrGet(f.db, owner.ID, workspace.ID, &dto.CreateConversationRequest{MemberID: friendMember.ID})
	require.NoError(t, err)

	ownerMember, err := f.svc.MemberService.Current(f.db, owner.ID, workspace.ID)
	require.NoError(t, err)
	again, err := f.svc.ConversationService.CreateOrGet(f.db, friend.ID, workspace.ID, &dto.CreateConversationRequest{MemberID: ownerMember.ID})
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, again.ID, "either direction finds the same conversation")

	_, err = f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID:    workspace.ID,
		Body:           textBody("psst"),
		ConversationID: strPtr(conversation.ID),
	})
	require.NoError(t, err)

	_, err = f.svc.MessageService.List(ctx, f.db, outsider.ID, &dto.ListMessagesQuery{ConversationID: conversation.ID})
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)

	page, err := f.svc.MessageService.List(ctx, f.db, friend.ID, &dto.ListMessagesQuery{ConversationID: conversation.ID})
	require.NoError(t, err)
	assert.Len(t, page.Page, 1)
}

func TestReactionService_Toggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, f.db, "Owner")
	other := testutil.CreateUser(t, f.db, "Other")
	workspace, ownerMember, channel := testutil.CreateWorkspace(t, f.db, owner, "Acme")
	otherMember := testutil.AddMember(t, f.db, workspace, other, models.MemberRoleMember)

	msg, err := f.svc.MessageService.Create(ctx, f.db, owner.ID, &dto.CreateMessageRequest{
		WorkspaceID: workspace.ID,
		Body:        textBody("react to me"),
		ChannelID:   strPtr(channel.ID),
	})
	require.NoError(t, err)

	first, err := f.svc.ReactionService.Toggle(f.db, owner.ID, msg.ID, &dto.ToggleReactionRequest{Value: "👍"})
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := f.svc.ReactionService.Toggle(f.db, other.ID, msg.ID, &dto.ToggleReactionRequest{Value: "👍"})
	require.NoError(t, err)
	require.Len(t, second.Reactions, 1)
	assert.Equal(t, 2, second.Reactions[0].Count)
	assert.Equal(t, []string{ownerMember.ID, otherMember.ID}, second.Reactions[0].MemberIDs)

	removed, err := f.svc.ReactionService.Toggle(f.db, owner.ID, msg.ID, &dto.ToggleReactionRequest{Value: "👍"})
	require.NoError(t, err)
	assert.False(t, removed.Active)
	require.Len(t, removed.Reactions, 1)
	assert.Equal(t, 1, removed.Reactions[0].Count)

	got, err := f.svc.MessageService.Get(ctx, f.db, owner.ID, msg.ID)
	require.NoError(t, err)
	require.Len(t, got.Reactions, 1)
	assert.Equal(t, []string{otherMember.ID}, got.Reactions[0].MemberIDs)

	assert.Contains(t, f.publisher.Types(events.ChannelRoom(channel.ID)), events.ReactionToggled)
}
