package integration_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"teamchat/pkg/client"
	"teamchat/pkg/feed"
	"teamchat/pkg/mutation"
	"teamchat/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopObserver struct{}

func (noopObserver) Observe(float64, func(bool)) {}
func (noopObserver) Disconnect()                 {}

type notifications struct{ errors []string }

func (n *notifications) Error(message string) { n.errors = append(n.errors, message) }

func body(text string) []byte {
	data, _ := json.Marshal(textBody(text))
	return data
}

func TestClientComposerAndRealtime(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	api := client.New(ts.Server.URL)
	_, err := api.SignUp(ctx, "Owner", "owner@example.com", "password123")
	require.NoError(t, err)

	workspace, err := api.CreateWorkspace(ctx, "Realtime team")
	require.NoError(t, err)
	channels, err := api.ListChannels(ctx, workspace.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	general := channels[0]

	events := make(chan client.Event, 16)
	subCtx, stopSub := context.WithCancel(ctx)
	defer stopSub()
	go func() {
		_ = api.Subscribe(subCtx, []string{client.ChannelRoom(general.ID)}, func(evt client.Event) {
			events <- evt
		})
	}()

	next := func() client.Event {
		select {
		case evt := <-events:
			return evt
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for realtime event")
			return client.Event{}
		}
	}
	require.Equal(t, "subscribed", next().Type)

	notifier := &notifications{}
	editor := client.NewTextEditor()
	composer := client.NewComposer(api, editor, notifier, client.Target{
		WorkspaceID: workspace.ID,
		ChannelID:   general.ID,
	})

	sent, err := composer.Send(ctx, body("hello from the client"), &client.Attachment{
		ContentType: "text/plain",
		Data:        strings.NewReader("attachment"),
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.errors)
	assert.NotEmpty(t, sent.Image)

	evt := next()
	assert.Equal(t, "message.created", evt.Type)
	assert.Contains(t, string(evt.Payload), sent.ID)

	// A rejected upload type stops the flow before the message is created.
	_, err = composer.Send(ctx, body("bad"), &client.Attachment{
		ContentType: "application/zip",
		Data:        strings.NewReader("PK"),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to send message"}, notifier.errors)

	channelFeed := client.NewChannelFeed(
		client.NewMessagePager(api, client.MessageFilter{ChannelID: general.ID}),
		noopObserver{},
		time.UTC,
	)
	require.NoError(t, channelFeed.Open(ctx))
	defer channelFeed.Close()

	assert.Equal(t, feed.Exhausted, channelFeed.Cursor.Status())
	groups := channelFeed.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Today", groups[0].Label)
	require.Len(t, groups[0].Rows, 1)
	assert.Equal(t, sent.ID, groups[0].Rows[0].Item.ID)
}

func TestClientWritesAndRevocation(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	owner := client.New(ts.Server.URL)
	_, err := owner.SignUp(ctx, "Owner", "owner@example.com", "password123")
	require.NoError(t, err)
	guest := client.New(ts.Server.URL)
	_, err = guest.SignUp(ctx, "Guest", "guest@example.com", "password123")
	require.NoError(t, err)

	workspace, err := owner.CreateWorkspace(ctx, "Writers")
	require.NoError(t, err)
	require.NotEmpty(t, workspace.JoinCode)

	_, err = guest.JoinWorkspaceMutation().Mutate(ctx, client.JoinRequest{
		WorkspaceID: workspace.ID,
		JoinCode:    strings.ToUpper(workspace.JoinCode),
	}, mutation.Options[*client.Workspace]{ThrowOnError: true})
	require.NoError(t, err)

	renamed, err := owner.UpdateWorkspaceMutation().Mutate(ctx, client.RenameWorkspace{
		WorkspaceID: workspace.ID,
		Name:        "Editors",
	}, mutation.Options[*client.Workspace]{ThrowOnError: true})
	require.NoError(t, err)
	assert.Equal(t, "Editors", renamed.Name)

	channels, err := guest.ListChannels(ctx, workspace.ID)
	require.NoError(t, err)
	general := channels[0]

	events := make(chan client.Event, 16)
	subCtx, stopSub := context.WithCancel(ctx)
	defer stopSub()
	go func() {
		_ = guest.Subscribe(subCtx, []string{client.ChannelRoom(general.ID)}, func(evt client.Event) {
			events <- evt
		})
	}()
	next := func() client.Event {
		select {
		case evt := <-events:
			return evt
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for realtime event")
			return client.Event{}
		}
	}
	require.Equal(t, "subscribed", next().Type)

	msg, err := guest.CreateMessage(ctx, client.CreateMessage{
		WorkspaceID: workspace.ID,
		Body:        body("first draft"),
		ChannelID:   &general.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "message.created", next().Type)

	edited, err := guest.UpdateMessageMutation().Mutate(ctx, client.EditMessage{
		MessageID: msg.ID,
		Body:      body("final"),
	}, mutation.Options[*client.Message]{ThrowOnError: true})
	require.NoError(t, err)
	assert.NotNil(t, edited.UpdatedAt)
	assert.Equal(t, "message.updated", next().Type)

	_, err = guest.DeleteMessageMutation().Mutate(ctx, msg.ID, mutation.Options[struct{}]{ThrowOnError: true})
	require.NoError(t, err)
	assert.Equal(t, "message.deleted", next().Type)

	_, err = guest.GetMessage(ctx, msg.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	me, err := guest.CurrentMember(ctx, workspace.ID)
	require.NoError(t, err)
	_, err = owner.RemoveMemberMutation().Mutate(ctx, me.ID, mutation.Options[struct{}]{ThrowOnError: true})
	require.NoError(t, err)

	revoked := next()
	assert.Equal(t, client.EventRevoked, revoked.Type)
	assert.Equal(t, client.ChannelRoom(general.ID), revoked.Room)

	_, err = owner.CreateMessage(ctx, client.CreateMessage{
		WorkspaceID: workspace.ID,
		Body:        body("members only"),
		ChannelID:   &general.ID,
	})
	require.NoError(t, err)
	select {
	case evt := <-events:
		t.Fatalf("removed member received %s", evt.Type)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, guest.SignOut(ctx))
	assert.Empty(t, guest.Token())
	_, err = guest.Me(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}
