package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamchat/pkg/feed"
	"teamchat/pkg/mutation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	names []string
	err   error
}

func (f *fakeCreator) CreateChannel(_ context.Context, req CreateChannelRequest) (*Channel, error) {
	f.names = append(f.names, req.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &Channel{ID: "c1", WorkspaceID: req.WorkspaceID, Name: req.Name}, nil
}

func TestNormalizeChannelName(t *testing.T) {
	assert.Equal(t, "plan-budget", NormalizeChannelName("plan budget"))
	assert.Equal(t, "plan-budget", NormalizeChannelName("Plan \t Budget"))
}

func TestChannelForm_NormalizesBeforeCreate(t *testing.T) {
	creator := &fakeCreator{}
	modal := NewStore(true)
	form := NewChannelForm(creator, "w1", modal, &recordingNotifier{})

	var navigated string
	form.OnCreated = func(ch *Channel) { navigated = ch.ID }

	ch, err := form.Submit(context.Background(), "plan budget")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan-budget"}, creator.names)
	assert.Equal(t, "plan-budget", ch.Name)
	assert.False(t, modal.Get(), "modal closes on success")
	assert.Equal(t, "c1", navigated)
}

func TestChannelForm_Failure(t *testing.T) {
	notifier := &recordingNotifier{}
	creator := &fakeCreator{err: errors.New("forbidden")}
	modal := NewStore(true)
	form := NewChannelForm(creator, "w1", modal, notifier)

	_, err := form.Submit(context.Background(), "ops")
	assert.Error(t, err)
	assert.True(t, modal.Get())
	assert.Len(t, notifier.errors, 1)

	_, err = form.Submit(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidChannelName)
	assert.Len(t, creator.names, 1)
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore(false)
	var seen []bool
	unsubscribe := store.Subscribe(func(v bool) { seen = append(seen, v) })

	store.Set(true)
	unsubscribe()
	store.Set(false)

	assert.Equal(t, []bool{true}, seen)
	assert.False(t, store.Get())
}

func TestTextEditor_InsertText(t *testing.T) {
	editor := NewTextEditor()
	editor.InsertText(0, "hllo")
	editor.InsertText(1, "e")
	editor.InsertText(99, "!")
	assert.Equal(t, "hello!", editor.PlainText())

	editor.SetEnabled(false)
	editor.InsertText(0, "ignored")
	assert.Equal(t, "hello!", editor.PlainText())
}

func TestClient_DecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "FORBIDDEN", "domain": "workspace", "message": "Not a member"},
		})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("tok"))
	_, err := c.ListWorkspaces(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "Not a member", apiErr.Message)
}

func TestMessagePager(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/messages", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("channel_id"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			_, _ = w.Write([]byte(`{"page":[{"id":"m2"}],"pagination":{"limit":1,"has_more":true,"next_cursor":"n1","count":1}}`))
			return
		}
		assert.Equal(t, "n1", r.URL.Query().Get("cursor"))
		_, _ = w.Write([]byte(`{"page":[{"id":"m1"}],"pagination":{"limit":1,"has_more":false,"count":1}}`))
	}))
	defer server.Close()

	pager := NewMessagePager(New(server.URL), MessageFilter{ChannelID: "c1"})

	first, err := pager.FetchPage(context.Background(), "", 1)
	require.NoError(t, err)
	assert.False(t, first.IsDone)
	assert.Equal(t, "n1", first.NextCursor)

	second, err := pager.FetchPage(context.Background(), first.NextCursor, 1)
	require.NoError(t, err)
	assert.True(t, second.IsDone)
	assert.Equal(t, "m1", second.Items[0].ID)
}

type idleObserver struct{}

func (idleObserver) Observe(float64, func(bool)) {}
func (idleObserver) Disconnect()                 {}

func TestChannelFeed_LiveMessageDuringFirstPage(t *testing.T) {
	m1 := Message{ID: "m1", CreatedAt: time.Now().Add(-time.Minute)}
	m2 := Message{ID: "m2", CreatedAt: time.Now()}

	entered := make(chan struct{})
	release := make(chan struct{})
	source := feed.PageSourceFunc[Message](func(context.Context, string, int) (feed.Page[Message], error) {
		close(entered)
		<-release
		return feed.Page[Message]{Items: []Message{m2, m1}, IsDone: true}, nil
	})
	channelFeed := NewChannelFeed(source, idleObserver{}, time.UTC)

	done := make(chan error, 1)
	go func() { done <- channelFeed.Open(context.Background()) }()
	<-entered

	channelFeed.Receive(m2)
	close(release)
	require.NoError(t, <-done)

	ids := []string{}
	for _, m := range channelFeed.Cursor.Items() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m2", "m1"}, ids)

	channelFeed.Receive(m1)
	assert.Len(t, channelFeed.Cursor.Items(), 2)
}

func TestSocketURL(t *testing.T) {
	c := New("https://chat.example.com/", WithToken("a b"))
	u, err := c.socketURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://chat.example.com/ws?token=a+b", u)
}

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]string
}

// recordingServer answers every call with 204 except the listed JSON replies.
func recordingServer(t *testing.T, replies map[string]string) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{Method: r.Method, Path: r.URL.Path}
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&call.Body))
		}
		*calls = append(*calls, call)

		if reply, ok := replies[r.Method+" "+r.URL.Path]; ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(reply))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestWriteMutations(t *testing.T) {
	server, calls := recordingServer(t, map[string]string{
		"PATCH /api/v1/workspaces/w1":          `{"id":"w1","name":"Renamed"}`,
		"POST /api/v1/workspaces/w1/join-code": `{"id":"w1","join_code":"abc123"}`,
		"PATCH /api/v1/channels/c1":            `{"id":"c1","name":"roadmap"}`,
		"PATCH /api/v1/members/m1":             `{"id":"m1","role":"admin"}`,
		"PATCH /api/v1/messages/x1":            `{"id":"x1"}`,
	})
	api := New(server.URL, WithToken("t"))
	ctx := context.Background()

	workspace, err := api.UpdateWorkspaceMutation().Mutate(ctx, RenameWorkspace{WorkspaceID: "w1", Name: "Renamed"}, mutationThrows[*Workspace]())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", workspace.Name)

	rotated, err := api.NewJoinCodeMutation().Mutate(ctx, "w1", mutationThrows[*Workspace]())
	require.NoError(t, err)
	assert.Equal(t, "abc123", rotated.JoinCode)

	channel, err := api.UpdateChannelMutation().Mutate(ctx, RenameChannel{ChannelID: "c1", Name: "roadmap"}, mutationThrows[*Channel]())
	require.NoError(t, err)
	assert.Equal(t, "roadmap", channel.Name)

	member, err := api.UpdateMemberRoleMutation().Mutate(ctx, MemberRole{MemberID: "m1", Role: "admin"}, mutationThrows[*Member]())
	require.NoError(t, err)
	assert.Equal(t, "admin", member.Role)

	_, err = api.UpdateMessageMutation().Mutate(ctx, EditMessage{MessageID: "x1", Body: json.RawMessage(`"hi"`)}, mutationThrows[*Message]())
	require.NoError(t, err)

	deletes := []*mutation.Mutation[string, struct{}]{
		api.DeleteMessageMutation(),
		api.RemoveMemberMutation(),
		api.DeleteChannelMutation(),
		api.DeleteWorkspaceMutation(),
	}
	for i, id := range []string{"x1", "m1", "c1", "w1"} {
		_, err := deletes[i].Mutate(ctx, id, mutationThrows[struct{}]())
		require.NoError(t, err)
	}

	got := make([]string, 0, len(*calls))
	for _, c := range *calls {
		got = append(got, c.Method+" "+c.Path)
	}
	assert.Equal(t, []string{
		"PATCH /api/v1/workspaces/w1",
		"POST /api/v1/workspaces/w1/join-code",
		"PATCH /api/v1/channels/c1",
		"PATCH /api/v1/members/m1",
		"PATCH /api/v1/messages/x1",
		"DELETE /api/v1/messages/x1",
		"DELETE /api/v1/members/m1",
		"DELETE /api/v1/channels/c1",
		"DELETE /api/v1/workspaces/w1",
	}, got)
	assert.Equal(t, "Renamed", (*calls)[0].Body["name"])
	assert.Equal(t, "admin", (*calls)[3].Body["role"])
}

func TestRefreshAndSignOut(t *testing.T) {
	server, calls := recordingServer(t, map[string]string{
		"POST /api/v1/auth/sign-in": `{"access_token":"a1","refresh_token":"r1"}`,
		"POST /api/v1/auth/refresh": `{"access_token":"a2","refresh_token":"r2"}`,
	})
	api := New(server.URL)
	ctx := context.Background()

	_, err := api.SignIn(ctx, "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "a1", api.Token())

	_, err = api.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", api.Token())

	signOut := api.SignOutMutation()
	_, err = signOut.Mutate(ctx, struct{}{}, mutationThrows[struct{}]())
	require.NoError(t, err)
	assert.True(t, signOut.IsSettled())
	assert.Empty(t, api.Token())

	require.Len(t, *calls, 3)
	assert.Equal(t, "r1", (*calls)[1].Body["refresh_token"])
	assert.Equal(t, "r2", (*calls)[2].Body["refresh_token"])
}

func mutationThrows[T any]() mutation.Options[T] {
	return mutation.Options[T]{ThrowOnError: true}
}
