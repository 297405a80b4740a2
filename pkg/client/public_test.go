package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamchat/pkg/client"
	"teamchat/pkg/feed"
	"teamchat/pkg/mutation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticObserver struct{}

func (staticObserver) Observe(float64, func(bool)) {}
func (staticObserver) Disconnect()                 {}

// Callers outside this package drive mutations and read rendered groups
// through the exported feed and mutation packages only.
func TestExportedSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"FORBIDDEN","domain":"workspace","message":"admin role required"}}`))
	}))
	defer server.Close()

	api := client.New(server.URL, client.WithToken("t"))
	var notified error
	rename := api.UpdateWorkspaceMutation()
	_, err := rename.Mutate(context.Background(), client.RenameWorkspace{WorkspaceID: "w1", Name: "Team"},
		mutation.Options[*client.Workspace]{OnError: func(err error) { notified = err }})
	require.NoError(t, err)
	require.Error(t, notified)
	assert.Equal(t, mutation.Settled, rename.Status())
	assert.True(t, rename.IsError())

	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	source := feed.PageSourceFunc[client.Message](func(context.Context, string, int) (feed.Page[client.Message], error) {
		return feed.Page[client.Message]{
			Items:  []client.Message{{ID: "m1", CreatedAt: now, User: client.User{ID: "u1"}}},
			IsDone: true,
		}, nil
	})
	channelFeed := client.NewChannelFeed(source, staticObserver{}, time.UTC)
	require.NoError(t, channelFeed.Open(context.Background()))
	defer channelFeed.Close()

	var groups []feed.DayGroup[client.Message] = channelFeed.Groups()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Rows, 1)
	assert.Equal(t, "m1", groups[0].Rows[0].Item.ID)
	assert.False(t, groups[0].Rows[0].Compact)
}
