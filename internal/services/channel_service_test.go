package services_test

import (
	"testing"

	"teamchat/internal/events"
	"teamchat/internal/models"
	"teamchat/internal/services/dto"
	"teamchat/internal/testutil"
	"teamchat/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelService_NormalizesNames(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Owner")
	workspace, _, _ := testutil.CreateWorkspace(t, f.db, owner, "Acme")

	channel, err := f.svc.ChannelService.Create(f.db, owner.ID, workspace.ID, &dto.CreateChannelRequest{Name: "Plan  Budget"})
	require.NoError(t, err)
	assert.Equal(t, "plan-budget", channel.Name)

	_, err = f.svc.ChannelService.Create(f.db, owner.ID, workspace.ID, &dto.CreateChannelRequest{Name: "plan budget"})
	assert.ErrorIs(t, err, apperrors.ErrChannelNameTaken)

	_, err = f.svc.ChannelService.Create(f.db, owner.ID, workspace.ID, &dto.CreateChannelRequest{Name: "ab"})
	assert.Error(t, err)

	renamed, err := f.svc.ChannelService.Update(f.db, owner.ID, channel.ID, &dto.UpdateChannelRequest{Name: "Q3 Plans"})
	require.NoError(t, err)
	assert.Equal(t, "q3-plans", renamed.Name)

	assert.Equal(t,
		[]string{events.ChannelCreated, events.ChannelUpdated},
		f.publisher.Types(events.WorkspaceRoom(workspace.ID)),
	)
}

func TestChannelService_MembersCannotManage(t *testing.T) {
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Owner")
	alice := testutil.CreateUser(t, f.db, "Alice")
	workspace, _, general := testutil.CreateWorkspace(t, f.db, owner, "Acme")
	testutil.AddMember(t, f.db, workspace, alice, models.MemberRoleMember)

	_, err := f.svc.ChannelService.Create(f.db, alice.ID, workspace.ID, &dto.CreateChannelRequest{Name: "random"})
	assert.ErrorIs(t, err, apperrors.ErrAdminRequired)
	assert.ErrorIs(t, f.svc.ChannelService.Delete(f.db, alice.ID, general.ID), apperrors.ErrAdminRequired)

	got, err := f.svc.ChannelService.Get(f.db, alice.ID, general.ID)
	require.NoError(t, err)
	assert.Equal(t, "general", got.Name)

	require.NoError(t, f.svc.ChannelService.Delete(f.db, owner.ID, general.ID))
	_, err = f.svc.ChannelService.Get(f.db, owner.ID, general.ID)
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)
}
