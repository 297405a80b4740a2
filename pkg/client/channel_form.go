package client

import (
	"context"
	"errors"

	"teamchat/internal/naming"
	"teamchat/pkg/mutation"
)

var ErrInvalidChannelName = errors.New("channel name must be 3 to 80 characters")

// NormalizeChannelName turns whitespace runs into hyphens and lowercases: "plan budget" -> "plan-budget".
func NormalizeChannelName(name string) string {
	return naming.NormalizeChannelName(name)
}

// ChannelCreator is the API call behind the form. *Client satisfies it.
type ChannelCreator interface {
	CreateChannel(ctx context.Context, req CreateChannelRequest) (*Channel, error)
}

// ChannelForm backs the create-channel modal.
type ChannelForm struct {
	workspaceID string
	modal       *Store[bool]
	notifier    Notifier
	create      *mutation.Mutation[CreateChannelRequest, *Channel]

	// OnCreated runs after a successful create, e.g. to navigate to the channel.
	OnCreated func(*Channel)
}

func NewChannelForm(api ChannelCreator, workspaceID string, modal *Store[bool], notifier Notifier) *ChannelForm {
	if modal == nil {
		modal = CreateChannelModal
	}
	return &ChannelForm{
		workspaceID: workspaceID,
		modal:       modal,
		notifier:    notifier,
		create:      mutation.New(api.CreateChannel),
	}
}

// Pending reports whether the create call is in flight.
func (f *ChannelForm) Pending() bool {
	return f.create.IsPending()
}

// Submit normalizes name and creates the channel. The modal closes on success.
func (f *ChannelForm) Submit(ctx context.Context, name string) (*Channel, error) {
	name = NormalizeChannelName(name)
	if !naming.ValidChannelName(name) {
		return nil, ErrInvalidChannelName
	}

	var created *Channel
	_, err := f.create.Mutate(ctx, CreateChannelRequest{WorkspaceID: f.workspaceID, Name: name}, mutation.Options[*Channel]{
		OnSuccess: func(ch *Channel) {
			created = ch
			f.modal.Set(false)
			if f.OnCreated != nil {
				f.OnCreated(ch)
			}
		},
		OnError: func(error) {
			if f.notifier != nil {
				f.notifier.Error("Failed to create channel")
			}
		},
		ThrowOnError: true,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
