package client

import (
	"context"
	"errors"
	"io"
	"sync"

	"teamchat/internal/logger"
	"teamchat/internal/richtext"
	"teamchat/pkg/mutation"
)

const sendFailedMessage = "Failed to send message"

var (
	ErrComposerBusy   = errors.New("composer is already sending")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMissingStorage = errors.New("upload response has no storage id")
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Error(message string)
}

// ComposerBackend is the part of the API the composer uses. *Client satisfies it.
type ComposerBackend interface {
	GenerateUploadURL(ctx context.Context) (*UploadURL, error)
	Upload(ctx context.Context, uploadURL, contentType string, body io.Reader) (*StoredFile, error)
	CreateMessage(ctx context.Context, req CreateMessage) (*Message, error)
}

// Attachment is an image picked in the composer.
type Attachment struct {
	ContentType string
	Data        io.Reader
}

// Target says where the composer posts. Set ChannelID, ConversationID or ParentMessageID.
type Target struct {
	WorkspaceID     string
	ChannelID       string
	ConversationID  string
	ParentMessageID string
}

// Composer sends messages typed into an editor, uploading an optional image first.
type Composer struct {
	backend  ComposerBackend
	editor   EditorHandle
	notifier Notifier
	target   Target

	uploadURL *mutation.Mutation[struct{}, *UploadURL]
	create    *mutation.Mutation[CreateMessage, *Message]

	mu      sync.Mutex
	sending bool
}

func NewComposer(backend ComposerBackend, editor EditorHandle, notifier Notifier, target Target) *Composer {
	return &Composer{
		backend:  backend,
		editor:   editor,
		notifier: notifier,
		target:   target,
		uploadURL: mutation.New(func(ctx context.Context, _ struct{}) (*UploadURL, error) {
			return backend.GenerateUploadURL(ctx)
		}),
		create: mutation.New(backend.CreateMessage),
	}
}

// Pending reports whether a send is in progress.
func (c *Composer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Send posts body, a rich-text Delta, with an optional image. Any failure stops the
// remaining steps and raises exactly one notification. The editor is disabled while
// sending and reset after success. Uploaded blobs are not rolled back.
func (c *Composer) Send(ctx context.Context, body []byte, image *Attachment) (*Message, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrComposerBusy
	}
	c.sending = true
	c.mu.Unlock()

	c.editor.SetEnabled(false)
	defer func() {
		c.editor.SetEnabled(true)
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	msg, err := c.send(ctx, body, image)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to send message", err, "workspace_id", c.target.WorkspaceID)
		c.notifier.Error(sendFailedMessage)
		return nil, err
	}

	c.editor.Reset()
	c.editor.Focus()
	return msg, nil
}

func (c *Composer) send(ctx context.Context, body []byte, image *Attachment) (*Message, error) {
	delta, err := richtext.Parse(body)
	if err != nil {
		return nil, err
	}
	if delta.IsBlank() && image == nil {
		return nil, ErrEmptyMessage
	}

	req := CreateMessage{
		WorkspaceID: c.target.WorkspaceID,
		Body:        body,
	}
	if c.target.ChannelID != "" {
		req.ChannelID = &c.target.ChannelID
	}
	if c.target.ConversationID != "" {
		req.ConversationID = &c.target.ConversationID
	}
	if c.target.ParentMessageID != "" {
		req.ParentMessageID = &c.target.ParentMessageID
	}

	if image != nil {
		signed, err := c.uploadURL.Mutate(ctx, struct{}{}, mutation.Options[*UploadURL]{ThrowOnError: true})
		if err != nil {
			return nil, err
		}
		stored, err := c.backend.Upload(ctx, signed.UploadURL, image.ContentType, image.Data)
		if err != nil {
			return nil, err
		}
		if stored == nil || stored.StorageID == "" {
			return nil, ErrMissingStorage
		}
		req.Image = &stored.StorageID
	}

	return c.create.Mutate(ctx, req, mutation.Options[*Message]{ThrowOnError: true})
}
