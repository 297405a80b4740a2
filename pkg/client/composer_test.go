package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	errors []string
}

func (n *recordingNotifier) Error(message string) { n.errors = append(n.errors, message) }

type fakeBackend struct {
	uploadErr  error
	storageID  string
	urlCalls   int
	uploads    int
	creates    []CreateMessage
	editor     *TextEditor
	enabledWas []bool
}

func (b *fakeBackend) GenerateUploadURL(context.Context) (*UploadURL, error) {
	b.urlCalls++
	return &UploadURL{UploadURL: "http://files.test/upload/abc"}, nil
}

func (b *fakeBackend) Upload(_ context.Context, _, _ string, body io.Reader) (*StoredFile, error) {
	b.uploads++
	b.enabledWas = append(b.enabledWas, b.editor.Enabled())
	_, _ = io.ReadAll(body)
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	return &StoredFile{StorageID: b.storageID}, nil
}

func (b *fakeBackend) CreateMessage(_ context.Context, req CreateMessage) (*Message, error) {
	b.creates = append(b.creates, req)
	return &Message{ID: "m1", WorkspaceID: req.WorkspaceID}, nil
}

func delta(text string) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"ops": []map[string]string{{"insert": text + "\n"}},
	})
	return data
}

func newTestComposer(backend *fakeBackend) (*Composer, *TextEditor, *recordingNotifier) {
	editor := NewTextEditor()
	backend.editor = editor
	notifier := &recordingNotifier{}
	target := Target{WorkspaceID: "w1", ChannelID: "c1"}
	return NewComposer(backend, editor, notifier, target), editor, notifier
}

func TestComposer_SendText(t *testing.T) {
	backend := &fakeBackend{}
	composer, editor, notifier := newTestComposer(backend)
	editor.InsertText(0, "hello")

	msg, err := composer.Send(context.Background(), delta("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)

	require.Len(t, backend.creates, 1)
	assert.Equal(t, "c1", *backend.creates[0].ChannelID)
	assert.Nil(t, backend.creates[0].Image)
	assert.Zero(t, backend.urlCalls)

	assert.Empty(t, notifier.errors)
	assert.Empty(t, editor.PlainText(), "editor is reset after success")
	assert.True(t, editor.Enabled())
	assert.True(t, editor.Focused())
}

func TestComposer_SendWithImage(t *testing.T) {
	backend := &fakeBackend{storageID: "upload-1"}
	composer, _, _ := newTestComposer(backend)

	_, err := composer.Send(context.Background(), delta(""), &Attachment{
		ContentType: "image/png",
		Data:        strings.NewReader("png"),
	})
	require.NoError(t, err)

	require.Len(t, backend.creates, 1)
	require.NotNil(t, backend.creates[0].Image)
	assert.Equal(t, "upload-1", *backend.creates[0].Image)
	assert.Equal(t, []bool{false}, backend.enabledWas, "editor disabled while sending")
}

func TestComposer_UploadFailureAbortsWithOneNotification(t *testing.T) {
	backend := &fakeBackend{uploadErr: &APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}}
	composer, editor, notifier := newTestComposer(backend)
	editor.InsertText(0, "keep me")

	_, err := composer.Send(context.Background(), delta("with picture"), &Attachment{
		ContentType: "image/png",
		Data:        strings.NewReader("png"),
	})

	require.Error(t, err)
	assert.Empty(t, backend.creates, "create message never fires")
	assert.Equal(t, []string{sendFailedMessage}, notifier.errors)
	assert.Equal(t, "keep me", editor.PlainText())
	assert.True(t, editor.Enabled())
}

func TestComposer_MissingStorageID(t *testing.T) {
	backend := &fakeBackend{}
	composer, _, notifier := newTestComposer(backend)

	_, err := composer.Send(context.Background(), delta("x"), &Attachment{
		ContentType: "image/png",
		Data:        strings.NewReader("png"),
	})

	assert.ErrorIs(t, err, ErrMissingStorage)
	assert.Empty(t, backend.creates)
	assert.Len(t, notifier.errors, 1)
}

func TestComposer_RejectsBlankBody(t *testing.T) {
	backend := &fakeBackend{}
	composer, _, notifier := newTestComposer(backend)

	_, err := composer.Send(context.Background(), delta("   "), nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, backend.creates)
	assert.Len(t, notifier.errors, 1)
}
