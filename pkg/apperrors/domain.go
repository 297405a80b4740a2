package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories (wrap repository errors)
// =========================================================================

// ErrNotFound wraps a lookup miss (404).
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists wraps a unique violation (409).
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations that make no sense in the current state.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Predefined errors
// =========================================================================

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken covers access, refresh and upload tokens.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrTooManyRequests = New(
	CodeRateLimited,
	"auth",
	"Too many requests",
	http.StatusTooManyRequests,
)

// --- Workspaces & members ---

var ErrWorkspaceNotFound = New(
	CodeNotFound,
	"workspace",
	"Workspace not found",
	http.StatusNotFound,
)

// ErrNotWorkspaceMember is returned when the caller has no member row in the workspace.
var ErrNotWorkspaceMember = New(
	CodeForbidden,
	"workspace",
	"You are not a member of this workspace",
	http.StatusForbidden,
)

var ErrAdminRequired = New(
	CodeForbidden,
	"workspace",
	"Only workspace admins can perform this action",
	http.StatusForbidden,
)

var ErrInvalidJoinCode = New(
	CodeValidationFailed,
	"workspace",
	"Invalid join code",
	http.StatusBadRequest,
)

var ErrAlreadyMember = New(
	CodeConflict,
	"workspace",
	"Already a member of this workspace",
	http.StatusConflict,
)

var ErrMemberNotFound = New(
	CodeNotFound,
	"member",
	"Member not found",
	http.StatusNotFound,
)

// ErrAdminCannotBeRemoved blocks removing an admin, including an admin leaving.
var ErrAdminCannotBeRemoved = New(
	CodeInvalidOperation,
	"member",
	"Admins cannot be removed",
	http.StatusBadRequest,
)

// --- Channels & conversations ---

var ErrChannelNotFound = New(
	CodeNotFound,
	"channel",
	"Channel not found",
	http.StatusNotFound,
)

var ErrChannelNameTaken = New(
	CodeAlreadyExists,
	"channel",
	"A channel with this name already exists",
	http.StatusConflict,
)

var ErrConversationNotFound = New(
	CodeNotFound,
	"conversation",
	"Conversation not found",
	http.StatusNotFound,
)

// --- Messages ---

var ErrMessageNotFound = New(
	CodeNotFound,
	"message",
	"Message not found",
	http.StatusNotFound,
)

var ErrNotMessageAuthor = New(
	CodeForbidden,
	"message",
	"Only the author can change this message",
	http.StatusForbidden,
)

var ErrEmptyMessage = New(
	CodeValidationFailed,
	"message",
	"Message must have text or an image",
	http.StatusBadRequest,
)

// ErrMissingTarget is returned when a message names neither a channel, a conversation nor a parent.
var ErrMissingTarget = New(
	CodeValidationFailed,
	"message",
	"Message needs a channel, a conversation or a parent message",
	http.StatusBadRequest,
)

// --- Uploads & files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrUploadNotFound = New(
	CodeNotFound,
	"upload",
	"Upload not found",
	http.StatusNotFound,
)

var ErrUploadNotOwned = New(
	CodeForbidden,
	"upload",
	"The upload belongs to another user",
	http.StatusForbidden,
)

// --- Requests ---

var ErrInvalidBody = New(
	CodeValidationFailed,
	"message",
	"Body must be a rich-text document",
	http.StatusBadRequest,
)

var ErrInvalidCursor = New(
	CodeValidationFailed,
	"pagination",
	"Invalid cursor",
	http.StatusBadRequest,
)
