package errprocess

import (
	"errors"

	"aora_backend/pkg/logger"
)

// Kind 錯誤分類，每個 façade 操作族群一種
type Kind string

const (
	// KindRegistration register user failed
	KindRegistration Kind = "registration"
	// KindAuth sign in / session / sign out failed
	KindAuth Kind = "auth"
	// KindUpload file upload failed
	KindUpload Kind = "upload"
	// KindPostCreation create video post failed
	KindPostCreation Kind = "post_creation"
	// KindQuery post query failed
	KindQuery Kind = "query"
	// KindDeletion delete post failed
	KindDeletion Kind = "deletion"
)

// Error wraps a remote failure with its taxonomy kind.
// 沒有訊息時使用 fallback 當作人類可讀的說明
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap expose the remote failure for errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.cause
}

// Set log the failure and return it tagged with the matching kind.
// cause 為 nil 或沒有訊息時改用 fallback
func Set(kind Kind, cause error, fallback string) error {
	msg := fallback
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	logger.Log.Error("[" + string(kind) + "] " + msg)
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

// KindOf return the taxonomy kind carried by err, or "" for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
