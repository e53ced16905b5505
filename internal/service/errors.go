package service

import (
	"errors"
	"fmt"

	"tmf-api/internal/infrastructure"
	"tmf-api/internal/model"
)

// エラー種別（ハンドラーはerrors.IsでHTTPステータスに変換する）
var (
	ErrNotFound   = errors.New("NotFound")
	ErrConflict   = errors.New("Conflict")
	ErrValidation = errors.New("ValidationError")
)

// Error は呼び出し元に返せるエラー
type Error struct {
	Kind    error
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(kind *model.Kind, id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s with id %s not found", kind.Type, id)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func validation(field, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...), Field: field}
}

// translateStoreError はストアのエラーを呼び出し元向けエラーに変換
// それ以外はラップして返し、内部エラーとして扱われる
func translateStoreError(err error, kind *model.Kind, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, infrastructure.ErrNotFound):
		return notFound(kind, id)
	case errors.Is(err, infrastructure.ErrDuplicate):
		return conflict("%s with id %s already exists", kind.Type, id)
	default:
		return fmt.Errorf("%s store operation failed: %w", kind.Name, err)
	}
}
