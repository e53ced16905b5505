package infrastructure

import (
	"context"
	"errors"

	"tmf-api/internal/model"
)

var (
	// ErrNotFound は指定IDのレコードが存在しない
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate は既存IDのレコードを挿入しようとした
	ErrDuplicate = errors.New("duplicate record id")
)

// Collection はストアが提供するドキュメント単位のインターフェース
// レコードは "id" フィールドをキーとする
type Collection interface {
	Insert(ctx context.Context, record model.Resource) error
	FindByID(ctx context.Context, id string) (model.Resource, error)
	FindAll(ctx context.Context) ([]model.Resource, error)
	Update(ctx context.Context, id string, record model.Resource) error
	Delete(ctx context.Context, id string) error
}

// Store はリソース種別ごとに独立したコレクションを提供する
type Store interface {
	Collection(name string) Collection
	Close() error
}
