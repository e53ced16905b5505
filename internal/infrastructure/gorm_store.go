package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tmf-api/internal/model"

	"gorm.io/gorm"
)

// ResourceRecord は保存されたドキュメント1件
// 全コレクションで同じテーブルを使い、Collection列で区別する
type ResourceRecord struct {
	Collection string    `gorm:"primaryKey;type:varchar(64)"`
	ID         string    `gorm:"primaryKey;type:varchar(128)"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName はテーブル名を固定
func (ResourceRecord) TableName() string {
	return "tmf_resources"
}

// GormStore はGORM経由でコレクションを永続化する（PostgreSQL/SQLite）
type GormStore struct {
	db *gorm.DB
}

// NewGormStore は接続済みのDBからストアを作成（事前にMigrateResourceSchemaが必要）
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Collection は指定されたコレクションを返す
func (s *GormStore) Collection(name string) Collection {
	return &gormCollection{db: s.db, name: name}
}

// Close はコネクションプールを閉じる
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

type gormCollection struct {
	db   *gorm.DB
	name string
}

func (c *gormCollection) Insert(ctx context.Context, record model.Resource) error {
	id := record.ID()
	if id == "" {
		return fmt.Errorf("insert into %s: record has no id", c.name)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", c.name, id, err)
	}

	row := &ResourceRecord{Collection: c.name, ID: id, Body: string(body)}
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("insert into %s: %w: %s", c.name, ErrDuplicate, id)
		}
		return fmt.Errorf("failed to insert %s %s: %w", c.name, id, err)
	}
	return nil
}

func (c *gormCollection) FindByID(ctx context.Context, id string) (model.Resource, error) {
	var row ResourceRecord
	err := c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", c.name, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find %s %s: %w", c.name, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", c.name, id, err)
	}
	return decodeRecord(&row)
}

func (c *gormCollection) FindAll(ctx context.Context) ([]model.Resource, error) {
	var rows []ResourceRecord
	err := c.db.WithContext(ctx).
		Where("collection = ?", c.name).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}

	out := make([]model.Resource, 0, len(rows))
	for i := range rows {
		record, err := decodeRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (c *gormCollection) Update(ctx context.Context, id string, record model.Resource) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", c.name, id, err)
	}

	result := c.db.WithContext(ctx).
		Model(&ResourceRecord{}).
		Where("collection = ? AND id = ?", c.name, id).
		Updates(map[string]any{"body": string(body), "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", c.name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s %s: %w", c.name, id, ErrNotFound)
	}
	return nil
}

func (c *gormCollection) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).
		Where("collection = ? AND id = ?", c.name, id).
		Delete(&ResourceRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %s: %w", c.name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s %s: %w", c.name, id, ErrNotFound)
	}
	return nil
}

func decodeRecord(row *ResourceRecord) (model.Resource, error) {
	var record model.Resource
	if err := json.Unmarshal([]byte(row.Body), &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", row.Collection, row.ID, err)
	}
	return record, nil
}
