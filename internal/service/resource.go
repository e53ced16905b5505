package service

import (
	"context"
	"log/slog"
	"time"

	"tmf-api/internal/infrastructure"
	"tmf-api/internal/metrics"
	"tmf-api/internal/model"
)

// ListQuery はコレクション取得の条件
type ListQuery struct {
	Constraints map[string]string
	Fields      []string
	// Limit が0の場合は全件を返す
	Limit  int
	Offset int
}

// ListResult はフィルタ・ページング済みの一覧
type ListResult struct {
	Items []*Projection
	// Total はページング前の一致件数
	Total int
}

// ResourceService は1種類のTMFリソースのCRUDサービス
type ResourceService interface {
	Kind() *model.Kind
	Create(ctx context.Context, raw model.Resource) (model.Resource, error)
	Get(ctx context.Context, id string) (model.Resource, error)
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	Update(ctx context.Context, id string, patch model.Resource) (model.Resource, error)
	Delete(ctx context.Context, id string) error
}

// Deps はすべてのリソースサービスが共有する依存関係
type Deps struct {
	Store      infrastructure.Store
	Normalizer *Normalizer
	Locator    Locator
	Matcher    *Matcher
	NewID      IDGenerator
	Now        func() time.Time
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

func (d Deps) withDefaults() Deps {
	if d.NewID == nil {
		d.NewID = NewUUID
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Matcher == nil {
		d.Matcher = NewMatcher(time.UTC)
	}
	if d.Normalizer == nil {
		d.Normalizer = NewNormalizer(d.Locator)
	}
	return d
}

// hooks はライフサイクルを持つサービスが汎用CRUDを拡張するためのフック
type hooks struct {
	// beforeCreate は正規化後、保存前に呼ばれる
	beforeCreate func(ctx context.Context, res model.Resource) error
	// afterCreate は保存後に呼ばれる（リクエストを失敗させない）
	afterCreate func(ctx context.Context, res model.Resource)
	// beforeUpdate はマージ・正規化後、保存前に呼ばれる
	beforeUpdate func(ctx context.Context, existing, patch, merged model.Resource) error
	// beforeDelete はエラーを返して削除を拒否できる
	beforeDelete func(ctx context.Context, existing model.Resource) error
}

// resourceServiceImpl はResourceServiceの汎用実装
type resourceServiceImpl struct {
	kind       *model.Kind
	collection infrastructure.Collection
	deps       Deps
	hooks      hooks
}

// NewResourceService は新しいリソースサービスを作成
func NewResourceService(kind *model.Kind, deps Deps) ResourceService {
	return newResourceService(kind, deps, hooks{})
}

func newResourceService(kind *model.Kind, deps Deps, h hooks) *resourceServiceImpl {
	deps = deps.withDefaults()
	return &resourceServiceImpl{
		kind:       kind,
		collection: deps.Store.Collection(kind.Name),
		deps:       deps,
		hooks:      h,
	}
}

func (s *resourceServiceImpl) Kind() *model.Kind {
	return s.kind
}

// Create はリソースを正規化して保存
func (s *resourceServiceImpl) Create(ctx context.Context, raw model.Resource) (model.Resource, error) {
	if err := s.checkRequired(raw); err != nil {
		return nil, err
	}

	res, err := s.deps.Normalizer.Normalize(raw, s.kind)
	if err != nil {
		return nil, err
	}

	id := raw.ID()
	if id == "" {
		id = s.deps.NewID()
	}
	res[model.FieldID] = id
	res[model.FieldHref] = s.deps.Locator.Href(s.kind.Path, id)

	now := model.FormatTime(s.deps.Now())
	if f := s.kind.CreatedField; f != "" && res.String(f) == "" {
		res[f] = now
	}
	if f := s.kind.UpdatedField; f != "" {
		res[f] = now
	}

	if s.hooks.beforeCreate != nil {
		if err := s.hooks.beforeCreate(ctx, res); err != nil {
			return nil, err
		}
	}

	if err := s.collection.Insert(ctx, res); err != nil {
		return nil, translateStoreError(err, s.kind, id)
	}
	s.deps.Metrics.ObserveWrite(s.kind.Name, "create")
	s.deps.Logger.DebugContext(ctx, "resource created", "kind", s.kind.Type, "id", id)

	if s.hooks.afterCreate != nil {
		s.hooks.afterCreate(ctx, res)
	}
	return res, nil
}

// Get はIDでリソースを取得
func (s *resourceServiceImpl) Get(ctx context.Context, id string) (model.Resource, error) {
	res, err := s.collection.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, s.kind, id)
	}
	return res, nil
}

// List はフィルタ・ページング・射影を適用した一覧を取得
func (s *resourceServiceImpl) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	all, err := s.collection.FindAll(ctx)
	if err != nil {
		return nil, translateStoreError(err, s.kind, "")
	}

	matched := s.deps.Matcher.Filter(all, q.Constraints)
	page := paginate(matched, q.Offset, q.Limit)

	items := make([]*Projection, 0, len(page))
	for _, r := range page {
		items = append(items, Project(r, q.Fields))
	}
	return &ListResult{Items: items, Total: len(matched)}, nil
}

// Update は既存リソースに部分更新をマージして再正規化
func (s *resourceServiceImpl) Update(ctx context.Context, id string, patch model.Resource) (model.Resource, error) {
	existing, err := s.collection.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, s.kind, id)
	}

	merged := existing.Clone()
	for k, v := range patch {
		merged[k] = model.CloneValue(v)
	}

	res, err := s.deps.Normalizer.Normalize(merged, s.kind)
	if err != nil {
		return nil, err
	}

	// 識別子と作成日時は常に保存済みレコードの値を使う
	res[model.FieldID] = existing[model.FieldID]
	res[model.FieldHref] = existing[model.FieldHref]
	if f := s.kind.CreatedField; f != "" {
		if v, ok := existing[f]; ok {
			res[f] = v
		} else {
			delete(res, f)
		}
	}
	if f := s.kind.UpdatedField; f != "" {
		res[f] = model.FormatTime(s.deps.Now())
	}

	if s.hooks.beforeUpdate != nil {
		if err := s.hooks.beforeUpdate(ctx, existing, patch, res); err != nil {
			return nil, err
		}
	}

	if err := s.collection.Update(ctx, id, res); err != nil {
		return nil, translateStoreError(err, s.kind, id)
	}
	s.deps.Metrics.ObserveWrite(s.kind.Name, "update")
	return res, nil
}

// Delete はリソースを削除
func (s *resourceServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.collection.FindByID(ctx, id)
	if err != nil {
		return translateStoreError(err, s.kind, id)
	}

	if s.hooks.beforeDelete != nil {
		if err := s.hooks.beforeDelete(ctx, existing); err != nil {
			return err
		}
	}

	if err := s.collection.Delete(ctx, id); err != nil {
		return translateStoreError(err, s.kind, id)
	}
	s.deps.Metrics.ObserveWrite(s.kind.Name, "delete")
	return nil
}

func (s *resourceServiceImpl) checkRequired(raw model.Resource) error {
	for _, f := range s.kind.Required {
		v, ok := raw[f]
		if !ok || v == nil {
			return validation(f, "%s is required for %s", f, s.kind.Type)
		}
		if str, isStr := v.(string); isStr && str == "" {
			return validation(f, "%s is required for %s", f, s.kind.Type)
		}
	}
	return nil
}

func paginate(items []model.Resource, offset, limit int) []model.Resource {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
