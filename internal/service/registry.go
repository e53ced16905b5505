package service

import "tmf-api/internal/model"

// Services はリソース種別ごとのサービスをまとめる
type Services struct {
	Lifecycle *OrderLifecycle
	Events    *EventManagement

	all    []ResourceService
	byName map[string]ResourceService
}

// NewServices は共通の依存関係ですべてのサービスを作成
func NewServices(deps Deps, notifier Notifier) *Services {
	deps = deps.withDefaults()

	lifecycle := NewOrderLifecycle(deps)
	events := NewEventManagement(deps, notifier)

	all := []ResourceService{
		lifecycle.Orders(),
		lifecycle.Cancellations(),
	}
	for _, kind := range []*model.Kind{
		model.Catalog,
		model.Category,
		model.ProductOffering,
		model.ProductOfferingPrice,
		model.ProductSpecification,
		model.Product,
	} {
		all = append(all, NewResourceService(kind, deps))
	}
	all = append(all, events.Events(), events.Hubs(), events.Topics())

	byName := make(map[string]ResourceService, len(all))
	for _, svc := range all {
		byName[svc.Kind().Name] = svc
	}

	return &Services{
		Lifecycle: lifecycle,
		Events:    events,
		all:       all,
		byName:    byName,
	}
}

// All は登録順のサービス一覧を返す
func (s *Services) All() []ResourceService {
	return s.all
}

// ByName はコレクション名でサービスを取得
func (s *Services) ByName(name string) (ResourceService, bool) {
	svc, ok := s.byName[name]
	return svc, ok
}
