package service

import (
	"context"
	"net/url"
	"strings"

	"tmf-api/internal/model"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentDeliveries は1イベントあたりの同時コールバック数の上限
const maxConcurrentDeliveries = 8

// Notifier はイベントをリスナーのコールバックに配信する
type Notifier interface {
	Notify(ctx context.Context, callback string, event model.Resource) error
}

// EventManagement はイベント・ハブ・トピックのサービス
// イベント保存時にクエリが一致するすべてのハブへ通知する
type EventManagement struct {
	events   *resourceServiceImpl
	hubs     *resourceServiceImpl
	topics   *resourceServiceImpl
	notifier Notifier
	deps     Deps
}

// NewEventManagement はイベント関連サービスを作成（notifierがnilなら配信しない）
func NewEventManagement(deps Deps, notifier Notifier) *EventManagement {
	deps = deps.withDefaults()
	m := &EventManagement{notifier: notifier, deps: deps}

	m.events = newResourceService(model.Event, deps, hooks{afterCreate: m.publish})
	m.hubs = newResourceService(model.Hub, deps, hooks{})
	m.topics = newResourceService(model.Topic, deps, hooks{})
	return m
}

// Events はEventサービスを返す
func (m *EventManagement) Events() ResourceService {
	return m.events
}

// Hubs はHubサービスを返す
func (m *EventManagement) Hubs() ResourceService {
	return m.hubs
}

// Topics はTopicサービスを返す
func (m *EventManagement) Topics() ResourceService {
	return m.topics
}

// ListenersFor はイベントに一致するハブ一覧を取得
func (m *EventManagement) ListenersFor(ctx context.Context, event model.Resource) ([]model.Resource, error) {
	hubs, err := m.hubs.collection.FindAll(ctx)
	if err != nil {
		return nil, translateStoreError(err, model.Hub, "")
	}

	var out []model.Resource
	for _, hub := range hubs {
		constraints, err := hubConstraints(hub.String(model.FieldQuery))
		if err != nil {
			m.deps.Logger.WarnContext(ctx, "ignoring hub with unparsable query",
				"hub_id", hub.ID(), "error", err)
			continue
		}
		if m.deps.Matcher.Matches(event, constraints) {
			out = append(out, hub)
		}
	}
	return out, nil
}

// publish は保存済みイベントを配信する（失敗はログとメトリクスのみ）
func (m *EventManagement) publish(ctx context.Context, event model.Resource) {
	if m.notifier == nil {
		return
	}

	listeners, err := m.ListenersFor(ctx, event)
	if err != nil {
		m.deps.Logger.ErrorContext(ctx, "failed to load hubs", "error", err)
		return
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentDeliveries)
	for _, hub := range listeners {
		callback := hub.String(model.FieldCallback)
		hubID := hub.ID()
		g.Go(func() error {
			if err := m.notifier.Notify(ctx, callback, event); err != nil {
				m.deps.Logger.WarnContext(ctx, "hub delivery failed",
					"hub_id", hubID, "callback", callback, "event_id", event.ID(), "error", err)
				m.deps.Metrics.ObserveHubDelivery("failed")
				return nil
			}
			m.deps.Metrics.ObserveHubDelivery("delivered")
			return nil
		})
	}
	_ = g.Wait()
}

func hubConstraints(query string) (map[string]string, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if query == "" {
		return map[string]string{}, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Constraints(values), nil
}
