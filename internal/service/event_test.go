package service

import (
	"context"
	"testing"

	"tmf-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderCreateEvent() model.Resource {
	return model.Resource{
		"eventType": "ProductOrderCreateEvent",
		"event": map[string]any{
			"productOrder": map[string]any{"id": "o-1", "state": "acknowledged"},
		},
	}
}

func TestEventManagement_CreateEvent(t *testing.T) {
	deps, _ := newTestDeps(t)
	events := NewEventManagement(deps, nil)

	event := mustCreate(t, events.Events(), orderCreateEvent())

	assert.Equal(t, model.TypeEvent, event.Type())
	assert.Equal(t, "2024-03-15T10:30:00.000Z", event["eventTime"])
	assert.Equal(t, "Normal", event["priority"])
}

func TestEventManagement_ListenersFor(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	events := NewEventManagement(deps, nil)

	mustCreate(t, events.Hubs(), model.Resource{"id": "all", "callback": "http://all"})
	mustCreate(t, events.Hubs(), model.Resource{"id": "orders", "callback": "http://orders", "query": "eventType=ProductOrderCreateEvent"})
	mustCreate(t, events.Hubs(), model.Resource{"id": "nested", "callback": "http://nested", "query": "?event.productOrder.state=ACKNOWLEDGED"})
	mustCreate(t, events.Hubs(), model.Resource{"id": "other", "callback": "http://other", "query": "eventType=ProductOrderDeleteEvent"})
	mustCreate(t, events.Hubs(), model.Resource{"id": "broken", "callback": "http://broken", "query": "eventType=%zz"})

	listeners, err := events.ListenersFor(ctx, orderCreateEvent())
	require.NoError(t, err)

	ids := make([]string, 0, len(listeners))
	for _, hub := range listeners {
		ids = append(ids, hub.ID())
	}
	assert.Equal(t, []string{"all", "orders", "nested"}, ids)
}

func TestEventManagement_PublishesToMatchingHubs(t *testing.T) {
	deps, _ := newTestDeps(t)
	notifier := newFakeNotifier()
	events := NewEventManagement(deps, notifier)

	mustCreate(t, events.Hubs(), model.Resource{"callback": "http://orders", "query": "eventType=ProductOrderCreateEvent"})
	mustCreate(t, events.Hubs(), model.Resource{"callback": "http://other", "query": "eventType=ProductOrderDeleteEvent"})

	event := mustCreate(t, events.Events(), orderCreateEvent())

	assert.Equal(t, 1, notifier.count("http://orders"))
	assert.Equal(t, 0, notifier.count("http://other"))
	assert.Equal(t, event.ID(), notifier.delivered["http://orders"][0].ID())
}

func TestEventManagement_DeliveryFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	notifier := newFakeNotifier()
	notifier.failFor["http://down"] = true
	events := NewEventManagement(deps, notifier)

	mustCreate(t, events.Hubs(), model.Resource{"callback": "http://down"})
	mustCreate(t, events.Hubs(), model.Resource{"callback": "http://up"})

	event, err := events.Events().Create(ctx, orderCreateEvent())
	require.NoError(t, err)

	_, err = events.Events().Get(ctx, event.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count("http://up"))
}

func TestHubConstraints(t *testing.T) {
	got, err := hubConstraints(" ?eventType=A&fields=x&state=b&state=c ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"eventType": "A", "state": "b"}, got)

	empty, err := hubConstraints("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = hubConstraints("a=%zz")
	assert.Error(t, err)
}

func TestNewServices(t *testing.T) {
	deps, _ := newTestDeps(t)
	services := NewServices(deps, nil)

	kinds := model.Kinds()
	require.Len(t, services.All(), len(kinds))
	for i, svc := range services.All() {
		assert.Same(t, kinds[i], svc.Kind())

		byName, ok := services.ByName(kinds[i].Name)
		require.True(t, ok)
		assert.Same(t, svc.Kind(), byName.Kind())
	}

	_, ok := services.ByName("customer")
	assert.False(t, ok)
}

func TestNewServices_SharesOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	services := NewServices(deps, nil)

	orders, _ := services.ByName(model.ProductOrder.Name)
	cancels, _ := services.ByName(model.CancelProductOrder.Name)

	order := mustCreate(t, orders, model.Resource{})
	mustCreate(t, cancels, model.Resource{"productOrder": map[string]any{"id": order.ID()}})

	stored, err := services.Lifecycle.Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, model.OrderStateCancelled, stored["state"])
}
