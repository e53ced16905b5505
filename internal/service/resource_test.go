package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tmf-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_CreateAssignsIdentity(t *testing.T) {
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Catalog, deps)

	generated := mustCreate(t, svc, model.Resource{"name": "Consumer"})
	assert.Equal(t, "id-1", generated.ID())
	assert.Equal(t, testHref("productCatalogManagement/v4/catalog", "id-1"), generated.Href())
	assert.Equal(t, "2024-03-15T10:30:00.000Z", generated["lastUpdate"])

	supplied := mustCreate(t, svc, model.Resource{"id": "cat-9", "href": "http://elsewhere/cat-9"})
	assert.Equal(t, "cat-9", supplied.ID())
	assert.Equal(t, testHref("productCatalogManagement/v4/catalog", "cat-9"), supplied.Href())
}

func TestResourceService_CreateKeepsCallerCreationTime(t *testing.T) {
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Product, deps)

	stamped := mustCreate(t, svc, model.Resource{})
	assert.Equal(t, "2024-03-15T10:30:00.000Z", stamped["creationDate"])

	given := mustCreate(t, svc, model.Resource{"creationDate": "2023-01-01T00:00:00.000Z"})
	assert.Equal(t, "2023-01-01T00:00:00.000Z", given["creationDate"])
}

func TestResourceService_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Category, deps)

	mustCreate(t, svc, model.Resource{"id": "c1"})

	_, err := svc.Create(ctx, model.Resource{"id": "c1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestResourceService_CreateRequiresFields(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)

	cases := []struct {
		kind  *model.Kind
		raw   model.Resource
		field string
	}{
		{model.Event, model.Resource{"eventType": "X"}, "event"},
		{model.Event, model.Resource{"event": nil}, "event"},
		{model.Hub, model.Resource{"callback": ""}, "callback"},
	}

	for _, tc := range cases {
		t.Run(tc.kind.Name+"/"+tc.field, func(t *testing.T) {
			_, err := NewResourceService(tc.kind, deps).Create(ctx, tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var svcErr *Error
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, tc.field, svcErr.Field)
		})
	}
}

func TestResourceService_Get(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.ProductSpecification, deps)
	created := mustCreate(t, svc, model.Resource{"name": "Router"})

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResourceService_ReturnedResourceIsDetached(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Catalog, deps)
	created := mustCreate(t, svc, model.Resource{"name": "Original"})

	created["name"] = "Mutated"

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Original", got["name"])
}

func TestResourceService_List(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.ProductOffering, deps)

	for i := 1; i <= 5; i++ {
		status := "Active"
		if i%2 == 0 {
			status = "Retired"
		}
		mustCreate(t, svc, model.Resource{
			"id":              fmt.Sprintf("po-%d", i),
			"name":            fmt.Sprintf("Offer %d", i),
			"lifecycleStatus": status,
		})
	}

	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)
	assert.Len(t, all.Items, 5)

	active, err := svc.List(ctx, ListQuery{Constraints: map[string]string{"lifecycleStatus": "active"}})
	require.NoError(t, err)
	assert.Equal(t, 3, active.Total)

	page, err := svc.List(ctx, ListQuery{Limit: 2, Offset: 1, Fields: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, []string{"@type", "id", "href", "name"}, page.Items[0].Keys())
	assert.Equal(t, "po-2", page.Items[0].Map().ID())
	assert.Equal(t, "po-3", page.Items[1].Map().ID())

	beyond, err := svc.List(ctx, ListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, beyond.Total)
	assert.Empty(t, beyond.Items)
}

func TestResourceService_Update(t *testing.T) {
	ctx := context.Background()
	deps, clock := newTestDeps(t)
	svc := NewResourceService(model.Catalog, deps)
	created := mustCreate(t, svc, model.Resource{"name": "Consumer", "description": "B2C"})

	later := testNow.Add(time.Minute)
	clock.Set(later)
	updated, err := svc.Update(ctx, created.ID(), model.Resource{
		"name":     "Consumer 2024",
		"category": []any{map[string]any{"id": "c1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Consumer 2024", updated["name"])
	assert.Equal(t, "B2C", updated["description"], "unpatched fields are kept")
	assert.Equal(t, model.FormatTime(later), updated["lastUpdate"])
	ref := updated["category"].([]any)[0].(map[string]any)
	assert.Equal(t, "CategoryRef", ref["@type"], "patched values are normalized")

	stored, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestResourceService_UpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Catalog, deps)
	created := mustCreate(t, svc, model.Resource{"name": "Consumer"})

	_, err := svc.Update(ctx, created.ID(), model.Resource{"category": "c1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	stored, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, []any{}, stored["category"])
}

func TestResourceService_MissingIDs(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Topic, deps)

	_, err := svc.Update(ctx, "nope", model.Resource{"name": "x"})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = svc.Delete(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResourceService_Delete(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	svc := NewResourceService(model.Topic, deps)
	created := mustCreate(t, svc, model.Resource{"name": "orders"})

	require.NoError(t, svc.Delete(ctx, created.ID()))

	_, err := svc.Get(ctx, created.ID())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPaginate(t *testing.T) {
	items := []model.Resource{{"id": "1"}, {"id": "2"}, {"id": "3"}}

	assert.Len(t, paginate(items, 0, 0), 3)
	assert.Len(t, paginate(items, 1, 0), 2)
	assert.Len(t, paginate(items, 1, 1), 1)
	assert.Len(t, paginate(items, -1, 10), 3)
	assert.Empty(t, paginate(items, 3, 0))
}
