package service

import (
	"testing"
	"time"

	"tmf-api/internal/model"

	"github.com/stretchr/testify/assert"
)

func sampleOrder() model.Resource {
	return model.Resource{
		"@type":              "ProductOrder",
		"id":                 "o-1",
		"state":              "acknowledged",
		"priority":           "4",
		"creationDate":       "2024-03-15T23:30:00.000Z",
		"completionDate":     nil,
		"requestedStartDate": "soon",
		"isBundle":           false,
		"tags":               []any{"a", "b"},
		"productOrderItem": []any{
			map[string]any{"id": "1", "action": "add", "quantity": float64(1)},
			map[string]any{"id": "2", "action": "modify", "quantity": float64(1.5)},
		},
		"orderTotalPrice": map[string]any{"value": float64(5), "unit": "EUR"},
	}
}

func TestMatcher_Matches(t *testing.T) {
	m := NewMatcher(time.UTC)

	cases := []struct {
		name        string
		constraints map[string]string
		want        bool
	}{
		{"no constraints", map[string]string{}, true},
		{"equal string", map[string]string{"state": "acknowledged"}, true},
		{"case insensitive", map[string]string{"state": "ACKNOWLEDGED"}, true},
		{"different string", map[string]string{"state": "completed"}, false},
		{"undefined path is ignored", map[string]string{"channel": "web"}, true},
		{"undefined nested path is ignored", map[string]string{"billingAccount.id": "b-1"}, true},
		{"null matches null", map[string]string{"completionDate": "null"}, true},
		{"null does not match a date", map[string]string{"completionDate": "2024-03-15"}, false},
		{"null does not match empty", map[string]string{"completionDate": ""}, false},
		{"array index", map[string]string{"productOrderItem.1.action": "modify"}, true},
		{"array index mismatch", map[string]string{"productOrderItem.0.action": "modify"}, false},
		{"array index out of range is ignored", map[string]string{"productOrderItem.5.action": "modify"}, true},
		{"number", map[string]string{"productOrderItem.0.quantity": "1"}, true},
		{"fractional number", map[string]string{"productOrderItem.1.quantity": "1.5"}, true},
		{"bool", map[string]string{"isBundle": "false"}, true},
		{"bool mismatch", map[string]string{"isBundle": "true"}, false},
		{"array joins with commas", map[string]string{"tags": "a,b"}, true},
		{"object compares as JSON", map[string]string{"orderTotalPrice": `{"unit":"EUR","value":5}`}, true},
		{"same calendar day", map[string]string{"creationDate": "2024-03-15"}, true},
		{"same day different time", map[string]string{"creationDate": "2024-03-15T01:00:00Z"}, true},
		{"other calendar day", map[string]string{"creationDate": "2024-03-16"}, false},
		{"unparsable date falls back to equality", map[string]string{"requestedStartDate": "SOON"}, true},
		{"all must match", map[string]string{"state": "acknowledged", "priority": "1"}, false},
		{"reserved keys are ignored", map[string]string{"fields": "nothing", "limit": "x"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Matches(sampleOrder(), tc.constraints))
		})
	}
}

func TestMatcher_CalendarDayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	m := NewMatcher(tokyo)
	order := sampleOrder()

	// 23:30 UTC on the 15th is the morning of the 16th in Tokyo.
	assert.True(t, m.Matches(order, map[string]string{"creationDate": "2024-03-16"}))
	assert.False(t, m.Matches(order, map[string]string{"creationDate": "2024-03-15"}))

	// Zone-less values are read in the matcher's location.
	assert.True(t, m.Matches(order, map[string]string{"creationDate": "2024-03-16T08:00:00"}))
}

func TestMatcher_LateEveningTimestamp(t *testing.T) {
	m := NewMatcher(time.UTC)
	r := model.Resource{"requestedStartDate": "2024-05-03T23:59:00Z"}

	assert.True(t, m.Matches(r, map[string]string{"requestedStartDate": "2024-05-03"}))
	assert.True(t, m.Matches(r, map[string]string{"requestedStartDate": "2024-05-03T00:00:01Z"}))
	assert.False(t, m.Matches(r, map[string]string{"requestedStartDate": "2024-05-04"}))
}

func TestMatcher_FilterIsSubset(t *testing.T) {
	m := NewMatcher(time.UTC)
	resources := []model.Resource{sampleOrder(), {"id": "o-2", "state": "completed"}}

	assert.Equal(t, resources, m.Filter(resources, map[string]string{}))
	assert.Len(t, m.Filter(resources, map[string]string{"state": "completed"}), 1)
}

func TestMatcher_Filter(t *testing.T) {
	m := NewMatcher(nil)
	resources := []model.Resource{
		{"id": "1", "state": "acknowledged"},
		{"id": "2", "state": "completed"},
		{"id": "3"},
		{"id": "4", "state": "Acknowledged"},
	}

	got := m.Filter(resources, map[string]string{"state": "acknowledged"})

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids)
}

func TestConstraints(t *testing.T) {
	got := Constraints(map[string][]string{
		"fields": {"name"},
		"limit":  {"10"},
		"offset": {"5"},
		"state":  {"completed", "cancelled"},
		"empty":  {},
	})

	assert.Equal(t, map[string]string{"state": "completed"}, got)
}
