package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestListDefaultsMissingKeyToEmpty(t *testing.T) {
	items, err := List[item](Values{}, "reminders")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items, err = List[item](Values{"reminders": []byte("null")}, "reminders")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListRejectsMalformedValue(t *testing.T) {
	_, err := List[item](Values{"tasks": []byte(`{"name":"x"}`)}, "tasks")
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, Append(ctx, store, "tasks", item{Name: "first"}))
	require.NoError(t, Append(ctx, store, "tasks", item{Name: "second"}))

	items, err := Load[item](ctx, store, "tasks")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Name)
	assert.Equal(t, "second", items[1].Name)
	assert.Equal(t, []string{"tasks"}, store.Keys())
}

func TestMemoryGetOnlyReturnsPresentKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, Values{"a": []byte(`1`)}))

	values, err := store.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Contains(t, values, "a")
	assert.NotContains(t, values, "b")

	all, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemorySetRejectsInvalidJSON(t *testing.T) {
	store := NewMemory()
	err := store.Set(context.Background(), Values{"a": []byte(`{`)})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestMemorySetIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, Values{"tasks": []byte(`[]`)}))

	err := store.Set(ctx, Values{
		"tasks":     []byte(`[{"name":"kept out"}]`),
		"reminders": []byte(`[]`),
		"settings":  []byte(`{"theme":`),
	})
	require.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, []string{"tasks"}, store.Keys())
	all, err := store.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(all["tasks"]))
}

func TestObjectReportsPresence(t *testing.T) {
	var dst struct {
		Theme string `json:"theme"`
	}
	ok, err := Object(Values{}, "settings", &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Object(Values{"settings": []byte(`{"theme":"dark"}`)}, "settings", &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", dst.Theme)
}
