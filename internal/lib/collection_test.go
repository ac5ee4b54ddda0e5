package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testItem struct {
	id    string
	value int
}

func (t *testItem) ID() string {
	return t.id
}

func TestCollection(t *testing.T) {
	collection := NewCollection[*testItem]()
	require.NotNil(t, collection)

	collection.Store(&testItem{id: "testid", value: 1})

	item, ok := collection.Load("testid")
	require.True(t, ok)
	require.Equal(t, 1, item.value)

	collection.Store(&testItem{id: "testid", value: 2})
	item, _ = collection.Load("testid")
	require.Equal(t, 2, item.value)
	require.Equal(t, 1, collection.Len())

	collection.Delete("testid")

	item, ok = collection.Load("testid")
	require.False(t, ok)
	require.Nil(t, item)
}

func TestCollectionRangeStops(t *testing.T) {
	collection := NewCollection[*testItem]()
	collection.Store(&testItem{id: "a"})
	collection.Store(&testItem{id: "b"})
	collection.Store(&testItem{id: "c"})

	visited := 0
	collection.Range(func(item *testItem) bool {
		visited++
		return false
	})
	require.Equal(t, 1, visited)
}
