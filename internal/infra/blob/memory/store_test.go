package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcore/internal/blob/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()
	assert.Equal(t, core.DriverMemory, store.Driver())

	meta := map[string]string{"a": "1"}
	_, err := store.Put(ctx, "x/1.json", strings.NewReader("one"), core.PutOptions{Metadata: meta})
	require.NoError(t, err)
	meta["a"] = "mutated"

	_, err = store.Put(ctx, "x/1.json", strings.NewReader("two"), core.PutOptions{Metadata: map[string]string{"a": "2"}})
	require.NoError(t, err)
	_, err = store.Put(ctx, "y/1.json", strings.NewReader("three"), core.PutOptions{})
	require.NoError(t, err)

	info, rc, err := store.Get(ctx, "x/1.json")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
	assert.Equal(t, "2", info.Metadata["a"])
	assert.Equal(t, int64(3), info.Size)

	infos, err := store.List(ctx, "x/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "x/1.json", infos[0].Key)
}

func TestMemoryStoreErrors(t *testing.T) {
	store := New()
	_, _, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = store.Put(context.Background(), "", strings.NewReader(""), core.PutOptions{})
	require.ErrorIs(t, err, core.ErrInvalidKey)
}
