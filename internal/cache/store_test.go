package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, s, "stats", payload{Name: "x", Count: 3}))
	var got payload
	ok, err = LoadJSON(ctx, s, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)

	require.NoError(t, s.Save(ctx, "stats", []byte(`{"name":"y"}`)))
	ok, err = LoadJSON(ctx, s, "stats", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", got.Name)
}

func TestMemoryStore(t *testing.T) {
	s, err := NewMemoryStore(4)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(0)
	require.NoError(t, err)

	value := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", value))
	value[0] = 'z'

	got, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreEvicts(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(1)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "a", []byte("1")))
	require.NoError(t, s.Save(ctx, "b", []byte("2")))

	_, ok, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewFileStore(dir)
	exerciseStore(t, s)

	assert.FileExists(t, filepath.Join(dir, "stats.json"))
	assert.NoFileExists(t, filepath.Join(dir, "stats.json.tmp"))
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		_, _, err := s.Load(context.Background(), key)
		assert.Error(t, err, key)
		assert.Error(t, s.Save(context.Background(), key, []byte("x")), key)
	}
}

func TestLoadJSONReportsCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Save(ctx, "broken", []byte("{not json")))

	var got payload
	ok, err := LoadJSON(ctx, s, "broken", &got)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	prefix := "bundle-evaluator-test-" + time.Now().Format("150405.000000")
	exerciseStore(t, NewRedisStore(client, prefix, time.Minute))
	client.Del(context.Background(), prefix+":stats")
}
