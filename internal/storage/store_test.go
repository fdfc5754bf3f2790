package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelgame/internal/vec"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	coords := vec.Vec2{X: -4, Y: 17}
	payload := []byte("данные чанка")

	require.NoError(t, store.Save(coords, payload))

	loaded, err := store.Load(coords)
	require.NoError(t, err)
	require.Equal(t, payload, loaded)
}

func TestFileStoreMissingChunk(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Load(vec.Vec2{X: 1, Y: 2})
	require.NoError(t, err, "Отсутствие сохранения не ошибка")
	require.Nil(t, data)
}

func TestFileStoreFileNaming(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(vec.Vec2{X: -3, Y: 12}, []byte{1}))

	_, err = os.Stat(filepath.Join(dir, "Chunk_-3,12.chunk"))
	require.NoError(t, err, "Файл чанка должен называться Chunk_<x>,<y>.chunk")
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	coords := vec.Vec2{X: 100, Y: -200}
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	require.NoError(t, store.Save(coords, payload))

	loaded, err := store.Load(coords)
	require.NoError(t, err)
	require.Equal(t, payload, loaded, "Данные после сжатия и распаковки должны совпадать")
}

func TestBadgerStoreMissingChunk(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Load(vec.Vec2{X: 0, Y: 0})
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestBadgerStoreOverwrite(t *testing.T) {
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	coords := vec.Vec2{X: 1, Y: 1}
	require.NoError(t, store.Save(coords, []byte("первая версия")))
	require.NoError(t, store.Save(coords, []byte("вторая версия")))

	loaded, err := store.Load(coords)
	require.NoError(t, err)
	require.Equal(t, []byte("вторая версия"), loaded)
}
