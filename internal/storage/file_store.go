package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/voxelgame/internal/vec"
)

// FileStore хранит каждый чанк в отдельном файле каталога сохранений.
// Простой формат для одиночной игры и отладки: файлы можно смотреть и
// подменять руками.
type FileStore struct {
	dir string
}

// NewFileStore создаёт файловое хранилище чанков в указанном каталоге
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога сохранений: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// chunkFilePath возвращает путь файла чанка с указанными координатами
func (s *FileStore) chunkFilePath(coords vec.Vec2) string {
	return filepath.Join(s.dir, fmt.Sprintf("Chunk_%d,%d.chunk", coords.X, coords.Y))
}

// Load возвращает сохранённые данные чанка; (nil, nil), если файла нет
func (s *FileStore) Load(coords vec.Vec2) ([]byte, error) {
	data, err := os.ReadFile(s.chunkFilePath(coords))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("чтение файла чанка (%d,%d): %w", coords.X, coords.Y, err)
	}
	return data, nil
}

// Save записывает данные чанка в файл
func (s *FileStore) Save(coords vec.Vec2, data []byte) error {
	if err := os.WriteFile(s.chunkFilePath(coords), data, 0o644); err != nil {
		return fmt.Errorf("запись файла чанка (%d,%d): %w", coords.X, coords.Y, err)
	}
	return nil
}

// Close для файлового хранилища не делает ничего
func (s *FileStore) Close() error {
	return nil
}
