package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/voxelgame/internal/vec"
)

// BadgerStore хранит чанки в embedded key-value базе BadgerDB.
// Значения дополнительно жмутся zstd: RLE-поток чанка с однородным
// ландшафтом сжимается ещё в несколько раз.
type BadgerStore struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewBadgerStore открывает (или создаёт) базу чанков в указанном каталоге
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("открытие базы чанков: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("инициализация компрессора: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("инициализация декомпрессора: %w", err)
	}

	return &BadgerStore{db: db, encoder: encoder, decoder: decoder}, nil
}

// chunkKey возвращает ключ чанка в базе
func chunkKey(coords vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", coords.X, coords.Y))
}

// Load возвращает сохранённые данные чанка; (nil, nil), если записи нет
func (s *BadgerStore) Load(coords vec.Vec2) ([]byte, error) {
	var compressed []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение чанка (%d,%d) из базы: %w", coords.X, coords.Y, err)
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("распаковка чанка (%d,%d): %w", coords.X, coords.Y, err)
	}
	return data, nil
}

// Save записывает данные чанка в базу
func (s *BadgerStore) Save(coords vec.Vec2, data []byte) error {
	compressed := s.encoder.EncodeAll(data, nil)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(coords), compressed)
	})
	if err != nil {
		return fmt.Errorf("запись чанка (%d,%d) в базу: %w", coords.X, coords.Y, err)
	}
	return nil
}

// Close закрывает базу и освобождает компрессоры
func (s *BadgerStore) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}
