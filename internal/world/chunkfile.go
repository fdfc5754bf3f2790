package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxelgame/internal/world/block"
)

// Формат файла чанка: 12-байтовый заголовок, затем RLE-поток пар
// (индекс типа, длина серии) в порядке линейного индекса блоков
// (X быстрее всего, затем Y, затем Z).
const (
	chunkFileMagic = "SMCD"

	// ChunkFileVersion — версия формата; файлы других версий отклоняются
	ChunkFileVersion = 1

	// chunkFormatRLE — единственный поддерживаемый тег сжатия
	chunkFormatRLE = 'R'

	chunkHeaderSize = 12
)

// ErrInvalidFormat возвращается, когда данные чанка не проходят проверку
// заголовка или RLE-инварианта. Ошибка восстановимая: вызывающая сторона
// переходит к процедурной генерации.
var ErrInvalidFormat = errors.New("некорректный формат данных чанка")

// EncodeRLE сериализует блоки чанка в формат файла чанка.
// Серии длиннее 255 разбиваются на несколько пар.
func (c *Chunk) EncodeRLE() []byte {
	buf := make([]byte, chunkHeaderSize, chunkHeaderSize+4096)

	copy(buf[0:4], chunkFileMagic)
	buf[4] = ChunkFileVersion
	buf[5] = ChunkBitsX
	buf[6] = ChunkBitsY
	buf[7] = ChunkBitsZ
	// buf[8..11): 3 зарезервированных нулевых байта + тег формата
	buf[11] = chunkFormatRLE

	runType := uint8(c.blocks[0].typeIndex)
	runCount := uint8(0)

	for index := 0; index < BlocksPerChunk; index++ {
		currType := uint8(c.blocks[index].typeIndex)

		if currType != runType {
			buf = append(buf, runType, runCount)
			runType = currType
			runCount = 1
			continue
		}

		if runCount == 0xFF {
			buf = append(buf, runType, runCount)
			runCount = 0
		}
		runCount++
	}

	buf = append(buf, runType, runCount)
	return buf
}

// DecodeRLE восстанавливает блоки чанка из сериализованных данных.
// Заголовок и сумма длин серий проверяются целиком до того, как данные
// блоков начнут применяться; любое расхождение — ErrInvalidFormat.
// Повреждённые и усечённые данные не приводят к панике.
func (c *Chunk) DecodeRLE(data []byte) error {
	if len(data) < chunkHeaderSize {
		return fmt.Errorf("%w: %d байт меньше заголовка", ErrInvalidFormat, len(data))
	}

	if string(data[0:4]) != chunkFileMagic {
		return fmt.Errorf("%w: ожидался код %q", ErrInvalidFormat, chunkFileMagic)
	}

	if data[4] != ChunkFileVersion {
		return fmt.Errorf("%w: версия файла %d, поддерживается %d", ErrInvalidFormat, data[4], ChunkFileVersion)
	}

	if data[5] != ChunkBitsX || data[6] != ChunkBitsY || data[7] != ChunkBitsZ {
		return fmt.Errorf("%w: размерности чанка %d/%d/%d не совпадают с %d/%d/%d",
			ErrInvalidFormat, data[5], data[6], data[7], ChunkBitsX, ChunkBitsY, ChunkBitsZ)
	}

	if data[11] != chunkFormatRLE {
		return fmt.Errorf("%w: неизвестный тег сжатия %q", ErrInvalidFormat, data[11])
	}

	body := data[chunkHeaderSize:]
	if len(body)%2 != 0 {
		return fmt.Errorf("%w: нечётная длина RLE-потока", ErrInvalidFormat)
	}

	// Сначала сверяем сумму серий с количеством блоков
	totalBlocks := 0
	for i := 0; i < len(body); i += 2 {
		totalBlocks += int(body[i+1])
	}
	if totalBlocks != BlocksPerChunk {
		return fmt.Errorf("%w: серии описывают %d блоков вместо %d", ErrInvalidFormat, totalBlocks, BlocksPerChunk)
	}

	// Данные корректны — применяем
	index := 0
	for i := 0; i < len(body); i += 2 {
		runType := body[i]
		runCount := int(body[i+1])

		t := blockTypeForRun(runType)
		for n := 0; n < runCount; n++ {
			c.blocks[index].typeIndex = t
			index++
		}
	}

	return nil
}

// blockTypeForRun возвращает индекс типа для серии; незарегистрированные
// индексы вырождаются в воздух, а не роняют загрузку
func blockTypeForRun(idx uint8) block.TypeIndex {
	if _, ok := block.GetByIndex(block.TypeIndex(idx)); ok {
		return block.TypeIndex(idx)
	}
	return block.AirIndex
}
