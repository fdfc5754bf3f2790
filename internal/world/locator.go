package world

import (
	"github.com/annel0/voxelgame/internal/vec"
)

// BlockLocator — дешёвый локатор блока: пара (чанк, индекс блока).
// Значимый тип без побочных эффектов; сравнение через == корректно.
// Локатор с nil-чанком — канонический "отсутствующий" локатор: любые
// чтения через него возвращают missingBlock, любые шаги — его же.
type BlockLocator struct {
	chunk *Chunk
	index int
}

// NewBlockLocator создаёт локатор для блока чанка
func NewBlockLocator(chunk *Chunk, index int) BlockLocator {
	return BlockLocator{chunk: chunk, index: index}
}

// MissingLocator возвращает канонический отсутствующий локатор
func MissingLocator() BlockLocator {
	return BlockLocator{}
}

// IsValid возвращает true, если локатор ссылается на активный чанк
func (l BlockLocator) IsValid() bool {
	return l.chunk != nil
}

// Chunk возвращает чанк локатора (nil для отсутствующего)
func (l BlockLocator) Chunk() *Chunk {
	return l.chunk
}

// Index возвращает линейный индекс блока внутри чанка
func (l BlockLocator) Index() int {
	return l.index
}

// Block возвращает блок по значению; для отсутствующего локатора —
// missingBlock (не твёрдый, не непрозрачный, без света)
func (l BlockLocator) Block() Block {
	if l.chunk == nil {
		return missingBlock
	}
	return l.chunk.blocks[l.index]
}

// blockRef возвращает указатель на блок для мутации, nil для отсутствующего
func (l BlockLocator) blockRef() *Block {
	if l.chunk == nil {
		return nil
	}
	return l.chunk.blockRef(l.index)
}

// ToEast возвращает локатор блока восточнее, прозрачно переходя в
// соседний чанк на границе
func (l BlockLocator) ToEast() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskX == chunkMaskX {
		return BlockLocator{chunk: l.chunk.east, index: l.index &^ chunkMaskX}
	}
	return BlockLocator{chunk: l.chunk, index: l.index + 1}
}

// ToWest возвращает локатор блока западнее
func (l BlockLocator) ToWest() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskX == 0 {
		return BlockLocator{chunk: l.chunk.west, index: l.index | chunkMaskX}
	}
	return BlockLocator{chunk: l.chunk, index: l.index - 1}
}

// ToNorth возвращает локатор блока севернее
func (l BlockLocator) ToNorth() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskY == chunkMaskY {
		return BlockLocator{chunk: l.chunk.north, index: l.index &^ chunkMaskY}
	}
	return BlockLocator{chunk: l.chunk, index: l.index + ChunkDimX}
}

// ToSouth возвращает локатор блока южнее
func (l BlockLocator) ToSouth() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskY == 0 {
		return BlockLocator{chunk: l.chunk.south, index: l.index | chunkMaskY}
	}
	return BlockLocator{chunk: l.chunk, index: l.index - ChunkDimX}
}

// ToAbove возвращает локатор блока выше; выше вершины мира чанков нет,
// поэтому шаг за границу даёт отсутствующий локатор
func (l BlockLocator) ToAbove() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskZ == chunkMaskZ {
		return BlockLocator{}
	}
	return BlockLocator{chunk: l.chunk, index: l.index + BlocksPerZLayer}
}

// ToBelow возвращает локатор блока ниже
func (l BlockLocator) ToBelow() BlockLocator {
	if l.chunk == nil {
		return l
	}
	if l.index&chunkMaskZ == 0 {
		return BlockLocator{}
	}
	return BlockLocator{chunk: l.chunk, index: l.index - BlocksPerZLayer}
}

// StepInDirection делает по одному шагу на каждую ненулевую компоненту
// направления. Используется для размещения блока по нормали грани.
func (l BlockLocator) StepInDirection(dir vec.Vec3) BlockLocator {
	result := l

	switch {
	case dir.X > 0:
		result = result.ToEast()
	case dir.X < 0:
		result = result.ToWest()
	}

	switch {
	case dir.Y > 0:
		result = result.ToNorth()
	case dir.Y < 0:
		result = result.ToSouth()
	}

	switch {
	case dir.Z > 0:
		result = result.ToAbove()
	case dir.Z < 0:
		result = result.ToBelow()
	}

	return result
}

// BlockCenterWorldPosition возвращает мировую позицию центра блока
func (l BlockLocator) BlockCenterWorldPosition() vec.Vec3Float {
	if l.chunk == nil {
		return vec.Vec3Float{}
	}

	local := BlockCoordsFromIndex(l.index)
	origin := l.chunk.OriginWorldPosition()
	return origin.Add(vec.FromVec3(local)).Add(vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5})
}
