package world

import (
	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

// Chunk представляет участок мира 16x16 блоков в плане, занимающий
// всю высоту мира. Чанк владеет своим массивом блоков и мешем;
// ссылки на соседей невладеющие и поддерживаются World'ом.
type Chunk struct {
	coords vec.Vec2
	blocks [BlocksPerChunk]Block

	// Соседи по сторонам света; nil, если сосед не активен
	east, west, north, south *Chunk

	mesh        *Mesh
	meshBuilder MeshBuilder

	meshDirty bool // Меш не соответствует данным блоков
	diskDirty bool // Есть изменения, не записанные на диск
}

// NewChunk создаёт пустой чанк с указанными координатами.
// Меш помечен грязным: его ещё ни разу не строили.
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		coords:    coords,
		meshDirty: true,
	}
}

// Coords возвращает координаты чанка в сетке чанков
func (c *Chunk) Coords() vec.Vec2 {
	return c.coords
}

// BlockIndexFromCoords преобразует локальные координаты блока в линейный индекс
func BlockIndexFromCoords(coords vec.Vec3) int {
	return coords.X | coords.Y<<ChunkBitsX | coords.Z<<(ChunkBitsX+ChunkBitsY)
}

// BlockCoordsFromIndex преобразует линейный индекс блока в локальные координаты
func BlockCoordsFromIndex(index int) vec.Vec3 {
	return vec.Vec3{
		X: index & chunkMaskX,
		Y: (index & chunkMaskY) >> ChunkBitsX,
		Z: (index & chunkMaskZ) >> (ChunkBitsX + ChunkBitsY),
	}
}

// BlockAt возвращает копию блока по линейному индексу
func (c *Chunk) BlockAt(index int) Block {
	return c.blocks[index]
}

// blockRef возвращает указатель на блок для мутации на месте
func (c *Chunk) blockRef(index int) *Block {
	return &c.blocks[index]
}

// SetBlockType устанавливает тип блока по линейному индексу.
// Меш чанка становится грязным; если блок лежит на грани, грязным
// становится и меш соседа — его скрытые грани могли открыться.
func (c *Chunk) SetBlockType(index int, t *block.BlockType) {
	c.blocks[index].typeIndex = t.Index
	c.meshDirty = true

	coords := BlockCoordsFromIndex(index)
	if coords.X == ChunkDimX-1 && c.east != nil {
		c.east.meshDirty = true
	}
	if coords.X == 0 && c.west != nil {
		c.west.meshDirty = true
	}
	if coords.Y == ChunkDimY-1 && c.north != nil {
		c.north.meshDirty = true
	}
	if coords.Y == 0 && c.south != nil {
		c.south.meshDirty = true
	}
}

// SetBlockTypeAtCoords устанавливает тип блока по локальным координатам
func (c *Chunk) SetBlockTypeAtCoords(coords vec.Vec3, t *block.BlockType) {
	c.SetBlockType(BlockIndexFromCoords(coords), t)
}

// EastNeighbor возвращает восточного соседа (или nil)
func (c *Chunk) EastNeighbor() *Chunk { return c.east }

// WestNeighbor возвращает западного соседа (или nil)
func (c *Chunk) WestNeighbor() *Chunk { return c.west }

// NorthNeighbor возвращает северного соседа (или nil)
func (c *Chunk) NorthNeighbor() *Chunk { return c.north }

// SouthNeighbor возвращает южного соседа (или nil)
func (c *Chunk) SouthNeighbor() *Chunk { return c.south }

// SetEastNeighbor устанавливает восточного соседа.
// Симметричность связи поддерживает вызывающая сторона (World).
func (c *Chunk) SetEastNeighbor(n *Chunk) { c.east = n }

// SetWestNeighbor устанавливает западного соседа
func (c *Chunk) SetWestNeighbor(n *Chunk) { c.west = n }

// SetNorthNeighbor устанавливает северного соседа
func (c *Chunk) SetNorthNeighbor(n *Chunk) { c.north = n }

// SetSouthNeighbor устанавливает южного соседа
func (c *Chunk) SetSouthNeighbor(n *Chunk) { c.south = n }

// HasAllFourNeighbors возвращает true, если активны все 4 соседа
func (c *Chunk) HasAllFourNeighbors() bool {
	return c.east != nil && c.west != nil && c.north != nil && c.south != nil
}

// IsMeshDirty возвращает true, если меш требует перестройки
func (c *Chunk) IsMeshDirty() bool { return c.meshDirty }

// MarkMeshDirty помечает меш для перестройки
func (c *Chunk) MarkMeshDirty() { c.meshDirty = true }

// NeedsDiskWrite возвращает true, если чанк изменён и не сохранён
func (c *Chunk) NeedsDiskWrite() bool { return c.diskDirty }

// MarkDiskDirty помечает чанк для записи на диск
func (c *Chunk) MarkDiskDirty() { c.diskDirty = true }

// ClearDiskDirty снимает флаг записи (после успешного сохранения)
func (c *Chunk) ClearDiskDirty() { c.diskDirty = false }

// Mesh возвращает построенный меш чанка (nil до первого BuildMesh)
func (c *Chunk) Mesh() *Mesh { return c.mesh }

// OriginWorldPosition возвращает мировую позицию угла (0,0,0) чанка
func (c *Chunk) OriginWorldPosition() vec.Vec3Float {
	return vec.Vec3Float{
		X: float64(c.coords.X * ChunkDimX),
		Y: float64(c.coords.Y * ChunkDimY),
		Z: 0,
	}
}

// WorldXYCenter возвращает XY центр чанка в мировых координатах
func (c *Chunk) WorldXYCenter() vec.Vec2Float {
	return vec.Vec2Float{
		X: float64(c.coords.X*ChunkDimX) + 0.5*ChunkDimX,
		Y: float64(c.coords.Y*ChunkDimY) + 0.5*ChunkDimY,
	}
}

// ContainsWorldPosition проверяет, лежит ли мировая позиция внутри чанка
func (c *Chunk) ContainsWorldPosition(pos vec.Vec3Float) bool {
	origin := c.OriginWorldPosition()
	return pos.X >= origin.X && pos.X < origin.X+ChunkDimX &&
		pos.Y >= origin.Y && pos.Y < origin.Y+ChunkDimY &&
		pos.Z >= 0 && pos.Z < ChunkDimZ
}

// BlockLocatorForWorldPosition возвращает локатор блока, содержащего
// мировую позицию, либо отсутствующий локатор, если позиция вне чанка
func (c *Chunk) BlockLocatorForWorldPosition(pos vec.Vec3Float) BlockLocator {
	if !c.ContainsWorldPosition(pos) {
		return BlockLocator{}
	}

	local := pos.Sub(c.OriginWorldPosition()).Floor()
	return BlockLocator{chunk: c, index: BlockIndexFromCoords(local)}
}

// updateSkyFlagsForBlock пересчитывает флаги неба в колонке блока после
// изменения его типа. Установка непрозрачного блока под небом гасит
// флаг вниз по колонке; удаление — продлевает небо вниз до первого
// непрозрачного. Значения света чинит каскад пересчёта освещения.
func (c *Chunk) updateSkyFlagsForBlock(index int) {
	b := c.blockRef(index)

	if b.IsFullyOpaque() {
		wasPreviouslySky := b.IsPartOfSky()
		b.SetIsPartOfSky(false)

		if wasPreviouslySky {
			for below := index - BlocksPerZLayer; below >= 0; below -= BlocksPerZLayer {
				belowBlock := c.blockRef(below)
				if belowBlock.IsFullyOpaque() {
					break
				}
				belowBlock.SetIsPartOfSky(false)
			}
		}
		return
	}

	// Блок стал прозрачным: если над ним небо (или он на вершине мира),
	// колонка ниже тоже открывается небу
	above := index + BlocksPerZLayer
	isOpenAbove := above >= BlocksPerChunk || c.blocks[above].IsPartOfSky()
	if !isOpenAbove {
		return
	}

	b.SetIsPartOfSky(true)
	for below := index - BlocksPerZLayer; below >= 0; below -= BlocksPerZLayer {
		belowBlock := c.blockRef(below)
		if belowBlock.IsFullyOpaque() {
			break
		}
		belowBlock.SetIsPartOfSky(true)
	}
}
