package world

// Размеры чанка — степени двойки, чтобы индексировать блоки битовыми масками.
// Чанк занимает всю высоту мира: вертикального разбиения на чанки нет.
const (
	ChunkBitsX = 4
	ChunkBitsY = 4
	ChunkBitsZ = 6

	ChunkDimX = 1 << ChunkBitsX // 16
	ChunkDimY = 1 << ChunkBitsY // 16
	ChunkDimZ = 1 << ChunkBitsZ // 64

	// Маски компонент внутри линейного индекса блока:
	// index = x | y<<ChunkBitsX | z<<(ChunkBitsX+ChunkBitsY)
	chunkMaskX = (ChunkDimX - 1)
	chunkMaskY = (ChunkDimY - 1) << ChunkBitsX
	chunkMaskZ = (ChunkDimZ - 1) << (ChunkBitsX + ChunkBitsY)

	BlocksPerZLayer = ChunkDimX * ChunkDimY
	BlocksPerChunk  = ChunkDimX * ChunkDimY * ChunkDimZ
)

// Параметры генерации по умолчанию
const (
	SeaLevel                = 20
	BaseElevation           = 30
	MaxDeviationFromBase    = 10
	ElevationNoiseScale     = 50.0
	DefaultActivationRange  = 80.0
	DefaultDeactivationOffs = 16.0
)

// RaycastStepsPerBlock — число фиксированных под-шагов рейкаста на один блок
const RaycastStepsPerBlock = 100
