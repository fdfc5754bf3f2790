package world

import (
	"math"

	"github.com/annel0/voxelgame/internal/util"
	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

// Generator генерирует ландшафт мира по шуму Перлина.
// Результат — чистая функция координат чанка и параметров генерации:
// скрытого случайного состояния нет, один и тот же чанк при одном сиде
// всегда получается одинаковым.
type Generator struct {
	seed  int64
	noise *util.NoiseGenerator

	BaseElevation int     // Базовая высота рельефа
	MaxDeviation  int     // Максимальное отклонение от базовой высоты
	SeaLevel      int     // Уровень моря
	NoiseScale    float64 // Масштаб шума высот (в блоках)
}

// NewGenerator создаёт генератор мира с указанным сидом
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:          seed,
		noise:         util.NewNoiseGenerator(seed),
		BaseElevation: BaseElevation,
		MaxDeviation:  MaxDeviationFromBase,
		SeaLevel:      SeaLevel,
		NoiseScale:    ElevationNoiseScale,
	}
}

// Populate заполняет чанк блоками по шуму Перлина.
// Высота колонки берётся из шума в XY-центре блока; колонка
// раскладывается на траву/землю/камень над уровнем моря и
// воду/землю/камень под ним.
func (g *Generator) Populate(c *Chunk) {
	grassType, _ := block.GetByName("Grass")
	dirtType, _ := block.GetByName("Dirt")
	stoneType, _ := block.GetByName("Stone")
	waterType, _ := block.GetByName("Water")
	airType, _ := block.GetByName("Air")

	origin := c.OriginWorldPosition()

	for y := 0; y < ChunkDimY; y++ {
		for x := 0; x < ChunkDimX; x++ {
			centerX := origin.X + float64(x) + 0.5
			centerY := origin.Y + float64(y) + 0.5

			noise := g.noise.Noise2D(centerX, centerY, g.NoiseScale)
			elevation := g.BaseElevation + int(math.Round(noise*float64(g.MaxDeviation)))

			columnTop := elevation
			if columnTop < g.SeaLevel {
				columnTop = g.SeaLevel
			}

			for z := 0; z < ChunkDimZ; z++ {
				var t *block.BlockType

				switch {
				case z > columnTop-1:
					// Явно проставляем воздух, чтобы блок был в известном состоянии
					t = airType

				case elevation >= g.SeaLevel:
					switch {
					case z == elevation-1:
						t = grassType
					case z > elevation-4: // 3 блока земли под травой
						t = dirtType
					default:
						t = stoneType
					}

				default:
					switch {
					case z >= elevation:
						t = waterType
					case z > g.SeaLevel-4:
						t = dirtType
					default:
						t = stoneType
					}
				}

				c.blocks[BlockIndexFromCoords(vec.Vec3{X: x, Y: y, Z: z})].typeIndex = t.Index
			}
		}
	}

	c.meshDirty = true
}
