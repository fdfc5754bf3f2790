package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

func TestRaycastHitsGround(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		fillStoneBelow(c, 10)
	})

	result := w.Raycast(
		vec.Vec3Float{X: 8.5, Y: 8.5, Z: 20.5},
		vec.Vec3Float{Z: -1},
		15,
	)

	require.True(t, result.DidImpact, "Луч вниз обязан упереться в камень")
	require.Less(t, result.ImpactFraction, 1.0)
	require.Equal(t, vec.Vec3{Z: 1}, result.ImpactNormal, "Нормаль верхней грани смотрит вверх")

	impactCoords := BlockCoordsFromIndex(result.ImpactBlock.Index())
	require.Equal(t, vec.Vec3{X: 8, Y: 8, Z: 9}, impactCoords, "Удар в верхний блок камня")

	// Доля пути соответствует расстоянию до поверхности с точностью
	// до одного под-шага
	require.InDelta(t, (20.5-10.0)/15.0, result.ImpactFraction, 2.0/RaycastStepsPerBlock)
}

func TestRaycastDiagonalCorner(t *testing.T) {
	stone, _ := block.GetByName("Stone")

	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		c.blocks[BlockIndexFromCoords(vec.Vec3{X: 6, Y: 8, Z: 11})].typeIndex = stone.Index
	})

	// Диагональный луч пересекает сначала вертикальный стык (x=6),
	// затем горизонтальный (z=11). Оси переступаются по отдельности,
	// поэтому луч проверяет промежуточный блок и не проскальзывает
	// сквозь угол.
	result := w.Raycast(
		vec.Vec3Float{X: 5.5, Y: 8.5, Z: 10.4},
		vec.Vec3Float{X: 0.7071, Z: 0.7071},
		3,
	)

	require.True(t, result.DidImpact)
	require.Equal(t, vec.Vec3{X: 6, Y: 8, Z: 11}, BlockCoordsFromIndex(result.ImpactBlock.Index()))
	require.Equal(t, vec.Vec3{Z: -1}, result.ImpactNormal, "Луч вошёл снизу, нормаль смотрит вниз")
}

func TestRaycastMissIsExactlyOne(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, nil)

	start := vec.Vec3Float{X: 8, Y: 8, Z: 50}
	result := w.Raycast(start, vec.Vec3Float{Z: 1}, 5)

	require.False(t, result.DidImpact)
	require.Equal(t, 1.0, result.ImpactFraction, "Промах кодируется долей ровно 1.0")
	require.Equal(t, result.EndPosition, result.ImpactPosition)
	require.False(t, result.ImpactBlock.IsValid())
}

func TestRaycastFromAboveWorldTop(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		fillStoneBelow(c, 10)
	})

	// Старт выше вершины мира: над потолком блоков нет, но луч обязан
	// войти в мир и упереться в поверхность
	result := w.Raycast(
		vec.Vec3Float{X: 8.5, Y: 8.5, Z: 70.5},
		vec.Vec3Float{Z: -1},
		80,
	)

	require.True(t, result.DidImpact, "Луч сверху мира должен попасть в камень")
	require.Equal(t, vec.Vec3{Z: 1}, result.ImpactNormal)
	require.Equal(t, vec.Vec3{X: 8, Y: 8, Z: 9}, BlockCoordsFromIndex(result.ImpactBlock.Index()))
	require.InDelta(t, (70.5-10.0)/80.0, result.ImpactFraction, 2.0/RaycastStepsPerBlock)
}

func TestRaycastCrossesInactiveChunkGap(t *testing.T) {
	stone, _ := block.GetByName("Stone")

	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{X: 0, Y: 0}, nil)
	// Чанк (1,0) не активен: между стартом и целью дыра в мире
	far := newActiveTestChunk(w, vec.Vec2{X: 2, Y: 0}, func(c *Chunk) {
		c.blocks[BlockIndexFromCoords(vec.Vec3{X: 0, Y: 8, Z: 30})].typeIndex = stone.Index
	})

	result := w.Raycast(
		vec.Vec3Float{X: 8.5, Y: 8.5, Z: 30.5},
		vec.Vec3Float{X: 1},
		30,
	)

	require.True(t, result.DidImpact, "Луч должен пройти сквозь неактивный чанк и попасть в блок за ним")
	require.Same(t, far, result.ImpactBlock.Chunk())
	require.Equal(t, vec.Vec3{X: 0, Y: 8, Z: 30}, BlockCoordsFromIndex(result.ImpactBlock.Index()))
	require.Equal(t, vec.Vec3{X: -1}, result.ImpactNormal)
}

func TestRaycastStartInsideSolid(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		fillStoneBelow(c, 10)
	})

	start := vec.Vec3Float{X: 8.5, Y: 8.5, Z: 5.5}
	result := w.Raycast(start, vec.Vec3Float{Z: -1}, 10)

	require.True(t, result.DidImpact)
	require.Equal(t, 0.0, result.ImpactFraction, "Старт внутри твёрдого блока — мгновенное попадание")
	require.Equal(t, start, result.ImpactPosition)
}

func TestRaycastWaterIsNotSolid(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		water, _ := block.GetByName("Water")

		for z := 5; z < 10; z++ {
			for i := 0; i < BlocksPerZLayer; i++ {
				c.blocks[i+z*BlocksPerZLayer].typeIndex = water.Index
			}
		}
		fillStoneBelow(c, 5)
	})

	result := w.Raycast(vec.Vec3Float{X: 8.5, Y: 8.5, Z: 15.5}, vec.Vec3Float{Z: -1}, 15)

	require.True(t, result.DidImpact)
	impactCoords := BlockCoordsFromIndex(result.ImpactBlock.Index())
	require.Equal(t, 4, impactCoords.Z, "Луч проходит воду насквозь и бьёт в камень под ней")
}
