package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelgame/internal/vec"
)

func TestLocatorStepsInsideChunk(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	start := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 5, Y: 5, Z: 30}))

	cases := []struct {
		name     string
		step     func(BlockLocator) BlockLocator
		expected vec.Vec3
	}{
		{"восток", BlockLocator.ToEast, vec.Vec3{X: 6, Y: 5, Z: 30}},
		{"запад", BlockLocator.ToWest, vec.Vec3{X: 4, Y: 5, Z: 30}},
		{"север", BlockLocator.ToNorth, vec.Vec3{X: 5, Y: 6, Z: 30}},
		{"юг", BlockLocator.ToSouth, vec.Vec3{X: 5, Y: 4, Z: 30}},
		{"вверх", BlockLocator.ToAbove, vec.Vec3{X: 5, Y: 5, Z: 31}},
		{"вниз", BlockLocator.ToBelow, vec.Vec3{X: 5, Y: 5, Z: 29}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.step(start)
			require.True(t, result.IsValid())
			require.Equal(t, tc.expected, BlockCoordsFromIndex(result.Index()))
		})
	}
}

func TestLocatorCrossesChunkBoundary(t *testing.T) {
	center := NewChunk(vec.Vec2{X: 0, Y: 0})
	east := NewChunk(vec.Vec2{X: 1, Y: 0})
	center.east = east
	east.west = center

	edge := NewBlockLocator(center, BlockIndexFromCoords(vec.Vec3{X: ChunkDimX - 1, Y: 7, Z: 10}))

	crossed := edge.ToEast()
	require.Same(t, east, crossed.Chunk(), "Шаг через восточную границу должен перейти в соседний чанк")
	require.Equal(t, vec.Vec3{X: 0, Y: 7, Z: 10}, BlockCoordsFromIndex(crossed.Index()))

	// Шаг обратно возвращает в исходный блок
	back := crossed.ToWest()
	require.Same(t, center, back.Chunk())
	require.Equal(t, edge.Index(), back.Index(), "Шаги восток-запад должны быть симметричны")
}

func TestLocatorMissingNeighbor(t *testing.T) {
	c := NewChunk(vec.Vec2{})

	edge := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 0, Y: 0, Z: 10}))
	require.False(t, edge.ToWest().IsValid(), "Шаг в неактивного соседа даёт отсутствующий локатор")
	require.False(t, edge.ToSouth().IsValid())

	b := edge.ToWest().Block()
	require.False(t, b.IsSolid(), "Отсутствующий блок не твёрдый")
	require.False(t, b.IsFullyOpaque(), "Отсутствующий блок не непрозрачный")
	require.Equal(t, 0, b.IndoorLight())
	require.Equal(t, 0, b.OutdoorLight())
}

func TestLocatorVerticalWorldBounds(t *testing.T) {
	c := NewChunk(vec.Vec2{})

	top := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 3, Y: 3, Z: ChunkDimZ - 1}))
	require.False(t, top.ToAbove().IsValid(), "Выше вершины мира блоков нет")

	bottom := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 3, Y: 3, Z: 0}))
	require.False(t, bottom.ToBelow().IsValid(), "Ниже дна мира блоков нет")
}

func TestMissingLocatorStepsStayMissing(t *testing.T) {
	missing := MissingLocator()

	require.False(t, missing.ToEast().IsValid())
	require.False(t, missing.ToWest().IsValid())
	require.False(t, missing.ToNorth().IsValid())
	require.False(t, missing.ToSouth().IsValid())
	require.False(t, missing.ToAbove().IsValid())
	require.False(t, missing.ToBelow().IsValid())
	require.False(t, missing.StepInDirection(vec.Vec3{X: 1, Y: -1, Z: 1}).IsValid())
}

func TestLocatorStepInDirection(t *testing.T) {
	c := NewChunk(vec.Vec2{})
	start := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 20}))

	stepped := start.StepInDirection(vec.Vec3{Z: 1})
	require.Equal(t, vec.Vec3{X: 8, Y: 8, Z: 21}, BlockCoordsFromIndex(stepped.Index()))

	stepped = start.StepInDirection(vec.Vec3{X: -1})
	require.Equal(t, vec.Vec3{X: 7, Y: 8, Z: 20}, BlockCoordsFromIndex(stepped.Index()))
}
