package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

// newActiveTestChunk создаёт чанк, наполняет его блоками через fill,
// активирует в мире и прокачивает освещение до неподвижной точки
func newActiveTestChunk(w *World, coords vec.Vec2, fill func(c *Chunk)) *Chunk {
	c := NewChunk(coords)
	if fill != nil {
		fill(c)
	}
	w.addChunkToActiveList(c)
	w.initializeLightingForChunk(c)
	w.UpdateLighting()
	return c
}

// fillStoneBelow заполняет чанк камнем до высоты height (не включая её)
func fillStoneBelow(c *Chunk, height int) {
	stone, _ := block.GetByName("Stone")
	for z := 0; z < height; z++ {
		for i := 0; i < BlocksPerZLayer; i++ {
			c.blocks[i+z*BlocksPerZLayer].typeIndex = stone.Index
		}
	}
}

func TestSkyLightingAllAir(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	c := newActiveTestChunk(w, vec.Vec2{}, nil)

	for index := 0; index < BlocksPerChunk; index++ {
		b := c.blocks[index]
		if !b.IsPartOfSky() {
			t.Fatalf("Блок %d в пустом чанке должен быть частью неба", index)
		}
		if b.OutdoorLight() != MaxLightLevel {
			t.Fatalf("Блок %d неба имеет внешний свет %d, ожидался %d", index, b.OutdoorLight(), MaxLightLevel)
		}
		if b.IndoorLight() != 0 {
			t.Fatalf("Блок %d без излучателей имеет внутренний свет %d", index, b.IndoorLight())
		}
	}

	require.Empty(t, w.dirtyLighting, "Очередь освещения после UpdateLighting должна быть пуста")
}

func TestSkyStopsAtOpaqueSurface(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	c := newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		fillStoneBelow(c, 32)
	})

	above := c.BlockAt(BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 32}))
	require.True(t, above.IsPartOfSky())
	require.Equal(t, MaxLightLevel, above.OutdoorLight())

	surface := c.BlockAt(BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 31}))
	require.False(t, surface.IsPartOfSky(), "Непрозрачный блок не часть неба")
	require.Equal(t, 0, surface.OutdoorLight(), "Непрозрачный блок не несёт внешний свет")
}

func TestGlowstoneGradient(t *testing.T) {
	glowstone, _ := block.GetByName("Glowstone")
	air, _ := block.GetByName("Air")

	w := NewWorld(WorldOptions{Seed: 1})
	c := newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		// Сплошной камень с горизонтальным тоннелем и светильником в торце
		fillStoneBelow(c, ChunkDimZ)
		for x := 4; x <= 11; x++ {
			c.blocks[BlockIndexFromCoords(vec.Vec3{X: x, Y: 8, Z: 30})].typeIndex = air.Index
		}
		c.blocks[BlockIndexFromCoords(vec.Vec3{X: 4, Y: 8, Z: 30})].typeIndex = glowstone.Index
	})

	expected := int(glowstone.InternalLightLevel)
	for x := 4; x <= 11 && expected > 0; x++ {
		b := c.BlockAt(BlockIndexFromCoords(vec.Vec3{X: x, Y: 8, Z: 30}))
		if b.IndoorLight() != expected {
			t.Errorf("Блок тоннеля x=%d имеет внутренний свет %d, ожидался %d", x, b.IndoorLight(), expected)
		}
		if b.OutdoorLight() != 0 {
			t.Errorf("Блок тоннеля x=%d под землёй имеет внешний свет %d", x, b.OutdoorLight())
		}
		expected--
	}
}

func TestDigOpensSkylight(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	c := newActiveTestChunk(w, vec.Vec2{}, func(c *Chunk) {
		fillStoneBelow(c, 32)
	})

	loc := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 31}))
	w.DigBlock(loc)
	w.UpdateLighting()

	b := loc.Block()
	require.EqualValues(t, block.AirIndex, b.TypeIndex(), "Выкопанный блок должен стать воздухом")
	require.True(t, b.IsPartOfSky(), "Выкопанный блок под открытым небом становится небом")
	require.Equal(t, MaxLightLevel, b.OutdoorLight())
	require.True(t, c.NeedsDiskWrite(), "Изменённый чанк должен быть помечен для записи")
	require.True(t, c.IsMeshDirty(), "Изменённый чанк должен перестроить меш")
}

func TestPlaceBlockCutsSkylight(t *testing.T) {
	stone, _ := block.GetByName("Stone")

	w := NewWorld(WorldOptions{Seed: 1})
	c := newActiveTestChunk(w, vec.Vec2{}, nil)

	loc := NewBlockLocator(c, BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 40}))
	w.PlaceBlock(loc, stone)
	w.UpdateLighting()

	require.Equal(t, 0, loc.Block().OutdoorLight(), "Непрозрачный блок гасит внешний свет в себе")
	require.False(t, loc.Block().IsPartOfSky())

	// Колонка под блоком больше не небо, но освещается рассеянным
	// светом соседних колонок
	below := c.BlockAt(BlockIndexFromCoords(vec.Vec3{X: 8, Y: 8, Z: 39}))
	require.False(t, below.IsPartOfSky(), "Колонка под непрозрачным блоком теряет статус неба")
	require.Equal(t, MaxLightLevel-1, below.OutdoorLight(), "Блок в тени освещается соседями на единицу слабее")
}

func TestLightingCrossesChunkBoundary(t *testing.T) {
	air, _ := block.GetByName("Air")
	glowstone, _ := block.GetByName("Glowstone")

	w := NewWorld(WorldOptions{Seed: 1})

	// Западный чанк: сплошной камень с тоннелем, выходящим на восточную
	// грань. Без соседа тоннель остаётся тёмным.
	west := newActiveTestChunk(w, vec.Vec2{X: 0, Y: 0}, func(c *Chunk) {
		fillStoneBelow(c, ChunkDimZ)
		for x := 12; x < ChunkDimX; x++ {
			c.blocks[BlockIndexFromCoords(vec.Vec3{X: x, Y: 8, Z: 30})].typeIndex = air.Index
		}
	})

	dark := west.BlockAt(BlockIndexFromCoords(vec.Vec3{X: 15, Y: 8, Z: 30}))
	require.Equal(t, 0, dark.OutdoorLight(), "До активации соседа свету неоткуда прийти")

	west.BuildMesh()
	require.False(t, west.IsMeshDirty())

	// Восточный чанк: воздух и светильник у западной грани. Его активация
	// ставит в очередь граничные блоки уже активного соседа, и оба канала
	// света перетекают через границу.
	newActiveTestChunk(w, vec.Vec2{X: 1, Y: 0}, func(c *Chunk) {
		c.blocks[BlockIndexFromCoords(vec.Vec3{X: 0, Y: 8, Z: 30})].typeIndex = glowstone.Index
	})

	expectedOutdoor := MaxLightLevel - 1
	expectedIndoor := int(glowstone.InternalLightLevel) - 1
	for x := 15; x >= 12; x-- {
		b := west.BlockAt(BlockIndexFromCoords(vec.Vec3{X: x, Y: 8, Z: 30}))
		if b.OutdoorLight() != expectedOutdoor {
			t.Errorf("Блок тоннеля x=%d: внешний свет %d, ожидался %d", x, b.OutdoorLight(), expectedOutdoor)
		}
		if b.IndoorLight() != expectedIndoor {
			t.Errorf("Блок тоннеля x=%d: внутренний свет %d, ожидался %d", x, b.IndoorLight(), expectedIndoor)
		}
		expectedOutdoor--
		expectedIndoor--
	}

	require.True(t, west.IsMeshDirty(), "Изменение света должно пометить меш соседнего чанка")
}

func TestLightingSeedsNorthSouthBoundary(t *testing.T) {
	air, _ := block.GetByName("Air")

	w := NewWorld(WorldOptions{Seed: 1})

	// Карман воздуха на северной грани южного чанка
	south := newActiveTestChunk(w, vec.Vec2{X: 0, Y: 0}, func(c *Chunk) {
		fillStoneBelow(c, ChunkDimZ)
		c.blocks[BlockIndexFromCoords(vec.Vec3{X: 8, Y: 15, Z: 30})].typeIndex = air.Index
	})

	pocket := BlockIndexFromCoords(vec.Vec3{X: 8, Y: 15, Z: 30})
	require.Equal(t, 0, south.BlockAt(pocket).OutdoorLight())

	// Активация северного соседа (весь воздух, значит небо) должна
	// осветить карман через границу чанков
	newActiveTestChunk(w, vec.Vec2{X: 0, Y: 1}, nil)

	require.Equal(t, MaxLightLevel-1, south.BlockAt(pocket).OutdoorLight(),
		"Небесный свет соседа должен перетечь через северную границу")
}

func TestLightingFixedPoint(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 77})
	c := NewChunk(vec.Vec2{X: 2, Y: 5})
	w.generator.Populate(c)
	w.addChunkToActiveList(c)
	w.initializeLightingForChunk(c)
	w.UpdateLighting()

	// После полного прогона каскада свет каждого блока совпадает со
	// значением, вычисленным из соседей: неподвижная точка
	for index := 0; index < BlocksPerChunk; index++ {
		loc := NewBlockLocator(c, index)
		b := loc.Block()

		if b.IndoorLight() != w.computeIndoorLight(loc) {
			t.Fatalf("Блок %d: внутренний свет %d не в неподвижной точке (ожидался %d)",
				index, b.IndoorLight(), w.computeIndoorLight(loc))
		}
		if b.OutdoorLight() != w.computeOutdoorLight(loc) {
			t.Fatalf("Блок %d: внешний свет %d не в неподвижной точке (ожидался %d)",
				index, b.OutdoorLight(), w.computeOutdoorLight(loc))
		}
	}
}

func TestDirtyLightingQueueNoDuplicates(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})
	c := NewChunk(vec.Vec2{})
	w.addChunkToActiveList(c)

	loc := NewBlockLocator(c, 100)
	w.markLightingDirty(loc)
	w.markLightingDirty(loc)

	require.Len(t, w.dirtyLighting, 1, "Повторная постановка блока в очередь должна игнорироваться")

	popped := w.removeFrontDirtyBlock()
	require.Equal(t, loc, popped)
	require.False(t, popped.Block().IsInDirtyLightingList(), "Флаг членства снимается при извлечении")
}

func TestRemoveFromEmptyQueuePanics(t *testing.T) {
	w := NewWorld(WorldOptions{Seed: 1})

	defer func() {
		if recover() == nil {
			t.Fatal("Извлечение из пустой очереди должно паниковать")
		}
	}()
	w.removeFrontDirtyBlock()
}
