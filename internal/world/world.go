package world

import (
	"fmt"
	"math"

	"github.com/annel0/voxelgame/internal/logging"
	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

// ChunkStore — хранилище сериализованных чанков. Реализуется пакетом
// storage; мир хранилищу не известен ничем, кроме байтов и координат.
type ChunkStore interface {
	// Load возвращает сохранённые данные чанка. (nil, nil) означает,
	// что сохранения нет и чанк нужно сгенерировать заново.
	Load(coords vec.Vec2) ([]byte, error)

	// Save записывает данные чанка
	Save(coords vec.Vec2, data []byte) error

	// Close освобождает ресурсы хранилища
	Close() error
}

// EventSink — приёмник событий мира. Реализация решает, куда их
// доставлять (шина событий, лог, никуда).
type EventSink interface {
	ChunkActivated(coords vec.Vec2)
	ChunkDeactivated(coords vec.Vec2)
	BlockChanged(blockPos vec.Vec3, oldType, newType block.TypeIndex)
}

// World управляет набором активных чанков: подгружает их вокруг опорной
// позиции, выгружает дальние, прокачивает каскад освещения и перестраивает
// меши. Все методы вызываются из одной горутины игрового тика.
type World struct {
	activeChunks map[vec.Vec2]*Chunk

	// Очередь пересчёта освещения (FIFO). Членство блока в очереди
	// дублируется флагом в самом блоке, поэтому блок не встаёт в
	// очередь дважды.
	dirtyLighting []BlockLocator

	generator *Generator
	store     ChunkStore
	metrics   *Metrics
	sink      EventSink

	activationRange    float64
	deactivationOffset float64
}

// WorldOptions — параметры создания мира
type WorldOptions struct {
	Seed               int64
	ActivationRange    float64
	DeactivationOffset float64
	Store              ChunkStore // nil: без персистентности
	Metrics            *Metrics   // nil: без метрик
	Sink               EventSink  // nil: без событий
}

// NewWorld создаёт мир без активных чанков
func NewWorld(opts WorldOptions) *World {
	if opts.ActivationRange <= 0 {
		opts.ActivationRange = DefaultActivationRange
	}
	if opts.DeactivationOffset <= 0 {
		opts.DeactivationOffset = DefaultDeactivationOffs
	}

	return &World{
		activeChunks:       make(map[vec.Vec2]*Chunk),
		generator:          NewGenerator(opts.Seed),
		store:              opts.Store,
		metrics:            opts.Metrics,
		sink:               opts.Sink,
		activationRange:    opts.ActivationRange,
		deactivationOffset: opts.DeactivationOffset,
	}
}

// ActiveChunkCount возвращает количество активных чанков
func (w *World) ActiveChunkCount() int {
	return len(w.activeChunks)
}

// ChunkAt возвращает активный чанк по координатам (nil, если не активен)
func (w *World) ChunkAt(coords vec.Vec2) *Chunk {
	return w.activeChunks[coords]
}

// Update выполняет один тик мира относительно опорной позиции:
// не больше одной активации, не больше одной деактивации, полный
// прогон каскада освещения и перестройка одного меша. Жёсткий лимит
// на чанк-операции размазывает их стоимость по тикам.
func (w *World) Update(refPos vec.Vec3Float) {
	w.activateNearestMissingChunk(refPos)
	w.deactivateFarthestChunk(refPos)
	w.UpdateLighting()
	w.rebuildOneDirtyMesh(refPos)

	if w.metrics != nil {
		w.metrics.activeChunks.Set(float64(len(w.activeChunks)))
		w.metrics.lightingQueue.Set(float64(len(w.dirtyLighting)))
	}
}

// activateNearestMissingChunk активирует ближайший к опорной позиции
// неактивный чанк в радиусе активации (если такой есть)
func (w *World) activateNearestMissingChunk(refPos vec.Vec3Float) {
	ref := refPos.ToVec2Float()

	chunkRangeX := int(math.Ceil(w.activationRange / ChunkDimX))
	chunkRangeY := int(math.Ceil(w.activationRange / ChunkDimY))
	centerCoords := chunkCoordsForWorldPosition(refPos)

	bestDistance := w.activationRange
	var bestCoords vec.Vec2
	found := false

	for dy := -chunkRangeY; dy <= chunkRangeY; dy++ {
		for dx := -chunkRangeX; dx <= chunkRangeX; dx++ {
			coords := vec.Vec2{X: centerCoords.X + dx, Y: centerCoords.Y + dy}
			if _, active := w.activeChunks[coords]; active {
				continue
			}

			center := vec.Vec2Float{
				X: float64(coords.X*ChunkDimX) + 0.5*ChunkDimX,
				Y: float64(coords.Y*ChunkDimY) + 0.5*ChunkDimY,
			}
			distance := center.DistanceTo(ref)
			if distance <= bestDistance {
				bestDistance = distance
				bestCoords = coords
				found = true
			}
		}
	}

	if found {
		w.activateChunk(bestCoords)
	}
}

// deactivateFarthestChunk деактивирует самый дальний активный чанк за
// пределами радиуса деактивации. Радиус деактивации больше радиуса
// активации, чтобы чанк на границе не мерцал активацией/деактивацией.
func (w *World) deactivateFarthestChunk(refPos vec.Vec3Float) {
	ref := refPos.ToVec2Float()
	deactivationRange := w.activationRange + w.deactivationOffset

	bestDistance := deactivationRange
	var victim *Chunk

	for _, c := range w.activeChunks {
		distance := c.WorldXYCenter().DistanceTo(ref)
		if distance > bestDistance {
			bestDistance = distance
			victim = c
		}
	}

	if victim != nil {
		w.deactivateChunk(victim)
	}
}

// activateChunk активирует чанк: наполняет блоками (сохранение либо
// генерация), связывает с соседями и инициализирует освещение
func (w *World) activateChunk(coords vec.Vec2) {
	c := NewChunk(coords)
	w.populateChunk(c)
	w.addChunkToActiveList(c)
	w.initializeLightingForChunk(c)

	if w.metrics != nil {
		w.metrics.activations.Inc()
	}
	if w.sink != nil {
		w.sink.ChunkActivated(coords)
	}
}

// populateChunk наполняет чанк блоками: из хранилища, если сохранение
// есть и читается, иначе процедурной генерацией. Повреждённое
// сохранение — предупреждение, не фатальная ошибка.
func (w *World) populateChunk(c *Chunk) {
	if w.store != nil {
		data, err := w.store.Load(c.coords)
		switch {
		case err != nil:
			logging.Warn("Сохранение чанка (%d,%d) не прочитано, чанк будет сгенерирован: %v",
				c.coords.X, c.coords.Y, err)
		case data != nil:
			if decodeErr := c.DecodeRLE(data); decodeErr == nil {
				return
			} else {
				logging.Warn("Сохранение чанка (%d,%d) повреждено, чанк будет сгенерирован: %v",
					c.coords.X, c.coords.Y, decodeErr)
			}
		}
	}

	w.generator.Populate(c)
}

// deactivateChunk деактивирует чанк: сохраняет несохранённые изменения,
// выбрасывает его блоки из очереди освещения и отвязывает от соседей
func (w *World) deactivateChunk(c *Chunk) {
	if c.NeedsDiskWrite() && w.store != nil {
		if err := w.store.Save(c.coords, c.EncodeRLE()); err != nil {
			logging.Error("Не удалось сохранить чанк (%d,%d): %v", c.coords.X, c.coords.Y, err)
		} else {
			c.ClearDiskDirty()
		}
	}

	w.undirtyAllBlocksInChunk(c)
	w.removeChunkFromActiveList(c)

	if w.metrics != nil {
		w.metrics.deactivations.Inc()
	}
	if w.sink != nil {
		w.sink.ChunkDeactivated(c.coords)
	}
}

// addChunkToActiveList вносит чанк в реестр активных и устанавливает
// двусторонние связи с уже активными соседями. Повторная активация
// координат — нарушение инварианта реестра, а не восстановимая ошибка.
func (w *World) addChunkToActiveList(c *Chunk) {
	if _, exists := w.activeChunks[c.coords]; exists {
		panic(fmt.Sprintf("чанк (%d,%d) уже активен", c.coords.X, c.coords.Y))
	}
	w.activeChunks[c.coords] = c

	if east := w.activeChunks[vec.Vec2{X: c.coords.X + 1, Y: c.coords.Y}]; east != nil {
		c.east = east
		east.west = c
	}
	if west := w.activeChunks[vec.Vec2{X: c.coords.X - 1, Y: c.coords.Y}]; west != nil {
		c.west = west
		west.east = c
	}
	if north := w.activeChunks[vec.Vec2{X: c.coords.X, Y: c.coords.Y + 1}]; north != nil {
		c.north = north
		north.south = c
	}
	if south := w.activeChunks[vec.Vec2{X: c.coords.X, Y: c.coords.Y - 1}]; south != nil {
		c.south = south
		south.north = c
	}
}

// removeChunkFromActiveList убирает чанк из реестра активных и рвёт
// связи с соседями с обеих сторон
func (w *World) removeChunkFromActiveList(c *Chunk) {
	if _, exists := w.activeChunks[c.coords]; !exists {
		panic(fmt.Sprintf("чанк (%d,%d) не числится активным", c.coords.X, c.coords.Y))
	}
	delete(w.activeChunks, c.coords)

	if c.east != nil {
		c.east.west = nil
		c.east = nil
	}
	if c.west != nil {
		c.west.east = nil
		c.west = nil
	}
	if c.north != nil {
		c.north.south = nil
		c.north = nil
	}
	if c.south != nil {
		c.south.north = nil
		c.south = nil
	}
}

// rebuildOneDirtyMesh перестраивает меш ближайшего к опорной позиции
// грязного чанка. Перестраиваются только чанки с полным комплектом
// соседей: иначе грани на границе чанка остались бы без данных о
// видимости и свете.
func (w *World) rebuildOneDirtyMesh(refPos vec.Vec3Float) {
	ref := refPos.ToVec2Float()

	bestDistance := math.MaxFloat64
	var victim *Chunk

	for _, c := range w.activeChunks {
		if !c.meshDirty || !c.HasAllFourNeighbors() {
			continue
		}
		distance := c.WorldXYCenter().DistanceTo(ref)
		if distance < bestDistance {
			bestDistance = distance
			victim = c
		}
	}

	if victim != nil {
		victim.BuildMesh()
		if w.metrics != nil {
			w.metrics.meshRebuilds.Inc()
		}
	}
}

// DigBlock заменяет блок воздухом. Колонка под блоком может открыться
// небу; затронутые блоки встают в очередь пересчёта освещения.
func (w *World) DigBlock(loc BlockLocator) {
	if !loc.IsValid() {
		return
	}

	oldType := loc.Block().typeIndex
	airType, _ := block.GetByName("Air")

	loc.chunk.SetBlockType(loc.index, airType)
	loc.chunk.MarkDiskDirty()
	loc.chunk.updateSkyFlagsForBlock(loc.index)

	w.markLightingDirty(loc)
	w.markColumnBelowLightingDirty(loc)

	if w.sink != nil {
		w.sink.BlockChanged(w.blockWorldCoords(loc), oldType, airType.Index)
	}
}

// PlaceBlock устанавливает блок указанного типа. Непрозрачный блок
// гасит небо в колонке под собой; затронутые блоки встают в очередь
// пересчёта освещения.
func (w *World) PlaceBlock(loc BlockLocator, t *block.BlockType) {
	if !loc.IsValid() || t == nil {
		return
	}

	oldType := loc.Block().typeIndex

	loc.chunk.SetBlockType(loc.index, t)
	loc.chunk.MarkDiskDirty()
	loc.chunk.updateSkyFlagsForBlock(loc.index)

	w.markLightingDirty(loc)
	w.markColumnBelowLightingDirty(loc)

	if w.sink != nil {
		w.sink.BlockChanged(w.blockWorldCoords(loc), oldType, t.Index)
	}
}

// markColumnBelowLightingDirty ставит в очередь освещения прозрачные
// блоки колонки под локатором до первого непрозрачного. Именно эти
// блоки могли получить или потерять статус неба.
func (w *World) markColumnBelowLightingDirty(loc BlockLocator) {
	for below := loc.ToBelow(); below.IsValid(); below = below.ToBelow() {
		if below.Block().IsFullyOpaque() {
			break
		}
		w.markLightingDirty(below)
	}
}

// blockWorldCoords возвращает целочисленные мировые координаты блока
func (w *World) blockWorldCoords(loc BlockLocator) vec.Vec3 {
	local := BlockCoordsFromIndex(loc.index)
	return vec.Vec3{
		X: loc.chunk.coords.X*ChunkDimX + local.X,
		Y: loc.chunk.coords.Y*ChunkDimY + local.Y,
		Z: local.Z,
	}
}

// GetBlockAt возвращает локатор блока, содержащего мировую позицию.
// Для позиции вне активных чанков или вне вертикальных границ мира
// возвращается отсутствующий локатор.
func (w *World) GetBlockAt(pos vec.Vec3Float) BlockLocator {
	if pos.Z < 0 || pos.Z >= ChunkDimZ {
		return BlockLocator{}
	}

	c := w.activeChunks[chunkCoordsForWorldPosition(pos)]
	if c == nil {
		return BlockLocator{}
	}
	return c.BlockLocatorForWorldPosition(pos)
}

// locatorForBlockCoords разрешает локатор по целочисленным мировым
// координатам блока. Для координат вне вертикальных границ мира или в
// неактивном чанке возвращается отсутствующий локатор. Арифметический
// сдвиг даёт деление с округлением вниз и для отрицательных координат.
func (w *World) locatorForBlockCoords(coords vec.Vec3) BlockLocator {
	if coords.Z < 0 || coords.Z >= ChunkDimZ {
		return BlockLocator{}
	}

	chunkCoords := vec.Vec2{X: coords.X >> ChunkBitsX, Y: coords.Y >> ChunkBitsY}
	c := w.activeChunks[chunkCoords]
	if c == nil {
		return BlockLocator{}
	}

	local := vec.Vec3{
		X: coords.X & (ChunkDimX - 1),
		Y: coords.Y & (ChunkDimY - 1),
		Z: coords.Z,
	}
	return BlockLocator{chunk: c, index: BlockIndexFromCoords(local)}
}

// chunkCoordsForWorldPosition возвращает координаты чанка, содержащего
// мировую позицию
func chunkCoordsForWorldPosition(pos vec.Vec3Float) vec.Vec2 {
	return vec.Vec2{
		X: int(math.Floor(pos.X / ChunkDimX)),
		Y: int(math.Floor(pos.Y / ChunkDimY)),
	}
}

// Render передаёт рендереру меши всех активных чанков, у которых меш
// уже построен
func (w *World) Render(r Renderer) {
	for _, c := range w.activeChunks {
		if c.mesh != nil {
			r.DrawChunkMesh(c.coords, c.mesh)
		}
	}
}

// Flush сохраняет все несохранённые чанки. Вызывается при штатной
// остановке; активные чанки остаются активными.
func (w *World) Flush() error {
	if w.store == nil {
		return nil
	}

	var firstErr error
	for _, c := range w.activeChunks {
		if !c.NeedsDiskWrite() {
			continue
		}
		if err := w.store.Save(c.coords, c.EncodeRLE()); err != nil {
			logging.Error("Не удалось сохранить чанк (%d,%d): %v", c.coords.X, c.coords.Y, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.ClearDiskDirty()
	}
	return firstErr
}
