package world

// Каскад освещения. Два независимых канала по 4 бита: внутренний свет
// распространяется от блоков-излучателей, внешний — от неба. Оба
// затухают на единицу на каждый блок пути. Пересчёт ленивый: блоки с
// потенциально неверным светом стоят в очереди мира, UpdateLighting
// прокачивает очередь до пустоты, и к концу тика освещение всегда
// находится в неподвижной точке.

// markLightingDirty ставит блок в очередь пересчёта освещения.
// Отсутствующие локаторы и блоки, уже стоящие в очереди, игнорируются.
func (w *World) markLightingDirty(loc BlockLocator) {
	b := loc.blockRef()
	if b == nil || b.IsInDirtyLightingList() {
		return
	}

	b.SetInDirtyLightingList(true)
	w.dirtyLighting = append(w.dirtyLighting, loc)
}

// removeFrontDirtyBlock снимает первый блок с очереди и сбрасывает его
// флаг членства. Вызов на пустой очереди — ошибка программиста.
func (w *World) removeFrontDirtyBlock() BlockLocator {
	if len(w.dirtyLighting) == 0 {
		panic("очередь пересчёта освещения пуста")
	}

	loc := w.dirtyLighting[0]
	w.dirtyLighting = w.dirtyLighting[1:]

	if b := loc.blockRef(); b != nil {
		b.SetInDirtyLightingList(false)
	}
	return loc
}

// UpdateLighting прокачивает очередь пересчёта до пустоты. Блок, чей
// свет изменился, ставит в очередь всех прозрачных соседей, поэтому
// изменение распространяется волной до затухания.
func (w *World) UpdateLighting() {
	for len(w.dirtyLighting) > 0 {
		loc := w.removeFrontDirtyBlock()
		w.recalculateLightingForBlock(loc)
	}
}

// recalculateLightingForBlock пересчитывает оба канала света блока и,
// если хотя бы один изменился, помечает соседей
func (w *World) recalculateLightingForBlock(loc BlockLocator) {
	b := loc.blockRef()
	if b == nil {
		return
	}

	expectedIndoor := w.computeIndoorLight(loc)
	expectedOutdoor := w.computeOutdoorLight(loc)

	if b.IndoorLight() == expectedIndoor && b.OutdoorLight() == expectedOutdoor {
		return
	}

	b.SetIndoorLight(expectedIndoor)
	b.SetOutdoorLight(expectedOutdoor)
	loc.chunk.meshDirty = true

	w.markNeighborsLightingDirty(loc)

	if w.metrics != nil {
		w.metrics.lightingRecalcs.Inc()
	}
}

// computeIndoorLight возвращает корректный внутренний свет блока:
// собственное излучение либо свет ярчайшего соседа минус единица.
// Непрозрачный блок чужой свет не проводит.
func (w *World) computeIndoorLight(loc BlockLocator) int {
	emission := int(loc.Block().Type().InternalLightLevel)

	if loc.Block().IsFullyOpaque() {
		return emission
	}

	highest := w.highestNeighborIndoorLight(loc) - 1
	if highest > emission {
		return highest
	}
	return emission
}

// computeOutdoorLight возвращает корректный внешний свет блока:
// максимум для блоков неба, затухание от ярчайшего соседа для прочих
// прозрачных, ноль для непрозрачных
func (w *World) computeOutdoorLight(loc BlockLocator) int {
	b := loc.Block()

	if b.IsPartOfSky() {
		return MaxLightLevel
	}
	if b.IsFullyOpaque() {
		return 0
	}

	light := w.highestNeighborOutdoorLight(loc) - 1
	if light < 0 {
		return 0
	}
	if light > MaxLightLevel {
		return MaxLightLevel
	}
	return light
}

func (w *World) highestNeighborIndoorLight(loc BlockLocator) int {
	highest := 0
	for _, n := range neighborLocators(loc) {
		if l := n.Block().IndoorLight(); l > highest {
			highest = l
		}
	}
	return highest
}

func (w *World) highestNeighborOutdoorLight(loc BlockLocator) int {
	highest := 0
	for _, n := range neighborLocators(loc) {
		if l := n.Block().OutdoorLight(); l > highest {
			highest = l
		}
	}
	return highest
}

// neighborLocators возвращает локаторы шести соседей блока.
// Отсутствующие соседи дают отсутствующие локаторы с нулевым светом.
func neighborLocators(loc BlockLocator) [6]BlockLocator {
	return [6]BlockLocator{
		loc.ToEast(),
		loc.ToWest(),
		loc.ToNorth(),
		loc.ToSouth(),
		loc.ToAbove(),
		loc.ToBelow(),
	}
}

// markNeighborsLightingDirty ставит в очередь прозрачных соседей блока.
// Непрозрачные соседи свет не проводят, пересчитывать их незачем.
func (w *World) markNeighborsLightingDirty(loc BlockLocator) {
	for _, n := range neighborLocators(loc) {
		if !n.IsValid() || n.Block().IsFullyOpaque() {
			continue
		}
		w.markLightingDirty(n)
	}
}

// initializeLightingForChunk выполняет стартовую инициализацию света
// активированного чанка: размечает небо сверху вниз, сажает максимум
// внешнего света в блоки неба и ставит в очередь затравочные блоки,
// от которых свет растечётся каскадом.
func (w *World) initializeLightingForChunk(c *Chunk) {
	// Проход неба: в каждой колонке сверху вниз блоки до первого
	// непрозрачного открыты небу
	for columnIndex := 0; columnIndex < BlocksPerZLayer; columnIndex++ {
		for z := ChunkDimZ - 1; z >= 0; z-- {
			b := c.blockRef(columnIndex + z*BlocksPerZLayer)
			if b.IsFullyOpaque() {
				break
			}
			b.SetIsPartOfSky(true)
			b.SetOutdoorLight(MaxLightLevel)
		}
	}

	// Затравка: горизонтальные соседи блоков неба, не являющиеся небом,
	// получат рассеянный внешний свет
	for columnIndex := 0; columnIndex < BlocksPerZLayer; columnIndex++ {
		for z := ChunkDimZ - 1; z >= 0; z-- {
			index := columnIndex + z*BlocksPerZLayer
			if c.blocks[index].IsFullyOpaque() {
				break
			}

			loc := BlockLocator{chunk: c, index: index}
			for _, n := range [4]BlockLocator{loc.ToEast(), loc.ToWest(), loc.ToNorth(), loc.ToSouth()} {
				nb := n.Block()
				if n.IsValid() && !nb.IsFullyOpaque() && !nb.IsPartOfSky() {
					w.markLightingDirty(n)
				}
			}
		}
	}

	// Затравка: блоки-излучатели
	for index := 0; index < BlocksPerChunk; index++ {
		if c.blocks[index].Type().InternalLightLevel > 0 {
			w.markLightingDirty(BlockLocator{chunk: c, index: index})
		}
	}

	w.markNeighborEdgeBlocksDirty(c)
}

// markNeighborEdgeBlocksDirty ставит в очередь прозрачные блоки соседних
// чанков, граничащие с только что активированным: свет из нового чанка
// должен перетечь к ним, а их свет — к нему
func (w *World) markNeighborEdgeBlocksDirty(c *Chunk) {
	for z := 0; z < ChunkDimZ; z++ {
		layer := z * BlocksPerZLayer

		if c.east != nil {
			for y := 0; y < ChunkDimY; y++ {
				w.markEdgeBlockDirty(c.east, layer+y<<ChunkBitsX)
			}
		}
		if c.west != nil {
			for y := 0; y < ChunkDimY; y++ {
				w.markEdgeBlockDirty(c.west, layer+y<<ChunkBitsX+chunkMaskX)
			}
		}
		if c.north != nil {
			for x := 0; x < ChunkDimX; x++ {
				w.markEdgeBlockDirty(c.north, layer+x)
			}
		}
		if c.south != nil {
			for x := 0; x < ChunkDimX; x++ {
				w.markEdgeBlockDirty(c.south, layer+chunkMaskY+x)
			}
		}
	}
}

func (w *World) markEdgeBlockDirty(c *Chunk, index int) {
	if c.blocks[index].IsFullyOpaque() {
		return
	}
	w.markLightingDirty(BlockLocator{chunk: c, index: index})
}

// undirtyAllBlocksInChunk выбрасывает из очереди все блоки чанка.
// Вызывается перед деактивацией: локаторы деактивированного чанка в
// очереди стали бы висячими ссылками.
func (w *World) undirtyAllBlocksInChunk(c *Chunk) {
	kept := w.dirtyLighting[:0]
	for _, loc := range w.dirtyLighting {
		if loc.chunk == c {
			loc.blockRef().SetInDirtyLightingList(false)
			continue
		}
		kept = append(kept, loc)
	}
	w.dirtyLighting = kept
}
