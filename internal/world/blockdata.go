package world

import (
	"github.com/annel0/voxelgame/internal/world/block"
)

// MaxLightLevel — максимальный уровень освещения блока (обоих каналов)
const MaxLightLevel = 15

// Флаги блока
const (
	flagPartOfSky     = 1 << 0 // Блок — часть неба (над ним нет непрозрачных)
	flagInDirtyList   = 1 << 1 // Блок уже стоит в очереди пересчёта освещения
)

// Block — упакованная запись блока: 3 байта на блок, чтобы массив чанка
// умещался в кэш. Внутреннее (indoor) освещение хранится в младшем
// полубайте light, внешнее (outdoor) — в старшем.
type Block struct {
	typeIndex block.TypeIndex
	light     uint8
	flags     uint8
}

// missingBlock — канонический "отсутствующий" блок: не твёрдый, не
// непрозрачный, без света. Возвращается по значению, поэтому мутировать
// его извне невозможно.
var missingBlock = Block{typeIndex: block.AirIndex}

// TypeIndex возвращает индекс типа блока
func (b Block) TypeIndex() block.TypeIndex {
	return b.typeIndex
}

// Type возвращает тип блока (Air для незарегистрированных индексов)
func (b Block) Type() *block.BlockType {
	return block.TypeOrAir(b.typeIndex)
}

// IsSolid возвращает true, если блок блокирует движение и рейкаст
func (b Block) IsSolid() bool {
	return b.Type().IsSolid
}

// IsFullyOpaque возвращает true, если блок полностью непрозрачен
func (b Block) IsFullyOpaque() bool {
	return b.Type().IsFullyOpaque
}

// IndoorLight возвращает уровень внутреннего освещения (0–15)
func (b Block) IndoorLight() int {
	return int(b.light & 0x0F)
}

// OutdoorLight возвращает уровень внешнего освещения (0–15)
func (b Block) OutdoorLight() int {
	return int(b.light >> 4)
}

// SetIndoorLight устанавливает уровень внутреннего освещения
func (b *Block) SetIndoorLight(level int) {
	b.light = (b.light & 0xF0) | (uint8(level) & 0x0F)
}

// SetOutdoorLight устанавливает уровень внешнего освещения
func (b *Block) SetOutdoorLight(level int) {
	b.light = (b.light & 0x0F) | (uint8(level)&0x0F)<<4
}

// IsPartOfSky возвращает true, если блок — часть неба
func (b Block) IsPartOfSky() bool {
	return b.flags&flagPartOfSky != 0
}

// SetIsPartOfSky устанавливает флаг неба
func (b *Block) SetIsPartOfSky(isSky bool) {
	if isSky {
		b.flags |= flagPartOfSky
	} else {
		b.flags &^= flagPartOfSky
	}
}

// IsInDirtyLightingList возвращает true, если блок уже в очереди пересчёта
func (b Block) IsInDirtyLightingList() bool {
	return b.flags&flagInDirtyList != 0
}

// SetInDirtyLightingList устанавливает флаг членства в очереди
func (b *Block) SetInDirtyLightingList(inList bool) {
	if inList {
		b.flags |= flagInDirtyList
	} else {
		b.flags &^= flagInDirtyList
	}
}

// LightingAsColor кодирует освещение блока в цвет вершины:
// внутренний свет — красный канал, внешний — зелёный.
// Шейдер комбинирует каналы с глобальным уровнем дня/ночи.
func (b Block) LightingAsColor() Color {
	return Color{
		R: uint8(b.IndoorLight() * 255 / MaxLightLevel),
		G: uint8(b.OutdoorLight() * 255 / MaxLightLevel),
		B: 0,
		A: 255,
	}
}
