package block

// UVRect задаёт прямоугольник в текстурном атласе
type UVRect struct {
	MinU, MinV float32
	MaxU, MaxV float32
}

// BlockType описывает неизменяемые свойства типа блока.
// Экземпляры регистрируются один раз при загрузке и дальше
// используются только на чтение.
type BlockType struct {
	Index TypeIndex
	Name  string

	IsSolid       bool // Блокирует ли движение и рейкаст
	IsFullyOpaque bool // Полностью ли непрозрачен (поглощает свет, скрывает грани соседей)

	// Уровень собственного излучения (0–15)
	InternalLightLevel uint8

	// UV-регионы атласа по направлениям грани
	SideUVs   UVRect
	TopUVs    UVRect
	BottomUVs UVRect
}

// atlasTiles — размер текстурного атласа в тайлах по каждой оси
const atlasTiles = 16

// tileUV возвращает UV-регион тайла атласа по его координатам
func tileUV(x, y int) UVRect {
	step := float32(1.0 / atlasTiles)
	return UVRect{
		MinU: float32(x) * step,
		MinV: float32(y) * step,
		MaxU: float32(x+1) * step,
		MaxV: float32(y+1) * step,
	}
}

func init() {
	Register(&BlockType{
		Index:     AirIndex,
		Name:      "Air",
		SideUVs:   tileUV(0, 0),
		TopUVs:    tileUV(0, 0),
		BottomUVs: tileUV(0, 0),
	})

	Register(&BlockType{
		Index:         GrassIndex,
		Name:          "Grass",
		IsSolid:       true,
		IsFullyOpaque: true,
		SideUVs:       tileUV(3, 0),
		TopUVs:        tileUV(0, 1),
		BottomUVs:     tileUV(2, 0),
	})

	Register(&BlockType{
		Index:         DirtIndex,
		Name:          "Dirt",
		IsSolid:       true,
		IsFullyOpaque: true,
		SideUVs:       tileUV(2, 0),
		TopUVs:        tileUV(2, 0),
		BottomUVs:     tileUV(2, 0),
	})

	Register(&BlockType{
		Index:         StoneIndex,
		Name:          "Stone",
		IsSolid:       true,
		IsFullyOpaque: true,
		SideUVs:       tileUV(1, 0),
		TopUVs:        tileUV(1, 0),
		BottomUVs:     tileUV(1, 0),
	})

	// Вода проходима и пропускает свет
	Register(&BlockType{
		Index:     WaterIndex,
		Name:      "Water",
		SideUVs:   tileUV(15, 13),
		TopUVs:    tileUV(15, 13),
		BottomUVs: tileUV(15, 13),
	})

	// Светокамень твёрдый, но не считается непрозрачным:
	// иначе алгоритм освещения не даст ему излучать
	Register(&BlockType{
		Index:              GlowstoneIndex,
		Name:               "Glowstone",
		IsSolid:            true,
		InternalLightLevel: 10,
		SideUVs:            tileUV(9, 6),
		TopUVs:             tileUV(9, 6),
		BottomUVs:          tileUV(9, 6),
	})

	Register(&BlockType{
		Index:         SandIndex,
		Name:          "Sand",
		IsSolid:       true,
		IsFullyOpaque: true,
		SideUVs:       tileUV(2, 1),
		TopUVs:        tileUV(2, 1),
		BottomUVs:     tileUV(2, 1),
	})
}
