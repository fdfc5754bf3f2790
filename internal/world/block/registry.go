package block

// TypeIndex представляет стабильный индекс типа блока.
// Блоки ссылаются на тип по индексу (не по указателю), поэтому запись
// блока остаётся компактной и сериализуемой одним байтом.
type TypeIndex uint8

// Константы индексов базовых типов блоков
const (
	AirIndex       TypeIndex = iota // 0
	GrassIndex                      // 1
	DirtIndex                       // 2
	StoneIndex                      // 3
	WaterIndex                      // 4
	GlowstoneIndex                  // 5
	SandIndex                       // 6
)

var (
	byIndex [256]*BlockType
	byName  = make(map[string]*BlockType)
)

// Register добавляет тип блока в регистр.
// Повторная регистрация индекса или имени — ошибка программиста.
func Register(t *BlockType) {
	if byIndex[t.Index] != nil {
		panic("block: повторная регистрация индекса " + t.Name)
	}
	if _, exists := byName[t.Name]; exists {
		panic("block: повторная регистрация имени " + t.Name)
	}

	byIndex[t.Index] = t
	byName[t.Name] = t
}

// GetByIndex возвращает тип блока по индексу
func GetByIndex(idx TypeIndex) (*BlockType, bool) {
	t := byIndex[idx]
	return t, t != nil
}

// GetByName возвращает тип блока по имени
func GetByName(name string) (*BlockType, bool) {
	t, exists := byName[name]
	return t, exists
}

// TypeOrAir возвращает тип по индексу, либо Air для незарегистрированных
// индексов. Используется на путях чтения, где отказ недопустим.
func TypeOrAir(idx TypeIndex) *BlockType {
	if t := byIndex[idx]; t != nil {
		return t
	}
	return byIndex[AirIndex]
}
