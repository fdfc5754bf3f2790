package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseGenerator оборачивает шум Перлина с фиксированным сидом.
// Значение шума детерминировано парой (сид, координаты), скрытого
// состояния нет — один и тот же запрос всегда даёт один результат.
type NoiseGenerator struct {
	perlin *perlin.Perlin
}

// NewNoiseGenerator создаёт генератор шума Перлина с указанным сидом
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &NoiseGenerator{perlin: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума для указанных координат в диапазоне [-1, 1].
// scale задаёт размер "волны" шума в мировых единицах.
func (ng *NoiseGenerator) Noise2D(x, y, scale float64) float64 {
	return ng.perlin.Noise2D(x/scale, y/scale)
}
