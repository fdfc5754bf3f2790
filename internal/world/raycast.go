package world

import (
	"github.com/annel0/voxelgame/internal/vec"
)

// RaycastResult — результат трассировки луча по блокам мира.
// При промахе ImpactFraction равна ровно 1.0, а позиция удара совпадает
// с концом луча.
type RaycastResult struct {
	StartPosition vec.Vec3Float
	Direction     vec.Vec3Float
	MaxDistance   float64
	EndPosition   vec.Vec3Float

	DidImpact      bool
	ImpactPosition vec.Vec3Float
	ImpactFraction float64
	ImpactDistance float64
	ImpactBlock    BlockLocator

	// ImpactNormal — нормаль грани, в которую вошёл луч. Равна
	// отрицанию осевого шага, на котором случилось попадание.
	ImpactNormal vec.Vec3
}

// Raycast трассирует луч фиксированными под-шагами и возвращает первый
// твёрдый блок на пути. Направление должно быть нормировано.
//
// На каждом под-шаге сравниваются целые координаты позиции до и после;
// при изменении локатор разрешается заново по новой позиции, по осям X,
// Y и Z по отдельности. Диагональный под-шаг через ребро или угол
// поэтому проверяет промежуточные блоки, и луч не проскальзывает сквозь
// стык двух непрозрачных блоков. Разрешение с нуля на каждом шаге
// позволяет лучу пересекать отсутствующее пространство (над вершиной
// мира, сквозь неактивный чанк) и попадать в блоки за ним.
func (w *World) Raycast(start vec.Vec3Float, direction vec.Vec3Float, maxDistance float64) RaycastResult {
	result := RaycastResult{
		StartPosition: start,
		Direction:     direction,
		MaxDistance:   maxDistance,
		EndPosition:   start.Add(direction.Mul(maxDistance)),
	}

	loc := w.GetBlockAt(start)

	// Старт внутри твёрдого блока: мгновенное попадание
	if loc.IsValid() && loc.Block().IsSolid() {
		result.DidImpact = true
		result.ImpactPosition = start
		result.ImpactFraction = 0
		result.ImpactDistance = 0
		result.ImpactBlock = loc
		result.ImpactNormal = vec.Vec3{X: -sign(direction.X), Y: -sign(direction.Y), Z: -sign(direction.Z)}
		return result
	}

	totalSteps := int(maxDistance * RaycastStepsPerBlock)
	step := direction.Mul(maxDistance / float64(totalSteps))

	position := start
	previousFloored := start.Floor()

	for i := 1; i <= totalSteps; i++ {
		position = position.Add(step)
		floored := position.Floor()

		if floored == previousFloored {
			continue
		}

		// Пересечение границы блока: по одному шагу на каждую
		// изменившуюся ось, X, затем Y, затем Z
		current := previousFloored

		if floored.X != current.X {
			stepX := sign(floored.X - current.X)
			current.X = floored.X
			if loc := w.locatorForBlockCoords(current); loc.Block().IsSolid() {
				return finishImpact(result, position, i, totalSteps, loc, vec.Vec3{X: -stepX})
			}
		}

		if floored.Y != current.Y {
			stepY := sign(floored.Y - current.Y)
			current.Y = floored.Y
			if loc := w.locatorForBlockCoords(current); loc.Block().IsSolid() {
				return finishImpact(result, position, i, totalSteps, loc, vec.Vec3{Y: -stepY})
			}
		}

		if floored.Z != current.Z {
			stepZ := sign(floored.Z - current.Z)
			current.Z = floored.Z
			if loc := w.locatorForBlockCoords(current); loc.Block().IsSolid() {
				return finishImpact(result, position, i, totalSteps, loc, vec.Vec3{Z: -stepZ})
			}
		}

		previousFloored = floored
	}

	// Промах: доля пути ровно единица, без накопленной погрешности
	result.ImpactFraction = 1.0
	result.ImpactDistance = maxDistance
	result.ImpactPosition = result.EndPosition
	return result
}

// finishImpact заполняет результат попадания на под-шаге stepIndex
func finishImpact(result RaycastResult, position vec.Vec3Float, stepIndex, totalSteps int, loc BlockLocator, normal vec.Vec3) RaycastResult {
	result.DidImpact = true
	result.ImpactPosition = position
	result.ImpactFraction = float64(stepIndex) / float64(totalSteps)
	result.ImpactDistance = result.ImpactFraction * result.MaxDistance
	result.ImpactBlock = loc
	result.ImpactNormal = normal
	return result
}

func sign[T int | float64](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
