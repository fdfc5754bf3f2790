package world

import (
	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world/block"
)

// Color представляет цвет вершины RGBA
type Color struct {
	R, G, B, A uint8
}

// Vertex — вершина меша чанка
type Vertex struct {
	Position vec.Vec3Float
	Color    Color
	U, V     float32
}

// Mesh — готовая к загрузке в GPU геометрия: список вершин и индексов.
// Низкоуровневая загрузка буферов — забота внешнего рендерера.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Renderer — внешний потребитель мешей чанков
type Renderer interface {
	DrawChunkMesh(coords vec.Vec2, mesh *Mesh)
}

// MeshBuilder накапливает четырёхугольники граней в вершинно-индексный
// поток. Повторно используется между перестройками меша.
type MeshBuilder struct {
	vertices []Vertex
	indices  []uint32
}

// BeginBuilding начинает новую сборку, сохраняя ёмкость буферов
func (mb *MeshBuilder) BeginBuilding() {
	mb.vertices = mb.vertices[:0]
	mb.indices = mb.indices[:0]
}

// PushQuad добавляет четырёхугольник единичного размера.
// bottomLeft — нижний левый угол, rightDir/upDir — базис плоскости грани.
func (mb *MeshBuilder) PushQuad(bottomLeft, rightDir, upDir vec.Vec3Float, uvs block.UVRect, color Color) {
	base := uint32(len(mb.vertices))

	mb.vertices = append(mb.vertices,
		Vertex{Position: bottomLeft, Color: color, U: uvs.MinU, V: uvs.MaxV},
		Vertex{Position: bottomLeft.Add(rightDir), Color: color, U: uvs.MaxU, V: uvs.MaxV},
		Vertex{Position: bottomLeft.Add(rightDir).Add(upDir), Color: color, U: uvs.MaxU, V: uvs.MinV},
		Vertex{Position: bottomLeft.Add(upDir), Color: color, U: uvs.MinU, V: uvs.MinV},
	)

	mb.indices = append(mb.indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// CreateMesh возвращает новый меш с копией накопленной геометрии
func (mb *MeshBuilder) CreateMesh() *Mesh {
	m := &Mesh{}
	mb.UpdateMesh(m)
	return m
}

// UpdateMesh переписывает геометрию существующего меша на месте,
// не выделяя новый объект
func (mb *MeshBuilder) UpdateMesh(m *Mesh) {
	m.Vertices = append(m.Vertices[:0], mb.vertices...)
	m.Indices = append(m.Indices[:0], mb.indices...)
}

// Clear освобождает накопленные буферы
func (mb *MeshBuilder) Clear() {
	mb.vertices = nil
	mb.indices = nil
}

// BuildMesh строит меш поверхности чанка: по одному четырёхугольнику на
// каждую видимую грань непустого блока. Грань видима, если сосед (в том
// числе через границу чанка) не полностью непрозрачен. Яркость грани
// берётся из блока-соседа — того пространства, в которое грань смотрит, —
// а не из собственного света блока.
func (c *Chunk) BuildMesh() {
	c.meshBuilder.BeginBuilding()

	for index := 0; index < BlocksPerChunk; index++ {
		b := c.blocks[index]
		if b.typeIndex == block.AirIndex {
			continue
		}

		c.pushVerticesForBlock(index, b.Type())
	}

	if c.mesh == nil {
		c.mesh = c.meshBuilder.CreateMesh()
	} else {
		c.meshBuilder.UpdateMesh(c.mesh)
	}

	c.meshDirty = false
}

// pushVerticesForBlock добавляет в строитель грани одного блока.
// Вершины задаются в мировых координатах.
func (c *Chunk) pushVerticesForBlock(index int, t *block.BlockType) {
	local := BlockCoordsFromIndex(index)
	origin := c.OriginWorldPosition()

	min := origin.Add(vec.FromVec3(local))
	max := min.Add(vec.Vec3Float{X: 1, Y: 1, Z: 1})

	xAxis := vec.Vec3Float{X: 1}
	yAxis := vec.Vec3Float{Y: 1}
	zAxis := vec.Vec3Float{Z: 1}

	loc := BlockLocator{chunk: c, index: index}

	eastLoc := loc.ToEast()
	westLoc := loc.ToWest()
	northLoc := loc.ToNorth()
	southLoc := loc.ToSouth()
	aboveLoc := loc.ToAbove()
	belowLoc := loc.ToBelow()

	// Восточная грань (+X)
	if neighbor := eastLoc.Block(); !neighbor.IsFullyOpaque() {
		bottomLeft := vec.Vec3Float{X: max.X, Y: min.Y, Z: min.Z}
		c.meshBuilder.PushQuad(bottomLeft, yAxis, zAxis, t.SideUVs, neighbor.LightingAsColor())
	}

	// Западная грань (-X)
	if neighbor := westLoc.Block(); !neighbor.IsFullyOpaque() {
		bottomLeft := vec.Vec3Float{X: min.X, Y: max.Y, Z: min.Z}
		c.meshBuilder.PushQuad(bottomLeft, yAxis.Neg(), zAxis, t.SideUVs, neighbor.LightingAsColor())
	}

	// Северная грань (+Y)
	if neighbor := northLoc.Block(); !neighbor.IsFullyOpaque() {
		bottomLeft := vec.Vec3Float{X: max.X, Y: max.Y, Z: min.Z}
		c.meshBuilder.PushQuad(bottomLeft, xAxis.Neg(), zAxis, t.SideUVs, neighbor.LightingAsColor())
	}

	// Южная грань (-Y)
	if neighbor := southLoc.Block(); !neighbor.IsFullyOpaque() {
		c.meshBuilder.PushQuad(min, xAxis, zAxis, t.SideUVs, neighbor.LightingAsColor())
	}

	// Верхняя грань (+Z)
	if neighbor := aboveLoc.Block(); !neighbor.IsFullyOpaque() {
		bottomLeft := vec.Vec3Float{X: min.X, Y: max.Y, Z: max.Z}
		c.meshBuilder.PushQuad(bottomLeft, yAxis.Neg(), xAxis, t.TopUVs, neighbor.LightingAsColor())
	}

	// Нижняя грань (-Z)
	if neighbor := belowLoc.Block(); !neighbor.IsFullyOpaque() {
		bottomLeft := vec.Vec3Float{X: max.X, Y: max.Y, Z: min.Z}
		c.meshBuilder.PushQuad(bottomLeft, yAxis.Neg(), xAxis.Neg(), t.BottomUVs, neighbor.LightingAsColor())
	}
}
