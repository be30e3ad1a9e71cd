package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const MaxUVSets = 8

type VertexUsage int

const (
	UsagePosition     VertexUsage = 1
	UsageNormal       VertexUsage = 2
	UsageColor        VertexUsage = 3
	UsageTangent      VertexUsage = 4
	UsageBinormal     VertexUsage = 5
	UsageBlendWeights VertexUsage = 6
	UsageBlendIndices VertexUsage = 7
	UsageTexCoord0    VertexUsage = 8
)

func (u VertexUsage) String() string {
	switch u {
	case UsagePosition:
		return "POSITION"
	case UsageNormal:
		return "NORMAL"
	case UsageColor:
		return "COLOR"
	case UsageTangent:
		return "TANGENT"
	case UsageBinormal:
		return "BINORMAL"
	case UsageBlendWeights:
		return "BLENDWEIGHTS"
	case UsageBlendIndices:
		return "BLENDINDICES"
	}
	if u >= UsageTexCoord0 && u < UsageTexCoord0+MaxUVSets {
		return "TEXCOORD" + string(rune('0'+int(u-UsageTexCoord0)))
	}
	return "UNKNOWN"
}

type VertexAttribute struct {
	Usage VertexUsage
	Size  int
}

// Vertex is compared by value, so all fields must stay comparable
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	Binormal mgl32.Vec3
	TexCoord [MaxUVSets]mgl32.Vec2
	Diffuse  mgl32.Vec4

	BlendWeights mgl32.Vec4
	BlendIndices mgl32.Vec4

	HasNormal   bool
	HasTangent  bool
	HasBinormal bool
	HasTexCoord [MaxUVSets]bool
	HasDiffuse  bool
	HasWeights  bool
}

type MeshPart struct {
	// Material is the symbol name of the part material
	Material string
	Indices  []uint32
}

func (p *MeshPart) IndexFormat32() bool {
	for _, i := range p.Indices {
		if i > math.MaxUint16 {
			return true
		}
	}
	return false
}

type Mesh struct {
	ID         string
	Vertices   []Vertex
	Parts      []*MeshPart
	Attributes []VertexAttribute

	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
	Center    mgl32.Vec3
	Radius    float32

	// Users is the count of models sharing this mesh
	Users int

	lookup map[Vertex]uint32
}

func NewMesh(id string) *Mesh {
	return &Mesh{
		ID:     id,
		lookup: make(map[Vertex]uint32),
	}
}

// AddVertex returns index of v, appending it only when no equal vertex is
// stored yet.
func (m *Mesh) AddVertex(v Vertex) uint32 {
	if m.lookup == nil {
		m.lookup = make(map[Vertex]uint32)
	}
	if idx, ok := m.lookup[v]; ok {
		return idx
	}
	idx := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v)
	m.lookup[v] = idx
	return idx
}

func (m *Mesh) AddPart(p *MeshPart) {
	m.Parts = append(m.Parts, p)
}

// ComputeLayout derives vertex attribute list from the first vertex
func (m *Mesh) ComputeLayout() {
	m.Attributes = []VertexAttribute{{UsagePosition, 3}}
	if len(m.Vertices) == 0 {
		return
	}
	v := &m.Vertices[0]
	if v.HasNormal {
		m.Attributes = append(m.Attributes, VertexAttribute{UsageNormal, 3})
	}
	if v.HasTangent {
		m.Attributes = append(m.Attributes, VertexAttribute{UsageTangent, 3})
	}
	if v.HasBinormal {
		m.Attributes = append(m.Attributes, VertexAttribute{UsageBinormal, 3})
	}
	for i := 0; i < MaxUVSets; i++ {
		if v.HasTexCoord[i] {
			m.Attributes = append(m.Attributes, VertexAttribute{UsageTexCoord0 + VertexUsage(i), 2})
		}
	}
	if v.HasDiffuse {
		m.Attributes = append(m.Attributes, VertexAttribute{UsageColor, 4})
	}
	if v.HasWeights {
		m.Attributes = append(m.Attributes,
			VertexAttribute{UsageBlendWeights, 4},
			VertexAttribute{UsageBlendIndices, 4})
	}
}

func (m *Mesh) HasAttribute(u VertexUsage) bool {
	for _, a := range m.Attributes {
		if a.Usage == u {
			return true
		}
	}
	return false
}

// VertexSize returns count of floats per vertex for current layout
func (m *Mesh) VertexSize() int {
	size := 0
	for _, a := range m.Attributes {
		size += a.Size
	}
	return size
}

// VertexFloats flattens vertex i according to Attributes
func (m *Mesh) VertexFloats(i int) []float32 {
	v := &m.Vertices[i]
	out := make([]float32, 0, m.VertexSize())
	for _, a := range m.Attributes {
		switch a.Usage {
		case UsagePosition:
			out = append(out, v.Position[:]...)
		case UsageNormal:
			out = append(out, v.Normal[:]...)
		case UsageTangent:
			out = append(out, v.Tangent[:]...)
		case UsageBinormal:
			out = append(out, v.Binormal[:]...)
		case UsageColor:
			out = append(out, v.Diffuse[:]...)
		case UsageBlendWeights:
			out = append(out, v.BlendWeights[:]...)
		case UsageBlendIndices:
			out = append(out, v.BlendIndices[:]...)
		default:
			uv := v.TexCoord[a.Usage-UsageTexCoord0]
			out = append(out, uv[:]...)
		}
	}
	return out
}

// ComputeBounds fills bounding box and bounding sphere from vertex positions
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	min := m.Vertices[0].Position
	max := min
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	m.BoundsMin, m.BoundsMax = min, max
	m.Center = min.Add(max).Mul(0.5)

	var radius float32
	for _, v := range m.Vertices {
		if d := v.Position.Sub(m.Center).Len(); d > radius {
			radius = d
		}
	}
	m.Radius = radius
}
