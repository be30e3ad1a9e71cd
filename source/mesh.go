package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Mapping int

const (
	ByControlPoint Mapping = iota
	ByPolygonVertex
	ByPolygon
	AllSame
)

type Reference int

const (
	Direct Reference = iota
	IndexToDirect
)

// LayerElement is a per vertex attribute channel. Vec2 and Vec3 data is
// stored widened to Vec4.
type LayerElement struct {
	Name      string
	Mapping   Mapping
	Reference Reference
	Data      []mgl32.Vec4
	Index     []int
}

// At returns element value for control point cp, polygon vertex pv of polygon p
func (e *LayerElement) At(cp, pv, p int) (mgl32.Vec4, bool) {
	var i int
	switch e.Mapping {
	case ByControlPoint:
		i = cp
	case ByPolygonVertex:
		i = pv
	case ByPolygon:
		i = p
	case AllSame:
		i = 0
	}
	if e.Reference == IndexToDirect {
		if i < 0 || i >= len(e.Index) {
			return mgl32.Vec4{}, false
		}
		i = e.Index[i]
	}
	if i < 0 || i >= len(e.Data) {
		return mgl32.Vec4{}, false
	}
	return e.Data[i], true
}

type Mesh struct {
	UniqueID      string
	Name          string
	ControlPoints []mgl32.Vec3
	// Polygons hold control point indices; polygon vertices are numbered in
	// order of appearance
	Polygons  [][]int
	Normals   []*LayerElement
	Tangents  []*LayerElement
	Binormals []*LayerElement
	UVs       []*LayerElement
	Colors    []*LayerElement

	// MaterialIndices holds one slot per polygon, or a single slot when
	// MaterialAllSame is set
	MaterialIndices []int
	MaterialAllSame bool

	Skins []*Skin
}

// MaterialIndex returns material slot of polygon p, -1 when unassigned
func (m *Mesh) MaterialIndex(p int) int {
	if len(m.MaterialIndices) == 0 {
		return -1
	}
	if m.MaterialAllSame {
		return m.MaterialIndices[0]
	}
	if p < len(m.MaterialIndices) {
		return m.MaterialIndices[p]
	}
	return -1
}

func (m *Mesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

func (m *Mesh) IsTriangleMesh() bool {
	for _, p := range m.Polygons {
		if len(p) != 3 {
			return false
		}
	}
	return len(m.Polygons) != 0
}

func (m *Mesh) elements() [][]*LayerElement {
	return [][]*LayerElement{m.Normals, m.Tangents, m.Binormals, m.UVs, m.Colors}
}

// Triangulate splits every polygon into a triangle fan in place, remapping
// per polygon vertex and per polygon data.
func (m *Mesh) Triangulate() {
	if m.IsTriangleMesh() {
		return
	}

	polys := make([][]int, 0, len(m.Polygons))
	pvMap := make([]int, 0, m.PolygonVertexCount())
	polyMap := make([]int, 0, len(m.Polygons))

	pv := 0
	for p, poly := range m.Polygons {
		for i := 1; i+1 < len(poly); i++ {
			polys = append(polys, []int{poly[0], poly[i], poly[i+1]})
			pvMap = append(pvMap, pv, pv+i, pv+i+1)
			polyMap = append(polyMap, p)
		}
		pv += len(poly)
	}

	for _, list := range m.elements() {
		for _, e := range list {
			switch e.Mapping {
			case ByPolygonVertex:
				e.remap(pvMap)
			case ByPolygon:
				e.remap(polyMap)
			}
		}
	}

	if !m.MaterialAllSame && len(m.MaterialIndices) != 0 {
		indices := make([]int, len(polyMap))
		for i, src := range polyMap {
			if src < len(m.MaterialIndices) {
				indices[i] = m.MaterialIndices[src]
			} else {
				indices[i] = -1
			}
		}
		m.MaterialIndices = indices
	}

	m.Polygons = polys
}

func (e *LayerElement) remap(mapping []int) {
	if e.Reference == IndexToDirect {
		index := make([]int, len(mapping))
		for i, src := range mapping {
			if src < len(e.Index) {
				index[i] = e.Index[src]
			} else {
				index[i] = -1
			}
		}
		e.Index = index
		return
	}
	data := make([]mgl32.Vec4, len(mapping))
	for i, src := range mapping {
		if src < len(e.Data) {
			data[i] = e.Data[src]
		}
	}
	e.Data = data
}

type Cluster struct {
	Link          *Node
	Indices       []int
	Weights       []float64
	TransformLink mgl32.Mat4
}

type Skin struct {
	Name     string
	Clusters []*Cluster
}
