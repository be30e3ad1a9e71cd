package source

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scene_encoder/utils"
)

func quadMesh() *Mesh {
	return &Mesh{
		UniqueID:      "m",
		ControlPoints: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}},
		Polygons:      [][]int{{0, 1, 2, 3}, {1, 4, 2}},
		UVs: []*LayerElement{{
			Mapping:   ByPolygonVertex,
			Reference: IndexToDirect,
			Data:      []mgl32.Vec4{{0, 0, 0, 0}, {1, 0, 0, 0}, {1, 1, 0, 0}, {0, 1, 0, 0}},
			Index:     []int{0, 1, 2, 3, 1, 0, 2},
		}},
		Normals: []*LayerElement{{
			Mapping:   ByPolygon,
			Reference: Direct,
			Data:      []mgl32.Vec4{{0, 0, 1, 0}, {0, 0, -1, 0}},
		}},
		MaterialIndices: []int{1, 0},
	}
}

func TestTriangulate(t *testing.T) {
	m := quadMesh()
	m.Triangulate()

	require.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}, {1, 4, 2}}, m.Polygons)
	assert.True(t, m.IsTriangleMesh())
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3, 1, 0, 2}, m.UVs[0].Index)
	assert.Equal(t, []mgl32.Vec4{{0, 0, 1, 0}, {0, 0, 1, 0}, {0, 0, -1, 0}}, m.Normals[0].Data)
	assert.Equal(t, []int{1, 1, 0}, m.MaterialIndices)

	uv, ok := m.UVs[0].At(0, 5, 1)
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 0}, uv)
}

func TestTriangulateKeepsTriangles(t *testing.T) {
	m := &Mesh{Polygons: [][]int{{0, 1, 2}}, MaterialIndices: []int{3}, MaterialAllSame: true}
	m.Triangulate()
	assert.Equal(t, [][]int{{0, 1, 2}}, m.Polygons)
	assert.Equal(t, 3, m.MaterialIndex(0))
	assert.Equal(t, -1, (&Mesh{}).MaterialIndex(0))
}

func TestLayerElementAt(t *testing.T) {
	e := &LayerElement{Mapping: ByControlPoint, Data: []mgl32.Vec4{{1}, {2}}}
	v, ok := e.At(1, 7, 3)
	assert.True(t, ok)
	assert.Equal(t, float32(2), v[0])

	_, ok = e.At(5, 0, 0)
	assert.False(t, ok)
}

func TestCurveEvaluate(t *testing.T) {
	c := &Curve{Times: []float64{0, 1000}, Values: []float32{0, 10}, FrameRate: 30}
	assert.Equal(t, float32(0), c.Evaluate(-5))
	assert.Equal(t, float32(5), c.Evaluate(500))
	assert.Equal(t, float32(10), c.Evaluate(1000))
	assert.Equal(t, float32(10), c.Evaluate(2000))
	assert.Equal(t, 1000.0, c.Stop())
}

func TestEvaluateLocalTransform(t *testing.T) {
	layer := &AnimLayer{Name: "Take 001"}
	n := NewNode("1", "n")
	n.Translation = mgl32.Vec3{1, 2, 3}
	n.SetCurve(layer, CurveTX, &Curve{Times: []float64{0, 100}, Values: []float32{0, 10}})

	m := n.EvaluateLocalTransform(layer, 50)
	assert.Equal(t, mgl32.Vec4{5, 2, 3, 1}, m.Col(3))

	m = n.EvaluateLocalTransform(&AnimLayer{}, 50)
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, m.Col(3))
}

func TestPostRotation(t *testing.T) {
	n := NewNode("1", "light")
	n.RotationActive = true
	n.PostRotation = mgl32.Vec3{90, 0, 0}

	expected := mgl32.HomogRotate3DX(mgl32.DegToRad(-90))
	assert.True(t, n.LocalMatrix().ApproxEqualThreshold(expected, 1e-5))

	n.RotationActive = false
	assert.Equal(t, mgl32.Ident4(), n.LocalMatrix())
}

func TestDocumentWalk(t *testing.T) {
	d := NewDocument("a.fbx")
	a := NewNode("1", "a")
	b := NewNode("2", "b")
	c := NewNode("3", "c")
	d.Root.AddChild(a)
	a.AddChild(b)
	d.Root.AddChild(c)
	mesh := quadMesh()
	b.Mesh = mesh
	c.Mesh = mesh

	names := make([]string, 0)
	d.Walk(func(n *Node) { names = append(names, n.Name) })
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Len(t, d.Meshes(), 1)

	d.Triangulate()
	assert.Len(t, mesh.Polygons, 3)
}

func TestPivots(t *testing.T) {
	n := NewNode("1", "door")
	n.RotationPivot = mgl32.Vec3{0, 1, 0}
	n.Rotation = mgl32.Vec3{0, 0, 90}

	p := n.LocalMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 1, 0, 1}, 1e-5), "origin moved to %v", p)

	n = NewNode("2", "lid")
	n.ScalingPivot = mgl32.Vec3{1, 0, 0}
	n.Scaling = mgl32.Vec3{2, 2, 2}
	n.RotationOffset = mgl32.Vec3{0, 0, 5}
	p = n.LocalMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{-1, 0, 5, 1}, 1e-5), "origin moved to %v", p)

	// animated rotation turns around the same pivot
	layer := &AnimLayer{Name: "Take 001"}
	n = NewNode("3", "door")
	n.RotationPivot = mgl32.Vec3{0, 1, 0}
	n.SetCurve(layer, CurveRZ, &Curve{Times: []float64{0, 100}, Values: []float32{0, 180}})
	p = n.EvaluateLocalTransform(layer, 50).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 1, 0, 1}, 1e-5), "origin moved to %v", p)
}

func TestRotationOrder(t *testing.T) {
	n := NewNode("1", "n")
	n.Rotation = mgl32.Vec3{90, 45, 0}
	n.RotationOrder = utils.EulerZYX

	// order is ignored while rotation is inactive
	assert.True(t, n.LocalMatrix().ApproxEqualThreshold(utils.EulerMatrix(n.Rotation), 1e-5))

	n.RotationActive = true
	expected := utils.EulerMatrixOrder(n.Rotation, utils.EulerZYX)
	assert.True(t, n.LocalMatrix().ApproxEqualThreshold(expected, 1e-5))
	assert.False(t, expected.ApproxEqualThreshold(utils.EulerMatrix(n.Rotation), 1e-3))
}
