package fbx

import (
	"github.com/go-gl/mathgl/mgl32"
	rawfbx "github.com/mogaika/fbx"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
)

type elementKind struct {
	node       string
	data       string
	index      string
	components int
}

var (
	normalElement   = elementKind{"LayerElementNormal", "Normals", "NormalsIndex", 3}
	tangentElement  = elementKind{"LayerElementTangent", "Tangents", "TangentsIndex", 3}
	binormalElement = elementKind{"LayerElementBinormal", "Binormals", "BinormalsIndex", 3}
	uvElement       = elementKind{"LayerElementUV", "UV", "UVIndex", 2}
	colorElement    = elementKind{"LayerElementColor", "Colors", "ColorIndex", 4}
)

func parseMapping(s string) (source.Mapping, bool) {
	switch s {
	case "ByVertice", "ByVertex", "ByControlPoint":
		return source.ByControlPoint, true
	case "ByPolygonVertex":
		return source.ByPolygonVertex, true
	case "ByPolygon":
		return source.ByPolygon, true
	case "AllSame":
		return source.AllSame, true
	}
	return 0, false
}

func parseReference(s string) source.Reference {
	switch s {
	case "IndexToDirect", "Index":
		return source.IndexToDirect
	}
	return source.Direct
}

// polygons splits fbx polygon vertex index list, negative index ends polygon
func polygons(pvi []int) [][]int {
	res := make([][]int, 0)
	cur := make([]int, 0, 4)
	for _, i := range pvi {
		if i < 0 {
			cur = append(cur, ^i)
			res = append(res, cur)
			cur = make([]int, 0, 4)
		} else {
			cur = append(cur, i)
		}
	}
	if len(cur) != 0 {
		res = append(res, cur)
	}
	return res
}

func loadElements(geom *rawfbx.Node, kind elementKind, meshName string) []*source.LayerElement {
	res := make([]*source.LayerElement, 0)
	for _, en := range children(geom, kind.node) {
		mapping, ok := parseMapping(childString(en, "MappingInformationType"))
		if !ok {
			encerr.Warning(encerr.WarnUnsupportedSemantic, childString(en, "MappingInformationType"), meshName)
			continue
		}

		raw := childFloats(en, kind.data)
		e := &source.LayerElement{
			Name:      childString(en, "Name"),
			Mapping:   mapping,
			Reference: parseReference(childString(en, "ReferenceInformationType")),
			Data:      make([]mgl32.Vec4, len(raw)/kind.components),
		}
		for i := range e.Data {
			for c := 0; c < kind.components; c++ {
				e.Data[i][c] = float32(raw[i*kind.components+c])
			}
		}
		if e.Reference == source.IndexToDirect {
			e.Index = childInts(en, kind.index)
		}
		res = append(res, e)
	}
	return res
}

func (l *loader) loadMesh(o *cache.Object) *source.Mesh {
	if m, ok := l.meshes[o.ID]; ok {
		return m
	}
	if o.Type != "Mesh" {
		encerr.Warning(encerr.WarnMeshNotFound, describe(o))
		return nil
	}

	g := o.Node
	m := &source.Mesh{
		UniqueID:  objectID(o),
		Name:      o.Name,
		Polygons:  polygons(childInts(g, "PolygonVertexIndex")),
		Normals:   loadElements(g, normalElement, o.Name),
		Tangents:  loadElements(g, tangentElement, o.Name),
		Binormals: loadElements(g, binormalElement, o.Name),
		UVs:       loadElements(g, uvElement, o.Name),
		Colors:    loadElements(g, colorElement, o.Name),
	}

	verts := childFloats(g, "Vertices")
	m.ControlPoints = make([]mgl32.Vec3, len(verts)/3)
	for i := range m.ControlPoints {
		m.ControlPoints[i] = mgl32.Vec3{float32(verts[i*3]), float32(verts[i*3+1]), float32(verts[i*3+2])}
	}

	if me := child(g, "LayerElementMaterial"); me != nil {
		m.MaterialIndices = childInts(me, "Materials")
		m.MaterialAllSame = childString(me, "MappingInformationType") == "AllSame"
	}

	for _, d := range o.ChildrenOf("Deformer") {
		if d.Type == "Skin" {
			m.Skins = append(m.Skins, l.loadSkin(d))
		}
	}

	logger.Log.Debug("fbx mesh",
		zap.String("name", m.Name),
		zap.Int("points", len(m.ControlPoints)),
		zap.Int("polygons", len(m.Polygons)),
		zap.Int("skins", len(m.Skins)))

	l.meshes[o.ID] = m
	return m
}
