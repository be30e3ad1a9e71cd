package collada

import (
	"github.com/go-gl/mathgl/mgl32"
	dae "github.com/mogaika/go-collada"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
)

// primitive is a polygon list of mesh flattened from its element kind
type primitive struct {
	kind     string
	material string
	inputs   []*dae.InputShared
	vcount   string
	p        []string
}

// primitives lists polygon primitives of m in order polygons, polylist,
// triangles. Holes of polygons are dropped, their outer boundary is kept.
func primitives(m *dae.Mesh, geomID string) []primitive {
	var res []primitive
	for _, p := range m.Polygons {
		pr := primitive{kind: "polygons", material: p.Material, inputs: p.Input}
		for _, ps := range p.P {
			pr.p = append(pr.p, ps.V)
		}
		for _, ph := range p.Ph {
			pr.p = append(pr.p, ph.P.V)
		}
		res = append(res, pr)
	}
	for _, p := range m.Polylist {
		pr := primitive{kind: "polylist", material: p.Material, inputs: p.Input}
		if p.VCount != nil {
			pr.vcount = p.VCount.V
		}
		if p.P != nil {
			pr.p = []string{p.P.V}
		}
		res = append(res, pr)
	}
	for _, p := range m.Triangles {
		pr := primitive{kind: "triangles", material: p.Material, inputs: p.Input}
		if p.P != nil {
			pr.p = []string{p.P.V}
		}
		res = append(res, pr)
	}

	unsupported := map[string]int{
		"lines":      len(m.Lines),
		"linestrips": len(m.Linestrips),
		"trifans":    len(m.Trifans),
		"tristrips":  len(m.Tristrips),
	}
	for _, kind := range []string{"lines", "linestrips", "trifans", "tristrips"} {
		if unsupported[kind] > 0 {
			encerr.Warning(encerr.WarnUnsupportedSemantic, kind, geomID)
		}
	}
	return res
}

type elementKey struct {
	semantic string
	set      int
}

// meshElement accumulates one polygon vertex channel over all primitives
// of a mesh
type meshElement struct {
	e *source.LayerElement
	// base offset of appended data per source id
	bases map[string]int
}

type meshBuilder struct {
	id       string
	mesh     *source.Mesh
	table    sourceTable
	elements map[elementKey]*meshElement
	order    []elementKey
	// polygon vertices emitted so far
	pv     int
	uneven bool
}

func elementSemantic(s string) string {
	switch s {
	case "NORMAL", "TEXCOORD", "COLOR":
		return s
	case "TANGENT", "TEXTANGENT":
		return "TANGENT"
	case "BINORMAL", "TEXBINORMAL":
		return "BINORMAL"
	}
	return ""
}

func widen(v []float64, i, stride int, semantic string) mgl32.Vec4 {
	r := mgl32.Vec4{}
	if semantic == "COLOR" {
		r[3] = 1
	}
	n := stride
	if n > 4 {
		n = 4
	}
	if semantic == "TEXCOORD" && n > 2 {
		n = 2
	}
	for k := 0; k < n; k++ {
		if j := i*stride + k; j < len(v) {
			r[k] = float32(v[j])
		}
	}
	return r
}

func (b *meshBuilder) element(key elementKey) *meshElement {
	if me, ok := b.elements[key]; ok {
		return me
	}
	me := &meshElement{
		e: &source.LayerElement{
			Mapping:   source.ByPolygonVertex,
			Reference: source.IndexToDirect,
		},
		bases: make(map[string]int),
	}
	// earlier primitives had no such input
	if b.pv > 0 {
		b.uneven = true
		me.e.Index = make([]int, b.pv)
		for i := range me.e.Index {
			me.e.Index[i] = -1
		}
	}
	b.elements[key] = me
	b.order = append(b.order, key)
	return me
}

// base returns offset of source data inside element, appending it on first use
func (b *meshBuilder) base(me *meshElement, src *dataSource, semantic string) int {
	if base, ok := me.bases[string(src.Id)]; ok {
		return base
	}
	base := len(me.e.Data)
	v := src.floats()
	stride := src.stride()
	for i := 0; i < len(v)/stride; i++ {
		me.e.Data = append(me.e.Data, widen(v, i, stride, semantic))
	}
	me.bases[string(src.Id)] = base
	return base
}

// vertexCounts returns vertex count of each polygon of primitive
func vertexCounts(p *primitive, indices [][]int, stride int) []int {
	switch p.kind {
	case "triangles":
		total := 0
		for _, list := range indices {
			total += len(list) / stride
		}
		counts := make([]int, total/3)
		for i := range counts {
			counts[i] = 3
		}
		return counts
	case "polylist":
		return parseInts(p.vcount)
	case "polygons":
		counts := make([]int, len(indices))
		for i, list := range indices {
			counts[i] = len(list) / stride
		}
		return counts
	}
	return nil
}

func (b *meshBuilder) addPrimitive(p *primitive, slot int) {
	stride := 0
	for _, in := range p.inputs {
		if int(in.Offset)+1 > stride {
			stride = int(in.Offset) + 1
		}
	}
	if stride == 0 {
		return
	}

	lists := make([][]int, len(p.p))
	flat := make([]int, 0)
	for i, s := range p.p {
		lists[i] = parseInts(s)
		flat = append(flat, lists[i]...)
	}
	counts := vertexCounts(p, lists, stride)

	vertexOffset := -1
	type channel struct {
		me     *meshElement
		offset int
		base   int
	}
	channels := make([]channel, 0, len(p.inputs))
	used := make(map[*meshElement]bool)
	for _, in := range p.inputs {
		if in.Semantic == "VERTEX" {
			vertexOffset = int(in.Offset)
			continue
		}
		semantic := elementSemantic(in.Semantic)
		src := b.table.get(in.Source)
		if semantic == "" || src == nil {
			encerr.Warning(encerr.WarnUnsupportedVertexSemantic, in.Semantic, b.id)
			continue
		}
		me := b.element(elementKey{semantic: semantic, set: int(in.Set)})
		used[me] = true
		channels = append(channels, channel{me: me, offset: int(in.Offset), base: b.base(me, src, semantic)})
	}
	if vertexOffset < 0 {
		encerr.Warning(encerr.WarnUnsupportedSemantic, "VERTEX", b.id)
		return
	}

	cursor := 0
	for _, count := range counts {
		if count <= 0 || (cursor+count)*stride > len(flat) {
			break
		}
		poly := make([]int, count)
		for k := 0; k < count; k++ {
			at := (cursor + k) * stride
			poly[k] = flat[at+vertexOffset]
			for _, ch := range channels {
				ch.me.e.Index = append(ch.me.e.Index, ch.base+flat[at+ch.offset])
			}
		}
		for _, me := range b.elements {
			if used[me] {
				continue
			}
			b.uneven = true
			for k := 0; k < count; k++ {
				me.e.Index = append(me.e.Index, -1)
			}
		}
		b.mesh.Polygons = append(b.mesh.Polygons, poly)
		b.mesh.MaterialIndices = append(b.mesh.MaterialIndices, slot)
		b.pv += count
		cursor += count
	}
}

// loadVertices reads control points and per control point channels
func (b *meshBuilder) loadVertices(m *dae.Mesh) {
	for _, in := range m.Vertices.Input {
		src := b.table.get(in.Source)
		if src == nil {
			encerr.Warning(encerr.WarnUnresolvedReference, string(in.Source), b.id)
			continue
		}
		if in.Semantic == "POSITION" {
			v := src.floats()
			stride := src.stride()
			for i := 0; i+2 < len(v); i += stride {
				b.mesh.ControlPoints = append(b.mesh.ControlPoints, mgl32.Vec3{float32(v[i]), float32(v[i+1]), float32(v[i+2])})
			}
			continue
		}
		semantic := elementSemantic(in.Semantic)
		if semantic == "" {
			encerr.Warning(encerr.WarnUnsupportedVertexSemantic, in.Semantic, b.id)
			continue
		}
		e := &source.LayerElement{Mapping: source.ByControlPoint, Reference: source.Direct}
		v := src.floats()
		stride := src.stride()
		for i := 0; i < len(v)/stride; i++ {
			e.Data = append(e.Data, widen(v, i, stride, semantic))
		}
		b.attach(semantic, e)
	}
}

func (b *meshBuilder) attach(semantic string, e *source.LayerElement) {
	m := b.mesh
	switch semantic {
	case "NORMAL":
		m.Normals = append(m.Normals, e)
	case "TEXCOORD":
		m.UVs = append(m.UVs, e)
	case "COLOR":
		m.Colors = append(m.Colors, e)
	case "TANGENT":
		m.Tangents = append(m.Tangents, e)
	case "BINORMAL":
		m.Binormals = append(m.Binormals, e)
	}
}

// loadGeometry converts geometry geomID into mesh cached under key. Each
// primitive material symbol becomes a material slot.
func (l *loader) loadGeometry(geomID, key string) *source.Mesh {
	if m, ok := l.meshes[key]; ok {
		return m
	}
	g, ok := l.geometries[geomID]
	if !ok || g.Mesh == nil {
		encerr.Warning(encerr.WarnMeshNotFound, geomID)
		return nil
	}

	name := g.Name
	if name == "" {
		name = string(g.Id)
	}
	b := &meshBuilder{
		id:       geomID,
		mesh:     &source.Mesh{UniqueID: key, Name: name},
		table:    newSourceTable(g.Mesh.Source),
		elements: make(map[elementKey]*meshElement),
	}
	b.loadVertices(g.Mesh)

	symbols := make([]string, 0)
	slots := make(map[string]int)
	prims := primitives(g.Mesh, geomID)
	for i := range prims {
		p := &prims[i]
		slot, ok := slots[p.material]
		if !ok {
			slot = len(symbols)
			slots[p.material] = slot
			symbols = append(symbols, p.material)
		}
		b.addPrimitive(p, slot)
	}

	if len(b.mesh.Polygons) == 0 {
		encerr.Warning(encerr.WarnTrianglesNotFound, geomID)
	}
	if b.uneven {
		encerr.Warning(encerr.WarnUnevenInputSources, geomID)
	}
	for _, k := range b.order {
		b.attach(k.semantic, b.elements[k].e)
	}

	l.meshes[key] = b.mesh
	l.symbols[b.mesh] = symbols

	logger.Debug("collada geometry loaded",
		zap.String("geometry", geomID),
		zap.Int("controlPoints", len(b.mesh.ControlPoints)),
		zap.Int("polygons", len(b.mesh.Polygons)),
		zap.Int("slots", len(symbols)))
	return b.mesh
}

// bindMaterials resolves material of each slot of mesh through bind_material
// symbols. Unbound slots stay nil and get the default material.
func (l *loader) bindMaterials(m *source.Mesh, binds []instanceMaterial) []*source.Material {
	symbols := l.symbols[m]
	res := make([]*source.Material, len(symbols))
	for i, sym := range symbols {
		found := false
		for _, bind := range binds {
			if bind.Symbol != sym {
				continue
			}
			res[i] = l.loadMaterial(fragment(dae.Uri(bind.Target)))
			found = true
			break
		}
		if !found && sym != "" {
			encerr.Warning(encerr.WarnSymbolNotFound, sym)
		}
	}
	return res
}
