package output

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/utils"
)

type gltfExporter struct {
	f         *scene.File
	doc       *gltf.Document
	meshes    map[*scene.Mesh]uint32
	materials map[*scene.Material]uint32
}

// BuildGLTF converts file into gltf document: node tree, meshes with one
// primitive per part, materials, skins and animations
func BuildGLTF(f *scene.File) *gltf.Document {
	e := &gltfExporter{
		f:         f,
		doc:       gltf.NewDocument(),
		meshes:    make(map[*scene.Mesh]uint32),
		materials: make(map[*scene.Material]uint32),
	}

	for _, n := range f.Nodes {
		// animated nodes must carry trs instead of matrix
		s, r, t := utils.Decompose(n.Transform)
		e.doc.Nodes = append(e.doc.Nodes, &gltf.Node{
			Name:        n.ID,
			Translation: t,
			Rotation:    r.V.Vec4(r.W),
			Scale:       s,
		})
	}
	for i, n := range f.Nodes {
		gn := e.doc.Nodes[i]
		for _, c := range n.Children {
			gn.Children = append(gn.Children, uint32(c))
		}
		if n.Model != nil && n.Model.Mesh != nil {
			gn.Mesh = gltf.Index(e.mesh(n.Model))
			if n.Model.Skin != nil {
				gn.Skin = gltf.Index(e.skin(n.Model.Skin))
			}
		}
	}

	for _, ref := range f.Roots() {
		e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, uint32(ref))
	}
	if f.Scene.ID != "" {
		e.doc.Scenes[0].Name = f.Scene.ID
	}

	for _, a := range f.Animations {
		e.animation(a)
	}
	return e.doc
}

// ExportGLTF writes file as gltf, binary container when asBinary is set
func ExportGLTF(w io.Writer, f *scene.File, asBinary bool) error {
	doc := BuildGLTF(f)
	if !asBinary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = asBinary
	return errors.Wrapf(encoder.Encode(doc), "Can't encode gltf")
}

func (e *gltfExporter) material(m *scene.Material) uint32 {
	if idx, ok := e.materials[m]; ok {
		return idx
	}
	color := [4]float32(m.Effect.Diffuse)
	gm := &gltf.Material{
		Name:        m.ID,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
		},
	}
	if m.Effect.Alpha < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, gm)
	e.materials[m] = idx
	return idx
}

func (e *gltfExporter) mesh(model *scene.Model) uint32 {
	m := model.Mesh
	if idx, ok := e.meshes[m]; ok {
		return idx
	}

	count := len(m.Vertices)
	positions := make([][3]float32, count)
	for i, v := range m.Vertices {
		positions[i] = [3]float32(v.Position)
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(e.doc, positions),
	}

	if m.HasAttribute(scene.UsageNormal) {
		normals := make([][3]float32, count)
		for i, v := range m.Vertices {
			normals[i] = [3]float32(v.Normal)
		}
		attributes["NORMAL"] = modeler.WriteNormal(e.doc, normals)
	}
	for set := 0; set < scene.MaxUVSets; set++ {
		if !m.HasAttribute(scene.UsageTexCoord0 + scene.VertexUsage(set)) {
			continue
		}
		uvs := make([][2]float32, count)
		for i, v := range m.Vertices {
			// gltf uv origin is top left
			uvs[i] = [2]float32{v.TexCoord[set][0], 1 - v.TexCoord[set][1]}
		}
		attributes[fmt.Sprintf("TEXCOORD_%d", set)] = modeler.WriteTextureCoord(e.doc, uvs)
	}
	if m.HasAttribute(scene.UsageColor) {
		colors := make([][4]float32, count)
		for i, v := range m.Vertices {
			colors[i] = [4]float32(v.Diffuse)
		}
		attributes["COLOR_0"] = modeler.WriteColor(e.doc, colors)
	}
	if m.HasAttribute(scene.UsageBlendWeights) {
		joints := make([][4]uint16, count)
		weights := make([][4]float32, count)
		for i, v := range m.Vertices {
			for j := 0; j < 4; j++ {
				joints[i][j] = uint16(v.BlendIndices[j])
			}
			weights[i] = [4]float32(v.BlendWeights)
		}
		attributes["JOINTS_0"] = modeler.WriteJoints(e.doc, joints)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(e.doc, weights)
	}

	gm := &gltf.Mesh{Name: m.ID}
	for i, p := range m.Parts {
		if len(p.Indices) == 0 {
			continue
		}
		prim := &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(e.doc, p.Indices)),
			Attributes: attributes,
		}
		if mat := model.Material(i); mat != nil {
			prim.Material = gltf.Index(e.material(mat))
		}
		gm.Primitives = append(gm.Primitives, prim)
	}

	idx := uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, gm)
	e.meshes[m] = idx
	return idx
}

func (e *gltfExporter) skin(s *scene.MeshSkin) uint32 {
	mats := make([][4][4]float32, len(s.BindPoses))
	for i, bp := range s.BindPoses {
		for c := 0; c < 4; c++ {
			mats[i][c] = [4]float32(bp.Col(c))
		}
	}
	gs := &gltf.Skin{
		Name:                s.Mesh.ID + "_Skin",
		InverseBindMatrices: gltf.Index(modeler.WriteAccessor(e.doc, gltf.TargetNone, mats)),
	}
	for _, j := range s.Joints {
		gs.Joints = append(gs.Joints, uint32(j))
	}
	idx := uint32(len(e.doc.Skins))
	e.doc.Skins = append(e.doc.Skins, gs)
	return idx
}

// channelTracks splits fused key tuples into scale, rotation and translation
// tracks. Single axis attributes have no gltf counterpart.
func channelTracks(c *scene.AnimationChannel) (scale, trans [][3]float32, rot [][4]float32) {
	var hasS, hasR, hasT bool
	switch c.TargetAttribute {
	case scene.AnimateScale:
		hasS = true
	case scene.AnimateRotate:
		hasR = true
	case scene.AnimateTranslate:
		hasT = true
	case scene.AnimateRotateTranslate:
		hasR, hasT = true, true
	case scene.AnimateScaleRotateTranslate:
		hasS, hasR, hasT = true, true, true
	case scene.AnimateScaleTranslate:
		hasS, hasT = true, true
	case scene.AnimateScaleRotate:
		hasS, hasR = true, true
	default:
		return nil, nil, nil
	}

	for i := 0; i < c.KeyCount(); i++ {
		key := c.Key(i)
		if hasS {
			scale = append(scale, [3]float32{key[0], key[1], key[2]})
			key = key[3:]
		}
		if hasR {
			rot = append(rot, [4]float32{key[0], key[1], key[2], key[3]})
			key = key[4:]
		}
		if hasT {
			trans = append(trans, [3]float32{key[0], key[1], key[2]})
		}
	}
	return scale, trans, rot
}

func (e *gltfExporter) animation(a *scene.Animation) {
	ga := &gltf.Animation{Name: a.ID}

	for _, c := range a.Channels {
		ref, ok := e.f.NodeByID(c.TargetID)
		if !ok {
			continue
		}
		scale, trans, rot := channelTracks(c)
		if scale == nil && trans == nil && rot == nil {
			continue
		}

		times := make([]float32, len(c.KeyTimes))
		for i, t := range c.KeyTimes {
			times[i] = t / 1000
		}
		input := modeler.WriteAccessor(e.doc, gltf.TargetNone, times)

		interpolation := gltf.InterpolationLinear
		if c.Interpolation == scene.InterpolationStep {
			interpolation = gltf.InterpolationStep
		}

		add := func(path gltf.TRSProperty, output uint32) {
			ga.Samplers = append(ga.Samplers, &gltf.AnimationSampler{
				Input:         gltf.Index(input),
				Output:        gltf.Index(output),
				Interpolation: interpolation,
			})
			ga.Channels = append(ga.Channels, &gltf.Channel{
				Sampler: gltf.Index(uint32(len(ga.Samplers) - 1)),
				Target: gltf.ChannelTarget{
					Node: gltf.Index(uint32(ref)),
					Path: path,
				},
			})
		}
		if scale != nil {
			add(gltf.TRSScale, modeler.WriteAccessor(e.doc, gltf.TargetNone, scale))
		}
		if rot != nil {
			add(gltf.TRSRotation, modeler.WriteAccessor(e.doc, gltf.TargetNone, rot))
		}
		if trans != nil {
			add(gltf.TRSTranslation, modeler.WriteAccessor(e.doc, gltf.TargetNone, trans))
		}
	}

	if len(ga.Channels) != 0 {
		e.doc.Animations = append(e.doc.Animations, ga)
	}
}
