package collada

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/encoder"
	"github.com/mogaika/scene_encoder/source"
)

const testDocument = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <asset>
    <unit name="meter" meter="1"/>
    <up_axis>Y_UP</up_axis>
  </asset>
  <library_images>
    <image id="red-image" name="red">
      <init_from>tex/red.png</init_from>
    </image>
  </library_images>
  <library_effects>
    <effect id="Red-fx">
      <profile_COMMON>
        <newparam sid="surf">
          <surface type="2D">
            <init_from>red-image</init_from>
          </surface>
        </newparam>
        <newparam sid="samp">
          <sampler2D>
            <source>surf</source>
            <wrap_s>CLAMP</wrap_s>
            <wrap_t>WRAP</wrap_t>
          </sampler2D>
        </newparam>
        <technique sid="common">
          <phong>
            <ambient><color>0.1 0.1 0.1 1</color></ambient>
            <diffuse><texture texture="samp" texcoord="UVMap"/></diffuse>
            <specular><color>0.5 0.5 0.5 1</color></specular>
            <shininess><float>30</float></shininess>
            <transparent opaque="A_ONE"><color>1 1 1 0.5</color></transparent>
            <transparency><float>1</float></transparency>
          </phong>
        </technique>
      </profile_COMMON>
    </effect>
  </library_effects>
  <library_materials>
    <material id="Red-mat" name="Red">
      <instance_effect url="#Red-fx"/>
    </material>
  </library_materials>
  <library_geometries>
    <geometry id="Box-geom" name="Box">
      <mesh>
        <source id="Box-positions">
          <float_array id="Box-positions-array" count="12">0 0 0 1 0 0 1 1 0 0 1 0</float_array>
          <technique_common>
            <accessor source="#Box-positions-array" count="4" stride="3"/>
          </technique_common>
        </source>
        <source id="Box-normals">
          <float_array id="Box-normals-array" count="3">0 0 1</float_array>
          <technique_common>
            <accessor source="#Box-normals-array" count="1" stride="3"/>
          </technique_common>
        </source>
        <source id="Box-uvs">
          <float_array id="Box-uvs-array" count="8">0 0 1 0 1 1 0 1</float_array>
          <technique_common>
            <accessor source="#Box-uvs-array" count="4" stride="2"/>
          </technique_common>
        </source>
        <vertices id="Box-vertices">
          <input semantic="POSITION" source="#Box-positions"/>
        </vertices>
        <polylist count="1" material="RedSym">
          <input semantic="VERTEX" source="#Box-vertices" offset="0"/>
          <input semantic="NORMAL" source="#Box-normals" offset="1"/>
          <input semantic="TEXCOORD" source="#Box-uvs" offset="2" set="0"/>
          <vcount>4</vcount>
          <p>0 0 0 1 0 1 2 0 2 3 0 3</p>
        </polylist>
        <triangles count="1" material="OtherSym">
          <input semantic="VERTEX" source="#Box-vertices" offset="0"/>
          <p>0 1 2</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
  <library_controllers>
    <controller id="Box-skin">
      <skin source="#Box-geom">
        <bind_shape_matrix>1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1</bind_shape_matrix>
        <source id="Box-skin-joints">
          <Name_array id="Box-skin-joints-array" count="1">hips</Name_array>
          <technique_common>
            <accessor source="#Box-skin-joints-array" count="1" stride="1"/>
          </technique_common>
        </source>
        <source id="Box-skin-bind">
          <float_array id="Box-skin-bind-array" count="16">1 0 0 0 0 1 0 -2 0 0 1 0 0 0 0 1</float_array>
          <technique_common>
            <accessor source="#Box-skin-bind-array" count="1" stride="16"/>
          </technique_common>
        </source>
        <source id="Box-skin-weights">
          <float_array id="Box-skin-weights-array" count="2">1 0.5</float_array>
          <technique_common>
            <accessor source="#Box-skin-weights-array" count="2" stride="1"/>
          </technique_common>
        </source>
        <joints>
          <input semantic="JOINT" source="#Box-skin-joints"/>
          <input semantic="INV_BIND_MATRIX" source="#Box-skin-bind"/>
        </joints>
        <vertex_weights count="4">
          <input semantic="JOINT" source="#Box-skin-joints" offset="0"/>
          <input semantic="WEIGHT" source="#Box-skin-weights" offset="1"/>
          <vcount>1 1 0 0</vcount>
          <v>0 0 0 1</v>
        </vertex_weights>
      </skin>
    </controller>
  </library_controllers>
  <library_cameras>
    <camera id="Cam-camera">
      <optics>
        <technique_common>
          <perspective>
            <yfov>40</yfov>
            <aspect_ratio>1.5</aspect_ratio>
            <znear>0.1</znear>
            <zfar>100</zfar>
          </perspective>
        </technique_common>
      </optics>
    </camera>
  </library_cameras>
  <library_lights>
    <light id="Lamp-light">
      <technique_common>
        <point>
          <color>1 1 1</color>
          <constant_attenuation>1</constant_attenuation>
          <linear_attenuation>0</linear_attenuation>
          <quadratic_attenuation>0.5</quadratic_attenuation>
        </point>
      </technique_common>
    </light>
  </library_lights>
  <library_animations>
    <animation id="Box-anim">
      <source id="Box-anim-input">
        <float_array id="Box-anim-input-array" count="2">0 1</float_array>
        <technique_common>
          <accessor source="#Box-anim-input-array" count="2" stride="1"/>
        </technique_common>
      </source>
      <source id="Box-anim-output">
        <float_array id="Box-anim-output-array" count="2">0 5</float_array>
        <technique_common>
          <accessor source="#Box-anim-output-array" count="2" stride="1"/>
        </technique_common>
      </source>
      <sampler id="Box-anim-sampler">
        <input semantic="INPUT" source="#Box-anim-input"/>
        <input semantic="OUTPUT" source="#Box-anim-output"/>
      </sampler>
      <channel source="#Box-anim-sampler" target="Box/location.X"/>
    </animation>
  </library_animations>
  <library_visual_scenes>
    <visual_scene id="Scene" name="Scene">
      <node id="Hips" sid="hips" name="Hips" type="JOINT">
        <translate sid="location">0 2 0</translate>
      </node>
      <node id="Box" name="Box" type="NODE">
        <translate sid="location">1 2 3</translate>
        <rotate sid="rotationZ">0 0 1 0</rotate>
        <rotate sid="rotationY">0 1 0 90</rotate>
        <rotate sid="rotationX">1 0 0 0</rotate>
        <scale sid="scale">1 1 1</scale>
        <instance_controller url="#Box-skin">
          <skeleton>#Hips</skeleton>
          <bind_material>
            <technique_common>
              <instance_material symbol="RedSym" target="#Red-mat"/>
            </technique_common>
          </bind_material>
        </instance_controller>
      </node>
      <node id="Cam" name="Cam" type="NODE">
        <matrix sid="transform">1 0 0 5 0 1 0 0 0 0 1 0 0 0 0 1</matrix>
        <instance_camera url="#Cam-camera"/>
      </node>
      <node id="Lamp" name="Lamp" type="NODE">
        <instance_light url="#Lamp-light"/>
      </node>
      <node id="Copy" name="Copy" type="NODE">
        <instance_geometry url="#Box-geom">
          <bind_material>
            <technique_common>
              <instance_material symbol="RedSym" target="#Red-mat"/>
            </technique_common>
          </bind_material>
        </instance_geometry>
      </node>
    </visual_scene>
  </library_visual_scenes>
  <scene>
    <instance_visual_scene url="#Scene"/>
  </scene>
</COLLADA>
`

func decodeTestDocument(t *testing.T) *source.Document {
	doc, err := Decode(strings.NewReader(testDocument), "/models/box.dae")
	require.NoError(t, err)
	return doc
}

func child(t *testing.T, doc *source.Document, name string) *source.Node {
	for _, c := range doc.Root.Children {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "node not found", "%s", name)
	return nil
}

func TestParseTarget(t *testing.T) {
	tg, ok := parseTarget("Box/location.X")
	require.True(t, ok)
	assert.Equal(t, target{node: "Box", sid: "location", member: "X"}, tg)

	tg, ok = parseTarget("Box/transform(0)(3)")
	require.True(t, ok)
	assert.Equal(t, "transform", tg.sid)
	assert.Equal(t, "(0)(3)", tg.member)

	tg, ok = parseTarget("Box/rotationY.ANGLE")
	require.True(t, ok)
	assert.Equal(t, "ANGLE", tg.member)

	_, ok = parseTarget("Box")
	assert.False(t, ok)
}

func TestFrameRate(t *testing.T) {
	assert.Equal(t, 25.0, frameRate([]float64{0, 40, 80, 200}))
	assert.Equal(t, 0.0, frameRate([]float64{0}))
	assert.Equal(t, float64(maxFrameRate), frameRate([]float64{0, 0.001, 40}))
}

func TestToUTF8(t *testing.T) {
	data, err := toUTF8([]byte("\xef\xbb\xbf<?xml version=\"1.0\" encoding=\"windows-1251\"?><a>\xc4\xee\xec</a>"))
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a>Дом</a>`, string(data))

	plain := []byte(`<?xml version="1.0" encoding="utf-8"?><a/>`)
	data, err = toUTF8(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, data)

	_, err = toUTF8([]byte(`<?xml version="1.0" encoding="no-such-charset"?><a/>`))
	assert.Error(t, err)
}

func TestTransformsOrder(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<COLLADA version="1.4.1"><library_visual_scenes><visual_scene id="S">
<node id="N">
  <scale sid="s">2 2 2</scale>
  <translate sid="t">1 0 0</translate>
  <skew sid="k">45 1 0 0 0 1 0</skew>
</node></visual_scene></library_visual_scenes></COLLADA>`), "order.dae")
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 1)
	n := doc.Root.Children[0]
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, n.Translation)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, n.Scaling)
}

func TestPolygonsWithHoles(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<COLLADA version="1.4.1">
<library_geometries><geometry id="G"><mesh>
  <source id="P"><float_array id="PA" count="12">0 0 0 1 0 0 1 1 0 0 1 0</float_array>
    <technique_common><accessor source="#PA" count="4" stride="3"/></technique_common></source>
  <vertices id="V"><input semantic="POSITION" source="#P"/></vertices>
  <polygons count="2">
    <input semantic="VERTEX" source="#V" offset="0"/>
    <p>0 1 2</p>
    <ph><p>0 1 2 3</p><h>0 1 2</h></ph>
  </polygons>
  <lines count="1"><input semantic="VERTEX" source="#V" offset="0"/><p>0 1</p></lines>
</mesh></geometry></library_geometries>
<library_visual_scenes><visual_scene id="S"><node id="N"><instance_geometry url="#G"/></node></visual_scene></library_visual_scenes>
</COLLADA>`), "holes.dae")
	require.NoError(t, err)
	m := doc.Root.Children[0].Mesh
	require.NotNil(t, m)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 1, 2, 3}}, m.Polygons)
	assert.Equal(t, []int{0, 0}, m.MaterialIndices)
}

func TestImageInitFromRef(t *testing.T) {
	img := &image{}
	img.InitFrom.Ref = " tex/a.png "
	assert.Equal(t, "tex/a.png", img.path())
	img.InitFrom.V = "tex/b.png"
	assert.Equal(t, "tex/b.png", img.path())
}

func TestMissingVisualScene(t *testing.T) {
	_, err := Decode(strings.NewReader(`<COLLADA version="1.4.1"></COLLADA>`), "empty.dae")
	assert.Error(t, err)
}

func TestMalformedDocument(t *testing.T) {
	_, err := Decode(strings.NewReader(`<COLLADA><library_geometries>`), "broken.dae")
	assert.Error(t, err)
}

func TestLegacyEncoding(t *testing.T) {
	data := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<COLLADA version=\"1.4.1\"><library_visual_scenes><visual_scene id=\"S\">" +
		"<node id=\"Caf\xe9\"/></visual_scene></library_visual_scenes></COLLADA>"
	doc, err := Decode(strings.NewReader(data), "latin1.dae")
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "Café", doc.Root.Children[0].Name)
}

func TestDecodeHierarchy(t *testing.T) {
	doc := decodeTestDocument(t)
	assert.Equal(t, "Scene", doc.Name)
	require.Len(t, doc.Root.Children, 5)

	hips := child(t, doc, "Hips")
	assert.True(t, hips.Skeleton)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, hips.Translation)

	box := child(t, doc, "Box")
	assert.Equal(t, "Box", box.UniqueID)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Translation)
	assert.Equal(t, mgl32.Vec3{0, 90, 0}, box.Rotation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, box.Scaling)

	cam := child(t, doc, "Cam")
	assert.InDelta(t, 5, cam.Translation[0], 1e-5)
	assert.InDelta(t, 0, cam.Translation[1], 1e-5)
}

func TestDecodeMesh(t *testing.T) {
	doc := decodeTestDocument(t)
	m := child(t, doc, "Box").Mesh
	require.NotNil(t, m)

	assert.Len(t, m.ControlPoints, 4)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.ControlPoints[2])
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {0, 1, 2}}, m.Polygons)
	assert.Equal(t, []int{0, 1}, m.MaterialIndices)

	require.Len(t, m.Normals, 1)
	assert.Equal(t, []int{0, 0, 0, 0, -1, -1, -1}, m.Normals[0].Index)

	require.Len(t, m.UVs, 1)
	uv, ok := m.UVs[0].At(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0}, uv)
	_, ok = m.UVs[0].At(0, 4, 1)
	assert.False(t, ok)

	copyMesh := child(t, doc, "Copy").Mesh
	require.NotNil(t, copyMesh)
	assert.NotSame(t, m, copyMesh)
	assert.Empty(t, copyMesh.Skins)
}

func TestDecodeMaterial(t *testing.T) {
	doc := decodeTestDocument(t)
	box := child(t, doc, "Box")
	require.Len(t, box.Materials, 2)
	assert.Nil(t, box.Materials[1])

	mat := box.Materials[0]
	require.NotNil(t, mat)
	assert.Same(t, mat, child(t, doc, "Copy").Materials[0])
	assert.Equal(t, "Red-mat", mat.UniqueID)
	assert.Equal(t, "Red", mat.Name)
	assert.Equal(t, "phong", mat.ShadingModel)
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, mat.Ambient)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, mat.Specular)
	assert.Equal(t, 30.0, mat.Shininess)
	assert.InDelta(t, 0.5, mat.TransparencyFactor, 1e-9)

	require.Len(t, mat.DiffuseTextures, 1)
	tex := mat.DiffuseTextures[0]
	assert.Equal(t, "tex/red.png", tex.Path())
	assert.Equal(t, source.WrapClamp, tex.WrapU)
	assert.Equal(t, source.WrapRepeat, tex.WrapV)
}

func TestDecodeCameraAndLight(t *testing.T) {
	doc := decodeTestDocument(t)

	c := child(t, doc, "Cam").Camera
	require.NotNil(t, c)
	assert.Equal(t, source.ProjectionPerspective, c.Projection)
	assert.Equal(t, source.ApertureVertical, c.ApertureMode)
	assert.Equal(t, 40.0, c.FieldOfView)
	assert.Equal(t, 1.5, c.AspectRatio)
	assert.Equal(t, 0.1, c.NearPlane)
	assert.Equal(t, 100.0, c.FarPlane)

	light := child(t, doc, "Lamp").Light
	require.NotNil(t, light)
	assert.Equal(t, source.LightPoint, light.Type)
	assert.Equal(t, source.DecayQuadratic, light.Decay)
	assert.Equal(t, 0.5, light.DecayStart)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, light.Color)
}

func TestDecodeSkin(t *testing.T) {
	doc := decodeTestDocument(t)
	box, hips := child(t, doc, "Box"), child(t, doc, "Hips")

	require.Len(t, box.Mesh.Skins, 1)
	require.Len(t, box.Mesh.Skins[0].Clusters, 1)
	cl := box.Mesh.Skins[0].Clusters[0]
	assert.Same(t, hips, cl.Link)
	assert.Equal(t, []int{0, 1}, cl.Indices)
	assert.Equal(t, []float64{1, 0.5}, cl.Weights)
	assert.InDelta(t, 2, cl.TransformLink.Col(3)[1], 1e-5)

	require.Len(t, doc.Poses, 1)
	pose := doc.Poses[0]
	assert.True(t, pose.BindPose)
	require.Len(t, pose.Entries, 1)
	assert.Same(t, box, pose.Entries[0].Node)
	assert.Equal(t, mgl32.Ident4(), pose.Entries[0].Matrix)
}

func TestDecodeAnimation(t *testing.T) {
	doc := decodeTestDocument(t)
	box := child(t, doc, "Box")

	require.Len(t, doc.Layers, 1)
	layer := doc.Layers[0]
	assert.Equal(t, defaultLayer, layer.Name)

	cs := box.CurveSet(layer)
	require.NotNil(t, cs)
	c := cs[source.CurveTX]
	require.NotNil(t, c)
	assert.Nil(t, cs[source.CurveTY])
	assert.InDeltaSlice(t, []float64{0, 1000}, c.Times, 1e-9)
	assert.Equal(t, []float32{0, 5}, c.Values)

	m := box.EvaluateLocalTransform(layer, 500)
	assert.InDelta(t, 2.5, m.Col(3)[0], 1e-5)
	assert.InDelta(t, 2, m.Col(3)[1], 1e-5)
}

func TestDecodeAndEncode(t *testing.T) {
	doc := decodeTestDocument(t)

	f, err := encoder.Encode(doc, config.Default())
	require.NoError(t, err)

	assert.NotNil(t, f.MaterialByID("Red"))

	ref, ok := f.NodeByID("Box")
	require.True(t, ok)
	model := f.Node(ref).Model
	require.NotNil(t, model)
	assert.Equal(t, "Box_Mesh", model.Mesh.ID)
	require.NotNil(t, model.Skin)
	assert.Equal(t, []string{"Hips"}, model.Skin.JointNames)

	ref, ok = f.NodeByID("Copy")
	require.True(t, ok)
	require.NotNil(t, f.Node(ref).Model)
	assert.Nil(t, f.Node(ref).Model.Skin)
}
