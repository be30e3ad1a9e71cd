package fbx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	rawfbx "github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/encoder"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

const (
	boxID       int64 = 100
	hipsID      int64 = 110
	camModelID  int64 = 120
	geometryID  int64 = 200
	redID       int64 = 300
	textureID   int64 = 400
	cameraID    int64 = 500
	skinID      int64 = 600
	clusterID   int64 = 610
	poseID      int64 = 700
	stackID     int64 = 800
	layerID     int64 = 810
	curveNodeID int64 = 820
	curveID     int64 = 830
)

func node(name string, props ...interface{}) *rawfbx.Node {
	return &rawfbx.Node{Name: name, Properties: props}
}

func translation(x, y, z float64) []float64 {
	return []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, x, y, z, 1}
}

func testTree() *rawfbx.Node {
	root := node("")
	root.AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXVersion(7400),
		),
		bfbx73.GlobalSettings().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0.5), float64(0.25), float64(0)),
				bfbx73.P("TimeMode", "enum", "", "", int32(11)),
			),
		),
		bfbx73.Definitions().AddNodes(
			bfbx73.ObjectType("Material").AddNodes(
				bfbx73.PropertyTemplate("FbxSurfacePhong").AddNodes(
					bfbx73.Properties70().AddNodes(
						bfbx73.P("AmbientColor", "Color", "", "A", float64(0.5), float64(0.5), float64(0.5)),
						bfbx73.P("DiffuseColor", "Color", "", "A", float64(1), float64(1), float64(1)),
					),
				),
			),
		),
		bfbx73.Objects().AddNodes(
			bfbx73.Model(boxID, "Box\x00\x01Model", "Mesh").AddNodes(
				bfbx73.Version(232),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(1), float64(2), float64(3)),
					bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(90), float64(0)),
				),
			),
			bfbx73.Model(hipsID, "Hips\x00\x01Model", "LimbNode"),
			bfbx73.Model(camModelID, "Cam\x00\x01Model", "Camera"),
			bfbx73.Geometry(geometryID, "Box\x00\x01Geometry", "Mesh").AddNodes(
				bfbx73.Vertices([]float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}),
				bfbx73.PolygonVertexIndex([]int32{0, 1, 2, -4}),
				bfbx73.LayerElementNormal(0).AddNodes(
					bfbx73.MappingInformationType("ByPolygonVertex"),
					bfbx73.ReferenceInformationType("Direct"),
					bfbx73.Normals([]float64{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}),
				),
				bfbx73.LayerElementUV(0).AddNodes(
					bfbx73.MappingInformationType("ByPolygonVertex"),
					bfbx73.ReferenceInformationType("IndexToDirect"),
					bfbx73.UV([]float64{0, 0, 1, 0, 1, 1, 0, 1}),
					bfbx73.UVIndex([]int32{0, 1, 2, 3}),
				),
				bfbx73.LayerElementMaterial(0).AddNodes(
					bfbx73.MappingInformationType("AllSame"),
					bfbx73.ReferenceInformationType("IndexToDirect"),
					bfbx73.Materials([]int32{0}),
				),
			),
			bfbx73.Material(redID, "Red\x00\x01Material", "").AddNodes(
				bfbx73.ShadingModel("phong"),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("DiffuseColor", "Color", "", "A", float64(1), float64(0), float64(0)),
					bfbx73.P("ShininessExponent", "Number", "", "A", float64(30)),
				),
			),
			node("Texture", textureID, "Tex\x00\x01Texture", "").AddNodes(
				node("RelativeFilename", "tex/red.png"),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("WrapModeU", "enum", "", "", int32(1)),
				),
			),
			bfbx73.NodeAttribute(cameraID, "Cam\x00\x01NodeAttribute", "Camera").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("CameraProjectionType", "enum", "", "", int32(1)),
					bfbx73.P("OrthoZoom", "double", "Number", "", float64(2)),
				),
			),
			node("Deformer", skinID, "Skin\x00\x01Deformer", "Skin"),
			node("Deformer", clusterID, "Cluster Hips\x00\x01SubDeformer", "Cluster").AddNodes(
				node("Indexes", []int32{0, 1}),
				node("Weights", []float64{1, 0.5}),
				node("TransformLink", translation(0, 2, 0)),
			),
			node("Pose", poseID, "BindPose\x00\x01Pose", "BindPose").AddNodes(
				node("PoseNode").AddNodes(
					node("Node", boxID),
					node("Matrix", translation(1, 2, 3)),
				),
			),
			node("AnimationStack", stackID, "Take\x00\x01AnimStack", ""),
			node("AnimationLayer", layerID, "Base\x00\x01AnimLayer", ""),
			node("AnimationCurveNode", curveNodeID, "T\x00\x01AnimCurveNode", ""),
			node("AnimationCurve", curveID, "\x00\x01AnimCurve", "").AddNodes(
				node("KeyTime", []int64{0, ticksPerSecond}),
				node("KeyValueFloat", []float32{0, 5}),
			),
		),
		bfbx73.Connections().AddNodes(
			bfbx73.C("OO", boxID, int64(0)),
			bfbx73.C("OO", hipsID, int64(0)),
			bfbx73.C("OO", camModelID, int64(0)),
			bfbx73.C("OO", geometryID, boxID),
			bfbx73.C("OO", redID, boxID),
			bfbx73.C("OP", textureID, redID, "DiffuseColor"),
			bfbx73.C("OO", cameraID, camModelID),
			bfbx73.C("OO", skinID, geometryID),
			bfbx73.C("OO", clusterID, skinID),
			bfbx73.C("OO", hipsID, clusterID),
			bfbx73.C("OO", layerID, stackID),
			bfbx73.C("OO", curveNodeID, layerID),
			bfbx73.C("OP", curveNodeID, boxID, "Lcl Translation"),
			bfbx73.C("OP", curveID, curveNodeID, "d|X"),
			bfbx73.C("OO", int64(999), int64(0)),
		),
	)
	return root
}

func convertTestTree(t *testing.T) *source.Document {
	doc, err := Convert(testTree(), "/models/box.fbx", nil)
	require.NoError(t, err)
	return doc
}

func TestPolygons(t *testing.T) {
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {1, 4, 2}}, polygons([]int{0, 1, 2, -4, 1, 4, -3}))
	assert.Equal(t, [][]int{{0, 1, 2}}, polygons([]int{0, 1, 2}))
	assert.Empty(t, polygons(nil))
}

func TestSplitName(t *testing.T) {
	assert.Equal(t, "Box", splitName("Box\x00\x01Model"))
	assert.Equal(t, "Box", splitName("Model::Box"))
	assert.Equal(t, "", splitName("\x00\x01Geometry"))
}

func TestTicksToMs(t *testing.T) {
	assert.InDelta(t, 1000, ticksToMs(ticksPerSecond), 1e-9)
	assert.InDelta(t, 500, ticksToMs(ticksPerSecond/2), 1e-9)
}

func TestRejectOldVersion(t *testing.T) {
	root := node("")
	root.AddNodes(bfbx73.FBXHeaderExtension().AddNodes(bfbx73.FBXVersion(6100)))

	_, err := Convert(root, "old.fbx", nil)
	assert.Error(t, err)
}

func TestConvertHierarchy(t *testing.T) {
	doc := convertTestTree(t)

	require.Len(t, doc.Root.Children, 3)
	box, hips, cam := doc.Root.Children[0], doc.Root.Children[1], doc.Root.Children[2]
	assert.Equal(t, "Box", box.Name)
	assert.Equal(t, "100", box.UniqueID)
	assert.Equal(t, "Hips", hips.Name)
	assert.Equal(t, "Cam", cam.Name)
	assert.Same(t, doc.Root, box.Parent)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, box.Translation)
	assert.Equal(t, mgl32.Vec3{0, 90, 0}, box.Rotation)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, box.Scaling)
	assert.False(t, box.RotationActive)

	assert.True(t, hips.Skeleton)
	assert.False(t, box.Skeleton)

	require.NotNil(t, cam.Camera)
	assert.Equal(t, source.ProjectionOrthographic, cam.Camera.Projection)
	assert.Equal(t, 2.0, cam.Camera.OrthoZoom)

	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0}, doc.AmbientColor)
}

func TestConvertMesh(t *testing.T) {
	doc := convertTestTree(t)
	m := doc.Root.Children[0].Mesh
	require.NotNil(t, m)

	assert.Len(t, m.ControlPoints, 4)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.ControlPoints[2])
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, m.Polygons)

	require.Len(t, m.Normals, 1)
	assert.Equal(t, source.ByPolygonVertex, m.Normals[0].Mapping)
	assert.Len(t, m.Normals[0].Data, 4)

	require.Len(t, m.UVs, 1)
	uv := m.UVs[0]
	assert.Equal(t, source.IndexToDirect, uv.Reference)
	assert.Equal(t, []int{0, 1, 2, 3}, uv.Index)
	v, ok := uv.At(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 0}, v)

	assert.True(t, m.MaterialAllSame)
	assert.Equal(t, 0, m.MaterialIndex(0))
}

func TestConvertMaterial(t *testing.T) {
	doc := convertTestTree(t)
	box := doc.Root.Children[0]
	require.Len(t, box.Materials, 1)

	mat := box.Materials[0]
	assert.Equal(t, "300", mat.UniqueID)
	assert.Equal(t, "Red", mat.Name)
	assert.Equal(t, "phong", mat.ShadingModel)
	assert.True(t, mat.HasSpecular())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mat.Diffuse)
	// not set on the object, comes from the type template
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, mat.Ambient)
	assert.Equal(t, 30.0, mat.Shininess)

	require.Len(t, mat.DiffuseTextures, 1)
	tex := mat.DiffuseTextures[0]
	assert.Equal(t, "tex/red.png", tex.Path())
	assert.Equal(t, source.WrapClamp, tex.WrapU)
	assert.Equal(t, source.WrapRepeat, tex.WrapV)
}

func TestConvertSkinAndPose(t *testing.T) {
	doc := convertTestTree(t)
	box, hips := doc.Root.Children[0], doc.Root.Children[1]

	require.Len(t, box.Mesh.Skins, 1)
	require.Len(t, box.Mesh.Skins[0].Clusters, 1)
	cl := box.Mesh.Skins[0].Clusters[0]
	assert.Same(t, hips, cl.Link)
	assert.Equal(t, []int{0, 1}, cl.Indices)
	assert.Equal(t, []float64{1, 0.5}, cl.Weights)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, cl.TransformLink.Col(3).Vec3())

	require.Len(t, doc.Poses, 1)
	pose := doc.Poses[0]
	assert.True(t, pose.BindPose)
	require.Len(t, pose.Entries, 1)
	assert.Same(t, box, pose.Entries[0].Node)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pose.Entries[0].Matrix.Col(3).Vec3())
}

func TestConvertAnimation(t *testing.T) {
	doc := convertTestTree(t)
	box := doc.Root.Children[0]

	require.Len(t, doc.Layers, 1)
	layer := doc.Layers[0]
	assert.Equal(t, "Base", layer.Name)
	assert.Equal(t, "Take", layer.Stack)

	cs := box.CurveSet(layer)
	require.NotNil(t, cs)
	c := cs[source.CurveTX]
	require.NotNil(t, c)
	assert.Nil(t, cs[source.CurveTY])
	assert.InDeltaSlice(t, []float64{0, 1000}, c.Times, 1e-9)
	assert.Equal(t, []float32{0, 5}, c.Values)
	assert.Equal(t, 24.0, c.FrameRate)

	m := box.EvaluateLocalTransform(layer, 500)
	assert.InDelta(t, 2.5, m.Col(3)[0], 1e-5)
	assert.InDelta(t, 2, m.Col(3)[1], 1e-5)
}

func TestConvertAndEncode(t *testing.T) {
	doc := convertTestTree(t)

	f, err := encoder.Encode(doc, config.Default())
	require.NoError(t, err)

	require.Len(t, f.Materials, 1)
	assert.Equal(t, "Red", f.Materials[0].ID)
	require.Len(t, f.Meshes, 1)
	assert.Equal(t, "Box_Mesh", f.Meshes[0].ID)

	ref, ok := f.NodeByID("Box")
	require.True(t, ok)
	require.NotNil(t, f.Node(ref).Model)
	require.NotNil(t, f.Node(ref).Model.Skin)
	assert.Equal(t, []string{"Hips"}, f.Node(ref).Model.Skin.JointNames)
}

func twoModelsTree(props ...*rawfbx.Node) *rawfbx.Node {
	geometry := func(id int64) *rawfbx.Node {
		return bfbx73.Geometry(id, "Tri\x00\x01Geometry", "Mesh").AddNodes(
			bfbx73.Vertices([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}),
			bfbx73.PolygonVertexIndex([]int32{0, 1, -3}),
		)
	}
	material := func(id int64, r, b float64) *rawfbx.Node {
		return bfbx73.Material(id, "Mat\x00\x01Material", "").AddNodes(
			bfbx73.ShadingModel("lambert"),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("DiffuseColor", "Color", "", "A", r, float64(0), b),
			),
		)
	}

	root := node("")
	root.AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(bfbx73.FBXVersion(7400)),
		bfbx73.Objects().AddNodes(
			bfbx73.Model(11, "A\x00\x01Model", "Mesh").AddNodes(
				bfbx73.Properties70().AddNodes(props...),
			),
			bfbx73.Model(12, "B\x00\x01Model", "Mesh"),
			geometry(13),
			geometry(14),
			material(21, 1, 0),
			material(22, 0, 1),
		),
		bfbx73.Connections().AddNodes(
			bfbx73.C("OO", int64(11), int64(0)),
			bfbx73.C("OO", int64(12), int64(0)),
			bfbx73.C("OO", int64(13), int64(11)),
			bfbx73.C("OO", int64(14), int64(12)),
			bfbx73.C("OO", int64(21), int64(11)),
			bfbx73.C("OO", int64(22), int64(12)),
		),
	)
	return root
}

func TestSameNamedMaterialsStayDistinct(t *testing.T) {
	doc, err := Convert(twoModelsTree(), "/models/mats.fbx", nil)
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 2)
	a, b := doc.Root.Children[0].Materials[0], doc.Root.Children[1].Materials[0]
	assert.Equal(t, "21", a.UniqueID)
	assert.Equal(t, "22", b.UniqueID)
	assert.Equal(t, a.Name, b.Name)

	f, err := encoder.Encode(doc, config.Default())
	require.NoError(t, err)
	require.Len(t, f.Materials, 2)
	assert.Equal(t, "Mat", f.Materials[0].ID)
	assert.Equal(t, "Mat_0", f.Materials[1].ID)

	refA, ok := f.NodeByID("A")
	require.True(t, ok)
	refB, ok := f.NodeByID("B")
	require.True(t, ok)
	matA := f.Node(refA).Model.Materials[0]
	matB := f.Node(refB).Model.Materials[0]
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, matA.Effect.Diffuse)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, matB.Effect.Diffuse)
	assert.Equal(t, "Mat_0", f.Node(refB).Model.Mesh.Parts[0].Material)
}

func TestConvertPivots(t *testing.T) {
	doc, err := Convert(twoModelsTree(
		bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(90)),
		bfbx73.P("RotationPivot", "Vector3D", "Vector", "", float64(0), float64(1), float64(0)),
		bfbx73.P("ScalingPivot", "Vector3D", "Vector", "", float64(0), float64(1), float64(0)),
		bfbx73.P("RotationOffset", "Vector3D", "Vector", "", float64(0), float64(0), float64(2)),
		bfbx73.P("RotationOrder", "enum", "", "", int32(5)),
	), "/models/pivot.fbx", nil)
	require.NoError(t, err)

	a := doc.Root.Children[0]
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, a.RotationPivot)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, a.ScalingPivot)
	assert.Equal(t, mgl32.Vec3{0, 0, 2}, a.RotationOffset)
	assert.Equal(t, utils.EulerZYX, a.RotationOrder)

	p := a.LocalMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{1, 1, 2, 1}, 1e-5), "origin moved to %v", p)
}
