package fbx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

func isSkeletonType(t string) bool {
	switch t {
	case "LimbNode", "Limb", "Root", "Skeleton":
		return true
	}
	return false
}

func (l *loader) loadNode(o *cache.Object) *source.Node {
	n := source.NewNode(objectID(o), o.Name)
	p := l.properties(o)

	n.Translation = p.vec3("Lcl Translation", mgl32.Vec3{})
	n.Rotation = p.vec3("Lcl Rotation", mgl32.Vec3{})
	n.Scaling = p.vec3("Lcl Scaling", mgl32.Vec3{1, 1, 1})
	n.PreRotation = p.vec3("PreRotation", mgl32.Vec3{})
	n.PostRotation = p.vec3("PostRotation", mgl32.Vec3{})
	n.RotationActive = p.flag("RotationActive", false)
	n.RotationOrder = utils.EulerOrder(p.integer("RotationOrder", 0))
	n.RotationOffset = p.vec3("RotationOffset", mgl32.Vec3{})
	n.RotationPivot = p.vec3("RotationPivot", mgl32.Vec3{})
	n.ScalingOffset = p.vec3("ScalingOffset", mgl32.Vec3{})
	n.ScalingPivot = p.vec3("ScalingPivot", mgl32.Vec3{})
	n.Skeleton = isSkeletonType(o.Type)
	return n
}

// linkNode attaches model o and its subtree to parent in connection order
func (l *loader) linkNode(parent *source.Node, o *cache.Object) {
	n := l.nodes[o.ID]
	if n == nil || n.Parent != nil {
		return
	}
	parent.AddChild(n)
	for _, c := range o.ChildrenOf("Model") {
		l.linkNode(n, c)
	}
}

func (l *loader) loadNodeAttributes(o *cache.Object) {
	n := l.nodes[o.ID]
	if n == nil {
		return
	}

	for _, a := range o.ChildrenOf("NodeAttribute") {
		switch a.Type {
		case "Camera":
			n.Camera = l.loadCamera(a)
		case "Light":
			n.Light = l.loadLight(a)
		default:
			if isSkeletonType(a.Type) {
				n.Skeleton = true
			}
		}
	}

	for _, g := range o.ChildrenOf("Geometry") {
		if n.Mesh != nil {
			break
		}
		n.Mesh = l.loadMesh(g)
	}

	for _, m := range o.ChildrenOf("Material") {
		n.Materials = append(n.Materials, l.loadMaterial(m))
	}
}

func (l *loader) loadCamera(o *cache.Object) *source.Camera {
	p := l.properties(o)
	c := source.NewCamera()

	switch p.integer("CameraProjectionType", 0) {
	case 0:
		c.Projection = source.ProjectionPerspective
	case 1:
		c.Projection = source.ProjectionOrthographic
	default:
		c.Projection = source.ProjectionUnknown
	}

	if mode := p.integer("ApertureMode", int(c.ApertureMode)); mode >= 0 && mode <= int(source.ApertureFocalLength) {
		c.ApertureMode = source.ApertureMode(mode)
	}
	c.FieldOfView = p.number("FieldOfView", c.FieldOfView)
	c.FieldOfViewY = p.number("FieldOfViewY", c.FieldOfView)
	if c.ApertureMode == source.ApertureHorizontal && p.has("FieldOfViewX") {
		c.FieldOfView = p.number("FieldOfViewX", c.FieldOfView)
	}
	c.FocalLength = p.number("FocalLength", c.FocalLength)
	c.ApertureWidth = p.number("FilmWidth", c.ApertureWidth)
	c.ApertureHeight = p.number("FilmHeight", c.ApertureHeight)
	c.SqueezeRatio = p.number("FilmSqueezeRatio", c.SqueezeRatio)
	if w, h := p.number("AspectWidth", 0), p.number("AspectHeight", 0); w > 0 && h > 0 {
		c.AspectRatio = w / h
	}
	c.NearPlane = p.number("NearPlane", c.NearPlane)
	c.FarPlane = p.number("FarPlane", c.FarPlane)
	c.OrthoZoom = p.number("OrthoZoom", c.OrthoZoom)
	return c
}

func (l *loader) loadLight(o *cache.Object) *source.Light {
	p := l.properties(o)
	return &source.Light{
		Type:       source.LightType(p.integer("LightType", int(source.LightPoint))),
		Color:      p.vec3("Color", mgl32.Vec3{1, 1, 1}),
		Decay:      source.DecayType(p.integer("DecayType", int(source.DecayNone))),
		DecayStart: p.number("DecayStart", 0),
		OuterAngle: p.number("OuterAngle", p.number("Cone angle", 45)),
	}
}
