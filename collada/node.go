package collada

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	dae "github.com/mogaika/go-collada"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

const trsEpsilon = 1e-4

// rowMajor converts collada matrix text order into mgl32 column major matrix
func rowMajor(v []float64) (mgl32.Mat4, bool) {
	if len(v) < 16 {
		return mgl32.Ident4(), false
	}
	var m mgl32.Mat4
	for i := range m {
		m[i] = float32(v[i])
	}
	return m.Transpose(), true
}

func vec3(v []float64, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) < 3 {
		return def
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// axisIndex returns 0, 1, 2 for unit x, y, z axis, -1 otherwise
func axisIndex(axis mgl32.Vec3) int {
	for i := 0; i < 3; i++ {
		var unit mgl32.Vec3
		unit[i] = 1
		if axis.ApproxEqual(unit) {
			return i
		}
	}
	return -1
}

// transform is one element of node transform stack
type transform struct {
	kind   string
	sid    string
	values []float64
}

// transforms lists transform stack of n. Elements are grouped by kind in
// the order lookat, matrix, translate, rotate, scale, skew.
func transforms(n *dae.Node) []transform {
	var res []transform
	add := func(kind, sid string, v dae.Floats) {
		res = append(res, transform{kind: kind, sid: sid, values: parseFloats(v.V)})
	}
	for _, t := range n.Lookat {
		add("lookat", t.Sid, t.Floats)
	}
	for _, t := range n.Matrix {
		add("matrix", t.Sid, t.Floats)
	}
	for _, t := range n.Translate {
		add("translate", t.Sid, t.Floats)
	}
	for _, t := range n.Rotate {
		add("rotate", t.Sid, t.Floats)
	}
	for _, t := range n.Scale {
		add("scale", t.Sid, t.Floats)
	}
	for _, t := range n.Skew {
		add("skew", t.Sid, t.Floats)
	}
	return res
}

// applyTransforms folds transform stack of n into local channels of sn.
// Stacks of translate, axis rotates and scale keep their values so
// animation curves stay consistent with them, other stacks are decomposed.
func applyTransforms(sn *source.Node, n *dae.Node) {
	m := mgl32.Ident4()
	t, r, s := mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}
	simple := true

	for _, e := range transforms(n) {
		v := e.values
		switch e.kind {
		case "matrix":
			mm, _ := rowMajor(v)
			m = m.Mul4(mm)
			simple = false
		case "translate":
			tv := vec3(v, mgl32.Vec3{})
			m = m.Mul4(mgl32.Translate3D(tv[0], tv[1], tv[2]))
			t = t.Add(tv)
		case "rotate":
			if len(v) < 4 {
				continue
			}
			axis := vec3(v, mgl32.Vec3{0, 0, 1})
			angle := float32(v[3])
			if axis.Len() == 0 {
				continue
			}
			m = m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
			if ai := axisIndex(axis); ai >= 0 {
				r[ai] += angle
			} else {
				simple = false
			}
		case "scale":
			sv := vec3(v, mgl32.Vec3{1, 1, 1})
			m = m.Mul4(mgl32.Scale3D(sv[0], sv[1], sv[2]))
			s = mgl32.Vec3{s[0] * sv[0], s[1] * sv[1], s[2] * sv[2]}
		case "lookat":
			if len(v) < 9 {
				continue
			}
			eye, center, up := vec3(v[0:3], mgl32.Vec3{}), vec3(v[3:6], mgl32.Vec3{}), vec3(v[6:9], mgl32.Vec3{0, 1, 0})
			m = m.Mul4(mgl32.LookAtV(eye, center, up).Inv())
			simple = false
		case "skew":
			encerr.Warning(encerr.WarnTransformNotSupported, "skew")
		}
	}

	if simple && utils.ComposeTRS(t, r, s).ApproxEqualThreshold(m, trsEpsilon) {
		sn.Translation, sn.Rotation, sn.Scaling = t, r, s
		return
	}

	scale, rot, trans := utils.Decompose(m)
	sn.Translation = trans
	sn.Rotation = utils.RadiansToDegreeV3(utils.QuatToEuler(rot))
	sn.Scaling = scale
}

func (l *loader) loadNode(parent *source.Node, n *dae.Node, prefix string) *source.Node {
	id := string(n.Id)
	key := l.nodeKey(id, prefix)
	name := id
	if name == "" {
		name = n.Name
	}

	sn := source.NewNode(key, name)
	applyTransforms(sn, n)
	sn.Skeleton = n.Type == "JOINT"
	parent.AddChild(sn)

	l.raw[sn] = n
	if _, ok := l.byID[id]; !ok && id != "" {
		l.byID[id] = sn
	}

	host := sn
	for _, ig := range n.InstanceGeometry {
		target := l.meshHost(sn, &host, ig.Url)
		mesh := l.loadGeometry(fragment(ig.Url), fragment(ig.Url))
		if mesh == nil {
			encerr.Error(encerr.ErrResolvingGeometryURL, string(ig.Url))
			continue
		}
		target.Mesh = mesh
		target.Materials = l.bindMaterials(mesh, instanceMaterials(ig.BindMaterial))
	}
	for _, ic := range n.InstanceController {
		target := l.meshHost(sn, &host, ic.Url)
		l.loadController(target, ic)
	}

	for _, il := range n.InstanceLight {
		if sn.Light == nil {
			sn.Light = l.loadLight(fragment(il.Url))
		}
	}
	for _, ic := range n.InstanceCamera {
		if sn.Camera == nil {
			sn.Camera = l.loadCamera(fragment(ic.Url))
		}
	}

	for _, c := range n.Node {
		l.loadNode(sn, c, prefix)
	}
	for _, in := range n.InstanceNode {
		lib, ok := l.libNodes[fragment(in.Url)]
		if !ok {
			encerr.Error(encerr.ErrColladaNodeNotFound, string(in.Url))
			continue
		}
		l.loadNode(sn, lib, key+"/")
	}
	return sn
}

// meshHost returns node receiving next mesh instance of sn. Node holds one
// mesh, further instances go to generated children.
func (l *loader) meshHost(sn *source.Node, host **source.Node, url dae.Uri) *source.Node {
	if *host != nil && (*host).Mesh == nil {
		return *host
	}
	child := source.NewNode(sn.UniqueID+"/"+fragment(url), sn.Name+"_"+fragment(url))
	sn.AddChild(child)
	*host = child
	return child
}

func (l *loader) loadLight(id string) *source.Light {
	def, ok := l.lights[id]
	var lc lightCommon
	if ok {
		if err := decodeCommon(def.TechniqueCommon, &lc); err != nil {
			logger.Debug("collada light technique skipped", zap.String("light", id), zap.Error(err))
		}
	}
	if len(lc.Params) == 0 {
		encerr.Error(encerr.ErrColladaNodeFailed, id)
		return nil
	}
	p := &lc.Params[0]
	var color []float64
	if p.Color != nil {
		color = parseFloats(p.Color.V)
	}
	sl := &source.Light{
		Color: vec3(color, mgl32.Vec3{1, 1, 1}),
	}

	switch p.XMLName.Local {
	case "ambient":
		sl.Type = source.LightPoint
		sl.Decay = source.DecayNone
	case "directional":
		sl.Type = source.LightDirectional
	case "point", "spot":
		sl.Type = source.LightPoint
		if p.XMLName.Local == "spot" {
			sl.Type = source.LightSpot
			sl.OuterAngle = floatOr(p.FalloffAngle, 180)
		}
		if q := floatOr(p.QuadraticAttenuation, 0); q > 0 {
			sl.Decay = source.DecayQuadratic
			sl.DecayStart = q
		} else {
			sl.Decay = source.DecayLinear
			sl.DecayStart = floatOr(p.LinearAttenuation, 0)
		}
	default:
		encerr.Warning(encerr.WarnUnknownLightType, id)
		sl.Type = source.LightVolume
	}
	return sl
}

func (l *loader) loadCamera(id string) *source.Camera {
	def, ok := l.cameras[id]
	var oc opticsCommon
	if ok {
		if err := decodeCommon(def.Optics.TechniqueCommon, &oc); err != nil {
			logger.Debug("collada optics skipped", zap.String("camera", id), zap.Error(err))
		}
	}
	if len(oc.Projections) == 0 {
		encerr.Error(encerr.ErrColladaNodeFailed, id)
		return nil
	}
	p := &oc.Projections[0]
	c := source.NewCamera()
	c.NearPlane = floatOr(p.ZNear, c.NearPlane)
	c.FarPlane = floatOr(p.ZFar, c.FarPlane)

	switch p.XMLName.Local {
	case "perspective":
		c.Projection = source.ProjectionPerspective
		xfov, yfov := floatOr(p.XFov, 0), floatOr(p.YFov, 0)
		aspect := floatOr(p.AspectRatio, 0)
		if aspect == 0 && xfov > 0 && yfov > 0 {
			aspect = math.Tan(xfov*math.Pi/360) / math.Tan(yfov*math.Pi/360)
		}
		if aspect > 0 {
			c.AspectRatio = aspect
		}
		if yfov > 0 {
			c.ApertureMode = source.ApertureVertical
			c.FieldOfView = yfov
		} else if xfov > 0 {
			c.ApertureMode = source.ApertureHorizontal
			c.FieldOfView = xfov
			c.ApertureWidth = c.AspectRatio
			c.ApertureHeight = 1
			c.SqueezeRatio = 1
		}
	case "orthographic":
		c.Projection = source.ProjectionOrthographic
		xmag, ymag := floatOr(p.XMag, 0), floatOr(p.YMag, 0)
		if xmag == 0 && ymag > 0 {
			xmag = ymag * c.AspectRatio
		}
		if aspect := floatOr(p.AspectRatio, 0); aspect > 0 {
			c.AspectRatio = aspect
		} else if xmag > 0 && ymag > 0 {
			c.AspectRatio = xmag / ymag
		}
		// viewport width is OrthoZoom * 15
		c.OrthoZoom = xmag / 15
	default:
		encerr.Warning(encerr.WarnUnknownCameraType, id)
		c.Projection = source.ProjectionUnknown
	}
	return c
}
