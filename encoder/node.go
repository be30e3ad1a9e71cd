package encoder

import (
	"math"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
)

const defaultFieldOfView = 45

// verticalFOV converts horizontal field of view in degrees to vertical one
// for aspect ratio height/width
func verticalFOV(hfov, aspect float64) float64 {
	return 2 * math.Atan(aspect*math.Tan(hfov*math.Pi/180*0.5)) * 180 / math.Pi
}

// FieldOfView returns vertical field of view in degrees of perspective camera
func FieldOfView(c *source.Camera) float64 {
	switch c.ApertureMode {
	case source.ApertureVertical:
		return c.FieldOfView
	case source.ApertureHorizontal:
		aspect := c.ApertureHeight / (c.ApertureWidth * c.SqueezeRatio)
		return verticalFOV(c.FieldOfView, aspect)
	case source.ApertureFocalLength:
		if c.FocalLength == 0 {
			return defaultFieldOfView
		}
		// film width is in inches
		hfov := 2 * math.Atan(c.ApertureWidth*25.4*0.5/c.FocalLength) * 180 / math.Pi
		aspect := c.ApertureHeight / (c.ApertureWidth * c.SqueezeRatio)
		return verticalFOV(hfov, aspect)
	case source.ApertureHorizAndVert:
		return c.FieldOfViewY
	}
	return defaultFieldOfView
}

func (b *Builder) loadCamera(sn *source.Node, node *scene.Node, id string) {
	sc := sn.Camera
	if sc == nil {
		return
	}

	cam := &scene.Camera{
		ID:          id + "_Camera",
		AspectRatio: float32(sc.AspectRatio),
		NearPlane:   float32(sc.NearPlane),
		FarPlane:    float32(sc.FarPlane),
	}

	switch sc.Projection {
	case source.ProjectionOrthographic:
		cam.Type = scene.CameraOrthographic
		// xmag is OrthoZoom * 30 / 2
		cam.ViewportWidth = float32(sc.OrthoZoom * 15)
		if sc.AspectRatio > 0 {
			cam.ViewportHeight = cam.ViewportWidth / float32(sc.AspectRatio)
		}
	case source.ProjectionPerspective:
		cam.Type = scene.CameraPerspective
		cam.FieldOfView = float32(FieldOfView(sc))
	default:
		encerr.Warning(encerr.WarnUnknownCameraType, id)
		return
	}

	node.Camera = b.file.AddCamera(cam)
}

func (b *Builder) loadLight(sn *source.Node, node *scene.Node, id string) {
	sl := sn.Light
	if sl == nil {
		return
	}

	light := &scene.Light{
		ID:    id + "_Light",
		Color: sl.Color,
	}

	switch sl.Type {
	case source.LightPoint:
		if sl.Decay == source.DecayNone {
			light.Type = scene.LightAmbient
		} else {
			light.Type = scene.LightPoint
			b.setAttenuation(light, sl, id)
		}
	case source.LightDirectional:
		light.Type = scene.LightDirectional
	case source.LightSpot:
		light.Type = scene.LightSpot
		b.setAttenuation(light, sl, id)
		light.FalloffAngle = float32(sl.OuterAngle)
	default:
		encerr.Warning(encerr.WarnUnknownLightType, id)
		return
	}

	node.Light = b.file.AddLight(light)
}

func (b *Builder) setAttenuation(l *scene.Light, sl *source.Light, id string) {
	switch sl.Decay {
	case source.DecayLinear:
		l.LinearAttenuation = float32(sl.DecayStart)
	case source.DecayQuadratic:
		l.QuadraticAttenuation = float32(sl.DecayStart)
	case source.DecayCubic:
		encerr.Warning(encerr.WarnUnsupportedDecay, id)
	}
}
