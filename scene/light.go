package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	LightDirectional LightType = 1
	LightPoint       LightType = 2
	LightSpot        LightType = 3
	LightAmbient     LightType = 4
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "DIRECTIONAL"
	case LightPoint:
		return "POINT"
	case LightSpot:
		return "SPOT"
	case LightAmbient:
		return "AMBIENT"
	default:
		return "UNKNOWN"
	}
}

type Light struct {
	ID                   string
	Type                 LightType
	Color                mgl32.Vec3
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
	FalloffAngle         float32
}

type CameraType int

const (
	CameraPerspective  CameraType = 1
	CameraOrthographic CameraType = 2
)

func (t CameraType) String() string {
	switch t {
	case CameraPerspective:
		return "PERSPECTIVE"
	case CameraOrthographic:
		return "ORTHOGRAPHIC"
	default:
		return "UNKNOWN"
	}
}

type Camera struct {
	ID             string
	Type           CameraType
	AspectRatio    float32
	NearPlane      float32
	FarPlane       float32
	FieldOfView    float32
	ViewportWidth  float32
	ViewportHeight float32
}
