package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

type Texture struct {
	UniqueID         string
	Name             string
	RelativeFilename string
	FileName         string
	WrapU            Wrap
	WrapV            Wrap
}

// Path returns the most specific file reference of the texture
func (t *Texture) Path() string {
	if t.RelativeFilename != "" {
		return t.RelativeFilename
	}
	return t.FileName
}

type LayeredTexture struct {
	Name     string
	Textures []*Texture
}

type Material struct {
	UniqueID     string
	Name         string
	ShadingModel string

	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float64

	TransparencyFactor float64
	TransparentColor   mgl32.Vec3

	DiffuseTextures []*Texture
	DiffuseLayered  []*LayeredTexture
	NormalMaps      []*Texture
	BumpMaps        []*Texture
}

// HasSpecular reports whether the shading model carries specular terms
func (m *Material) HasSpecular() bool {
	switch m.ShadingModel {
	case "phong", "Phong", "blinn", "Blinn":
		return true
	}
	return false
}

type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
	LightArea
	LightVolume
)

type DecayType int

const (
	DecayNone DecayType = iota
	DecayLinear
	DecayQuadratic
	DecayCubic
)

type Light struct {
	Type       LightType
	Color      mgl32.Vec3
	Decay      DecayType
	DecayStart float64
	// OuterAngle is spot cone angle in degrees
	OuterAngle float64
}

type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
	ProjectionUnknown
)

type ApertureMode int

const (
	ApertureHorizAndVert ApertureMode = iota
	ApertureHorizontal
	ApertureVertical
	ApertureFocalLength
)

type Camera struct {
	Projection   Projection
	ApertureMode ApertureMode
	// FieldOfView degrees; horizontal or vertical depending on ApertureMode
	FieldOfView  float64
	FieldOfViewY float64
	FocalLength  float64
	// ApertureWidth and ApertureHeight are film size in inches
	ApertureWidth  float64
	ApertureHeight float64
	SqueezeRatio   float64
	AspectRatio    float64
	NearPlane      float64
	FarPlane       float64
	OrthoZoom      float64
}

func NewCamera() *Camera {
	return &Camera{
		ApertureMode:   ApertureVertical,
		FieldOfView:    45,
		FieldOfViewY:   45,
		FocalLength:    35,
		ApertureWidth:  0.816,
		ApertureHeight: 0.612,
		SqueezeRatio:   1,
		AspectRatio:    4.0 / 3.0,
		NearPlane:      1,
		FarPlane:       1000,
		OrthoZoom:      1,
	}
}
