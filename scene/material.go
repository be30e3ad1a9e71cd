package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

const DefaultMaterialID = "__encoder_default_material__"

type Wrap string

const (
	WrapRepeat Wrap = "REPEAT"
	WrapClamp  Wrap = "CLAMP"
)

type Filter string

const (
	FilterNearest              Filter = "NEAREST"
	FilterLinear               Filter = "LINEAR"
	FilterNearestMipmapNearest Filter = "NEAREST_MIPMAP_NEAREST"
	FilterLinearMipmapNearest  Filter = "LINEAR_MIPMAP_NEAREST"
	FilterNearestMipmapLinear  Filter = "NEAREST_MIPMAP_LINEAR"
	FilterLinearMipmapLinear   Filter = "LINEAR_MIPMAP_LINEAR"
)

type Effect struct {
	Ambient     mgl32.Vec4
	Diffuse     mgl32.Vec4
	Specular    mgl32.Vec4
	Shininess   float32
	Alpha       float32
	UseSpecular bool

	// TexturePath is the resolved source image, TextureFilename the name
	// written into descriptor files
	TexturePath     string
	TextureFilename string
	WrapS           Wrap
	WrapT           Wrap
	MinFilter       Filter
	MagFilter       Filter
}

func NewEffect() Effect {
	return Effect{
		Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Alpha:     1,
		WrapS:     WrapRepeat,
		WrapT:     WrapRepeat,
		MinFilter: FilterNearestMipmapLinear,
		MagFilter: FilterLinear,
	}
}

func (e *Effect) Textured() bool {
	return e.TextureFilename != ""
}

type Material struct {
	ID         string
	Effect     Effect
	Light      LightRef
	Skinned    bool
	JointCount int
}

func NewMaterial(id string) *Material {
	return &Material{
		ID:     id,
		Effect: NewEffect(),
		Light:  NoLight,
	}
}

func (m *Material) IsDefault() bool {
	return m.ID == DefaultMaterialID
}
