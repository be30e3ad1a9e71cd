package collada

import (
	"encoding/xml"
	"strconv"
	"strings"

	dae "github.com/mogaika/go-collada"
)

// extension holds the libraries go-collada keeps as empty placeholders.
// It is decoded from the same bytes as the main document.
type extension struct {
	XMLName     xml.Name      `xml:"COLLADA"`
	Images      []*image      `xml:"library_images>image"`
	Effects     []*effect     `xml:"library_effects>effect"`
	Controllers []*controller `xml:"library_controllers>controller"`
	Animations  []*animation  `xml:"library_animations>animation"`
	Nodes       []*dae.Node   `xml:"library_nodes>node"`
}

type image struct {
	dae.HasId
	dae.HasName
	InitFrom struct {
		dae.Values
		// collada 1.5
		Ref string `xml:"ref"`
	} `xml:"init_from"`
}

func (i *image) path() string {
	if v := strings.TrimSpace(i.InitFrom.V); v != "" {
		return v
	}
	return strings.TrimSpace(i.InitFrom.Ref)
}

type newParam struct {
	dae.HasSid
	Surface *struct {
		InitFrom string `xml:"init_from"`
	} `xml:"surface"`
	Sampler *struct {
		Source string `xml:"source"`
		// collada 1.5 references image directly
		Instance dae.HasUrl `xml:"instance_image"`
		WrapS    string     `xml:"wrap_s"`
		WrapT    string     `xml:"wrap_t"`
	} `xml:"sampler2D"`
}

// technique reads every common shading model into the phong layout,
// lambert, blinn and constant carry a subset of its channels
type technique struct {
	dae.HasSid
	Phong    *dae.Phong                        `xml:"phong"`
	Blinn    *dae.Phong                        `xml:"blinn"`
	Lambert  *dae.Phong                        `xml:"lambert"`
	Constant *dae.Phong                        `xml:"constant"`
	Bump     []*dae.FxCommonColorOrTextureType `xml:"extra>technique>bump"`
}

// shading returns the first shading model of technique with its name
func (t *technique) shading() (string, *dae.Phong) {
	switch {
	case t.Phong != nil:
		return "phong", t.Phong
	case t.Blinn != nil:
		return "blinn", t.Blinn
	case t.Lambert != nil:
		return "lambert", t.Lambert
	case t.Constant != nil:
		return "constant", t.Constant
	}
	return "", nil
}

type effect struct {
	dae.HasId
	dae.HasName
	Params  []*newParam `xml:"newparam"`
	Profile struct {
		Params    []*newParam `xml:"newparam"`
		Technique technique   `xml:"technique"`
	} `xml:"profile_COMMON"`
}

type skin struct {
	Source          dae.Uri       `xml:"source,attr"`
	BindShapeMatrix *dae.Float4x4 `xml:"bind_shape_matrix"`
	Sources         []*dae.Source `xml:"source"`
	Joints          struct {
		Input []*dae.InputUnshared `xml:"input"`
	} `xml:"joints"`
	VertexWeights struct {
		dae.HasCount
		dae.HasSharedInput
		VCount dae.Ints `xml:"vcount"`
		V      dae.Ints `xml:"v"`
	} `xml:"vertex_weights"`
}

type controller struct {
	dae.HasId
	dae.HasName
	Skin *skin `xml:"skin"`
}

type sampler struct {
	dae.HasId
	Input []*dae.InputUnshared `xml:"input"`
}

type channel struct {
	Source dae.Uri `xml:"source,attr"`
	Target string  `xml:"target,attr"`
}

type animation struct {
	dae.HasId
	Sources    []*dae.Source `xml:"source"`
	Samplers   []*sampler    `xml:"sampler"`
	Channels   []*channel    `xml:"channel"`
	Animations []*animation  `xml:"animation"`
}

// The types below decode technique_common bodies go-collada keeps as raw xml

type accessor struct {
	Source string `xml:"source,attr"`
	Count  int    `xml:"count,attr"`
	Stride int    `xml:"stride,attr"`
}

type sourceCommon struct {
	Accessor accessor `xml:"accessor"`
}

type instanceMaterial struct {
	Symbol string `xml:"symbol,attr"`
	Target string `xml:"target,attr"`
}

type bindCommon struct {
	Materials []instanceMaterial `xml:"instance_material"`
}

type lightParams struct {
	XMLName              xml.Name
	Color                *dae.Color `xml:"color"`
	ConstantAttenuation  *dae.Float `xml:"constant_attenuation"`
	LinearAttenuation    *dae.Float `xml:"linear_attenuation"`
	QuadraticAttenuation *dae.Float `xml:"quadratic_attenuation"`
	FalloffAngle         *dae.Float `xml:"falloff_angle"`
}

type lightCommon struct {
	Params []lightParams `xml:",any"`
}

type projection struct {
	XMLName     xml.Name
	XFov        *dae.Float `xml:"xfov"`
	YFov        *dae.Float `xml:"yfov"`
	XMag        *dae.Float `xml:"xmag"`
	YMag        *dae.Float `xml:"ymag"`
	AspectRatio *dae.Float `xml:"aspect_ratio"`
	ZNear       *dae.Float `xml:"znear"`
	ZFar        *dae.Float `xml:"zfar"`
}

type opticsCommon struct {
	Projections []projection `xml:",any"`
}

// decodeCommon unmarshals inner xml of a technique_common element into v
func decodeCommon(tc dae.TechniqueCommon, v interface{}) error {
	return xml.Unmarshal([]byte("<technique_common>"+tc.XML+"</technique_common>"), v)
}

func instanceMaterials(bm *dae.BindMaterial) []instanceMaterial {
	if bm == nil {
		return nil
	}
	var bc bindCommon
	if err := decodeCommon(bm.TechniqueCommon, &bc); err != nil {
		return nil
	}
	return bc.Materials
}

func floatOr(f *dae.Float, def float64) float64 {
	if f == nil {
		return def
	}
	return f.Value
}

func paramOr(p *dae.FxCommonFloatOrParamType, def float64) float64 {
	if p == nil {
		return def
	}
	return floatOr(p.Float, def)
}

// parseFloats splits on any whitespace; exporters wrap long arrays over
// several lines
func parseFloats(s string) []float64 {
	fields := strings.Fields(s)
	res := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			v = 0
		}
		res = append(res, v)
	}
	return res
}

func parseInts(s string) []int {
	fields := strings.Fields(s)
	res := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			v = 0
		}
		res = append(res, v)
	}
	return res
}

// fragment strips leading '#' of local url
func fragment(url dae.Uri) string {
	return strings.TrimPrefix(strings.TrimSpace(string(url)), "#")
}
