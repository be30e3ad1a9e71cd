package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/scene"
)

const xmlVersion = "1.2"

type xmlWriter struct {
	enc *xml.Encoder
	f   *scene.File
	err error
}

// WriteXML writes human readable dump of every object in f
func WriteXML(w io.Writer, f *scene.File) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrapf(err, "Can't write xml header")
	}

	xw := &xmlWriter{enc: xml.NewEncoder(w), f: f}
	xw.enc.Indent("", "    ")

	xw.start("root", "version", xmlVersion)
	xw.writeScene()
	for _, ref := range f.Roots() {
		xw.writeNode(ref)
	}
	for _, m := range f.Meshes {
		xw.writeMesh(m)
	}
	for _, m := range f.Materials {
		xw.writeMaterial(m)
	}
	if len(f.Animations) != 0 {
		xw.start("Animations", "id", AnimationsID)
		for _, a := range f.Animations {
			xw.writeAnimation(a)
		}
		xw.end("Animations")
	}
	xw.end("root")

	if xw.err != nil {
		return errors.Wrapf(xw.err, "Can't write xml")
	}
	return errors.Wrapf(xw.enc.Flush(), "Can't flush xml")
}

func (xw *xmlWriter) start(name string, attrs ...string) {
	if xw.err != nil {
		return
	}
	se := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	xw.err = xw.enc.EncodeToken(se)
}

func (xw *xmlWriter) end(name string) {
	if xw.err != nil {
		return
	}
	xw.err = xw.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (xw *xmlWriter) elem(name string, value string) {
	xw.start(name)
	if xw.err == nil && value != "" {
		xw.err = xw.enc.EncodeToken(xml.CharData(value))
	}
	xw.end(name)
}

func floats(fs ...float32) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return strings.Join(parts, " ")
}

func matrix(m mgl32.Mat4) string {
	return floats(m[:]...)
}

func (xw *xmlWriter) nodeID(ref scene.NodeRef) string {
	if n := xw.f.Node(ref); n != nil {
		return n.ID
	}
	return ""
}

func (xw *xmlWriter) writeScene() {
	s := xw.f.Scene
	xw.start("Scene", "id", s.ID)
	for _, ref := range s.Nodes {
		xw.elem("node", xref(xw.nodeID(ref)))
	}
	if id := xw.nodeID(s.ActiveCamera); id != "" {
		xw.elem("activeCamera", xref(id))
	}
	xw.elem("ambientColor", floats(s.AmbientColor[:]...))
	xw.end("Scene")
}

func (xw *xmlWriter) writeNode(ref scene.NodeRef) {
	n := xw.f.Node(ref)
	typ := "NODE"
	if n.IsJoint {
		typ = "JOINT"
	}
	xw.start("Node", "id", n.ID, "type", typ)
	xw.elem("transform", matrix(n.Transform))
	if p := xw.nodeID(n.Parent); p != "" {
		xw.elem("parent", p)
	}
	if c := xw.f.Camera(n.Camera); c != nil {
		xw.writeCamera(c)
	}
	if l := xw.f.Light(n.Light); l != nil {
		xw.writeLight(l)
	}
	if n.Model != nil {
		xw.writeModel(n.Model)
	}
	if len(n.Children) != 0 {
		xw.start("children")
		for _, c := range n.Children {
			xw.writeNode(c)
		}
		xw.end("children")
	}
	xw.end("Node")
}

func (xw *xmlWriter) writeCamera(c *scene.Camera) {
	xw.start("Camera", "id", c.ID)
	xw.elem("cameraType", c.Type.String())
	xw.elem("aspectRatio", floats(c.AspectRatio))
	xw.elem("nearPlane", floats(c.NearPlane))
	xw.elem("farPlane", floats(c.FarPlane))
	if c.Type == scene.CameraPerspective {
		xw.elem("fieldOfView", floats(c.FieldOfView))
	} else {
		xw.elem("viewportWidth", floats(c.ViewportWidth))
		xw.elem("viewportHeight", floats(c.ViewportHeight))
	}
	xw.end("Camera")
}

func (xw *xmlWriter) writeLight(l *scene.Light) {
	xw.start("Light", "id", l.ID)
	xw.elem("lightType", l.Type.String())
	xw.elem("color", floats(l.Color[:]...))
	xw.elem("constantAttenuation", floats(l.ConstantAttenuation))
	xw.elem("linearAttenuation", floats(l.LinearAttenuation))
	xw.elem("quadraticAttenuation", floats(l.QuadraticAttenuation))
	if l.Type == scene.LightSpot {
		xw.elem("falloffAngle", floats(l.FalloffAngle))
	}
	xw.end("Light")
}

func (xw *xmlWriter) writeModel(m *scene.Model) {
	xw.start("Model")
	xw.elem("ref", xref(m.Mesh.ID))
	if s := m.Skin; s != nil {
		xw.start("MeshSkin")
		xw.elem("bindShape", matrix(s.BindShape))
		xw.elem("joints", strings.Join(s.JointNames, " "))
		xw.start("bindPoses", "count", strconv.Itoa(len(s.BindPoses)))
		for _, bp := range s.BindPoses {
			xw.elem("matrix", matrix(bp))
		}
		xw.end("bindPoses")
		xw.end("MeshSkin")
	}
	for i := range m.Mesh.Parts {
		if mat := m.Material(i); mat != nil {
			xw.elem("material", mat.ID)
		}
	}
	xw.end("Model")
}

func (xw *xmlWriter) writeMesh(m *scene.Mesh) {
	xw.start("Mesh", "id", m.ID)
	for _, a := range m.Attributes {
		xw.start("VertexElement")
		xw.elem("usage", a.Usage.String())
		xw.elem("size", strconv.Itoa(a.Size))
		xw.end("VertexElement")
	}
	xw.start("vertices", "count", strconv.Itoa(len(m.Vertices)))
	for i := range m.Vertices {
		xw.elem("vertex", floats(m.VertexFloats(i)...))
	}
	xw.end("vertices")
	xw.elem("bounds", floats(append(m.BoundsMin[:], m.BoundsMax[:]...)...))
	xw.elem("sphere", floats(m.Center[0], m.Center[1], m.Center[2], m.Radius))
	for _, p := range m.Parts {
		format := "INDEX16"
		if p.IndexFormat32() {
			format = "INDEX32"
		}
		xw.start("MeshPart", "material", p.Material, "indexFormat", format)
		parts := make([]string, len(p.Indices))
		for i, idx := range p.Indices {
			parts[i] = strconv.FormatUint(uint64(idx), 10)
		}
		xw.elem("indices", strings.Join(parts, " "))
		xw.end("MeshPart")
	}
	xw.end("Mesh")
}

func (xw *xmlWriter) writeMaterial(m *scene.Material) {
	e := &m.Effect
	xw.start("Material", "id", m.ID)
	xw.elem("ambient", floats(e.Ambient[:]...))
	xw.elem("diffuse", floats(e.Diffuse[:]...))
	if e.UseSpecular {
		xw.elem("specular", floats(e.Specular[:]...))
		xw.elem("shininess", floats(e.Shininess))
	}
	xw.elem("alpha", floats(e.Alpha))
	if e.Textured() {
		xw.elem("texture", e.TextureFilename)
		xw.elem("wrap", fmt.Sprintf("%s %s", e.WrapS, e.WrapT))
	}
	if l := xw.f.Light(m.Light); l != nil {
		xw.elem("light", xref(l.ID))
	}
	if m.Skinned {
		xw.elem("joints", strconv.Itoa(m.JointCount))
	}
	xw.end("Material")
}

func (xw *xmlWriter) writeAnimation(a *scene.Animation) {
	xw.start("Animation", "id", a.ID)
	for _, c := range a.Channels {
		xw.start("AnimationChannel", "target", c.TargetID, "attribute", c.TargetAttribute.String())
		xw.elem("keytimes", floats(c.KeyTimes...))
		xw.elem("values", floats(c.KeyValues...))
		xw.elem("interpolation", c.Interpolation.String())
		xw.end("AnimationChannel")
	}
	xw.end("Animation")
}
