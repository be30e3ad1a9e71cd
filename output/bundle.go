package output

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/scene"
)

var (
	BundleIdentifier = [9]byte{0xAB, 'G', 'P', 'B', 0xBB, '\r', '\n', 0x1A, '\n'}
	BundleVersion    = [2]byte{1, 2}
)

// Object type ids of reference table
const (
	TypeScene      uint32 = 1
	TypeNode       uint32 = 2
	TypeAnimations uint32 = 3
	TypeAnimation  uint32 = 4
	TypeChannel    uint32 = 5
	TypeModel      uint32 = 11
	TypeMaterial   uint32 = 16
	TypeCamera     uint32 = 32
	TypeLight      uint32 = 33
	TypeMesh       uint32 = 34
	TypeMeshPart   uint32 = 35
	TypeMeshSkin   uint32 = 36
)

const (
	nodeTypeNode  uint32 = 1
	nodeTypeJoint uint32 = 2

	primitiveTriangles uint32 = 4
	indexFormat16      uint32 = 0x1403
	indexFormat32      uint32 = 0x1405

	AnimationsID = "__Animations__"
)

type Reference struct {
	ID     string
	Type   uint32
	Offset uint32
}

type bundleWriter struct {
	f    *scene.File
	body bytes.Buffer
	refs []Reference
}

// WriteBundle serializes file as binary bundle: identifier, version,
// reference table and objects. All values are little endian.
func WriteBundle(w io.Writer, f *scene.File) error {
	bw := &bundleWriter{f: f}
	bw.writeObjects()

	var head bytes.Buffer
	head.Write(BundleIdentifier[:])
	head.Write(BundleVersion[:])

	headSize := len(BundleIdentifier) + len(BundleVersion) + 4
	for _, r := range bw.refs {
		headSize += 4 + len(r.ID) + 4 + 4
	}

	writeUint32(&head, uint32(len(bw.refs)))
	for _, r := range bw.refs {
		writeString(&head, r.ID)
		writeUint32(&head, r.Type)
		writeUint32(&head, r.Offset+uint32(headSize))
	}

	if _, err := w.Write(head.Bytes()); err != nil {
		return errors.Wrapf(err, "Can't write bundle header")
	}
	if _, err := w.Write(bw.body.Bytes()); err != nil {
		return errors.Wrapf(err, "Can't write bundle objects")
	}
	return nil
}

func (bw *bundleWriter) ref(id string, typ uint32) {
	bw.refs = append(bw.refs, Reference{ID: id, Type: typ, Offset: uint32(bw.body.Len())})
}

func (bw *bundleWriter) writeObjects() {
	f := bw.f
	b := &bw.body

	for _, m := range f.Meshes {
		bw.ref(m.ID, TypeMesh)
		writeMesh(b, m)
	}

	for _, ref := range f.Roots() {
		n := f.Node(ref)
		bw.ref(n.ID, TypeNode)
		bw.writeNode(ref)
	}

	bw.ref(f.Scene.ID, TypeScene)
	writeUint32(b, uint32(len(f.Scene.Nodes)))
	for _, ref := range f.Scene.Nodes {
		writeString(b, xref(f.Node(ref).ID))
	}
	if cam := f.Node(f.Scene.ActiveCamera); cam != nil {
		writeString(b, xref(cam.ID))
	} else {
		writeString(b, "")
	}
	writeFloats(b, f.Scene.AmbientColor[:]...)

	if len(f.Animations) != 0 {
		bw.ref(AnimationsID, TypeAnimations)
		writeUint32(b, uint32(len(f.Animations)))
		for _, a := range f.Animations {
			writeAnimation(b, a)
		}
	}
}

func (bw *bundleWriter) writeNode(ref scene.NodeRef) {
	f := bw.f
	b := &bw.body
	n := f.Node(ref)

	if n.IsJoint {
		writeUint32(b, nodeTypeJoint)
	} else {
		writeUint32(b, nodeTypeNode)
	}
	writeMatrix(b, n.Transform)
	if p := f.Node(n.Parent); p != nil {
		writeString(b, p.ID)
	} else {
		writeString(b, "")
	}

	writeUint32(b, uint32(len(n.Children)))
	for _, c := range n.Children {
		writeString(b, f.Node(c).ID)
		bw.writeNode(c)
	}

	if c := f.Camera(n.Camera); c != nil {
		b.WriteByte(1)
		writeCamera(b, c)
	} else {
		b.WriteByte(0)
	}
	if l := f.Light(n.Light); l != nil {
		b.WriteByte(1)
		writeLight(b, l)
	} else {
		b.WriteByte(0)
	}
	if n.Model != nil {
		b.WriteByte(1)
		bw.writeModel(n.Model)
	} else {
		b.WriteByte(0)
	}
}

func (bw *bundleWriter) writeModel(m *scene.Model) {
	f := bw.f
	b := &bw.body

	writeString(b, xref(m.Mesh.ID))
	if s := m.Skin; s != nil {
		b.WriteByte(1)
		writeMatrix(b, s.BindShape)
		writeUint32(b, uint32(s.JointCount()))
		for i, ref := range s.Joints {
			id := s.JointNames[i]
			if n := f.Node(ref); n != nil {
				id = n.ID
			}
			writeString(b, xref(id))
		}
		writeUint32(b, uint32(len(s.BindPoses)*16))
		for _, bp := range s.BindPoses {
			writeMatrix(b, bp)
		}
	} else {
		b.WriteByte(0)
	}

	writeUint32(b, uint32(len(m.Mesh.Parts)))
	for i := range m.Mesh.Parts {
		if mat := m.Material(i); mat != nil {
			writeString(b, mat.ID)
		} else {
			writeString(b, "")
		}
	}
}

func writeMesh(b *bytes.Buffer, m *scene.Mesh) {
	writeUint32(b, uint32(len(m.Attributes)))
	for _, a := range m.Attributes {
		writeUint32(b, uint32(a.Usage))
		writeUint32(b, uint32(a.Size))
	}

	writeUint32(b, uint32(len(m.Vertices)*m.VertexSize()*4))
	for i := range m.Vertices {
		writeFloats(b, m.VertexFloats(i)...)
	}

	writeFloats(b, m.BoundsMin[:]...)
	writeFloats(b, m.BoundsMax[:]...)
	writeFloats(b, m.Center[:]...)
	writeFloats(b, m.Radius)

	writeUint32(b, uint32(len(m.Parts)))
	for _, p := range m.Parts {
		writeUint32(b, primitiveTriangles)
		if p.IndexFormat32() {
			writeUint32(b, indexFormat32)
			writeUint32(b, uint32(len(p.Indices)*4))
			for _, i := range p.Indices {
				writeUint32(b, i)
			}
		} else {
			writeUint32(b, indexFormat16)
			writeUint32(b, uint32(len(p.Indices)*2))
			for _, i := range p.Indices {
				var buf [2]byte
				binary.LittleEndian.PutUint16(buf[:], uint16(i))
				b.Write(buf[:])
			}
		}
	}
}

func writeCamera(b *bytes.Buffer, c *scene.Camera) {
	b.WriteByte(byte(c.Type))
	writeFloats(b, c.AspectRatio, c.NearPlane, c.FarPlane)
	if c.Type == scene.CameraPerspective {
		writeFloats(b, c.FieldOfView)
	} else {
		writeFloats(b, c.ViewportWidth, c.ViewportHeight)
	}
}

func writeLight(b *bytes.Buffer, l *scene.Light) {
	b.WriteByte(byte(l.Type))
	writeFloats(b, l.Color[:]...)
	switch l.Type {
	case scene.LightPoint:
		writeFloats(b, l.ConstantAttenuation, l.LinearAttenuation, l.QuadraticAttenuation)
	case scene.LightSpot:
		writeFloats(b, l.ConstantAttenuation, l.LinearAttenuation, l.QuadraticAttenuation, l.FalloffAngle)
	}
}

func writeAnimation(b *bytes.Buffer, a *scene.Animation) {
	writeString(b, a.ID)
	writeUint32(b, uint32(len(a.Channels)))
	for _, c := range a.Channels {
		writeString(b, c.TargetID)
		writeUint32(b, uint32(c.TargetAttribute))
		writeUint32(b, uint32(len(c.KeyTimes)))
		writeFloats(b, c.KeyTimes...)
		writeUint32(b, uint32(len(c.KeyValues)))
		writeFloats(b, c.KeyValues...)
		// no tangents
		writeUint32(b, 0)
		writeUint32(b, 0)
		writeUint32(b, 1)
		writeUint32(b, uint32(c.Interpolation))
	}
}

// ReadReferences parses header and reference table of a bundle
func ReadReferences(r io.Reader) ([]Reference, error) {
	var ident [9]byte
	if _, err := io.ReadFull(r, ident[:]); err != nil {
		return nil, errors.Wrapf(err, "Can't read identifier")
	}
	if ident != BundleIdentifier {
		return nil, errors.Errorf("Invalid bundle identifier % x", ident)
	}
	var version [2]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, errors.Wrapf(err, "Can't read version")
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrapf(err, "Can't read reference count")
	}
	refs := make([]Reference, count)
	for i := range refs {
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, errors.Wrapf(err, "Can't read reference %d", i)
		}
		id := make([]byte, l)
		if _, err := io.ReadFull(r, id); err != nil {
			return nil, errors.Wrapf(err, "Can't read reference %d id", i)
		}
		refs[i].ID = string(id)
		if err := binary.Read(r, binary.LittleEndian, &refs[i].Type); err != nil {
			return nil, errors.Wrapf(err, "Can't read reference %d type", i)
		}
		if err := binary.Read(r, binary.LittleEndian, &refs[i].Offset); err != nil {
			return nil, errors.Wrapf(err, "Can't read reference %d offset", i)
		}
	}
	return refs, nil
}

func xref(id string) string {
	return "#" + id
}

func writeUint32(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

func writeString(b *bytes.Buffer, s string) {
	writeUint32(b, uint32(len(s)))
	b.WriteString(s)
}

func writeFloats(b *bytes.Buffer, fs ...float32) {
	for _, f := range fs {
		writeUint32(b, math.Float32bits(f))
	}
}

func writeMatrix(b *bytes.Buffer, m mgl32.Mat4) {
	writeFloats(b, m[:]...)
}
