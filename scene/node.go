package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Node struct {
	ID          string
	Parent      NodeRef
	Children    []NodeRef
	PrevSibling NodeRef
	NextSibling NodeRef
	Transform   mgl32.Mat4
	Camera      CameraRef
	Light       LightRef
	Model       *Model
	IsJoint     bool
}

func newNode(id string) *Node {
	return &Node{
		ID:          id,
		Parent:      NoNode,
		PrevSibling: NoNode,
		NextSibling: NoNode,
		Transform:   mgl32.Ident4(),
		Camera:      NoCamera,
		Light:       NoLight,
	}
}

func (n *Node) IsRoot() bool {
	return n.Parent == NoNode
}

// ResetTransform sets node transform to identity
func (n *Node) ResetTransform() {
	n.Transform = mgl32.Ident4()
}

type Model struct {
	Mesh *Mesh
	Skin *MeshSkin
	// Materials are indexed by mesh part
	Materials []*Material
}

func NewModel(mesh *Mesh) *Model {
	mesh.Users++
	return &Model{Mesh: mesh}
}

// Material returns material bound to part index, falling back to the first one
func (m *Model) Material(part int) *Material {
	if part >= 0 && part < len(m.Materials) {
		return m.Materials[part]
	}
	if len(m.Materials) != 0 {
		return m.Materials[0]
	}
	return nil
}

type MeshSkin struct {
	JointNames []string
	Joints     []NodeRef
	BindPoses  []mgl32.Mat4
	BindShape  mgl32.Mat4
	Mesh       *Mesh
}

func NewMeshSkin(mesh *Mesh) *MeshSkin {
	return &MeshSkin{
		BindShape: mgl32.Ident4(),
		Mesh:      mesh,
	}
}

func (s *MeshSkin) AddJoint(name string, ref NodeRef, inverseBind mgl32.Mat4) {
	s.JointNames = append(s.JointNames, name)
	s.Joints = append(s.Joints, ref)
	s.BindPoses = append(s.BindPoses, inverseBind)
}

func (s *MeshSkin) JointCount() int {
	return len(s.Joints)
}
