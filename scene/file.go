// Package scene holds the encoder output model. Every entity of one run is
// owned by a File; cross links between entities are index handles into it.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type NodeRef int
type LightRef int
type CameraRef int

const (
	NoNode   NodeRef   = -1
	NoLight  LightRef  = -1
	NoCamera CameraRef = -1
)

type Scene struct {
	ID           string
	Nodes        []NodeRef
	AmbientColor mgl32.Vec3
	ActiveCamera NodeRef
}

type File struct {
	Scene      *Scene
	Nodes      []*Node
	Meshes     []*Mesh
	Materials  []*Material
	Lights     []*Light
	Cameras    []*Camera
	Animations []*Animation

	nodeByID      map[string]NodeRef
	animationByID map[string]*Animation
}

func NewFile() *File {
	return &File{
		Scene:         &Scene{ActiveCamera: NoNode},
		nodeByID:      make(map[string]NodeRef),
		animationByID: make(map[string]*Animation),
	}
}

// GetOrCreateNode returns node registered with id, creating it when absent.
// created reports whether a new node was made.
func (f *File) GetOrCreateNode(id string) (ref NodeRef, created bool) {
	if ref, ok := f.nodeByID[id]; ok {
		return ref, false
	}
	ref = NodeRef(len(f.Nodes))
	f.Nodes = append(f.Nodes, newNode(id))
	f.nodeByID[id] = ref
	return ref, true
}

func (f *File) NodeByID(id string) (NodeRef, bool) {
	ref, ok := f.nodeByID[id]
	return ref, ok
}

func (f *File) Node(ref NodeRef) *Node {
	if ref < 0 || int(ref) >= len(f.Nodes) {
		return nil
	}
	return f.Nodes[ref]
}

// AddChild attaches child to parent. A node that already has another parent
// is moved, so every node is reachable through exactly one parent.
func (f *File) AddChild(parent, child NodeRef) {
	c := f.Node(child)
	p := f.Node(parent)
	if c == nil || p == nil || parent == child {
		return
	}
	if c.Parent == parent {
		return
	}
	if c.Parent != NoNode {
		old := f.Node(c.Parent)
		for i, r := range old.Children {
			if r == child {
				old.Children = append(old.Children[:i], old.Children[i+1:]...)
				break
			}
		}
	}
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// Roots returns parentless nodes in creation order
func (f *File) Roots() []NodeRef {
	roots := make([]NodeRef, 0)
	for i, n := range f.Nodes {
		if n.Parent == NoNode {
			roots = append(roots, NodeRef(i))
		}
	}
	return roots
}

func (f *File) AddLight(l *Light) LightRef {
	f.Lights = append(f.Lights, l)
	return LightRef(len(f.Lights) - 1)
}

func (f *File) Light(ref LightRef) *Light {
	if ref < 0 || int(ref) >= len(f.Lights) {
		return nil
	}
	return f.Lights[ref]
}

func (f *File) AddCamera(c *Camera) CameraRef {
	f.Cameras = append(f.Cameras, c)
	return CameraRef(len(f.Cameras) - 1)
}

func (f *File) Camera(ref CameraRef) *Camera {
	if ref < 0 || int(ref) >= len(f.Cameras) {
		return nil
	}
	return f.Cameras[ref]
}

func (f *File) AddMesh(m *Mesh) {
	f.Meshes = append(f.Meshes, m)
}

func (f *File) AddMaterial(m *Material) {
	f.Materials = append(f.Materials, m)
}

func (f *File) MaterialByID(id string) *Material {
	for _, m := range f.Materials {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// AddAnimation registers animation once; a second registration of the same
// id is ignored.
func (f *File) AddAnimation(a *Animation) {
	if _, ok := f.animationByID[a.ID]; ok {
		return
	}
	f.animationByID[a.ID] = a
	f.Animations = append(f.Animations, a)
}

func (f *File) AnimationByID(id string) *Animation {
	return f.animationByID[id]
}

// FirstCameraNode returns the first node in creation order carrying a camera
func (f *File) FirstCameraNode() NodeRef {
	for i, n := range f.Nodes {
		if n.Camera != NoCamera {
			return NodeRef(i)
		}
	}
	return NoNode
}

// HasSkins reports whether any model in the file is skinned
func (f *File) HasSkins() bool {
	for _, n := range f.Nodes {
		if n.Model != nil && n.Model.Skin != nil {
			return true
		}
	}
	return false
}

// Walk visits ref and its subtree depth first, parents before children
func (f *File) Walk(ref NodeRef, fn func(ref NodeRef, n *Node)) {
	n := f.Node(ref)
	if n == nil {
		return
	}
	fn(ref, n)
	for _, c := range n.Children {
		f.Walk(c, fn)
	}
}
