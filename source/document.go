// Package source is the format neutral model of a loaded interchange document.
// Loaders fill it, the encoder reads it.
package source

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Document struct {
	// Path of the loaded file, used to resolve relative texture paths
	Path     string
	Name     string
	UniqueID string
	// Root is the synthetic document root; its children are the top level nodes
	Root         *Node
	Poses        []*Pose
	AmbientColor mgl32.Vec3
	Layers       []*AnimLayer
}

func NewDocument(path string) *Document {
	return &Document{
		Path: path,
		Root: NewNode("", ""),
	}
}

// Walk calls fn for each node below root in document order
func (d *Document) Walk(fn func(n *Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range d.Root.Children {
		walk(c)
	}
}

// Meshes returns unique meshes in document order
func (d *Document) Meshes() []*Mesh {
	seen := make(map[*Mesh]struct{})
	meshes := make([]*Mesh, 0)
	d.Walk(func(n *Node) {
		if n.Mesh == nil {
			return
		}
		if _, ok := seen[n.Mesh]; !ok {
			seen[n.Mesh] = struct{}{}
			meshes = append(meshes, n.Mesh)
		}
	})
	return meshes
}

type PoseEntry struct {
	Node   *Node
	Matrix mgl32.Mat4
}

type Pose struct {
	Name     string
	BindPose bool
	Entries  []PoseEntry
}

type AnimLayer struct {
	Name  string
	Stack string
}

// Triangulate converts all polygon meshes of the document to triangles in place
func (d *Document) Triangulate() {
	for _, m := range d.Meshes() {
		m.Triangulate()
	}
}
