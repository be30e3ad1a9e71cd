// Package encoder turns a loaded source document into the scene output model.
package encoder

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/idstore"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
)

const defaultSceneName = "__SCENE__"

var ErrNoScene = errors.New("document has no root node")

// Builder holds per document state: identifier registry, resource cache
// and the output file being filled.
type Builder struct {
	cfg      *config.Config
	doc      *source.Document
	ids      *idstore.Store
	matIDs   *idstore.Store
	cache    *ResourceCache
	file     *scene.File
	modelDir string
}

func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Builder{cfg: cfg}
}

func (b *Builder) File() *scene.File          { return b.file }
func (b *Builder) IDs() *idstore.Store        { return b.ids }
func (b *Builder) Cache() *ResourceCache      { return b.cache }
func (b *Builder) Document() *source.Document { return b.doc }

// Build triangulates the document, loads every node below the document root
// with their cameras, lights, models and skins, then applies bind poses.
func (b *Builder) Build(doc *source.Document) (*scene.File, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNoScene
	}

	b.doc = doc
	b.ids = idstore.NewStore()
	b.matIDs = idstore.NewStore()
	b.cache = NewResourceCache()
	b.file = scene.NewFile()
	b.modelDir = filepath.Dir(doc.Path)

	sceneName := doc.Name
	if sceneName == "" {
		sceneName = defaultSceneName
	}
	b.file.Scene.ID = b.ids.Resolve(sceneName, doc.UniqueID)

	logger.Debug("Triangulate", zap.String("document", doc.Path))
	doc.Triangulate()

	logger.Debug("Load nodes", zap.Int("roots", len(doc.Root.Children)))
	for _, c := range doc.Root.Children {
		ref := b.loadNode(c)
		b.addSceneNode(ref)
	}

	b.loadBindShapes()

	b.file.Scene.AmbientColor = doc.AmbientColor
	b.file.Scene.ActiveCamera = b.file.FirstCameraNode()

	return b.file, nil
}

func (b *Builder) addSceneNode(ref scene.NodeRef) {
	for _, r := range b.file.Scene.Nodes {
		if r == ref {
			return
		}
	}
	b.file.Scene.Nodes = append(b.file.Scene.Nodes, ref)
}

func (b *Builder) nodeID(sn *source.Node) string {
	return b.ids.Resolve(sn.Name, sn.UniqueID)
}

// loadNode returns node for sn, creating it with its whole subtree on first
// visit. Later visits (skin joints, repeated references) reuse it.
func (b *Builder) loadNode(sn *source.Node) scene.NodeRef {
	id := b.nodeID(sn)
	ref, created := b.file.GetOrCreateNode(id)
	if !created {
		return ref
	}
	node := b.file.Node(ref)

	b.transformNode(sn, node)
	b.loadCamera(sn, node, id)
	b.loadLight(sn, node, id)
	b.loadModel(sn, node, id)

	if sn.Skeleton {
		node.IsJoint = true
	}

	for _, c := range sn.Children {
		child := b.loadNode(c)
		b.file.AddChild(ref, child)
	}
	return ref
}

func (b *Builder) transformNode(sn *source.Node, node *scene.Node) {
	switch {
	case sn.Light != nil:
		// light looks along negative Y in source, engine expects negative Z
		if sn.RotationActive {
			post := sn.PostRotation
			post[0] += 90
			node.Transform = sn.LocalMatrixWithPost(post)
		} else {
			node.Transform = sn.LocalMatrix().Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-90)))
		}
	case sn.Camera != nil:
		// pre and post rotations are ignored for cameras
		node.Transform = sn.TRSMatrix()
	default:
		node.Transform = sn.LocalMatrix()
	}
}

func (b *Builder) loadModel(sn *source.Node, node *scene.Node, id string) {
	sm := sn.Mesh
	if sm == nil {
		return
	}
	if !sm.IsTriangleMesh() {
		encerr.Warning(encerr.WarnTrianglesNotFound, id)
		return
	}

	materials := b.loadMaterials(sn, id+"_Mesh")
	mesh := b.loadMesh(sn, id, materials)

	model := scene.NewModel(mesh)
	model.Materials = materials
	node.Model = model

	b.loadSkin(sn, model)
	if model.Skin != nil {
		node.ResetTransform()
	}
}

func meshKey(m *source.Mesh) string {
	if m.UniqueID != "" {
		return m.UniqueID
	}
	return fmt.Sprintf("%p", m)
}
