package encoder

import (
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
)

// loadSkin binds model to joints of the first skin of its mesh. Joint nodes
// are loaded through the same path as regular nodes, so a joint reached
// first from a skin and later from the hierarchy stays a single node.
func (b *Builder) loadSkin(sn *source.Node, model *scene.Model) {
	sm := sn.Mesh
	if sm == nil || len(sm.Skins) == 0 {
		return
	}
	skin := scene.NewMeshSkin(model.Mesh)

	for _, cluster := range sm.Skins[0].Clusters {
		if !isJointCluster(cluster) {
			continue
		}
		link := cluster.Link
		name := b.nodeID(link)
		ref := b.loadNode(link)
		skin.AddJoint(name, ref, cluster.TransformLink.Inv())
	}

	if skin.JointCount() == 0 {
		encerr.Warning(encerr.WarnJointsNotFound, sm.Skins[0].Name)
	}

	model.Skin = skin
	for _, mat := range model.Materials {
		if !mat.IsDefault() {
			mat.JointCount = skin.JointCount()
		}
	}

	logger.Debug("Skin bound", zap.String("mesh", model.Mesh.ID), zap.Int("joints", skin.JointCount()))
}

// loadBindShapes sets bind shape matrix of skinned models from bind poses.
// Only the first entry of each pose is considered.
func (b *Builder) loadBindShapes() {
	for _, pose := range b.doc.Poses {
		if !pose.BindPose || len(pose.Entries) == 0 {
			continue
		}
		entry := pose.Entries[0]
		if entry.Node == nil || entry.Node.Mesh == nil {
			continue
		}
		id, ok := b.ids.Lookup(entry.Node.Name, entry.Node.UniqueID)
		if !ok {
			encerr.Warning(encerr.WarnUnresolvedReference, entry.Node.Name, pose.Name)
			continue
		}
		ref, ok := b.file.NodeByID(id)
		if !ok {
			continue
		}
		if model := b.file.Node(ref).Model; model != nil && model.Skin != nil {
			model.Skin.BindShape = entry.Matrix
		}
	}
}
