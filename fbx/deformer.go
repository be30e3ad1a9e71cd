package fbx

import (
	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/source"
)

func (l *loader) loadSkin(o *cache.Object) *source.Skin {
	skin := &source.Skin{Name: o.Name}
	for _, co := range o.ChildrenOf("Deformer") {
		if co.Type != "Cluster" {
			continue
		}
		cl := &source.Cluster{
			Indices: childInts(co.Node, "Indexes"),
			Weights: childFloats(co.Node, "Weights"),
		}
		cl.TransformLink, _ = matrix(childFloats(co.Node, "TransformLink"))
		if links := co.ChildrenOf("Model"); len(links) != 0 {
			cl.Link = l.nodes[links[0].ID]
		}
		if cl.Link == nil {
			encerr.Warning(encerr.WarnUnresolvedReference, "link", describe(co))
		}
		skin.Clusters = append(skin.Clusters, cl)
	}
	return skin
}

func (l *loader) loadPoses() {
	for _, o := range l.c.ObjectsOf("Pose") {
		pose := &source.Pose{
			Name:     o.Name,
			BindPose: o.Type == "BindPose",
		}
		for _, pn := range children(o.Node, "PoseNode") {
			id, _ := toInt64(attr(child(pn, "Node"), 0))
			node := l.nodes[id]
			if node == nil {
				continue
			}
			m, ok := matrix(childFloats(pn, "Matrix"))
			if !ok {
				encerr.Warning(encerr.WarnUnresolvedReference, "matrix of "+node.Name, describe(o))
				continue
			}
			pose.Entries = append(pose.Entries, source.PoseEntry{Node: node, Matrix: m})
		}
		l.doc.Poses = append(l.doc.Poses, pose)
	}
}
