package collada

import (
	"github.com/go-gl/mathgl/mgl32"
	dae "github.com/mogaika/go-collada"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
)

// pendingSkin is skin instance waiting for the whole scene to be loaded,
// joints may be declared after the instance
type pendingSkin struct {
	node *source.Node
	mesh *source.Mesh
	ctrl *controller
}

func (l *loader) loadController(target *source.Node, ic *dae.InstanceController) {
	ctrl, ok := l.controllers[fragment(ic.Url)]
	if !ok || ctrl.Skin == nil {
		encerr.Error(encerr.ErrColladaNodeFailed, string(ic.Url))
		return
	}
	ctrlID := string(ctrl.Id)
	geomID := fragment(ctrl.Skin.Source)
	if _, ok := l.controllers[geomID]; ok {
		encerr.Warning(encerr.WarnUnsupportedSemantic, "morph", ctrlID)
		return
	}

	mesh := l.loadGeometry(geomID, ctrlID)
	if mesh == nil {
		encerr.Error(encerr.ErrResolvingGeometryURL, string(ctrl.Skin.Source))
		return
	}
	target.Mesh = mesh
	target.Materials = l.bindMaterials(mesh, instanceMaterials(ic.BindMaterial))
	l.skins = append(l.skins, pendingSkin{
		node: target,
		mesh: mesh,
		ctrl: ctrl,
	})
}

func worldMatrix(n *source.Node) mgl32.Mat4 {
	m := mgl32.Ident4()
	for ; n != nil; n = n.Parent {
		m = n.LocalMatrix().Mul4(m)
	}
	return m
}

// findSID searches subtree of n for node with sid
func (l *loader) findSID(n *source.Node, sid string) *source.Node {
	if raw, ok := l.raw[n]; ok && raw.Sid == sid {
		return n
	}
	for _, c := range n.Children {
		if found := l.findSID(c, sid); found != nil {
			return found
		}
	}
	return nil
}

func (l *loader) findName(n *source.Node, name string) *source.Node {
	if raw, ok := l.raw[n]; ok && raw.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := l.findName(c, name); found != nil {
			return found
		}
	}
	return nil
}

// resolveJoint finds joint node referenced by skin. IDREF arrays name node
// ids, Name arrays name sids searched over the whole scene.
func (l *loader) resolveJoint(name string, idref bool) *source.Node {
	if idref {
		return l.byID[name]
	}
	if n := l.findSID(l.doc.Root, name); n != nil {
		return n
	}
	if n, ok := l.byID[name]; ok {
		return n
	}
	return l.findName(l.doc.Root, name)
}

func (l *loader) bindSkins() {
	for _, ps := range l.skins {
		if len(ps.mesh.Skins) != 0 {
			continue
		}
		l.bindSkin(ps)
	}
}

func (l *loader) bindSkin(ps pendingSkin) {
	sk := ps.ctrl.Skin
	table := newSourceTable(sk.Sources)

	var jointSrc, invBindSrc *dataSource
	for _, in := range sk.Joints.Input {
		switch in.Semantic {
		case "JOINT":
			jointSrc = table.get(in.Source)
		case "INV_BIND_MATRIX":
			invBindSrc = table.get(in.Source)
		}
	}
	if jointSrc == nil {
		encerr.Warning(encerr.WarnJointsNotFound, string(ps.ctrl.Id))
		return
	}
	names := jointSrc.names()
	var invBind []float64
	if invBindSrc != nil {
		invBind = invBindSrc.floats()
	}

	clusters := make([]*source.Cluster, len(names))
	for i, name := range names {
		link := l.resolveJoint(name, jointSrc.IdRefArray != nil)
		if link == nil {
			encerr.Warning(encerr.WarnUnresolvedReference, name, string(ps.ctrl.Id))
			continue
		}
		link.Skeleton = true
		c := &source.Cluster{Link: link}
		if len(invBind) >= (i+1)*16 {
			m, _ := rowMajor(invBind[i*16 : (i+1)*16])
			c.TransformLink = m.Inv()
		} else {
			c.TransformLink = worldMatrix(link)
		}
		clusters[i] = c
	}

	jointOffset, weightOffset, stride := -1, -1, 0
	var weights []float64
	for _, in := range sk.VertexWeights.Input {
		offset := int(in.Offset)
		switch in.Semantic {
		case "JOINT":
			jointOffset = offset
		case "WEIGHT":
			weightOffset = offset
			if src := table.get(in.Source); src != nil {
				weights = src.floats()
			}
		}
		if offset+1 > stride {
			stride = offset + 1
		}
	}

	if jointOffset >= 0 && weightOffset >= 0 {
		v := parseInts(sk.VertexWeights.V.V)
		at := 0
		for cp, count := range parseInts(sk.VertexWeights.VCount.V) {
			for k := 0; k < count; k++ {
				if at+stride > len(v) {
					break
				}
				joint, wi := v[at+jointOffset], v[at+weightOffset]
				at += stride
				// -1 binds to the shape itself
				if joint < 0 || joint >= len(clusters) || clusters[joint] == nil {
					continue
				}
				if wi < 0 || wi >= len(weights) {
					continue
				}
				c := clusters[joint]
				c.Indices = append(c.Indices, cp)
				c.Weights = append(c.Weights, weights[wi])
			}
		}
	}

	ctrlID := string(ps.ctrl.Id)
	skin := &source.Skin{Name: ctrlID}
	for _, c := range clusters {
		if c != nil {
			skin.Clusters = append(skin.Clusters, c)
		}
	}
	ps.mesh.Skins = append(ps.mesh.Skins, skin)

	var bindShape []float64
	if sk.BindShapeMatrix != nil {
		bindShape = parseFloats(sk.BindShapeMatrix.V)
	}
	if bsm, ok := rowMajor(bindShape); ok {
		l.doc.Poses = append(l.doc.Poses, &source.Pose{
			Name:     ctrlID,
			BindPose: true,
			Entries:  []source.PoseEntry{{Node: ps.node, Matrix: bsm}},
		})
	}

	logger.Debug("collada skin bound",
		zap.String("controller", ctrlID),
		zap.Int("joints", len(skin.Clusters)))
}
