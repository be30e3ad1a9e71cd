package encoder

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
)

const maxInfluences = 4

type influence struct {
	joint  int
	weight float32
}

// loadMesh returns mesh of sn, translating source mesh on first use.
// One part is created per material slot of the node.
func (b *Builder) loadMesh(sn *source.Node, nodeID string, materials []*scene.Material) *scene.Mesh {
	sm := sn.Mesh
	key := meshKey(sm)
	if m := b.cache.Mesh(key); m != nil {
		return m
	}

	mesh := scene.NewMesh(nodeID + "_Mesh")
	parts := make([]*scene.MeshPart, len(materials))
	for i, mat := range materials {
		parts[i] = &scene.MeshPart{Material: mat.ID}
	}

	if len(parts) > 1 && len(sm.MaterialIndices) == 0 {
		encerr.Warning(encerr.WarnMultipleMaterialsAssigned, mesh.ID)
	}

	influences := blendWeights(sm)
	if influences != nil {
		for _, mat := range materials {
			if !mat.IsDefault() {
				mat.Skinned = true
			}
		}
	}

	pv := 0
	for p, poly := range sm.Polygons {
		part := sm.MaterialIndex(p)
		if part < 0 || part >= len(parts) {
			part = 0
		}
		for _, cp := range poly {
			v := polygonVertex(sm, cp, pv, p)
			if influences != nil {
				var list []influence
				if cp >= 0 && cp < len(influences) {
					list = influences[cp]
				}
				setInfluences(&v, list)
			}
			parts[part].Indices = append(parts[part].Indices, mesh.AddVertex(v))
			pv++
		}
	}

	for _, part := range parts {
		mesh.AddPart(part)
	}
	mesh.ComputeLayout()
	mesh.ComputeBounds()

	logger.Debug("Mesh loaded",
		zap.String("mesh", mesh.ID),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("parts", len(mesh.Parts)))

	b.cache.AddMesh(key, mesh)
	b.file.AddMesh(mesh)
	return mesh
}

func polygonVertex(sm *source.Mesh, cp, pv, p int) scene.Vertex {
	var v scene.Vertex
	if cp >= 0 && cp < len(sm.ControlPoints) {
		v.Position = sm.ControlPoints[cp]
	}

	if len(sm.Normals) != 0 {
		if n, ok := sm.Normals[0].At(cp, pv, p); ok {
			v.Normal, v.HasNormal = n.Vec3(), true
		}
	}
	if len(sm.Tangents) != 0 {
		if t, ok := sm.Tangents[0].At(cp, pv, p); ok {
			v.Tangent, v.HasTangent = t.Vec3(), true
		}
	}
	if len(sm.Binormals) != 0 {
		if bn, ok := sm.Binormals[0].At(cp, pv, p); ok {
			v.Binormal, v.HasBinormal = bn.Vec3(), true
		}
	}
	for i, uvs := range sm.UVs {
		if i >= scene.MaxUVSets {
			break
		}
		if uv, ok := uvs.At(cp, pv, p); ok {
			v.TexCoord[i] = mgl32.Vec2{uv[0], uv[1]}
			v.HasTexCoord[i] = true
		}
	}
	if len(sm.Colors) != 0 {
		if c, ok := sm.Colors[0].At(cp, pv, p); ok {
			v.Diffuse, v.HasDiffuse = c, true
		}
	}
	return v
}

// blendWeights collects per control point joint influences of the first skin.
// Joint index counts only clusters linked to skeleton nodes, matching joint
// order of the mesh skin.
func blendWeights(sm *source.Mesh) [][]influence {
	if len(sm.Skins) == 0 {
		return nil
	}
	count := len(sm.ControlPoints)
	weights := make([][]influence, count)

	joint := 0
	for _, cluster := range sm.Skins[0].Clusters {
		if !isJointCluster(cluster) {
			continue
		}
		for i, cp := range cluster.Indices {
			if i >= len(cluster.Weights) {
				break
			}
			w := cluster.Weights[i]
			if w == 0 || cp < 0 || cp >= count {
				continue
			}
			weights[cp] = append(weights[cp], influence{joint: joint, weight: float32(w)})
		}
		joint++
	}
	return weights
}

func setInfluences(v *scene.Vertex, list []influence) {
	v.HasWeights = true
	for i, inf := range list {
		if i >= maxInfluences {
			break
		}
		v.BlendIndices[i] = float32(inf.joint)
		v.BlendWeights[i] = inf.weight
	}
}

func isJointCluster(c *source.Cluster) bool {
	return c.Link != nil && c.Link.Skeleton
}
