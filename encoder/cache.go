package encoder

import (
	"github.com/mogaika/scene_encoder/scene"
)

// ResourceCache keeps translated meshes and materials keyed by native id,
// so entities shared in the source are translated once.
type ResourceCache struct {
	meshes    map[string]*scene.Mesh
	materials map[string]*scene.Material
}

func NewResourceCache() *ResourceCache {
	return &ResourceCache{
		meshes:    make(map[string]*scene.Mesh),
		materials: make(map[string]*scene.Material),
	}
}

func (c *ResourceCache) AddMesh(key string, m *scene.Mesh) {
	if _, ok := c.meshes[key]; !ok {
		c.meshes[key] = m
	}
}

func (c *ResourceCache) Mesh(key string) *scene.Mesh {
	return c.meshes[key]
}

func (c *ResourceCache) AddMaterial(key string, m *scene.Material) {
	if _, ok := c.materials[key]; !ok {
		c.materials[key] = m
	}
}

func (c *ResourceCache) Material(key string) *scene.Material {
	return c.materials[key]
}
