package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	c := NewCache()
	c.Add(&Object{ID: 1, Class: "Model", Name: "Box"})
	c.Add(&Object{ID: 2, Class: "Geometry"})
	c.Add(&Object{ID: 3, Class: "Texture"})
	c.Add(&Object{ID: 4, Class: "Material"})

	assert.True(t, c.Connect(2, 1, ""))
	assert.True(t, c.Connect(4, 1, ""))
	assert.True(t, c.Connect(3, 4, "DiffuseColor"))
	assert.False(t, c.Connect(5, 1, ""))

	box := c.Get(1)
	require.NotNil(t, box)
	assert.Len(t, box.ChildrenOf(""), 2)
	require.Len(t, box.ChildrenOf("Geometry"), 1)
	assert.Equal(t, int64(2), box.ChildrenOf("Geometry")[0].ID)

	mat := c.Get(4)
	require.Len(t, mat.ChildrenByProperty("DiffuseColor"), 1)
	assert.Empty(t, mat.ChildrenByProperty("NormalMap"))
	assert.Same(t, box, mat.Parent("Model"))
	assert.Nil(t, mat.Parent("Geometry"))

	assert.Nil(t, c.Get(42))
	assert.Len(t, c.Objects(), 4)
	assert.Len(t, c.ObjectsOf("Texture"), 1)
}
