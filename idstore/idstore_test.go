package idstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	s := NewStore()

	for _, c := range []struct {
		name, key string
		want      string
	}{
		{"Box", "1", "Box"},
		{"Box", "2", "Box_0"},
		{"Box", "1", "Box"},
		{"Box", "3", "Box_1"},
		{"Box", "2", "Box_0"},
		{"", "10", "Node"},
		{"", "11", "Node_0"},
		{"Sphere", "1", "Sphere"},
	} {
		assert.Equal(t, c.want, s.Resolve(c.name, c.key), "resolve(%q, %q)", c.name, c.key)
	}
	assert.Equal(t, 6, s.Len())
}

func TestResolveUniquePerKey(t *testing.T) {
	s := NewStore()
	seen := make(map[string]string)
	for i := 0; i < 50; i++ {
		key := string(rune('a'+i%26)) + string(rune('A'+i/26))
		id := s.Resolve("Joint", key)
		if prev, ok := seen[id]; ok {
			assert.Equal(t, prev, key, "id %q reused for different keys", id)
		}
		seen[id] = key
		assert.Equal(t, id, s.Resolve("Joint", key))
	}
	assert.Len(t, seen, 50)
}

func TestLookup(t *testing.T) {
	s := NewStore()
	s.Resolve("Cam", "a")
	s.Resolve("Cam", "b")

	id, ok := s.Lookup("Cam", "b")
	assert.True(t, ok)
	assert.Equal(t, "Cam_0", id)

	_, ok = s.Lookup("Cam", "c")
	assert.False(t, ok)
}
