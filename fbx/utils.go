package fbx

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	rawfbx "github.com/mogaika/fbx"

	"github.com/mogaika/scene_encoder/utils"
)

const nameSeparator = "\x00\x01"

// ticksPerSecond is the fbx time unit
const ticksPerSecond = 46186158000

func child(n *rawfbx.Node, name string) *rawfbx.Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Nodes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func children(n *rawfbx.Node, name string) []*rawfbx.Node {
	res := make([]*rawfbx.Node, 0)
	if n == nil {
		return res
	}
	for _, c := range n.Nodes {
		if c.Name == name {
			res = append(res, c)
		}
	}
	return res
}

func attr(n *rawfbx.Node, i int) interface{} {
	if n == nil || i >= len(n.Properties) {
		return nil
	}
	return n.Properties[i]
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint8:
		return int64(x), true
	case int:
		return int64(x), true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return ""
}

func toFloats(v interface{}) []float64 {
	switch x := v.(type) {
	case []float64:
		return x
	case []float32:
		return utils.FloatArray32to64(x)
	case []int32:
		res := make([]float64, len(x))
		for i, f := range x {
			res[i] = float64(f)
		}
		return res
	case []int64:
		res := make([]float64, len(x))
		for i, f := range x {
			res[i] = float64(f)
		}
		return res
	}
	return nil
}

func toInts(v interface{}) []int {
	switch x := v.(type) {
	case []int32:
		res := make([]int, len(x))
		for i, f := range x {
			res[i] = int(f)
		}
		return res
	case []int64:
		res := make([]int, len(x))
		for i, f := range x {
			res[i] = int(f)
		}
		return res
	case []int:
		return x
	}
	return nil
}

func toInt64s(v interface{}) []int64 {
	switch x := v.(type) {
	case []int64:
		return x
	case []int32:
		res := make([]int64, len(x))
		for i, f := range x {
			res[i] = int64(f)
		}
		return res
	}
	return nil
}

// childFloats returns array payload of named child node
func childFloats(n *rawfbx.Node, name string) []float64 {
	return toFloats(attr(child(n, name), 0))
}

func childInts(n *rawfbx.Node, name string) []int {
	return toInts(attr(child(n, name), 0))
}

func childString(n *rawfbx.Node, name string) string {
	return toString(attr(child(n, name), 0))
}

// splitName strips class suffix from "Name\x00\x01Class"
func splitName(raw string) string {
	if i := strings.Index(raw, nameSeparator); i >= 0 {
		raw = raw[:i]
	} else if i := strings.Index(raw, "::"); i >= 0 {
		// fbx 6 style "Model::Name"
		raw = raw[i+2:]
	}
	return raw
}

func matrix(v []float64) (mgl32.Mat4, bool) {
	if len(v) != 16 {
		return mgl32.Ident4(), false
	}
	var m mgl32.Mat4
	for i := range m {
		m[i] = float32(v[i])
	}
	return m, true
}

func ticksToMs(t int64) float64 {
	return float64(t) / ticksPerSecond * 1000
}

// properties resolves Properties70 values with fallback to object type template
type properties struct {
	own      map[string]*rawfbx.Node
	template *properties
}

func newProperties(n *rawfbx.Node, template *properties) *properties {
	p := &properties{own: make(map[string]*rawfbx.Node), template: template}
	for _, pn := range children(child(n, "Properties70"), "P") {
		p.own[toString(attr(pn, 0))] = pn
	}
	return p
}

func (p *properties) lookup(name string) *rawfbx.Node {
	for cur := p; cur != nil; cur = cur.template {
		if pn, ok := cur.own[name]; ok {
			return pn
		}
	}
	return nil
}

func (p *properties) has(name string) bool {
	return p.lookup(name) != nil
}

// value returns i-th value of property, values follow name, type, purpose
// and flags
func (p *properties) value(name string, i int) interface{} {
	return attr(p.lookup(name), 4+i)
}

func (p *properties) number(name string, def float64) float64 {
	if f, ok := toFloat64(p.value(name, 0)); ok {
		return f
	}
	return def
}

func (p *properties) integer(name string, def int) int {
	if i, ok := toInt64(p.value(name, 0)); ok {
		return int(i)
	}
	return def
}

func (p *properties) flag(name string, def bool) bool {
	if i, ok := toInt64(p.value(name, 0)); ok {
		return i != 0
	}
	return def
}

func (p *properties) text(name string, def string) string {
	if v := p.value(name, 0); v != nil {
		return toString(v)
	}
	return def
}

func (p *properties) vec3(name string, def mgl32.Vec3) mgl32.Vec3 {
	pn := p.lookup(name)
	if pn == nil {
		return def
	}
	var v mgl32.Vec3
	for i := range v {
		f, ok := toFloat64(attr(pn, 4+i))
		if !ok {
			return def
		}
		v[i] = float32(f)
	}
	return v
}
