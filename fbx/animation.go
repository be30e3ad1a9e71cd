package fbx

import (
	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/source"
)

var curveNodeChannels = map[string]int{
	"Lcl Translation": source.CurveTX,
	"Lcl Rotation":    source.CurveRX,
	"Lcl Scaling":     source.CurveSX,
}

var curveAxes = map[string]int{"d|X": 0, "d|Y": 1, "d|Z": 2}

func (l *loader) loadCurve(o *cache.Object) *source.Curve {
	times := toInt64s(attr(child(o.Node, "KeyTime"), 0))
	values := childFloats(o.Node, "KeyValueFloat")
	if len(values) < len(times) {
		times = times[:len(values)]
	}

	c := &source.Curve{
		Times:     make([]float64, len(times)),
		Values:    make([]float32, len(times)),
		FrameRate: l.frameRate,
	}
	for i, t := range times {
		c.Times[i] = ticksToMs(t)
		c.Values[i] = float32(values[i])
	}
	return c
}

func (l *loader) loadAnimations() {
	layers := make(map[int64]*source.AnimLayer)
	for _, so := range l.c.ObjectsOf("AnimationStack") {
		for _, lo := range so.ChildrenOf("AnimationLayer") {
			layer := &source.AnimLayer{Name: lo.Name, Stack: so.Name}
			layers[lo.ID] = layer
			l.doc.Layers = append(l.doc.Layers, layer)
		}
	}

	curves := make(map[int64]*source.Curve)
	for _, cn := range l.c.ObjectsOf("AnimationCurveNode") {
		lo := cn.Parent("AnimationLayer")
		if lo == nil || layers[lo.ID] == nil {
			continue
		}
		layer := layers[lo.ID]

		for _, target := range cn.Parents {
			base, ok := curveNodeChannels[target.Property]
			if !ok || target.Object.Class != "Model" {
				continue
			}
			node := l.nodes[target.Object.ID]
			if node == nil {
				encerr.Warning(encerr.WarnUnresolvedReference, target.Object.Name, describe(cn))
				continue
			}

			for _, cl := range cn.Children {
				axis, ok := curveAxes[cl.Property]
				if !ok || cl.Object.Class != "AnimationCurve" {
					continue
				}
				c, ok := curves[cl.Object.ID]
				if !ok {
					c = l.loadCurve(cl.Object)
					curves[cl.Object.ID] = c
				}
				if c.KeyCount() != 0 {
					node.SetCurve(layer, base+axis, c)
				}
			}
		}
	}
}
