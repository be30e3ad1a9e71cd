package collada

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

const (
	defaultLayer = "default"

	// maxFrameRate bounds estimated rate of irregular or jittery key times
	maxFrameRate = 120
)

var memberAxis = map[string]int{
	"X": 0, "Y": 1, "Z": 2,
	"(0)": 0, "(1)": 1, "(2)": 2,
}

// target is parsed channel target "node/sid.member"
type target struct {
	node   string
	sid    string
	member string
}

func parseTarget(s string) (target, bool) {
	node, rest, ok := strings.Cut(s, "/")
	if !ok || node == "" || rest == "" {
		return target{}, false
	}
	t := target{node: node, sid: rest}
	if i := strings.IndexAny(rest, ".("); i >= 0 {
		t.sid = rest[:i]
		t.member = strings.TrimPrefix(rest[i:], ".")
	}
	return t, true
}

// frameRate estimates sampling rate from smallest key distance in ms,
// capped at maxFrameRate
func frameRate(times []float64) float64 {
	minDelta := math.MaxFloat64
	for i := 1; i < len(times); i++ {
		if d := times[i] - times[i-1]; d > 0 && d < minDelta {
			minDelta = d
		}
	}
	if minDelta == math.MaxFloat64 {
		return 0
	}
	return math.Min(math.Round(1000/minDelta), maxFrameRate)
}

func (l *loader) layer() *source.AnimLayer {
	if len(l.doc.Layers) == 0 {
		l.doc.Layers = append(l.doc.Layers, &source.AnimLayer{Name: defaultLayer, Stack: defaultLayer})
	}
	return l.doc.Layers[0]
}

func (l *loader) loadAnimations() {
	channels := 0
	var walk func(a *animation)
	walk = func(a *animation) {
		table := newSourceTable(a.Sources)
		samplers := make(map[string]*sampler, len(a.Samplers))
		for _, s := range a.Samplers {
			samplers[string(s.Id)] = s
		}
		for i, ch := range a.Channels {
			s, ok := samplers[fragment(ch.Source)]
			if !ok {
				encerr.Warning(encerr.WarnUnresolvedReference, string(ch.Source), string(a.Id))
				continue
			}
			if l.loadChannel(i, ch.Target, table, s) {
				channels++
			}
		}
		for _, c := range a.Animations {
			walk(c)
		}
	}
	for _, a := range l.ext.Animations {
		walk(a)
	}
	if channels != 0 {
		logger.Debug("collada animations loaded", zap.Int("channels", channels))
	}
}

func (l *loader) loadChannel(index int, targetPath string, table sourceTable, s *sampler) bool {
	t, ok := parseTarget(targetPath)
	if !ok {
		encerr.Warning(encerr.WarnInvalidAnimationTarget, index, targetPath)
		return false
	}
	sn, ok := l.byID[t.node]
	if !ok {
		encerr.Warning(encerr.WarnInvalidAnimationTarget, index, targetPath)
		return false
	}
	var tr *transform
	stack := transforms(l.raw[sn])
	for i := range stack {
		if stack[i].sid == t.sid {
			tr = &stack[i]
			break
		}
	}
	if tr == nil {
		encerr.Warning(encerr.WarnInvalidAnimationTarget, index, targetPath)
		return false
	}

	var input, output *dataSource
	for _, in := range s.Input {
		switch in.Semantic {
		case "INPUT":
			input = table.get(in.Source)
		case "OUTPUT":
			output = table.get(in.Source)
		}
	}
	if input == nil || output == nil {
		encerr.Warning(encerr.WarnUnresolvedReference, string(s.Id), targetPath)
		return false
	}

	seconds := input.floats()
	times := make([]float64, len(seconds))
	for i, sec := range seconds {
		times[i] = sec * 1000
	}
	values := output.floats()
	stride := output.stride()
	fps := frameRate(times)

	curve := func(component int) *source.Curve {
		c := &source.Curve{Times: times, Values: make([]float32, len(times)), FrameRate: fps}
		for i := range times {
			if j := i*stride + component; j < len(values) {
				c.Values[i] = float32(values[j])
			}
		}
		return c
	}

	switch tr.kind {
	case "translate", "scale":
		base := source.CurveTX
		if tr.kind == "scale" {
			base = source.CurveSX
		}
		if t.member == "" {
			for axis := 0; axis < 3 && axis < stride; axis++ {
				sn.SetCurve(l.layer(), base+axis, curve(axis))
			}
			return true
		}
		axis, ok := memberAxis[t.member]
		if !ok {
			break
		}
		sn.SetCurve(l.layer(), base+axis, curve(0))
		return true
	case "rotate":
		if t.member != "ANGLE" && t.member != "(3)" {
			break
		}
		axis := axisIndex(vec3(tr.values, mgl32.Vec3{}))
		if axis < 0 {
			break
		}
		sn.SetCurve(l.layer(), source.CurveRX+axis, curve(0))
		return true
	case "matrix":
		if t.member != "" || stride < 16 {
			break
		}
		var set source.CurveSet
		for c := range set {
			set[c] = &source.Curve{Times: times, Values: make([]float32, len(times)), FrameRate: fps}
		}
		for i := range times {
			if i*stride+16 > len(values) {
				break
			}
			m, _ := rowMajor(values[i*stride : i*stride+16])
			scale, rot, trans := utils.Decompose(m)
			euler := utils.RadiansToDegreeV3(utils.QuatToEuler(rot))
			for axis := 0; axis < 3; axis++ {
				set[source.CurveTX+axis].Values[i] = trans[axis]
				set[source.CurveRX+axis].Values[i] = euler[axis]
				set[source.CurveSX+axis].Values[i] = scale[axis]
			}
		}
		for c := range set {
			sn.SetCurve(l.layer(), c, set[c])
		}
		return true
	}

	encerr.Warning(encerr.WarnInvalidAnimationTarget, index, targetPath+" ("+tr.kind+" "+strconv.Quote(t.member)+")")
	return false
}
