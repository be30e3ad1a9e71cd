package encoder

import (
	"math"

	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

const defaultFrameRate = 30

// ChannelAttributes collapses curve presence flags, indexed by source curve
// constants, into fused channel target attributes. Scale fuses before
// rotation, rotation before translation, leftover axes are emitted alone.
func ChannelAttributes(has [source.CurveCount]bool) []scene.TargetAttribute {
	tx, ty, tz := has[source.CurveTX], has[source.CurveTY], has[source.CurveTZ]
	rx, ry, rz := has[source.CurveRX], has[source.CurveRY], has[source.CurveRZ]
	sx, sy, sz := has[source.CurveSX], has[source.CurveSY], has[source.CurveSZ]

	rot := rx || ry || rz
	fullT := tx && ty && tz

	attrs := make([]scene.TargetAttribute, 0, 4)
	translateAxes := func() {
		if tx {
			attrs = append(attrs, scene.AnimateTranslateX)
		}
		if ty {
			attrs = append(attrs, scene.AnimateTranslateY)
		}
		if tz {
			attrs = append(attrs, scene.AnimateTranslateZ)
		}
	}

	if sx && sy && sz {
		switch {
		case rot && fullT:
			attrs = append(attrs, scene.AnimateScaleRotateTranslate)
		case rot:
			attrs = append(attrs, scene.AnimateScaleRotate)
			translateAxes()
		case fullT:
			attrs = append(attrs, scene.AnimateScaleTranslate)
		default:
			attrs = append(attrs, scene.AnimateScale)
			translateAxes()
		}
		return attrs
	}

	switch {
	case rot && fullT:
		attrs = append(attrs, scene.AnimateRotateTranslate)
	case rot:
		attrs = append(attrs, scene.AnimateRotate)
		translateAxes()
	case fullT:
		attrs = append(attrs, scene.AnimateTranslate)
	default:
		translateAxes()
	}
	if sx {
		attrs = append(attrs, scene.AnimateScaleX)
	}
	if sy {
		attrs = append(attrs, scene.AnimateScaleY)
	}
	if sz {
		attrs = append(attrs, scene.AnimateScaleZ)
	}
	return attrs
}

// AssembleAnimations samples node curves of every animation layer into
// animations of the built file. Must run after Build.
func (b *Builder) AssembleAnimations() {
	if b.file == nil || b.doc == nil {
		return
	}
	groups := b.groupDirectives()

	for _, layer := range b.doc.Layers {
		logger.Debug("Load animation layer", zap.String("layer", layer.Name), zap.String("stack", layer.Stack))
		for _, c := range b.doc.Root.Children {
			b.loadAnimationLayer(layer, c, groups, nil)
		}
	}
}

// groupDirectives maps node id to group animation id. Explicit groups from
// config win; otherwise every top level node is grouped when requested.
func (b *Builder) groupDirectives() map[string]string {
	groups := make(map[string]string)
	for _, g := range b.cfg.Animations.Groups {
		groups[g.Node] = g.Animation
	}
	if len(groups) != 0 {
		return groups
	}

	switch b.cfg.Animations.Group {
	case config.GroupAlways:
	case config.GroupAuto:
		if !b.file.HasSkins() {
			return groups
		}
	default:
		return groups
	}

	for _, ref := range b.file.Scene.Nodes {
		node := b.file.Node(ref)
		if node.IsRoot() {
			groups[node.ID] = node.ID + "_animation"
		}
	}
	logger.Info("Animations grouped by top level node", zap.Int("groups", len(groups)))
	return groups
}

// loadAnimationLayer walks sn subtree; group is the animation of the
// closest grouped ancestor, nil when there is none.
func (b *Builder) loadAnimationLayer(layer *source.AnimLayer, sn *source.Node, groups map[string]string, group *scene.Animation) {
	id := b.nodeID(sn)

	opened := false
	if animID, ok := groups[id]; ok {
		group = b.file.AnimationByID(animID)
		if group == nil {
			group = scene.NewAnimation(animID)
		}
		opened = true
	}

	anim := group
	if anim == nil {
		anim = b.file.AnimationByID(id)
		if anim == nil {
			anim = scene.NewAnimation(id)
		}
	}

	if b.loadAnimationChannels(layer, sn, id, anim) && group == nil {
		b.file.AddAnimation(anim)
	}

	for _, c := range sn.Children {
		b.loadAnimationLayer(layer, c, groups, group)
	}

	if opened && len(group.Channels) != 0 {
		b.file.AddAnimation(group)
	}
}

// loadAnimationChannels samples animated transform of sn into new channels
// of anim, reports whether any channel was added
func (b *Builder) loadAnimationChannels(layer *source.AnimLayer, sn *source.Node, id string, anim *scene.Animation) bool {
	curves := sn.CurveSet(layer)
	if curves == nil {
		return false
	}

	var has [source.CurveCount]bool
	animated := false
	start, stop, frameRate := math.MaxFloat64, -1.0, -math.MaxFloat64
	for i, c := range curves {
		if c == nil || c.KeyCount() == 0 {
			continue
		}
		has[i] = true
		animated = true
		start = math.Min(start, c.Start())
		stop = math.Max(stop, c.Stop())
		frameRate = math.Max(frameRate, c.FrameRate)
	}
	if !animated {
		return false
	}
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	if stop < start {
		stop = start
	}

	attrs := ChannelAttributes(has)
	channels := make([]*scene.AnimationChannel, len(attrs))
	for i, attr := range attrs {
		channels[i] = scene.NewAnimationChannel(id, attr)
		anim.AddChannel(channels[i])
	}

	increment := 1000 / frameRate
	frameCount := int(math.Ceil((stop-start)/increment)) + 1
	for frame := 0; frame < frameCount; frame++ {
		t := start + float64(frame)*increment
		scale, rot, trans := utils.Decompose(sn.EvaluateLocalTransform(layer, t))
		rot = rot.Normalize()
		for _, ch := range channels {
			ch.AddSample(float32(t), scale, rot, trans)
		}
	}

	logger.Debug("Animation channels",
		zap.String("node", id),
		zap.Int("channels", len(channels)),
		zap.Int("frames", frameCount))
	return true
}
