package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type TargetAttribute int

const (
	AnimateScale                TargetAttribute = 1
	AnimateScaleX               TargetAttribute = 2
	AnimateScaleY               TargetAttribute = 3
	AnimateScaleZ               TargetAttribute = 4
	AnimateRotate               TargetAttribute = 8
	AnimateTranslate            TargetAttribute = 9
	AnimateTranslateX           TargetAttribute = 10
	AnimateTranslateY           TargetAttribute = 11
	AnimateTranslateZ           TargetAttribute = 12
	AnimateRotateTranslate      TargetAttribute = 16
	AnimateScaleRotateTranslate TargetAttribute = 17
	AnimateScaleTranslate       TargetAttribute = 18
	AnimateScaleRotate          TargetAttribute = 19
)

// Arity returns count of floats in one key value of the attribute
func (a TargetAttribute) Arity() int {
	switch a {
	case AnimateScale, AnimateTranslate:
		return 3
	case AnimateScaleX, AnimateScaleY, AnimateScaleZ,
		AnimateTranslateX, AnimateTranslateY, AnimateTranslateZ:
		return 1
	case AnimateRotate:
		return 4
	case AnimateRotateTranslate, AnimateScaleRotate:
		return 7
	case AnimateScaleRotateTranslate:
		return 10
	case AnimateScaleTranslate:
		return 6
	}
	return 0
}

func (a TargetAttribute) String() string {
	switch a {
	case AnimateScale:
		return "ANIMATE_SCALE"
	case AnimateScaleX:
		return "ANIMATE_SCALE_X"
	case AnimateScaleY:
		return "ANIMATE_SCALE_Y"
	case AnimateScaleZ:
		return "ANIMATE_SCALE_Z"
	case AnimateRotate:
		return "ANIMATE_ROTATE"
	case AnimateTranslate:
		return "ANIMATE_TRANSLATE"
	case AnimateTranslateX:
		return "ANIMATE_TRANSLATE_X"
	case AnimateTranslateY:
		return "ANIMATE_TRANSLATE_Y"
	case AnimateTranslateZ:
		return "ANIMATE_TRANSLATE_Z"
	case AnimateRotateTranslate:
		return "ANIMATE_ROTATE_TRANSLATE"
	case AnimateScaleRotateTranslate:
		return "ANIMATE_SCALE_ROTATE_TRANSLATE"
	case AnimateScaleTranslate:
		return "ANIMATE_SCALE_TRANSLATE"
	case AnimateScaleRotate:
		return "ANIMATE_SCALE_ROTATE"
	}
	return "UNKNOWN"
}

type Interpolation int

const (
	InterpolationLinear Interpolation = 1
	InterpolationStep   Interpolation = 2
)

func (i Interpolation) String() string {
	if i == InterpolationStep {
		return "STEP"
	}
	return "LINEAR"
}

type AnimationChannel struct {
	TargetID        string
	TargetAttribute TargetAttribute
	Interpolation   Interpolation
	KeyTimes        []float32
	KeyValues       []float32
}

func NewAnimationChannel(target string, attr TargetAttribute) *AnimationChannel {
	return &AnimationChannel{
		TargetID:        target,
		TargetAttribute: attr,
		Interpolation:   InterpolationLinear,
	}
}

// AddSample appends key at time t, picking the components the target
// attribute needs in scale, rotation, translation order.
func (c *AnimationChannel) AddSample(t float32, scale mgl32.Vec3, rot mgl32.Quat, trans mgl32.Vec3) {
	c.KeyTimes = append(c.KeyTimes, t)
	rotation := []float32{rot.V[0], rot.V[1], rot.V[2], rot.W}
	v := c.KeyValues
	switch c.TargetAttribute {
	case AnimateScale:
		v = append(v, scale[:]...)
	case AnimateScaleX:
		v = append(v, scale[0])
	case AnimateScaleY:
		v = append(v, scale[1])
	case AnimateScaleZ:
		v = append(v, scale[2])
	case AnimateRotate:
		v = append(v, rotation...)
	case AnimateTranslate:
		v = append(v, trans[:]...)
	case AnimateTranslateX:
		v = append(v, trans[0])
	case AnimateTranslateY:
		v = append(v, trans[1])
	case AnimateTranslateZ:
		v = append(v, trans[2])
	case AnimateRotateTranslate:
		v = append(append(v, rotation...), trans[:]...)
	case AnimateScaleRotateTranslate:
		v = append(append(append(v, scale[:]...), rotation...), trans[:]...)
	case AnimateScaleTranslate:
		v = append(append(v, scale[:]...), trans[:]...)
	case AnimateScaleRotate:
		v = append(append(v, scale[:]...), rotation...)
	}
	c.KeyValues = v
}

func (c *AnimationChannel) KeyCount() int {
	return len(c.KeyTimes)
}

// Key returns value tuple of key i
func (c *AnimationChannel) Key(i int) []float32 {
	a := c.TargetAttribute.Arity()
	return c.KeyValues[i*a : (i+1)*a]
}

type Animation struct {
	ID       string
	Channels []*AnimationChannel
}

func NewAnimation(id string) *Animation {
	return &Animation{ID: id}
}

func (a *Animation) AddChannel(c *AnimationChannel) {
	a.Channels = append(a.Channels, c)
}
