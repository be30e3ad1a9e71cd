package source

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_encoder/utils"
)

type Node struct {
	UniqueID string
	Name     string
	Parent   *Node
	Children []*Node

	Translation mgl32.Vec3
	// Rotation and pre/post rotations are euler angles in degrees
	Rotation       mgl32.Vec3
	Scaling        mgl32.Vec3
	PreRotation    mgl32.Vec3
	PostRotation   mgl32.Vec3
	RotationActive bool
	// RotationOrder applies to Rotation only, pre and post rotations are xyz
	RotationOrder  utils.EulerOrder
	RotationOffset mgl32.Vec3
	RotationPivot  mgl32.Vec3
	ScalingOffset  mgl32.Vec3
	ScalingPivot   mgl32.Vec3

	Mesh      *Mesh
	Camera    *Camera
	Light     *Light
	Skeleton  bool
	Materials []*Material

	Curves map[*AnimLayer]*CurveSet
}

func NewNode(uniqueID, name string) *Node {
	return &Node{
		UniqueID: uniqueID,
		Name:     name,
		Scaling:  mgl32.Vec3{1, 1, 1},
	}
}

func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// LocalMatrix composes
// T * Roff * Rp * Rpre * R * Rpost^-1 * Rp^-1 * Soff * Sp * S * Sp^-1
func (n *Node) LocalMatrix() mgl32.Mat4 {
	return n.compose(n.Translation, n.Rotation, n.Scaling, n.PostRotation)
}

// TRSMatrix composes translation, rotation and scale ignoring pre and post rotation
func (n *Node) TRSMatrix() mgl32.Mat4 {
	return utils.ComposeTRS(n.Translation, n.Rotation, n.Scaling)
}

// LocalMatrixWithPost is LocalMatrix with post rotation replaced
func (n *Node) LocalMatrixWithPost(post mgl32.Vec3) mgl32.Mat4 {
	return n.compose(n.Translation, n.Rotation, n.Scaling, post)
}

func translate(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// compose evaluates the pivot chain; rotation order, pre and post
// rotations only count when rotation is active
func (n *Node) compose(t, r, s, post mgl32.Vec3) mgl32.Mat4 {
	order := utils.EulerXYZ
	m := translate(t).Mul4(translate(n.RotationOffset)).Mul4(translate(n.RotationPivot))
	if n.RotationActive {
		order = n.RotationOrder
		m = m.Mul4(utils.EulerMatrix(n.PreRotation))
	}
	m = m.Mul4(utils.EulerMatrixOrder(r, order))
	if n.RotationActive {
		m = m.Mul4(utils.EulerMatrix(post).Inv())
	}
	m = m.Mul4(translate(n.RotationPivot.Mul(-1)))
	m = m.Mul4(translate(n.ScalingOffset)).Mul4(translate(n.ScalingPivot))
	m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	return m.Mul4(translate(n.ScalingPivot.Mul(-1)))
}

// EvaluateLocalTransform returns local matrix at time ms of layer, animated
// components override static ones
func (n *Node) EvaluateLocalTransform(layer *AnimLayer, timeMs float64) mgl32.Mat4 {
	cs := n.CurveSet(layer)
	if cs == nil {
		return n.LocalMatrix()
	}
	t, r, s := n.Translation, n.Rotation, n.Scaling
	for i := 0; i < 3; i++ {
		if c := cs[CurveTX+i]; c != nil {
			t[i] = c.Evaluate(timeMs)
		}
		if c := cs[CurveRX+i]; c != nil {
			r[i] = c.Evaluate(timeMs)
		}
		if c := cs[CurveSX+i]; c != nil {
			s[i] = c.Evaluate(timeMs)
		}
	}
	return n.compose(t, r, s, n.PostRotation)
}

func (n *Node) CurveSet(layer *AnimLayer) *CurveSet {
	if n.Curves == nil {
		return nil
	}
	return n.Curves[layer]
}

// SetCurve attaches curve to layer for the channel
func (n *Node) SetCurve(layer *AnimLayer, channel int, c *Curve) {
	if n.Curves == nil {
		n.Curves = make(map[*AnimLayer]*CurveSet)
	}
	cs, ok := n.Curves[layer]
	if !ok {
		cs = &CurveSet{}
		n.Curves[layer] = cs
	}
	cs[channel] = c
}
