package source

import "sort"

const (
	CurveTX = iota
	CurveTY
	CurveTZ
	CurveRX
	CurveRY
	CurveRZ
	CurveSX
	CurveSY
	CurveSZ
	CurveCount
)

type CurveSet [CurveCount]*Curve

// Curve holds keys of one scalar channel, times in milliseconds
type Curve struct {
	Times     []float64
	Values    []float32
	FrameRate float64
}

func (c *Curve) KeyCount() int {
	return len(c.Times)
}

func (c *Curve) Start() float64 {
	if len(c.Times) == 0 {
		return 0
	}
	return c.Times[0]
}

func (c *Curve) Stop() float64 {
	if len(c.Times) == 0 {
		return 0
	}
	return c.Times[len(c.Times)-1]
}

// Evaluate linearly interpolates value at t, clamping outside of key range
func (c *Curve) Evaluate(t float64) float32 {
	n := len(c.Times)
	if n == 0 {
		return 0
	}
	if t <= c.Times[0] {
		return c.Values[0]
	}
	if t >= c.Times[n-1] {
		return c.Values[n-1]
	}
	i := sort.SearchFloat64s(c.Times, t)
	if c.Times[i] == t {
		return c.Values[i]
	}
	t0, t1 := c.Times[i-1], c.Times[i]
	v0, v1 := c.Values[i-1], c.Values[i]
	k := float32((t - t0) / (t1 - t0))
	return v0 + (v1-v0)*k
}
