package bijector

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
)

// ScaleShift is the elementwise affine bijection f(x) = scale*x + shift
// with scale ≠ 0. Its Jacobian is constant, so distributions pushed
// through a ScaleShift keep closed-form means, modes, and entropies.
//
// ScaleShift treats each element of its input as a separate event, so
// both EventNdimsIn and EventNdimsOut are 0. The log-determinant in the
// forward direction is log|scale| at every point; the inverse direction
// is its negation.
//
// ScaleShift supports the following data types:
//   - tensor.Float64
//   - tensor.Float32
type ScaleShift struct {
	scale float64
	shift float64
}

// NewScaleShift returns a new ScaleShift
func NewScaleShift(scale, shift float64) (*ScaleShift, error) {
	if scale == 0.0 {
		return nil, fmt.Errorf("newScaleShift: scale must be non-zero " +
			"for the transformation to be invertible")
	}

	return &ScaleShift{
		scale: scale,
		shift: shift,
	}, nil
}

// Name returns the name of the bijector
func (s *ScaleShift) Name() string { return "ScaleShift" }

func (s *ScaleShift) EventNdimsIn() int { return 0 }

func (s *ScaleShift) EventNdimsOut() int { return 0 }

func (s *ScaleShift) IsConstantJacobian() bool { return true }

func (s *ScaleShift) IsConstantLogDet() bool { return true }

// Forward computes scale*x + shift
func (s *ScaleShift) Forward(x *G.Node) (*G.Node, error) {
	scale, shift, err := s.constants(x)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	y, err := G.HadamardProd(x, scale)
	if err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	return G.Add(y, shift)
}

// InverseAndLogDet computes (y - shift) / scale and the inverse
// log-determinant -log|scale|, shaped like y
func (s *ScaleShift) InverseAndLogDet(y *G.Node) (*G.Node, *G.Node,
	error) {
	scale, shift, err := s.constants(y)
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}

	x, err := G.Sub(y, shift)
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}
	x, err = G.HadamardDiv(x, scale)
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}

	ildj, err := fill(y, -math.Log(math.Abs(s.scale)))
	if err != nil {
		return nil, nil, fmt.Errorf("inverseAndLogDet: %v", err)
	}

	return x, ildj, nil
}

// ForwardAndLogDet computes scale*x + shift and the forward
// log-determinant log|scale|, shaped like x
func (s *ScaleShift) ForwardAndLogDet(x *G.Node) (*G.Node, *G.Node,
	error) {
	y, err := s.Forward(x)
	if err != nil {
		return nil, nil, fmt.Errorf("forwardAndLogDet: %v", err)
	}

	fldj, err := s.ForwardLogDetJacobian(x)
	if err != nil {
		return nil, nil, fmt.Errorf("forwardAndLogDet: %v", err)
	}

	return y, fldj, nil
}

// ForwardLogDetJacobian computes log|scale|, shaped like x
func (s *ScaleShift) ForwardLogDetJacobian(x *G.Node) (*G.Node, error) {
	fldj, err := fill(x, math.Log(math.Abs(s.scale)))
	if err != nil {
		return nil, fmt.Errorf("forwardLogDetJacobian: %v", err)
	}

	return fldj, nil
}

// constants returns the scale and shift as constant nodes on the graph
// of x, with the dtype of x
func (s *ScaleShift) constants(x *G.Node) (scale, shift *G.Node,
	err error) {
	scale, err = constant(x, s.scale)
	if err != nil {
		return nil, nil, err
	}

	shift, err = constant(x, s.shift)
	if err != nil {
		return nil, nil, err
	}

	return scale, shift, nil
}

// constant returns v as a constant node on the graph of x, with the
// dtype of x
func constant(x *G.Node, v float64) (*G.Node, error) {
	switch x.Dtype() {
	case G.Float64:
		return x.Graph().Constant(G.NewF64(v)), nil

	case G.Float32:
		return x.Graph().Constant(G.NewF32(float32(v))), nil

	default:
		return nil, fmt.Errorf("constant: dtype %v not supported",
			x.Dtype())
	}
}

// fill returns a node with the shape of x whose every element is v
func fill(x *G.Node, v float64) (*G.Node, error) {
	zero, err := constant(x, 0.0)
	if err != nil {
		return nil, err
	}

	c, err := constant(x, v)
	if err != nil {
		return nil, err
	}

	zeros, err := G.HadamardProd(x, zero)
	if err != nil {
		return nil, err
	}

	return G.Add(zeros, c)
}
