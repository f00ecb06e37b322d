package distribution

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Uniform is a continuous uniform distribution on the interval
// [low, high), which may hold a batch of uniform distributions
// simultaneously. If a Uniform is created with tensor bounds, then
// each element of the low and high tensors defines a different
// distribution element-wise, exactly as with Normal. If the bounds are
// scalars, they are expanded to vectors of 1 element.
//
// The shape of the bound tensors constitutes the batch shape of the
// Uniform. Each single draw is a scalar, so the event shape is empty.
//
// Inputs to methods of the Uniform follow the same shape rules as
// Normal: either the batch shape exactly, or the batch shape with one
// extra leading sample dimension (dim 0).
//
// Uniform supports the following data types:
//   - tensor.Float64
type Uniform struct {
	low    *G.Node
	lowVal G.Value

	high    *G.Node
	highVal G.Value

	seed uint64
}

var _ Distribution = &Uniform{}

// NewUniform returns a new Uniform with bounds low and high. The
// bounds must have the same shape and dtype. Whether low < high
// element-wise is not checked; violating it yields densities that are
// NaN when run.
func NewUniform(low, high *G.Node, seed uint64) (*Uniform, error) {
	if !low.Shape().Eq(high.Shape()) {
		return nil, fmt.Errorf("newUniform: expected low and high to "+
			"have the same shape but got %v and %v", low.Shape(),
			high.Shape())
	}

	if low.Dtype() != high.Dtype() {
		return nil, fmt.Errorf("newUniform: expected low and high to "+
			"have the same data type but got %v and %v", low.Dtype(),
			high.Dtype())
	} else if low.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("newUniform: data type %v unsupported",
			low.Dtype())
	}

	var err error
	if low.IsScalar() {
		low, err = G.Reshape(low, []int{1})
		if err != nil {
			return nil, fmt.Errorf("newUniform: could not expand low to "+
				"shape (1): %v", err)
		}
		high, err = G.Reshape(high, []int{1})
		if err != nil {
			return nil, fmt.Errorf("newUniform: could not expand high "+
				"to shape (1): %v", err)
		}
	}

	uniform := &Uniform{
		low:  low,
		high: high,
		seed: seed,
	}

	G.Read(uniform.low, &uniform.lowVal)
	G.Read(uniform.high, &uniform.highVal)

	return uniform, nil
}

// Name returns the name of the distribution
func (u *Uniform) Name() string { return "Uniform" }

// Dtype returns the data type of samples drawn from the distribution
func (u *Uniform) Dtype() tensor.Dtype { return u.low.Dtype() }

// EventShape returns the shape of a single atomic draw, which for a
// univariate Uniform is a scalar
func (u *Uniform) EventShape() tensor.Shape { return tensor.Shape{} }

// BatchShape returns the shape of the distributions stored by the
// receiver
func (u *Uniform) BatchShape() tensor.Shape { return u.low.Shape() }

// LogProb calculates the log probability of x. The density is
// 1/(high-low) inside the support, so the log density is
// -log(high-low) inside the support and -Inf outside it. The shape of
// x is treated in the same way as Normal's Prob() method.
func (u *Uniform) LogProb(x *G.Node) (*G.Node, error) {
	x, err := u.fixShape(x)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	width := G.Must(G.Sub(u.high, u.low))
	logWidth := G.Must(G.Log(width))

	if u.isBatch(x) {
		batchDim := []byte{0}
		mask := G.Must(G.BroadcastGte(x, u.low, true, nil, batchDim))
		leHigh := G.Must(G.BroadcastLte(x, u.high, true, nil, batchDim))
		mask = G.Must(G.HadamardProd(mask, leHigh))

		// log(mask) is 0 inside the support and -Inf outside it
		x = G.Must(G.Log(mask))
		x = G.Must(G.BroadcastSub(x, logWidth, nil, batchDim))
	} else {
		mask := G.Must(G.Gte(x, u.low, true))
		leHigh := G.Must(G.Lte(x, u.high, true))
		mask = G.Must(G.HadamardProd(mask, leHigh))

		x = G.Must(G.Log(mask))
		x = G.Must(G.Sub(x, logWidth))
	}

	return x, nil
}

// Prob calculates the probability density of x: 1/(high-low) inside
// the support and 0 outside it. The shape of x is treated in the same
// way as Normal's Prob() method.
func (u *Uniform) Prob(x *G.Node) (*G.Node, error) {
	x, err := u.fixShape(x)
	if err != nil {
		return nil, fmt.Errorf("prob: %v", err)
	}

	width := G.Must(G.Sub(u.high, u.low))

	if u.isBatch(x) {
		batchDim := []byte{0}
		mask := G.Must(G.BroadcastGte(x, u.low, true, nil, batchDim))
		leHigh := G.Must(G.BroadcastLte(x, u.high, true, nil, batchDim))
		mask = G.Must(G.HadamardProd(mask, leHigh))

		x = G.Must(G.BroadcastHadamardDiv(mask, width, nil, batchDim))
	} else {
		mask := G.Must(G.Gte(x, u.low, true))
		leHigh := G.Must(G.Lte(x, u.high, true))
		mask = G.Must(G.HadamardProd(mask, leHigh))

		x = G.Must(G.HadamardDiv(mask, width))
	}

	return x, nil
}

// Sample returns a node that generates n samples from the
// distribution each time the node is passed. The node has shape
// (n,) ++ batch shape. This function is not differentiable.
func (u *Uniform) Sample(numSamples int) (*G.Node, error) {
	op, err := newUniformSampleOp(u.low.Dtype(), u.seed, numSamples,
		u.low.Shape()...)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	return G.ApplyOp(op, u.low, u.high)
}

// SampleAndLogProb returns a node that generates n samples together
// with a node holding the log probability density of each sample.
func (u *Uniform) SampleAndLogProb(numSamples int) (*G.Node, *G.Node,
	error) {
	x, err := u.Sample(numSamples)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	lp, err := u.LogProb(x)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	return x, lp, nil
}

// Mean returns the mean of the distribution(s) stored by the
// receiver, (low+high)/2
func (u *Uniform) Mean() (*G.Node, error) {
	two := u.low.Graph().Constant(G.NewF64(2.0))

	mean, err := G.Add(u.low, u.high)
	if err != nil {
		return nil, fmt.Errorf("mean: %v", err)
	}

	return G.HadamardDiv(mean, two)
}

// Mode returns a *NotSupportedError: every point in the support of a
// uniform distribution has equal density, so no single mode exists
func (u *Uniform) Mode() (*G.Node, error) {
	return nil, &NotSupportedError{
		Distribution: u.Name(),
		Op:           "mode",
		Reason: "every point in the support has equal density, so " +
			"no single mode exists",
	}
}

// Entropy returns the entropy of the distribution(s) stored by the
// receiver, log(high-low)
func (u *Uniform) Entropy() (*G.Node, error) {
	width, err := G.Sub(u.high, u.low)
	if err != nil {
		return nil, fmt.Errorf("entropy: %v", err)
	}

	return G.Log(width)
}

// isBatch returns whether x is a batch of samples to calculate some
// method on
func (u *Uniform) isBatch(x *G.Node) bool {
	return !x.Shape().Eq(u.low.Shape())
}

// fixShape adjusts the shape of x so that it can be used in some
// method. It returns an error indicating if x is of an invalid shape
// which could not be adjusted.
func (u *Uniform) fixShape(x *G.Node) (*G.Node, error) {
	if x.IsScalar() && u.low.Shape()[0] == 1 {
		return G.Reshape(x, []int{1})

	} else if len(x.Shape()) == 1 && u.low.Shape()[0] == 1 &&
		x.Shape()[0] != 1 {
		// A vector input to a scalar-bound Uniform is a batch of
		// samples -> reshape so the sample dim is dim 0
		return G.Reshape(x, []int{x.Shape()[0], 1})

	} else if u.isBatch(x) && !tensor.Shape(x.Shape()[1:]).Eq(u.BatchShape()) {
		msg := "expected shape to match distribution batch shape %v at " +
			"all dimensions except the sample dimension (dim 0) but got " +
			"x shape %v"
		return nil, fmt.Errorf(msg, u.BatchShape(), x.Shape())

	} else if !u.isBatch(x) && !u.BatchShape().Eq(x.Shape()) {
		msg := "expected shape to match distribution batch shape %v " +
			"but got %v"
		return nil, fmt.Errorf(msg, u.BatchShape(), x.Shape())
	}

	return x, nil
}
