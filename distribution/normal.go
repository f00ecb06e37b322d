package distribution

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Normal is a univariate normal distribution, which may hold a batch
// of normal distributions simultaneously. If a Normal is created with
// a tensor mean and tensor standard deviation, then each element of
// the mean and standard deviation tensors defines a different
// distribution element-wise. For example, consider if we use a
// 1-tensor for the mean and standard deviation:
//
//	mean   := [m_1, m_2, ..., m_N]
//	stddev := [s_1, s_2, ..., s_N]
//
// Then the Normal is considered to hold the following distributions:
//
//	[𝒩(m_1, s_1), 𝒩(m_2, s_2), ..., 𝒩(m_N, s_N)]
//
// If the mean and standard deviation are scalars, they are expanded to
// vectors of 1 element.
//
// The shape of the mean and standard deviation tensors constitute the
// batch shape of the Normal. Each single draw is a scalar, so the
// event shape is empty.
//
// Any input to any method of the Normal must have a shape that is
// consistent with the batch shape of the Normal. That is, the input
// must have the exact same shape as the Normal, except for possibly
// the sample dimension, which is dimension 0 always. If a sample
// dimension is present, then the method will be run on each sample in
// the batch. Given a Normal with batch shape (n_1, n_2, ..., n_M), the
// following are legal shapes for an input:
//
// 1. (n_1, n_2, ..., n_M)
// 2. (a, n_1, n_2, ..., n_M) for ∀a ∈ ℕ-{0}
//
// Normal supports the following data types:
//   - tensor.Float64
type Normal struct {
	mean    *G.Node
	meanVal G.Value

	stddev    *G.Node
	stddevVal G.Value

	seed uint64
}

var _ Distribution = &Normal{}

// NewNormal returns a new Normal.
func NewNormal(mean, stddev *G.Node, seed uint64) (*Normal, error) {
	if !mean.Shape().Eq(stddev.Shape()) {
		return nil, fmt.Errorf("newNormal: expected mean and stddev to "+
			"have the same shape but got %v and %v", mean.Shape(),
			stddev.Shape())
	}

	if mean.Dtype() != stddev.Dtype() {
		return nil, fmt.Errorf("newNormal: expected mean and stddev to "+
			"have the same data type but got %v and %v", mean.Dtype(),
			stddev.Dtype())
	} else if mean.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("newNormal: data type %v unsupported",
			mean.Dtype())
	}

	var err error
	if mean.IsScalar() {
		mean, err = G.Reshape(mean, []int{1})
		if err != nil {
			return nil, fmt.Errorf("newNormal: could not expand mean to "+
				"shape (1): %v", err)
		}
		stddev, err = G.Reshape(stddev, []int{1})
		if err != nil {
			return nil, fmt.Errorf("newNormal: could not expand stddev "+
				"to shape (1): %v", err)
		}
	}

	normal := &Normal{
		mean:   mean,
		stddev: stddev,
		seed:   seed,
	}

	G.Read(normal.mean, &normal.meanVal)
	G.Read(normal.stddev, &normal.stddevVal)

	return normal, nil
}

// Name returns the name of the distribution
func (n *Normal) Name() string { return "Normal" }

// Dtype returns the data type of samples drawn from the distribution
func (n *Normal) Dtype() tensor.Dtype { return n.mean.Dtype() }

// EventShape returns the shape of a single atomic draw, which for a
// univariate Normal is a scalar
func (n *Normal) EventShape() tensor.Shape { return tensor.Shape{} }

// BatchShape returns the shape of the distributions stored by the
// receiver
func (n *Normal) BatchShape() tensor.Shape { return n.mean.Shape() }

// Prob calculates the probability density of x.
//
// If the receiver holds a batch of normal distributions, then an input
// tensor x should have the same shape as the mean and standard
// deviation tensors, except for perhaps the sample dimension (dim 0).
// If not, an error is returned. For example, if the mean and stddev of
// the Normal are vectors:
//
//	mean   := [m_1, m_2, ..., m_N]
//	stddev := [s_1, s_2, ..., s_N]
//
// Then x should be of the form:
//
//	x 	   := ⎡x_11, x_21, ..., x_N1⎤ ⎫
//			  ⎢x_12, x_22, ..., x_N2⎥ ⎥
//			  ⎢... ... ... ..., ... ⎥ ⎬ ← Sample Dimension
//			  ⎢... ... ... ..., ... ⎥ ⎥
//			  ⎣x_1M, x_2M, ... x_NM ⎦ ⎭
//
// In such a case, there are M samples considered to be in a batch, and
// there are N separate univariate normal distributions.
func (n *Normal) Prob(x *G.Node) (*G.Node, error) {
	x, err := n.fixShape(x)
	if err != nil {
		return nil, fmt.Errorf("prob: %v", err)
	}

	two := x.Graph().Constant(G.NewF64(2.0))
	negativeHalf := x.Graph().Constant(G.NewF64(-0.5))
	rootTwoPi := x.Graph().Constant(G.NewF64(math.Sqrt(math.Pi * 2.)))

	if n.isBatch(x) {
		// Calculate probability of batch
		batchDim := []byte{0}
		x = G.Must(G.BroadcastSub(x, n.mean, nil, batchDim))
		x = G.Must(G.BroadcastHadamardDiv(x, n.stddev, nil, batchDim))
		x = G.Must(G.Pow(x, two))
		x = G.Must(G.HadamardProd(negativeHalf, x))
		x = G.Must(G.Exp(x))
		x = G.Must(G.BroadcastHadamardDiv(x, n.stddev, nil, batchDim))
		x = G.Must(G.HadamardDiv(x, rootTwoPi))
	} else {
		// Calculate probability of single sample
		x = G.Must(G.Sub(x, n.mean))
		x = G.Must(G.HadamardDiv(x, n.stddev))
		x = G.Must(G.Pow(x, two))
		x = G.Must(G.HadamardProd(negativeHalf, x))
		x = G.Must(G.Exp(x))
		x = G.Must(G.HadamardDiv(x, n.stddev))
		x = G.Must(G.HadamardDiv(x, rootTwoPi))
	}

	return x, nil
}

// LogProb calculates the log probability of x. The shape of x is
// treated in the same way as the Prob() method.
func (n *Normal) LogProb(x *G.Node) (*G.Node, error) {
	x, err := n.fixShape(x)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	two := x.Graph().Constant(G.NewF64(2.0))
	negativeHalf := x.Graph().Constant(G.NewF64(-0.5))
	lnRootTwoPi := x.Graph().Constant(G.NewF64(math.Log(math.Sqrt(
		math.Pi * 2.))))

	if n.isBatch(x) {
		// Calculate probability of batch
		batchDim := []byte{0}
		x = G.Must(G.BroadcastSub(x, n.mean, nil, batchDim))
		x = G.Must(G.BroadcastHadamardDiv(x, n.stddev, nil, batchDim))
		x = G.Must(G.Pow(x, two))
		x = G.Must(G.HadamardProd(negativeHalf, x))
		lnStd := G.Must(G.Log(n.stddev))
		x = G.Must(G.BroadcastSub(x, lnStd, nil, batchDim))
		x = G.Must(G.Sub(x, lnRootTwoPi))
	} else {
		// Calculate probability of single sample
		x = G.Must(G.Sub(x, n.mean))
		x = G.Must(G.HadamardDiv(x, n.stddev))
		x = G.Must(G.Pow(x, two))
		x = G.Must(G.HadamardProd(negativeHalf, x))
		lnStd := G.Must(G.Log(n.stddev))
		x = G.Must(G.Sub(x, lnStd))
		x = G.Must(G.Sub(x, lnRootTwoPi))
	}

	return x, nil
}

// Sample returns a node that generates n samples from the
// distribution each time the node is passed. The node has shape
// (n,) ++ batch shape. This function is not differentiable.
func (n *Normal) Sample(numSamples int) (*G.Node, error) {
	op, err := newNormalSampleOp(n.mean.Dtype(), n.seed, numSamples,
		n.mean.Shape()...)
	if err != nil {
		return nil, fmt.Errorf("sample: %v", err)
	}

	return G.ApplyOp(op, n.mean, n.stddev)
}

// SampleAndLogProb returns a node that generates n samples together
// with a node holding the log probability density of each sample.
func (n *Normal) SampleAndLogProb(numSamples int) (*G.Node, *G.Node,
	error) {
	x, err := n.Sample(numSamples)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	lp, err := n.LogProb(x)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	return x, lp, nil
}

// Mean returns the mean of the distribution(s) stored by the receiver
func (n *Normal) Mean() (*G.Node, error) {
	return n.mean, nil
}

// Mode returns the mode of the distribution(s) stored by the
// receiver, which for a Normal coincides with the mean
func (n *Normal) Mode() (*G.Node, error) {
	return n.mean, nil
}

// StdDev returns the standard deviation of the distribution(s)
// stored by the receiver
func (n *Normal) StdDev() *G.Node {
	return n.stddev
}

// Variance returns the variance of the distribution(s) stored by the
// receiver
func (n *Normal) Variance() *G.Node {
	two := n.mean.Graph().Constant(G.NewF64(2.0))
	return G.Must(G.Pow(n.stddev, two))
}

// Entropy returns the entropy of the distribution(s) stored by the
// receiver
func (n *Normal) Entropy() (*G.Node, error) {
	half := n.mean.Graph().Constant(G.NewF64(0.5))
	twoPi := n.mean.Graph().Constant(G.NewF64(math.Pi * 2.0))
	two := n.mean.Graph().Constant(G.NewF64(2.0))

	entropy := G.Must(G.Pow(n.stddev, two))
	entropy = G.Must(G.HadamardProd(entropy, twoPi))
	entropy = G.Must(G.Log(entropy))
	entropy = G.Must(G.HadamardProd(half, entropy))
	entropy = G.Must(G.Add(entropy, half))

	return entropy, nil
}

// isBatch returns whether x is a batch of samples to calculate some
// method on
func (n *Normal) isBatch(x *G.Node) bool {
	return !x.Shape().Eq(n.mean.Shape())
}

// fixShape adjusts the shape of x so that it can be used in some
// method. It returns an error indicating if x is of an invalid shape
// which could not be adjusted.
func (n *Normal) fixShape(x *G.Node) (*G.Node, error) {
	if x.IsScalar() && n.mean.Shape()[0] == 1 {
		return G.Reshape(x, []int{1})

	} else if len(x.Shape()) == 1 && n.mean.Shape()[0] == 1 &&
		x.Shape()[0] != 1 {
		// When distribution shape was inputted as a scalar, then a
		// vector input x indicates a batch of samples -> reshape
		// so batch dims = 0 and shape of samples = dim 1
		return G.Reshape(x, []int{x.Shape()[0], 1})

	} else if n.isBatch(x) && !tensor.Shape(x.Shape()[1:]).Eq(n.BatchShape()) {
		msg := "expected shape to match distribution batch shape %v at " +
			"all dimensions except the sample dimension (dim 0) but got " +
			"x shape %v"
		return nil, fmt.Errorf(msg, n.BatchShape(), x.Shape())

	} else if !n.isBatch(x) && !n.BatchShape().Eq(x.Shape()) {
		msg := "expected shape to match distribution batch shape %v " +
			"but got %v"
		return nil, fmt.Errorf(msg, n.BatchShape(), x.Shape())
	}

	return x, nil
}
