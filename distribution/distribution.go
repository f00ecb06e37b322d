// Package distribution provides probability distributions over
// Gorgonia nodes
package distribution

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Distribution is a probability distribution over Gorgonia nodes.
// Densities, samples, and moments are symbolic nodes on an expression
// graph; they take values when the caller runs a VM over that graph.
//
// A Distribution separates the shape of a single draw into two parts.
// The event shape is the shape of one atomic draw, and the batch shape
// is the shape of independent, non-identically-parameterized draws
// stacked together. A sample of n draws has shape
// (n,) ++ batch shape ++ event shape.
type Distribution interface {
	// Name returns the name of the distribution
	Name() string

	// Dtype returns the data type of samples drawn from the
	// distribution
	Dtype() tensor.Dtype

	// EventShape returns the shape of a single atomic draw. A scalar
	// event has the empty shape.
	EventShape() tensor.Shape

	// BatchShape returns the shape of independent draws stacked
	// together
	BatchShape() tensor.Shape

	// Sample returns a node that generates n samples from the
	// distribution each time the node is passed. This function is not
	// differentiable.
	Sample(n int) (*G.Node, error)

	// SampleAndLogProb returns a node that generates n samples
	// together with a node holding the log probability density of
	// each sample. It is never more expensive than calling Sample and
	// LogProb separately.
	SampleAndLogProb(n int) (*G.Node, *G.Node, error)

	// LogProb returns the log of the probability density or mass of
	// the node. The shape of the node must be compatible with the
	// shape of the distribution.
	//
	// If the node has one more dimension than the dimensions of the
	// distribution, then the first dimension of the input node is
	// taken to be the batch dimension. Otherwise, the node must have
	// the same number of dimensions as samples generated from the
	// distribution.
	LogProb(x *G.Node) (*G.Node, error)

	// Mean returns the mean of the distribution. Distributions
	// without a closed-form mean return a *NotSupportedError.
	Mean() (*G.Node, error)

	// Mode returns the mode of the distribution. Distributions
	// without a closed-form mode return a *NotSupportedError.
	Mode() (*G.Node, error)

	// Entropy returns the Shannon entropy (in nats) of the
	// distribution. Distributions without a closed-form entropy
	// return a *NotSupportedError.
	Entropy() (*G.Node, error)
}
