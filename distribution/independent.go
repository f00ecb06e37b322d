package distribution

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Independent reinterprets the trailing batch dimensions of a base
// distribution as event dimensions, turning a batch of independent
// draws into one joint draw. Wrapping a base distribution in an
// Independent raises its event rank without changing its samples:
// joint log densities and entropies are the sums of the element-wise
// ones over the reinterpreted dimensions.
//
// Event dimensions are always taken from the right of the base batch
// shape.
type Independent struct {
	base Distribution
	dims int // number of trailing batch dimensions reinterpreted as event
}

var _ Distribution = &Independent{}

// NewIndependent returns a new Independent reinterpreting the trailing
// dims batch dimensions of d as event dimensions
func NewIndependent(d Distribution, dims int) (*Independent, error) {
	if dims < 0 || dims > len(d.BatchShape()) {
		return nil, fmt.Errorf("newIndependent: cannot reinterpret %v "+
			"dimensions of batch shape %v", dims, d.BatchShape())
	}

	return &Independent{
		base: d,
		dims: dims,
	}, nil
}

// Name returns the name of the distribution
func (i *Independent) Name() string {
	return fmt.Sprintf("Independent(%v)", i.base.Name())
}

// Dtype returns the data type of samples drawn from the distribution
func (i *Independent) Dtype() tensor.Dtype { return i.base.Dtype() }

// EventShape returns the shape of a single atomic draw: the
// reinterpreted batch dimensions followed by the base event shape
func (i *Independent) EventShape() tensor.Shape {
	batch := i.base.BatchShape()
	event := batch[len(batch)-i.dims:].Clone()
	return append(event, i.base.EventShape()...)
}

// BatchShape returns the base batch shape with the reinterpreted
// trailing dimensions removed
func (i *Independent) BatchShape() tensor.Shape {
	batch := i.base.BatchShape()
	return batch[:len(batch)-i.dims].Clone()
}

// LogProb calculates the joint log probability of x: the base log
// densities summed over the reinterpreted event dimensions
func (i *Independent) LogProb(x *G.Node) (*G.Node, error) {
	if x.Dims() < i.dims {
		return nil, fmt.Errorf("logProb: expected dims >= %v but got %v",
			i.dims, x.Dims())
	}

	x, err := i.base.LogProb(x)
	if err != nil {
		return nil, fmt.Errorf("logProb: could not compute element-wise "+
			"log prob: %v", err)
	}

	return i.sumEventDims(x)
}

// Sample returns a node that generates n samples from the base
// distribution each time the node is passed. Reinterpreting batch
// dimensions does not change the samples themselves.
func (i *Independent) Sample(n int) (*G.Node, error) {
	return i.base.Sample(n)
}

// SampleAndLogProb returns a node that generates n samples together
// with a node holding the joint log probability density of each sample
func (i *Independent) SampleAndLogProb(n int) (*G.Node, *G.Node, error) {
	x, lp, err := i.base.SampleAndLogProb(n)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	lp, err = i.sumEventDims(lp)
	if err != nil {
		return nil, nil, fmt.Errorf("sampleAndLogProb: %v", err)
	}

	return x, lp, nil
}

// Mean returns the mean of the base distribution. Reinterpreting
// batch dimensions does not change moments.
func (i *Independent) Mean() (*G.Node, error) { return i.base.Mean() }

// Mode returns the mode of the base distribution
func (i *Independent) Mode() (*G.Node, error) { return i.base.Mode() }

// Entropy returns the joint entropy: the base entropies summed over
// the reinterpreted event dimensions
func (i *Independent) Entropy() (*G.Node, error) {
	entropy, err := i.base.Entropy()
	if err != nil {
		return nil, fmt.Errorf("entropy: could not take entropy of each "+
			"i.i.d. variable: %v", err)
	}

	return i.sumEventDims(entropy)
}

// sumEventDims sums x over its trailing reinterpreted event dimensions
func (i *Independent) sumEventDims(x *G.Node) (*G.Node, error) {
	var err error
	for j := 0; j < i.dims; j++ {
		x, err = G.Sum(x, x.Dims()-1)
		if err != nil {
			return nil, fmt.Errorf("could not combine event dims: %v", err)
		}
	}

	return x, nil
}
