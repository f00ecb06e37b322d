package distribution

import (
	"fmt"
	"sync"

	"github.com/samuelfneumann/godist"
	"github.com/samuelfneumann/godist/bijector"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Transformed is the distribution of a random variable transformed by
// a bijective function. Let X be a continuous random variable with
// distribution d and let Y = f(X) for a bijector f. Transformed
// implements the distribution of Y, also known as the pushforward of d
// through f.
//
// The probability density of Y follows from the change of variables
// formula:
//
//	log p(y) = log p(x) - log|det J(f)(x)|    where x = f⁻¹(y)
//
// The batch shape, event shape, and dtype of a Transformed are
// inferred on first access by applying the bijector's forward map to a
// value-less placeholder node on a scratch graph. This assumes the
// forward map's output shape and dtype depend only on the input shape
// and dtype, never on input values. The inferred metadata is computed
// once and never changes.
//
// The base distribution and the bijector are treated as read-only, so
// either may be shared between many Transformed values.
type Transformed struct {
	dist Distribution
	bij  bijector.Bijector

	infer      sync.Once
	dtype      tensor.Dtype
	eventShape tensor.Shape
	batchShape tensor.Shape
}

var _ Distribution = &Transformed{}

// NewTransformed returns the distribution of b applied to samples of
// d. The event rank of d must equal the event rank that b consumes;
// otherwise a *ShapeMismatchError is returned. No shape inference
// happens here.
func NewTransformed(d Distribution, b bijector.Bijector) (*Transformed,
	error) {
	if len(d.EventShape()) != b.EventNdimsIn() {
		return nil, &ShapeMismatchError{
			Distribution: d.Name(),
			Bijector:     b.Name(),
			EventShape:   d.EventShape(),
			EventNdimsIn: b.EventNdimsIn(),
		}
	}

	return &Transformed{
		dist: d,
		bij:  b,
	}, nil
}

// Name returns the name of the distribution
func (t *Transformed) Name() string { return "Transformed" }

// Distribution returns the base distribution
func (t *Transformed) Distribution() Distribution { return t.dist }

// Bijector returns the bijector representing the transformation
func (t *Transformed) Bijector() bijector.Bijector { return t.bij }

// Dtype returns the data type of samples drawn from the distribution
func (t *Transformed) Dtype() tensor.Dtype {
	t.infer.Do(t.inferShapesAndDtype)
	return t.dtype
}

// EventShape returns the shape of a single atomic draw
func (t *Transformed) EventShape() tensor.Shape {
	t.infer.Do(t.inferShapesAndDtype)
	return t.eventShape
}

// BatchShape returns the shape of independent draws stacked together
func (t *Transformed) BatchShape() tensor.Shape {
	t.infer.Do(t.inferShapesAndDtype)
	return t.batchShape
}

// inferShapesAndDtype infers the batch shape, event shape, and dtype
// by applying the bijector's forward map to a value-less placeholder
// on a scratch graph. Graph construction propagates shapes and dtypes
// without executing anything, so no data materializes. The three
// fields are two halves of one inferred output shape plus its dtype,
// so they are always computed together.
func (t *Transformed) inferShapesAndDtype() {
	g := G.NewGraph()
	shape := append(t.dist.BatchShape().Clone(), t.dist.EventShape()...)

	var dummy *G.Node
	if len(shape) == 0 {
		dummy = G.NewScalar(g, t.dist.Dtype(), G.WithName("shapeTrace"))
	} else {
		dummy = G.NewTensor(g, t.dist.Dtype(), len(shape),
			G.WithShape(shape...), G.WithName("shapeTrace"))
	}

	y, err := t.bij.Forward(dummy)
	if err != nil {
		// The bijector broke the shape-purity contract of
		// bijector.Bijector: its forward map could not even be built
		// on a placeholder.
		panic(fmt.Sprintf("inferShapesAndDtype: forward of bijector "+
			"%v failed on a value-less placeholder: %v", t.bij.Name(),
			err))
	}

	t.dtype = y.Dtype()

	outShape := y.Shape().Clone()
	out := t.bij.EventNdimsOut()
	if out == 0 {
		t.eventShape = tensor.Shape{}
		t.batchShape = outShape
	} else {
		t.eventShape = outShape[len(outShape)-out:]
		t.batchShape = outShape[:len(outShape)-out]
	}
}

// LogProb returns the log probability density of y under the
// transformed distribution, computed by inverting y through the
// bijector and correcting the base density with the inverse
// log-determinant:
//
//	log p(y) = log p(f⁻¹(y)) + log|det J(f⁻¹)(y)|
//
// Errors from the bijector's inverse are returned unchanged.
func (t *Transformed) LogProb(y *G.Node) (*G.Node, error) {
	x, ildj, err := t.bij.InverseAndLogDet(y)
	if err != nil {
		return nil, err
	}

	lp, err := t.dist.LogProb(x)
	if err != nil {
		return nil, err
	}

	return G.Add(lp, ildj)
}

// Sample returns a node that generates n samples from the transformed
// distribution each time the node is passed. Only the forward
// direction of the bijector is used, so Sample works for bijectors
// whose inverse is not implemented. This function is not
// differentiable.
func (t *Transformed) Sample(n int) (*G.Node, error) {
	x, err := t.dist.Sample(n)
	if err != nil {
		return nil, err
	}

	return t.bij.Forward(x)
}

// SampleAndLogProb returns a node that generates n samples together
// with a node holding their log probability densities. This is more
// efficient than calling Sample and LogProb separately: the base
// distribution's joint primitive provides samples and base densities
// in one pass, and only the forward direction of the bijector is used:
//
//	log p(y) = log p(x) - log|det J(f)(x)|
//
// Note the sign: the forward log-determinant is subtracted, whereas
// LogProb adds the inverse log-determinant.
func (t *Transformed) SampleAndLogProb(n int) (*G.Node, *G.Node,
	error) {
	x, lpX, err := t.dist.SampleAndLogProb(n)
	if err != nil {
		return nil, nil, err
	}

	y, fldj, err := t.bij.ForwardAndLogDet(x)
	if err != nil {
		return nil, nil, err
	}

	lpY, err := G.Sub(lpX, fldj)
	if err != nil {
		return nil, nil, err
	}

	return y, lpY, nil
}

// Mean returns the mean of the transformed distribution. Pushing the
// base mean through the bijector commutes with expectation only for
// bijectors with a constant Jacobian; for any other bijector a
// *NotSupportedError is returned.
func (t *Transformed) Mean() (*G.Node, error) {
	if !t.bij.IsConstantJacobian() {
		return nil, &NotSupportedError{
			Distribution: t.Name(),
			Op:           "mean",
			Reason: fmt.Sprintf("the Jacobian of bijector %v is not "+
				"known to be constant", t.bij.Name()),
		}
	}

	mean, err := t.dist.Mean()
	if err != nil {
		return nil, err
	}

	return t.bij.Forward(mean)
}

// Mode returns the mode of the transformed distribution. The mode is
// preserved under the map only for bijectors with a constant Jacobian
// determinant; for any other bijector a *NotSupportedError is
// returned.
func (t *Transformed) Mode() (*G.Node, error) {
	if !t.bij.IsConstantLogDet() {
		return nil, &NotSupportedError{
			Distribution: t.Name(),
			Op:           "mode",
			Reason: fmt.Sprintf("the Jacobian determinant of bijector "+
				"%v is not known to be constant", t.bij.Name()),
		}
	}

	mode, err := t.dist.Mode()
	if err != nil {
		return nil, err
	}

	return t.bij.Forward(mode)
}

// Entropy returns the Shannon entropy (in nats) of the transformed
// distribution. Equivalent to EntropyWithHint(nil).
func (t *Transformed) Entropy() (*G.Node, error) {
	return t.EntropyWithHint(nil)
}

// EntropyWithHint returns the Shannon entropy (in nats) of the
// transformed distribution. A constant Jacobian determinant shifts the
// base entropy by an input-independent offset:
//
//	H(Y) = H(X) + log|det J(f)|
//
// inputHint is an example input at which the constant forward
// log-determinant is evaluated. If nil, an all-zero node with the
// shape and dtype of a sample from the base distribution is used. For
// bijectors whose Jacobian determinant is not constant a
// *NotSupportedError is returned.
func (t *Transformed) EntropyWithHint(inputHint *G.Node) (*G.Node,
	error) {
	if !t.bij.IsConstantLogDet() {
		return nil, &NotSupportedError{
			Distribution: t.Name(),
			Op:           "entropy",
			Reason: fmt.Sprintf("the Jacobian determinant of bijector "+
				"%v is not known to be constant", t.bij.Name()),
		}
	}

	entropy, err := t.dist.Entropy()
	if err != nil {
		return nil, err
	}

	if inputHint == nil {
		inputHint, err = t.zeroHint(entropy.Graph())
		if err != nil {
			return nil, err
		}
	}

	fldj, err := t.bij.ForwardLogDetJacobian(inputHint)
	if err != nil {
		return nil, err
	}

	return G.Add(entropy, fldj)
}

// zeroHint returns an all-zero node on g with the shape and dtype of a
// sample from the base distribution. Unlike the shape-inference
// placeholder, the hint is value-backed: it takes part in a graph the
// caller will run.
func (t *Transformed) zeroHint(g *G.ExprGraph) (*G.Node, error) {
	shape := append(t.dist.BatchShape().Clone(), t.dist.EventShape()...)
	dt := t.dist.Dtype()

	if len(shape) == 0 {
		switch dt {
		case tensor.Float64:
			return g.Constant(G.NewF64(0.0)), nil

		case tensor.Float32:
			return g.Constant(G.NewF32(0.0)), nil

		default:
			return nil, fmt.Errorf("entropyWithHint: dtype %v not "+
				"supported", dt)
		}
	}

	zeros := tensor.NewDense(dt, []int(shape))

	return G.NewTensor(g, dt, len(shape), G.WithValue(zeros),
		G.WithName(godist.UnixNano("entropyHint"))), nil
}
