package distribution

import (
	"fmt"
	"hash"

	"golang.org/x/exp/rand"

	"github.com/chewxy/hm"
	"github.com/samuelfneumann/godist"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// uniformSampleOp draws a fixed number of samples from a batch of
// uniform distributions each time it runs. The op takes the low and
// high bound tensors as inputs and outputs a tensor of shape
// (numSamples,) ++ shape.
type uniformSampleOp struct {
	dt         tensor.Dtype
	shape      tensor.Shape
	dist       distuv.Uniform
	source     rand.Source
	numSamples int
}

func newUniformSampleOp(dt tensor.Dtype, seed uint64, numSamples int,
	shape ...int) (*uniformSampleOp, error) {
	if dt != tensor.Float64 && dt != tensor.Float32 {
		return nil, fmt.Errorf("newUniformSampleOp: dtype %v not supported",
			dt)
	}

	source := rand.NewSource(seed)

	return &uniformSampleOp{
		dt:     dt,
		shape:  tensor.Shape(shape),
		source: source,
		dist: distuv.Uniform{
			Min: 0.0,
			Max: 1.0,
			Src: source,
		},
		numSamples: numSamples,
	}, nil
}

func (u *uniformSampleOp) Arity() int { return 2 }

func (u *uniformSampleOp) Type() hm.Type {
	in := G.TensorType{
		Dims: u.shape.Dims(),
		Of:   u.dt,
	}
	out := G.TensorType{
		Dims: u.shape.Dims() + 1,
		Of:   u.dt,
	}

	return hm.NewFnType(in, in, out)
}

func (u *uniformSampleOp) InferShape(...G.DimSizer) (tensor.Shape, error) {
	return append(tensor.Shape{u.numSamples}, u.shape...), nil
}

func (u *uniformSampleOp) ReturnsPtr() bool { return false }

func (u *uniformSampleOp) CallsExtern() bool { return false }

func (u *uniformSampleOp) OverwritesInput() int { return -1 }

func (u *uniformSampleOp) String() string {
	return fmt.Sprintf("UniformSample{shape=%v}()", u.shape)
}

func (u *uniformSampleOp) WriteHash(h hash.Hash) {
	fmt.Fprint(h, u.String())
}

func (u *uniformSampleOp) Hashcode() uint32 {
	return godist.SimpleHash(u)
}

func (u *uniformSampleOp) Do(inputs ...G.Value) (G.Value, error) {
	if err := u.checkInputs(inputs...); err != nil {
		return nil, fmt.Errorf("do: %v", err)
	}

	out := tensor.NewDense(
		u.dt,
		append([]int{u.numSamples}, u.shape...),
	)

	low := inputs[0].(tensor.Tensor)
	high := inputs[1].(tensor.Tensor)

	// Create the distributions and sample
	for i := 0; i < low.Size(); i++ {
		coords, err := tensor.Itol(i, low.Shape(), low.Strides())
		if err != nil {
			return nil, fmt.Errorf("do: could not get coords at index %v", i)
		}

		currentLow, err := low.At(coords...)
		if err != nil {
			return nil, fmt.Errorf("do: could not get low at index %v", i)
		}
		currentHigh, err := high.At(coords...)
		if err != nil {
			return nil, fmt.Errorf("do: could not get high at index %v", i)
		}

		u.dist.Min = currentLow.(float64)
		u.dist.Max = currentHigh.(float64)

		outCoords := append([]int{0}, coords...)
		for j := 0; j < u.numSamples; j++ {
			outCoords[0] = j

			if u.dt == tensor.Float64 {
				out.SetAt(u.dist.Rand(), outCoords...)
			} else {
				out.SetAt(float32(u.dist.Rand()), outCoords...)
			}
		}
	}

	return out, nil
}

func (u *uniformSampleOp) checkInputs(inputs ...G.Value) error {
	if err := godist.CheckArity(u, len(inputs)); err != nil {
		return err
	}

	low := inputs[0].(tensor.Tensor)
	if low == nil {
		return fmt.Errorf("cannot sample from nil low bound")
	} else if low.Size() == 0 {
		return fmt.Errorf("cannot sample from empty low bound tensor")
	} else if !low.Shape().Eq(u.shape) {
		return fmt.Errorf("expected low to have shape %v but got %v",
			u.shape, low.Shape())
	} else if !low.Dtype().Eq(u.dt) {
		return fmt.Errorf("expected low to have dtype %v but got %v",
			u.dt, low.Dtype())
	}

	high := inputs[1].(tensor.Tensor)
	if high == nil {
		return fmt.Errorf("cannot sample from nil high bound")
	} else if high.Size() == 0 {
		return fmt.Errorf("cannot sample from empty high bound tensor")
	} else if !high.Shape().Eq(u.shape) {
		return fmt.Errorf("expected high to have shape %v but got %v",
			u.shape, high.Shape())
	} else if !high.Dtype().Eq(u.dt) {
		return fmt.Errorf("expected high to have dtype %v but got %v",
			u.dt, high.Dtype())
	}

	return nil
}
