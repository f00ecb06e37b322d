package bijector

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestNewScaleShift(t *testing.T) {
	if _, err := NewScaleShift(0.0, 1.0); err == nil {
		t.Error("expected an error for a zero scale")
	}

	s, err := NewScaleShift(2.0, -1.0)
	if err != nil {
		t.Fatal(err)
	}

	if !s.IsConstantJacobian() || !s.IsConstantLogDet() {
		t.Error("an affine map has a constant Jacobian")
	}
	if s.EventNdimsIn() != 0 || s.EventNdimsOut() != 0 {
		t.Error("ScaleShift acts elementwise on scalar events")
	}
}

// TestScaleShiftRoundTrip checks that the inverse undoes the forward
// map and that the two log-determinants are negatives of each other.
func TestScaleShiftRoundTrip(t *testing.T) {
	const threshold = 0.00001

	s, err := NewScaleShift(2.0, -1.0)
	if err != nil {
		t.Fatal(err)
	}

	g := G.NewGraph()
	xBacking := []float64{-2.0, -0.5, 0.0, 1.0, 3.0}
	xT := tensor.NewDense(
		tensor.Float64,
		[]int{len(xBacking)},
		tensor.WithBacking(xBacking),
	)
	x := G.NewVector(g, xT.Dtype(), G.WithValue(xT), G.WithName("x"))

	y, fldj, err := s.ForwardAndLogDet(x)
	if err != nil {
		t.Fatal(err)
	}

	xBack, ildj, err := s.InverseAndLogDet(y)
	if err != nil {
		t.Fatal(err)
	}

	var yVal, fldjVal, xBackVal, ildjVal G.Value
	G.Read(y, &yVal)
	G.Read(fldj, &fldjVal)
	G.Read(xBack, &xBackVal)
	G.Read(ildj, &ildjVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	yOut := yVal.Data().([]float64)
	fldjOut := fldjVal.Data().([]float64)
	xBackOut := xBackVal.Data().([]float64)
	ildjOut := ildjVal.Data().([]float64)

	for i, x := range xBacking {
		expected := 2.0*x - 1.0
		if math.Abs(yOut[i]-expected) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", expected,
				yOut[i], x)
		}
		if math.Abs(xBackOut[i]-x) > threshold {
			t.Errorf("inverse did not undo forward: expected %v but got "+
				"%v", x, xBackOut[i])
		}
		if math.Abs(fldjOut[i]-math.Log(2.0)) > threshold {
			t.Errorf("expected forward log det %v but got %v",
				math.Log(2.0), fldjOut[i])
		}
		if math.Abs(fldjOut[i]+ildjOut[i]) > threshold {
			t.Errorf("log determinants are not negatives: %v and %v",
				fldjOut[i], ildjOut[i])
		}
	}
}
