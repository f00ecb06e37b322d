package bijector

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// TestExpRoundTrip checks the forward map, its inverse, and the
// log-determinants in both directions.
func TestExpRoundTrip(t *testing.T) {
	const threshold = 0.00001

	e := NewExp()

	if e.IsConstantJacobian() || e.IsConstantLogDet() {
		t.Error("the Jacobian of exp depends on the input point")
	}

	g := G.NewGraph()
	xBacking := []float64{-2.0, -0.5, 0.0, 1.0, 3.0}
	xT := tensor.NewDense(
		tensor.Float64,
		[]int{len(xBacking)},
		tensor.WithBacking(xBacking),
	)
	x := G.NewVector(g, xT.Dtype(), G.WithValue(xT), G.WithName("x"))

	y, fldj, err := e.ForwardAndLogDet(x)
	if err != nil {
		t.Fatal(err)
	}

	xBack, ildj, err := e.InverseAndLogDet(y)
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
		if math.Abs(yOut[i]-math.Exp(x)) > threshold {
			t.Errorf("expected: %v received: %v for x: %v", math.Exp(x),
				yOut[i], x)
		}
		if math.Abs(xBackOut[i]-x) > threshold {
			t.Errorf("inverse did not undo forward: expected %v but got "+
				"%v", x, xBackOut[i])
		}

		// d/dx eˣ = eˣ, so the forward log det at x is x itself
		if math.Abs(fldjOut[i]-x) > threshold {
			t.Errorf("expected forward log det %v but got %v", x,
				fldjOut[i])
		}
		if math.Abs(fldjOut[i]+ildjOut[i]) > threshold {
			t.Errorf("log determinants are not negatives: %v and %v",
				fldjOut[i], ildjOut[i])
		}
	}
}
