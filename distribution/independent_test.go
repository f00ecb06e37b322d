package distribution

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// matrixNormal returns a standard Normal with batch shape (2, 3) on g
func matrixNormal(t *testing.T, g *G.ExprGraph) *Normal {
	shape := []int{2, 3}
	size := tensor.ProdInts(shape)

	meanT := tensor.NewDense(
		tensor.Float64,
		shape,
		tensor.WithBacking(make([]float64, size)),
	)
	stddevBacking := make([]float64, size)
	for i := range stddevBacking {
		stddevBacking[i] = 1.0
	}
	stddevT := tensor.NewDense(
		tensor.Float64,
		shape,
		tensor.WithBacking(stddevBacking),
	)

	mean := G.NewMatrix(g, tensor.Float64, G.WithValue(meanT),
		G.WithName("mean"))
	stddev := G.NewMatrix(g, tensor.Float64, G.WithValue(stddevT),
		G.WithName("stddev"))

	n, err := NewNormal(mean, stddev, uint64(11))
	if err != nil {
		t.Fatal(err)
	}

	return n
}

// TestIndependentShapes checks that Independent moves trailing batch
// dimensions into the event shape.
func TestIndependentShapes(t *testing.T) {
	g := G.NewGraph()
	n := matrixNormal(t, g)

	ind, err := NewIndependent(n, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !ind.BatchShape().Eq(tensor.Shape{2}) {
		t.Errorf("expected batch shape (2) but got %v", ind.BatchShape())
	}
	if !ind.EventShape().Eq(tensor.Shape{3}) {
		t.Errorf("expected event shape (3) but got %v", ind.EventShape())
	}

	ind2, err := NewIndependent(n, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ind2.BatchShape()) != 0 {
		t.Errorf("expected empty batch shape but got %v",
			ind2.BatchShape())
	}
	if !ind2.EventShape().Eq(tensor.Shape{2, 3}) {
		t.Errorf("expected event shape (2, 3) but got %v",
			ind2.EventShape())
	}

	if _, err := NewIndependent(n, 3); err == nil {
		t.Error("expected an error reinterpreting more dims than the " +
			"batch shape has")
	}
}

// TestIndependentLogProb checks that the joint log density is the sum
// of the element-wise log densities over the reinterpreted dims.
func TestIndependentLogProb(t *testing.T) {
	const threshold = 0.00001

	g := G.NewGraph()
	n := matrixNormal(t, g)

	ind, err := NewIndependent(n, 2)
	if err != nil {
		t.Fatal(err)
	}

	xBacking := []float64{-1.5, -1.0, -0.5, 0.5, 1.0, 1.5}
	xT := tensor.NewDense(
		tensor.Float64,
		[]int{2, 3},
		tensor.WithBacking(xBacking),
	)
	x := G.NewMatrix(g, tensor.Float64, G.WithValue(xT), G.WithName("x"))

	lp, err := ind.LogProb(x)
	if err != nil {
		t.Fatal(err)
	}
	var lpVal G.Value
	G.Read(lp, &lpVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	ref := distuv.Normal{Mu: 0.0, Sigma: 1.0}
	expected := 0.0
	for _, x := range xBacking {
		expected += ref.LogProb(x)
	}

	lpOut := lpVal.Data().(float64)
	if math.Abs(lpOut-expected) > threshold {
		t.Errorf("expected: %v received: %v", expected, lpOut)
	}
}

// TestIndependentEntropy checks that the joint entropy is the sum of
// the element-wise entropies over the reinterpreted dims.
func TestIndependentEntropy(t *testing.T) {
	const threshold = 0.00001

	g := G.NewGraph()
	n := matrixNormal(t, g)

	ind, err := NewIndependent(n, 1)
	if err != nil {
		t.Fatal(err)
	}

	entropy, err := ind.Entropy()
	if err != nil {
		t.Fatal(err)
	}
	var entropyVal G.Value
	G.Read(entropy, &entropyVal)

	vm := G.NewTapeMachine(g)
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	// Each element is a standard Normal with entropy
	// 0.5*log(2π) + 0.5, and each row sums 3 of them
	expected := 3.0 * (0.5*math.Log(2.0*math.Pi) + 0.5)
	entropyOut := entropyVal.Data().([]float64)
	for i := range entropyOut {
		if math.Abs(entropyOut[i]-expected) > threshold {
			t.Errorf("expected: %v received: %v", expected, entropyOut[i])
		}
	}
}
